// Package schema validates stored log lines against the CUE definitions in
// records.cue.
//
// Decoding a line into record.Receipt is deliberately lenient; the validator
// is the strict check used by tooling to find lines the store would skip or
// half-read (missing required fields, out-of-range addressIndex, wrong types).
package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed records.cue
var recordsCUE string

// ErrNotJSON is returned for lines that are not a JSON document.
var ErrNotJSON = errors.New("line is not valid JSON")

// ValidationError lists every constraint a line violates.
type ValidationError struct {
	Definition string
	Problems   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Definition, strings.Join(e.Problems, "; "))
}

// Validator checks lines against the record definitions.
// A Validator is not safe for concurrent use.
type Validator struct {
	ctx     *cue.Context
	receipt cue.Value
	errRec  cue.Value
}

// NewValidator compiles the embedded definitions.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(recordsCUE, cue.Filename("records.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}

	receipt := v.LookupPath(cue.ParsePath("#Receipt"))
	if !receipt.Exists() {
		return nil, errors.New("record schema: #Receipt not defined")
	}
	errRec := v.LookupPath(cue.ParsePath("#Error"))
	if !errRec.Exists() {
		return nil, errors.New("record schema: #Error not defined")
	}

	return &Validator{ctx: ctx, receipt: receipt, errRec: errRec}, nil
}

// ValidateReceipt checks one receipts.jsonl line.
func (v *Validator) ValidateReceipt(line []byte) error {
	return v.validate("#Receipt", v.receipt, line)
}

// ValidateError checks one errors.jsonl line.
func (v *Validator) ValidateError(line []byte) error {
	return v.validate("#Error", v.errRec, line)
}

func (v *Validator) validate(name string, def cue.Value, line []byte) error {
	// CUE accepts a superset of JSON, so reject non-JSON input first
	if !json.Valid(line) {
		return ErrNotJSON
	}

	data := v.ctx.CompileBytes(line, cue.Filename("line.json"))
	if err := data.Err(); err != nil {
		return fmt.Errorf("compile line: %w", err)
	}

	unified := def.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return newValidationError(name, err)
	}
	return nil
}

func newValidationError(name string, err error) *ValidationError {
	ve := &ValidationError{Definition: name}
	for _, e := range cueerrors.Errors(err) {
		ve.Problems = append(ve.Problems, e.Error())
	}
	if len(ve.Problems) == 0 {
		ve.Problems = []string{err.Error()}
	}
	return ve
}
