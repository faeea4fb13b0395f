package logstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/roach88/minelog/internal/record"
)

// AppendReceipt appends r to the receipts log.
// Failures are logged and the record is dropped; the caller is never interrupted.
func (s *Store) AppendReceipt(r record.Receipt) {
	s.append(ChannelReceipts, r)
}

// AppendError appends e to the errors log.
// Failures are logged and the record is dropped; the caller is never interrupted.
func (s *Store) AppendError(e record.ErrorRecord) {
	s.append(ChannelErrors, e)
}

func (s *Store) append(ch Channel, v any) {
	path := s.Path(ch)
	if err := s.appendLine(path, v); err != nil {
		s.logger.Error("append failed, record dropped",
			"channel", string(ch),
			"path", path,
			"error", err,
		)
	}
}

// appendLine writes v as one newline-terminated line with a single write call.
func (s *Store) appendLine(path string, v any) (err error) {
	line, err := encodeLine(v)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log file: %w", cerr)
		}
	}()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	if s.sync {
		if err := f.Sync(); err != nil {
			return fmt.Errorf("sync log file: %w", err)
		}
	}

	return nil
}

// encodeLine marshals v to compact JSON followed by a newline.
// HTML escaping is disabled so addresses and messages are stored as given.
func encodeLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	// Encode terminates the value with exactly one newline
	return buf.Bytes(), nil
}
