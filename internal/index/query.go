package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoBuild is returned by LastBuild when the index has never been built.
var ErrNoBuild = errors.New("index has not been built")

// Totals are whole-log aggregates from the last build.
type Totals struct {
	Receipts       int `json:"receipts"`
	UserReceipts   int `json:"user_receipts"`
	DevFeeReceipts int `json:"dev_fee_receipts"`
	Errors         int `json:"errors"`
	Challenges     int `json:"challenges"`
	Duplicates     int `json:"duplicates"` // receipts sharing a fingerprint with an earlier one
}

// AddressTotal aggregates one (address, addressIndex) pair.
type AddressTotal struct {
	Address      string `json:"address"`
	AddressIndex *int   `json:"addressIndex,omitempty"`
	Solutions    int    `json:"solutions"`
	DevFee       int    `json:"dev_fee"`
	Errors       int    `json:"errors"`
}

// Totals returns aggregate counts over the indexed records.
func (ix *Index) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := ix.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(is_dev_fee), 0),
			COUNT(DISTINCT challenge_id),
			COUNT(*) - COUNT(DISTINCT fingerprint)
		FROM receipts
	`).Scan(&t.Receipts, &t.DevFeeReceipts, &t.Challenges, &t.Duplicates)
	if err != nil {
		return Totals{}, fmt.Errorf("query receipt totals: %w", err)
	}
	t.UserReceipts = t.Receipts - t.DevFeeReceipts

	if err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submission_errors").Scan(&t.Errors); err != nil {
		return Totals{}, fmt.Errorf("query error totals: %w", err)
	}
	return t, nil
}

// AddressTotals returns per-address aggregates ordered by address index,
// with unindexed addresses last, then by address.
func (ix *Index) AddressTotals(ctx context.Context) ([]AddressTotal, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT address, address_index, SUM(solutions), SUM(dev_fee), SUM(errors)
		FROM (
			SELECT address, address_index, 1 AS solutions, is_dev_fee AS dev_fee, 0 AS errors
			FROM receipts
			UNION ALL
			SELECT address, address_index, 0, 0, 1
			FROM submission_errors
		)
		GROUP BY address, address_index
		ORDER BY address_index IS NULL, address_index, address
	`)
	if err != nil {
		return nil, fmt.Errorf("query address totals: %w", err)
	}
	defer rows.Close()

	out := []AddressTotal{}
	for rows.Next() {
		var (
			at  AddressTotal
			idx sql.NullInt64
		)
		if err := rows.Scan(&at.Address, &idx, &at.Solutions, &at.DevFee, &at.Errors); err != nil {
			return nil, fmt.Errorf("scan address totals: %w", err)
		}
		if idx.Valid {
			i := int(idx.Int64)
			at.AddressIndex = &i
		}
		out = append(out, at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address totals: %w", err)
	}
	return out, nil
}

// LastBuild returns the most recent build, or ErrNoBuild.
func (ix *Index) LastBuild(ctx context.Context) (BuildInfo, error) {
	var (
		info    BuildInfo
		builtAt string
	)
	err := ix.db.QueryRowContext(ctx, `
		SELECT id, built_at, receipts, errors
		FROM builds
		ORDER BY built_at DESC, id DESC
		LIMIT 1
	`).Scan(&info.ID, &builtAt, &info.Receipts, &info.Errors)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildInfo{}, ErrNoBuild
	}
	if err != nil {
		return BuildInfo{}, fmt.Errorf("query last build: %w", err)
	}

	info.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt)
	if err != nil {
		return BuildInfo{}, fmt.Errorf("parse build time: %w", err)
	}
	return info, nil
}
