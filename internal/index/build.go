package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/minelog/internal/record"
)

// BuildInfo describes one Rebuild.
type BuildInfo struct {
	ID       string    `json:"id"`
	BuiltAt  time.Time `json:"built_at"`
	Receipts int       `json:"receipts"`
	Errors   int       `json:"errors"`
}

// Rebuild replaces the indexed receipts and errors with the given records.
// Slice order is stored as seq, so pass records in file order.
// Runs in a single transaction: on failure the previous snapshot is kept.
func (ix *Index) Rebuild(ctx context.Context, receipts []record.Receipt, errs []record.ErrorRecord) (BuildInfo, error) {
	id, err := ix.newID()
	if err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild index: %w", err)
	}
	info := BuildInfo{
		ID:       id,
		BuiltAt:  ix.now().UTC(),
		Receipts: len(receipts),
		Errors:   len(errs),
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild index: begin: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM receipts"); err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild index: clear receipts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM submission_errors"); err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild index: clear errors: %w", err)
	}

	if err := insertReceipts(ctx, tx, receipts); err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild index: %w", err)
	}
	if err := insertErrors(ctx, tx, errs); err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild index: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds (id, built_at, receipts, errors)
		VALUES (?, ?, ?, ?)
	`, info.ID, info.BuiltAt.Format(time.RFC3339Nano), info.Receipts, info.Errors)
	if err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild index: record build: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return BuildInfo{}, fmt.Errorf("rebuild index: commit: %w", err)
	}
	return info, nil
}

func insertReceipts(ctx context.Context, tx *sql.Tx, receipts []record.Receipt) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO receipts
		(seq, ts, address, address_index, challenge_id, nonce, hash, is_dev_fee, fingerprint, crypto_receipt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare receipt insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range receipts {
		fp, err := record.Fingerprint(r)
		if err != nil {
			return fmt.Errorf("receipt %d: %w", i+1, err)
		}
		_, err = stmt.ExecContext(ctx,
			i+1,
			r.Timestamp,
			r.Address,
			nullableIndex(r.AddressIndex),
			r.ChallengeID,
			r.Nonce,
			r.Hash,
			r.IsDevFee,
			fp,
			nullableJSON(r.CryptoReceipt),
		)
		if err != nil {
			return fmt.Errorf("insert receipt %d: %w", i+1, err)
		}
	}
	return nil
}

func insertErrors(ctx context.Context, tx *sql.Tx, errs []record.ErrorRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO submission_errors
		(seq, ts, address, address_index, challenge_id, nonce, hash, message, fingerprint, response)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare error insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range errs {
		fp, err := record.ErrorFingerprint(e)
		if err != nil {
			return fmt.Errorf("error record %d: %w", i+1, err)
		}
		_, err = stmt.ExecContext(ctx,
			i+1,
			e.Timestamp,
			e.Address,
			nullableIndex(e.AddressIndex),
			e.ChallengeID,
			e.Nonce,
			e.Hash,
			e.Message,
			fp,
			nullableJSON(e.Response),
		)
		if err != nil {
			return fmt.Errorf("insert error record %d: %w", i+1, err)
		}
	}
	return nil
}

func nullableIndex(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
