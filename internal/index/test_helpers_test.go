package index

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/minelog/internal/record"
)

// createTestIndex opens an index in a temp directory with a fixed clock and
// sequential build ids.
func createTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { ix.Close() })

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	ix.now = func() time.Time { return base.Add(time.Duration(n) * time.Minute) }
	ix.newID = func() (string, error) {
		n++
		return fmt.Sprintf("build-%03d", n), nil
	}
	return ix
}

// sampleRecords returns a small mining history: two indexed sub-accounts,
// one unindexed dev-fee address, one duplicate submission and two errors.
func sampleRecords() ([]record.Receipt, []record.ErrorRecord) {
	receipts := []record.Receipt{
		{Timestamp: "2024-01-01T00:00:00Z", Address: "0xA", AddressIndex: record.Index(0), ChallengeID: "c1", Nonce: "n1", Hash: "h1"},
		{Timestamp: "2024-01-01T00:00:05Z", Address: "0xD", ChallengeID: "c1", Nonce: "n2", Hash: "h2", IsDevFee: true},
		{Timestamp: "2024-01-01T00:00:10Z", Address: "0xB", AddressIndex: record.Index(1), ChallengeID: "c2", Nonce: "n3", Hash: "h3"},
		{Timestamp: "2024-01-01T00:00:15Z", Address: "0xA", AddressIndex: record.Index(0), ChallengeID: "c1", Nonce: "n1", Hash: "h1"},
	}
	errs := []record.ErrorRecord{
		{Timestamp: "2024-01-01T00:00:07Z", Address: "0xB", AddressIndex: record.Index(1), ChallengeID: "c1", Nonce: "n4", Hash: "h4", Message: "stale challenge"},
		{Timestamp: "2024-01-01T00:00:12Z", Address: "0xC", AddressIndex: record.Index(2), ChallengeID: "c2", Nonce: "n5", Hash: "h5", Message: "invalid nonce"},
	}
	return receipts, errs
}
