package logstore

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/minelog/internal/record"
)

// createTestStore opens a store in a fresh temp directory and captures its
// diagnostics in the returned buffer.
func createTestStore(t *testing.T, opts ...Option) (*Store, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := Open(filepath.Join(t.TempDir(), "data"), append([]Option{WithLogger(logger)}, opts...)...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return s, &logs
}

// createTestReceipt creates a receipt with the required fields set.
func createTestReceipt(ts, address, challenge, nonce, hash string) record.Receipt {
	return record.Receipt{
		Timestamp:   ts,
		Address:     address,
		ChallengeID: challenge,
		Nonce:       nonce,
		Hash:        hash,
	}
}

// createTestError creates an error record with the required fields set.
func createTestError(ts, address, challenge, message string) record.ErrorRecord {
	return record.ErrorRecord{
		Timestamp:   ts,
		Address:     address,
		ChallengeID: challenge,
		Nonce:       "n-" + challenge,
		Hash:        "h-" + challenge,
		Message:     message,
	}
}

// writeRaw replaces the channel file with the given contents.
func writeRaw(t *testing.T, s *Store, ch Channel, contents string) {
	t.Helper()
	if err := os.WriteFile(s.Path(ch), []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

// readRaw returns the channel file contents.
func readRaw(t *testing.T, s *Store, ch Channel) string {
	t.Helper()
	data, err := os.ReadFile(s.Path(ch))
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	return string(data)
}

// blockChannel puts a directory where the channel file should be, so that
// opening or reading the file fails even for a privileged user.
func blockChannel(t *testing.T, s *Store, ch Channel) {
	t.Helper()
	if err := os.Mkdir(s.Path(ch), 0o755); err != nil {
		t.Fatalf("Mkdir() failed: %v", err)
	}
}
