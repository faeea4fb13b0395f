package record

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxAddressIndex is the exclusive upper bound of derived sub-account indexes.
const MaxAddressIndex = 200

// Receipt represents one accepted proof-of-work solution.
type Receipt struct {
	Timestamp     string          `json:"ts"`                       // ISO-8601
	Address       string          `json:"address"`                  // wallet address
	AddressIndex  *int            `json:"addressIndex,omitempty"`   // derived sub-account, 0-199
	ChallengeID   string          `json:"challenge_id"`
	Nonce         string          `json:"nonce"`
	Hash          string          `json:"hash"`
	CryptoReceipt json.RawMessage `json:"crypto_receipt,omitempty"` // opaque, passed through verbatim
	IsDevFee      bool            `json:"isDevFee,omitempty"`
}

// ErrorRecord represents one failed submission attempt.
type ErrorRecord struct {
	Timestamp    string          `json:"ts"`
	Address      string          `json:"address"`
	AddressIndex *int            `json:"addressIndex,omitempty"`
	ChallengeID  string          `json:"challenge_id"`
	Nonce        string          `json:"nonce"`
	Hash         string          `json:"hash"`
	Message      string          `json:"error"`
	Response     json.RawMessage `json:"response,omitempty"` // opaque response from the rejecting party
}

// Index returns a pointer to i for use as an AddressIndex.
func Index(i int) *int {
	return &i
}

// Time parses the receipt timestamp as RFC 3339.
func (r Receipt) Time() (time.Time, error) {
	return parseTimestamp(r.Timestamp)
}

// Time parses the error timestamp as RFC 3339.
func (e ErrorRecord) Time() (time.Time, error) {
	return parseTimestamp(e.Timestamp)
}

func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	return t, nil
}

// FormatTimestamp renders t in the canonical timestamp format used for new records.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
