package testutil

import (
	"encoding/json"

	"github.com/roach88/minelog/internal/record"
)

// SampleHistory returns a small mining history used across package tests:
// two user receipts on sub-account 0, one dev-fee receipt, and one rejected
// resubmission.
func SampleHistory() ([]record.Receipt, []record.ErrorRecord) {
	receipts := []record.Receipt{
		{
			Timestamp:    "2024-01-01T00:00:00Z",
			Address:      "0xA",
			AddressIndex: record.Index(0),
			ChallengeID:  "c1",
			Nonce:        "n1",
			Hash:         "h1",
		},
		{
			Timestamp:     "2024-01-01T00:00:05Z",
			Address:       "0xB",
			ChallengeID:   "c2",
			Nonce:         "n2",
			Hash:          "h2",
			CryptoReceipt: json.RawMessage(`{"signature":"sig-2"}`),
			IsDevFee:      true,
		},
		{
			Timestamp:    "2024-01-01T00:00:10Z",
			Address:      "0xA",
			AddressIndex: record.Index(0),
			ChallengeID:  "c2",
			Nonce:        "n3",
			Hash:         "h3",
		},
	}
	errs := []record.ErrorRecord{
		{
			Timestamp:    "2024-01-01T00:00:07Z",
			Address:      "0xA",
			AddressIndex: record.Index(0),
			ChallengeID:  "c1",
			Nonce:        "n1",
			Hash:         "h1",
			Message:      "Solution already submitted",
			Response:     json.RawMessage(`{"status":409}`),
		},
	}
	return receipts, errs
}
