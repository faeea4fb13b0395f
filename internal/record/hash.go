package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainReceipt = "minelog/receipt/v1"
	DomainError   = "minelog/error/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the content-addressed identity of a receipt.
//
// Only the submission identity (address, challenge, nonce, hash) is hashed.
// Timestamp, dev-fee flag and the opaque payload are excluded, so the same
// solution recorded twice yields the same fingerprint.
func Fingerprint(r Receipt) (string, error) {
	obj := map[string]any{
		"address":      r.Address,
		"challenge_id": r.ChallengeID,
		"nonce":        r.Nonce,
		"hash":         r.Hash,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainReceipt, canonical), nil
}

// ErrorFingerprint computes the identity of a failed submission, including
// the rejection message.
func ErrorFingerprint(e ErrorRecord) (string, error) {
	obj := map[string]any{
		"address":      e.Address,
		"challenge_id": e.ChallengeID,
		"nonce":        e.Nonce,
		"hash":         e.Hash,
		"error":        e.Message,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ErrorFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainError, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Receipt identity fields are all strings, so this only panics on a bug.
func MustFingerprint(r Receipt) string {
	fp, err := Fingerprint(r)
	if err != nil {
		panic(err)
	}
	return fp
}
