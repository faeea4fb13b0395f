// Package record defines the two record kinds persisted by minelog.
//
// A Receipt is written when a proof-of-work solution is accepted; an
// ErrorRecord is written when a submission is rejected. Both are immutable
// values: the log only ever appends them.
//
// Key constraints:
//   - JSON field names are part of the on-disk format and never change
//   - Opaque payloads (CryptoReceipt, Response) are json.RawMessage and are
//     never interpreted, only passed through
//   - Unknown fields in a stored line are ignored on decode
//
// Fingerprints give each record a content-addressed identity computed from
// RFC 8785 canonical JSON and SHA-256 with domain separation.
package record
