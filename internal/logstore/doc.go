// Package logstore persists mining receipts and submission errors as two
// append-only JSON Lines files.
//
// Layout under the data directory:
//
//	receipts.jsonl  one record.Receipt per line
//	errors.jsonl    one record.ErrorRecord per line
//
// The store degrades instead of failing. Appends that cannot be written are
// reported on the diagnostic logger and dropped. Reads treat a missing file as
// empty, skip lines that do not decode, and report an unreadable file as an
// empty result. None of the public operations return errors; the only
// escalated fault is a data directory that cannot be created at Open.
//
// Each append is a single write to a file opened with O_APPEND, so the file
// order is the append order. The store keeps no locks and no open handles
// between calls.
package logstore
