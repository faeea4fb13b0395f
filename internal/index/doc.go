// Package index maintains a SQLite read model of the receipt and error logs.
//
// The JSONL files stay the source of truth. Rebuild replaces the index
// contents from a full read of both logs inside one transaction, so the index
// is either the previous snapshot or the new one. Tools that want ad-hoc SQL
// over mining history open the database directly.
//
// Schema versioning uses PRAGMA user_version, the same way across releases:
// schema.sql creates what is missing and migrations add the rest.
package index
