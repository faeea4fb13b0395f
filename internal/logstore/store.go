package logstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Channel names one of the two record streams.
type Channel string

const (
	ChannelReceipts Channel = "receipts"
	ChannelErrors   Channel = "errors"
)

// FileName returns the on-disk file name of the channel.
func (c Channel) FileName() string {
	return string(c) + ".jsonl"
}

// Store appends to and reads from the receipt and error logs in one directory.
type Store struct {
	dir          string
	receiptsPath string
	errorsPath   string
	sync         bool
	logger       *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger that receives append and read diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSync makes every append fsync the file before closing it.
func WithSync(sync bool) Option {
	return func(s *Store) {
		s.sync = sync
	}
}

// Open prepares a store rooted at dir, creating the directory and any missing
// parents. Log files are created lazily on first append.
//
// This function is idempotent - safe to call multiple times on the same dir.
func Open(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("open log store: empty data directory")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open log store: create data directory: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open log store: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open log store: %s is not a directory", dir)
	}

	s := &Store{
		dir:          dir,
		receiptsPath: filepath.Join(dir, ChannelReceipts.FileName()),
		errorsPath:   filepath.Join(dir, ChannelErrors.FileName()),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "logstore")

	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path backing the channel.
func (s *Store) Path(ch Channel) string {
	switch ch {
	case ChannelReceipts:
		return s.receiptsPath
	case ChannelErrors:
		return s.errorsPath
	default:
		return filepath.Join(s.dir, ch.FileName())
	}
}
