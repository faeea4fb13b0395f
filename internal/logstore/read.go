package logstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/minelog/internal/record"
)

// Line is one non-blank line of a log file.
type Line struct {
	Number int    // 1-based line number in the file
	Data   []byte // line contents without the terminator
}

// ReadAllReceipts returns every decodable receipt in file order.
// A missing or unreadable file yields an empty slice.
func (s *Store) ReadAllReceipts() []record.Receipt {
	return readAll[record.Receipt](s, ChannelReceipts)
}

// ReadRecentReceipts returns the last n decodable receipts in file order.
// Returns an empty slice when n <= 0.
func (s *Store) ReadRecentReceipts(n int) []record.Receipt {
	return tail(s.ReadAllReceipts(), n)
}

// ReadAllErrors returns every decodable error record in file order.
// A missing or unreadable file yields an empty slice.
func (s *Store) ReadAllErrors() []record.ErrorRecord {
	return readAll[record.ErrorRecord](s, ChannelErrors)
}

// ReadRecentErrors returns the last n decodable error records in file order.
func (s *Store) ReadRecentErrors(n int) []record.ErrorRecord {
	return tail(s.ReadAllErrors(), n)
}

// ReadLines returns the raw non-blank lines of a channel's file.
// Unlike the record readers it reports read failures to the caller.
// A missing file is not an error.
func (s *Store) ReadLines(ch Channel) ([]Line, error) {
	data, err := os.ReadFile(s.Path(ch))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Line{}, nil
		}
		return nil, fmt.Errorf("read %s log: %w", ch, err)
	}

	lines := []Line{}
	for i, raw := range bytes.Split(data, []byte{'\n'}) {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Data: trimmed})
	}
	return lines, nil
}

func readAll[T any](s *Store, ch Channel) []T {
	lines, err := s.ReadLines(ch)
	if err != nil {
		s.logger.Error("read failed, returning no records",
			"channel", string(ch),
			"path", s.Path(ch),
			"error", err,
		)
		return []T{}
	}

	out := make([]T, 0, len(lines))
	for _, line := range lines {
		v, err := decodeLine[T](line.Data)
		if err != nil {
			s.logger.Warn("skipping unparseable line",
				"channel", string(ch),
				"path", s.Path(ch),
				"line", line.Number,
				"raw", string(line.Data),
				"error", err,
			)
			continue
		}
		out = append(out, v)
	}
	return out
}

// decodeLine decodes one record. Only JSON objects are accepted; a bare
// value such as null or 42 would otherwise decode into a zero record.
func decodeLine[T any](data []byte) (T, error) {
	var v T
	if data[0] != '{' {
		return v, errors.New("line is not a JSON object")
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}

func tail[T any](items []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if n >= len(items) {
		return items
	}
	return items[len(items)-n:]
}
