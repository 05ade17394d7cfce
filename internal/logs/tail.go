package logs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"foodreel/internal/logging"
)

// Record is one decoded log line.
type Record struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Filter narrows records. Empty fields match everything.
type Filter struct {
	RunID  string
	ItemID string
	// Level is the minimum level: debug, info, warn, or error.
	Level string
}

func (f Filter) matches(r Record) bool {
	if f.RunID != "" && fieldString(r.Fields, logging.FieldRunID) != f.RunID {
		return false
	}
	if f.ItemID != "" && fieldString(r.Fields, logging.FieldItemID) != f.ItemID {
		return false
	}
	return f.Level == "" || logging.ParseLevel(r.Level) >= logging.ParseLevel(f.Level)
}

// Tail returns the last limit records matching filter and the file offset
// to resume following from. A missing file yields no records. A
// non-positive limit returns no records but still reports the offset.
func Tail(path string, limit int, filter Filter) ([]Record, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}
	if limit <= 0 {
		return nil, info.Size(), nil
	}

	ring := make([]Record, limit)
	count, idx := 0, 0
	offset, err := scan(file, filter, func(r Record) {
		ring[idx] = r
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	records := make([]Record, count)
	if count == limit {
		for i := range count {
			records[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(records, ring[:count])
	}
	return records, offset, nil
}

// Follow polls path from offset and hands every new matching record to fn
// until ctx is done. A truncated file is read again from the start.
func Follow(ctx context.Context, path string, offset int64, filter Filter, interval time.Duration, fn func(Record)) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, filter, fn)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, filter Filter, fn func(Record)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	next, err := scan(file, filter, fn)
	if err != nil {
		return offset, err
	}
	return offset + next, nil
}

// scan decodes complete lines from r and returns how many bytes were
// consumed. A trailing partial line is left for the next read.
func scan(r io.Reader, filter Filter, fn func(Record)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		record, ok := decode(line)
		if ok && filter.matches(record) {
			fn(record)
		}
	}
}

func decode(line []byte) (Record, bool) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, false
	}
	record := Record{
		Level:     strings.ToUpper(fieldString(raw, "level")),
		Message:   fieldString(raw, "msg"),
		Component: fieldString(raw, logging.FieldComponent),
	}
	if ts := fieldString(raw, "ts"); ts != "" {
		record.Time, _ = time.Parse(time.RFC3339Nano, ts)
	}
	for _, key := range []string{"ts", "level", "msg", logging.FieldComponent} {
		delete(raw, key)
	}
	if len(raw) > 0 {
		record.Fields = raw
	}
	return record, true
}

func fieldString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
