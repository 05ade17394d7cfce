// Package overrides loads the hand-authored item-id to restaurant-name table.
package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"foodreel/internal/services"
)

// Table maps item identifiers to literal restaurant names. It reloads the
// backing file when its modification time changes. A nil *Table is a valid
// empty table.
type Table struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	loaded  time.Time
	entries map[string]string
}

// Entry is one override row in the array document form.
type Entry struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
}

// NewTable constructs a table backed by the JSON file at path.
func NewTable(path string, logger *slog.Logger) *Table {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{path: trimmed, logger: logger}
}

// FromMap builds an in-memory table. Used by callers that already hold the
// overrides and by tests.
func FromMap(entries map[string]string) *Table {
	cleaned := make(map[string]string, len(entries))
	for id, name := range entries {
		id = strings.TrimSpace(id)
		if id == "" || strings.TrimSpace(name) == "" {
			continue
		}
		cleaned[id] = name
	}
	return &Table{entries: cleaned}
}

// Load reads the backing file now so parse errors surface before any
// mutation. A missing file is an empty table.
func (t *Table) Load() error {
	if t == nil || t.path == "" {
		return nil
	}
	return t.ensureLoaded()
}

// Lookup returns the literal name pinned to itemID. The name is returned
// exactly as authored.
func (t *Table) Lookup(itemID string) (string, bool) {
	if t == nil {
		return "", false
	}
	if t.path != "" {
		if err := t.ensureLoaded(); err != nil {
			t.logger.Warn("override table reload failed; using previous entries",
				slog.String("path", t.path),
				slog.String("error", err.Error()),
			)
		}
	}
	id := strings.TrimSpace(itemID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.entries[id]
	return name, ok
}

// Len returns the number of loaded overrides.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Table) ensureLoaded() error {
	info, err := os.Stat(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	t.mu.RLock()
	alreadyLoaded := !t.loaded.IsZero() && t.loaded.Equal(info.ModTime())
	t.mu.RUnlock()
	if alreadyLoaded {
		return nil
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		return err
	}
	entries, err := Parse(data)
	if err != nil {
		return services.Wrap(services.ErrMalformedInput, "overrides", "parse", t.path, err)
	}

	t.mu.Lock()
	t.entries = entries
	t.loaded = info.ModTime()
	t.mu.Unlock()
	t.logger.Info("loaded restaurant overrides", slog.String("path", t.path), slog.Int("count", len(entries)))
	return nil
}

// Parse accepts a plain object map, an object with an "overrides" array,
// or a bare array of entries.
func Parse(data []byte) (map[string]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	data = bytes.TrimSpace(data)
	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}

	var list []Entry
	switch data[0] {
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if wrapped, ok := raw["overrides"]; ok && len(raw) == 1 && isArray(wrapped) {
			if err := json.Unmarshal(wrapped, &list); err != nil {
				return nil, err
			}
			break
		}
		for id, value := range raw {
			var name string
			if err := json.Unmarshal(value, &name); err != nil {
				return nil, fmt.Errorf("override %q: name must be a string", id)
			}
			list = append(list, Entry{ItemID: id, Name: name})
		}
	case '[':
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("override document must be a JSON object or array")
	}

	for _, entry := range list {
		id := strings.TrimSpace(entry.ItemID)
		if id == "" || strings.TrimSpace(entry.Name) == "" {
			continue
		}
		entries[id] = entry.Name
	}
	return entries, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
