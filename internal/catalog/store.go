package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"foodreel/internal/fileutil"
	"foodreel/internal/services"
)

// Store reads and writes the two persisted documents.
type Store struct {
	itemsPath       string
	restaurantsPath string
}

// NewStore returns a store bound to the given document paths.
func NewStore(itemsPath, restaurantsPath string) *Store {
	return &Store{itemsPath: itemsPath, restaurantsPath: restaurantsPath}
}

// ItemsPath returns the items document location.
func (s *Store) ItemsPath() string { return s.itemsPath }

// RestaurantsPath returns the restaurant registry document location.
func (s *Store) RestaurantsPath() string { return s.restaurantsPath }

// LoadItems reads the items document. A missing document yields an empty
// slice; one that fails to parse yields an error marked ErrMalformedInput.
func (s *Store) LoadItems() ([]Item, error) {
	data, err := readDocument(s.itemsPath)
	if err != nil || data == nil {
		return []Item{}, err
	}
	return DecodeItems(data, s.itemsPath)
}

// DecodeItems parses an items document. source names the document in errors.
func DecodeItems(data []byte, source string) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, services.Wrap(services.ErrMalformedInput, "catalog", "decode items", source, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// LoadRegistry reads the restaurant registry document.
func (s *Store) LoadRegistry() (*Registry, error) {
	data, err := readDocument(s.restaurantsPath)
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	if data == nil {
		return registry, nil
	}
	if err := json.Unmarshal(data, registry); err != nil {
		return nil, services.Wrap(services.ErrMalformedInput, "catalog", "decode restaurants", s.restaurantsPath, err)
	}
	registry.Each(func(_ string, restaurant *Restaurant) bool {
		if restaurant.Snippets == nil {
			restaurant.Snippets = []Snippet{}
		}
		if restaurant.ItemIDs == nil {
			restaurant.ItemIDs = []string{}
		}
		return true
	})
	return registry, nil
}

// SaveItems replaces the items document.
func (s *Store) SaveItems(items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.itemsPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}

// SaveRegistry replaces the restaurant registry document.
func (s *Store) SaveRegistry(registry *Registry) error {
	if registry == nil {
		registry = NewRegistry()
	}
	raw, err := registry.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal restaurants: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("indent restaurants: %w", err)
	}
	buf.WriteByte('\n')
	if err := fileutil.WriteFileAtomic(s.restaurantsPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save restaurants: %w", err)
	}
	return nil
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return data, nil
}
