package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Registry maps restaurant slugs to restaurants and remembers the order in
// which keys were first inserted. The zero value is ready to use.
type Registry struct {
	keys    []string
	entries map[string]*Restaurant
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Restaurant)}
}

// Len returns the number of restaurants.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.entries[key]
	return ok
}

// Get returns the stored restaurant for in-place mutation.
func (r *Registry) Get(key string) (*Restaurant, bool) {
	if r == nil {
		return nil, false
	}
	entry, ok := r.entries[key]
	return entry, ok
}

// Put stores restaurant under key. New keys are appended to the order;
// existing keys keep their position.
func (r *Registry) Put(key string, restaurant Restaurant) *Restaurant {
	if r.entries == nil {
		r.entries = make(map[string]*Restaurant)
	}
	if existing, ok := r.entries[key]; ok {
		*existing = restaurant
		return existing
	}
	stored := restaurant
	r.entries[key] = &stored
	r.keys = append(r.keys, key)
	return &stored
}

// Keys returns a copy of the keys in insertion order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Each calls fn for every restaurant in insertion order until fn returns false.
func (r *Registry) Each(fn func(key string, restaurant *Restaurant) bool) {
	if r == nil {
		return
	}
	for _, key := range r.keys {
		if !fn(key, r.entries[key]) {
			return
		}
	}
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	r.Each(func(key string, restaurant *Restaurant) bool {
		out.Put(key, restaurant.Clone())
		return true
	})
	return out
}

// MarshalJSON encodes the registry as an object whose keys follow insertion order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.entries[key])
		if err != nil {
			return nil, fmt.Errorf("encode restaurant %q: %w", key, err)
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, preserving the document's key order.
// Duplicate keys are rejected.
func (r *Registry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("restaurant registry must be a JSON object")
	}
	fresh := NewRegistry()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected registry key token %v", tok)
		}
		var restaurant Restaurant
		if err := dec.Decode(&restaurant); err != nil {
			return fmt.Errorf("decode restaurant %q: %w", key, err)
		}
		if fresh.Has(key) {
			return fmt.Errorf("duplicate restaurant key %q", key)
		}
		fresh.Put(key, restaurant)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = *fresh
	return nil
}
