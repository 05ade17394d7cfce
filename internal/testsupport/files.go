package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"foodreel/internal/catalog"
)

// WriteFile writes raw content, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteJSON encodes value as indented JSON at path.
func WriteJSON(t testing.TB, path string, value any) {
	t.Helper()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	WriteFile(t, path, string(data))
}

// ReadFile returns the content at path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// Items builds unclassified items from id/caption pairs.
func Items(pairs ...string) []catalog.Item {
	items := make([]catalog.Item, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, catalog.Item{ID: pairs[i], Caption: pairs[i+1]})
	}
	return items
}
