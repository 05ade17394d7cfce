package textutil

import (
	"strings"
	"unicode"
)

// maxItemSlugPrefix bounds the caption portion of an item slug.
const maxItemSlugPrefix = 50

// Slugify converts arbitrary text into a lowercase identifier made of
// [a-z0-9-] with no leading, trailing, or repeated dashes. Every rune outside
// ASCII letters, digits, whitespace, and dashes is dropped, so accented
// letters, emoji, and punctuation disappear rather than being transliterated.
// The transform is total and idempotent.
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingDash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return b.String()
}

// ItemSlug builds the path segment for a single item: the slugified caption
// cut to 50 characters (dropping a dash left dangling by the cut) followed by
// "-{id}". The suffix is always present, so a caption that normalizes to
// nothing yields "-{id}".
func ItemSlug(caption, id string) string {
	prefix := Slugify(caption)
	if len(prefix) > maxItemSlugPrefix {
		prefix = prefix[:maxItemSlugPrefix]
		prefix = strings.TrimSuffix(prefix, "-")
	}
	return prefix + "-" + strings.TrimSpace(id)
}
