package extraction

import (
	"regexp"
	"strings"
)

var (
	urlPattern         = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	hashtagPattern     = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionPattern     = regexp.MustCompile(`@[\p{L}\p{N}_.]+`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s\-—–'&]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

var quoteReplacer = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// CleanCaption strips URLs, hashtags, and mentions, removes punctuation other
// than dashes, apostrophes, and ampersands, and collapses whitespace.
func CleanCaption(caption string) string {
	if caption == "" {
		return ""
	}
	cleaned := quoteReplacer.Replace(caption)
	cleaned = urlPattern.ReplaceAllString(cleaned, " ")
	cleaned = hashtagPattern.ReplaceAllString(cleaned, " ")
	cleaned = mentionPattern.ReplaceAllString(cleaned, " ")
	cleaned = punctuationPattern.ReplaceAllString(cleaned, " ")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
