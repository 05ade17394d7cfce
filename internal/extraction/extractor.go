package extraction

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"foodreel/internal/logging"
)

// Source records which stage of the cascade produced the name.
type Source string

const (
	SourceOverride    Source = "override"
	SourcePattern     Source = "pattern"
	SourceRecognizer  Source = "recognizer"
	SourceCapitalized Source = "capitalized"
	SourceNone        Source = "none"
)

// maxCapitalizedWords bounds the final fallback.
const maxCapitalizedWords = 3

// Result is the outcome of one extraction. Found is false when no stage
// produced a name.
type Result struct {
	Name    string
	Found   bool
	City    string
	Cuisine string
	Source  Source
	Rule    string
}

// OverrideLookup resolves an item id to a literal restaurant name.
type OverrideLookup interface {
	Lookup(itemID string) (string, bool)
}

// Extractor runs the name cascade and dictionary lookups.
type Extractor struct {
	overrides  OverrideLookup
	rules      []Rule
	recognizer Recognizer
	cities     dictionary
	regions    map[string]string
	cuisines   dictionary
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithOverrides sets the override table consulted before any heuristic.
func WithOverrides(lookup OverrideLookup) Option {
	return func(e *Extractor) { e.overrides = lookup }
}

// WithRules replaces the rule cascade.
func WithRules(rules []Rule) Option {
	return func(e *Extractor) { e.rules = append([]Rule(nil), rules...) }
}

// WithExtraRules evaluates rules ahead of the current cascade.
func WithExtraRules(rules []Rule) Option {
	return func(e *Extractor) {
		e.rules = append(append([]Rule(nil), rules...), e.rules...)
	}
}

// WithRecognizer sets the named-entity fallback. nil disables it.
func WithRecognizer(recognizer Recognizer) Option {
	return func(e *Extractor) { e.recognizer = recognizer }
}

// WithCityAliases replaces the city dictionary and its region table.
func WithCityAliases(entries []CityAlias) Option {
	return func(e *Extractor) { e.cities, e.regions = compileCities(entries) }
}

// WithCuisineKeywords replaces the cuisine dictionary.
func WithCuisineKeywords(entries []CuisineKeyword) Option {
	return func(e *Extractor) { e.cuisines = compileCuisines(entries) }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New builds an extractor with the default rules and dictionaries and no
// recognizer.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		rules:    DefaultRules(),
		cities:   defaultCities,
		regions:  defaultRegions,
		cuisines: defaultCuisines,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// RegionFor maps a city label from this extractor's dictionary to its region.
func (e *Extractor) RegionFor(city string) string {
	return e.regions[strings.ToLower(strings.TrimSpace(city))]
}

// Extract resolves name, city, and cuisine for one item.
func (e *Extractor) Extract(caption, itemID string) Result {
	result := Result{Source: SourceNone}
	result.City = e.cities.match(caption)
	result.Cuisine = e.cuisines.match(caption)

	name, source, rule := e.resolveName(caption, itemID)
	if source != SourceNone {
		result.Name = name
		result.Found = true
		result.Source = source
		result.Rule = rule
	}
	e.logger.Debug("caption extracted",
		logging.String(logging.FieldItemID, itemID),
		logging.String("source", string(result.Source)),
		logging.String("rule", result.Rule),
		logging.String("name", result.Name),
		logging.String("city", result.City),
		logging.String("cuisine", result.Cuisine),
	)
	return result
}

func (e *Extractor) resolveName(caption, itemID string) (string, Source, string) {
	if e.overrides != nil && strings.TrimSpace(itemID) != "" {
		if name, ok := e.overrides.Lookup(itemID); ok {
			return name, SourceOverride, ""
		}
	}

	cleaned := CleanCaption(caption)
	if cleaned == "" {
		return "", SourceNone, ""
	}
	for _, rule := range e.rules {
		if candidate, ok := rule.Apply(cleaned); ok {
			return candidate, SourcePattern, rule.Name
		}
	}
	if name, ok := e.recognize(cleaned); ok {
		return name, SourceRecognizer, ""
	}
	if name := LeadingCapitalized(cleaned, maxCapitalizedWords); name != "" {
		return name, SourceCapitalized, ""
	}
	return "", SourceNone, ""
}

func (e *Extractor) recognize(cleaned string) (name string, ok bool) {
	if e.recognizer == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			logging.WarnWithContext(e.logger, "entity recognizer panicked; skipping", "recognizer_panic",
				logging.String("panic", fmt.Sprint(r)),
				logging.String(logging.FieldImpact, "capitalized-word fallback used instead"),
			)
			name, ok = "", false
		}
	}()
	return pickEntity(e.recognizer.Entities(cleaned))
}

// LeadingCapitalized returns up to limit leading words of text that start
// with an uppercase letter, stopping at the first word that does not.
func LeadingCapitalized(text string, limit int) string {
	words := strings.Fields(text)
	taken := make([]string, 0, limit)
	for _, word := range words {
		if len(taken) == limit {
			break
		}
		first, _ := utf8.DecodeRuneInString(word)
		if !unicode.IsUpper(first) {
			break
		}
		taken = append(taken, word)
	}
	return strings.Join(taken, " ")
}
