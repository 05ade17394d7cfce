package extraction

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// EntityKind groups recognizer labels into the classes the cascade cares about.
type EntityKind int

const (
	KindOther EntityKind = iota
	KindOrganization
	KindPlace
)

// Entity is one span tagged by a recognizer.
type Entity struct {
	Text  string
	Label string
}

// Kind classifies the entity label.
func (e Entity) Kind() EntityKind {
	switch strings.ToUpper(strings.TrimSpace(e.Label)) {
	case "ORG", "ORGANIZATION", "NORP":
		return KindOrganization
	case "GPE", "LOC", "LOCATION", "FAC", "FACILITY":
		return KindPlace
	default:
		return KindOther
	}
}

// Recognizer tags named entities in text.
type Recognizer interface {
	Entities(text string) []Entity
}

// ProseRecognizer runs the prose averaged-perceptron NER model.
type ProseRecognizer struct{}

// NewProseRecognizer returns a recognizer backed by prose's bundled model.
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Entities tags text. Tokenizer or model failures yield no entities.
func (ProseRecognizer) Entities(text string) []Entity {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil
	}
	found := doc.Entities()
	entities := make([]Entity, 0, len(found))
	for _, ent := range found {
		entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
	}
	return entities
}

// pickEntity prefers the first organization, then the first place.
func pickEntity(entities []Entity) (string, bool) {
	for _, kind := range []EntityKind{KindOrganization, KindPlace} {
		for _, ent := range entities {
			if ent.Kind() != kind {
				continue
			}
			if text := TrimCandidate(ent.Text); text != "" {
				return text, true
			}
		}
	}
	return "", false
}
