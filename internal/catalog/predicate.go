package catalog

import (
	"fmt"
	"strings"
)

// TextLookup resolves a document path to its text content, empty when the
// element is absent. document.Document satisfies it.
type TextLookup interface {
	Text(path string) string
}

// Predicate is the typed form of the stored condition text
// `field = 'literal'`. Rows are parsed once when the catalog loads, so the
// engine never splits strings per evaluation.
type Predicate struct {
	Field   string
	Op      string
	Literal string
}

// ParsePredicate converts the stored text form into a Predicate. Empty text
// means "unconditional" and yields nil. Only the equality operator exists in
// the catalog today.
func ParsePredicate(text string) (*Predicate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	field, literal, found := strings.Cut(text, " = ")
	if !found || strings.TrimSpace(field) == "" {
		return nil, fmt.Errorf("malformed predicate %q", text)
	}
	literal = strings.TrimSpace(literal)
	literal = strings.TrimPrefix(literal, "'")
	literal = strings.TrimSuffix(literal, "'")
	return &Predicate{Field: strings.TrimSpace(field), Op: "=", Literal: literal}, nil
}

// Matches reports whether the document satisfies the predicate. A nil
// predicate matches everything.
func (p *Predicate) Matches(doc TextLookup) bool {
	if p == nil {
		return true
	}
	return doc.Text(p.Field) == p.Literal
}

func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%s %s '%s'", p.Field, p.Op, p.Literal)
}
