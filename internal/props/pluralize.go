package props

import "strings"

// Pluralizer turns a singular English noun into its plural form.
// It is an interface so the heuristic can be swapped or stubbed in tests.
type Pluralizer interface {
	Plural(noun string) string
}

// EnglishPluralizer applies standard English noun pluralization rules.
type EnglishPluralizer struct{}

var irregulars = map[string]string{
	"person": "people",
	"child":  "children",
	"man":    "men",
	"woman":  "women",
	"foot":   "feet",
	"tooth":  "teeth",
	"mouse":  "mice",
	"goose":  "geese",
	"datum":  "data",
	"index":  "indices",
}

var uncountables = map[string]struct{}{
	"sheep":   {},
	"fish":    {},
	"deer":    {},
	"series":  {},
	"species": {},
}

// Plural returns the plural form of noun.
func (EnglishPluralizer) Plural(noun string) string {
	if noun == "" {
		return noun
	}
	if p, ok := irregulars[noun]; ok {
		return p
	}
	if _, ok := uncountables[noun]; ok {
		return noun
	}

	switch {
	case strings.HasSuffix(noun, "is"):
		// diagnosis -> diagnoses, analysis -> analyses
		return noun[:len(noun)-2] + "es"
	case strings.HasSuffix(noun, "s"), strings.HasSuffix(noun, "x"),
		strings.HasSuffix(noun, "z"), strings.HasSuffix(noun, "ch"),
		strings.HasSuffix(noun, "sh"):
		return noun + "es"
	case strings.HasSuffix(noun, "y") && len(noun) > 1 && !isVowel(noun[len(noun)-2]):
		// study -> studies
		return noun[:len(noun)-1] + "ies"
	case strings.HasSuffix(noun, "fe"):
		return noun[:len(noun)-2] + "ves"
	case strings.HasSuffix(noun, "f"):
		return noun[:len(noun)-1] + "ves"
	default:
		return noun + "s"
	}
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// pluralizeNodeName pluralizes a node-type name. Compound names pluralize
// only their final segment, so "data_file" becomes "data_files" rather
// than pluralizing the whole token.
func pluralizeNodeName(p Pluralizer, name string) string {
	if !strings.Contains(name, "_") {
		return p.Plural(name)
	}

	parts := strings.Split(name, "_")
	parts[len(parts)-1] = p.Plural(parts[len(parts)-1])
	return strings.Join(parts, "_")
}
