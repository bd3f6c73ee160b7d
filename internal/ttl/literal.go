package ttl

import "strings"

// Replacement is one literal substitution applied by Sanitize after
// escaping, in caller-supplied order.
type Replacement struct {
	Old string
	New string
}

// Sanitize prepares free text for embedding in a Turtle literal:
// newlines become single spaces, embedded double quotes are escaped,
// leading and trailing whitespace is trimmed, then any replacements are
// applied in order. Empty input returns "" without error; blank cells
// are routine here, unlike in NormalizeLabel.
func Sanitize(text string, replacements ...Replacement) string {
	if text == "" {
		return ""
	}
	s := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.TrimSpace(s)
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r.Old, r.New)
	}
	return s
}

// LangString renders text as an English language-tagged Turtle literal.
func LangString(text string) string {
	return LangStringIn(text, "en")
}

// LangStringIn renders text as a language-tagged Turtle literal using
// triple-double-quote delimiters, so sanitized text may still contain
// single double quotes:
//
//	"""He said \"hi\""""@en
func LangStringIn(text, lang string) string {
	return `"""` + Sanitize(text) + `"""@` + lang
}

// Typed renders a value as a datatyped Turtle literal, e.g.
// Typed("3", "xsd:nonNegativeInteger") is "3"^^xsd:nonNegativeInteger.
func Typed(value, datatype string) string {
	return `"` + Sanitize(value) + `"^^` + datatype
}
