package ttl

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Casing selects how NormalizeLabel joins the words of a free-text label
// into a single local name.
type Casing int

const (
	// Delimited joins words with single underscores (the default policy).
	Delimited Casing = iota
	// Pascal concatenates words with each leading letter capitalized.
	Pascal
	// Camel is Pascal with the first word lowercased.
	Camel
)

// NormalizeLabel converts arbitrary human-readable text into a
// syntactically legal compact-IRI local name.
//
// The text is NFC-normalized, its whitespace is collapsed according to
// the casing policy, and every rune that is not a letter, digit, hyphen,
// or underscore is stripped. Empty input is a caller contract violation
// and returns an error; a non-empty input may still normalize to the
// empty string if it contains no legal runes.
func NormalizeLabel(text string, casing Casing) (string, error) {
	if text == "" {
		return "", fmt.Errorf("normalize label: empty input")
	}

	words := strings.Fields(norm.NFC.String(text))

	var joined string
	switch casing {
	case Pascal:
		joined = joinCapitalized(words, false)
	case Camel:
		joined = joinCapitalized(words, true)
	default:
		joined = strings.Join(words, "_")
		joined = collapseRuns(joined, '_')
		joined = collapseRuns(joined, '-')
		joined = strings.ReplaceAll(joined, "_-_", "-")
		joined = collapseRuns(joined, '-')
	}

	var sb strings.Builder
	for _, r := range joined {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	return sb.String(), nil
}

// joinCapitalized concatenates words with leading letters upcased.
// When lowerFirst is set the first word is lowercased instead (camelCase).
func joinCapitalized(words []string, lowerFirst bool) string {
	var sb strings.Builder
	for i, w := range words {
		r := []rune(w)
		if i == 0 && lowerFirst {
			sb.WriteString(strings.ToLower(w))
			continue
		}
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}
	return sb.String()
}

// collapseRuns replaces runs of c with a single c.
func collapseRuns(s string, c byte) string {
	double := string([]byte{c, c})
	single := string(c)
	for strings.Contains(s, double) {
		s = strings.ReplaceAll(s, double, single)
	}
	return s
}

// FormatIRI shapes free text into one of three IRI forms:
//
//   - passthrough for text that is already a compact IRI
//     ("schema:audience" stays "schema:audience");
//   - angle-bracket wrapping for full URIs
//     ("http://example.org/x" becomes "<http://example.org/x>");
//   - a default-namespace compact IRI coined from the label otherwise
//     ("Male Audience" becomes ":Male_Audience" under Delimited).
//
// A trailing colon is stripped and the remainder reprocessed, so
// "schema:" reduces to ":Schema"-style coinage and pure-colon input
// reduces to the empty string. Empty or unusable input returns "",
// which downstream AddIf drops as an excluded value.
func FormatIRI(raw string, casing Casing) string {
	iri := strings.TrimSpace(raw)
	if iri == "" {
		return ""
	}

	if strings.Contains(iri, ":") && !strings.ContainsFunc(iri, unicode.IsSpace) {
		if strings.HasSuffix(iri, ":") {
			return FormatIRI(strings.TrimSuffix(iri, ":"), casing)
		}
		if strings.Contains(iri, ":/") && !strings.HasPrefix(iri, "<") {
			return "<" + iri + ">"
		}
		return iri
	}

	label, err := NormalizeLabel(iri, casing)
	if err != nil || label == "" {
		return ""
	}
	return ":" + label
}

// IRI is FormatIRI under the default Delimited policy.
func IRI(raw string) string {
	return FormatIRI(raw, Delimited)
}
