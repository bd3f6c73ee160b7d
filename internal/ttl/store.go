package ttl

import "strings"

// DefaultExclusions returns the sentinel values that AddIf refuses to
// store as subject, predicate, or object. The empty string covers blank
// and whitespace-only cells (components are trimmed before the check);
// the rest are the string spellings of spreadsheet null markers.
//
// A fresh slice is returned on every call so one store's exclusion set
// never leaks into another.
func DefaultExclusions() []string {
	return []string{"", "nan", "NaN", "NAN", "None", "EmptyValue"}
}

// Store accumulates RDF statements as an ordered mapping
// subject → predicate → set of objects.
//
// Subjects and predicates are compact IRIs (":Depression", "rdfs:label")
// or full bracketed IRIs; objects may additionally be Turtle literal
// expressions. Object sets are deduplicated, and all three levels
// preserve first-insertion order for deterministic rendering.
type Store struct {
	exclude  map[string]struct{}
	order    []string
	subjects map[string]*predicateMap
}

type predicateMap struct {
	order   []string
	objects map[string]*objectSet
}

type objectSet struct {
	order   []string
	members map[string]struct{}
}

// NewStore creates an empty store with the default exclusion set.
func NewStore() *Store {
	return NewStoreExcluding(DefaultExclusions())
}

// NewStoreExcluding creates an empty store that drops triples containing
// any of the given sentinel values. The values are copied; the caller's
// slice is not retained.
func NewStoreExcluding(values []string) *Store {
	exclude := make(map[string]struct{}, len(values))
	for _, v := range values {
		exclude[v] = struct{}{}
	}
	return &Store{
		exclude:  exclude,
		subjects: make(map[string]*predicateMap),
	}
}

// AddIf merges one triple into the store.
//
// Each component is trimmed of leading and trailing whitespace (internal
// newlines, e.g. in embedded rdf:Seq fragments, are preserved). If any
// trimmed component is in the exclusion set the triple is silently
// dropped: filtering null spreadsheet cells is routine, not an error.
// Adding the same triple twice is a no-op.
func (s *Store) AddIf(subject, predicate, object string) {
	subject = strings.TrimSpace(subject)
	predicate = strings.TrimSpace(predicate)
	object = strings.TrimSpace(object)
	if s.excluded(subject) || s.excluded(predicate) || s.excluded(object) {
		return
	}

	pm, ok := s.subjects[subject]
	if !ok {
		pm = &predicateMap{objects: make(map[string]*objectSet)}
		s.subjects[subject] = pm
		s.order = append(s.order, subject)
	}

	os, ok := pm.objects[predicate]
	if !ok {
		os = &objectSet{members: make(map[string]struct{})}
		pm.objects[predicate] = os
		pm.order = append(pm.order, predicate)
	}

	if _, dup := os.members[object]; dup {
		return
	}
	os.members[object] = struct{}{}
	os.order = append(os.order, object)
}

func (s *Store) excluded(v string) bool {
	_, ok := s.exclude[v]
	return ok
}

// Has reports whether the exact triple is present. Components are
// trimmed the same way AddIf trims them.
func (s *Store) Has(subject, predicate, object string) bool {
	pm, ok := s.subjects[strings.TrimSpace(subject)]
	if !ok {
		return false
	}
	os, ok := pm.objects[strings.TrimSpace(predicate)]
	if !ok {
		return false
	}
	_, ok = os.members[strings.TrimSpace(object)]
	return ok
}

// Subjects returns all subjects in insertion order.
func (s *Store) Subjects() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Predicates returns the predicates recorded for subject in insertion
// order, or nil if the subject is unknown.
func (s *Store) Predicates(subject string) []string {
	pm, ok := s.subjects[subject]
	if !ok {
		return nil
	}
	out := make([]string, len(pm.order))
	copy(out, pm.order)
	return out
}

// Objects returns the object set for (subject, predicate) in first-
// insertion order, or nil if the pair is unknown.
func (s *Store) Objects(subject, predicate string) []string {
	pm, ok := s.subjects[subject]
	if !ok {
		return nil
	}
	os, ok := pm.objects[predicate]
	if !ok {
		return nil
	}
	out := make([]string, len(os.order))
	copy(out, os.order)
	return out
}

// Len returns the number of distinct subjects.
func (s *Store) Len() int {
	return len(s.order)
}

// TripleCount returns the total number of stored triples.
func (s *Store) TripleCount() int {
	n := 0
	for _, pm := range s.subjects {
		for _, os := range pm.objects {
			n += len(os.order)
		}
	}
	return n
}
