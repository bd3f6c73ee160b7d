// Package ttl implements the statement store and Turtle serialization
// core of the mental-health database builder.
//
// The package has two halves:
//
// Statement Store:
// An ordered accumulator mapping subject IRIs to predicate IRIs to sets
// of object terms. The only mutating operation is AddIf, which merges a
// (subject, predicate, object) triple into the store unless any component
// is an exclusion sentinel (empty string, "nan", "None", ...). Insertion
// is idempotent and exclusion is routine filtering, never an error.
//
// Turtle Renderer:
// Pure functions that turn the accumulated store (or a single subject's
// predicate list) into Turtle text, plus the supporting string utilities:
// literal escaping and language tagging, IRI shaping from free-text
// labels, and label-casing conversion.
//
// Determinism:
// Subjects, predicates within a subject, and objects within a predicate
// iterate in first-insertion order, so Document output is byte-identical
// across runs given the same insertion sequence. The store is mutated by
// sequential callers only; no locking is provided or needed.
package ttl
