package ttl

import (
	"fmt"
	"strings"
)

// Pair is one predicate/object statement about a subject.
type Pair struct {
	Predicate string
	Object    string
}

// Prefix is one namespace declaration for the document header.
type Prefix struct {
	Name string
	IRI  string
}

// Document renders every subject in the store as a Turtle block:
//
//	subject predicate1 object1a ;
//	\tpredicate2 object2a .
//
// Predicate/object pairs are the cross product of each predicate with
// its object set, joined by " ;\n\t"; blocks are separated by a blank
// line. Output is deterministic: all three store levels iterate in
// first-insertion order.
func Document(s *Store) string {
	blocks := make([]string, 0, len(s.order))
	for _, subject := range s.order {
		pm := s.subjects[subject]
		pairs := make([]string, 0, len(pm.order))
		for _, predicate := range pm.order {
			for _, object := range pm.objects[predicate].order {
				pairs = append(pairs, predicate+" "+object)
			}
		}
		blocks = append(blocks, subject+" "+strings.Join(pairs, " ;\n\t")+" .")
	}
	return strings.Join(blocks, "\n\n")
}

// Subject renders a single subject block from explicit predicate/object
// pairs, in the order given.
func Subject(subject string, pairs []Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Predicate + " " + p.Object
	}
	return subject + " " + strings.Join(parts, " ;\n\t") + " ."
}

// ReifiedSubject coins the stable blank-node subject under which a
// triple is reified: the triple's components joined and normalized into
// one label. The same triple always yields the same blank node.
func ReifiedSubject(subject, predicate, object string) string {
	label, err := NormalizeLabel(strings.Join([]string{subject, predicate, object}, "_"), Delimited)
	if err != nil {
		label = ""
	}
	return "_:" + label
}

// ReifiedStatement renders a triple as its own anonymous subject so
// metadata (provenance, confidence) can attach to it. The blank-node
// label is coined from the triple's components; meta pairs follow the
// rdf:subject/rdf:predicate/rdf:object core.
func ReifiedStatement(subject, predicate, object string, meta []Pair) string {
	pairs := make([]Pair, 0, 4+len(meta))
	pairs = append(pairs,
		Pair{"rdf:type", "rdf:Statement"},
		Pair{"rdf:subject", subject},
		Pair{"rdf:predicate", predicate},
		Pair{"rdf:object", object},
	)
	pairs = append(pairs, meta...)
	return Subject(ReifiedSubject(subject, predicate, object), pairs)
}

// SubjectAnnotated renders a subject block preceded by one reified
// statement per pair, each carrying the common meta pairs. With no
// common pairs it degenerates to Subject.
func SubjectAnnotated(subject string, pairs, common []Pair) string {
	if len(common) == 0 {
		return Subject(subject, pairs)
	}
	blocks := make([]string, 0, len(pairs)+1)
	for _, p := range pairs {
		blocks = append(blocks, ReifiedStatement(subject, p.Predicate, p.Object, common))
	}
	blocks = append(blocks, Subject(subject, pairs))
	return strings.Join(blocks, "\n\n")
}

// Header renders the beginning of the Turtle document: the prefix
// declarations, the @base line, and the owl:Ontology stanza carrying
// version and description metadata.
func Header(baseURI, version, label, comment string, prefixes []Prefix) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "@prefix : <%s#> .\n", baseURI)
	for _, p := range prefixes {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", p.Name, p.IRI)
	}
	fmt.Fprintf(&sb, "@base <%s> .\n", baseURI)

	fmt.Fprintf(&sb, "<%s> rdf:type owl:Ontology ;\n", baseURI)
	fmt.Fprintf(&sb, "    owl:versionIRI <%s/%s> ;\n", baseURI, version)
	fmt.Fprintf(&sb, "    owl:versionInfo %s ;\n", Typed(version, "rdfs:Literal"))
	fmt.Fprintf(&sb, "    rdfs:label %s ;\n", Typed(label, "rdfs:Literal"))
	fmt.Fprintf(&sb, "    rdfs:comment %s .\n\n", LangString(comment))

	return sb.String()
}
