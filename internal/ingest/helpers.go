package ingest

import (
	"fmt"
	"strings"

	"github.com/childmind/mhdb/internal/sheets"
	"github.com/childmind/mhdb/internal/ttl"
)

// isNull reports whether a cell is a null marker. Wrapping a null cell
// in a literal or IRI would disguise it from the store's exclusion
// filter, so every wrapper below checks first.
func isNull(cell string) bool {
	cell = strings.TrimSpace(cell)
	for _, v := range ttl.DefaultExclusions() {
		if cell == v {
			return true
		}
	}
	return false
}

// langString wraps a cell as a language-tagged literal; null cells pass
// through untouched so AddIf drops them.
func langString(cell string) string {
	if isNull(cell) {
		return cell
	}
	return ttl.LangString(cell)
}

// typed wraps a cell as a datatyped literal; null cells pass through.
func typed(cell, datatype string) string {
	if isNull(cell) {
		return cell
	}
	return ttl.Typed(cell, datatype)
}

// iri shapes a cell into an IRI under the default policy; null cells
// pass through.
func iri(cell string) string {
	return iriWith(cell, ttl.Delimited)
}

func iriWith(cell string, casing ttl.Casing) string {
	if isNull(cell) {
		return cell
	}
	return ttl.FormatIRI(cell, casing)
}

// splitIndices parses a comma-separated index-list cell ("1, 2,3") into
// its trimmed elements. Blank cells and blank elements yield nothing.
func splitIndices(cell string) []string {
	if isNull(cell) {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// joinByIndex resolves an index-list cell against a lookup worksheet and
// adds one (subject, predicate, IRI(value)) statement per resolved row.
// A missing index is an ingestion error carrying the offending value.
func joinByIndex(st *ttl.Store, subject, predicate, cell string, lookup *sheets.Table, wantColumn string, casing ttl.Casing) error {
	for _, idx := range splitIndices(cell) {
		value, ok := lookup.LookupByIndex("index", idx, wantColumn)
		if !ok {
			return fmt.Errorf("worksheet %s: no row with index %s", lookup.Name, idx)
		}
		st.AddIf(subject, predicate, iriWith(value, casing))
	}
	return nil
}

// ingestCommon handles the Classes and Properties worksheets that any
// workbook may carry alongside its data sheets.
func ingestCommon(wb *sheets.Workbook, st *ttl.Store) {
	if classes, err := wb.Table("Classes"); err == nil {
		ingestClasses(classes, st)
	}
	if properties, err := wb.Table("Properties"); err == nil {
		ingestProperties(properties, st)
	}
}

func ingestClasses(tbl *sheets.Table, st *ttl.Store) {
	for row := 0; row < tbl.NumRows(); row++ {
		classIRI := iri(tbl.Get(row, "ClassName"))
		st.AddIf(classIRI, "a", "rdf:Class")
		st.AddIf(classIRI, "rdfs:label", langString(tbl.Get(row, "label")))
		st.AddIf(classIRI, "rdfs:comment", langString(tbl.Get(row, "definition")))
		st.AddIf(classIRI, "owl:sameAs", tbl.Get(row, "sameAs"))
		st.AddIf(classIRI, "rdfs:subClassOf", iri(tbl.Get(row, "subClassOf")))
		for _, eq := range splitIndices(tbl.Get(row, "equivalentClasses")) {
			st.AddIf(classIRI, "rdfs:equivalentClass", eq)
		}
	}
}

func ingestProperties(tbl *sheets.Table, st *ttl.Store) {
	for row := 0; row < tbl.NumRows(); row++ {
		propertyIRI := iri(tbl.Get(row, "property"))
		st.AddIf(propertyIRI, "a", "rdf:Property")
		st.AddIf(propertyIRI, "rdfs:label", langString(tbl.Get(row, "label")))
		st.AddIf(propertyIRI, "rdfs:comment", langString(tbl.Get(row, "definition")))
		st.AddIf(propertyIRI, "rdfs:domain", iri(tbl.Get(row, "propertyDomain")))
		st.AddIf(propertyIRI, "rdfs:range", iri(tbl.Get(row, "propertyRange")))
		st.AddIf(propertyIRI, "owl:sameAs", tbl.Get(row, "sameAs"))
		st.AddIf(propertyIRI, "rdfs:subPropertyOf", iri(tbl.Get(row, "subPropertyOf")))
	}
}
