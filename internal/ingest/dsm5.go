package ingest

import (
	"fmt"
	"strings"

	"github.com/childmind/mhdb/internal/sheets"
	"github.com/childmind/mhdb/internal/ttl"
)

// DSM5 ingests the dsm5 workbook: the disorder taxonomy. Categories,
// subcategories, severities and diagnostic specifiers each become
// classes of their own; disorders hang from the most specific parent
// their row names, so the rendered hierarchy follows the manual's.
//
// Worksheets: "disorders" (index, disorder, definition, ICD9, ICD10,
// note, index_disorder_category, index_disorder_subcategory,
// index_disorder_subsubcategory, index_diagnostic_specifier,
// index_severity), plus the lookup sheets "disorder_categories",
// "disorder_subcategories", "disorder_subsubcategories",
// "diagnostic_specifiers" and "severities".
func DSM5(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("dsm5")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	disorders, err := wb.Table("disorders")
	if err != nil {
		return err
	}

	lookups := []struct {
		sheet  string
		column string
		class  string
	}{
		{"disorder_categories", "disorder_category", ":DisorderCategory"},
		{"disorder_subcategories", "disorder_subcategory", ":DisorderSubcategory"},
		{"disorder_subsubcategories", "disorder_subsubcategory", ":DisorderSubcategory"},
		{"diagnostic_specifiers", "diagnostic_specifier", ":DiagnosticSpecifier"},
		{"severities", "severity", ":DisorderSeverity"},
	}
	for _, l := range lookups {
		tbl, err := wb.Table(l.sheet)
		if err != nil {
			return err
		}
		for row := 0; row < tbl.NumRows(); row++ {
			name := tbl.Get(row, l.column)
			if isNull(name) {
				continue
			}
			nameIRI := iriWith(name, ttl.Pascal)
			st.AddIf(nameIRI, "a", l.class)
			st.AddIf(nameIRI, "rdfs:label", langString(name))
		}
	}

	// Subcategories nest under categories, sub-subcategories under
	// subcategories; the sheets carry the parent index alongside each
	// row.
	if err := linkTaxonomy(st, wb, "disorder_subcategories",
		"disorder_subcategory", "index_disorder_category",
		"disorder_categories", "disorder_category"); err != nil {
		return err
	}
	if err := linkTaxonomy(st, wb, "disorder_subsubcategories",
		"disorder_subsubcategory", "index_disorder_subcategory",
		"disorder_subcategories", "disorder_subcategory"); err != nil {
		return err
	}

	for row := 0; row < disorders.NumRows(); row++ {
		disorder := disorders.Get(row, "disorder")
		if isNull(disorder) {
			continue
		}
		disorderIRI := iri(disorder)

		st.AddIf(disorderIRI, "a", ":Disorder")
		st.AddIf(disorderIRI, "rdfs:label", langString(disorder))
		st.AddIf(disorderIRI, "rdfs:comment", langString(disorders.Get(row, "definition")))
		st.AddIf(disorderIRI, "skos:note", langString(disorders.Get(row, "note")))

		icd9 := strings.TrimSpace(disorders.Get(row, "ICD9"))
		if !isNull(icd9) {
			st.AddIf(disorderIRI, ":hasICD9Code", "ICD9CM:"+icd9)
		}
		icd10 := strings.TrimSpace(disorders.Get(row, "ICD10"))
		if !isNull(icd10) {
			st.AddIf(disorderIRI, ":hasICD10Code", "ICD10CM:"+icd10)
		}

		// Most specific named ancestor wins; the others are reachable
		// through the taxonomy links above.
		parent, err := disorderParent(wb, disorders, row)
		if err != nil {
			return err
		}
		if parent != "" {
			st.AddIf(disorderIRI, "rdfs:subClassOf", iriWith(parent, ttl.Pascal))
		}

		if err := lookupAdd(st, disorderIRI, ":hasDiagnosticSpecifier", wb,
			"diagnostic_specifiers", "diagnostic_specifier",
			disorders.Get(row, "index_diagnostic_specifier")); err != nil {
			return err
		}
		if err := lookupAdd(st, disorderIRI, ":hasSeverity", wb,
			"severities", "severity",
			disorders.Get(row, "index_severity")); err != nil {
			return err
		}
	}
	return nil
}

// disorderParent resolves the deepest taxonomy level a disorder row
// names. Rows may fill any prefix of category/subcategory/
// sub-subcategory.
func disorderParent(wb *sheets.Workbook, disorders *sheets.Table, row int) (string, error) {
	levels := []struct {
		indexColumn string
		sheet       string
		column      string
	}{
		{"index_disorder_subsubcategory", "disorder_subsubcategories", "disorder_subsubcategory"},
		{"index_disorder_subcategory", "disorder_subcategories", "disorder_subcategory"},
		{"index_disorder_category", "disorder_categories", "disorder_category"},
	}
	for _, l := range levels {
		idx := disorders.Get(row, l.indexColumn)
		if isNull(idx) {
			continue
		}
		tbl, err := wb.Table(l.sheet)
		if err != nil {
			return "", err
		}
		name, ok := tbl.LookupByIndex("index", strings.TrimSpace(idx), l.column)
		if !ok {
			return "", fmt.Errorf("worksheet %s: no row with index %s", l.sheet, idx)
		}
		return name, nil
	}
	return "", nil
}

// linkTaxonomy adds rdfs:subClassOf links from a child taxonomy sheet
// to its parent sheet.
func linkTaxonomy(st *ttl.Store, wb *sheets.Workbook, childSheet, childColumn, parentIndexColumn, parentSheet, parentColumn string) error {
	children, err := wb.Table(childSheet)
	if err != nil {
		return err
	}
	parents, err := wb.Table(parentSheet)
	if err != nil {
		return err
	}
	for row := 0; row < children.NumRows(); row++ {
		child := children.Get(row, childColumn)
		if isNull(child) {
			continue
		}
		idx := children.Get(row, parentIndexColumn)
		if isNull(idx) {
			continue
		}
		parent, ok := parents.LookupByIndex("index", strings.TrimSpace(idx), parentColumn)
		if !ok {
			return fmt.Errorf("worksheet %s: no row with index %s", parentSheet, idx)
		}
		st.AddIf(iriWith(child, ttl.Pascal), "rdfs:subClassOf", iriWith(parent, ttl.Pascal))
	}
	return nil
}

// lookupAdd resolves a single index against a lookup sheet and adds the
// statement. Blank indexes add nothing.
func lookupAdd(st *ttl.Store, subject, predicate string, wb *sheets.Workbook, sheet, column, idx string) error {
	if isNull(idx) {
		return nil
	}
	tbl, err := wb.Table(sheet)
	if err != nil {
		return err
	}
	name, ok := tbl.LookupByIndex("index", strings.TrimSpace(idx), column)
	if !ok {
		return fmt.Errorf("worksheet %s: no row with index %s", sheet, idx)
	}
	st.AddIf(subject, predicate, iriWith(name, ttl.Pascal))
	return nil
}
