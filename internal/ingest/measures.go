package ingest

import (
	"github.com/childmind/mhdb/internal/ttl"
)

// Measures ingests the measures workbook: the quantities and instruments
// behaviors and claims are measured by.
//
// Worksheets: "measures" (index, measure, definition,
// indices_measure_category) and "measure_categories" (index,
// measure_category).
func Measures(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("measures")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	measures, err := wb.Table("measures")
	if err != nil {
		return err
	}
	categories, err := wb.Table("measure_categories")
	if err != nil {
		return err
	}

	// Categories are classes of their own.
	for row := 0; row < categories.NumRows(); row++ {
		category := categories.Get(row, "measure_category")
		if isNull(category) {
			continue
		}
		categoryIRI := iri(category)
		st.AddIf(categoryIRI, "a", ":MeasureCategory")
		st.AddIf(categoryIRI, "rdfs:label", langString(category))
	}

	for row := 0; row < measures.NumRows(); row++ {
		measure := measures.Get(row, "measure")
		if isNull(measure) {
			continue
		}
		measureIRI := iri(measure)

		st.AddIf(measureIRI, "a", ":Measure")
		st.AddIf(measureIRI, "rdfs:label", langString(measure))
		st.AddIf(measureIRI, "rdfs:comment", langString(measures.Get(row, "definition")))

		err := joinByIndex(st, measureIRI, "rdfs:subClassOf",
			measures.Get(row, "indices_measure_category"),
			categories, "measure_category", ttl.Delimited)
		if err != nil {
			return err
		}
	}
	return nil
}
