package ingest

import (
	"github.com/childmind/mhdb/internal/ttl"
)

// Behaviors ingests the behaviors workbook: observable behaviors linked
// to the domains they indicate and the measures that quantify them.
//
// Worksheets: "behaviors" (index, behavior, sentence, indices_domain,
// indices_measure).
func Behaviors(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("behaviors")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	behaviors, err := wb.Table("behaviors")
	if err != nil {
		return err
	}

	domainsWB, err := src.Workbook("domains")
	if err != nil {
		return err
	}
	domains, err := domainsWB.Table("domains")
	if err != nil {
		return err
	}

	measuresWB, err := src.Workbook("measures")
	if err != nil {
		return err
	}
	measures, err := measuresWB.Table("measures")
	if err != nil {
		return err
	}

	for row := 0; row < behaviors.NumRows(); row++ {
		behavior := behaviors.Get(row, "behavior")
		if isNull(behavior) {
			continue
		}
		behaviorIRI := iri(behavior)

		st.AddIf(behaviorIRI, "a", ":Behavior")
		st.AddIf(behaviorIRI, "rdfs:label", langString(behavior))
		st.AddIf(behaviorIRI, ":hasSentenceText", langString(behaviors.Get(row, "sentence")))

		if err := joinByIndex(st, behaviorIRI, ":indicatesDomain",
			behaviors.Get(row, "indices_domain"),
			domains, "domain", ttl.Delimited); err != nil {
			return err
		}
		if err := joinByIndex(st, behaviorIRI, ":isMeasuredBy",
			behaviors.Get(row, "indices_measure"),
			measures, "measure", ttl.Delimited); err != nil {
			return err
		}
	}
	return nil
}
