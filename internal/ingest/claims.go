package ingest

import (
	"github.com/childmind/mhdb/internal/ttl"
)

// Claims ingests the claims workbook: assertions linking domains to
// measures, each reified so its provenance — who claims it, with what
// confidence, citing which references — attaches to the statement
// itself rather than to either end of it.
//
// Worksheets: "claims" (index, subject, predicate, object, claimant,
// confidence, indices_domain, indices_reference).
func Claims(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("claims")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	claims, err := wb.Table("claims")
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

	referencesWB, err := src.Workbook("references")
	if err != nil {
		return err
	}
	references, err := referencesWB.Table("references")
	if err != nil {
		return err
	}

	for row := 0; row < claims.NumRows(); row++ {
		subject := claims.Get(row, "subject")
		predicate := claims.Get(row, "predicate")
		object := claims.Get(row, "object")
		if isNull(subject) || isNull(predicate) || isNull(object) {
			continue
		}

		subjectIRI := iri(subject)
		predicateIRI := iri(predicate)
		objectIRI := iri(object)

		// The claimed triple itself.
		st.AddIf(subjectIRI, predicateIRI, objectIRI)

		// Its reification, so provenance hangs off the statement.
		node := ttl.ReifiedSubject(subjectIRI, predicateIRI, objectIRI)
		st.AddIf(node, "a", "rdf:Statement")
		st.AddIf(node, "rdf:subject", subjectIRI)
		st.AddIf(node, "rdf:predicate", predicateIRI)
		st.AddIf(node, "rdf:object", objectIRI)

		st.AddIf(node, ":isClaimedBy", langString(claims.Get(row, "claimant")))
		st.AddIf(node, ":hasConfidence", typed(claims.Get(row, "confidence"), "xsd:decimal"))

		if err := joinByIndex(st, node, ":isAboutDomain",
			claims.Get(row, "indices_domain"),
			domains, "domain", ttl.Delimited); err != nil {
			return err
		}
		if err := joinByIndex(st, node, "dcterms:references",
			claims.Get(row, "indices_reference"),
			references, "reference", ttl.Delimited); err != nil {
			return err
		}
	}
	return nil
}
