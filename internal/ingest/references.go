package ingest

import (
	"strings"

	"github.com/childmind/mhdb/internal/ttl"
)

// References ingests the references workbook: the cited works claims
// point back to, with DOI and PubMed identifiers where available.
//
// Worksheets: "references" (index, reference, title, link, PubMedID,
// abbreviation, description, indices_reference_type) and
// "reference_types" (index, reference_type).
func References(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("references")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	references, err := wb.Table("references")
	if err != nil {
		return err
	}
	referenceTypes, err := wb.Table("reference_types")
	if err != nil {
		return err
	}

	for row := 0; row < referenceTypes.NumRows(); row++ {
		referenceType := referenceTypes.Get(row, "reference_type")
		if isNull(referenceType) {
			continue
		}
		typeIRI := iri(referenceType)
		st.AddIf(typeIRI, "a", ":ReferenceType")
		st.AddIf(typeIRI, "rdfs:label", langString(referenceType))
	}

	for row := 0; row < references.NumRows(); row++ {
		reference := references.Get(row, "reference")
		if isNull(reference) {
			continue
		}
		referenceIRI := iri(reference)

		st.AddIf(referenceIRI, "a", "dcterms:BibliographicResource")
		st.AddIf(referenceIRI, "rdfs:label", langString(reference))
		st.AddIf(referenceIRI, "dcterms:title", langString(references.Get(row, "title")))
		st.AddIf(referenceIRI, "rdfs:comment", langString(references.Get(row, "description")))
		st.AddIf(referenceIRI, ":hasAbbreviation", langString(references.Get(row, "abbreviation")))

		link := strings.TrimSpace(references.Get(row, "link"))
		if !isNull(link) {
			if doi, ok := doiIRI(link); ok {
				st.AddIf(referenceIRI, "datacite:hasIdentifier", doi)
				st.AddIf(referenceIRI, "datacite:usesIdentifierScheme", "datacite:doi")
			} else {
				st.AddIf(referenceIRI, "schema:url", iri(link))
			}
		}

		pubMedID := strings.TrimSpace(references.Get(row, "PubMedID"))
		if !isNull(pubMedID) {
			st.AddIf(referenceIRI, "fabio:hasPubMedId", typed(pubMedID, "xsd:string"))
		}

		if err := joinByIndex(st, referenceIRI, ":hasReferenceType",
			references.Get(row, "indices_reference_type"),
			referenceTypes, "reference_type", ttl.Delimited); err != nil {
			return err
		}
	}
	return nil
}

// doiIRI normalizes a DOI link or bare DOI into its canonical resolver
// IRI. Anything without a "10." DOI prefix is not a DOI.
func doiIRI(link string) (string, bool) {
	for _, prefix := range []string{
		"https://dx.doi.org/",
		"http://dx.doi.org/",
		"https://doi.org/",
		"http://doi.org/",
		"doi:",
		"DOI:",
	} {
		if strings.HasPrefix(link, prefix) {
			link = strings.TrimSpace(strings.TrimPrefix(link, prefix))
			break
		}
	}
	if !strings.HasPrefix(link, "10.") {
		return "", false
	}
	return "<https://dx.doi.org/" + link + ">", true
}
