package ingest

import (
	"fmt"

	"github.com/childmind/mhdb/internal/ttl"
)

// Domains ingests the domains workbook: the domain class hierarchy the
// rest of the database hangs from.
//
// Worksheets: "domains" (index, domain, definition, equivalentClasses,
// index_parent) and optional Classes/Properties.
func Domains(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("domains")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	domains, err := wb.Table("domains")
	if err != nil {
		return err
	}

	for row := 0; row < domains.NumRows(); row++ {
		domain := domains.Get(row, "domain")
		if isNull(domain) {
			continue
		}
		domainIRI := iri(domain)

		st.AddIf(domainIRI, "a", ":Domain")
		st.AddIf(domainIRI, "rdfs:label", langString(domain))
		st.AddIf(domainIRI, "rdfs:comment", langString(domains.Get(row, "definition")))

		for _, eq := range splitIndices(domains.Get(row, "equivalentClasses")) {
			st.AddIf(domainIRI, "rdfs:equivalentClass", eq)
		}

		// Parent link: index_parent points back into this worksheet.
		parent := domains.Get(row, "index_parent")
		if !isNull(parent) {
			name, ok := domains.LookupByIndex("index", parent, "domain")
			if !ok {
				return fmt.Errorf("domains row %d: no parent domain with index %s", row+1, parent)
			}
			st.AddIf(domainIRI, "rdfs:subClassOf", iri(name))
		}
	}
	return nil
}
