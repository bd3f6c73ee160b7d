package ingest

import (
	"github.com/childmind/mhdb/internal/ttl"
)

// Projects ingests the projects workbook: software and research projects
// grouped by type and tied to the people and organizations behind them.
//
// Worksheets: "projects" (index, project, description, link,
// indices_project_type, indices_domain), "project_types" (index,
// project_type, IRI) and "people" (index, person, affiliate, location,
// link).
func Projects(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("projects")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	projects, err := wb.Table("projects")
	if err != nil {
		return err
	}
	projectTypes, err := wb.Table("project_types")
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

	for row := 0; row < projectTypes.NumRows(); row++ {
		projectType := projectTypes.Get(row, "project_type")
		if isNull(projectType) {
			continue
		}
		// A project type row may carry its own canonical IRI; the name
		// is only shaped into one when it does not.
		typeIRI := projectTypes.Get(row, "IRI")
		if isNull(typeIRI) {
			typeIRI = projectType
		}
		typeIRI = iri(typeIRI)
		st.AddIf(typeIRI, "a", ":ProjectType")
		st.AddIf(typeIRI, "rdfs:label", langString(projectType))
	}

	for row := 0; row < projects.NumRows(); row++ {
		project := projects.Get(row, "project")
		if isNull(project) {
			continue
		}
		projectIRI := iri(project)

		st.AddIf(projectIRI, "a", ":Project")
		st.AddIf(projectIRI, "rdfs:label", langString(project))
		st.AddIf(projectIRI, "rdfs:comment", langString(projects.Get(row, "description")))
		st.AddIf(projectIRI, "schema:url", iri(projects.Get(row, "link")))

		if err := joinByIndex(st, projectIRI, ":hasProjectType",
			projects.Get(row, "indices_project_type"),
			projectTypes, "project_type", ttl.Delimited); err != nil {
			return err
		}
		if err := joinByIndex(st, projectIRI, ":isForDomain",
			projects.Get(row, "indices_domain"),
			domains, "domain", ttl.Delimited); err != nil {
			return err
		}
	}

	// People are optional in a projects workbook.
	if people, err := wb.Table("people"); err == nil {
		for row := 0; row < people.NumRows(); row++ {
			person := people.Get(row, "person")
			if isNull(person) {
				continue
			}
			personIRI := iri(person)
			st.AddIf(personIRI, "a", "schema:Person")
			st.AddIf(personIRI, "rdfs:label", langString(person))
			st.AddIf(personIRI, "schema:affiliation", langString(people.Get(row, "affiliate")))
			st.AddIf(personIRI, "schema:location", langString(people.Get(row, "location")))
			st.AddIf(personIRI, "schema:url", iri(people.Get(row, "link")))
		}
	}
	return nil
}
