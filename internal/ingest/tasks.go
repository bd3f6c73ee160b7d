package ingest

import (
	"github.com/childmind/mhdb/internal/ttl"
)

// Tasks ingests the tasks workbook: activities a participant performs,
// implemented by projects and indicating behaviors.
//
// Worksheets: "tasks" (index, task, description, instructions,
// indices_project, indices_behavior).
func Tasks(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("tasks")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	tasks, err := wb.Table("tasks")
	if err != nil {
		return err
	}

	projectsWB, err := src.Workbook("projects")
	if err != nil {
		return err
	}
	projects, err := projectsWB.Table("projects")
	if err != nil {
		return err
	}

	behaviorsWB, err := src.Workbook("behaviors")
	if err != nil {
		return err
	}
	behaviors, err := behaviorsWB.Table("behaviors")
	if err != nil {
		return err
	}

	for row := 0; row < tasks.NumRows(); row++ {
		task := tasks.Get(row, "task")
		if isNull(task) {
			continue
		}
		taskIRI := iri(task)

		st.AddIf(taskIRI, "a", "demcare:Task")
		st.AddIf(taskIRI, "rdfs:label", langString(task))
		st.AddIf(taskIRI, "rdfs:comment", langString(tasks.Get(row, "description")))

		instructions := tasks.Get(row, "instructions")
		if !isNull(instructions) {
			st.AddIf(taskIRI, ":hasInstructions", iri(instructions))
			st.AddIf(iri(instructions), ":hasInstructionsText", langString(instructions))
		}

		if err := joinByIndex(st, taskIRI, ":isImplementedBy",
			tasks.Get(row, "indices_project"),
			projects, "project", ttl.Delimited); err != nil {
			return err
		}
		if err := joinByIndex(st, taskIRI, ":assessesBehavior",
			tasks.Get(row, "indices_behavior"),
			behaviors, "behavior", ttl.Delimited); err != nil {
			return err
		}
	}
	return nil
}
