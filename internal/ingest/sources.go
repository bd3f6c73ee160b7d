package ingest

import (
	"fmt"

	"github.com/childmind/mhdb/internal/sheets"
	"github.com/childmind/mhdb/internal/ttl"
)

// Sources is the set of loaded workbooks an ingestion run draws from.
type Sources struct {
	workbooks map[string]*sheets.Workbook
}

// NewSources collects workbooks by name.
func NewSources(wbs ...*sheets.Workbook) *Sources {
	m := make(map[string]*sheets.Workbook, len(wbs))
	for _, wb := range wbs {
		m[wb.Name] = wb
	}
	return &Sources{workbooks: m}
}

// Workbook returns a loaded workbook by name.
func (s *Sources) Workbook(name string) (*sheets.Workbook, error) {
	wb, ok := s.workbooks[name]
	if !ok {
		return nil, fmt.Errorf("sources: workbook %q not loaded", name)
	}
	return wb, nil
}

// Ingester binds one spreadsheet to its ingestion function.
type Ingester struct {
	// Name is the primary workbook this ingester consumes.
	Name string

	// Needs lists every workbook the ingester reads, primary included.
	Needs []string

	Run func(src *Sources, st *ttl.Store) error
}

// All returns every ingester in build order. The order is fixed so the
// statement store, and therefore the rendered document, is
// deterministic across runs.
func All() []Ingester {
	return []Ingester{
		{Name: "domains", Needs: []string{"domains"}, Run: Domains},
		{Name: "measures", Needs: []string{"measures"}, Run: Measures},
		{Name: "behaviors", Needs: []string{"behaviors", "domains", "measures"}, Run: Behaviors},
		{Name: "questions", Needs: []string{"questions"}, Run: Questions},
		{Name: "projects", Needs: []string{"projects", "domains"}, Run: Projects},
		{Name: "tasks", Needs: []string{"tasks", "projects", "behaviors"}, Run: Tasks},
		{Name: "references", Needs: []string{"references"}, Run: References},
		{Name: "claims", Needs: []string{"claims", "domains", "references"}, Run: Claims},
		{Name: "dsm5", Needs: []string{"dsm5"}, Run: DSM5},
	}
}

// RunAll runs every ingester whose workbooks are all loaded, in build
// order, accumulating into st. Ingesters whose primary workbook is
// absent are skipped; a loaded primary with a missing dependency is an
// error, as is any ingestion failure.
func RunAll(src *Sources, st *ttl.Store) error {
	for _, ing := range All() {
		if _, ok := src.workbooks[ing.Name]; !ok {
			continue
		}
		for _, need := range ing.Needs {
			if _, ok := src.workbooks[need]; !ok {
				return fmt.Errorf("ingest %s: requires workbook %q", ing.Name, need)
			}
		}
		if err := ing.Run(src, st); err != nil {
			return fmt.Errorf("ingest %s: %w", ing.Name, err)
		}
	}
	return nil
}
