package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/childmind/mhdb/internal/sheets"
	"github.com/childmind/mhdb/internal/ttl"
)

func newWorkbook(name string, tables ...*sheets.Table) *sheets.Workbook {
	wb := sheets.NewWorkbook(name)
	for _, t := range tables {
		wb.Add(t)
	}
	return wb
}

func domainsWorkbook() *sheets.Workbook {
	return newWorkbook("domains", sheets.NewTable("domains",
		[]string{"index", "domain", "definition", "equivalentClasses", "index_parent"},
		[][]string{
			{"1", "emotion", "Feeling states.", "", ""},
			{"2", "fear", "Response to threat.", "mfoem:000026", "1"},
			{"3", "nan", "", "", ""},
		}))
}

func TestDomains(t *testing.T) {
	st := ttl.NewStore()
	src := NewSources(domainsWorkbook())
	require.NoError(t, Domains(src, st))

	assert.True(t, st.Has(":emotion", "a", ":Domain"))
	assert.True(t, st.Has(":emotion", "rdfs:comment", `"""Feeling states."""@en`))
	assert.True(t, st.Has(":fear", "rdfs:subClassOf", ":emotion"))
	assert.True(t, st.Has(":fear", "rdfs:equivalentClass", "mfoem:000026"))

	// The null-marker row contributes nothing.
	assert.Equal(t, []string{":emotion", ":fear"}, st.Subjects())
}

func TestDomainsMissingParentIndex(t *testing.T) {
	wb := newWorkbook("domains", sheets.NewTable("domains",
		[]string{"index", "domain", "definition", "equivalentClasses", "index_parent"},
		[][]string{{"1", "fear", "", "", "9"}}))

	err := Domains(NewSources(wb), ttl.NewStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 9")
}

func TestMeasures(t *testing.T) {
	wb := newWorkbook("measures",
		sheets.NewTable("measures",
			[]string{"index", "measure", "definition", "indices_measure_category"},
			[][]string{{"1", "heart rate", "Beats per minute.", "1"}}),
		sheets.NewTable("measure_categories",
			[]string{"index", "measure_category"},
			[][]string{{"1", "physiological"}}))

	st := ttl.NewStore()
	require.NoError(t, Measures(NewSources(wb), st))

	assert.True(t, st.Has(":physiological", "a", ":MeasureCategory"))
	assert.True(t, st.Has(":heart_rate", "a", ":Measure"))
	assert.True(t, st.Has(":heart_rate", "rdfs:subClassOf", ":physiological"))
}

func TestBehaviors(t *testing.T) {
	measures := newWorkbook("measures",
		sheets.NewTable("measures",
			[]string{"index", "measure", "definition", "indices_measure_category"},
			[][]string{{"1", "heart rate", "", ""}}),
		sheets.NewTable("measure_categories",
			[]string{"index", "measure_category"}, nil))
	behaviors := newWorkbook("behaviors", sheets.NewTable("behaviors",
		[]string{"index", "behavior", "sentence", "indices_domain", "indices_measure"},
		[][]string{{"1", "avoidance", "Avoids the stimulus.", "2", "1"}}))

	st := ttl.NewStore()
	src := NewSources(domainsWorkbook(), measures, behaviors)
	require.NoError(t, Behaviors(src, st))

	assert.True(t, st.Has(":avoidance", "a", ":Behavior"))
	assert.True(t, st.Has(":avoidance", ":hasSentenceText", `"""Avoids the stimulus."""@en`))
	assert.True(t, st.Has(":avoidance", ":indicatesDomain", ":fear"))
	assert.True(t, st.Has(":avoidance", ":isMeasuredBy", ":heart_rate"))
}

func TestQuestionsResponseOptions(t *testing.T) {
	wb := newWorkbook("questions",
		sheets.NewTable("questions",
			[]string{"index", "question", "instructions_preamble", "instructions", "response_options", "index_response_type"},
			[][]string{
				{"1", "Little interest or pleasure in doing things?", "", "Over the last 2 weeks...", "0=Not at all,1=Several days,2=Nearly every day", "1"},
				{"2", "How often do you worry?", "", "", `1="Never",2="Some, or a little"`, "1"},
			}),
		sheets.NewTable("response_types",
			[]string{"index", "response_type"},
			[][]string{{"1", "multiple choice"}}))

	st := ttl.NewStore()
	require.NoError(t, Questions(NewSources(wb), st))

	q1 := ":Little_interest_or_pleasure_in_doing_things"
	assert.True(t, st.Has(q1, "a", ":Question"))
	assert.True(t, st.Has(q1, ":hasInstructions", ":Over_the_last_2_weeks"))
	// Pascal casing for response types.
	assert.True(t, st.Has(q1, ":hasResponseType", ":MultipleChoice"))

	// Comma-separated options become an ordered rdf:Seq.
	seq1 := st.Objects(q1, ":hasResponseOptions")
	require.Len(t, seq1, 1)
	assert.True(t, st.Has(seq1[0], "a", "rdf:Seq"))
	assert.Equal(t, []string{":Not_at_all"}, st.Objects(seq1[0], "rdf:_1"))
	assert.Equal(t, []string{":Several_days"}, st.Objects(seq1[0], "rdf:_2"))
	assert.Equal(t, []string{":Nearly_every_day"}, st.Objects(seq1[0], "rdf:_3"))
	assert.True(t, st.Has(":Not_at_all", ":hasResponseOptionText", `"""Not at all"""@en`))

	// Quoted options keep their embedded commas.
	q2 := ":How_often_do_you_worry"
	seq2 := st.Objects(q2, ":hasResponseOptions")
	require.Len(t, seq2, 1)
	assert.Equal(t, []string{":Never"}, st.Objects(seq2[0], "rdf:_1"))
	assert.Equal(t, []string{":Some_or_a_little"}, st.Objects(seq2[0], "rdf:_2"))
	assert.True(t, st.Has(":Some_or_a_little", ":hasResponseOptionText", `"""Some, or a little"""@en`))
}

func TestQuestionsMalformedOption(t *testing.T) {
	wb := newWorkbook("questions",
		sheets.NewTable("questions",
			[]string{"index", "question", "instructions_preamble", "instructions", "response_options", "index_response_type"},
			[][]string{{"1", "Q?", "", "", "0=Never,oops", ""}}),
		sheets.NewTable("response_types", []string{"index", "response_type"}, nil))

	err := Questions(NewSources(wb), ttl.NewStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"oops"`)
}

func TestProjects(t *testing.T) {
	wb := newWorkbook("projects",
		sheets.NewTable("projects",
			[]string{"index", "project", "description", "link", "indices_project_type", "indices_domain"},
			[][]string{{"1", "MindLogger", "Data collection platform.", "https://mindlogger.org", "1", "2"}}),
		sheets.NewTable("project_types",
			[]string{"index", "project_type", "IRI"},
			[][]string{
				{"1", "mobile app", ""},
				{"2", "software", "schema:SoftwareApplication"},
			}),
		sheets.NewTable("people",
			[]string{"index", "person", "affiliate", "location", "link"},
			[][]string{{"1", "Jane Doe", "Child Mind Institute", "New York", ""}}))

	st := ttl.NewStore()
	require.NoError(t, Projects(NewSources(wb, domainsWorkbook()), st))

	assert.True(t, st.Has(":mobile_app", "a", ":ProjectType"))
	// A row carrying its own IRI keeps it.
	assert.True(t, st.Has("schema:SoftwareApplication", "a", ":ProjectType"))
	assert.True(t, st.Has("schema:SoftwareApplication", "rdfs:label", `"""software"""@en`))

	assert.True(t, st.Has(":MindLogger", "a", ":Project"))
	assert.True(t, st.Has(":MindLogger", "schema:url", "<https://mindlogger.org>"))
	assert.True(t, st.Has(":MindLogger", ":hasProjectType", ":mobile_app"))
	assert.True(t, st.Has(":MindLogger", ":isForDomain", ":fear"))

	assert.True(t, st.Has(":Jane_Doe", "a", "schema:Person"))
	assert.True(t, st.Has(":Jane_Doe", "schema:affiliation", `"""Child Mind Institute"""@en`))
}

func TestTasks(t *testing.T) {
	projects := newWorkbook("projects",
		sheets.NewTable("projects",
			[]string{"index", "project", "description", "link", "indices_project_type", "indices_domain"},
			[][]string{{"1", "MindLogger", "", "", "", ""}}))
	behaviors := newWorkbook("behaviors",
		sheets.NewTable("behaviors",
			[]string{"index", "behavior", "sentence", "indices_domain", "indices_measure"},
			[][]string{{"1", "avoidance", "", "", ""}}))
	tasks := newWorkbook("tasks",
		sheets.NewTable("tasks",
			[]string{"index", "task", "description", "instructions", "indices_project", "indices_behavior"},
			[][]string{{"1", "go/no-go", "Inhibition task.", "Press for go trials.", "1", "1"}}))

	st := ttl.NewStore()
	require.NoError(t, Tasks(NewSources(tasks, projects, behaviors), st))

	assert.True(t, st.Has(":gono-go", "a", "demcare:Task"))
	assert.True(t, st.Has(":gono-go", ":isImplementedBy", ":MindLogger"))
	assert.True(t, st.Has(":gono-go", ":assessesBehavior", ":avoidance"))
	assert.True(t, st.Has(":Press_for_go_trials", ":hasInstructionsText", `"""Press for go trials."""@en`))
}

func TestReferences(t *testing.T) {
	wb := newWorkbook("references",
		sheets.NewTable("references",
			[]string{"index", "reference", "title", "link", "PubMedID", "abbreviation", "description", "indices_reference_type"},
			[][]string{
				{"1", "Smith 2020", "A study of fear", "https://doi.org/10.1000/xyz", "12345", "", "", "1"},
				{"2", "PHQ-9", "Patient Health Questionnaire", "https://www.phqscreeners.com", "", "PHQ-9", "", "2"},
			}),
		sheets.NewTable("reference_types",
			[]string{"index", "reference_type"},
			[][]string{{"1", "journal article"}, {"2", "questionnaire"}}))

	st := ttl.NewStore()
	require.NoError(t, References(NewSources(wb), st))

	assert.True(t, st.Has(":Smith_2020", "a", "dcterms:BibliographicResource"))
	assert.True(t, st.Has(":Smith_2020", "datacite:hasIdentifier", "<https://dx.doi.org/10.1000/xyz>"))
	assert.True(t, st.Has(":Smith_2020", "datacite:usesIdentifierScheme", "datacite:doi"))
	assert.True(t, st.Has(":Smith_2020", "fabio:hasPubMedId", `"12345"^^xsd:string`))
	assert.True(t, st.Has(":Smith_2020", ":hasReferenceType", ":journal_article"))

	// Non-DOI links stay plain URLs.
	assert.True(t, st.Has(":PHQ-9", "schema:url", "<https://www.phqscreeners.com>"))
	assert.Empty(t, st.Objects(":PHQ-9", "datacite:hasIdentifier"))
	assert.True(t, st.Has(":PHQ-9", ":hasAbbreviation", `"""PHQ-9"""@en`))
}

func TestDOIIRI(t *testing.T) {
	tests := []struct {
		link string
		want string
		ok   bool
	}{
		{"https://doi.org/10.1000/xyz", "<https://dx.doi.org/10.1000/xyz>", true},
		{"http://dx.doi.org/10.1000/xyz", "<https://dx.doi.org/10.1000/xyz>", true},
		{"doi:10.1000/xyz", "<https://dx.doi.org/10.1000/xyz>", true},
		{"10.1000/xyz", "<https://dx.doi.org/10.1000/xyz>", true},
		{"https://example.org/paper", "", false},
	}
	for _, tt := range tests {
		got, ok := doiIRI(tt.link)
		assert.Equal(t, tt.ok, ok, "link %q", tt.link)
		assert.Equal(t, tt.want, got, "link %q", tt.link)
	}
}

func referencesWorkbook() *sheets.Workbook {
	return newWorkbook("references",
		sheets.NewTable("references",
			[]string{"index", "reference", "title", "link", "PubMedID", "abbreviation", "description", "indices_reference_type"},
			[][]string{{"1", "Smith 2020", "A study of fear", "https://doi.org/10.1000/xyz", "12345", "", "", "1"}}),
		sheets.NewTable("reference_types",
			[]string{"index", "reference_type"},
			[][]string{{"1", "journal article"}}))
}

func TestClaims(t *testing.T) {
	claims := newWorkbook("claims",
		sheets.NewTable("claims",
			[]string{"index", "subject", "predicate", "object", "claimant", "confidence", "indices_domain", "indices_reference"},
			[][]string{{"1", "fear", "is measured by", "heart rate", "Jane Doe", "0.9", "2", "1"}}))

	st := ttl.NewStore()
	src := NewSources(claims, domainsWorkbook(), referencesWorkbook())
	require.NoError(t, Claims(src, st))

	// The claimed triple itself.
	assert.True(t, st.Has(":fear", ":is_measured_by", ":heart_rate"))

	// Its reification, under a stable blank node.
	node := "_:fear_is_measured_by_heart_rate"
	assert.True(t, st.Has(node, "a", "rdf:Statement"))
	assert.True(t, st.Has(node, "rdf:subject", ":fear"))
	assert.True(t, st.Has(node, "rdf:predicate", ":is_measured_by"))
	assert.True(t, st.Has(node, "rdf:object", ":heart_rate"))
	assert.True(t, st.Has(node, ":isClaimedBy", `"""Jane Doe"""@en`))
	assert.True(t, st.Has(node, ":hasConfidence", `"0.9"^^xsd:decimal`))
	assert.True(t, st.Has(node, ":isAboutDomain", ":fear"))
	assert.True(t, st.Has(node, "dcterms:references", ":Smith_2020"))
}

func dsm5Workbook() *sheets.Workbook {
	return newWorkbook("dsm5",
		sheets.NewTable("disorders",
			[]string{"index", "disorder", "definition", "ICD9", "ICD10", "note",
				"index_disorder_category", "index_disorder_subcategory",
				"index_disorder_subsubcategory", "index_diagnostic_specifier", "index_severity"},
			[][]string{
				{"1", "social anxiety disorder", "Marked fear of social situations.", "300.23", "F40.10", "", "1", "1", "", "", "1"},
				{"2", "specific phobia", "", "300.29", "F40.2", "", "1", "", "", "1", ""},
			}),
		sheets.NewTable("disorder_categories",
			[]string{"index", "disorder_category"},
			[][]string{{"1", "anxiety disorders"}}),
		sheets.NewTable("disorder_subcategories",
			[]string{"index", "disorder_subcategory", "index_disorder_category"},
			[][]string{{"1", "phobias", "1"}}),
		sheets.NewTable("disorder_subsubcategories",
			[]string{"index", "disorder_subsubcategory", "index_disorder_subcategory"}, nil),
		sheets.NewTable("diagnostic_specifiers",
			[]string{"index", "diagnostic_specifier"},
			[][]string{{"1", "animal type"}}),
		sheets.NewTable("severities",
			[]string{"index", "severity"},
			[][]string{{"1", "moderate"}}))
}

func TestDSM5(t *testing.T) {
	st := ttl.NewStore()
	require.NoError(t, DSM5(NewSources(dsm5Workbook()), st))

	// Taxonomy sheets become Pascal-cased classes.
	assert.True(t, st.Has(":AnxietyDisorders", "a", ":DisorderCategory"))
	assert.True(t, st.Has(":Phobias", "a", ":DisorderSubcategory"))
	assert.True(t, st.Has(":Phobias", "rdfs:subClassOf", ":AnxietyDisorders"))

	// A disorder hangs from the most specific parent its row names.
	sad := ":social_anxiety_disorder"
	assert.True(t, st.Has(sad, "a", ":Disorder"))
	assert.True(t, st.Has(sad, "rdfs:subClassOf", ":Phobias"))
	assert.False(t, st.Has(sad, "rdfs:subClassOf", ":AnxietyDisorders"))
	assert.True(t, st.Has(sad, ":hasICD9Code", "ICD9CM:300.23"))
	assert.True(t, st.Has(sad, ":hasICD10Code", "ICD10CM:F40.10"))
	assert.True(t, st.Has(sad, ":hasSeverity", ":Moderate"))

	phobia := ":specific_phobia"
	assert.True(t, st.Has(phobia, "rdfs:subClassOf", ":AnxietyDisorders"))
	assert.True(t, st.Has(phobia, ":hasDiagnosticSpecifier", ":AnimalType"))
}

func TestRunAll(t *testing.T) {
	st := ttl.NewStore()
	// Only domains is loaded; every other ingester is skipped.
	require.NoError(t, RunAll(NewSources(domainsWorkbook()), st))
	assert.True(t, st.Has(":fear", "a", ":Domain"))
	assert.Equal(t, 2, st.Len())
}

func TestRunAllMissingDependency(t *testing.T) {
	behaviors := newWorkbook("behaviors",
		sheets.NewTable("behaviors",
			[]string{"index", "behavior", "sentence", "indices_domain", "indices_measure"}, nil))

	// behaviors is loaded but its domains and measures inputs are not.
	err := RunAll(NewSources(behaviors), ttl.NewStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `requires workbook "domains"`)
}
