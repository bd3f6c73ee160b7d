package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/childmind/mhdb/internal/sheets"
)

const validManifest = `
workbook: questions: {
	sheet_id: "13a0w3ouXq5sFCa0fBsg9xhWx67RGJJJq"
	worksheet: questions: {
		gid: 0
		columns: ["index", "question", "response_options"]
	}
	worksheet: response_types: {
		gid: 1204917235
		columns: ["index", "response_type"]
	}
}
workbook: domains: {
	sheet_id: "1ZjyNkCUba3hzvxDYQmZzJg6uAzSzNTNe"
	worksheet: domains: {
		columns: ["index", "domain", "index_domain_category"]
	}
}
`

func TestCompileValid(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(validManifest)
	require.NoError(t, v.Err())

	m, err := Compile(v)
	require.NoError(t, err)

	require.Len(t, m.Workbooks, 2)
	assert.Equal(t, "questions", m.Workbooks[0].Name)
	assert.Equal(t, "13a0w3ouXq5sFCa0fBsg9xhWx67RGJJJq", m.Workbooks[0].SheetID)
	require.Len(t, m.Workbooks[0].Worksheets, 2)
	assert.Equal(t, 1204917235, m.Workbooks[0].Worksheets[1].GID)

	// gid defaults to 0 when omitted.
	assert.Equal(t, 0, m.Workbooks[1].Worksheets[0].GID)
}

func TestCompileMissingSheetID(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		workbook: tasks: {
			worksheet: tasks: { columns: ["index"] }
		}
	`)
	require.NoError(t, v.Err())

	_, err := Compile(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet_id")
}

func TestCompileMissingColumns(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		workbook: tasks: {
			sheet_id: "abc"
			worksheet: tasks: { gid: 3 }
		}
	`)
	require.NoError(t, v.Err())

	_, err := Compile(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}

func TestCompileNoWorkbooks(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`other: 1`)
	require.NoError(t, v.Err())

	_, err := Compile(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workbook")
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "sources.cue"), []byte(validManifest), 0o644))

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, m.Workbooks, 2)

	wb, err := m.Workbook("domains")
	require.NoError(t, err)
	assert.Equal(t, "domains", wb.Name)

	_, err = m.Workbook("absent")
	require.Error(t, err)
}

func TestLoadNoCUEFiles(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestValidateTables(t *testing.T) {
	wb := &Workbook{
		Name:    "questions",
		SheetID: "abc",
		Worksheets: []Worksheet{
			{Name: "questions", Columns: []string{"index", "question"}},
			{Name: "response_types", Columns: []string{"index", "response_type"}},
		},
	}

	loaded := sheets.NewWorkbook("questions")
	loaded.Add(sheets.NewTable("questions", []string{"index"}, nil))

	errs := wb.ValidateTables(loaded)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), `missing column "question"`)
	assert.Equal(t, "question", errs[0].Column)
	assert.Contains(t, errs[1].Error(), `missing worksheet "response_types"`)
	assert.Empty(t, errs[1].Column)
}

func TestValidateTablesClean(t *testing.T) {
	wb := &Workbook{
		Name:       "domains",
		SheetID:    "abc",
		Worksheets: []Worksheet{{Name: "domains", Columns: []string{"index", "domain"}}},
	}

	loaded := sheets.NewWorkbook("domains")
	loaded.Add(sheets.NewTable("domains", []string{"index", "domain", "extra"}, nil))

	assert.Empty(t, wb.ValidateTables(loaded))
}
