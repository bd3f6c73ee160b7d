// Package manifest loads the CUE source manifest that declares which
// workbooks make up the database: the Google spreadsheet ID of each
// workbook, the worksheets (gids) it contributes, and the columns each
// worksheet must carry for its ingester to run.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/childmind/mhdb/internal/sheets"
)

// Worksheet declares one worksheet of a workbook.
type Worksheet struct {
	Name    string   `json:"name"`
	GID     int      `json:"gid"`
	Columns []string `json:"columns"`
}

// Workbook declares one source spreadsheet.
type Workbook struct {
	Name       string      `json:"name"`
	SheetID    string      `json:"sheet_id"`
	Worksheets []Worksheet `json:"worksheets"`
}

// Manifest is the full set of declared workbooks, in declaration order.
type Manifest struct {
	Workbooks []Workbook `json:"workbooks"`
}

// CompileError is a manifest extraction error with CUE position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads every .cue file in dir and compiles the manifest.
func Load(dir string) (*Manifest, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("manifest directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("manifest directory: not a directory: %s", dir)
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning manifest directory: %w", err)
	}
	if len(cueFiles) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	return Compile(value)
}

// Compile extracts a manifest from a built CUE value. Exposed separately
// so tests can feed values from cuecontext.CompileString.
func Compile(v cue.Value) (*Manifest, error) {
	if err := v.Err(); err != nil {
		return nil, err
	}

	workbooks := v.LookupPath(cue.ParsePath("workbook"))
	if !workbooks.Exists() {
		return nil, &CompileError{
			Field:   "workbook",
			Message: "at least one workbook is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := workbooks.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterating workbooks: %w", err)
	}

	m := &Manifest{}
	for iter.Next() {
		wb, err := compileWorkbook(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		m.Workbooks = append(m.Workbooks, *wb)
	}
	if len(m.Workbooks) == 0 {
		return nil, &CompileError{
			Field:   "workbook",
			Message: "at least one workbook is required",
			Pos:     v.Pos(),
		}
	}
	return m, nil
}

func compileWorkbook(name string, v cue.Value) (*Workbook, error) {
	wb := &Workbook{Name: name}

	idVal := v.LookupPath(cue.ParsePath("sheet_id"))
	if !idVal.Exists() {
		return nil, &CompileError{
			Field:   "workbook." + name + ".sheet_id",
			Message: "sheet_id is required",
			Pos:     v.Pos(),
		}
	}
	sheetID, err := idVal.String()
	if err != nil {
		return nil, &CompileError{
			Field:   "workbook." + name + ".sheet_id",
			Message: err.Error(),
			Pos:     idVal.Pos(),
		}
	}
	wb.SheetID = sheetID

	wsVal := v.LookupPath(cue.ParsePath("worksheet"))
	if !wsVal.Exists() {
		return nil, &CompileError{
			Field:   "workbook." + name + ".worksheet",
			Message: "at least one worksheet is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := wsVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("workbook %s: iterating worksheets: %w", name, err)
	}
	for iter.Next() {
		ws, err := compileWorksheet(name, iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		wb.Worksheets = append(wb.Worksheets, *ws)
	}
	if len(wb.Worksheets) == 0 {
		return nil, &CompileError{
			Field:   "workbook." + name + ".worksheet",
			Message: "at least one worksheet is required",
			Pos:     v.Pos(),
		}
	}
	return wb, nil
}

func compileWorksheet(workbook, name string, v cue.Value) (*Worksheet, error) {
	ws := &Worksheet{Name: name}
	field := fmt.Sprintf("workbook.%s.worksheet.%s", workbook, name)

	gidVal := v.LookupPath(cue.ParsePath("gid"))
	if gidVal.Exists() {
		gid, err := gidVal.Int64()
		if err != nil {
			return nil, &CompileError{Field: field + ".gid", Message: err.Error(), Pos: gidVal.Pos()}
		}
		ws.GID = int(gid)
	}

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return nil, &CompileError{
			Field:   field + ".columns",
			Message: "columns are required",
			Pos:     v.Pos(),
		}
	}
	list, err := colsVal.List()
	if err != nil {
		return nil, &CompileError{Field: field + ".columns", Message: err.Error(), Pos: colsVal.Pos()}
	}
	for list.Next() {
		col, err := list.Value().String()
		if err != nil {
			return nil, &CompileError{Field: field + ".columns", Message: err.Error(), Pos: list.Value().Pos()}
		}
		ws.Columns = append(ws.Columns, col)
	}
	if len(ws.Columns) == 0 {
		return nil, &CompileError{
			Field:   field + ".columns",
			Message: "columns are required",
			Pos:     colsVal.Pos(),
		}
	}
	return ws, nil
}

// Workbook returns the declared workbook by name.
func (m *Manifest) Workbook(name string) (*Workbook, error) {
	for i := range m.Workbooks {
		if m.Workbooks[i].Name == name {
			return &m.Workbooks[i], nil
		}
	}
	return nil, fmt.Errorf("manifest: no workbook %q", name)
}

// ValidationError is one mismatch between the manifest and loaded
// sources. Column is empty when a whole worksheet is missing.
type ValidationError struct {
	Workbook  string `json:"workbook"`
	Worksheet string `json:"worksheet"`
	Column    string `json:"column,omitempty"`
	Message   string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidateTables checks that loaded tables satisfy the declaration:
// every declared worksheet present, every declared column present.
// All problems are collected, not just the first.
func (wb *Workbook) ValidateTables(loaded *sheets.Workbook) []ValidationError {
	var errs []ValidationError
	for _, ws := range wb.Worksheets {
		tbl, err := loaded.Table(ws.Name)
		if err != nil {
			errs = append(errs, ValidationError{
				Workbook:  wb.Name,
				Worksheet: ws.Name,
				Message:   fmt.Sprintf("workbook %s: missing worksheet %q", wb.Name, ws.Name),
			})
			continue
		}
		for _, col := range ws.Columns {
			if !tbl.HasColumn(col) {
				errs = append(errs, ValidationError{
					Workbook:  wb.Name,
					Worksheet: ws.Name,
					Column:    col,
					Message:   fmt.Sprintf("workbook %s: worksheet %q: missing column %q", wb.Name, ws.Name, col),
				})
			}
		}
	}
	return errs
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
