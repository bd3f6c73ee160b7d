package sheets

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ParseCSV reads one worksheet from CSV. The first record is the header;
// data rows may be ragged (missing trailing cells read as blank).
func ParseCSV(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("worksheet %s: empty CSV", name)
	}
	if err != nil {
		return nil, fmt.Errorf("worksheet %s: reading header: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("worksheet %s: reading rows: %w", name, err)
		}
		rows = append(rows, record)
	}

	return NewTable(name, header, rows), nil
}

// LoadWorkbookDir loads a workbook from a directory: every *.csv file is
// one worksheet named after the file. Files load in lexical order so the
// workbook's sheet order is stable.
func LoadWorkbookDir(dir string) (*Workbook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading workbook %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".csv" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("loading workbook %s: no CSV worksheets", dir)
	}

	wb := NewWorkbook(filepath.Base(dir))
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading workbook %s: %w", dir, err)
		}
		table, err := ParseCSV(strings.TrimSuffix(name, ".csv"), f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("loading workbook %s: %w", dir, err)
		}
		wb.Add(table)
	}
	return wb, nil
}
