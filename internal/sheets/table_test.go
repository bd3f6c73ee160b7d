package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *Table {
	return NewTable("questions",
		[]string{"index", "question", "index_measure"},
		[][]string{
			{"1", "How sad do you feel?", "3"},
			{"2", "How well did you sleep?", "7"},
			{"3", "Short row"},
		},
	)
}

func TestTableGet(t *testing.T) {
	tbl := testTable()

	assert.Equal(t, "How sad do you feel?", tbl.Get(0, "question"))
	assert.Equal(t, "7", tbl.Get(1, "index_measure"))
}

func TestTableGetMissing(t *testing.T) {
	tbl := testTable()

	assert.Equal(t, "", tbl.Get(0, "no_such_column"))
	assert.Equal(t, "", tbl.Get(99, "question"))
	// Ragged row: trailing cells read as blank.
	assert.Equal(t, "", tbl.Get(2, "index_measure"))
}

func TestTableLookupByIndex(t *testing.T) {
	tbl := testTable()

	got, ok := tbl.LookupByIndex("index", "2", "question")
	require.True(t, ok)
	assert.Equal(t, "How well did you sleep?", got)

	_, ok = tbl.LookupByIndex("index", "42", "question")
	assert.False(t, ok)
}

func TestWorkbookSheets(t *testing.T) {
	wb := NewWorkbook("questions")
	wb.Add(NewTable("questions", []string{"index"}, nil))
	wb.Add(NewTable("response_types", []string{"index"}, nil))

	assert.Equal(t, []string{"questions", "response_types"}, wb.Sheets())

	tbl, err := wb.Table("response_types")
	require.NoError(t, err)
	assert.Equal(t, "response_types", tbl.Name)

	_, err = wb.Table("absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent")
}
