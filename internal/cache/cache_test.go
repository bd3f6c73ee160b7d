package cache

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "mhdb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mhdb.db")

	c1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c2.Close())
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	fetched := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	ws := Worksheet{
		Workbook:  "questions",
		Sheet:     "questions",
		SourceURL: "https://docs.google.com/spreadsheets/d/abc/export?format=csv&gid=0",
		FetchedAt: fetched,
		RunID:     "6a1f0a3e-0000-0000-0000-000000000001",
		CSV:       []byte("index,question\n1,How sad do you feel?\n"),
	}
	require.NoError(t, c.PutWorksheet(ctx, ws))

	got, err := c.GetWorksheet(ctx, "questions", "questions")
	require.NoError(t, err)
	assert.Equal(t, ws.SourceURL, got.SourceURL)
	assert.Equal(t, ws.RunID, got.RunID)
	assert.Equal(t, ws.CSV, got.CSV)
	assert.True(t, got.FetchedAt.Equal(fetched))
}

func TestPutUpserts(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	ws := Worksheet{
		Workbook:  "domains",
		Sheet:     "domains",
		SourceURL: "u1",
		FetchedAt: time.Now(),
		RunID:     "run-1",
		CSV:       []byte("old"),
	}
	require.NoError(t, c.PutWorksheet(ctx, ws))

	ws.CSV = []byte("new")
	ws.RunID = "run-2"
	require.NoError(t, c.PutWorksheet(ctx, ws))

	got, err := c.GetWorksheet(ctx, "domains", "domains")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got.CSV)
	assert.Equal(t, "run-2", got.RunID)

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetMissing(t *testing.T) {
	c := openTestCache(t)

	_, err := c.GetWorksheet(context.Background(), "nope", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListOrdering(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	for _, pair := range [][2]string{
		{"tasks", "tasks"},
		{"domains", "domains"},
		{"domains", "domain_types"},
	} {
		require.NoError(t, c.PutWorksheet(ctx, Worksheet{
			Workbook:  pair[0],
			Sheet:     pair[1],
			SourceURL: "u",
			FetchedAt: time.Now(),
			RunID:     "r",
			CSV:       []byte("x"),
		}))
	}

	all, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "domain_types", all[0].Sheet)
	assert.Equal(t, "domains", all[1].Sheet)
	assert.Equal(t, "tasks", all[2].Workbook)
}
