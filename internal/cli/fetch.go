package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/childmind/mhdb/internal/cache"
	"github.com/childmind/mhdb/internal/manifest"
	"github.com/childmind/mhdb/internal/sheets"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	*RootOptions
	Manifest string // manifest directory
	Cache    string // cache database path
	Out      string // also write <workbook>/<sheet>.csv files here
	Workbook string // fetch only this workbook ("" = all)
	BaseURL  string // override export endpoint (tests)
}

// FetchResult summarizes one fetch run for JSON output.
type FetchResult struct {
	RunID      string `json:"run_id"`
	Workbooks  int    `json:"workbooks"`
	Worksheets int    `json:"worksheets"`
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FetchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download declared worksheets into the cache",
		Long: `Download every worksheet the manifest declares and cache the raw
CSV. Each run is stamped with a fresh run ID so cached rows can be
traced back to the fetch that produced them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "manifest", "manifest directory")
	cmd.Flags().StringVar(&opts.Cache, "cache", "mhdb.db", "cache database path")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "also write <workbook>/<sheet>.csv files here")
	cmd.Flags().StringVarP(&opts.Workbook, "workbook", "w", "", "fetch only this workbook")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "override the export endpoint")
	_ = cmd.Flags().MarkHidden("base-url")

	return cmd
}

func runFetch(opts *FetchOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	m, err := manifest.Load(opts.Manifest)
	if err != nil {
		return outputFetchError(formatter, ErrCodeManifestFailed, err.Error())
	}

	workbooks := m.Workbooks
	if opts.Workbook != "" {
		wb, err := m.Workbook(opts.Workbook)
		if err != nil {
			return outputFetchError(formatter, ErrCodeNotFound, err.Error())
		}
		workbooks = []manifest.Workbook{*wb}
	}

	c, err := cache.Open(opts.Cache)
	if err != nil {
		return outputFetchError(formatter, ErrCodeCacheFailed, err.Error())
	}
	defer c.Close()

	runID := uuid.NewString()
	formatter.VerboseLog("Fetch run %s", runID)

	fetched := 0
	for _, wb := range workbooks {
		for _, ws := range wb.Worksheets {
			url := exportURL(opts.BaseURL, wb.SheetID, ws.GID)
			formatter.VerboseLog("Fetching %s/%s from %s", wb.Name, ws.Name, url)

			data, err := sheets.FetchCSV(cmd.Context(), http.DefaultClient, url)
			if err != nil {
				return outputFetchError(formatter, ErrCodeFetchFailed, err.Error())
			}

			err = c.PutWorksheet(cmd.Context(), cache.Worksheet{
				Workbook:  wb.Name,
				Sheet:     ws.Name,
				SourceURL: url,
				FetchedAt: time.Now(),
				RunID:     runID,
				CSV:       data,
			})
			if err != nil {
				return outputFetchError(formatter, ErrCodeCacheFailed, err.Error())
			}

			if opts.Out != "" {
				if err := writeWorksheetCSV(opts.Out, wb.Name, ws.Name, data); err != nil {
					return outputFetchError(formatter, ErrCodeWriteFailed, err.Error())
				}
			}
			fetched++
		}
	}

	result := FetchResult{
		RunID:      runID,
		Workbooks:  len(workbooks),
		Worksheets: fetched,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Fetched %d worksheet(s) from %d workbook(s)\n",
		result.Worksheets, result.Workbooks)
	fmt.Fprintf(formatter.Writer, "Run %s cached in %s\n", result.RunID, opts.Cache)
	return nil
}

// writeWorksheetCSV mirrors one fetched worksheet to
// <out>/<workbook>/<sheet>.csv, the layout build loads workbooks from.
func writeWorksheetCSV(out, workbook, sheet string, data []byte) error {
	dir := filepath.Join(out, workbook)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("writing worksheet CSV: %w", err)
	}
	path := filepath.Join(dir, sheet+".csv")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing worksheet CSV: %w", err)
	}
	return nil
}

// exportURL builds the worksheet download URL, honoring the test
// override endpoint when set.
func exportURL(baseURL, sheetID string, gid int) string {
	if baseURL == "" {
		return sheets.ExportURL(sheetID, gid)
	}
	return fmt.Sprintf("%s/%s/export?format=csv&gid=%d", baseURL, sheetID, gid)
}

// outputFetchError outputs a single fetch error.
func outputFetchError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Fetch errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
