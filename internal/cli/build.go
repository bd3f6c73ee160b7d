package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/childmind/mhdb/internal/cache"
	"github.com/childmind/mhdb/internal/ingest"
	"github.com/childmind/mhdb/internal/manifest"
	"github.com/childmind/mhdb/internal/ontology"
	"github.com/childmind/mhdb/internal/sheets"
	"github.com/childmind/mhdb/internal/ttl"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Config   string // ontology config path
	Manifest string // manifest directory (optional; enables column validation)
	Output   string // output file path ("" = stdout)
	Cache    string // cache database path (fallback when sources are absent)
}

// BuildStats summarizes one build for JSON output.
type BuildStats struct {
	Workbooks int    `json:"workbooks"`
	Subjects  int    `json:"subjects"`
	Triples   int    `json:"triples"`
	Output    string `json:"output,omitempty"`
	Document  string `json:"document,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <sources-dir>",
		Short: "Build the Turtle document from workbook sources",
		Long: `Build the Turtle ontology document from workbook sources.

Each subdirectory of <sources-dir> is one workbook of CSV worksheets.
When the sources directory is absent and --cache is given, worksheets
are read from the cache instead. With --manifest, sources are checked
against the declared worksheets and columns before ingestion.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "ontology.yaml", "ontology config file")
	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "manifest directory (validates sources before building)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "cache database path (fallback source)")

	return cmd
}

func runBuild(opts *BuildOptions, sourcesDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := ontology.Load(opts.Config)
	if err != nil {
		return outputBuildError(formatter, ErrCodeConfigFailed, err.Error())
	}

	workbooks, err := loadWorkbooks(cmd, sourcesDir, opts.Cache, formatter)
	if err != nil {
		return outputBuildError(formatter, ErrCodeSourcesFailed, err.Error())
	}
	src := ingest.NewSources(workbooks...)

	if opts.Manifest != "" {
		m, err := manifest.Load(opts.Manifest)
		if err != nil {
			return outputBuildError(formatter, ErrCodeManifestFailed, err.Error())
		}
		if errs := validateAgainstManifest(m, workbooks); len(errs) > 0 {
			return outputValidationErrors(formatter, errs)
		}
	}

	st := ttl.NewStore()
	if err := ingest.RunAll(src, st); err != nil {
		return outputBuildError(formatter, ErrCodeIngestFailed, err.Error())
	}

	doc := cfg.Header() + ttl.Document(st) + "\n"

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(doc), 0644); err != nil {
			return outputBuildError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	stats := BuildStats{
		Workbooks: len(workbooks),
		Subjects:  st.Len(),
		Triples:   st.TripleCount(),
		Output:    opts.Output,
	}

	if formatter.Format == "json" {
		if opts.Output == "" {
			// No file target: carry the document in the payload rather
			// than interleaving it with the JSON envelope.
			stats.Document = doc
		}
		return formatter.Success(stats)
	}

	if opts.Output == "" {
		fmt.Fprint(formatter.Writer, doc)
		formatter.VerboseLog("Built %d triple(s) across %d subject(s) from %d workbook(s)",
			stats.Triples, stats.Subjects, stats.Workbooks)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ Built %d triple(s) across %d subject(s) from %d workbook(s)\n",
		stats.Triples, stats.Subjects, stats.Workbooks)
	fmt.Fprintf(formatter.Writer, "Wrote Turtle document to %s\n", opts.Output)
	return nil
}

// loadWorkbooks loads every workbook under sourcesDir (one subdirectory
// per workbook). When the directory is unreadable and a cache path is
// given, the cached worksheets are used instead.
func loadWorkbooks(cmd *cobra.Command, sourcesDir, cachePath string, formatter *OutputFormatter) ([]*sheets.Workbook, error) {
	entries, err := os.ReadDir(sourcesDir)
	if err != nil {
		if cachePath == "" {
			return nil, fmt.Errorf("reading sources directory: %w", err)
		}
		formatter.VerboseLog("Sources directory unavailable, reading cache %s", cachePath)
		return loadWorkbooksFromCache(cmd, cachePath)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no workbook directories in %s", sourcesDir)
	}

	workbooks := make([]*sheets.Workbook, 0, len(dirs))
	for _, dir := range dirs {
		wb, err := sheets.LoadWorkbookDir(filepath.Join(sourcesDir, dir))
		if err != nil {
			return nil, err
		}
		formatter.VerboseLog("Loaded workbook %s (%d worksheet(s))", wb.Name, len(wb.Sheets()))
		workbooks = append(workbooks, wb)
	}
	return workbooks, nil
}

// loadWorkbooksFromCache reconstructs workbooks from cached CSV blobs.
func loadWorkbooksFromCache(cmd *cobra.Command, path string) ([]*sheets.Workbook, error) {
	c, err := cache.Open(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	rows, err := c.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cache %s is empty", path)
	}

	var workbooks []*sheets.Workbook
	byName := make(map[string]*sheets.Workbook)
	for _, row := range rows {
		wb, ok := byName[row.Workbook]
		if !ok {
			wb = sheets.NewWorkbook(row.Workbook)
			byName[row.Workbook] = wb
			workbooks = append(workbooks, wb)
		}
		tbl, err := sheets.ParseCSV(row.Sheet, bytes.NewReader(row.CSV))
		if err != nil {
			return nil, err
		}
		wb.Add(tbl)
	}
	return workbooks, nil
}

// outputBuildError outputs a single build error.
func outputBuildError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Build errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
