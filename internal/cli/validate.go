package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/childmind/mhdb/internal/manifest"
	"github.com/childmind/mhdb/internal/sheets"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Manifest string // manifest directory
	Cache    string // cache database path (fallback source)
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                        `json:"valid"`
	Errors []manifest.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <sources-dir>",
		Short: "Validate workbook sources against the manifest",
		Long: `Validate workbook sources against the manifest without building.

Checks that every declared worksheet is present and carries every
declared column. All problems are reported, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "manifest", "manifest directory")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "cache database path (fallback source)")

	return cmd
}

func runValidate(opts *ValidateOptions, sourcesDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	m, err := manifest.Load(opts.Manifest)
	if err != nil {
		return outputValidateError(formatter, ErrCodeManifestFailed, err.Error())
	}

	workbooks, err := loadWorkbooks(cmd, sourcesDir, opts.Cache, formatter)
	if err != nil {
		return outputValidateError(formatter, ErrCodeSourcesFailed, err.Error())
	}

	if errs := validateAgainstManifest(m, workbooks); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ All sources valid")
	return nil
}

// validateAgainstManifest checks every declared workbook against the
// loaded sources, collecting all mismatches. An undeclared loaded
// workbook is fine; a declared workbook with no sources is not.
func validateAgainstManifest(m *manifest.Manifest, workbooks []*sheets.Workbook) []manifest.ValidationError {
	loaded := make(map[string]*sheets.Workbook, len(workbooks))
	for _, wb := range workbooks {
		loaded[wb.Name] = wb
	}

	var errs []manifest.ValidationError
	for i := range m.Workbooks {
		decl := &m.Workbooks[i]
		wb, ok := loaded[decl.Name]
		if !ok {
			errs = append(errs, manifest.ValidationError{
				Workbook: decl.Name,
				Message:  fmt.Sprintf("workbook %s: no sources loaded", decl.Name),
			})
			continue
		}
		errs = append(errs, decl.ValidateTables(wb)...)
	}
	return errs
}

// outputValidateError outputs a single command-level validation error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Command-level problems (bad paths, bad manifest) exit 2
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs source/manifest mismatches.
func outputValidationErrors(formatter *OutputFormatter, errs []manifest.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    validationErrorCode(errs[0]),
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", validationErrorCode(e), e.Message)
	}
	fmt.Fprintln(formatter.Writer)

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// validationErrorCode classifies a source mismatch.
func validationErrorCode(e manifest.ValidationError) string {
	if e.Column != "" {
		return ErrCodeMissingColumn
	}
	return ErrCodeMissingWorksheet
}
