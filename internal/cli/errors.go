package cli

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeNotFound       = "E002" // Path not found
	ErrCodeManifestFailed = "E003" // Manifest load/compile failed
	ErrCodeConfigFailed   = "E004" // Ontology config load failed
	ErrCodeSourcesFailed  = "E005" // Workbook sources unreadable
	ErrCodeIngestFailed   = "E006" // Ingestion error (bad join index, malformed cell)
	ErrCodeWriteFailed    = "E007" // File write error
	ErrCodeCacheFailed    = "E008" // Cache open/read/write error
	ErrCodeFetchFailed    = "E009" // Worksheet download error

	// Source validation errors
	ErrCodeMissingWorksheet = "E101" // Declared worksheet absent from sources
	ErrCodeMissingColumn    = "E102" // Declared column absent from worksheet
)
