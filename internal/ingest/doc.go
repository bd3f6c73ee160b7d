// Package ingest converts the curated spreadsheets into statements.
//
// Each spreadsheet has one ingester: a row-by-row walk that extracts
// fields, shapes them into IRIs and literals with the ttl package, and
// feeds them to the statement store. Ingesters are mechanical glue by
// design — all filtering of blank and null cells happens in the store's
// AddIf, and all formatting subtlety lives in ttl.
//
// Cross-spreadsheet joins go through loosely-typed index columns
// ("indices_domain" holding "1, 4, 7"); a join that names an index
// missing from the target worksheet is an error reported with the row
// that carried it.
package ingest
