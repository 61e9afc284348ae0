// =============================================================================
// Batch Paste - Main Entry Point
// =============================================================================
//
// This is the main entry point for the batchpaste CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   batchpaste extract    - Extract line items from text, photos or PDFs
//   batchpaste transfer   - Copy items to the clipboard in ERP-sized batches
//   batchpaste export     - Save the generated table as XLSX or TSV
//   batchpaste columns    - List a schema's columns and inclusion flags
//   batchpaste version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : core logic (schemas, records, batching, session, extraction)
//   - pkg/       : shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/batchpaste/cmd"
)

func main() {
	cmd.Execute()
}
