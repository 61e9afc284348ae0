// =============================================================================
// Batch Paste - File Utilities
// =============================================================================
//
// Small helpers shared by the export commands:
//   - Directory management
//   - Output file naming with placeholders
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {schema}    - Schema code, when passed in params
//   - ext: The required extension including the dot (".xlsx", ".tsv").
//   - params: Extra placeholder values.
//
// EXAMPLE:
//   format: "{schema}_{timestamp}_{uuid}"
//   params: {"schema": "sc"}
//   output: "sc_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	return generateOutputFileName(time.Now(), uuid.NewString(), format, ext, params)
}

func generateOutputFileName(now time.Time, id, format, ext string, params map[string]string) string {
	replacements := []string{
		"{uuid}", id,
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	}
	for key, value := range params {
		replacements = append(replacements, "{"+key+"}", value)
	}

	result := strings.NewReplacer(replacements...).Replace(format)

	// Path separators in a placeholder value must not escape the export dir.
	result = strings.NewReplacer("/", "_", "\\", "_").Replace(result)

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// OutputPath joins dir with a generated file name.
func OutputPath(dir, format, ext string, params map[string]string) string {
	return filepath.Join(dir, GenerateOutputFileName(format, ext, params))
}
