// =============================================================================
// Batch Paste - Row Checks
// =============================================================================
//
// Checks run over a generated table before any batch is handed to the
// clipboard. They look at what the paste itself needs, not at whether the
// ERP would accept the values:
//   - A tab or line break inside an included cell splits the pasted row and
//     shifts every following column. That is an error.
//   - An empty description or a missing/non-positive quantity usually means
//     the extraction or import lost something. Those are warnings.
//
// ERROR HANDLING:
//   - Problems are collected, not returned one at a time
//   - Each problem carries the row, column and offending value
//   - Warnings never block a transfer; errors do unless the caller forces it
//
// =============================================================================

package validation

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleDelimiter = "delimiter"
	RuleRequired  = "required"
	RuleQuantity  = "quantity"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError is a single problem found in a table.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Row is the 1-based row number as shown to the user.
	Row int

	// Column is the column id.
	Column string

	// Value is the offending cell value.
	Value string

	// Rule is the check that failed.
	Rule string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Row %d, Column '%s': %s (value: %s)",
		strings.ToUpper(e.Severity),
		e.Row,
		e.Column,
		e.Message,
		strconv.Quote(e.Value),
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of a check.
type ValidationResult struct {
	// IsValid is true if there are no errors.
	IsValid bool

	// Errors contains every problem, warnings included, in row order.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	// RowsChecked is the number of rows inspected.
	RowsChecked int
}

// Warnings returns only the warnings.
func (r *ValidationResult) Warnings() []*ValidationError {
	return r.filter(SeverityWarning)
}

// Fatal returns only the errors.
func (r *ValidationResult) Fatal() []*ValidationError {
	return r.filter(SeverityError)
}

func (r *ValidationResult) filter(severity string) []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == severity {
			out = append(out, e)
		}
	}
	return out
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions tune a Validator.
type ValidationOptions struct {
	// TreatWarningsAsErrors marks the result invalid when any warning is
	// found.
	TreatWarningsAsErrors bool

	// CheckExcluded also inspects excluded columns. Excluded cells are
	// pasted blank, so by default they cannot break anything.
	CheckExcluded bool
}

// Validator checks tables against an inclusion map.
type Validator struct {
	reg     *selection.Registry
	options ValidationOptions
}

// NewValidator returns a validator with default options.
func NewValidator(reg *selection.Registry) *Validator {
	return &Validator{reg: reg}
}

// NewValidatorWithOptions returns a validator with custom options.
func NewValidatorWithOptions(reg *selection.Registry, options ValidationOptions) *Validator {
	return &Validator{reg: reg, options: options}
}

// ValidateAll checks every row of t.
func (v *Validator) ValidateAll(t *records.Table) *ValidationResult {
	result := &ValidationResult{IsValid: true}
	if t == nil {
		return result
	}

	for i := 0; i < t.Len(); i++ {
		row, _ := t.Row(i)
		for _, e := range v.ValidateRow(i+1, row) {
			result.add(e)
		}
	}
	result.RowsChecked = t.Len()

	if v.options.TreatWarningsAsErrors && result.WarningCount > 0 {
		result.IsValid = false
	}
	return result
}

// ValidateRow checks a single row. num is the 1-based row number used in
// the reported problems.
func (v *Validator) ValidateRow(num int, row *records.Row) []*ValidationError {
	var errors []*ValidationError
	s := row.Schema()

	for _, c := range s.Columns() {
		if !v.options.CheckExcluded && !v.reg.IncludedAt(s, c.Position) {
			continue
		}
		// Serialization trims cells, so only inner delimiters matter.
		value := row.At(c.Position)
		if strings.ContainsAny(strings.TrimSpace(value), "\t\r\n") {
			errors = append(errors, &ValidationError{
				Severity: SeverityError,
				Row:      num,
				Column:   c.ID,
				Value:    value,
				Rule:     RuleDelimiter,
				Message:  fmt.Sprintf("'%s' contains a tab or line break and would split the pasted row", c.Label),
			})
		}
	}

	descCol, qtyCol := contentColumns(s)
	if descCol == "" {
		return errors
	}

	if strings.TrimSpace(row.Get(descCol)) == "" {
		errors = append(errors, &ValidationError{
			Severity: SeverityWarning,
			Row:      num,
			Column:   descCol,
			Rule:     RuleRequired,
			Message:  "description is empty",
		})
	}

	qty := row.Get(qtyCol)
	switch q, err := records.ParseQuantity(qty); {
	case err != nil:
		errors = append(errors, &ValidationError{
			Severity: SeverityWarning,
			Row:      num,
			Column:   qtyCol,
			Value:    qty,
			Rule:     RuleQuantity,
			Message:  "quantity is not a number",
		})
	case q == nil:
		errors = append(errors, &ValidationError{
			Severity: SeverityWarning,
			Row:      num,
			Column:   qtyCol,
			Rule:     RuleRequired,
			Message:  "quantity is missing",
		})
	case *q <= 0:
		errors = append(errors, &ValidationError{
			Severity: SeverityWarning,
			Row:      num,
			Column:   qtyCol,
			Value:    qty,
			Rule:     RuleQuantity,
			Message:  "quantity must be greater than zero",
		})
	}

	return errors
}

// contentColumns returns the description and quantity columns of s.
func contentColumns(s schema.Schema) (desc, qty string) {
	switch s {
	case schema.PurchaseRequest:
		return schema.ColShortText, schema.ColQuantity
	case schema.WorkOrder:
		return schema.ColDenomination, schema.ColRequiredQty
	}
	return "", ""
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors renders problems as a numbered list.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d problem(s):\n\n", len(errors)))
	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}

// WriteErrorLog writes the formatted problems to filePath.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	if err := os.WriteFile(filePath, []byte(FormatErrors(errors)), 0o644); err != nil {
		return fmt.Errorf("failed to write validation log: %w", err)
	}
	return nil
}
