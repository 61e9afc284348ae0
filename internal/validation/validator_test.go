package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
)

func buildTable(t *testing.T, s schema.Schema, items ...records.Item) *records.Table {
	t.Helper()
	return records.NewBuilder(records.Defaults{MaterialBase: "Reposi"}).Build(items, s)
}

func TestValidateRow(t *testing.T) {
	tests := []struct {
		name     string
		schema   schema.Schema
		item     records.Item
		wantRule []string
	}{
		{
			name:   "clean purchase request row",
			schema: schema.PurchaseRequest,
			item:   records.Item{Description: "LUVA", Quantity: records.Float(2), Unit: "PAR"},
		},
		{
			name:     "missing quantity",
			schema:   schema.PurchaseRequest,
			item:     records.Item{Description: "LUVA", Unit: "PAR"},
			wantRule: []string{RuleRequired},
		},
		{
			name:     "zero quantity",
			schema:   schema.WorkOrder,
			item:     records.Item{Description: "ANEL", Quantity: records.Float(0)},
			wantRule: []string{RuleQuantity},
		},
		{
			name:     "empty description",
			schema:   schema.WorkOrder,
			item:     records.Item{Description: "  ", Quantity: records.Float(1)},
			wantRule: []string{RuleRequired},
		},
		{
			name:     "tab inside description",
			schema:   schema.PurchaseRequest,
			item:     records.Item{Description: "LUVA\tPAR", Quantity: records.Float(1)},
			wantRule: []string{RuleDelimiter},
		},
		{
			name:     "line break inside description",
			schema:   schema.WorkOrder,
			item:     records.Item{Description: "ANEL\nORING", Quantity: records.Float(1)},
			wantRule: []string{RuleDelimiter},
		},
		{
			name:   "trailing newline is trimmed on paste",
			schema: schema.PurchaseRequest,
			item:   records.Item{Description: "LUVA\n", Quantity: records.Float(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := buildTable(t, tt.schema, tt.item)
			row, err := tbl.Row(0)
			if err != nil {
				t.Fatal(err)
			}

			got := NewValidator(selection.NewRegistry()).ValidateRow(1, row)
			if len(got) != len(tt.wantRule) {
				t.Fatalf("got %d problems %v, want rules %v", len(got), got, tt.wantRule)
			}
			for i, e := range got {
				if e.Rule != tt.wantRule[i] {
					t.Errorf("problem %d rule = %q, want %q", i, e.Rule, tt.wantRule[i])
				}
				if e.Row != 1 {
					t.Errorf("problem %d row = %d, want 1", i, e.Row)
				}
			}
		})
	}
}

func TestValidateAllSeverity(t *testing.T) {
	tbl := buildTable(t, schema.PurchaseRequest,
		records.Item{Description: "OK", Quantity: records.Float(1)},
		records.Item{Description: "BROKEN\tCELL", Quantity: records.Float(1)},
		records.Item{Description: "NO QTY"},
	)

	res := NewValidator(selection.NewRegistry()).ValidateAll(tbl)
	if res.IsValid {
		t.Error("IsValid = true, want false")
	}
	if res.ErrorCount != 1 || res.WarningCount != 1 {
		t.Errorf("errors/warnings = %d/%d, want 1/1", res.ErrorCount, res.WarningCount)
	}
	if res.RowsChecked != 3 {
		t.Errorf("RowsChecked = %d, want 3", res.RowsChecked)
	}
	if f := res.Fatal(); len(f) != 1 || f[0].Row != 2 {
		t.Errorf("Fatal() = %v", f)
	}
	if w := res.Warnings(); len(w) != 1 || w[0].Row != 3 {
		t.Errorf("Warnings() = %v", w)
	}
}

func TestExcludedColumnsAreSkipped(t *testing.T) {
	tbl := buildTable(t, schema.PurchaseRequest,
		records.Item{Description: "BROKEN\tCELL", Quantity: records.Float(1)})

	reg := selection.NewRegistry()
	reg.Set(schema.PurchaseRequest, schema.ColShortText, false)

	if res := NewValidator(reg).ValidateAll(tbl); !res.IsValid {
		t.Errorf("excluded cell flagged: %v", res.Errors)
	}

	strict := NewValidatorWithOptions(reg, ValidationOptions{CheckExcluded: true})
	if res := strict.ValidateAll(tbl); res.IsValid {
		t.Error("CheckExcluded did not inspect the excluded cell")
	}
}

func TestTreatWarningsAsErrors(t *testing.T) {
	tbl := buildTable(t, schema.WorkOrder, records.Item{Description: "ANEL"})

	if res := NewValidator(selection.NewRegistry()).ValidateAll(tbl); !res.IsValid {
		t.Error("warning made the default result invalid")
	}
	v := NewValidatorWithOptions(selection.NewRegistry(), ValidationOptions{TreatWarningsAsErrors: true})
	if res := v.ValidateAll(tbl); res.IsValid {
		t.Error("IsValid = true with TreatWarningsAsErrors")
	}
}

func TestValidateNilTable(t *testing.T) {
	if got := NewValidator(selection.NewRegistry()).ValidateAll(nil); !got.IsValid || len(got.Errors) != 0 {
		t.Errorf("ValidateAll(nil) = %+v", got)
	}
}

func TestFormatAndWriteErrorLog(t *testing.T) {
	if got := FormatErrors(nil); got != "No validation errors." {
		t.Errorf("FormatErrors(nil) = %q", got)
	}

	errs := []*ValidationError{{
		Severity: SeverityError,
		Row:      4,
		Column:   schema.ColShortText,
		Value:    "A\tB",
		Rule:     RuleDelimiter,
		Message:  "bad",
	}}
	text := FormatErrors(errs)
	want := `1. [ERROR] Row 4, Column 'textoBreve': bad (value: "A\tB")`
	if !strings.Contains(text, want) {
		t.Errorf("FormatErrors = %q, want line %q", text, want)
	}

	path := filepath.Join(t.TempDir(), "problems.log")
	if err := WriteErrorLog(errs, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != text {
		t.Errorf("log = %q, want %q", data, text)
	}
}
