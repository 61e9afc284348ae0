package render

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
)

func table3(t *testing.T) *records.Table {
	t.Helper()
	b := records.NewBuilder(records.Defaults{MaterialBase: "Reposi", DeliveryDate: "01.01.2025"})
	return b.Build([]records.Item{
		{Description: "LUVA", Quantity: records.Float(2), Unit: "PAR"},
		{Description: "CABO", Quantity: records.Float(3), Unit: "M"},
		{Description: "FITA", Unit: "UN"},
	}, schema.PurchaseRequest)
}

func TestPreviewMarksCopiedRows(t *testing.T) {
	out := Preview(table3(t), selection.NewRegistry(), 2, PreviewOptions{})

	lines := strings.Split(out, "\n")
	var luva, fita string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "LUVA"):
			luva = l
		case strings.Contains(l, "FITA"):
			fita = l
		}
	}
	if !strings.Contains(luva, CopiedMarker) {
		t.Errorf("first row should be marked copied: %q", luva)
	}
	if strings.Contains(fita, CopiedMarker) {
		t.Errorf("third row should not be marked: %q", fita)
	}
}

func TestPreviewExcludedColumns(t *testing.T) {
	reg := selection.NewRegistry()

	full := Preview(table3(t), reg, 0, PreviewOptions{})
	if !strings.Contains(full, "Item"+ExcludedSuffix) {
		t.Errorf("excluded structural column should be labelled:\n%s", full)
	}

	compact := Preview(table3(t), reg, 0, PreviewOptions{OnlyIncluded: true})
	if strings.Contains(compact, ExcludedSuffix) {
		t.Errorf("OnlyIncluded should hide excluded columns:\n%s", compact)
	}
	if !strings.Contains(compact, "Reposi(PAR)") {
		t.Errorf("material missing:\n%s", compact)
	}
}

func TestColumns(t *testing.T) {
	reg := selection.NewRegistry()
	reg.Set(schema.WorkOrder, schema.ColBatch, false)

	out := Columns(schema.WorkOrder, reg)
	for _, id := range []string{schema.ColItemNum, schema.ColItemType, schema.ColDischargePoint} {
		if !strings.Contains(out, id) {
			t.Errorf("column %s missing:\n%s", id, out)
		}
	}
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, " "+schema.ColBatch+" ") && !strings.Contains(l, "no") {
			t.Errorf("lote should be excluded: %q", l)
		}
	}
}
