package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
)

func sampleTable(s schema.Schema) *records.Table {
	b := records.NewBuilder(records.Defaults{
		Requester:       "ANA",
		Plant:           "0100",
		PurchasingGroup: "107",
		DeliveryDate:    "08.02.2024",
		CodeC:           "K",
		MaterialBase:    "Reposi",
		Price:           "1,00",
	})
	return b.Build([]records.Item{
		{Description: "LUVA", Quantity: records.Float(2), Unit: "par"},
		{Description: "CABO", Quantity: records.Float(10.5), Unit: "m"},
	}, s)
}

func TestWriteXLSX(t *testing.T) {
	tbl := sampleTable(schema.WorkOrder)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := WriteXLSX(path, tbl, selection.NewRegistry()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheet := schema.WorkOrder.String()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "Item" || rows[0][2] != "Denominação" {
		t.Errorf("header = %v", rows[0])
	}

	itemPos := schema.WorkOrder.Position(schema.ColItemNum)
	if rows[1][itemPos] != "0010" || rows[2][itemPos] != "0020" {
		t.Errorf("item numbers = %q, %q", rows[1][itemPos], rows[2][itemPos])
	}
	unitPos := schema.WorkOrder.Position(schema.ColUnit)
	if rows[1][unitPos] != "PAR" {
		t.Errorf("unit = %q", rows[1][unitPos])
	}
}

func TestWriteTSV(t *testing.T) {
	tbl := sampleTable(schema.PurchaseRequest)
	reg := selection.NewRegistry()
	path := filepath.Join(t.TempDir(), "out.tsv")

	if err := WriteTSV(path, tbl, reg); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	// Structural columns (sta, itemNum) are excluded by default.
	fields := strings.Split(lines[0], "\t")
	if len(fields) != schema.PurchaseRequest.Width()-2 {
		t.Errorf("got %d fields, want %d", len(fields), schema.PurchaseRequest.Width()-2)
	}
	if !strings.Contains(lines[0], "Reposi(PAR)") || !strings.Contains(lines[1], "Reposi(UN)") {
		t.Errorf("material not derived: %q", lines)
	}
}

func TestWriteTSVEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tsv")
	if err := WriteTSV(path, records.NewTable(schema.PurchaseRequest), selection.NewRegistry()); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty file, got %q", data)
	}
}
