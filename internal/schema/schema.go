// =============================================================================
// Batch Paste - Schema Definitions
// =============================================================================
//
// This package defines the two fixed row layouts the tool knows how to
// produce, and the static column descriptors for each:
//
//   PurchaseRequest ("sc") : purchase-request rows (16 columns)
//   WorkOrder       ("os") : work-order component rows (15 columns)
//
// Column identity and order are fixed at compile time. Labels are display
// data only and may be replaced without touching the transfer protocol.
//
// STRUCTURAL COLUMNS:
//   A few identifier columns are not always present as editable grid columns
//   in the ERP screen. When excluded from transfer they lose their slot in the
//   pasted row instead of being blanked. See Column.OmitWhenExcluded.
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"
)

// =============================================================================
// SCHEMA VARIANT
// =============================================================================

// Schema identifies one of the fixed row layouts.
type Schema int

const (
	// PurchaseRequest is the purchase-request layout (schema A).
	PurchaseRequest Schema = iota

	// WorkOrder is the work-order component layout (schema B).
	WorkOrder
)

// All lists every schema in a stable order.
var All = []Schema{PurchaseRequest, WorkOrder}

// Code returns the short code used in config files and on the command line.
func (s Schema) Code() string {
	switch s {
	case PurchaseRequest:
		return "sc"
	case WorkOrder:
		return "os"
	default:
		return fmt.Sprintf("schema(%d)", int(s))
	}
}

// String returns the human-readable name of the schema.
func (s Schema) String() string {
	switch s {
	case PurchaseRequest:
		return "Purchase Request"
	case WorkOrder:
		return "Work Order"
	default:
		return s.Code()
	}
}

// Parse converts a schema code ("sc", "os", "a", "b") into a Schema.
func Parse(code string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "sc", "a", "purchase", "purchase-request":
		return PurchaseRequest, nil
	case "os", "b", "workorder", "work-order":
		return WorkOrder, nil
	default:
		return 0, fmt.Errorf("unknown schema %q (expected sc or os)", code)
	}
}

// =============================================================================
// COLUMN IDENTIFIERS
// =============================================================================

// Column identifiers shared by both schemas.
const (
	ColItemNum = "itemNum"
	ColUnit    = "um"
)

// Purchase request column identifiers.
const (
	ColStatus       = "sta"
	ColCodeC        = "c"
	ColCodeI        = "i"
	ColMaterial     = "material"
	ColShortText    = "textoBreve"
	ColQuantity     = "quantidade"
	ColPrice        = "preco"
	ColType         = "t"
	ColDeliveryDate = "dtRemessa"
	ColMerchGroup   = "grpMercads"
	ColPlant        = "centro"
	ColStorage      = "deposito"
	ColPurchGroup   = "gc"
	ColRequester    = "requisitante"
)

// Work order column identifiers.
const (
	ColComponent      = "componente"
	ColDenomination   = "denominacao"
	ColItemType       = "tItem"
	ColRequiredQty    = "qtdNecess"
	ColTI             = "ti"
	ColE              = "e"
	ColDep            = "dep"
	ColCen            = "cen"
	ColOperation      = "oper"
	ColBatch          = "lote"
	ColSupplyCategory = "ctgSuprimento"
	ColRecipient      = "recebedor"
	ColDischargePoint = "ptoDescarga"
)

// =============================================================================
// COLUMN DESCRIPTOR
// =============================================================================

// Column is a static column descriptor.
type Column struct {
	// ID is the stable column identifier.
	ID string

	// Label is the display label shown in table headers.
	Label string

	// Position is the 0-based position in the schema's fixed order.
	Position int

	// Schema is the layout this column belongs to.
	Schema Schema

	// OmitWhenExcluded marks structural columns. An excluded structural
	// column is dropped from the serialized row rather than blanked.
	OmitWhenExcluded bool

	// DefaultIncluded is the initial inclusion flag for this column.
	DefaultIncluded bool
}

type columnDef struct {
	id         string
	label      string
	structural bool
}

var purchaseRequestDefs = []columnDef{
	{ColStatus, "Sta.", true},
	{ColItemNum, "Item", true},
	{ColCodeC, "C", false},
	{ColCodeI, "I", false},
	{ColMaterial, "Material", false},
	{ColShortText, "Texto breve", false},
	{ColQuantity, "Quant.", false},
	{ColUnit, "UM", false},
	{ColPrice, "Preço av.", false},
	{ColType, "T", false},
	{ColDeliveryDate, "Dt.remessa", false},
	{ColMerchGroup, "GrpMercads.", false},
	{ColPlant, "Centro", false},
	{ColStorage, "Depósito", false},
	{ColPurchGroup, "GC...", false},
	{ColRequester, "Requisitante", false},
}

var workOrderDefs = []columnDef{
	{ColItemNum, "Item", true},
	{ColComponent, "Componente", false},
	{ColDenomination, "Denominação", false},
	{ColItemType, "T...", true},
	{ColRequiredQty, "Qtd.necess.", false},
	{ColUnit, "UM", false},
	{ColTI, "TI", false},
	{ColE, "E..", false},
	{ColDep, "Dep.", false},
	{ColCen, "Cen.", false},
	{ColOperation, "Oper", false},
	{ColBatch, "Lote", false},
	{ColSupplyCategory, "Ctg.suprimento", false},
	{ColRecipient, "Recebedor", false},
	{ColDischargePoint, "Pto.descarga", false},
}

type layout struct {
	columns []Column
	index   map[string]int
}

var layouts = map[Schema]*layout{
	PurchaseRequest: buildLayout(PurchaseRequest, purchaseRequestDefs),
	WorkOrder:       buildLayout(WorkOrder, workOrderDefs),
}

func buildLayout(s Schema, defs []columnDef) *layout {
	l := &layout{
		columns: make([]Column, len(defs)),
		index:   make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		l.columns[i] = Column{
			ID:               d.id,
			Label:            d.label,
			Position:         i,
			Schema:           s,
			OmitWhenExcluded: d.structural,
			DefaultIncluded:  !d.structural,
		}
		l.index[d.id] = i
	}
	return l
}

func (s Schema) layout() *layout {
	l, ok := layouts[s]
	if !ok {
		panic(fmt.Sprintf("schema: unknown schema %d", int(s)))
	}
	return l
}

// =============================================================================
// LOOKUPS
// =============================================================================

// Columns returns the schema's columns in their fixed order. The returned
// slice is a copy.
func (s Schema) Columns() []Column {
	cols := s.layout().columns
	out := make([]Column, len(cols))
	copy(out, cols)
	return out
}

// Width returns the full column count of the schema.
func (s Schema) Width() int {
	return len(s.layout().columns)
}

// Lookup returns the column with the given id.
func (s Schema) Lookup(id string) (Column, bool) {
	l := s.layout()
	i, ok := l.index[id]
	if !ok {
		return Column{}, false
	}
	return l.columns[i], true
}

// Position returns the position of a column id. Unknown ids are a
// programming error and panic.
func (s Schema) Position(id string) int {
	i, ok := s.layout().index[id]
	if !ok {
		panic(fmt.Sprintf("schema: unknown column %q in %s", id, s.Code()))
	}
	return i
}

// Labels returns the display labels in column order.
func (s Schema) Labels() []string {
	cols := s.layout().columns
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = c.Label
	}
	return labels
}
