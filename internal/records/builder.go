// =============================================================================
// Batch Paste - Record Builder
// =============================================================================
//
// The builder maps raw extracted items into table rows for the active
// schema, filling derived fields and global defaults.
//
// DERIVED FIELDS:
//   - Item number: row k (1-indexed) gets k*10. Purchase requests use the
//     plain decimal ("10", "20"); work orders zero-pad to 4 digits ("0010").
//     The two conventions are independent and must stay that way.
//   - Material (purchase requests only): "<base>(PAR)" when the unit is PAR,
//     otherwise "<base>(UN)". Re-derived whenever the unit cell is edited.
//   - Unit: always upper-cased on ingestion.
//
// =============================================================================

package records

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/batchpaste/internal/schema"
)

// StatusMarker is the value placed in the purchase request status column.
const StatusMarker = "🔴"

// =============================================================================
// DEFAULTS
// =============================================================================

// Defaults are the global values copied into every generated row.
type Defaults struct {
	// Requester is the requester name (purchase requests) and the
	// recipient (work orders).
	Requester string

	// Plant is the plant/center code.
	Plant string

	// PurchasingGroup is the purchasing group code.
	PurchasingGroup string

	// DeliveryDate is the delivery date, already formatted for the ERP.
	DeliveryDate string

	// CodeC is the value for the purchase request "C" column.
	CodeC string

	// MaterialBase is the prefix used to derive the material code.
	MaterialBase string

	// Price is the default price, formatted for the ERP locale.
	Price string
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder creates and edits tables.
type Builder struct {
	defaults Defaults
	upper    cases.Caser
}

// NewBuilder returns a builder using the given defaults.
func NewBuilder(defaults Defaults) *Builder {
	return &Builder{
		defaults: defaults,
		upper:    cases.Upper(language.Und),
	}
}

// Build produces a table with one row per item, in item order.
func (b *Builder) Build(items []Item, s schema.Schema) *Table {
	t := NewTable(s)
	for idx, item := range items {
		switch s {
		case schema.PurchaseRequest:
			t.Append(b.purchaseRequestRow(idx, item))
		case schema.WorkOrder:
			t.Append(b.workOrderRow(idx, item))
		default:
			panic(fmt.Sprintf("records: no builder for schema %s", s.Code()))
		}
	}
	return t
}

func (b *Builder) purchaseRequestRow(idx int, item Item) Row {
	unit := b.normalizeUnit(item.Unit)

	r := NewRow(schema.PurchaseRequest)
	r.Set(schema.ColStatus, StatusMarker)
	r.Set(schema.ColItemNum, PurchaseRequestItemNumber(idx))
	r.Set(schema.ColCodeC, b.defaults.CodeC)
	r.Set(schema.ColMaterial, b.MaterialFor(unit))
	r.Set(schema.ColShortText, item.Description)
	r.Set(schema.ColQuantity, FormatQuantity(item.Quantity))
	r.Set(schema.ColUnit, unit)
	r.Set(schema.ColPrice, b.defaults.Price)
	r.Set(schema.ColType, "D")
	r.Set(schema.ColDeliveryDate, b.defaults.DeliveryDate)
	r.Set(schema.ColPlant, b.defaults.Plant)
	r.Set(schema.ColPurchGroup, b.defaults.PurchasingGroup)
	r.Set(schema.ColRequester, b.defaults.Requester)
	return r
}

func (b *Builder) workOrderRow(idx int, item Item) Row {
	r := NewRow(schema.WorkOrder)
	r.Set(schema.ColItemNum, WorkOrderItemNumber(idx))
	r.Set(schema.ColDenomination, item.Description)
	r.Set(schema.ColRequiredQty, FormatQuantity(item.Quantity))
	r.Set(schema.ColUnit, b.normalizeUnit(item.Unit))
	r.Set(schema.ColRecipient, b.defaults.Requester)
	return r
}

// PurchaseRequestItemNumber returns the item number for the 0-based row idx.
func PurchaseRequestItemNumber(idx int) string {
	return fmt.Sprintf("%d", (idx+1)*10)
}

// WorkOrderItemNumber returns the zero-padded item number for row idx.
func WorkOrderItemNumber(idx int) string {
	return fmt.Sprintf("%04d", (idx+1)*10)
}

// MaterialFor derives the material code from a unit.
func (b *Builder) MaterialFor(unit string) string {
	if strings.EqualFold(strings.TrimSpace(unit), "PAR") {
		return b.defaults.MaterialBase + "(PAR)"
	}
	return b.defaults.MaterialBase + "(UN)"
}

func (b *Builder) normalizeUnit(unit string) string {
	return b.upper.String(unit)
}

// =============================================================================
// CELL EDITS
// =============================================================================

// Edit assigns a cell value on row idx (0-based). Editing the unit of a
// purchase request row re-derives the material code from the new value.
// Unknown column ids panic; an out-of-range row is an error.
func (b *Builder) Edit(t *Table, idx int, column, value string) error {
	row, err := t.Row(idx)
	if err != nil {
		return err
	}

	row.Set(column, value)
	if t.Schema() == schema.PurchaseRequest && column == schema.ColUnit {
		row.Set(schema.ColMaterial, b.MaterialFor(value))
	}
	return nil
}
