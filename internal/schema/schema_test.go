package schema

import "testing"

func TestWidths(t *testing.T) {
	if got := PurchaseRequest.Width(); got != 16 {
		t.Errorf("purchase request width = %d, want 16", got)
	}
	if got := WorkOrder.Width(); got != 15 {
		t.Errorf("work order width = %d, want 15", got)
	}
}

func TestStructuralColumns(t *testing.T) {
	tests := []struct {
		schema Schema
		want   []string
	}{
		{PurchaseRequest, []string{ColStatus, ColItemNum}},
		{WorkOrder, []string{ColItemNum, ColItemType}},
	}

	for _, tt := range tests {
		var got []string
		for _, c := range tt.schema.Columns() {
			if c.OmitWhenExcluded {
				got = append(got, c.ID)
			}
			if c.DefaultIncluded == c.OmitWhenExcluded {
				t.Errorf("%s/%s: default inclusion should be the inverse of structural", tt.schema.Code(), c.ID)
			}
		}
		if len(got) != len(tt.want) {
			t.Fatalf("%s structural = %v, want %v", tt.schema.Code(), got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s structural[%d] = %s, want %s", tt.schema.Code(), i, got[i], tt.want[i])
			}
		}
	}
}

func TestPositionsFollowOrder(t *testing.T) {
	for _, s := range All {
		for i, c := range s.Columns() {
			if c.Position != i {
				t.Errorf("%s/%s position = %d, want %d", s.Code(), c.ID, c.Position, i)
			}
			if s.Position(c.ID) != i {
				t.Errorf("%s.Position(%s) = %d, want %d", s.Code(), c.ID, s.Position(c.ID), i)
			}
		}
	}
}

func TestPositionUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown column")
		}
	}()
	PurchaseRequest.Position(ColComponent)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Schema
		wantErr bool
	}{
		{"sc", PurchaseRequest, false},
		{" OS ", WorkOrder, false},
		{"b", WorkOrder, false},
		{"xx", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
