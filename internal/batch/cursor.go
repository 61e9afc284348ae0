// Package batch tracks how far a table has been transferred.
//
// The cursor counts leading rows already copied. It only moves forward,
// never past the table length, and returns to zero on reset.
package batch

// DefaultSize is the fallback batch size, matching a typical ERP screen's
// row capacity.
const DefaultSize = 10

// Sized is anything with a row count.
type Sized interface {
	Len() int
}

// EffectiveSize returns n when it is a positive batch size, otherwise
// DefaultSize.
func EffectiveSize(n int) int {
	if n > 0 {
		return n
	}
	return DefaultSize
}

// Range is a half-open row index range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range holds no rows.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Cursor is the count of rows already transferred.
type Cursor struct {
	pos int
}

// Position returns the number of rows already transferred.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the rows left to transfer.
func (c *Cursor) Remaining(t Sized) int {
	return max(t.Len()-c.pos, 0)
}

// HasMore reports whether any rows are left to transfer.
func (c *Cursor) HasMore(t Sized) bool {
	return c.Remaining(t) > 0
}

// NextRange returns the next batch range of at most size rows. The range
// is empty when nothing is left.
func (c *Cursor) NextRange(t Sized, size int) Range {
	if !c.HasMore(t) {
		return Range{Start: c.pos, End: c.pos}
	}
	return Range{Start: c.pos, End: min(c.pos+size, t.Len())}
}

// Advance moves the cursor forward by n rows, clamped to the table length.
func (c *Cursor) Advance(t Sized, n int) {
	if n <= 0 {
		return
	}
	c.pos = min(c.pos+n, t.Len())
}

// Reset returns the cursor to the first row.
func (c *Cursor) Reset() {
	c.pos = 0
}
