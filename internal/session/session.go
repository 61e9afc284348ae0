// =============================================================================
// Batch Paste - Transfer Session
// =============================================================================
//
// A Session owns all mutable state of one interactive transfer:
//   - the raw extracted items (kept so a schema switch can rebuild the table
//     without extracting again)
//   - the active schema and its table
//   - the per-schema inclusion maps
//   - the batch cursor and configured batch size
//
// A single mutex guards everything. Cursor advancement and table rebuilds
// must never interleave, since a rebuild invalidates the cursor's range.
//
// WORKFLOW STATES (per table):
//   Idle                 cursor = 0
//   PartiallyTransferred 0 < cursor < rows
//   Complete             cursor = rows (further copies are no-ops)
//
//   Any state --Reset()--> Idle
//   Any state --rebuild (new items / schema switch)--> Idle on the new table
//
// =============================================================================

package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ginjaninja78/batchpaste/internal/batch"
	"github.com/ginjaninja78/batchpaste/internal/clipboard"
	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
	"github.com/ginjaninja78/batchpaste/internal/transfer"
)

// =============================================================================
// STATE
// =============================================================================

// State is the transfer workflow state of the current table.
type State int

// Workflow states.
const (
	Idle State = iota
	PartiallyTransferred
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PartiallyTransferred:
		return "partially transferred"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status is a snapshot of the session.
type Status struct {
	Schema    schema.Schema
	Rows      int
	Copied    int
	BatchSize int
	State     State

	// Next is the next batch range. Empty when nothing is left.
	Next batch.Range
}

// CopyResult describes one CopyNextBatch call.
type CopyResult struct {
	// Rows is the number of rows handed to the clipboard (0 = no-op).
	Rows int

	// Range is the 0-based half-open range that was copied.
	Range batch.Range

	// Done reports that the table is now fully transferred.
	Done bool

	// Text is the serialized batch.
	Text string
}

// =============================================================================
// SESSION
// =============================================================================

// Session holds the state of one transfer.
type Session struct {
	mu sync.Mutex

	builder   *records.Builder
	registry  *selection.Registry
	clipboard clipboard.Writer

	items     []records.Item
	active    schema.Schema
	table     *records.Table
	cursor    batch.Cursor
	batchSize int
}

// Options configure a new Session.
type Options struct {
	Builder   *records.Builder
	Registry  *selection.Registry
	Clipboard clipboard.Writer
	Schema    schema.Schema
	BatchSize int
}

// New returns a session with an empty table.
func New(opts Options) *Session {
	reg := opts.Registry
	if reg == nil {
		reg = selection.NewRegistry()
	}
	s := &Session{
		builder:   opts.Builder,
		registry:  reg,
		clipboard: opts.Clipboard,
		active:    opts.Schema,
		batchSize: opts.BatchSize,
	}
	s.rebuild()
	return s
}

// rebuild re-derives the table from the raw items and resets the cursor.
// Callers hold s.mu (or own s exclusively).
func (s *Session) rebuild() {
	s.table = s.builder.Build(s.items, s.active)
	s.cursor.Reset()
}

// =============================================================================
// TABLE LIFECYCLE
// =============================================================================

// LoadItems replaces the raw items and rebuilds the table.
func (s *Session) LoadItems(items []records.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]records.Item(nil), items...)
	s.rebuild()
	log.Debug().Int("items", len(items)).Str("schema", s.active.Code()).Msg("Table rebuilt from new items")
}

// SwitchSchema makes another schema active and rebuilds the table from the
// retained items. Switching to the active schema is a no-op.
func (s *Session) SwitchSchema(sc schema.Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc == s.active {
		return
	}
	s.active = sc
	s.rebuild()
	log.Debug().Str("schema", sc.Code()).Msg("Schema switched")
}

// Clear discards the items, the table and the transfer progress. Column
// preferences are kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.rebuild()
}

// Edit assigns a cell value. row is 0-based. Unknown column ids for the
// active schema are rejected with an error here, since they come from user
// input.
func (s *Session) Edit(row int, column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active.Lookup(column); !ok {
		return fmt.Errorf("unknown column %q for %s", column, s.active.Code())
	}
	return s.builder.Edit(s.table, row, column, value)
}

// =============================================================================
// COLUMN SELECTION
// =============================================================================

// ToggleColumn flips a column's inclusion for the active schema and returns
// the new flag.
func (s *Session) ToggleColumn(column string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active.Lookup(column); !ok {
		return false, fmt.Errorf("unknown column %q for %s", column, s.active.Code())
	}
	return s.registry.Toggle(s.active, column), nil
}

// =============================================================================
// BATCHING
// =============================================================================

// SetBatchSize sets the configured batch size. Non-positive values are
// stored as given and fall back to batch.DefaultSize when used.
func (s *Session) SetBatchSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchSize = n
}

// Reset rewinds the transfer to the first row.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Reset()
}

// CopyNextBatch serializes the next batch and writes it to the clipboard.
// The cursor only advances when the write succeeds. With nothing left it
// returns a zero-row result and no error.
func (s *Session) CopyNextBatch(ctx context.Context) (CopyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return CopyResult{}, err
	}

	next := s.cursor
	start := next.Position()
	text, n := transfer.SerializeNextBatch(s.table, s.registry, &next, s.batchSize)
	if n == 0 {
		return CopyResult{Done: !next.HasMore(s.table)}, nil
	}

	if err := s.clipboard.WriteText(text); err != nil {
		return CopyResult{}, fmt.Errorf("copy rows %d-%d: %w", start+1, start+n, err)
	}
	s.cursor = next

	res := CopyResult{
		Rows:  n,
		Range: batch.Range{Start: start, End: start + n},
		Done:  !s.cursor.HasMore(s.table),
		Text:  text,
	}
	log.Info().
		Int("from", start+1).
		Int("to", start+n).
		Int("total", s.table.Len()).
		Bool("done", res.Done).
		Msg("Batch copied")
	return res, nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := batch.EffectiveSize(s.batchSize)
	return Status{
		Schema:    s.active,
		Rows:      s.table.Len(),
		Copied:    s.cursor.Position(),
		BatchSize: size,
		State:     s.stateLocked(),
		Next:      s.cursor.NextRange(s.table, size),
	}
}

func (s *Session) stateLocked() State {
	switch pos := s.cursor.Position(); {
	case pos == 0:
		return Idle
	case pos < s.table.Len():
		return PartiallyTransferred
	default:
		return Complete
	}
}

// View calls fn with the current table and registry while holding the
// session lock. fn must not retain either.
func (s *Session) View(fn func(t *records.Table, reg *selection.Registry, copied int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.table, s.registry, s.cursor.Position())
}

// Items returns a copy of the raw items.
func (s *Session) Items() []records.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]records.Item(nil), s.items...)
}
