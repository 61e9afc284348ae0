// =============================================================================
// Batch Paste - Interactive Console
// =============================================================================
//
// The console drives a Session from a line-oriented prompt. It is the
// terminal counterpart of the transfer screen: preview the table, adjust
// columns and cells, and copy one batch at a time while the operator pastes
// into the ERP grid between copies.
//
// COMMANDS:
//   <enter> | copy | c        copy the next batch
//   show [on]                 preview the table (on: included columns only)
//   status                    workflow state and next batch
//   reset                     start again from the first row
//   schema <sc|os>            switch layout (rebuilds the table)
//   cols                      list columns with inclusion flags
//   toggle <id> [id...]       flip column inclusion
//   set <row> <id> <value>    edit a cell (row is 1-based)
//   batch <n>                 change the batch size
//   export <xlsx|tsv> [path]  save the table
//   check                     look for cells that would break the paste
  save <path>               save the extracted items as JSON
//   save <path>               save the extracted items as JSON
//   clear                     discard the table
//   help | ?                  this list
//   quit | exit | q           leave
//
// =============================================================================

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ginjaninja78/batchpaste/internal/exporter"
	"github.com/ginjaninja78/batchpaste/internal/records"
	"github.com/ginjaninja78/batchpaste/internal/render"
	"github.com/ginjaninja78/batchpaste/internal/schema"
	"github.com/ginjaninja78/batchpaste/internal/selection"
	"github.com/ginjaninja78/batchpaste/internal/session"
	"github.com/ginjaninja78/batchpaste/internal/validation"
	"github.com/ginjaninja78/batchpaste/pkg/utils"
)

// Messages shown after a copy.
const (
	MsgBatchCopied = "Batch copied! Go to the ERP, press Ctrl+V, press [ENTER] to open new lines, then come back here."
	MsgAllCopied   = "✅ All rows copied successfully!"
	MsgNothingLeft = "All batches copied. Use 'reset' to start again."
)

// Options configure a console.
type Options struct {
	// Color enables ANSI colours. Off for pipes and tests.
	Color bool

	// ExportDir and ExportNameFormat name files for "export" without a path.
	ExportDir        string
	ExportNameFormat string

	// Prompt defaults to "batchpaste> ".
	Prompt string
}

// Console is a REPL bound to one session.
type Console struct {
	sess *session.Session
	out  io.Writer
	opts Options

	ok   *color.Color
	warn *color.Color
	fail *color.Color
	info *color.Color
}

// New returns a console writing to out.
func New(sess *session.Session, out io.Writer, opts Options) *Console {
	if opts.Prompt == "" {
		opts.Prompt = "batchpaste> "
	}
	c := &Console{
		sess: sess,
		out:  out,
		opts: opts,
		ok:   color.New(color.FgGreen, color.Bold),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
		info: color.New(color.FgCyan),
	}
	for _, col := range []*color.Color{c.ok, c.warn, c.fail, c.info} {
		if opts.Color {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

// Run reads commands from in until EOF, quit or context cancellation.
// Cancellation (Ctrl+C) ends the loop cleanly even while waiting for input.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines, readErr := readLines(ctx, in)

	c.printStatus()
	for {
		fmt.Fprint(c.out, c.opts.Prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			c.info.Fprintln(c.out, "Interrupted.")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				if err := <-readErr; err != nil && ctx.Err() == nil {
					return err
				}
				return nil
			}
			line = l
		}

		err := c.Exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.fail.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

// readLines scans in on its own goroutine. lines is closed at EOF, after
// which readErr yields the scanner error (nil at a clean EOF).
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

// Exec runs a single command line.
func (c *Console) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return c.copy(ctx)
	}

	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "copy", "c":
		return c.copy(ctx)
	case "show", "preview", "p":
		c.show(len(args) > 0 && args[0] == "on")
	case "status", "st":
		c.printStatus()
	case "reset", "r":
		c.sess.Reset()
		c.info.Fprintln(c.out, "Transfer reset to the first row.")
		c.printStatus()
	case "schema":
		return c.schema(args)
	case "cols", "columns":
		c.columns()
	case "toggle", "t":
		return c.toggle(args)
	case "set", "edit":
		return c.set(args)
	case "batch":
		return c.batch(args)
	case "export":
		return c.export(args)
	case "check":
		c.check()
	case "save":
		return c.save(args)
	case "clear":
		c.sess.Clear()
		c.info.Fprintln(c.out, "Table cleared.")
	case "help", "?", "h":
		fmt.Fprint(c.out, helpText)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (type 'help')", cmd)
	}
	return nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (c *Console) copy(ctx context.Context) error {
	res, err := c.sess.CopyNextBatch(ctx)
	if err != nil {
		return err
	}
	if res.Rows == 0 {
		if c.sess.Status().Rows == 0 {
			c.warn.Fprintln(c.out, "Nothing to copy: the table is empty.")
		} else {
			c.warn.Fprintln(c.out, MsgNothingLeft)
		}
		return nil
	}

	c.ok.Fprintf(c.out, "Copied rows %d to %d.\n", res.Range.Start+1, res.Range.End)
	if res.Done {
		c.ok.Fprintln(c.out, MsgAllCopied)
	} else {
		fmt.Fprintln(c.out, MsgBatchCopied)
	}
	c.printStatus()
	return nil
}

func (c *Console) show(onlyIncluded bool) {
	c.sess.View(func(t *records.Table, reg *selection.Registry, copied int) {
		if t.Len() == 0 {
			c.warn.Fprintln(c.out, "The table is empty.")
			return
		}
		fmt.Fprintln(c.out, render.Preview(t, reg, copied, render.PreviewOptions{OnlyIncluded: onlyIncluded}))
	})
}

func (c *Console) save(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: save <path>")
	}
	items := c.sess.Items()
	data, err := records.MarshalDocument(items)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}
	c.ok.Fprintf(c.out, "Saved %d item(s) to %s\n", len(items), args[0])
	return nil
}

func (c *Console) check() {
	c.sess.View(func(t *records.Table, reg *selection.Registry, _ int) {
		res := validation.NewValidator(reg).ValidateAll(t)
		switch {
		case len(res.Errors) == 0:
			c.ok.Fprintf(c.out, "%d row(s) checked, no problems.\n", res.RowsChecked)
		case res.IsValid:
			c.warn.Fprint(c.out, validation.FormatErrors(res.Errors))
		default:
			c.fail.Fprint(c.out, validation.FormatErrors(res.Errors))
		}
	})
}

func (c *Console) schema(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: schema <sc|os>")
	}
	s, err := schema.Parse(args[0])
	if err != nil {
		return err
	}
	c.sess.SwitchSchema(s)
	c.info.Fprintf(c.out, "Active schema: %s (%s)\n", s, s.Code())
	c.printStatus()
	return nil
}

func (c *Console) columns() {
	c.sess.View(func(t *records.Table, reg *selection.Registry, _ int) {
		fmt.Fprintln(c.out, render.Columns(t.Schema(), reg))
	})
}

func (c *Console) toggle(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: toggle <column> [column...]")
	}
	for _, id := range args {
		on, err := c.sess.ToggleColumn(id)
		if err != nil {
			return err
		}
		state := "excluded"
		if on {
			state = "included"
		}
		c.info.Fprintf(c.out, "%s %s\n", id, state)
	}
	return nil
}

func (c *Console) set(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <row> <column> <value>")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil || row < 1 {
		return fmt.Errorf("invalid row %q", args[0])
	}
	value := strings.Join(args[2:], " ")
	if err := c.sess.Edit(row-1, args[1], value); err != nil {
		return err
	}
	c.info.Fprintf(c.out, "Row %d %s = %q\n", row, args[1], value)
	return nil
}

func (c *Console) batch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: batch <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid batch size %q", args[0])
	}
	c.sess.SetBatchSize(n)
	c.info.Fprintf(c.out, "Batch size: %d\n", c.sess.Status().BatchSize)
	return nil
}

func (c *Console) export(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: export <xlsx|tsv> [path]")
	}
	kind := strings.ToLower(args[0])
	if kind != "xlsx" && kind != "tsv" {
		return fmt.Errorf("unknown export format %q", kind)
	}

	var err error
	var path string
	c.sess.View(func(t *records.Table, reg *selection.Registry, _ int) {
		path, err = c.exportPath(kind, t.Schema(), args[1:])
		if err != nil {
			return
		}
		if kind == "xlsx" {
			err = exporter.WriteXLSX(path, t, reg)
		} else {
			err = exporter.WriteTSV(path, t, reg)
		}
	})
	if err != nil {
		return err
	}
	c.ok.Fprintf(c.out, "Exported to %s\n", path)
	return nil
}

func (c *Console) exportPath(kind string, s schema.Schema, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if err := utils.EnsureDir(c.opts.ExportDir); err != nil {
		return "", err
	}
	format := c.opts.ExportNameFormat
	if format == "" {
		format = "{schema}_{timestamp}_{uuid}"
	}
	return utils.OutputPath(c.opts.ExportDir, format, "."+kind, map[string]string{"schema": s.Code()}), nil
}

// =============================================================================
// STATUS
// =============================================================================

func (c *Console) printStatus() {
	fmt.Fprintln(c.out, StatusLine(c.sess.Status()))
}

// StatusLine summarises a session status in one line.
func StatusLine(st session.Status) string {
	head := fmt.Sprintf("[%s] %d rows, %d copied, batch %d, %s",
		st.Schema.Code(), st.Rows, st.Copied, st.BatchSize, st.State)
	if st.Next.Empty() {
		if st.Rows > 0 {
			return head + " | All batches copied"
		}
		return head
	}
	return head + " | " + CopyLabel(st.Next.Start, st.Next.End)
}

// CopyLabel is the action label for the 0-based half-open range.
func CopyLabel(start, end int) string {
	return fmt.Sprintf("Copy batch (%d to %d)", start+1, end)
}

const helpText = `Commands:
  <enter> | copy | c        copy the next batch
  show [on]                 preview the table (on: included columns only)
  status                    workflow state and next batch
  reset                     start again from the first row
  schema <sc|os>            switch layout (rebuilds the table)
  cols                      list columns with inclusion flags
  toggle <id> [id...]       flip column inclusion
  set <row> <id> <value>    edit a cell (row is 1-based)
  batch <n>                 change the batch size
  export <xlsx|tsv> [path]  save the table
  check                     look for cells that would break the paste
  save <path>               save the extracted items as JSON
  clear                     discard the table
  help | ?                  this list
  quit | exit | q           leave
`
