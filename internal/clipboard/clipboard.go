// Package clipboard hands serialized batches to their destination.
//
// The system backend writes to the desktop clipboard. The stream backend
// writes to any io.Writer (stdout, a file) for headless use and tests.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Writer receives batch text.
type Writer interface {
	WriteText(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// WriteText implements Writer.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("system clipboard unsupported on this platform (install xclip, xsel or wl-clipboard)")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Stream writes each batch to an io.Writer, followed by a separator line.
type Stream struct {
	W         io.Writer
	Separator string
}

// WriteText implements Writer.
func (s Stream) WriteText(text string) error {
	if _, err := io.WriteString(s.W, text+"\n"); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	if s.Separator != "" {
		if _, err := io.WriteString(s.W, s.Separator+"\n"); err != nil {
			return fmt.Errorf("write batch separator: %w", err)
		}
	}
	return nil
}

// File overwrites a file with the latest batch.
type File struct {
	Path string
}

// WriteText implements Writer.
func (f File) WriteText(text string) error {
	if err := os.WriteFile(f.Path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write batch file: %w", err)
	}
	return nil
}

// New returns the writer for a backend name: "system", "stdout", or
// "file" (which requires path).
func New(backend, path string, stdout io.Writer) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "system":
		return System{}, nil
	case "stdout":
		return Stream{W: stdout, Separator: "----"}, nil
	case "file":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("clipboard backend %q requires a file path", backend)
		}
		return File{Path: path}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", backend)
	}
}
