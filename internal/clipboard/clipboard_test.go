package clipboard

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	w := Stream{W: &buf, Separator: "--"}
	if err := w.WriteText("a\tb"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a\tb\n--\n" {
		t.Errorf("stream output = %q", got)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.tsv")
	w := File{Path: path}
	if err := w.WriteText("first"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteText("second"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want the latest batch", data)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{"", "", false},
		{"system", "", false},
		{"stdout", "", false},
		{"file", "out.tsv", false},
		{"file", "", true},
		{"printer", "", true},
	}
	for _, tt := range tests {
		_, err := New(tt.backend, tt.path, &bytes.Buffer{})
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q, %q) error = %v, wantErr %v", tt.backend, tt.path, err, tt.wantErr)
		}
	}
}
