package extraction

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Attachment is a document or photo sent inline to the model.
type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

// maxAttachmentBytes bounds inline payloads; the API rejects larger
// inline requests.
const maxAttachmentBytes = 20 << 20

// LoadAttachments reads the given files concurrently, preserving order.
// Only images and PDFs are accepted.
func LoadAttachments(ctx context.Context, paths []string) ([]Attachment, error) {
	out := make([]Attachment, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := loadAttachment(p)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func loadAttachment(path string) (Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("read attachment: %w", err)
	}
	if info.Size() > maxAttachmentBytes {
		return Attachment{}, fmt.Errorf("attachment %s is %d bytes, limit is %d", path, info.Size(), maxAttachmentBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("read attachment: %w", err)
	}

	mt := DetectMimeType(path, data)
	if !strings.HasPrefix(mt, "image/") && mt != "application/pdf" {
		return Attachment{}, fmt.Errorf("attachment %s: unsupported type %s (images and PDF only)", path, mt)
	}

	return Attachment{Name: filepath.Base(path), MimeType: mt, Data: data}, nil
}

// DetectMimeType sniffs the content and falls back to the file extension.
func DetectMimeType(path string, data []byte) string {
	mt := http.DetectContentType(data)
	if mt == "application/octet-stream" || strings.HasPrefix(mt, "text/plain") {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
			mt = byExt
		}
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
