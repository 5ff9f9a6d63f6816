package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-feedback/internal/shared/storage/object"
)

var (
	// ErrUnsupported is returned for documents that are neither PDF nor plain text.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrNoText is returned when a document yields no text, such as a scanned PDF.
	ErrNoText = errors.New("document has no extractable text")
)

// Text loads a stored resume and returns its plain text.
func Text(ctx context.Context, store object.ObjectStore, objectPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := store.Open(ctx, objectPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", objectPath, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", objectPath, err)
	}
	text, err := FromBytes(data, objectPath)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", objectPath, err)
	}
	return text, nil
}

// FromBytes detects the document kind from its content, falling back to the name's
// extension, and extracts its text.
func FromBytes(data []byte, name string) (string, error) {
	var text string
	switch kind := detect(data, name); kind {
	case "application/pdf":
		pages, err := pdfPages(data)
		if err != nil {
			return "", err
		}
		text = strings.Join(pages, "\n\n")
	case "text/plain":
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func detect(data []byte, name string) string {
	sniffed, _, _ := strings.Cut(http.DetectContentType(data), ";")
	if sniffed == "application/pdf" || sniffed == "text/plain" {
		return sniffed
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	}
	return sniffed
}

// pdfPages returns the text of every page in order. Pages without text are skipped.
func pdfPages(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages, nil
}
