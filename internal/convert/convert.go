package convert

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// ErrConversion is returned when no image could be produced from a document.
var ErrConversion = errors.New("document conversion failed")

// Document is an uploaded file held in memory.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// Image is a rasterized preview of a document.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Converter turns a document into a preview image.
type Converter interface {
	Convert(ctx context.Context, doc Document) (Image, error)
}

// ImageName replaces the extension of name with .png.
func ImageName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "document"
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".png"
}
