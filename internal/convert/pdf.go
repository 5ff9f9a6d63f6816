package convert

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/render"
)

const defaultRenderWidth = 1240

// PDFConverter renders the first page of a PDF to PNG.
type PDFConverter struct {
	Width int
}

// NewPDFConverter returns a converter rendering at the given pixel width. A non-empty
// license key is registered with unipdf.
func NewPDFConverter(width int, licenseKey string) (*PDFConverter, error) {
	if key := strings.TrimSpace(licenseKey); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			return nil, fmt.Errorf("unidoc license: %w", err)
		}
	}
	if width <= 0 {
		width = defaultRenderWidth
	}
	return &PDFConverter{Width: width}, nil
}

// Convert rasterizes page one. Only PDFs are supported.
func (c *PDFConverter) Convert(ctx context.Context, doc Document) (img Image, err error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	if len(doc.Data) == 0 {
		return Image{}, fmt.Errorf("%w: empty document", ErrConversion)
	}
	if !isPDF(doc) {
		return Image{}, fmt.Errorf("%w: unsupported document type %q", ErrConversion, doc.ContentType)
	}

	defer func() {
		if r := recover(); r != nil {
			img = Image{}
			err = fmt.Errorf("%w: render panic: %v", ErrConversion, r)
		}
	}()

	reader, err := model.NewPdfReader(bytes.NewReader(doc.Data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: read pdf: %v", ErrConversion, err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return Image{}, fmt.Errorf("%w: page count: %v", ErrConversion, err)
	}
	if numPages == 0 {
		return Image{}, fmt.Errorf("%w: pdf has no pages", ErrConversion)
	}
	page, err := reader.GetPage(1)
	if err != nil {
		return Image{}, fmt.Errorf("%w: first page: %v", ErrConversion, err)
	}

	device := render.NewImageDevice()
	device.OutputWidth = c.width()
	rendered, err := device.Render(page)
	if err != nil {
		return Image{}, fmt.Errorf("%w: render: %v", ErrConversion, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rendered); err != nil {
		return Image{}, fmt.Errorf("%w: encode png: %v", ErrConversion, err)
	}
	bounds := rendered.Bounds()
	return Image{
		Name:        ImageName(doc.Name),
		ContentType: "image/png",
		Data:        buf.Bytes(),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

func (c *PDFConverter) width() int {
	if c.Width <= 0 {
		return defaultRenderWidth
	}
	return c.Width
}

func isPDF(doc Document) bool {
	if strings.EqualFold(filepath.Ext(doc.Name), ".pdf") {
		return true
	}
	if strings.HasPrefix(strings.ToLower(doc.ContentType), "application/pdf") {
		return true
	}
	return http.DetectContentType(doc.Data) == "application/pdf"
}

var _ Converter = (*PDFConverter)(nil)
