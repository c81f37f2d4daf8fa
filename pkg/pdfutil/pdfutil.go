package pdfutil

import (
	"bytes"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pkg/errors"
)

// Thumbnailer renders a JPEG preview of a PDF's first page.
type Thumbnailer interface {
	Thumbnail(data []byte, maxWidth int) ([]byte, error)
}

var (
	poolOnce sync.Once
	poolErr  error
	pool     pdfium.Pool
)

// getPool lazily initializes the WebAssembly pdfium pool. The WASM runtime
// has a multi-second startup cost, so it is shared process-wide and only
// spun up when a PDF actually needs rendering.
func getPool() (pdfium.Pool, error) {
	poolOnce.Do(func() {
		pool, poolErr = webassembly.Init(webassembly.Config{
			MinIdle:  1,
			MaxIdle:  1,
			MaxTotal: 1,
		})
	})
	return pool, poolErr
}

// Renderer is the production Thumbnailer backed by pdfium.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Thumbnail renders the first page at 150 DPI, scales it down to maxWidth,
// and encodes it as JPEG.
func (r *Renderer) Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	p, err := getPool()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize pdfium")
	}

	instance, err := p.GetInstance(30 * time.Second)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer instance.Close()

	doc, err := instance.OpenDocument(&requests.OpenDocument{File: &data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF")
	}
	defer instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document}) //nolint:errcheck

	rendered, err := instance.RenderPageInDPI(&requests.RenderPageInDPI{
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{Document: doc.Document, Index: 0},
		},
		DPI: 150,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render first page")
	}

	var img image.Image = rendered.Result.Image
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, errors.Wrap(err, "failed to encode thumbnail")
	}
	return buf.Bytes(), nil
}

// PageCount returns the number of pages without spinning up the renderer.
func PageCount(data []byte) (int, error) {
	count, err := pdfcpu.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read PDF page count")
	}
	return count, nil
}
