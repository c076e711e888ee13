package printer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"slices"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	// QRSize is the edge length in pixels of generated QR bitmaps
	QRSize = 200
	// QRMargin is the quiet zone width in modules
	QRMargin = 1

	pngDataURIPrefix = "data:image/png;base64,"
)

// GeneratedCode is a QR bitmap derived from SourceText. Image is a PNG data
// URI, or empty when generation failed.
type GeneratedCode struct {
	SourceText string `json:"source_text"`
	Image      string `json:"-"`
}

// Blank reports whether the code should render as an empty cell
func (c GeneratedCode) Blank() bool {
	return c.Image == ""
}

// PNG decodes the data URI back to PNG bytes
func (c GeneratedCode) PNG() ([]byte, error) {
	return DecodeDataURI(c.Image)
}

// Modules traces the dark areas of the code image so it can be drawn as
// vector rectangles.
func (c GeneratedCode) Modules() (*ModuleMap, error) {
	data, err := c.PNG()
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode qr png: %w", err)
	}
	return traceModules(img), nil
}

// ModuleMap is a QR bitmap reduced to dark rectangles in pixel units
type ModuleMap struct {
	Width  int
	Height int
	Rects  []image.Rectangle
}

// Dark reports whether pixel x,y lies inside a dark rectangle
func (m *ModuleMap) Dark(x, y int) bool {
	p := image.Pt(x, y)
	for _, r := range m.Rects {
		if p.In(r) {
			return true
		}
	}
	return false
}

type pixelRun struct{ x0, x1 int }

// traceModules merges horizontal dark runs of identical consecutive rows
// into one rectangle per run.
func traceModules(img image.Image) *ModuleMap {
	b := img.Bounds()
	m := &ModuleMap{Width: b.Dx(), Height: b.Dy()}
	if b.Empty() {
		return m
	}

	prev := darkRuns(img, b.Min.Y)
	start := b.Min.Y
	for y := b.Min.Y + 1; y <= b.Max.Y; y++ {
		var cur []pixelRun
		if y < b.Max.Y {
			cur = darkRuns(img, y)
			if slices.Equal(cur, prev) {
				continue
			}
		}
		for _, r := range prev {
			m.Rects = append(m.Rects, image.Rect(r.x0-b.Min.X, start-b.Min.Y, r.x1-b.Min.X, y-b.Min.Y))
		}
		prev, start = cur, y
	}
	return m
}

func darkRuns(img image.Image, y int) []pixelRun {
	b := img.Bounds()
	var runs []pixelRun
	x0 := -1
	for x := b.Min.X; x < b.Max.X; x++ {
		dark := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 128
		switch {
		case dark && x0 < 0:
			x0 = x
		case !dark && x0 >= 0:
			runs = append(runs, pixelRun{x0, x})
			x0 = -1
		}
	}
	if x0 >= 0 {
		runs = append(runs, pixelRun{x0, b.Max.X})
	}
	return runs
}

// CodeEncoder turns text into a QR image
type CodeEncoder interface {
	Encode(text string) GeneratedCode
}

// QREncoder renders QR codes with go-qrcode using a one-module quiet zone.
type QREncoder struct {
	Size   int
	Margin int
	Level  qrcode.RecoveryLevel
}

// NewQREncoder returns an encoder with the label defaults
func NewQREncoder() *QREncoder {
	return &QREncoder{Size: QRSize, Margin: QRMargin, Level: qrcode.Medium}
}

// Encode never fails: errors are logged and yield the empty sentinel.
func (e *QREncoder) Encode(text string) GeneratedCode {
	code := GeneratedCode{SourceText: text}

	pngBytes, err := e.EncodePNG(text)
	if err != nil {
		log.Printf("⚠️ QR generation failed for %q: %v", text, err)
		return code
	}

	code.Image = pngDataURIPrefix + base64.StdEncoding.EncodeToString(pngBytes)
	return code
}

// EncodePNG returns the raw PNG bytes for text
func (e *QREncoder) EncodePNG(text string) ([]byte, error) {
	if text == "" {
		return nil, errors.New("empty QR content")
	}

	q, err := qrcode.New(text, e.Level)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	// go-qrcode always pads with a 4 module border; draw our own quiet zone instead
	q.DisableBorder = true

	img := renderBitmap(q.Bitmap(), e.Margin, e.Size)

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// renderBitmap scales a module bitmap to size×size pixels with margin quiet modules.
func renderBitmap(bitmap [][]bool, margin, size int) image.Image {
	if margin < 0 {
		margin = 0
	}
	modules := len(bitmap) + 2*margin
	if size < modules {
		size = modules
	}

	palette := color.Palette{color.White, color.Black}
	img := image.NewPaletted(image.Rect(0, 0, size, size), palette)

	modulesPerPixel := float64(modules) / float64(size)
	for y := 0; y < size; y++ {
		my := int(float64(y)*modulesPerPixel) - margin
		if my < 0 || my >= len(bitmap) {
			continue
		}
		for x := 0; x < size; x++ {
			mx := int(float64(x)*modulesPerPixel) - margin
			if mx < 0 || mx >= len(bitmap[my]) {
				continue
			}
			if bitmap[my][mx] {
				img.Pix[img.PixOffset(x, y)] = 1
			}
		}
	}
	return img
}

// DecodeDataURI extracts PNG bytes from a base64 data URI
func DecodeDataURI(uri string) ([]byte, error) {
	if uri == "" {
		return nil, errors.New("empty image")
	}
	if !strings.HasPrefix(uri, pngDataURIPrefix) {
		return nil, errors.New("unsupported image data URI")
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, pngDataURIPrefix))
}
