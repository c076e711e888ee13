package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sanoh-inlab/labelgo/internal/models"
	"golang.org/x/sync/errgroup"
)

// ErrRender is returned when the document cannot be serialized
var ErrRender = errors.New("failed to render label document")

// Options configures the label document generator
type Options struct {
	Workers  int            // concurrent QR encodes, default 4
	PageSize int            // labels per page, default DefaultPageSize
	Location *time.Location // footer time zone, default local
	Logo     Logo
	Now      func() time.Time
}

// Document is a fully enriched, paginated label batch
type Document struct {
	Header      *models.OrderHeader
	Pages       []Page
	GeneratedAt time.Time
}

// LabelCount returns the number of labels across all pages
func (d *Document) LabelCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Labels)
	}
	return n
}

// Generator builds label PDFs. It keeps no state between calls.
type Generator struct {
	encoder CodeEncoder
	opts    Options
}

// NewGenerator creates a generator; a nil encoder uses go-qrcode defaults
func NewGenerator(encoder CodeEncoder, opts Options) *Generator {
	if encoder == nil {
		encoder = NewQREncoder()
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Logo.PNG) > 0 {
		if err := checkEmbeddable(opts.Logo.PNG); err != nil {
			log.Printf("⚠️ Label logo cannot be embedded, printing company name instead: %v", err)
			opts.Logo.PNG = nil
		}
	}
	return &Generator{encoder: encoder, opts: opts}
}

// Export generates codes, paginates and serializes labels in one call
func (g *Generator) Export(ctx context.Context, labels []models.LabelRecord, header *models.OrderHeader) ([]byte, *Document, error) {
	doc, err := g.BuildDocument(ctx, labels, header)
	if err != nil {
		return nil, nil, err
	}
	pdfBytes, err := g.Render(doc)
	if err != nil {
		return nil, doc, err
	}
	return pdfBytes, doc, nil
}

// BuildDocument generates QR codes for every label and paginates the batch.
// The order code is encoded once and shared; per label codes are encoded
// concurrently and reassembled by index so output order matches input order.
func (g *Generator) BuildDocument(ctx context.Context, labels []models.LabelRecord, header *models.OrderHeader) (*Document, error) {
	var qr1 GeneratedCode
	if header != nil && header.ProdNo != "" {
		qr1 = g.encoder.Encode(header.ProdNo)
	}

	enriched := make([]Label, len(labels))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)
	for i, item := range labels {
		enriched[i] = Label{Record: item, QR1: qr1}
		if item.PrintData == "" {
			continue
		}
		i, item := i, item
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			enriched[i].QR2 = g.encoder.Encode(item.PrintData)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Document{
		Header:      header,
		Pages:       Paginate(enriched, g.opts.PageSize),
		GeneratedAt: g.opts.Now().In(g.opts.Location),
	}, nil
}

// Render lays out every page and serializes the PDF. Only serialization
// errors are fatal; data problems degrade to blank cells.
func (g *Generator) Render(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(cellPadding)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)
	pdf.SetTitle(documentTitle(doc.Header), true)
	pdf.SetCreator("labelgo", true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		pdf.AddPage()
		for slot, label := range page.Labels {
			cells := LayoutLabel(label.Record, doc.Header, label.QR1, label.QR2, g.opts.Logo)
			RenderLabel(pdf, tr, LabelOrigin(slot), cells)
		}
		drawFooter(pdf, tr, doc.GeneratedAt, page.Index, len(doc.Pages))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Printf("❌ Label PDF serialization failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func drawFooter(pdf *gofpdf.Fpdf, tr func(string) string, generatedAt time.Time, pageIndex, totalPages int) {
	left, right := FooterText(generatedAt, pageIndex, totalPages)
	lineH := FooterFontSize * lineHeightRatio
	y := PageHeight - FooterInset - lineH
	w := PageWidth - 2*FooterInset

	pdf.SetFont(fontFamily, "", FooterFontSize)
	pdf.SetXY(FooterInset, y)
	pdf.CellFormat(w, lineH, tr(left), "", 0, "LM", false, 0, "")
	pdf.SetXY(FooterInset, y)
	pdf.CellFormat(w, lineH, right, "", 0, "RM", false, 0, "")
}

func documentTitle(header *models.OrderHeader) string {
	if header == nil || header.ProdNo == "" {
		return "Labels"
	}
	return "Labels " + header.ProdNo
}
