package printer

import (
	"bytes"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/sanoh-inlab/labelgo/internal/models"
)

// SupplierNo is printed on every label; this system serves a single supplier.
const SupplierNo = "3000474"

const (
	fontFamily      = "Helvetica"
	cellPadding     = 1.0
	minFontSize     = 3.5
	printDataFont   = 5.0
	printDataInset  = 3.0
	lineHeightRatio = 1.2
)

// QR image edge lengths inside their merged cells
var (
	qr1Side = RowPitch * 2.1
	qr2Side = RowPitch * 2.8
)

// Align of text within a cell
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
)

// Cell is one merged block of the label grid. A cell carries text lines, an
// image or a QR module map; blank cells only draw their frame.
type Cell struct {
	Span     Span
	Lines    []string
	Bold     bool
	FontSize float64
	Align    Align
	Top      bool // lines start at the top instead of being centred

	ImageName string
	ImagePNG  []byte
	Code      *ModuleMap // drawn as filled rectangles, never embedded
	ImageW    float64
	ImageH    float64
}

// Text returns the single line of a text cell
func (c Cell) Text() string {
	if len(c.Lines) == 0 {
		return ""
	}
	return c.Lines[0]
}

// Logo is the company mark drawn in the top-left block of each label.
// Without PNG data the company name is printed instead.
type Logo struct {
	Name string
	PNG  []byte
}

func textCell(span Span, text string, size float64, bold bool, align Align) Cell {
	return Cell{Span: span, Lines: []string{text}, FontSize: size, Bold: bold, Align: align}
}

func header(span Span, text string) Cell {
	return textCell(span, text, 6, true, AlignCenter)
}

func caption(span Span, text string) Cell {
	return textCell(span, text, 6, true, AlignLeft)
}

func blank(span Span) Cell {
	return Cell{Span: span}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// LayoutLabel computes every cell of one label. It never fails: missing
// fields become placeholders and missing codes become blank cells.
func LayoutLabel(item models.LabelRecord, hdr *models.OrderHeader, qr1, qr2 GeneratedCode, logo Logo) []Cell {
	prodNo := ""
	if hdr != nil {
		prodNo = hdr.ProdNo
	}

	cells := make([]Cell, 0, 48)

	// Rows 1-2: company mark and identification block
	mark := Cell{Span: Span{1, 1, 4, 2}}
	if len(logo.PNG) > 0 {
		mark.ImageName = "logo"
		mark.ImagePNG = logo.PNG
		mark.ImageW, mark.ImageH = 55, 20
	} else {
		mark.Lines = []string{logo.Name}
		mark.FontSize = 12
		mark.Bold = true
		mark.Align = AlignCenter
	}
	cells = append(cells,
		mark,
		header(Span{5, 1, 2, 1}, "Supplier No."),
		header(Span{7, 1, 2, 1}, "Job No."),
		header(Span{9, 1, 2, 1}, "Back No."),
		header(Span{11, 1, 2, 1}, "ID TMMIN"),
		textCell(Span{5, 2, 2, 1}, SupplierNo, 8, false, AlignCenter),
		textCell(Span{7, 2, 2, 1}, orDash(item.UniqueNo), 8, false, AlignCenter),
		textCell(Span{9, 2, 2, 1}, orDash(item.BackNo), 8, false, AlignCenter),
		textCell(Span{11, 2, 2, 1}, orDash(item.TmminID), 8, false, AlignCenter),
	)

	// Row 3: part number and QR captions
	cells = append(cells,
		caption(Span{1, 3, 2, 1}, "Part No"),
		textCell(Span{3, 3, 5, 1}, item.PartNo, 8, true, AlignLeft),
		blank(Span{8, 3, 1, 1}),
		textCell(Span{9, 3, 2, 1}, "QR CODE 1", 5, true, AlignCenter),
		textCell(Span{11, 3, 2, 1}, "QR CODE 2", 5, true, AlignCenter),
	)

	// Rows 4-11, columns 1-8
	cells = append(cells,
		caption(Span{1, 4, 2, 1}, "Part Name"),
		textCell(Span{3, 4, 5, 1}, item.DisplayDescription(), 8, true, AlignLeft),
		blank(Span{8, 4, 1, 1}),

		caption(Span{1, 5, 2, 1}, "Lot No"),
		textCell(Span{3, 5, 5, 1}, item.LotNo, 8, true, AlignLeft),
		blank(Span{8, 5, 1, 1}),

		caption(Span{1, 6, 2, 1}, "Operator Name"),
		blank(Span{3, 6, 1, 1}),
		blank(Span{4, 6, 3, 1}),
		textCell(Span{7, 6, 2, 1}, item.Model, 6, false, AlignCenter),

		caption(Span{1, 7, 2, 2}, "Date / Shift"),
		blank(Span{3, 7, 1, 2}),
		textCell(Span{4, 7, 3, 2}, item.Date, 7, false, AlignLeft),
		textCell(Span{7, 7, 1, 2}, "D", 6, false, AlignCenter),
		textCell(Span{8, 7, 1, 2}, "N", 6, false, AlignCenter),

		header(Span{1, 9, 2, 1}, "Status"),
		textCell(Span{3, 9, 2, 1}, "Qty [PCS]", 5, true, AlignCenter),
		header(Span{5, 9, 2, 1}, "Quality"),
		textCell(Span{7, 9, 2, 1}, "PIC Delivery", 5, true, AlignCenter),

		textCell(Span{1, 10, 2, 2}, "FG", 8, false, AlignCenter),
		textCell(Span{3, 10, 2, 2}, strconv.Itoa(item.Qty), 8, false, AlignCenter),
		textCell(Span{5, 10, 2, 2}, "OK / NG", 7, false, AlignCenter),
		blank(Span{7, 10, 2, 2}),
	)

	// Columns 9-10: shared order code
	cells = append(cells,
		codeCell(Span{9, 4, 2, 4}, qr1, qr1Side),
		textCell(Span{9, 8, 2, 1}, prodNo, 6, false, AlignCenter),
		textCell(Span{9, 9, 2, 1}, "Characteristics", 5, true, AlignCenter),
		textCell(Span{9, 10, 2, 2}, item.Karakteristik, 6, false, AlignCenter),
	)

	// Columns 11-12: per label print data
	cells = append(cells,
		Cell{
			Span:     Span{11, 4, 2, 2},
			Lines:    Wrap(item.PrintData, WrapWidth),
			FontSize: printDataFont,
			Align:    AlignLeft,
			Top:      true,
		},
		codeCell(Span{11, 6, 2, 6}, qr2, qr2Side),
	)

	return cells
}

// codeCell traces code into a QR cell. Anything that is not a readable PNG
// leaves the cell blank.
func codeCell(span Span, code GeneratedCode, side float64) Cell {
	cell := Cell{Span: span}
	if code.Blank() {
		return cell
	}
	modules, err := code.Modules()
	if err != nil {
		return cell
	}
	cell.Code = modules
	cell.ImageW, cell.ImageH = side, side
	return cell
}

// RenderLabel draws one label block at origin
func RenderLabel(pdf *gofpdf.Fpdf, tr func(string) string, origin Point, cells []Cell) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(GridLineWidth)
	for _, c := range cells {
		drawCell(pdf, tr, origin, c)
	}

	// Outer frame, inset so the stroke stays inside the label box
	pdf.SetLineWidth(BorderWidth)
	inset := BorderWidth / 2
	pdf.Rect(origin.X+inset, origin.Y+inset, LabelWidth-BorderWidth, LabelHeight-BorderWidth, "D")
	pdf.SetLineWidth(GridLineWidth)
}

func drawCell(pdf *gofpdf.Fpdf, tr func(string) string, origin Point, c Cell) {
	r := c.Span.Rect(origin)
	pdf.Rect(r.X, r.Y, r.W, r.H, "D")

	if c.Code != nil {
		drawModules(pdf, r, c)
		return
	}

	if len(c.ImagePNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(c.ImageName, opts, bytes.NewReader(c.ImagePNG))
		x := r.X + (r.W-c.ImageW)/2
		y := r.Y + (r.H-c.ImageH)/2
		pdf.ImageOptions(c.ImageName, x, y, c.ImageW, c.ImageH, false, opts, 0, "")
		return
	}

	if len(c.Lines) == 0 || (len(c.Lines) == 1 && c.Lines[0] == "") {
		return
	}

	style := ""
	if c.Bold {
		style = "B"
	}

	pdf.ClipRect(r.X, r.Y, r.W, r.H, false)
	defer pdf.ClipEnd()

	if c.Top {
		pdf.SetFont(fontFamily, style, c.FontSize)
		lineH := c.FontSize * lineHeightRatio
		for i, line := range c.Lines {
			pdf.SetXY(r.X+cellPadding, r.Y+printDataInset+float64(i)*lineH)
			pdf.CellFormat(r.W-2*cellPadding, lineH, tr(line), "", 0, string(c.Align)+"T", false, 0, "")
		}
		return
	}

	text := tr(c.Text())
	size := fitFontSize(pdf, style, c.FontSize, text, r.W-2*cellPadding)
	pdf.SetFont(fontFamily, style, size)
	pdf.SetXY(r.X, r.Y)
	pdf.CellFormat(r.W, r.H, text, "", 0, string(c.Align)+"M", false, 0, "")
}

// fitFontSize shrinks size until text fits into width, down to minFontSize
func fitFontSize(pdf *gofpdf.Fpdf, style string, size float64, text string, width float64) float64 {
	for size > minFontSize {
		pdf.SetFont(fontFamily, style, size)
		if pdf.GetStringWidth(text) <= width {
			return size
		}
		size -= 0.5
	}
	return minFontSize
}

// drawModules paints a QR module map centred in r. Vector fills keep the
// PDF free of per label image objects, whose catalog order gofpdf does not
// fix.
func drawModules(pdf *gofpdf.Fpdf, r Rect, c Cell) {
	if c.Code.Width == 0 || c.Code.Height == 0 {
		return
	}
	x := r.X + (r.W-c.ImageW)/2
	y := r.Y + (r.H-c.ImageH)/2
	sx := c.ImageW / float64(c.Code.Width)
	sy := c.ImageH / float64(c.Code.Height)

	pdf.SetFillColor(0, 0, 0)
	for _, m := range c.Code.Rects {
		pdf.Rect(x+float64(m.Min.X)*sx, y+float64(m.Min.Y)*sy, float64(m.Dx())*sx, float64(m.Dy())*sy, "F")
	}
}
