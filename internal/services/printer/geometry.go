package printer

// Label template geometry in PDF points. The 100mm x 60mm physical label
// (283.46 x 170.08 pt) is rounded to 288 x 161 so the 12 x 11 grid has
// convenient pitches.
const (
	LabelWidth  = 288.0
	LabelHeight = 161.0
	GridCols    = 12
	GridRows    = 11
	ColPitch    = LabelWidth / GridCols
	RowPitch    = LabelHeight / GridRows

	BorderWidth   = 2.0 // outer frame, drawn inside the label box
	GridLineWidth = 1.0
	LabelGutter   = 2.0 // spacing right of and below every label

	// A4 portrait
	PageWidth   = 595.28
	PageHeight  = 841.89
	PagePadding = 6.0

	LabelsPerRow    = 2
	LabelRowsOnPage = 5
	DefaultPageSize = LabelsPerRow * LabelRowsOnPage

	FooterInset    = 10.0
	FooterFontSize = 8.0
)

// Point is a position on the page
type Point struct {
	X, Y float64
}

// Rect is an axis aligned rectangle on the page
type Rect struct {
	X, Y, W, H float64
}

// Span is a merged block of grid cells. Col and Row are 1-based.
type Span struct {
	Col, Row, Cols, Rows int
}

// Area returns the number of grid units covered
func (s Span) Area() int {
	return s.Cols * s.Rows
}

// Rect positions the span relative to the label origin
func (s Span) Rect(origin Point) Rect {
	return Rect{
		X: origin.X + float64(s.Col-1)*ColPitch,
		Y: origin.Y + float64(s.Row-1)*RowPitch,
		W: float64(s.Cols) * ColPitch,
		H: float64(s.Rows) * RowPitch,
	}
}

// Valid reports whether the span lies within the label grid
func (s Span) Valid() bool {
	return s.Col >= 1 && s.Row >= 1 && s.Cols >= 1 && s.Rows >= 1 &&
		s.Col+s.Cols-1 <= GridCols && s.Row+s.Rows-1 <= GridRows
}

// LabelOrigin returns the top-left corner of the label at slot on a page.
// Labels flow left to right, top to bottom; the second column is pushed
// against the right content edge.
func LabelOrigin(slot int) Point {
	col := slot % LabelsPerRow
	row := slot / LabelsPerRow

	x := PagePadding
	if col == LabelsPerRow-1 {
		x = PageWidth - PagePadding - (LabelWidth + LabelGutter)
	}
	return Point{
		X: x,
		Y: PagePadding + float64(row)*(LabelHeight+LabelGutter),
	}
}
