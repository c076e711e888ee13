package printer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPitchTilesLabel(t *testing.T) {
	assert.InDelta(t, LabelWidth, ColPitch*GridCols, 1e-9)
	assert.InDelta(t, LabelHeight, RowPitch*GridRows, 1e-9)

	full := Span{1, 1, GridCols, GridRows}.Rect(Point{})
	assert.InDelta(t, LabelWidth, full.W, 1e-9)
	assert.InDelta(t, LabelHeight, full.H, 1e-9)
}

func TestLabelOriginFitsPage(t *testing.T) {
	for slot := 0; slot < DefaultPageSize; slot++ {
		o := LabelOrigin(slot)
		if o.X < PagePadding || o.Y < PagePadding {
			t.Errorf("slot %d starts inside the page padding: %+v", slot, o)
		}
		if o.X+LabelWidth+LabelGutter > PageWidth-PagePadding+1e-9 {
			t.Errorf("slot %d overflows horizontally: %+v", slot, o)
		}
		if o.Y+LabelHeight > PageHeight-FooterInset-FooterFontSize*lineHeightRatio {
			t.Errorf("slot %d overlaps the footer: %+v", slot, o)
		}
	}

	// Neighbours never overlap and keep at least the gutter between them
	a, b := LabelOrigin(0), LabelOrigin(1)
	assert.Equal(t, a.Y, b.Y)
	assert.GreaterOrEqual(t, b.X-(a.X+LabelWidth), LabelGutter)

	c := LabelOrigin(2)
	assert.Equal(t, a.X, c.X)
	assert.True(t, math.Abs(c.Y-a.Y-(LabelHeight+LabelGutter)) < 1e-9)
}
