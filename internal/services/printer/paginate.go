package printer

import (
	"fmt"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/models"
)

// footerTimeLayout matches the Indonesian locale date and time style
const footerTimeLayout = "02/01/2006 15.04.05"

// Label is a label record enriched with its two generated codes
type Label struct {
	Record models.LabelRecord
	QR1    GeneratedCode
	QR2    GeneratedCode
}

// Page is an ordered group of at most DefaultPageSize labels
type Page struct {
	Index  int
	Labels []Label
}

// Paginate partitions labels into pages of pageSize preserving order.
// An empty input still yields one empty page.
func Paginate(labels []Label, pageSize int) []Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	pages := make([]Page, 0, len(labels)/pageSize+1)
	for start := 0; start < len(labels); start += pageSize {
		end := start + pageSize
		if end > len(labels) {
			end = len(labels)
		}
		pages = append(pages, Page{Index: len(pages), Labels: labels[start:end]})
	}

	if len(pages) == 0 {
		pages = append(pages, Page{Index: 0})
	}
	return pages
}

// FooterText returns the left and right footer strings of a page
func FooterText(generatedAt time.Time, pageIndex, totalPages int) (string, string) {
	return "Printed at " + generatedAt.Format(footerTimeLayout),
		fmt.Sprintf("%d/%d", pageIndex+1, totalPages)
}
