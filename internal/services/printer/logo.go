package printer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// LoadLogo reads the company mark from path. An empty path yields a
// text-only logo showing name; on error the text-only logo is returned too.
func LoadLogo(path, name string) (Logo, error) {
	logo := Logo{Name: name}
	if path == "" {
		return logo, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return logo, fmt.Errorf("read logo: %w", err)
	}
	if err := checkEmbeddable(data); err != nil {
		return logo, fmt.Errorf("logo %s: %w", path, err)
	}
	logo.PNG = data
	return logo, nil
}

// checkEmbeddable parses data the way Render will. gofpdf rejects PNGs the
// image package accepts, such as 16-bit or interlaced files.
func checkEmbeddable(data []byte) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.RegisterImageOptionsReader("logo", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
	return pdf.Error()
}
