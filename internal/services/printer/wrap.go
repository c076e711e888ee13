package printer

const (
	// WrapWidth is the number of characters per print data line
	WrapWidth = 12
	// WrapMaxLines caps the wrapped print data; the rest is dropped
	WrapMaxLines = 4
)

// Wrap hard-splits text into lines of width characters, at most
// WrapMaxLines lines. Text that fits on one line, including the empty
// string, is returned unchanged as a single line.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = WrapWidth
	}

	runes := []rune(text)
	if len(runes) <= width {
		return []string{text}
	}

	lines := make([]string, 0, WrapMaxLines)
	for start := 0; start < len(runes) && len(lines) < WrapMaxLines; start += width {
		end := start + width
		if end > len(runes) {
			end = len(runes)
		}
		lines = append(lines, string(runes[start:end]))
	}
	return lines
}
