package docgen

import "strings"

// Page dimensions in CSS pixels at 96dpi (US Letter).
const (
	PageWidth  = 816
	PageHeight = 1056
)

// approximate average glyph width as a fraction of the font size, for
// serif faces at certificate sizes
const glyphWidthFactor = 0.52

// WrapText greedily word-wraps text so that no line exceeds maxWidth at
// the given font size. Blank input paragraphs are preserved as empty lines.
func WrapText(text string, fontSize float64, maxWidth float64) []string {
	var lines []string

	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, "")
			continue
		}

		var current string
		for _, word := range strings.Fields(para) {
			test := word
			if current != "" {
				test = current + " " + word
			}
			if textWidth(test, fontSize) > maxWidth && current != "" {
				lines = append(lines, current)
				current = word
			} else {
				current = test
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}

	return lines
}

// FitFontSize shrinks fontSize until the wrapped text fits within maxLines,
// never going below minSize.
func FitFontSize(text string, fontSize, minSize, maxWidth float64, maxLines int) float64 {
	for fontSize > minSize {
		if len(WrapText(text, fontSize, maxWidth)) <= maxLines {
			return fontSize
		}
		fontSize--
	}
	return minSize
}

// CenterOffset returns the x position that centers a line of the given
// width inside the page.
func CenterOffset(lineWidth float64) float64 {
	return (PageWidth - lineWidth) / 2
}

func textWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * glyphWidthFactor
}

// TitleFontSize picks the certificate title size from the title length.
func TitleFontSize(titleLen int) int {
	switch {
	case titleLen <= 60:
		return 26
	case titleLen <= 100:
		return 22
	case titleLen <= 150:
		return 19
	case titleLen <= 200:
		return 17
	default:
		return 15
	}
}

// AuthorNameFontSize picks the script-face author name size.
func AuthorNameFontSize(nameLen int) int {
	switch {
	case nameLen <= 15:
		return 34
	case nameLen <= 25:
		return 30
	case nameLen <= 35:
		return 26
	default:
		return 22
	}
}

// ReviewerNameFontSize picks the display name size on reviewer certificates.
// Reviewer certificates carry the name much larger than publication ones.
func ReviewerNameFontSize(nameLen int) int {
	switch {
	case nameLen <= 15:
		return 80
	case nameLen <= 25:
		return 66
	case nameLen <= 35:
		return 54
	default:
		return 44
	}
}
