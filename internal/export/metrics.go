package export

import (
	"sync"

	"github.com/jung-kurt/gofpdf"
)

var (
	metricsMu  sync.Mutex
	metricsPdf *gofpdf.Fpdf
)

// TextWidth returns the width in millimetres text takes when drawn in the
// document font. It matches render.TextWidthFunc.
func TextWidth(text string, size float64, bold bool) float64 {
	encoded, err := encodeText(text)
	if err != nil {
		// Serialize rejects this text anyway
		encoded = text
	}

	style := ""
	if bold {
		style = "B"
	}

	metricsMu.Lock()
	defer metricsMu.Unlock()

	if metricsPdf == nil {
		metricsPdf = gofpdf.New("P", "mm", "A4", "")
	}
	metricsPdf.SetFont(fontFamily, style, size)
	return metricsPdf.GetStringWidth(encoded)
}
