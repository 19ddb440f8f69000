// Package render rastert die erste Seite eines PDFs zu einem Coverbild.
package render

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// pointsPerInch: Seitenmaße liefert MuPDF in Punkten (72 dpi).
const pointsPerInch = 72.0

// PDFRenderer rendert auf Zielbreite Width, die Höhe ist auf MaxHeight begrenzt.
// Querformatige Seiten werden um 90° im Uhrzeigersinn gedreht.
type PDFRenderer struct {
	Width     int
	MaxHeight int
}

func NewPDFRenderer(width, maxHeight int) *PDFRenderer {
	return &PDFRenderer{Width: width, MaxHeight: maxHeight}
}

// FirstPage öffnet das PDF aus dem Speicher und rendert Seite 0.
func (r *PDFRenderer) FirstPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return nil, fmt.Errorf("pdf has no pages")
	}
	bounds, err := doc.Bound(0)
	if err != nil {
		return nil, fmt.Errorf("page bounds: %w", err)
	}

	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	landscape := IsLandscape(w, h)
	if landscape {
		w, h = h, w
	}
	scale := Scale(w, h, r.Width, r.MaxHeight)
	if scale <= 0 {
		return nil, fmt.Errorf("page has empty bounds %v", bounds)
	}

	img, err := doc.ImageDPI(0, scale*pointsPerInch)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return Orient(img, landscape), nil
}

// Scale liefert den Faktor, mit dem eine Seite w×h auf width skaliert wird, ohne maxHeight zu überschreiten.
func Scale(w, h float64, width, maxHeight int) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	scale := float64(width) / w
	if maxHeight > 0 && h*scale > float64(maxHeight) {
		scale = float64(maxHeight) / h
	}
	return scale
}

func IsLandscape(w, h float64) bool { return w > h }

// Orient dreht ein Querformat-Bild um 90° im Uhrzeigersinn.
func Orient(img image.Image, landscape bool) image.Image {
	if !landscape {
		return img
	}
	return imaging.Rotate270(img)
}
