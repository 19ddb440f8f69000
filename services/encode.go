package services

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// WebPEncoder kodiert ein Bild mit der gegebenen Qualität (0..100).
type WebPEncoder interface {
	Encode(img image.Image, quality float32) ([]byte, error)
}

// ChaiWebP nutzt libwebp über github.com/chai2010/webp.
type ChaiWebP struct{}

func (ChaiWebP) Encode(img image.Image, quality float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	minWebPQuality = 5
	maxWebPQuality = 100
)

// EncodeWithinBudget kodiert mit Qualität 100. Ist das Ergebnis größer als budget, wird
// genau einmal mit q = target/size*100 (begrenzt auf 5..100) neu kodiert und das Ergebnis
// ohne weitere Prüfung übernommen.
func EncodeWithinBudget(enc WebPEncoder, img image.Image, budget, target int) ([]byte, float32, error) {
	data, err := enc.Encode(img, maxWebPQuality)
	if err != nil {
		return nil, 0, err
	}
	if len(data) <= budget {
		return data, maxWebPQuality, nil
	}

	q := int(float64(target) / float64(len(data)) * 100)
	if q < minWebPQuality {
		q = minWebPQuality
	}
	if q > maxWebPQuality {
		q = maxWebPQuality
	}
	data, err = enc.Encode(img, float32(q))
	if err != nil {
		return nil, 0, err
	}
	return data, float32(q), nil
}

// EncodeJPEG kodiert als JPEG mit der gegebenen Qualität.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
