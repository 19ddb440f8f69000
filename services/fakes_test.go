package services

import (
	"context"
	"image"
	"image/color"

	"github.com/stretchr/testify/mock"

	"docsync/models"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	}
	return img
}

type stubPDF struct {
	calls int
	err   error
}

func (s *stubPDF) FirstPage(data []byte) (image.Image, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return testImage(20, 30), nil
}

type mockPreview struct {
	mock.Mock
}

func (m *mockPreview) Preview(ctx context.Context, files []*models.FileNode) (image.Image, error) {
	args := m.Called(ctx, files)
	img, _ := args.Get(0).(image.Image)
	return img, args.Error(1)
}

// sizedEncoder liefert quality*perQuality Bytes und merkt sich die angefragten Qualitäten.
type sizedEncoder struct {
	perQuality int
	qualities  []float32
}

func (e *sizedEncoder) Encode(img image.Image, quality float32) ([]byte, error) {
	e.qualities = append(e.qualities, quality)
	return make([]byte, int(quality)*e.perQuality), nil
}

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) NotPublished(ctx context.Context) ([]models.PendingFile, error) {
	args := m.Called(ctx)
	files, _ := args.Get(0).([]models.PendingFile)
	return files, args.Error(1)
}

func (m *mockBackend) Publish(ctx context.Context, ids []uint64) error {
	return m.Called(ctx, ids).Error(0)
}
