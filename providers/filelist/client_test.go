package filelist

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/models"
)

func TestPreview(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		img := image.NewRGBA(image.Rect(0, 0, PreviewWidth, PreviewHeight))
		img.Set(1, 1, color.White)
		w.Header().Set("Content-Type", "image/png")
		assert.NoError(t, png.Encode(w, img))
	}))
	defer srv.Close()

	files := []*models.FileNode{
		{Type: models.NodeFolder, Name: "docs", Children: []*models.FileNode{{Type: models.NodeFile, Name: "a.pdf"}}},
	}
	img, err := NewClient(srv.URL).Preview(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, PreviewWidth, img.Bounds().Dx())
	assert.Equal(t, PreviewHeight, img.Bounds().Dy())

	assert.EqualValues(t, 425, got["height"])
	assert.EqualValues(t, 300, got["width"])
	assert.EqualValues(t, 14, got["fontSize"])
	require.Len(t, got["files"], 1)
}

func TestPreviewServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "render failed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Preview(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestPreviewNotAnImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Preview(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode preview")
}
