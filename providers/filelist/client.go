// Package filelist ist der Client für den Dienst, der aus einem Zip-Dateibaum ein Vorschaubild rendert.
package filelist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"docsync/models"
	"docsync/providers"
)

// Maße der Vorschau, wie sie der Dienst erwartet.
const (
	PreviewHeight   = 425
	PreviewWidth    = 300
	PreviewFontSize = 14
)

type previewRequest struct {
	Height   int                `json:"height"`
	Width    int                `json:"width"`
	FontSize int                `json:"fontSize"`
	Files    []*models.FileNode `json:"files"`
}

type Client struct {
	httpClient *http.Client
	url        string
}

func NewClient(url string) *Client {
	return &Client{
		httpClient: providers.NewHTTPClient("", 60*time.Second),
		url:        url,
	}
}

// Preview sendet den Dateibaum und dekodiert das zurückgegebene Bild (PNG oder JPEG).
func (c *Client) Preview(ctx context.Context, files []*models.FileNode) (image.Image, error) {
	buf, err := json.Marshal(previewRequest{
		Height:   PreviewHeight,
		Width:    PreviewWidth,
		FontSize: PreviewFontSize,
		Files:    files,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("request preview: unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	return img, nil
}
