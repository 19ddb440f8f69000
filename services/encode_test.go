package services

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWithinBudgetSmall(t *testing.T) {
	enc := &sizedEncoder{perQuality: 100}
	data, q, err := EncodeWithinBudget(enc, testImage(4, 4), 51200, 49152)
	require.NoError(t, err)
	assert.Len(t, data, 10000)
	assert.Equal(t, float32(100), q)
	assert.Equal(t, []float32{100}, enc.qualities)
}

func TestEncodeWithinBudgetReencodesOnce(t *testing.T) {
	enc := &sizedEncoder{perQuality: 1000}
	data, q, err := EncodeWithinBudget(enc, testImage(4, 4), 51200, 49152)
	require.NoError(t, err)
	// 49152/100000*100 = 49.152
	assert.Equal(t, float32(49), q)
	assert.Len(t, data, 49000)
	assert.Equal(t, []float32{100, 49}, enc.qualities)
}

func TestEncodeWithinBudgetClampsLow(t *testing.T) {
	enc := &sizedEncoder{perQuality: 20000}
	data, q, err := EncodeWithinBudget(enc, testImage(4, 4), 51200, 49152)
	require.NoError(t, err)
	assert.Equal(t, float32(5), q)
	// Ergebnis wird übernommen, auch wenn es das Budget noch überschreitet.
	assert.Len(t, data, 100000)
	assert.Len(t, enc.qualities, 2)
}

func TestEncodeJPEG(t *testing.T) {
	data, err := EncodeJPEG(testImage(10, 6), 85)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}
