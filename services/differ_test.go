package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"docsync/models"
)

func hexID(c string) string { return strings.Repeat(c, 32) }

func TestNeedsCover(t *testing.T) {
	a, b, c, d := hexID("a"), hexID("b"), hexID("c"), hexID("d")
	inv := models.NewInventory([]models.ObjectRecord{
		{Key: a + ".pdf"}, {Key: a + ".jpg"}, {Key: a + ".webp"},
		{Key: b + ".pdf"}, {Key: b + ".jpg"},
		{Key: c + ".zip"},
		{Key: d + ".pdf"},
		{Key: "metadata2.json"},
		{Key: "notahash.pdf"},
	})
	pending := []models.PendingFile{{ID: 4, FileName: d + ".pdf"}}

	assert.Equal(t, []string{b, c}, NeedsCover(inv, pending))

	reqs := Requirements(inv, pending)
	assert.Equal(t, []models.ArtifactRequirement{
		{ID: b, NeedsJPG: false, NeedsWebP: true},
		{ID: c, NeedsJPG: true, NeedsWebP: true},
	}, reqs)
}

func TestNeedsCoverIdempotent(t *testing.T) {
	a, b := hexID("a"), hexID("b")
	objects := []models.ObjectRecord{{Key: b + ".pdf"}, {Key: a + ".zip"}}
	inv := models.NewInventory(objects)

	first := NeedsCover(inv, nil)
	assert.Equal(t, first, NeedsCover(inv, nil))
	assert.Equal(t, []string{a, b}, first)

	for _, id := range first {
		objects = append(objects, models.ObjectRecord{Key: id + ".jpg"}, models.ObjectRecord{Key: id + ".webp"})
	}
	assert.Empty(t, NeedsCover(models.NewInventory(objects), nil))
}

func TestNeedsCoverCoversWithoutRaw(t *testing.T) {
	a := hexID("a")
	inv := models.NewInventory([]models.ObjectRecord{{Key: a + ".jpg"}, {Key: a + ".webp"}})
	assert.Empty(t, NeedsCover(inv, nil))
}
