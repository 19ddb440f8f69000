package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/models"
)

func TestMergeCatalog(t *testing.T) {
	a, b, c := hexID("a"), hexID("b"), hexID("c")
	records := []*models.DocumentRecord{
		{ID: c, URL: "https://byrdocs.org/files/" + c + ".zip", Type: models.TypeDoc, Doc: &models.Doc{
			Title: "思维导图", Filetype: "zip", Course: []models.Course{{Name: "线性代数"}}, Content: []string{"mind-map"},
		}},
		{ID: a, URL: "https://byrdocs.org/files/" + a + ".pdf", Type: models.TypeBook, Book: &models.Book{
			Title: "计算机网络", Authors: []string{"谢希仁"}, ISBN: []string{"9787111407720", "9780306406157", "9786600000008"}, Filetype: "pdf",
		}},
		{ID: b, URL: "https://byrdocs.org/files/" + b + ".pdf", Type: models.TypeTest, Test: &models.Test{
			Title: "期末", Time: models.TimeRange{Start: "2021", End: "2022"}, Filetype: "pdf", Content: []string{"answer"},
		}},
	}
	inv := models.NewInventory([]models.ObjectRecord{
		{Key: a + ".pdf", Size: 1000},
		{Key: c + ".zip", Size: 3000},
	})

	data, err := MergeCatalog(records, inv, nil)
	require.NoError(t, err)

	var out []struct {
		ID   string         `json:"id"`
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 3)

	assert.Equal(t, []string{a, b, c}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.EqualValues(t, 1000, out[0].Data["filesize"])
	assert.Equal(t, []any{"978-7-111-40772-0", "978-0-306-40615-7", "9786600000008"}, out[0].Data["isbn"])
	assert.NotContains(t, out[1].Data, "filesize", "no matching object")
	assert.EqualValues(t, 3000, out[2].Data["filesize"])
	assert.Equal(t, "doc", out[2].Type)
}

func TestMergeCatalogEmpty(t *testing.T) {
	data, err := MergeCatalog(nil, models.NewInventory(nil), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
