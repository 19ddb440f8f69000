package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "0123456789abcdef0123456789abcdef"

func TestDocumentRecordMarshalJSON(t *testing.T) {
	size := int64(1024)
	rec := DocumentRecord{
		ID:   testID,
		URL:  "https://byrdocs.org/files/" + testID + ".pdf",
		Type: TypeBook,
		Book: &Book{
			Title:    "Linear Algebra",
			Authors:  []string{"A"},
			ISBN:     []string{"978-7-111-40772-0"},
			Filetype: "pdf",
		},
	}
	rec.SetFilesize(&size)

	out, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "book", decoded["type"])
	data := decoded["data"].(map[string]any)
	assert.Equal(t, float64(1024), data["filesize"])
	assert.Equal(t, []any{"978-7-111-40772-0"}, data["isbn"])
}

func TestDocumentRecordWithoutPayload(t *testing.T) {
	_, err := json.Marshal(DocumentRecord{ID: testID, Type: TypeTest})
	assert.Error(t, err)
}

func TestObjectRecordID(t *testing.T) {
	assert.Equal(t, testID, ObjectRecord{Key: testID + ".pdf"}.ID())
	assert.Equal(t, "pdf", ObjectRecord{Key: testID + ".PDF"}.Ext())
	assert.Equal(t, "", ObjectRecord{Key: "readme.txt"}.ID())
}

func TestInventoryLookup(t *testing.T) {
	inv := NewInventory([]ObjectRecord{{Key: "b.pdf", Size: 2}, {Key: "a.zip", Size: 1}})
	size, ok := inv.Size("b.pdf")
	assert.True(t, ok)
	assert.Equal(t, int64(2), size)
	assert.False(t, inv.Has("c.pdf"))
	assert.Equal(t, []string{"a.zip", "b.pdf"}, inv.Keys())
}

func TestFileStatusUnmarshal(t *testing.T) {
	var f PendingFile
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"fileName":"`+testID+`.pdf","status":"Pending"}`), &f))
	assert.Equal(t, StatusPending, f.Status)
	assert.Equal(t, testID, f.ContentID())

	err := json.Unmarshal([]byte(`{"id":7,"status":"Lost"}`), &f)
	assert.ErrorContains(t, err, "unknown file status")
}

func TestFileNodeMarshal(t *testing.T) {
	tree := []*FileNode{
		{Type: NodeFolder, Name: "empty"},
		{Type: NodeFile, Name: "a.txt"},
	}
	out, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"folder","name":"empty","children":[]},{"type":"file","name":"a.txt"}]`, string(out))
}
