package services

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func zipOf(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: n, Method: zip.Store})
		require.NoError(t, err)
		if n[len(n)-1] != '/' {
			_, err = w.Write([]byte("x"))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestBuildTree(t *testing.T) {
	data := zipOf(t,
		"docs/",
		"docs/a.pdf",
		"docs/sub/b.txt",
		"__MACOSX/docs/._a.pdf",
		".DS_Store",
		"docs/~$lock.docx",
		"docs/.hidden/c.txt",
		"readme.txt",
		"empty/",
	)
	tree, err := BuildTree(data)
	require.NoError(t, err)

	out, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `[
	  {"type":"folder","name":"docs","children":[
	    {"type":"file","name":"a.pdf"},
	    {"type":"folder","name":"sub","children":[{"type":"file","name":"b.txt"}]}
	  ]},
	  {"type":"file","name":"readme.txt"},
	  {"type":"folder","name":"empty","children":[]}
	]`, string(out))
}

func TestBuildTreeGB18030(t *testing.T) {
	name, err := simplifiedchinese.GB18030.NewEncoder().String("试卷/答案.pdf")
	require.NoError(t, err)

	tree, err := BuildTree(zipOf(t, name))
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "试卷", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "答案.pdf", tree[0].Children[0].Name)
}

func TestBuildTreeUTF8(t *testing.T) {
	tree, err := BuildTree(zipOf(t, "高等数学.pdf"))
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "高等数学.pdf", tree[0].Name)
}

func TestBuildTreeConflict(t *testing.T) {
	_, err := BuildTree(zipOf(t, "x", "x/y.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both file and folder")
}

func TestBuildTreeEmptyAndInvalid(t *testing.T) {
	tree, err := BuildTree(zipOf(t))
	require.NoError(t, err)
	assert.Empty(t, tree)

	_, err = BuildTree([]byte("not a zip"))
	assert.Error(t, err)
}
