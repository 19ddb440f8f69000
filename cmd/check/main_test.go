package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docsync/metadata"
	"docsync/models"
	"docsync/storage"
	"docsync/storage/storagetest"
)

func docYAML(id string) string {
	return fmt.Sprintf(`id: %[1]s
url: https://byrdocs.org/files/%[1]s.pdf
type: doc
data:
  title: 复习提纲
  filetype: pdf
  course:
    - type: undergraduate
      name: 概率论
  content: [key-points]
`, id)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--dir", "meta", "--remote"})
	require.NoError(t, err)
	assert.Equal(t, "meta", opts.dir)
	assert.True(t, opts.remote)

	_, err = parseFlags(nil)
	assert.Error(t, err)
}

func TestRunLocal(t *testing.T) {
	dir := t.TempDir()
	good := strings.Repeat("a", 32)
	require.NoError(t, os.WriteFile(filepath.Join(dir, good+".yml"), []byte(docYAML(good)), 0o644))

	var out bytes.Buffer
	code := run(context.Background(), &options{dir: dir}, zap.NewNop(), &out)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Total: 1, Success: 1, Book: 0, Test: 0, Doc: 1\n", out.String())

	bad := strings.Repeat("b", 32)
	require.NoError(t, os.WriteFile(filepath.Join(dir, bad+".yml"), []byte(docYAML(good)), 0o644))
	out.Reset()
	code = run(context.Background(), &options{dir: dir}, zap.NewNop(), &out)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), bad+".yml: filename")
	assert.Contains(t, out.String(), "Total: 2, Success: 1")
}

type staticPending []models.PendingFile

func (s staticPending) NotPublished(context.Context) ([]models.PendingFile, error) { return s, nil }

func TestRemoteVerify(t *testing.T) {
	dir := t.TempDir()
	content := []byte("%PDF remote")
	good := metadata.ContentHash(content)
	tampered := strings.Repeat("c", 32)
	published := strings.Repeat("d", 32)
	for _, id := range []string{good, tampered, published} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".yml"), []byte(docYAML(id)), 0o644))
	}

	fake := storagetest.New()
	fake.Seed(good+".pdf", content)
	fake.Seed(tampered+".pdf", []byte("not matching"))
	fake.Seed(published+".pdf", []byte("whatever"))

	remote, err := loadRemote(context.Background(), storage.NewBucket(fake, "primary", nil), staticPending{
		{ID: 1, FileName: good + ".pdf", Status: models.StatusUploaded},
		{ID: 2, FileName: tampered + ".pdf", Status: models.StatusUploaded},
		{ID: 3, FileName: published + ".pdf", Status: models.StatusPublished},
	}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, remote.inventory.Has(good+".pdf"))

	v := metadata.NewValidator(metadata.NewISBNRegistry(), "byrdocs.org", metadata.WithInventory(remote.inventory))
	report, err := v.CheckDir(dir)
	require.NoError(t, err)
	require.Equal(t, 3, report.Success())

	remote.apply(context.Background(), report)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, tampered+".yml", report.Failures[0].File)
	var cerr *metadata.ConsistencyError
	require.ErrorAs(t, report.Failures[0].Err, &cerr)
	assert.Equal(t, metadata.MismatchHash, cerr.Kind)
	assert.Equal(t, "Total: 3, Success: 2, Book: 0, Test: 0, Doc: 2", report.Summary())
	assert.Error(t, report.Err())
}
