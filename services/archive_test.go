package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/storage"
	"docsync/storage/storagetest"
)

func TestArchiveRotatesSnapshots(t *testing.T) {
	fake := storagetest.New()
	fake.Seed("snapshots/other-20200101T000000Z.json.gz", []byte("keep me"))
	a := NewArchiver(storage.NewBucket(fake, "archive", nil), "metadata2.json", 2, nil)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		now := base.Add(time.Duration(i) * time.Hour)
		a.now = func() time.Time { return now }
		require.NoError(t, a.Archive(context.Background(), []byte(`[{"id":"x"}]`)))
	}

	catalog, ok := fake.Object("metadata2.json")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"x"}]`, string(catalog))
	assert.Equal(t, "application/json", fake.ContentTypes["metadata2.json"])

	var snapshots []string
	for k := range fake.Objects {
		if strings.HasPrefix(k, "snapshots/metadata2-") {
			snapshots = append(snapshots, k)
		}
	}
	assert.ElementsMatch(t, []string{
		"snapshots/metadata2-20240501T140000Z.json.gz",
		"snapshots/metadata2-20240501T150000Z.json.gz",
	}, snapshots)
	_, ok = fake.Object("snapshots/other-20200101T000000Z.json.gz")
	assert.True(t, ok, "snapshots of other keys are untouched")

	gz, _ := fake.Object("snapshots/metadata2-20240501T150000Z.json.gz")
	zr, err := gzip.NewReader(bytes.NewReader(gz))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, string(plain))
}

func TestArchiveWithoutSnapshots(t *testing.T) {
	fake := storagetest.New()
	a := NewArchiver(storage.NewBucket(fake, "archive", nil), "metadata2.json", 0, nil)
	require.NoError(t, a.Archive(context.Background(), []byte(`[]`)))
	assert.Len(t, fake.Objects, 1)
}

func TestArchivePutFailure(t *testing.T) {
	fake := storagetest.New()
	fake.FailPut["metadata2.json"] = 1
	a := NewArchiver(storage.NewBucket(fake, "archive", nil), "metadata2.json", 2, nil)

	err := a.Archive(context.Background(), []byte(`[]`))
	assert.ErrorIs(t, err, storagetest.ErrInjected)
	assert.Len(t, fake.Objects, 0)
}
