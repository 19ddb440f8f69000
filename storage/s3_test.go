package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/storage"
	"docsync/storage/storagetest"
)

func seeded(n int) *storagetest.FakeS3 {
	fake := storagetest.New()
	fake.PageSize = 2
	for i := 0; i < n; i++ {
		fake.Seed(fmt.Sprintf("%032d.pdf", i), []byte("x"))
	}
	return fake
}

func TestListAllPages(t *testing.T) {
	b := storage.NewBucket(seeded(5), "primary", nil)

	res, err := b.List(context.Background(), "", true)
	require.NoError(t, err)
	assert.False(t, res.Partial)
	require.Len(t, res.Objects, 5)
	assert.Equal(t, int64(1), res.Objects[0].Size)
}

func TestListPrefix(t *testing.T) {
	fake := seeded(3)
	fake.Seed("cover/a.jpg", []byte("jpg"))
	b := storage.NewBucket(fake, "primary", nil)

	res, err := b.List(context.Background(), "cover/", true)
	require.NoError(t, err)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "cover/a.jpg", res.Objects[0].Key)
}

func TestListBestEffort(t *testing.T) {
	fake := seeded(5)
	fake.FailListAfter = 1
	b := storage.NewBucket(fake, "primary", nil)

	res, err := b.List(context.Background(), "", false)
	require.NoError(t, err)
	assert.True(t, res.Partial)
	assert.Len(t, res.Objects, 2)
	assert.ErrorIs(t, res.Err, storagetest.ErrInjected)
}

func TestListStrict(t *testing.T) {
	fake := seeded(5)
	fake.FailListAfter = 1
	b := storage.NewBucket(fake, "primary", nil)

	res, err := b.List(context.Background(), "", true)
	assert.ErrorIs(t, err, storagetest.ErrInjected)
	require.NotNil(t, res)
	assert.True(t, res.Partial)
	assert.Len(t, res.Objects, 2)
	assert.ErrorIs(t, res.Err, storagetest.ErrInjected)
}

func TestPutGetDelete(t *testing.T) {
	fake := storagetest.New()
	b := storage.NewBucket(fake, "primary", nil)
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "metadata2.json", []byte("[]"), "application/json"))
	assert.Equal(t, "application/json", fake.ContentTypes["metadata2.json"])

	data, err := b.Get(ctx, "metadata2.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, b.Delete(ctx, "metadata2.json"))
	_, err = b.Get(ctx, "metadata2.json")
	assert.Error(t, err)
}
