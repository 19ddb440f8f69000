package services

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOdd = errors.New("odd")

func TestRunBatchAllSucceed(t *testing.T) {
	var calls atomic.Int32
	err := RunBatch(context.Background(), []int{1, 2, 3}, 1, strconv.Itoa, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	assert.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRunBatchFailAtEnd(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	var calls atomic.Int32
	err := RunBatch(context.Background(), items, 3, strconv.Itoa, func(_ context.Context, n int) error {
		calls.Add(1)
		if n%2 == 1 {
			return errOdd
		}
		return nil
	})
	require.Error(t, err)
	assert.EqualValues(t, 5, calls.Load(), "every item is attempted")

	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 5, be.Attempted)
	assert.Equal(t, 3, be.Failed)
	assert.ErrorIs(t, err, errOdd)

	errs := be.Errors()
	require.Len(t, errs, 3)
	var names []string
	for _, e := range errs {
		var ie *ItemError
		require.ErrorAs(t, e, &ie)
		names = append(names, ie.Item)
	}
	assert.Equal(t, []string{"1", "3", "5"}, names)
}

func TestRunBatchEmpty(t *testing.T) {
	assert.NoError(t, RunBatch(context.Background(), []string(nil), 0, func(s string) string { return s },
		func(context.Context, string) error { return errOdd }))
}
