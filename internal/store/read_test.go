package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lexid"
)

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), lexid.FromFields(1, 1, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	rec := createTestRecord(-7, -1, 99, "neg")

	_, err := s.Write(ctx, rec)
	require.NoError(t, err)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "neg", got.Label)
	assert.True(t, got.CreatedAt.Equal(fixedNow))
}

func TestList_CreationOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Written out of order; listed by timestamp.
	for _, ts := range []int64{30, 10, 1 << 33, 20} {
		_, err := s.Write(ctx, createTestRecord(ts, 0, 1, ""))
		require.NoError(t, err)
	}

	recs, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 4)

	var got []int64
	for _, r := range recs {
		got = append(got, r.ID.Timestamp)
	}
	assert.Equal(t, []int64{10, 20, 30, 1 << 33}, got)
}

func TestList_KeysetPagination(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for ts := int64(1); ts <= 5; ts++ {
		_, err := s.Write(ctx, createTestRecord(ts, 0, 1, ""))
		require.NoError(t, err)
	}

	page1, err := s.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, int64(2), page1[1].ID.Timestamp)

	page2, err := s.List(ctx, ListOptions{After: page1[1].ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, int64(3), page2[0].ID.Timestamp)

	page3, err := s.List(ctx, ListOptions{After: page2[1].ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page3, 1)

	page4, err := s.List(ctx, ListOptions{After: page3[0].ID})
	require.NoError(t, err)
	assert.NotNil(t, page4)
	assert.Empty(t, page4)
}

func TestList_ByLabel(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteBatch(ctx, []Record{
		createTestRecord(1, 0, 1, "orders"),
		createTestRecord(2, 0, 1, "users"),
		createTestRecord(3, 0, 1, "orders"),
	})
	require.NoError(t, err)

	recs, err := s.List(ctx, ListOptions{Label: "orders"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, "orders", r.Label)
	}
}

func TestLatest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.Latest(ctx, 7)
	require.NoError(t, err)
	assert.True(t, id.IsNil())

	_, err = s.WriteBatch(ctx, []Record{
		createTestRecord(100, 0, 7, ""),
		createTestRecord(300, 0, 7, ""),
		createTestRecord(200, 0, 7, ""),
		createTestRecord(900, 0, 8, ""),
	})
	require.NoError(t, err)

	id, err = s.Latest(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(300), id.Timestamp)
}

func TestCountLabel(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteBatch(ctx, []Record{
		createTestRecord(1, 0, 1, "orders"),
		createTestRecord(2, 0, 1, "users"),
		createTestRecord(3, 0, 1, "orders"),
		createTestRecord(4, 0, 1, ""),
	})
	require.NoError(t, err)

	n, err := s.CountLabel(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.CountLabel(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
