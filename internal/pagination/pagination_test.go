package pagination

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID        string
	CreatedAt time.Time
}

type sliceSource struct {
	items []item
	err   error
}

func (s *sliceSource) Boundary(_ context.Context, cursor string) (*Key, error) {
	for _, it := range s.items {
		if it.ID == cursor {
			return &Key{CreatedAt: it.CreatedAt, ID: it.ID}, nil
		}
	}
	return nil, nil
}

func (s *sliceSource) After(_ context.Context, after *Key, limit int) ([]item, error) {
	if s.err != nil {
		return nil, s.err
	}
	sorted := append([]item(nil), s.items...)
	sort.Slice(sorted, func(i, j int) bool {
		return Key{sorted[i].CreatedAt, sorted[i].ID}.Precedes(Key{sorted[j].CreatedAt, sorted[j].ID})
	})
	out := make([]item, 0, limit)
	for _, it := range sorted {
		if after != nil && !(Key{it.CreatedAt, it.ID}).Follows(*after) {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func newEngine(items []item) *Engine[item] {
	return NewEngine[item](&sliceSource{items: items}, func(it item) string { return it.ID })
}

func seed(n int) []item {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, item{ID: fmt.Sprintf("id-%02d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	return items
}

func ids(items []item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFifteenItemsSplitIntoTwoPages(t *testing.T) {
	engine := newEngine(seed(15))
	ctx := context.Background()

	first, err := engine.Page(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	assert.True(t, first.HasMore)
	assert.Equal(t, "id-14", first.Items[0].ID)
	assert.Equal(t, first.Items[9].ID, first.NextCursor)

	second, err := engine.Page(ctx, first.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 5)
	assert.False(t, second.HasMore)
	assert.Empty(t, second.NextCursor)
	assert.Equal(t, []string{"id-04", "id-03", "id-02", "id-01", "id-00"}, ids(second.Items))

	seen := map[string]bool{}
	for _, id := range append(ids(first.Items), ids(second.Items)...) {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 15)
}

func TestEqualTimestampsOrderedByIDDescending(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var items []item
	for i := 0; i < 12; i++ {
		items = append(items, item{ID: fmt.Sprintf("k-%02d", i), CreatedAt: ts})
	}
	engine := newEngine(items)

	for run := 0; run < 3; run++ {
		first, err := engine.Page(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "k-11", first.Items[0].ID)
		assert.Equal(t, "k-02", first.NextCursor)

		second, err := engine.Page(context.Background(), first.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, []string{"k-01", "k-00"}, ids(second.Items))
	}
}

func TestStaleCursorRestartsFromNewest(t *testing.T) {
	engine := newEngine(seed(3))

	page, err := engine.Page(context.Background(), "deleted-item")
	require.NoError(t, err)
	assert.Equal(t, []string{"id-02", "id-01", "id-00"}, ids(page.Items))
	assert.False(t, page.HasMore)
}

func TestExactlyOnePageHasNoCursor(t *testing.T) {
	page, err := newEngine(seed(PageSize)).Page(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, page.Items, PageSize)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestEmptyCollection(t *testing.T) {
	page, err := newEngine(nil).Page(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestStorageErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	engine := NewEngine[item](&sliceSource{err: boom}, func(it item) string { return it.ID })

	_, err := engine.Page(context.Background(), "")
	assert.ErrorIs(t, err, boom)
}
