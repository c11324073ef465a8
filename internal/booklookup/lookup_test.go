package booklookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/database/books"
	"github.com/mrlokans/booknotes/internal/viewmodel"
)

type mockGetter struct {
	mu    sync.Mutex
	books map[uint]viewmodel.BookViewItem
	calls int
	err   error
}

func (m *mockGetter) GetBook(_ context.Context, id uint) (viewmodel.BookViewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return viewmodel.BookViewItem{}, m.err
	}
	item, ok := m.books[id]
	if !ok {
		return viewmodel.BookViewItem{}, books.ErrBookNotFound
	}
	return item, nil
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordLookup(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[result]++
}

func sampleItems() []viewmodel.BookViewItem {
	return []viewmodel.BookViewItem{
		{BookID: 1, BookName: "Dune", AutherName: "Frank Herbert", AutherID: 1},
		{BookID: 2, BookName: "Hyperion", AutherName: "Dan Simmons", AutherID: 2},
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(config.LookupModeStore, time.Minute, nil)
	assert.Error(t, err)

	_, err = New("bogus", time.Minute, &mockGetter{})
	assert.Error(t, err)

	l, err := New(config.LookupModeListing, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, config.LookupModeListing, l.Mode())
}

func TestStoreMode_ReadThrough(t *testing.T) {
	getter := &mockGetter{books: map[uint]viewmodel.BookViewItem{
		3: {BookID: 3, BookName: "Anathem"},
	}}
	rec := &countingRecorder{}
	l, err := New(config.LookupModeStore, time.Minute, getter)
	require.NoError(t, err)
	l.SetRecorder(rec)

	item, err := l.Resolve(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Anathem", item.BookName)

	// Second call is served from the cache
	_, err = l.Resolve(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, getter.calls)
	assert.Equal(t, 1, rec.counts[ResultMiss])
	assert.Equal(t, 1, rec.counts[ResultHit])
}

func TestStoreMode_RecordedItemsAreHits(t *testing.T) {
	getter := &mockGetter{}
	l, err := New(config.LookupModeStore, time.Minute, getter)
	require.NoError(t, err)

	l.Record(sampleItems())

	item, err := l.Resolve(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Hyperion", item.BookName)
	assert.Equal(t, 0, getter.calls)
}

func TestStoreMode_NotFound(t *testing.T) {
	rec := &countingRecorder{}
	l, err := New(config.LookupModeStore, time.Minute, &mockGetter{})
	require.NoError(t, err)
	l.SetRecorder(rec)

	_, err = l.Resolve(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, rec.counts[ResultNotFound])
}

func TestStoreMode_StoreError(t *testing.T) {
	l, err := New(config.LookupModeStore, time.Minute, &mockGetter{err: errors.New("connection refused")})
	require.NoError(t, err)

	_, err = l.Resolve(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestListingMode_OnlyListedIDsResolve(t *testing.T) {
	l, err := New(config.LookupModeListing, time.Minute, nil)
	require.NoError(t, err)

	// Nothing listed yet
	_, err = l.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	l.Record(sampleItems())

	item, err := l.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", item.BookName)

	_, err = l.Resolve(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListingMode_ReplacesPreviousListing(t *testing.T) {
	l, err := New(config.LookupModeListing, time.Minute, nil)
	require.NoError(t, err)

	l.Record(sampleItems())
	l.Record([]viewmodel.BookViewItem{{BookID: 5, BookName: "Solaris"}})

	_, err = l.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	item, err := l.Resolve(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Solaris", item.BookName)
}

func TestListingMode_Expires(t *testing.T) {
	l, err := New(config.LookupModeListing, 20*time.Millisecond, nil)
	require.NoError(t, err)

	l.Record(sampleItems())
	time.Sleep(50 * time.Millisecond)

	_, err = l.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentRecordAndResolve(t *testing.T) {
	l, err := New(config.LookupModeListing, time.Minute, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.Record(sampleItems())
		}()
		go func() {
			defer wg.Done()
			_, _ = l.Resolve(context.Background(), 1)
		}()
	}
	wg.Wait()

	_, err = l.Resolve(context.Background(), 2)
	assert.NoError(t, err)
}
