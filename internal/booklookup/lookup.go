// Package booklookup resolves a book id to its view item for the notes page.
//
// Two modes are available. In store mode lookups read through a TTL cache
// and fall back to the store on miss. In listing mode only the ids shown by
// the most recent home listing resolve; the recorded set is replaced as a
// whole on each listing and expires after the TTL.
package booklookup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/database/books"
	"github.com/mrlokans/booknotes/internal/viewmodel"
)

// ErrNotFound is returned when a book id cannot be resolved.
var ErrNotFound = errors.New("book not found")

const listingKey = "listing"

// Lookup outcomes reported to the Recorder.
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultNotFound = "not_found"
)

// BookGetter loads a single book from the store.
type BookGetter interface {
	GetBook(ctx context.Context, id uint) (viewmodel.BookViewItem, error)
}

// Recorder receives one outcome per Resolve call.
type Recorder interface {
	RecordLookup(result string)
}

// Lookup is a synchronized, time-bounded book-by-id resolver.
type Lookup struct {
	mode     config.LookupMode
	ttl      time.Duration
	cache    *cache.Cache
	getter   BookGetter
	recorder Recorder
}

// New creates a Lookup. getter may be nil in listing mode.
func New(mode config.LookupMode, ttl time.Duration, getter BookGetter) (*Lookup, error) {
	switch mode {
	case config.LookupModeStore:
		if getter == nil {
			return nil, fmt.Errorf("store lookup mode requires a book getter")
		}
	case config.LookupModeListing:
	default:
		return nil, fmt.Errorf("unknown lookup mode %q", mode)
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Lookup{
		mode:   mode,
		ttl:    ttl,
		cache:  cache.New(ttl, 2*ttl),
		getter: getter,
	}, nil
}

// SetRecorder attaches a metrics recorder.
func (l *Lookup) SetRecorder(r Recorder) {
	l.recorder = r
}

// Mode returns the configured lookup mode.
func (l *Lookup) Mode() config.LookupMode {
	return l.mode
}

// Record remembers the items of a home listing.
func (l *Lookup) Record(items []viewmodel.BookViewItem) {
	switch l.mode {
	case config.LookupModeListing:
		snapshot := make(map[uint]viewmodel.BookViewItem, len(items))
		for _, item := range items {
			snapshot[item.BookID] = item
		}
		l.cache.Set(listingKey, snapshot, cache.DefaultExpiration)
	default:
		for _, item := range items {
			l.cache.Set(itemKey(item.BookID), item, cache.DefaultExpiration)
		}
	}
}

// Resolve returns the view item for id or ErrNotFound.
func (l *Lookup) Resolve(ctx context.Context, id uint) (viewmodel.BookViewItem, error) {
	if l.mode == config.LookupModeListing {
		return l.resolveFromListing(id)
	}

	if v, ok := l.cache.Get(itemKey(id)); ok {
		l.record(ResultHit)
		return v.(viewmodel.BookViewItem), nil
	}

	item, err := l.getter.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			l.record(ResultNotFound)
			return viewmodel.BookViewItem{}, ErrNotFound
		}
		return viewmodel.BookViewItem{}, fmt.Errorf("resolve book %d: %w", id, err)
	}

	l.record(ResultMiss)
	l.cache.Set(itemKey(id), item, cache.DefaultExpiration)
	return item, nil
}

func (l *Lookup) resolveFromListing(id uint) (viewmodel.BookViewItem, error) {
	v, ok := l.cache.Get(listingKey)
	if ok {
		if item, found := v.(map[uint]viewmodel.BookViewItem)[id]; found {
			l.record(ResultHit)
			return item, nil
		}
	}
	l.record(ResultNotFound)
	return viewmodel.BookViewItem{}, ErrNotFound
}

func (l *Lookup) record(result string) {
	if l.recorder != nil {
		l.recorder.RecordLookup(result)
	}
}

func itemKey(id uint) string {
	return "book:" + strconv.FormatUint(uint64(id), 10)
}
