package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/booknotes/internal/covers"
	"github.com/mrlokans/booknotes/internal/database/books"
	"github.com/mrlokans/booknotes/internal/viewmodel"
)

// BookSource is what the cover tasks need from the library.
type BookSource interface {
	GetBook(ctx context.Context, id uint) (viewmodel.BookViewItem, error)
	ListBooks(ctx context.Context) ([]viewmodel.BookViewItem, error)
}

// CoverFetcher stores a cover locally.
type CoverFetcher interface {
	GetCover(ctx context.Context, bookID uint, coverURL string) (string, error)
	InvalidateCover(bookID uint) error
}

// CoverEnqueuer schedules a single book's cover prefetch.
type CoverEnqueuer interface {
	EnqueueCover(ctx context.Context, bookID uint, refresh bool) error
}

// WarmCoverTask downloads one book's cover into the local cache. With
// Refresh set the cached file is dropped first and downloaded again.
type WarmCoverTask struct {
	BookID  uint `json:"book_id"`
	Refresh bool `json:"refresh,omitempty"`
}

// Config returns the queue configuration for cover prefetch tasks.
func (t WarmCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// WarmCoverProcessor fetches the cover for task.BookID. Deleted books and
// books without a remote cover complete without retrying.
func WarmCoverProcessor(source BookSource, fetcher CoverFetcher) backlite.QueueProcessor[WarmCoverTask] {
	return func(ctx context.Context, task WarmCoverTask) error {
		if source == nil || fetcher == nil {
			return fmt.Errorf("cover warming not configured")
		}

		book, err := source.GetBook(ctx, task.BookID)
		if errors.Is(err, books.ErrBookNotFound) {
			log.Printf("[TASK] Book %d no longer exists, skipping cover", task.BookID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load book %d: %w", task.BookID, err)
		}

		if task.Refresh {
			if err := fetcher.InvalidateCover(book.BookID); err != nil {
				return fmt.Errorf("invalidate cover for book %d: %w", book.BookID, err)
			}
		}

		if _, err := fetcher.GetCover(ctx, book.BookID, book.BookImg); err != nil {
			if errors.Is(err, covers.ErrNoCover) {
				log.Printf("[TASK] No cover available for book %d (%s)", book.BookID, book.BookName)
				return nil
			}
			return fmt.Errorf("warm cover for book %d: %w", book.BookID, err)
		}
		return nil
	}
}

// NewWarmCoverQueue creates the queue for WarmCoverTask.
func NewWarmCoverQueue(source BookSource, fetcher CoverFetcher) backlite.Queue {
	return backlite.NewQueue(WarmCoverProcessor(source, fetcher))
}

// WarmAllCoversTask fans out one WarmCoverTask per book, passing Refresh on.
type WarmAllCoversTask struct {
	Refresh bool `json:"refresh,omitempty"`
}

// Config returns the queue configuration for the fan-out task.
func (t WarmAllCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_all_covers",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
		},
	}
}

// WarmAllCoversProcessor lists every book and enqueues its prefetch.
func WarmAllCoversProcessor(source BookSource, enqueuer CoverEnqueuer) backlite.QueueProcessor[WarmAllCoversTask] {
	return func(ctx context.Context, task WarmAllCoversTask) error {
		if source == nil || enqueuer == nil {
			return fmt.Errorf("cover warming not configured")
		}

		items, err := source.ListBooks(ctx)
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}

		failed := 0
		for _, item := range items {
			if err := enqueuer.EnqueueCover(ctx, item.BookID, task.Refresh); err != nil {
				log.Printf("[TASK ERROR] %v", err)
				failed++
			}
		}

		log.Printf("[TASK] Cover warm-up queued: %d books, %d failed", len(items), failed)
		return nil
	}
}

// NewWarmAllCoversQueue creates the queue for WarmAllCoversTask.
func NewWarmAllCoversQueue(source BookSource, enqueuer CoverEnqueuer) backlite.Queue {
	return backlite.NewQueue(WarmAllCoversProcessor(source, enqueuer))
}
