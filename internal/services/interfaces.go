package services

import "context"

// CoverWarmer schedules a cover image prefetch for a book.
// Implemented by tasks.Client; failures never fail the caller's request.
type CoverWarmer interface {
	WarmCover(ctx context.Context, bookID uint) error
}
