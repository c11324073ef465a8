package http

import (
	"context"

	"github.com/mrlokans/booknotes/internal/entities"
	"github.com/mrlokans/booknotes/internal/services"
	"github.com/mrlokans/booknotes/internal/viewmodel"
)

// Library is the book and note logic the page controllers depend on.
// Implemented by services.LibraryService.
type Library interface {
	ListBooks(ctx context.Context) ([]viewmodel.BookViewItem, error)
	GetBook(ctx context.Context, id uint) (viewmodel.BookViewItem, error)
	AddBook(ctx context.Context, in services.AddBookInput) (*entities.Book, error)
	ListNotes(ctx context.Context, bookID uint) ([]viewmodel.NoteViewItem, error)
	AddNote(ctx context.Context, text string, bookID, authorID uint) (uint, error)
	EditNote(ctx context.Context, noteID uint, text string) error
	RemoveNote(ctx context.Context, noteID uint) error
}

// BookResolver resolves the book shown on a notes page.
// Implemented by booklookup.Lookup.
type BookResolver interface {
	Resolve(ctx context.Context, id uint) (viewmodel.BookViewItem, error)
	Record(items []viewmodel.BookViewItem)
}

// Flasher carries one-time messages across a redirect.
// Implemented by sessions.Manager.
type Flasher interface {
	Flash(ctx context.Context, msg string)
	PopFlash(ctx context.Context) string
}

// CoverStore returns a local path for a cover image.
// Implemented by covers.Cache.
type CoverStore interface {
	GetCover(ctx context.Context, bookID uint, coverURL string) (string, error)
}

// Pinger reports store connectivity.
// Implemented by database.Database.
type Pinger interface {
	Ping(ctx context.Context) error
}
