package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mrlokans/booknotes/internal/database/books"
	"github.com/mrlokans/booknotes/internal/database/notes"
	"github.com/mrlokans/booknotes/internal/entities"
	"github.com/mrlokans/booknotes/internal/utils"
	"github.com/mrlokans/booknotes/internal/viewmodel"
)

// ErrBlankName is returned when a book or author name is empty after trimming.
var ErrBlankName = errors.New("book and author names must not be blank")

// AddBookInput is a validated add-book form.
type AddBookInput struct {
	Name          string
	ISBN          string
	Rating        int
	Category      string
	AuthorName    string
	OpenLibraryID string
}

// LibraryService holds the business logic behind the book and note pages.
type LibraryService struct {
	books  *books.Repository
	notes  *notes.Repository
	warmer CoverWarmer
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(booksRepo *books.Repository, notesRepo *notes.Repository) *LibraryService {
	return &LibraryService{
		books: booksRepo,
		notes: notesRepo,
	}
}

// SetCoverWarmer registers a hook that prefetches covers for newly added books.
func (s *LibraryService) SetCoverWarmer(w CoverWarmer) {
	s.warmer = w
}

// ListBooks returns every book as a view item, in store order.
func (s *LibraryService) ListBooks(ctx context.Context) ([]viewmodel.BookViewItem, error) {
	rows, err := s.books.ListBooksWithAuthors(ctx)
	if err != nil {
		return nil, err
	}
	return viewmodel.ToBookViewItems(rows), nil
}

// GetBook returns a single book as a view item or books.ErrBookNotFound.
func (s *LibraryService) GetBook(ctx context.Context, id uint) (viewmodel.BookViewItem, error) {
	book, err := s.books.GetBookWithAuthor(ctx, id)
	if err != nil {
		return viewmodel.BookViewItem{}, err
	}
	return viewmodel.ToBookViewItem(*book), nil
}

// AddBook reuses the author with the same name or creates one, then inserts
// the book stamped with today's date. Both writes share one transaction.
func (s *LibraryService) AddBook(ctx context.Context, in AddBookInput) (*entities.Book, error) {
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.Name = strings.TrimSpace(in.Name)
	in.ISBN = strings.TrimSpace(in.ISBN)
	if in.Name == "" || in.AuthorName == "" {
		return nil, ErrBlankName
	}

	book := entities.Book{
		Name:        in.Name,
		ISBN:        in.ISBN,
		Rating:      in.Rating,
		Category:    in.Category,
		ReadingDate: utils.CurrentDateStamp(),
	}

	err := s.books.WithTx(ctx, func(tx *books.Repository) error {
		authorID, found, err := tx.FindAuthorIDByName(ctx, in.AuthorName)
		if err != nil {
			return err
		}
		if !found {
			authorID, err = tx.InsertAuthor(ctx, in.AuthorName, strings.TrimSpace(in.OpenLibraryID))
			if err != nil {
				return err
			}
		}
		book.AuthorID = authorID

		bookID, err := tx.InsertBook(ctx, book)
		if err != nil {
			return err
		}
		book.ID = bookID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add book %q: %w", in.Name, err)
	}

	if s.warmer != nil {
		if err := s.warmer.WarmCover(ctx, book.ID); err != nil {
			log.Printf("Failed to enqueue cover prefetch for book %d: %v", book.ID, err)
		}
	}

	return &book, nil
}

// ListNotes returns the notes for a book as view items.
func (s *LibraryService) ListNotes(ctx context.Context, bookID uint) ([]viewmodel.NoteViewItem, error) {
	rows, err := s.notes.ListNotesForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return viewmodel.ToNoteViewItems(rows), nil
}

// AddNote attaches a note to a book. When authorID is zero the book's own
// author is used.
func (s *LibraryService) AddNote(ctx context.Context, text string, bookID, authorID uint) (uint, error) {
	if authorID == 0 {
		book, err := s.books.GetBookWithAuthor(ctx, bookID)
		if err != nil {
			return 0, err
		}
		authorID = book.AuthorID
	}
	return s.notes.InsertNote(ctx, text, bookID, authorID)
}

// EditNote replaces a note's text.
func (s *LibraryService) EditNote(ctx context.Context, noteID uint, text string) error {
	return s.notes.UpdateNote(ctx, noteID, text)
}

// RemoveNote deletes a note.
func (s *LibraryService) RemoveNote(ctx context.Context, noteID uint) error {
	return s.notes.DeleteNote(ctx, noteID)
}
