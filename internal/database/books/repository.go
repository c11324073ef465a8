// Package books provides database operations for books and their authors.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	rows, err := repo.ListBooksWithAuthors(ctx)
//
// Multi-step flows run inside WithTx so an author and the book that
// references it are committed together.
package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/booknotes/internal/entities"
)

// ErrBookNotFound is returned when a book id does not exist.
var ErrBookNotFound = errors.New("book not found")

// Repository handles all book and author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx runs fn with a repository bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// ListBooksWithAuthors returns every book joined with its author, ordered by book id.
func (r *Repository) ListBooksWithAuthors(ctx context.Context) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).
		Joins("Author").
		Order("book.id ASC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBookWithAuthor loads a single book and its author.
func (r *Repository) GetBookWithAuthor(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Joins("Author").Where("book.id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &book, nil
}

// FindAuthorIDByName looks an author up by exact name.
func (r *Repository) FindAuthorIDByName(ctx context.Context, name string) (uint, bool, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).Select("id").Where("name = ?", name).Take(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find author %q: %w", name, err)
	}
	return author.ID, true, nil
}

// InsertAuthor creates an author and returns the generated id.
func (r *Repository) InsertAuthor(ctx context.Context, name, openLibraryID string) (uint, error) {
	author := entities.Author{Name: name, OpenLibraryID: openLibraryID}
	if err := r.db.WithContext(ctx).Create(&author).Error; err != nil {
		return 0, fmt.Errorf("insert author %q: %w", name, err)
	}
	return author.ID, nil
}

// InsertBook creates a book row. book.AuthorID must reference an existing author.
func (r *Repository) InsertBook(ctx context.Context, book entities.Book) (uint, error) {
	if err := r.db.WithContext(ctx).Omit("Author").Create(&book).Error; err != nil {
		return 0, fmt.Errorf("insert book %q: %w", book.Name, err)
	}
	return book.ID, nil
}

// CountAuthors returns the number of author rows.
func (r *Repository) CountAuthors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Author{}).Count(&count).Error
	return count, err
}

// CountBooks returns the number of book rows.
func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}
