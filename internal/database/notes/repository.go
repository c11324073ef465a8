// Package notes provides database operations for free-text book notes.
package notes

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/booknotes/internal/entities"
)

// Repository handles note database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListNotesForBook returns the notes attached to a book, oldest first.
func (r *Repository) ListNotesForBook(ctx context.Context, bookID uint) ([]entities.Note, error) {
	notes := []entities.Note{}
	err := r.db.WithContext(ctx).
		Select("id", "note", "book_id", "auther_id").
		Where("book_id = ?", bookID).
		Order("id ASC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notes for book %d: %w", bookID, err)
	}
	return notes, nil
}

// InsertNote attaches a note to a book and its author.
func (r *Repository) InsertNote(ctx context.Context, text string, bookID, authorID uint) (uint, error) {
	note := entities.Note{Note: text, BookID: bookID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&note).Error; err != nil {
		return 0, fmt.Errorf("insert note for book %d: %w", bookID, err)
	}
	return note.ID, nil
}

// UpdateNote replaces the text of a note.
func (r *Repository) UpdateNote(ctx context.Context, noteID uint, text string) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Note{}).
		Where("id = ?", noteID).
		Update("note", text).Error
	if err != nil {
		return fmt.Errorf("update note %d: %w", noteID, err)
	}
	return nil
}

// DeleteNote removes a note by id. Deleting a missing note is not an error.
func (r *Repository) DeleteNote(ctx context.Context, noteID uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Note{}, noteID).Error; err != nil {
		return fmt.Errorf("delete note %d: %w", noteID, err)
	}
	return nil
}
