package http

import (
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/booknotes/internal/services"
)

// Field names match the HTML forms.

type addBookForm struct {
	Name          string `form:"book_name" binding:"required,notblank,max=255"`
	ISBN          string `form:"book_isbn" binding:"required,bookisbn"`
	Rating        *int   `form:"rating" binding:"required,min=0,max=10"`
	Category      string `form:"category" binding:"max=100"`
	AuthorName    string `form:"autherName" binding:"required,notblank,max=255"`
	OpenLibraryID string `form:"o_l_id" binding:"max=64"`
}

func (f addBookForm) input() services.AddBookInput {
	return services.AddBookInput{
		Name:          f.Name,
		ISBN:          normalizeBookISBN(f.ISBN),
		Rating:        *f.Rating,
		Category:      strings.TrimSpace(f.Category),
		AuthorName:    f.AuthorName,
		OpenLibraryID: f.OpenLibraryID,
	}
}

type createNoteForm struct {
	Note     string `form:"newNote" binding:"required,notblank"`
	BookID   uint   `form:"bookId" binding:"required"`
	AuthorID uint   `form:"authorID"`
}

type editNoteForm struct {
	NoteID uint   `form:"noteId" binding:"required"`
	Note   string `form:"updatedNote" binding:"required,notblank"`
	BookID uint   `form:"bookId" binding:"required"`
}

type deleteNoteForm struct {
	NoteID uint `form:"noteId" binding:"required"`
	BookID uint `form:"bookId" binding:"required"`
}

var registerOnce sync.Once

// registerValidators adds the custom rules used by the form structs to
// gin's validator engine.
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("bookisbn", func(fl validator.FieldLevel) bool {
				return validBookISBN(fl.Field().String())
			})
			_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
				return strings.TrimSpace(fl.Field().String()) != ""
			})
		}
	})
}

// validBookISBN accepts an OpenLibrary edition id (starting with "o" or
// "O", alphanumeric) or an ISBN-10/13 with optional hyphens or spaces.
func validBookISBN(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	if s[0] == 'o' || s[0] == 'O' {
		if len(s) < 3 || len(s) > 32 {
			return false
		}
		for _, r := range s {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return false
			}
		}
		return true
	}

	digits := stripISBNSeparators(s)

	switch len(digits) {
	case 10:
		for i, r := range digits {
			if r >= '0' && r <= '9' {
				continue
			}
			if i == 9 && (r == 'x' || r == 'X') {
				continue
			}
			return false
		}
		return true
	case 13:
		for _, r := range digits {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

func stripISBNSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, s)
}

// normalizeBookISBN drops hyphens and spaces from an ISBN and upper-cases a
// trailing check character, so the stored value builds a valid cover URL.
// OpenLibrary edition ids are only trimmed.
func normalizeBookISBN(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == 'o' || s[0] == 'O' {
		return s
	}
	return strings.ToUpper(stripISBNSeparators(s))
}
