// Package viewmodel turns stored books and notes into the shapes the pages render.
// Everything here is pure; nothing performs I/O.
package viewmodel

import (
	"github.com/mrlokans/booknotes/internal/entities"
)

const coversBaseURL = "https://covers.openlibrary.org"

// BookViewItem is a book joined with its author plus derived image URLs.
type BookViewItem struct {
	BookID        uint   `json:"book_id"`
	BookName      string `json:"book_name"`
	BookImg       string `json:"book_img"`
	BookISBN      string `json:"book_isbn"`
	Rating        int    `json:"rating"`
	Category      string `json:"category"`
	ReadingDate   string `json:"reading_date"`
	AutherName    string `json:"autherName"`
	AutherID      uint   `json:"auther_id"`
	AutherImg     string `json:"auther_img"`
	OpenLibraryID string `json:"openLibraryId"`
}

// NoteViewItem is a single note as shown on the notes page.
type NoteViewItem struct {
	ID   uint   `json:"id"`
	Note string `json:"note"`
}

// CoverURL derives the large cover image URL for a book identifier.
// Identifiers starting with "o" or "O" are OpenLibrary edition ids,
// anything else is treated as an ISBN.
func CoverURL(isbn string) string {
	if isbn != "" && (isbn[0] == 'o' || isbn[0] == 'O') {
		return coversBaseURL + "/b/olid/" + isbn + "-L.jpg"
	}
	return coversBaseURL + "/b/isbn/" + isbn + "-L.jpg"
}

// AuthorImageURL derives the small author photo URL from an OpenLibrary author id.
func AuthorImageURL(openLibraryID string) string {
	return coversBaseURL + "/a/olid/" + openLibraryID + "-S.jpg"
}

func ToBookViewItem(book entities.Book) BookViewItem {
	authorID := book.Author.ID
	if authorID == 0 {
		authorID = book.AuthorID
	}
	return BookViewItem{
		BookID:        book.ID,
		BookName:      book.Name,
		BookImg:       CoverURL(book.ISBN),
		BookISBN:      book.ISBN,
		Rating:        book.Rating,
		Category:      book.Category,
		ReadingDate:   book.ReadingDate,
		AutherName:    book.Author.Name,
		AutherID:      authorID,
		AutherImg:     AuthorImageURL(book.Author.OpenLibraryID),
		OpenLibraryID: book.Author.OpenLibraryID,
	}
}

// ToBookViewItems maps rows one to one, keeping their order.
func ToBookViewItems(books []entities.Book) []BookViewItem {
	items := make([]BookViewItem, 0, len(books))
	for _, book := range books {
		items = append(items, ToBookViewItem(book))
	}
	return items
}

// ToNoteViewItems maps rows one to one, keeping their order.
func ToNoteViewItems(notes []entities.Note) []NoteViewItem {
	items := make([]NoteViewItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, NoteViewItem{ID: n.ID, Note: n.Note})
	}
	return items
}
