package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotes/internal/booklookup"
	"github.com/mrlokans/booknotes/internal/database/books"
)

// NotesController handles the notes page of a book and the note forms.
type NotesController struct {
	library Library
	lookup  BookResolver
	flash   Flasher
}

func NewNotesController(library Library, lookup BookResolver, flash Flasher) *NotesController {
	return &NotesController{
		library: library,
		lookup:  lookup,
		flash:   flash,
	}
}

// NotesPage shows a book with its notes.
// GET /notes/:id
func (nc *NotesController) NotesPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := nc.lookup.Resolve(c.Request.Context(), id)
	if errors.Is(err, booklookup.ErrNotFound) {
		respondBookNotFound(c)
		return
	}
	if err != nil {
		respondInternalError(c, err, "resolve book")
		return
	}

	notes, err := nc.library.ListNotes(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "list notes")
		return
	}

	render(c, "notes.html", gin.H{
		"title": book.BookName,
		"book":  book,
		"notes": notes,
		"flash": popFlash(c, nc.flash),
	})
}

// CreateNote attaches a note to a book.
// POST /add
func (nc *NotesController) CreateNote(c *gin.Context) {
	var form createNoteForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, err)
		return
	}

	_, err := nc.library.AddNote(c.Request.Context(), form.Note, form.BookID, form.AuthorID)
	if errors.Is(err, books.ErrBookNotFound) {
		respondBookNotFound(c)
		return
	}
	if err != nil {
		respondInternalError(c, err, "add note")
		return
	}

	setFlash(c, nc.flash, "Note added")
	c.Redirect(http.StatusFound, notesPath(form.BookID))
}

// EditNote replaces the text of a note.
// POST /edit
func (nc *NotesController) EditNote(c *gin.Context) {
	var form editNoteForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := nc.library.EditNote(c.Request.Context(), form.NoteID, form.Note); err != nil {
		respondInternalError(c, err, "edit note")
		return
	}

	setFlash(c, nc.flash, "Note updated")
	c.Redirect(http.StatusFound, notesPath(form.BookID))
}

// DeleteNote removes a note.
// POST /delete
func (nc *NotesController) DeleteNote(c *gin.Context) {
	var form deleteNoteForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := nc.library.RemoveNote(c.Request.Context(), form.NoteID); err != nil {
		respondInternalError(c, err, "delete note")
		return
	}

	setFlash(c, nc.flash, "Note deleted")
	c.Redirect(http.StatusFound, notesPath(form.BookID))
}
