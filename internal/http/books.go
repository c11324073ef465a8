package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotes/internal/services"
)

// BooksController handles the home listing and the add-book form.
type BooksController struct {
	library Library
	lookup  BookResolver
	flash   Flasher
}

func NewBooksController(library Library, lookup BookResolver, flash Flasher) *BooksController {
	return &BooksController{
		library: library,
		lookup:  lookup,
		flash:   flash,
	}
}

// HomePage lists every book with its author.
// GET /
func (bc *BooksController) HomePage(c *gin.Context) {
	books, err := bc.library.ListBooks(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	if bc.lookup != nil {
		bc.lookup.Record(books)
	}

	render(c, "index.html", gin.H{
		"title": "My Books",
		"books": books,
		"flash": popFlash(c, bc.flash),
	})
}

// CreateBook stores a new book, creating its author when needed.
// POST /addbook
func (bc *BooksController) CreateBook(c *gin.Context) {
	var form addBookForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, err)
		return
	}

	book, err := bc.library.AddBook(c.Request.Context(), form.input())
	if errors.Is(err, services.ErrBlankName) {
		respondBadRequest(c, err)
		return
	}
	if err != nil {
		respondInternalError(c, err, "add book")
		return
	}
	log.Printf("[%s] Added book %d %q", requestID(c), book.ID, book.Name)

	setFlash(c, bc.flash, "Added \""+book.Name+"\"")
	c.Redirect(http.StatusFound, "/")
}

func setFlash(c *gin.Context, f Flasher, msg string) {
	if f != nil {
		f.Flash(c.Request.Context(), msg)
	}
}

func popFlash(c *gin.Context, f Flasher) string {
	if f == nil {
		return ""
	}
	return f.PopFlash(c.Request.Context())
}
