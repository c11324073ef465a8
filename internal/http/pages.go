package http

import (
	"github.com/gin-gonic/gin"
)

// PagesController serves the static informational pages.
type PagesController struct{}

func NewPagesController() *PagesController {
	return &PagesController{}
}

// About renders the about page.
// GET /about
func (pc *PagesController) About(c *gin.Context) {
	render(c, "about.html", gin.H{"title": "About"})
}

// Contact renders the contact page.
// GET /contact
func (pc *PagesController) Contact(c *gin.Context) {
	render(c, "contact.html", gin.H{"title": "Contact"})
}

// AddBookForm renders the empty add-book form.
// GET /addbook
func (pc *PagesController) AddBookForm(c *gin.Context) {
	render(c, "addbook.html", gin.H{"title": "Add a book"})
}
