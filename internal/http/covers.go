package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotes/internal/database/books"
)

// CoversController serves locally cached book covers.
type CoversController struct {
	cache   CoverStore
	library Library
}

// NewCoversController creates a new CoversController.
func NewCoversController(cache CoverStore, library Library) *CoversController {
	return &CoversController{
		cache:   cache,
		library: library,
	}
}

// GetCover serves a cached cover, falling back to a redirect to the
// OpenLibrary URL when it cannot be cached.
// GET /covers/:id
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.library.GetBook(c.Request.Context(), id)
	if errors.Is(err, books.ErrBookNotFound) {
		respondBookNotFound(c)
		return
	}
	if err != nil {
		respondInternalError(c, err, "load book for cover")
		return
	}

	path, err := cc.cache.GetCover(c.Request.Context(), id, book.BookImg)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, book.BookImg)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
