package http

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotes/internal/security"
)

const (
	msgBadRequest     = "Bad Request"
	msgBookNotFound   = "Book not found"
	msgInternalServer = "Internal Server Error"
)

// respondBadRequest logs why the input was rejected and sends a plain 400.
func respondBadRequest(c *gin.Context, err error) {
	log.Printf("[%s] Bad request %s %s: %v", requestID(c), c.Request.Method, c.Request.URL.Path, err)
	c.String(http.StatusBadRequest, msgBadRequest)
}

func respondBookNotFound(c *gin.Context) {
	c.String(http.StatusNotFound, msgBookNotFound)
}

// respondInternalError logs the error and sends a generic 500.
// The actual error is never exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("[%s] Internal error (%s): %v", requestID(c), context, err)
	c.String(http.StatusInternalServerError, msgInternalServer)
}

// parseIDParam extracts a positive integer id from the URL path.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, fmt.Errorf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// notesPath is where note forms redirect back to.
func notesPath(bookID uint) string {
	return "/notes/" + strconv.FormatUint(uint64(bookID), 10)
}

// render adds the data every page template expects.
func render(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["csrfField"] = security.TokenField(c)
	c.HTML(http.StatusOK, name, data)
}
