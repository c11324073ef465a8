package security

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const csrfTokenKey = "csrf_token"

// CSRFMiddleware protects unsafe methods with gorilla/csrf. Safe methods
// pass through and get a token stored in the gin context for templates.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		r := c.Request
		if !secure && r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(csrfTokenKey, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, r)
		// The error handler already wrote the response
		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("Forbidden - form expired, please reload the page"))
}

// Token returns the CSRF token for the current request, or "" when
// protection is disabled.
func Token(c *gin.Context) string {
	if v, ok := c.Get(csrfTokenKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// TokenField renders the hidden form input carrying the CSRF token.
func TokenField(c *gin.Context) template.HTML {
	token := Token(c)
	if token == "" {
		return ""
	}
	return template.HTML(`<input type="hidden" name="gorilla.csrf.Token" value="` + template.HTMLEscapeString(token) + `">`)
}
