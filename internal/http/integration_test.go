package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booknotes/internal/booklookup"
	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/database"
	"github.com/mrlokans/booknotes/internal/database/books"
	"github.com/mrlokans/booknotes/internal/database/notes"
	"github.com/mrlokans/booknotes/internal/metrics"
	"github.com/mrlokans/booknotes/internal/services"
	"github.com/mrlokans/booknotes/internal/sessions"
)

type appFixture struct {
	router  *gin.Engine
	library *services.LibraryService
	metrics *metrics.Metrics
}

func setupApp(t *testing.T, mode config.LookupMode) *appFixture {
	t.Helper()

	db, err := database.NewDatabaseWithOptions(
		config.Database{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "app.db")},
		database.Options{LogLevel: logger.Silent},
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	library := services.NewLibraryService(books.NewRepository(db.DB), notes.NewRepository(db.DB))
	lookup, err := booklookup.New(mode, time.Minute, library)
	require.NoError(t, err)

	m, err := metrics.New()
	require.NoError(t, err)
	lookup.SetRecorder(m)

	router := NewRouter(RouterConfig{
		Library:  library,
		Lookup:   lookup,
		Database: db,
		Sessions: sessions.NewMemoryManager(config.Sessions{Lifetime: time.Hour}),
		Metrics:  m,
		Version:  "test",
	})

	return &appFixture{router: router, library: library, metrics: m}
}

func withCookies(req *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	return req
}

func TestApp_AddBookThenNotes(t *testing.T) {
	app := setupApp(t, config.LookupModeStore)

	w := postForm(app.router, "/addbook", validBookForm())
	require.Equal(t, http.StatusFound, w.Code)

	// Flash message shows once on the home page
	home := httptest.NewRecorder()
	app.router.ServeHTTP(home, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), w))
	require.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "Added &#34;Dune&#34;")
	assert.Contains(t, home.Body.String(), "https://covers.openlibrary.org/b/isbn/9780441013593-L.jpg")

	w = postForm(app.router, "/add", url.Values{"newNote": {"Fear is the mind-killer"}, "bookId": {"1"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/notes/1", w.Header().Get("Location"))

	page := get(app.router, "/notes/1")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Fear is the mind-killer")

	w = postForm(app.router, "/edit", url.Values{"noteId": {"1"}, "bookId": {"1"}, "updatedNote": {"I must not fear"}})
	require.Equal(t, http.StatusFound, w.Code)
	page = get(app.router, "/notes/1")
	assert.Contains(t, page.Body.String(), "I must not fear")
	assert.NotContains(t, page.Body.String(), "mind-killer")

	w = postForm(app.router, "/delete", url.Values{"noteId": {"1"}, "bookId": {"1"}})
	require.Equal(t, http.StatusFound, w.Code)
	page = get(app.router, "/notes/1")
	assert.Contains(t, page.Body.String(), "No notes for this book yet")
}

func TestApp_SecondBookReusesAuthor(t *testing.T) {
	app := setupApp(t, config.LookupModeStore)

	require.Equal(t, http.StatusFound, postForm(app.router, "/addbook", validBookForm()).Code)
	form := validBookForm()
	form.Set("book_name", "Children of Dune")
	require.Equal(t, http.StatusFound, postForm(app.router, "/addbook", form).Code)

	items, err := app.library.ListBooks(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, items[0].AutherID, items[1].AutherID)
}

func TestApp_StoreModeResolvesWithoutListing(t *testing.T) {
	app := setupApp(t, config.LookupModeStore)
	require.Equal(t, http.StatusFound, postForm(app.router, "/addbook", validBookForm()).Code)

	w := get(app.router, "/notes/1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, get(app.router, "/notes/2").Code)
}

func TestApp_ListingModeRequiresHomeFirst(t *testing.T) {
	app := setupApp(t, config.LookupModeListing)
	require.Equal(t, http.StatusFound, postForm(app.router, "/addbook", validBookForm()).Code)

	// Present in the store but not yet listed
	w := get(app.router, "/notes/1")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book not found", w.Body.String())

	require.Equal(t, http.StatusOK, get(app.router, "/").Code)
	assert.Equal(t, http.StatusOK, get(app.router, "/notes/1").Code)

	// Added after the last listing
	form := validBookForm()
	form.Set("book_name", "Dune Messiah")
	require.Equal(t, http.StatusFound, postForm(app.router, "/addbook", form).Code)
	assert.Equal(t, http.StatusNotFound, get(app.router, "/notes/2").Code)
}

func TestApp_HealthAndMetrics(t *testing.T) {
	app := setupApp(t, config.LookupModeStore)

	w := get(app.router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database": "ok"`)
	assert.Contains(t, w.Body.String(), `"version": "test"`)

	get(app.router, "/notes/5")
	w = get(app.router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `booknotes_book_lookup_total{result="not_found"} 1`)
	assert.Contains(t, w.Body.String(), `route="/notes/:id",status="404"`)
}
