package sessions

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func flashRouter(m *Manager) *gin.Engine {
	router := gin.New()
	router.Use(m.LoadSave())
	router.POST("/add", func(c *gin.Context) {
		m.Flash(c.Request.Context(), "Note added")
		c.Redirect(http.StatusFound, "/notes/1")
	})
	router.GET("/notes/1", func(c *gin.Context) {
		c.String(http.StatusOK, "flash=%s", m.PopFlash(c.Request.Context()))
	})
	return router
}

func followFlash(t *testing.T, router *gin.Engine, cookieName string) {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add", nil))
	require.Equal(t, http.StatusFound, w.Code)

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == cookieName {
			session = ck
		}
	}
	require.NotNil(t, session, "session cookie should be set on redirect")
	assert.True(t, session.HttpOnly)

	// First view shows the message
	req := httptest.NewRequest(http.MethodGet, "/notes/1", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "flash=Note added", w.Body.String())

	// Second view does not
	req = httptest.NewRequest(http.MethodGet, "/notes/1", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "flash=", w.Body.String())
}

func TestMemoryManager_Flash(t *testing.T) {
	m := NewMemoryManager(config.Sessions{Lifetime: time.Hour})
	followFlash(t, flashRouter(m), "booknotes_session")
}

func TestSQLiteManager_Flash(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	db, err := database.NewDatabaseWithOptions(
		config.Database{Driver: database.DriverSQLite, Path: dbPath},
		database.Options{LogLevel: logger.Silent},
	)
	require.NoError(t, err)
	defer func() {
		db.Close()
		os.Remove(dbPath)
	}()

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	m, err := NewManager(sqlDB, config.Sessions{Lifetime: time.Hour})
	require.NoError(t, err)
	assert.True(t, db.DB.Migrator().HasTable("sessions"))

	followFlash(t, flashRouter(m), "booknotes_session")
}

func TestLoadSave_NoCookieWithoutChanges(t *testing.T) {
	m := NewMemoryManager(config.Sessions{})
	router := gin.New()
	router.Use(m.LoadSave())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, w.Result().Cookies())
}
