package http

import (
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotes/internal/security"
	"github.com/mrlokans/booknotes/internal/viewmodel"
	"github.com/mrlokans/booknotes/web"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	registerValidators()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	router.Use(security.HeadersMiddleware())

	// CSRF must run before the session middleware so the session context
	// survives CSRF's request replacement
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	var flash Flasher
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadSave())
		flash = cfg.Sessions
	}

	router.SetHTMLTemplate(loadTemplates(cfg.TemplatesPath, cfg.CoverCache != nil))

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	} else {
		assets, err := fs.Sub(web.Static, "static")
		if err != nil {
			panic(err)
		}
		router.StaticFS("/static", http.FS(assets))
	}

	pages := NewPagesController()
	booksController := NewBooksController(cfg.Library, cfg.Lookup, flash)
	notesController := NewNotesController(cfg.Library, cfg.Lookup, flash)
	health := NewHealthController(cfg.Database, cfg.Version)

	router.GET("/health", health.Status)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Pages
	router.GET("/", booksController.HomePage)
	router.GET("/about", pages.About)
	router.GET("/contact", pages.Contact)
	router.GET("/addbook", pages.AddBookForm)
	router.GET("/notes/:id", notesController.NotesPage)

	// Forms
	router.POST("/addbook", booksController.CreateBook)
	router.POST("/add", notesController.CreateNote)
	router.POST("/edit", notesController.EditNote)
	router.POST("/delete", notesController.DeleteNote)

	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Library)
		router.GET("/covers/:id", coversController.GetCover)
	}

	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router
}

// templateFuncs builds the helpers available to every page. With
// localCovers set, cover images go through /covers/:id so the on-disk
// cache serves them.
func templateFuncs(localCovers bool) template.FuncMap {
	return template.FuncMap{
		// stars returns n booleans marking which of the ten rating stars are filled
		"stars": func(rating int) []bool {
			out := make([]bool, 10)
			for i := range out {
				out[i] = i < rating
			}
			return out
		},
		"coverSrc": func(b viewmodel.BookViewItem) string {
			if localCovers {
				return coverPath(b.BookID)
			}
			return b.BookImg
		},
	}
}

func coverPath(bookID uint) string {
	return "/covers/" + strconv.FormatUint(uint64(bookID), 10)
}

// loadTemplates parses templates from dir, or the embedded set when dir is empty.
func loadTemplates(dir string, localCovers bool) *template.Template {
	base := template.New("").Funcs(templateFuncs(localCovers))
	if dir != "" {
		return template.Must(base.ParseGlob(dir + "/*.html"))
	}
	return template.Must(base.ParseFS(web.Templates, "templates/*.html"))
}
