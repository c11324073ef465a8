package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotes/internal/booklookup"
	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/covers"
	"github.com/mrlokans/booknotes/internal/database"
	"github.com/mrlokans/booknotes/internal/database/books"
	"github.com/mrlokans/booknotes/internal/database/notes"
	http_controllers "github.com/mrlokans/booknotes/internal/http"
	"github.com/mrlokans/booknotes/internal/metrics"
	"github.com/mrlokans/booknotes/internal/scheduler"
	"github.com/mrlokans/booknotes/internal/services"
	"github.com/mrlokans/booknotes/internal/sessions"
	"github.com/mrlokans/booknotes/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}

// Run wires every component from cfg and serves until a shutdown signal.
func Run(cfg *config.Config, version string) error {
	log.Printf("Starting booknotes v%s", version)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	library := services.NewLibraryService(books.NewRepository(db.DB), notes.NewRepository(db.DB))

	lookup, err := booklookup.New(cfg.Lookup.Mode, cfg.Lookup.TTL, library)
	if err != nil {
		return fmt.Errorf("initialize book lookup: %w", err)
	}
	log.Printf("Notes lookup mode: %s", lookup.Mode())

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m, err = metrics.New()
		if err != nil {
			return fmt.Errorf("initialize metrics: %w", err)
		}
		lookup.SetRecorder(m)
	}

	var coverCache *covers.Cache
	if cfg.Covers.Enabled {
		coverCache, err = covers.NewCache(cfg.Covers.Dir)
		if err != nil {
			log.Printf("WARNING: Failed to initialize cover cache: %v", err)
			coverCache = nil
		} else {
			log.Printf("Cover cache initialized at %s", coverCache.Dir())
		}
	}

	// Cover warming needs both the queue and somewhere to put the files
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var warmScheduler *scheduler.CoverWarmScheduler
	if cfg.Tasks.Enabled && coverCache != nil {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromAppConfig(cfg.Tasks))
		if err != nil {
			return fmt.Errorf("initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewWarmCoverQueue(library, coverCache),
			tasks.NewWarmAllCoversQueue(library, taskClient),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		library.SetCoverWarmer(taskClient)

		if cfg.Tasks.CoverWarmSchedule != "" {
			warmScheduler = scheduler.NewCoverWarmScheduler(taskClient, cfg.Tasks.CoverWarmSchedule)
			if err := warmScheduler.Start(taskCtx); err != nil {
				log.Printf("WARNING: Cover warm scheduler disabled: %v", err)
				warmScheduler = nil
			}
		}
	}

	var sessionManager *sessions.Manager
	if cfg.Sessions.Enabled {
		sessionManager, err = newSessionManager(db, cfg.Sessions)
		if err != nil {
			return fmt.Errorf("initialize sessions: %w", err)
		}
	}

	csrfSecret := decodeSecret(cfg.CSRF.Secret)
	if csrfSecret == nil {
		log.Printf("WARNING: CSRF_SECRET is not set. Form posts are not CSRF protected.")
	}

	routerCfg := http_controllers.RouterConfig{
		Library:       library,
		Lookup:        lookup,
		Database:      db,
		Sessions:      sessionManager,
		Metrics:       m,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.CSRF.SecureCookies,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		Version:       version,
	}
	// Interface fields stay nil unless the concrete value exists
	if coverCache != nil {
		routerCfg.CoverCache = coverCache
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if warmScheduler != nil {
			warmScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, onShutdown)
}

// newSessionManager keeps sessions in the main database when it is SQLite,
// in memory otherwise.
func newSessionManager(db *database.Database, cfg config.Sessions) (*sessions.Manager, error) {
	if db.Driver != database.DriverSQLite {
		log.Printf("Sessions: in-memory store (driver %s)", db.Driver)
		return sessions.NewMemoryManager(cfg), nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("get SQL DB for sessions: %w", err)
	}
	return sessions.NewManager(sqlDB, cfg)
}

// decodeSecret accepts a hex-encoded secret, falling back to the raw bytes.
func decodeSecret(secret string) []byte {
	if secret == "" {
		return nil
	}
	if b, err := hex.DecodeString(secret); err == nil {
		return b
	}
	return []byte(secret)
}
