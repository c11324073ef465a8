package config

import (
	"time"

	"github.com/spf13/viper"
)

// LookupMode selects how the notes page resolves a book id.
type LookupMode string

const (
	LookupModeStore   LookupMode = "store"   // Read-through cache over the store (default)
	LookupModeListing LookupMode = "listing" // Only ids shown by the last home listing resolve
)

type (
	Config struct {
		HTTP
		Database
		UI
		Global
		Lookup
		Covers
		Tasks
		Sessions
		CSRF
		Metrics
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Driver string // sqlite, postgres or mysql
		Path   string // SQLite file path
		DSN    string // Postgres/MySQL connection string
	}
	UI struct {
		TemplatesPath string // Empty means use the embedded templates
		StaticPath    string // Empty means use the embedded assets
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Lookup struct {
		Mode LookupMode
		TTL  time.Duration
	}
	Covers struct {
		Enabled bool
		Dir     string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		CoverWarmSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Sessions struct {
		Enabled       bool
		Lifetime      time.Duration
		SecureCookies bool
	}
	CSRF struct {
		Secret        string // Empty disables CSRF protection
		SecureCookies bool
	}
	Metrics struct {
		Enabled bool
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_driver", DefaultDatabaseDriver)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "")

	v.SetDefault("notes_lookup_mode", string(LookupModeStore))
	v.SetDefault("notes_lookup_ttl", "5m")

	v.SetDefault("covers_enabled", true)
	v.SetDefault("covers_dir", DefaultCoversDir)

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("cover_warm_schedule", "0 3 * * *")

	v.SetDefault("sessions_enabled", true)
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secure_cookies", false)

	v.SetDefault("csrf_secret", "")
	v.SetDefault("csrf_secure_cookies", false)

	v.SetDefault("metrics_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Lookup: Lookup{
			Mode: LookupMode(v.GetString("NOTES_LOOKUP_MODE")),
			TTL:  v.GetDuration("NOTES_LOOKUP_TTL"),
		},
		Covers: Covers{
			Enabled: v.GetBool("COVERS_ENABLED"),
			Dir:     v.GetString("COVERS_DIR"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			CoverWarmSchedule: v.GetString("COVER_WARM_SCHEDULE"),
		},
		Sessions: Sessions{
			Enabled:       v.GetBool("SESSIONS_ENABLED"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
		},
		CSRF: CSRF{
			Secret:        v.GetString("CSRF_SECRET"),
			SecureCookies: v.GetBool("CSRF_SECURE_COOKIES"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}
