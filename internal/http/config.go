package http

import (
	"github.com/mrlokans/booknotes/internal/metrics"
	"github.com/mrlokans/booknotes/internal/sessions"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional parts are nil when disabled.
type RouterConfig struct {
	Library Library
	Lookup  BookResolver

	// Optional
	CoverCache CoverStore
	Database   Pinger
	Sessions   *sessions.Manager
	Metrics    *metrics.Metrics
	TaskQueue  TaskQueue

	// CSRF protection is enabled when the secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// Empty paths use the embedded templates and assets
	TemplatesPath string
	StaticPath    string

	Version string
}
