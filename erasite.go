// Package erasite is a small content site about the history of game design,
// built with Go, Echo, and SQLite.
//
// Visitors browse eras of game design, filter them by tag and year, leave
// comments and send feedback. Administrators sign in to create, edit and
// delete eras and to moderate comments and feedback.
package erasite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/eringen/erasite/auth"
	"github.com/eringen/erasite/validation"
)

// App wires together the storage, cache, handlers and middleware.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Store     Storage
	Cache     *EraCache
	Passwords *auth.PasswordService

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	ownsStore    bool
	ready        bool
}

// New creates an App with the given configuration. Nothing is opened until
// Setup or Start.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens storage when none was injected and registers middleware and
// routes. It is called by Start; tests call it directly and drive a.Echo.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("erasite: SessionSecret is required")
	}

	a.Echo.Logger.SetLevel(a.Config.logLevel())

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath, a.Config.MaxOpenConns)
		if err != nil {
			return fmt.Errorf("erasite: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	a.Cache = NewEraCache(a.Store, a.Config.EraCacheTTL)

	if a.Passwords == nil {
		a.Passwords = auth.NewPasswordService()
	}

	a.loginLimiter = NewLoginLimiter(a.Config.LoginAttempts, a.Config.LoginWindow)

	a.Echo.Validator = validation.New(msgRequiredFields, msgInvalidFields)

	if err := a.setupMiddleware(); err != nil {
		return fmt.Errorf("erasite: init middleware: %w", err)
	}

	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

// Start sets the App up and serves until Shutdown is called.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("listening on %s", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.StaticFS("/assets", assets)
	e.Static("/images", filepath.Join(a.Config.StaticDir, "images"))

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public pages
	e.GET("/", a.handleIndex)
	e.GET("/eras", a.handleEras)
	e.GET("/eras/:id", a.handleEra)
	e.GET("/feedback", a.handleFeedbackPage)

	// Public writes
	limit := a.publicWriteLimiter()
	e.POST("/feedback", a.handleFeedbackSubmit, limit)
	e.POST("/feedback/comment/:eraId", a.handleCommentCreate, limit)
	e.POST("/eras/:id/comments", a.handleCommentForm, limit)

	// Moderation
	e.DELETE("/feedback/comment/:id", a.adminOnly(a.handleCommentDelete))
	e.DELETE("/admin/comments/:id", a.adminOnly(a.handleCommentDelete))
	e.DELETE("/admin/feedback/:id", a.adminOnly(a.handleFeedbackDelete))

	// Admin
	e.GET("/admin", a.adminOnly(a.handleAdmin))
	e.GET("/admin/login", a.handleLoginPage)
	e.POST("/admin/login", a.handleLogin)
	e.GET("/admin/logout", a.handleLogout)
	e.POST("/admin/logout", a.handleLogout)
	e.GET("/admin/dashboard", a.adminOnly(a.handleDashboard))
	e.POST("/admin/eras", a.adminOnly(a.handleEraCreate))
	e.PUT("/admin/eras/:id", a.adminOnly(a.handleEraUpdate))
	e.DELETE("/admin/eras/:id", a.adminOnly(a.handleEraDelete))
}

// Close releases what Setup acquired. Storage injected with WithStorage is
// left open.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.ownsStore && a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
