package erasite

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/model"
)

const (
	sessionName  = "erasite_session"
	principalKey = "principal"
)

func (a *App) setupMiddleware() error {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.BodyLimit("12M"))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/images/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:; form-action 'self'",
		HSTSMaxAge:            31536000,
	}))

	store, err := a.newSessionStore()
	if err != nil {
		return err
	}
	e.Use(session.Middleware(store))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			c.Logger().Warnf("csrf rejected %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
			return apperror.Forbidden(msgForbidden)
		},
	}))

	e.Use(principalMiddleware)
	e.Use(cacheControlMiddleware)
	return nil
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/assets/"), strings.HasPrefix(path, "/images/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		default:
			// pages carry the session principal and a CSRF token
			c.Response().Header().Set("Cache-Control", "no-store")
		}
		return next(c)
	}
}

// newSessionStore keeps session data on disk; the cookie only carries the
// signed session id.
func (a *App) newSessionStore() (*sessions.FilesystemStore, error) {
	if err := os.MkdirAll(a.Config.SessionDir, 0o700); err != nil {
		return nil, err
	}
	store := sessions.NewFilesystemStore(a.Config.SessionDir, []byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(a.Config.SessionMaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store, nil
}

// publicWriteLimiter throttles anonymous writes (comments, feedback) per IP.
func (a *App) publicWriteLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(a.Config.PublicWriteRate),
		Burst:     a.Config.PublicWriteBurst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			c.Logger().Warnf("rate limited %s on %s", identifier, c.Request().URL.Path)
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": msgTooManyRequests})
		},
	})
}

// principalMiddleware loads the caller from the session once per request.
func principalMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(principalKey, loadPrincipal(c))
		return next(c)
	}
}

func loadPrincipal(c echo.Context) model.Principal {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return model.Principal{}
	}
	id, _ := sess.Values["user_id"].(int64)
	if id == 0 {
		return model.Principal{}
	}
	username, _ := sess.Values["username"].(string)
	isAdmin, _ := sess.Values["is_admin"].(bool)
	return model.Principal{ID: id, Username: username, IsAdmin: isAdmin}
}

// PrincipalFrom returns the caller loaded by the principal middleware.
func PrincipalFrom(c echo.Context) model.Principal {
	p, _ := c.Get(principalKey).(model.Principal)
	return p
}

// adminOnly guards h. Browsers navigating without an admin session are sent
// to the login page; every other request gets 403.
func (a *App) adminOnly(h func(c echo.Context, p model.Principal) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := PrincipalFrom(c)
		if !p.IsAdmin {
			if c.Request().Method == http.MethodGet && !acceptsJSON(c) {
				return c.Redirect(http.StatusSeeOther, "/admin/login")
			}
			return apperror.Forbidden(msgForbidden)
		}
		return h(c, p)
	}
}

func setUserSession(c echo.Context, u model.User) error {
	sess, err := session.Get(sessionName, c)
	if err != nil && sess == nil {
		return err
	}
	sess.Values["user_id"] = u.ID
	sess.Values["username"] = u.Username
	sess.Values["is_admin"] = u.IsAdmin
	return sess.Save(c.Request(), c.Response())
}

func clearUserSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil && sess == nil {
		return err
	}
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
