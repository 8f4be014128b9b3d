package erasite

import (
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/erasite/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// meta builds the layout data every page needs.
func (a *App) meta(c echo.Context, title string) views.Meta {
	return views.Meta{
		SiteName:    a.Config.Name,
		SiteURL:     a.Config.URL,
		Title:       title,
		Description: a.Config.Description,
		CSRFToken:   CsrfToken(c),
		Principal:   PrincipalFrom(c),
		Year:        time.Now().Year(),
	}
}

// acceptsJSON reports whether the client asked for JSON via Accept.
func acceptsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// sentJSON reports whether the request body is JSON.
func sentJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// wantsJSONError decides how errors are reported: JSON for API clients and
// scripted writes, an HTML page for browser navigation.
func wantsJSONError(c echo.Context) bool {
	if acceptsJSON(c) || sentJSON(c) {
		return true
	}
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML) {
		return false
	}
	m := c.Request().Method
	return m != http.MethodGet && m != http.MethodHead
}

func jsonOK(c echo.Context, fields echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}
