package erasite

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/views"
)

func (a *App) handleIndex(c echo.Context) error {
	eras, err := a.Cache.ListEras(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return Render(c, views.Index(views.ListData{
		Meta: a.meta(c, ""),
		Eras: eras,
	}))
}

func (a *App) handleEras(c echo.Context) error {
	ctx := c.Request().Context()
	eras, err := a.Cache.ListEras(ctx, c.QueryParam("tag"))
	if err != nil {
		return err
	}
	if acceptsJSON(c) {
		return jsonOK(c, echo.Map{"eras": eras})
	}
	tags, err := a.Cache.ListTags(ctx)
	if err != nil {
		return err
	}
	return Render(c, views.Eras(views.ListData{
		Meta: a.meta(c, titleEras),
		Eras: eras,
		Tags: tags,
	}))
}

func (a *App) handleEra(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c.Param("id"), "era")
	if err != nil {
		return apperror.NotFoundMessage(msgEraNotFound)
	}
	era, err := a.Store.GetEra(ctx, id)
	if err != nil {
		return localizeNotFound(err, msgEraNotFound)
	}
	comments, err := a.Store.ListComments(ctx, id)
	if err != nil {
		return err
	}
	if acceptsJSON(c) {
		return jsonOK(c, echo.Map{"era": era, "comments": comments})
	}
	return Render(c, views.Era(views.EraData{
		Meta:     a.meta(c, era.Title),
		Era:      era,
		Comments: comments,
	}))
}

func (a *App) handleFeed(c echo.Context) error {
	eras, err := a.Cache.ListEras(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, eras)
}

func (a *App) handleSitemap(c echo.Context) error {
	eras, err := a.Cache.ListEras(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, eras)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("Sitemap: " + BuildURL(a.Config.URL, "sitemap.xml") + "\n")
	return c.String(http.StatusOK, b.String())
}

// localizeNotFound swaps the store's English not-found message for the
// visitor-facing one and passes every other error through.
func localizeNotFound(err error, message string) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFoundMessage(message)
	}
	return err
}

// httpErrorHandler is the single place errors become responses. AppErrors
// carry their own status, echo errors keep theirs, everything else is a 500
// that gets logged and hidden from the visitor.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := msgServerError
	var fields map[string]string

	var appErr *apperror.AppError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = apperror.HTTPStatus(appErr)
		message = appErr.Message
		fields = appErr.Fields
		if fields == nil && appErr.Field != "" {
			fields = map[string]string{appErr.Field: appErr.Message}
		}
	case errors.As(err, &he):
		code = he.Code
		switch code {
		case http.StatusNotFound:
			message = msgPageNotFound
		case http.StatusForbidden:
			message = msgForbidden
		case http.StatusTooManyRequests:
			message = msgTooManyRequests
		default:
			if code < 500 {
				message = msgBadRequest
			}
		}
	}

	if code >= 500 {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		message = msgServerError
		fields = nil
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	if wantsJSONError(c) {
		body := echo.Map{"error": message}
		if len(fields) > 0 {
			body["fields"] = fields
		}
		_ = c.JSON(code, body)
		return
	}

	m := a.meta(c, titleError)
	if code == http.StatusNotFound {
		m.Title = msgPageNotFound
		_ = RenderStatus(c, code, views.NotFound(m, message))
		return
	}
	_ = RenderStatus(c, code, views.Error(views.ErrorData{Meta: m, Status: code, Message: message}))
}
