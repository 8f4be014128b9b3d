package erasite

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/model"
	"github.com/eringen/erasite/views"
)

const defaultEraImage = "/images/default.jpg"

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// eraRequest is shared by create and update. Tags arrive as one
// comma-separated string. Years only have to be present: 0 and reversed
// ranges are stored as given.
type eraRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"required"`
	StartYear   *int   `json:"start_year" form:"start_year" validate:"required"`
	EndYear     *int   `json:"end_year" form:"end_year" validate:"required"`
	Tags        string `json:"tags" form:"tags"`
}

func (r eraRequest) input(imageURL string) model.EraInput {
	return model.EraInput{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		StartYear:   *r.StartYear,
		EndYear:     *r.EndYear,
		ImageURL:    imageURL,
		Tags:        SplitTags(r.Tags),
	}
}

func (a *App) bindEra(c echo.Context) (eraRequest, error) {
	var req eraRequest
	if err := bindRequest(c, &req); err != nil {
		return req, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	// the form binder turns an empty field into 0
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if strings.TrimSpace(c.FormValue("start_year")) == "" {
			req.StartYear = nil
		}
		if strings.TrimSpace(c.FormValue("end_year")) == "" {
			req.EndYear = nil
		}
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (a *App) handleAdmin(c echo.Context, _ model.Principal) error {
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (a *App) handleLoginPage(c echo.Context) error {
	if PrincipalFrom(c).IsAdmin {
		return c.Redirect(http.StatusSeeOther, "/admin/dashboard")
	}
	return Render(c, views.AdminLogin(views.LoginData{Meta: a.meta(c, titleLogin)}))
}

// handleLogin checks credentials against the users table. Unknown users and
// wrong passwords get the same answer and cost the same bcrypt work.
func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	var req loginRequest
	_ = c.Bind(&req)
	req.Username = strings.TrimSpace(req.Username)

	data := views.LoginData{Meta: a.meta(c, titleLogin), Username: req.Username}

	if !a.loginLimiter.Check(ip) {
		c.Logger().Warnf("login rate limited for %s", ip)
		data.Error = msgTooManyAttempts
		return RenderStatus(c, http.StatusTooManyRequests, views.AdminLogin(data))
	}

	user, err := a.authenticate(c, req)
	if err != nil {
		if !errors.Is(err, errBadCredentials) {
			return err
		}
		a.loginLimiter.Record(ip)
		c.Logger().Warnf("failed login for %q from %s", req.Username, ip)
		data.Error = msgInvalidCredentials
		return RenderStatus(c, http.StatusUnauthorized, views.AdminLogin(data))
	}

	a.loginLimiter.Reset(ip)
	if err := setUserSession(c, user); err != nil {
		return err
	}
	c.Logger().Infof("user %s signed in", user.Username)
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

var errBadCredentials = errors.New("bad credentials")

func (a *App) authenticate(c echo.Context, req loginRequest) (model.User, error) {
	if req.Username == "" || req.Password == "" {
		a.Passwords.VerifyMissing(req.Password)
		return model.User{}, errBadCredentials
	}
	user, err := a.Store.GetUserByUsername(c.Request().Context(), req.Username)
	if errors.Is(err, apperror.ErrNotFound) {
		a.Passwords.VerifyMissing(req.Password)
		return model.User{}, errBadCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	if err := a.Passwords.Verify(user.PasswordHash, req.Password); err != nil {
		return model.User{}, errBadCredentials
	}
	return user, nil
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleDashboard(c echo.Context, _ model.Principal) error {
	ctx := c.Request().Context()
	eras, err := a.Store.ListEras(ctx)
	if err != nil {
		return err
	}
	feedback, err := a.Store.ListFeedback(ctx)
	if err != nil {
		return err
	}
	count, err := a.Store.CountComments(ctx)
	if err != nil {
		return err
	}
	return Render(c, views.AdminDashboard(views.DashboardData{
		Meta:         a.meta(c, titleDashboard),
		Eras:         eras,
		Feedback:     feedback,
		CommentCount: count,
	}))
}

func (a *App) handleEraCreate(c echo.Context, p model.Principal) error {
	req, err := a.bindEra(c)
	if err != nil {
		return err
	}
	imageURL, err := a.saveUpload(c)
	if err != nil {
		return err
	}
	if imageURL == "" {
		imageURL = defaultEraImage
	}
	id, err := a.Store.CreateEra(c.Request().Context(), req.input(imageURL))
	if err != nil {
		a.discardUpload(imageURL)
		return err
	}
	a.Cache.Invalidate()
	c.Logger().Infof("era %d created by %s", id, p.Username)
	return jsonOK(c, echo.Map{"id": id})
}

func (a *App) handleEraUpdate(c echo.Context, p model.Principal) error {
	id, err := parseID(c.Param("id"), "era")
	if err != nil {
		return apperror.NotFoundMessage(msgEraNotFound)
	}
	req, err := a.bindEra(c)
	if err != nil {
		return err
	}
	imageURL, err := a.saveUpload(c)
	if err != nil {
		return err
	}
	if err := a.Store.UpdateEra(c.Request().Context(), id, req.input(imageURL)); err != nil {
		a.discardUpload(imageURL)
		return localizeNotFound(err, msgEraNotFound)
	}
	a.Cache.Invalidate()
	c.Logger().Infof("era %d updated by %s", id, p.Username)
	return jsonOK(c, nil)
}

func (a *App) handleEraDelete(c echo.Context, p model.Principal) error {
	id, err := parseID(c.Param("id"), "era")
	if err != nil {
		return apperror.NotFoundMessage(msgEraNotFound)
	}
	if err := a.Store.DeleteEra(c.Request().Context(), id); err != nil {
		return localizeNotFound(err, msgEraNotFound)
	}
	a.Cache.Invalidate()
	c.Logger().Infof("era %d deleted by %s", id, p.Username)
	return jsonOK(c, nil)
}

// discardUpload removes a file saved for a write that then failed.
func (a *App) discardUpload(imageURL string) {
	if imageURL == "" || imageURL == defaultEraImage {
		return
	}
	name := filepath.Base(imageURL)
	_ = os.Remove(filepath.Join(a.Config.StaticDir, "images", name))
}
