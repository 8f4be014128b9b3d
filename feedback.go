package erasite

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/model"
	"github.com/eringen/erasite/views"
)

type commentRequest struct {
	Nickname string `json:"nickname" form:"nickname" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,max=100"`
	Content  string `json:"content" form:"content" validate:"required,max=5000"`
}

func (r *commentRequest) trim() {
	r.Nickname = strings.TrimSpace(r.Nickname)
	r.Email = strings.TrimSpace(r.Email)
	r.Content = strings.TrimSpace(r.Content)
}

// commentFormRequest is the plain HTML form on the era page. Email is optional.
type commentFormRequest struct {
	Author  string `form:"author" validate:"required,max=100"`
	Email   string `form:"email" validate:"max=100"`
	Content string `form:"content" validate:"required,max=5000"`
}

type feedbackRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,max=100"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

func (r *feedbackRequest) trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
}

// bindRequest binds the body into req and reports malformed bodies as a
// validation failure instead of echo's bare 400.
func bindRequest(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return err
		}
		return &apperror.AppError{Err: apperror.ErrValidation, Message: msgBadRequest}
	}
	return nil
}

func (a *App) handleCommentCreate(c echo.Context) error {
	eraID, err := parseID(c.Param("eraId"), "era")
	if err != nil {
		return apperror.NotFoundMessage(msgEraNotFound)
	}
	var req commentRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}
	req.trim()
	if err := c.Validate(&req); err != nil {
		return err
	}
	id, err := a.Store.CreateComment(c.Request().Context(), model.Comment{
		EraID:    eraID,
		Nickname: req.Nickname,
		Email:    req.Email,
		Content:  req.Content,
	})
	if err != nil {
		return localizeNotFound(err, msgEraNotFound)
	}
	c.Logger().Infof("comment %d added to era %d", id, eraID)
	return jsonOK(c, echo.Map{"commentId": id})
}

func (a *App) handleCommentForm(c echo.Context) error {
	eraID, err := parseID(c.Param("id"), "era")
	if err != nil {
		return apperror.NotFoundMessage(msgEraNotFound)
	}
	var req commentFormRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}
	req.Author = strings.TrimSpace(req.Author)
	req.Email = strings.TrimSpace(req.Email)
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := a.Store.CreateComment(c.Request().Context(), model.Comment{
		EraID:    eraID,
		Nickname: req.Author,
		Email:    req.Email,
		Content:  req.Content,
	}); err != nil {
		return localizeNotFound(err, msgEraNotFound)
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/eras/%d#comments", eraID))
}

func (a *App) handleCommentDelete(c echo.Context, p model.Principal) error {
	id, err := parseID(c.Param("id"), "comment")
	if err != nil {
		return apperror.NotFoundMessage(msgCommentNotFound)
	}
	if err := a.Store.DeleteComment(c.Request().Context(), id); err != nil {
		return localizeNotFound(err, msgCommentNotFound)
	}
	c.Logger().Infof("comment %d deleted by %s", id, p.Username)
	return jsonOK(c, nil)
}

func (a *App) handleFeedbackPage(c echo.Context) error {
	return Render(c, views.Feedback(views.FeedbackData{Meta: a.meta(c, titleFeedback)}))
}

// handleFeedbackSubmit answers JSON posts with JSON and re-renders the page
// for plain form posts, keeping what the visitor typed on failure.
func (a *App) handleFeedbackSubmit(c echo.Context) error {
	var req feedbackRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}
	req.trim()

	asJSON := sentJSON(c) || acceptsJSON(c)
	data := views.FeedbackData{
		Meta: a.meta(c, titleFeedback),
		Form: views.FeedbackForm{Name: req.Name, Email: req.Email, Message: req.Message},
	}

	if err := c.Validate(&req); err != nil {
		var appErr *apperror.AppError
		if asJSON || !errors.As(err, &appErr) {
			return err
		}
		data.Error = appErr.Message
		return RenderStatus(c, http.StatusBadRequest, views.Feedback(data))
	}

	id, err := a.Store.CreateFeedback(c.Request().Context(), model.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	c.Logger().Infof("feedback %d received", id)

	if asJSON {
		return jsonOK(c, echo.Map{"id": id, "message": msgFeedbackThanks})
	}
	data.Form = views.FeedbackForm{}
	data.Success = msgFeedbackThanks
	return Render(c, views.Feedback(data))
}

func (a *App) handleFeedbackDelete(c echo.Context, p model.Principal) error {
	id, err := parseID(c.Param("id"), "feedback")
	if err != nil {
		return apperror.NotFoundMessage(msgFeedbackNotFound)
	}
	if err := a.Store.DeleteFeedback(c.Request().Context(), id); err != nil {
		return localizeNotFound(err, msgFeedbackNotFound)
	}
	c.Logger().Infof("feedback %d deleted by %s", id, p.Username)
	return jsonOK(c, nil)
}
