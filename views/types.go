package views

import "github.com/eringen/erasite/model"

// Meta is embedded in every page's data and feeds the shared layout.
type Meta struct {
	SiteName    string
	SiteURL     string
	Title       string
	Description string
	CSRFToken   string
	Principal   model.Principal
	Year        int // footer copyright year
}

// IsAdmin is a template shortcut for .Principal.IsAdmin.
func (m Meta) IsAdmin() bool {
	return m.Principal.IsAdmin
}

type ListData struct {
	Meta
	Eras []model.Era
	Tags []model.Tag
}

type EraData struct {
	Meta
	Era      model.Era
	Comments []model.Comment
}

type FeedbackForm struct {
	Name    string
	Email   string
	Message string
}

type FeedbackData struct {
	Meta
	Form    FeedbackForm
	Error   string
	Success string
}

type LoginData struct {
	Meta
	Username string
	Error    string
}

type DashboardData struct {
	Meta
	Eras         []model.Era
	Feedback     []model.Feedback
	CommentCount int
}

type ErrorData struct {
	Meta
	Status  int
	Message string
}
