// Package views holds the site's HTML pages. Pages are html/template files
// sharing one layout and are exposed as templ components so handlers render
// them the same way as any other component.
package views

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"index.html",
		"eras.html",
		"era.html",
		"feedback.html",
		"admin_login.html",
		"admin_dashboard.html",
		"error.html",
	} {
		pages[name] = template.Must(
			template.New("layout.html").
				Funcs(funcs).
				ParseFS(templateFS, "templates/layout.html", "templates/"+name),
		)
	}
}

func page(name string, data any) templ.Component {
	t, ok := pages[name]
	if !ok {
		panic(fmt.Sprintf("views: unknown page %q", name))
	}
	return templ.FromGoHTML(t, data)
}

func Index(d ListData) templ.Component {
	return page("index.html", d)
}

func Eras(d ListData) templ.Component {
	return page("eras.html", d)
}

func Era(d EraData) templ.Component {
	return page("era.html", d)
}

func Feedback(d FeedbackData) templ.Component {
	return page("feedback.html", d)
}

func AdminLogin(d LoginData) templ.Component {
	return page("admin_login.html", d)
}

func AdminDashboard(d DashboardData) templ.Component {
	return page("admin_dashboard.html", d)
}

// Error renders the shared error page; NotFound is a 404 variant of it.
func Error(d ErrorData) templ.Component {
	return page("error.html", d)
}

func NotFound(m Meta, message string) templ.Component {
	if m.Title == "" {
		m.Title = "Страница не найдена"
	}
	return Error(ErrorData{Meta: m, Status: 404, Message: message})
}
