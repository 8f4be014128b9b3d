package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/erasite/markdown"
	"github.com/eringen/erasite/model"
)

var funcs = template.FuncMap{
	"markdown": markdown.HTML,
	"joinTags": JoinTags,
	"date":     FormatDate,
	"years":    Years,
	"eraJSONLD": func(site Meta, era model.Era) template.JS {
		return template.JS(EraJSONLD(site, era)) //nolint:gosec // json.Marshal output
	},
}

// buildURL joins path segments onto a base URL.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// FormatDate renders t the way Russian readers expect (02.01.2006 15:04).
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006 15:04")
}

// Years renders an era's span, e.g. "1970–1985".
func Years(e model.Era) string {
	return strconv.Itoa(e.StartYear) + "–" + strconv.Itoa(e.EndYear)
}

// EraJSONLD produces a Schema.org CreativeWork block for an era page.
func EraJSONLD(site Meta, era model.Era) string {
	data := map[string]any{
		"@context":     "https://schema.org",
		"@type":        "CreativeWork",
		"name":         era.Title,
		"temporal":     strconv.Itoa(era.StartYear) + "/" + strconv.Itoa(era.EndYear),
		"url":          buildURL(site.SiteURL, "eras", strconv.FormatInt(era.ID, 10)),
		"dateCreated":  era.CreatedAt.Format("2006-01-02"),
		"isPartOf":     map[string]string{"@type": "WebSite", "name": site.SiteName},
		"thumbnailUrl": buildURL(site.SiteURL, era.ImageURL),
	}
	if len(era.Tags) > 0 {
		data["keywords"] = strings.Join(era.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
