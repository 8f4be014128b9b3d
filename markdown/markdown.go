// Package markdown renders the small Markdown subset used in era
// descriptions: paragraphs, ## and ### headings, "- " lists, "> " quotes,
// emphasis, inline code and links. Everything else is escaped text.
package markdown

import (
	"html"
	"html/template"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

type blockKind int

const (
	blockNone blockKind = iota
	blockPara
	blockList
	blockQuote
)

var closers = map[blockKind]string{
	blockPara:  "</p>",
	blockList:  "</ul>",
	blockQuote: "</blockquote>",
}

// HTML renders md for use inside html/template pages.
func HTML(md string) template.HTML {
	return template.HTML(Render(md)) //nolint:gosec // input is escaped by Inline
}

// Render converts md to HTML.
func Render(md string) string {
	var b strings.Builder
	open := blockNone

	enter := func(k blockKind, tag string) bool {
		if open == k {
			return false
		}
		b.WriteString(closers[open])
		b.WriteString(tag)
		open = k
		return true
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r ")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			b.WriteString(closers[open])
			open = blockNone
		case strings.HasPrefix(trimmed, "### "):
			enter(blockNone, "")
			b.WriteString("<h4>" + Inline(trimmed[4:]) + "</h4>")
		case strings.HasPrefix(trimmed, "## "):
			enter(blockNone, "")
			b.WriteString("<h3>" + Inline(trimmed[3:]) + "</h3>")
		case strings.HasPrefix(trimmed, "- "):
			enter(blockList, "<ul>")
			b.WriteString("<li>" + Inline(trimmed[2:]) + "</li>")
		case strings.HasPrefix(trimmed, "> "):
			if !enter(blockQuote, "<blockquote>") {
				b.WriteString("<br/>")
			}
			b.WriteString(Inline(trimmed[2:]))
		default:
			if !enter(blockPara, "<p>") {
				b.WriteString(" ")
			}
			b.WriteString(Inline(trimmed))
		}
	}
	b.WriteString(closers[open])
	return b.String()
}

// Inline escapes s and applies emphasis, code spans and links.
func Inline(s string) string {
	escaped := html.EscapeString(s)

	// code spans are swapped out first so emphasis never reaches them
	var spans []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		spans = append(spans, "<code>"+reInlineCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})

	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		return `<a href="` + href + `" rel="noopener">` + match[1] + `</a>`
	})

	escaped = outsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		return reItalic.ReplaceAllString(seg, "<em>$1</em>")
	})

	for i, span := range spans {
		escaped = strings.Replace(escaped, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return escaped
}

// outsideTags applies fn to text between HTML tags only, so href values
// are never rewritten.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// isLocalPath reports whether val is a path on this site. "//host" and
// "/\host" are read by browsers as links to another host.
func isLocalPath(val string) bool {
	if !strings.HasPrefix(val, "/") {
		return false
	}
	return len(val) == 1 || (val[1] != '/' && val[1] != '\\')
}

// SafeURL returns an attribute-escaped URL, or "" for schemes other than
// http, https and mailto. Relative paths are allowed.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "#") || isLocalPath(val) {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto":
		return html.EscapeString(val)
	default:
		return ""
	}
}
