package erasite

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/eringen/erasite/apperror"
)

// SplitTags turns the admin's comma-separated tag field into tag names:
// entries are trimmed, empty ones dropped, repeats collapsed. Matching is
// exact, so "3D" and "3d" are different tags.
func SplitTags(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ParseTags splits a group_concat tag list into a slice. It never returns
// nil so JSON renders an empty list as [].
func ParseTags(list string) []string {
	if list == "" {
		return []string{}
	}
	return strings.Split(list, ",")
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) == 0 && u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// parseID reads a positive integer id; anything else is reported as a
// missing resource.
func parseID(raw, resource string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &apperror.AppError{
			Err:     apperror.ErrNotFound,
			Message: resource + " not found with id " + raw,
		}
	}
	return id, nil
}
