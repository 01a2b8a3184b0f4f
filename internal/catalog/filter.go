package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/shelf/internal/api"
)

// Filter keeps the objects whose name, or serialized data, contains term
// case-insensitively. A blank term returns objects itself.
func Filter(objects []api.Object, term string) []api.Object {
	if strings.TrimSpace(term) == "" {
		return objects
	}
	lower := cases.Lower(language.Und)
	needle := lower.String(term)

	out := make([]api.Object, 0, len(objects))
	for _, obj := range objects {
		if Matches(obj, needle, lower) {
			out = append(out, obj)
		}
	}
	return out
}

// Matches reports whether obj contains the already lower-cased needle.
func Matches(obj api.Object, needle string, lower cases.Caser) bool {
	if strings.Contains(lower.String(obj.Name), needle) {
		return true
	}
	if obj.Data == nil {
		return false
	}
	return strings.Contains(lower.String(obj.Data.Serialize()), needle)
}
