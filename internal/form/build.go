package form

import (
	"strings"

	"github.com/five82/shelf/internal/api"
)

// Build turns the form contents into a request body. The name and keys
// are trimmed, rows with an empty key are dropped, and Data is nil when no
// rows remain. A repeated key keeps its first position and its last value.
func Build(name string, fields []Field) api.Input {
	var data api.Attributes
	for _, f := range fields {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			continue
		}
		data = data.Set(key, f.Coerce())
	}
	return api.Input{Name: strings.TrimSpace(name), Data: data}
}

// BuildPatch is Build for partial updates: a nil name leaves the name
// alone and no rows leaves the data alone.
func BuildPatch(name *string, fields []Field) api.Patch {
	in := Build("", fields)
	patch := api.Patch{Data: in.Data}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		patch.Name = &trimmed
	}
	return patch
}
