package content

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults holds the built-in content tree of every page, keyed by page id.
type Defaults map[string]Tree

type defaultsFile struct {
	Pages map[string]map[string]any `yaml:"pages"`
}

// LoadDefaults reads a YAML document of the form
//
//	pages:
//	  home:
//	    hero:
//	      title: Welcome
func LoadDefaults(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}
	return ParseDefaults(data)
}

// ParseDefaults decodes the defaults document. Page ids must be valid.
func ParseDefaults(data []byte) (Defaults, error) {
	var f defaultsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	d := make(Defaults, len(f.Pages))
	for id, page := range f.Pages {
		if err := ValidatePageID(id); err != nil {
			return nil, err
		}
		d[id] = normalizeYAML(page).(Tree)
	}
	return d, nil
}

// Page returns the defaults of a page.
func (d Defaults) Page(pageID string) (Tree, bool) {
	t, ok := d[pageID]
	return t, ok
}

// normalizeYAML turns YAML mappings into Trees. Mappings with non-string
// keys get their keys formatted with %v.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(Tree, len(x))
		for k, e := range x {
			out[k] = normalizeYAML(e)
		}
		return out
	case map[any]any:
		out := make(Tree, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeYAML(e)
		}
		return out
	}
	return v
}
