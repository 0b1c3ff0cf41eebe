package configadapter

import (
	"strings"

	"github.com/goliatone/go-langtheme/catalog"
)

// NewCatalog builds a static language catalog from a map of language id to
// either a display name or a map with name, location and dir entries.
func NewCatalog(data map[string]any) *catalog.StaticCatalog {
	langs := make([]catalog.Language, 0, len(data))
	for id, value := range data {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		lang, ok := languageFromValue(value)
		if !ok {
			continue
		}
		lang.ID = id
		langs = append(langs, lang)
	}
	return catalog.NewStatic(langs...)
}

func languageFromValue(value any) (catalog.Language, bool) {
	switch typed := value.(type) {
	case string:
		return catalog.Language{Name: strings.TrimSpace(typed)}, true
	case map[string]any:
		return languageFromMap(typed), true
	case map[string]string:
		raw := map[string]any{}
		for key, val := range typed {
			raw[key] = val
		}
		return languageFromMap(raw), true
	case nil:
		return catalog.Language{}, true
	default:
		return catalog.Language{}, false
	}
}

func languageFromMap(data map[string]any) catalog.Language {
	lang := catalog.Language{}
	if val, ok := data["name"].(string); ok {
		lang.Name = strings.TrimSpace(val)
	}
	if val, ok := data["location"].(string); ok {
		lang.Location = strings.TrimSpace(val)
	}
	if val, ok := data["dir"].(string); ok {
		lang.Dir = strings.TrimSpace(val)
	}
	if val, ok := data["selected"].(bool); ok {
		lang.Selected = val
	}
	return lang
}
