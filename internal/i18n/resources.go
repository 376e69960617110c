package i18n

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed resources.yaml
var defaultResources []byte

// Entry is a translation leaf. Plain string leaves only carry Text.
type Entry struct {
	Text    string
	Plural  map[string]string
	Context map[string]string
}

// Resources maps a language to its flattened dotted keys.
type Resources map[string]map[string]Entry

// DefaultResources parses the embedded translation file.
func DefaultResources() (Resources, error) {
	return ParseResources(defaultResources)
}

// ParseResources reads a YAML document whose top level keys are languages
// and whose nested sections end in either a string or a mapping with a
// text field.
func ParseResources(data []byte) (Resources, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse translations: %w", err)
	}

	res := make(Resources, len(raw))
	for lang, section := range raw {
		node, ok := section.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("language %q: expected a mapping", lang)
		}
		flat := make(map[string]Entry)
		if err := flatten("", node, flat); err != nil {
			return nil, fmt.Errorf("language %q: %w", lang, err)
		}
		res[lang] = flat
	}
	return res, nil
}

// Languages returns the languages present, sorted.
func (r Resources) Languages() []string {
	langs := make([]string, 0, len(r))
	for lang := range r {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func flatten(prefix string, node map[string]any, out map[string]Entry) error {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[path] = Entry{Text: v}
		case map[string]any:
			if text, ok := v["text"].(string); ok {
				entry, err := leaf(text, v)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				out[path] = entry
				continue
			}
			if err := flatten(path, v, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: unsupported value %T", path, value)
		}
	}
	return nil
}

func leaf(text string, node map[string]any) (Entry, error) {
	entry := Entry{Text: text}
	var err error
	if entry.Plural, err = stringMap(node["plural"]); err != nil {
		return Entry{}, fmt.Errorf("plural: %w", err)
	}
	if entry.Context, err = stringMap(node["context"]); err != nil {
		return Entry{}, fmt.Errorf("context: %w", err)
	}
	return entry, nil
}

func stringMap(v any) (map[string]string, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected a string, got %T", k, val)
		}
		out[k] = s
	}
	return out, nil
}
