// Package i18n translates user-facing text into English and Bulgarian.
//
// Lookups consult database overrides first, then the embedded resources for
// the requested language, then the fallback language, then the legacy key
// map. Keys that are still missing resolve to a readable form of the key.
package i18n

import (
	"fmt"
	"maps"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// Supported languages.
const (
	English   = "en"
	Bulgarian = "bg"
)

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Params are the values substituted into {{name}} placeholders.
type Params map[string]any

// Override is a translation stored in the database. It wins over the
// embedded resources.
type Override struct {
	Key       string
	English   string
	Bulgarian string
	Category  string
	Context   *string
}

// Text returns the override text for lang.
func (o Override) Text(lang string) string {
	if lang == Bulgarian {
		return o.Bulgarian
	}
	return o.English
}

// Options configures an Engine.
type Options struct {
	DefaultLanguage  string
	FallbackLanguage string
	Debug            bool
}

// Engine resolves translation keys. It is safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	static    Resources
	overrides map[string]Override
	opts      Options
}

// NewEngine creates an engine over the given static resources.
func NewEngine(static Resources, opts Options) *Engine {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = English
	}
	if opts.FallbackLanguage == "" {
		opts.FallbackLanguage = English
	}
	return &Engine{
		static:    static,
		overrides: make(map[string]Override),
		opts:      opts,
	}
}

// Translate returns the text for key in lang. ctxName selects a context
// variant of the entry when one is defined.
func (e *Engine) Translate(lang, key string, params Params, ctxName string) string {
	lang = e.normalize(lang)
	entry, ok := e.resolve(lang, key)
	if !ok {
		return e.missing(key)
	}

	text := entry.Text
	if ctxName != "" {
		if v, ok := entry.Context[ctxName]; ok {
			text = v
		}
	}
	return interpolate(text, params)
}

// TranslatePlural picks the plural form for count using the rules of lang
// and interpolates count along with params.
func (e *Engine) TranslatePlural(lang, key string, count int, params Params) string {
	lang = e.normalize(lang)

	withCount := make(Params, len(params)+1)
	maps.Copy(withCount, params)
	withCount["count"] = count

	entry, ok := e.resolve(lang, key)
	if !ok || len(entry.Plural) == 0 {
		return e.Translate(lang, key, withCount, "")
	}

	form, ok := pluralForm(lang, count, entry.Plural)
	if !ok {
		return interpolate(entry.Text, withCount)
	}
	return interpolate(form, withCount)
}

// HasKey reports whether key resolves in any language without the
// missing-key handler.
func (e *Engine) HasKey(key string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.overrides[key]; ok {
		return true
	}
	for _, entries := range e.static {
		if _, ok := entries[key]; ok {
			return true
		}
	}
	return false
}

// Languages returns the supported language codes.
func (e *Engine) Languages() []string {
	return []string{English, Bulgarian}
}

// DefaultLanguage returns the configured default language.
func (e *Engine) DefaultLanguage() string { return e.opts.DefaultLanguage }

// FallbackLanguage returns the configured fallback language.
func (e *Engine) FallbackLanguage() string { return e.opts.FallbackLanguage }

// Bundle returns every known key with its text in lang. Keys missing in
// lang carry the fallback text.
func (e *Engine) Bundle(lang string) map[string]string {
	lang = e.normalize(lang)

	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]string)
	for key, entry := range e.static[e.opts.FallbackLanguage] {
		out[key] = entry.Text
	}
	for key, entry := range e.static[lang] {
		out[key] = entry.Text
	}
	for key, o := range e.overrides {
		if text := o.Text(lang); text != "" {
			out[key] = text
		}
	}
	return out
}

// SetOverrides replaces the cached database overrides.
func (e *Engine) SetOverrides(overrides []Override) {
	m := make(map[string]Override, len(overrides))
	for _, o := range overrides {
		m[o.Key] = o
	}

	e.mu.Lock()
	e.overrides = m
	e.mu.Unlock()
}

// PutOverride adds or replaces one cached override.
func (e *Engine) PutOverride(o Override) {
	e.mu.Lock()
	e.overrides[o.Key] = o
	e.mu.Unlock()
}

// RemoveOverride drops one cached override.
func (e *Engine) RemoveOverride(key string) {
	e.mu.Lock()
	delete(e.overrides, key)
	e.mu.Unlock()
}

// Overrides returns a copy of the cached overrides.
func (e *Engine) Overrides() []Override {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Override, 0, len(e.overrides))
	for _, o := range e.overrides {
		out = append(out, o)
	}
	return out
}

func (e *Engine) resolve(lang, key string) (Entry, bool) {
	if entry, ok := e.lookup(lang, key); ok {
		return entry, true
	}
	if lang != e.opts.FallbackLanguage {
		if entry, ok := e.lookup(e.opts.FallbackLanguage, key); ok {
			return entry, true
		}
	}
	if migrated := MigrateKey(key); migrated != key {
		return e.resolve(lang, migrated)
	}
	return Entry{}, false
}

func (e *Engine) lookup(lang, key string) (Entry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if o, ok := e.overrides[key]; ok {
		if text := o.Text(lang); text != "" {
			// Plural and context variants stay with the embedded entry.
			entry := e.static[lang][key]
			entry.Text = text
			return entry, true
		}
	}
	entry, ok := e.static[lang][key]
	return entry, ok
}

func (e *Engine) missing(key string) string {
	if e.opts.Debug {
		return fmt.Sprintf("[MISSING: %s]", key)
	}
	return Humanize(key)
}

func (e *Engine) normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == English || lang == Bulgarian {
		return lang
	}
	return e.opts.DefaultLanguage
}

// Humanize turns the last segment of a dotted key into words:
// "services.flatTyre" becomes "Flat Tyre", "out-of-fuel" becomes "Out of fuel".
func Humanize(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}

	var b strings.Builder
	for _, r := range key {
		switch {
		case r == '-' || r == '_':
			b.WriteRune(' ')
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return out
	}
	runes := []rune(out)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func interpolate(text string, params Params) string {
	if len(params) == 0 {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		if v, ok := params[name]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}

func pluralForm(lang string, count int, forms map[string]string) (string, bool) {
	if count == 0 {
		if v, ok := forms["zero"]; ok {
			return v, true
		}
	}
	if count == 1 {
		if v, ok := forms["one"]; ok {
			return v, true
		}
	}
	if lang == Bulgarian && count >= 2 && count <= 4 {
		if v, ok := forms["few"]; ok {
			return v, true
		}
	}
	v, ok := forms["other"]
	return v, ok
}
