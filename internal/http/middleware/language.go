// Package middleware holds gin middleware that depends on application
// settings rather than pure platform concerns.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type langKey struct{}

const ginLangKey = "lang"

// Language negotiates the response language from the ?lang= query parameter,
// then the Accept-Language header, falling back to the first supported tag.
// The chosen base language ("en", "bg") is stored on the gin and request contexts.
func Language(supported []language.Tag) gin.HandlerFunc {
	matcher := language.NewMatcher(supported)
	return func(c *gin.Context) {
		lang := Negotiate(matcher, supported, c.Query("lang"), c.GetHeader("Accept-Language"))
		c.Set(ginLangKey, lang)
		c.Request = c.Request.WithContext(WithLanguage(c.Request.Context(), lang))
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// Negotiate picks the best supported base language for the explicit choice
// and the Accept-Language header.
func Negotiate(matcher language.Matcher, supported []language.Tag, explicit, acceptHeader string) string {
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			if _, idx, conf := matcher.Match(tag); conf != language.No {
				return base(supported[idx])
			}
		}
	}

	if acceptHeader != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptHeader); err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf != language.No {
				return base(supported[idx])
			}
		}
	}

	return base(supported[0])
}

// LanguageFrom returns the negotiated language, or fallback when the
// middleware did not run.
func LanguageFrom(c *gin.Context, fallback string) string {
	if v, ok := c.Get(ginLangKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// WithLanguage stores lang on ctx.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LanguageFromContext returns the language stored by WithLanguage.
func LanguageFromContext(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(langKey{}).(string)
	return lang, ok && lang != ""
}

func base(tag language.Tag) string {
	b, _ := tag.Base()
	return b.String()
}
