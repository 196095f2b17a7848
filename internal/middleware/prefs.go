package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/facio/facio/i18n"
)

type ctxKey string

const ctxLang ctxKey = "pref_lang"

// Prefs resolves the request language (query > cookie > Accept-Language)
// and stores it in the context. A query-provided language is kept in a
// cookie for ~30 days.
func Prefs(next http.Handler) http.Handler {
	return PrefsWithDefault(i18n.DefaultLang)(next)
}

// PrefsWithDefault is Prefs with def used for requests that carry no
// language hint at all.
func PrefsWithDefault(def string) func(http.Handler) http.Handler {
	def = i18n.Normalize(def)
	return func(next http.Handler) http.Handler {
		return prefs(def, next)
	}
}

func prefs(def string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if ql := r.URL.Query().Get("lang"); ql != "" {
			lang = ql
			http.SetCookie(w, &http.Cookie{Name: "lang", Value: i18n.Normalize(ql), Path: "/", MaxAge: 86400 * 30})
		}
		if !supported(lang) {
			lang = def
			if al := r.Header.Get("Accept-Language"); al != "" {
				lang = i18n.DetectLanguage(al)
			}
		}
		ctx := context.WithValue(r.Context(), ctxLang, i18n.Normalize(lang))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func supported(lang string) bool {
	base := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	for _, s := range i18n.Supported {
		if s == base {
			return true
		}
	}
	return false
}

// LangFrom returns language preference from context or fallback.
func LangFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxLang).(string); ok && v != "" {
		return v
	}
	return i18n.DefaultLang
}

// WithLang is used by tests and callers that bypass Prefs.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxLang, i18n.Normalize(lang))
}
