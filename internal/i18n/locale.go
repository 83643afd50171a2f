package i18n

import "strings"

// Locale is one of the two language variants the site ships in.
// It selects both the content bundle set and the URL prefix.
type Locale string

const (
	DE Locale = "de"
	EN Locale = "en"
)

// Default applies whenever no preference can be determined.
const Default = DE

// CookieName is the browser preference key for the active locale.
const CookieName = "preferredLocale"

// Locales lists every supported locale.
var Locales = []Locale{DE, EN}

// Parse returns the locale for s, or false when s is not a supported
// value. Unknown stored preferences are treated as absent.
func Parse(s string) (Locale, bool) {
	switch Locale(s) {
	case DE, EN:
		return Locale(s), true
	}
	return "", false
}

// FromPath extracts the locale from a locale-prefixed URL path.
// Paths without a /de or /en prefix fall back to the default.
func FromPath(path string) Locale {
	for _, loc := range Locales {
		p := "/" + string(loc)
		if path == p || strings.HasPrefix(path, p+"/") {
			return loc
		}
	}
	return Default
}

// Detect inspects an Accept-Language header value in order of
// appearance and returns DE when any preference starts with "de",
// otherwise EN.
func Detect(acceptLanguage string) Locale {
	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.TrimSpace(part)
		if i := strings.IndexByte(lang, ';'); i >= 0 {
			lang = lang[:i]
		}
		if strings.HasPrefix(strings.ToLower(lang), "de") {
			return DE
		}
	}
	return EN
}

// Resolve picks the active locale: a valid stored preference wins,
// then browser language detection.
func Resolve(stored, acceptLanguage string) Locale {
	if loc, ok := Parse(stored); ok {
		return loc
	}
	return Detect(acceptLanguage)
}

// AlternateRoute rewrites currentPath to point at the same page under
// target. Any leading locale segment is stripped before prefixing; a
// bare "/" maps to "/<target>".
func AlternateRoute(currentPath string, target Locale) string {
	rest := currentPath
	for _, loc := range Locales {
		p := "/" + string(loc)
		if rest == p {
			rest = ""
			break
		}
		if strings.HasPrefix(rest, p+"/") {
			rest = rest[len(p):]
			break
		}
	}
	if rest == "/" {
		rest = ""
	}
	return "/" + string(target) + rest
}
