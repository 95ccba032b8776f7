// Package theme handles the light/dark page theme stored in a cookie.
package theme

import (
	"net/http"

	"github.com/debemdeboas/notice-composer/internal/config"
)

func DefaultTheme() string {
	if config.AppConfig != nil && IsKnown(config.AppConfig.Theme.Default) {
		return config.AppConfig.Theme.Default
	}
	return config.DefaultTheme
}

func IsKnown(theme string) bool {
	return theme == config.LightTheme || theme == config.DarkTheme
}

// GetThemeFromRequest returns the cookie theme, or the default when the
// cookie is missing or holds an unknown value.
func GetThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil && IsKnown(cookie.Value) {
		return cookie.Value
	}
	return DefaultTheme()
}

func Opposite(theme string) string {
	if theme == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

func GetThemeIcon(theme string) string {
	if theme == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}
