package handlers

import (
	"fmt"
	"net/http"

	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/theme"
)

func ServeThemeToggle(w http.ResponseWriter, r *http.Request) {
	if config.AppConfig != nil && !config.AppConfig.Theme.AllowSwitching {
		http.Error(w, config.HTTPErrThemeLocked, http.StatusForbidden)
		return
	}

	newTheme := theme.Opposite(theme.GetThemeFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    newTheme,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set(config.HHxTrigger, fmt.Sprintf(`{"themeChanged":{"value":"%s"}}`, newTheme))
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}
