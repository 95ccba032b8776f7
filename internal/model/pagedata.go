package model

import (
	"html/template"
	"net/http"

	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/theme"
)

type PageData struct {
	SiteName string
	Title    string

	PageURL string

	Theme          string
	ThemeIcon      template.HTML
	AllowSwitching bool
}

func NewPageData(r *http.Request) *PageData {
	cfg := config.AppConfig
	if cfg == nil {
		cfg = config.Default()
	}

	current := theme.GetThemeFromRequest(r)
	return &PageData{
		SiteName:       cfg.Site.Name,
		Title:          cfg.Site.Title,
		PageURL:        r.URL.Path,
		Theme:          current,
		ThemeIcon:      template.HTML(theme.GetThemeIcon(current)),
		AllowSwitching: cfg.Theme.AllowSwitching,
	}
}
