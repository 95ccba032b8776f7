// Package handlers serves the composer page and the htmx endpoints that edit and submit a notice.
package handlers

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/notice-composer/internal/composer"
	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/metrics"
	"github.com/debemdeboas/notice-composer/internal/model"
	"github.com/debemdeboas/notice-composer/internal/repository/drafts"
	"github.com/debemdeboas/notice-composer/internal/routes"
	"github.com/debemdeboas/notice-composer/internal/sse"
)

var handlerLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	handlerLogger = l
}

type Handler struct {
	repo    drafts.Repository
	clients *sse.SSEClients
	metrics *metrics.Metrics

	tmpl          *template.Template
	maxImageBytes int64
}

// NewHandler parses every template under config.TemplatesLocalDir of fsys.
func NewHandler(repo drafts.Repository, clients *sse.SSEClients, m *metrics.Metrics, fsys fs.FS, maxImageBytes int) (*Handler, error) {
	tmpl, err := template.New("").
		Funcs(template.FuncMap{
			"noticePath": func(id model.NoticeID, parts ...string) string {
				return routes.NoticePath(id, parts...)
			},
			"buttonPath": routes.ButtonPath,
			"ssePath":    routes.SSEFor,
		}).
		ParseFS(fsys, config.TemplatesLocalDir+"/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		repo:          repo,
		clients:       clients,
		metrics:       m,
		tmpl:          tmpl,
		maxImageBytes: int64(maxImageBytes),
	}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(routes.RootPath, h.ServeComposer)
	mux.HandleFunc(routes.NoticeCaption, h.SetCaption)
	mux.HandleFunc(routes.NoticeImage, h.SelectImage)
	mux.HandleFunc(routes.NoticeButtons, h.AddButtonRow)
	mux.HandleFunc(routes.NoticeButtonUpdate, h.UpdateButtonField)
	mux.HandleFunc(routes.NoticeButtonRemove, h.RemoveButtonRow)
	mux.HandleFunc(routes.NoticeSubmit, h.Submit)
	mux.HandleFunc(routes.NoticeStatus, h.Status)
	mux.HandleFunc(routes.SSEPath, h.Events)
	mux.HandleFunc(routes.ThemeToggle, ServeThemeToggle)
}

// render executes a template into a buffer first so a failing template
// does not leave a half-written 200.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		handlerLogger.Error().Err(err).Str("template", name).Msg("Error rendering template")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *Handler) composerFor(w http.ResponseWriter, r *http.Request, id model.NoticeID) (*composer.Composer, bool) {
	c, err := h.repo.GetDraft(id)
	if err != nil {
		handlerLogger.Debug().Err(err).Str("notice_id", string(id)).Msg("Unknown notice")
		http.Error(w, config.HTTPErrNoticeNotFound, http.StatusNotFound)
		return nil, false
	}
	return c, true
}

func noticeID(r *http.Request) model.NoticeID {
	return model.NoticeID(r.PathValue(routes.ParamNoticeID))
}
