// Package routes defines HTTP route patterns for the application.
package routes

import (
	"strconv"

	"github.com/debemdeboas/notice-composer/internal/model"
)

// Path parameters
const (
	ParamNoticeID = "id"
	ParamIndex    = "index"
	QueryNotice   = "notice"
)

// API Routes
const (
	// Static and assets
	RobotsPath  = "GET /robots.txt"
	ThemeToggle = "POST /theme/toggle"
	MetricsPath = "GET /metrics"

	// SSE
	SSEURLPath = "/sse"
	SSEPath    = "GET " + SSEURLPath

	// Composer page
	RootPath = "GET /{$}"

	// Notice draft operations
	NoticeCaption      = "POST /notice/{id}/caption"
	NoticeImage        = "POST /notice/{id}/image"
	NoticeButtons      = "POST /notice/{id}/buttons"
	NoticeButtonUpdate = "POST /notice/{id}/buttons/{index}"
	NoticeButtonRemove = "DELETE /notice/{id}/buttons/{index}"
	NoticeSubmit       = "POST /notice/{id}/submit"
	NoticeStatus       = "GET /notice/{id}/status"
)

// NoticePath builds the concrete URL of a notice route, e.g.
// NoticePath(id, "buttons", "2") → /notice/<id>/buttons/2.
func NoticePath(id model.NoticeID, parts ...string) string {
	p := "/notice/" + string(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func ButtonPath(id model.NoticeID, index int) string {
	return NoticePath(id, "buttons", strconv.Itoa(index))
}

func SSEFor(id model.NoticeID) string {
	return SSEURLPath + "?" + QueryNotice + "=" + string(id)
}
