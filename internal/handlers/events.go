package handlers

import (
	"fmt"
	"net/http"

	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/model"
	"github.com/debemdeboas/notice-composer/internal/routes"
	"github.com/debemdeboas/notice-composer/internal/sse"
)

// Events streams submit notifications for one notice.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	id := model.NoticeID(r.URL.Query().Get(routes.QueryNotice))
	if id == "" {
		http.Error(w, config.HTTPErrNoticeRequired, http.StatusBadRequest)
		return
	}
	if _, ok := h.composerFor(w, r, id); !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, config.HTTPErrStreamingUnsup, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeEventStream)
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	client := sse.NewClient(id)
	h.clients.Add(client)

	handlerLogger.Debug().Str("notice_id", string(id)).Msg("New SSE client connected")

	defer func() {
		h.clients.Delete(client)
		handlerLogger.Debug().Str("notice_id", string(id)).Msg("SSE client disconnected")
	}()

	notify := r.Context().Done()
	for {
		select {
		case msg, ok := <-client.Msg:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg, msg)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}
