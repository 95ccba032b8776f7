package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/debemdeboas/notice-composer/internal/composer"
	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/model"
	"github.com/debemdeboas/notice-composer/internal/routes"
)

// multipart framing allowance on top of the image itself
const uploadOverhead = 1 << 20

// ServeComposer starts a fresh draft on every page load.
func (h *Handler) ServeComposer(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.CreateDraft()
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Error creating draft")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}
	h.metrics.DraftCreated()

	data := struct {
		*model.PageData
		View composer.View
	}{
		PageData: model.NewPageData(r),
		View:     c.View(),
	}

	h.render(w, http.StatusOK, config.TemplateLayout, data)
}

func (h *Handler) SetCaption(w http.ResponseWriter, r *http.Request) {
	c, ok := h.composerFor(w, r, noticeID(r))
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c.SetCaption(r.PostForm.Get(config.FormCaption))
	w.WriteHeader(http.StatusNoContent)
}

// SelectImage replaces the selected photo. A request without a file clears
// the selection, like a file picker closed without choosing.
func (h *Handler) SelectImage(w http.ResponseWriter, r *http.Request) {
	c, ok := h.composerFor(w, r, noticeID(r))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+uploadOverhead)
	if err := r.ParseMultipartForm(h.maxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, config.HTTPErrImageTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(config.FormPhoto)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		c.SelectImage(nil)
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if int64(len(data)) > h.maxImageBytes {
			http.Error(w, config.HTTPErrImageTooLarge, http.StatusRequestEntityTooLarge)
			return
		}

		c.SelectImage(&model.Image{
			Filename:    header.Filename,
			ContentType: header.Header.Get(config.HCType),
			Data:        data,
		})
	}

	h.render(w, http.StatusOK, config.PartialImage, c.View())
}

func (h *Handler) AddButtonRow(w http.ResponseWriter, r *http.Request) {
	c, ok := h.composerFor(w, r, noticeID(r))
	if !ok {
		return
	}

	c.AddButtonRow()
	h.render(w, http.StatusOK, config.PartialButtons, c.View())
}

func (h *Handler) UpdateButtonField(w http.ResponseWriter, r *http.Request) {
	c, ok := h.composerFor(w, r, noticeID(r))
	if !ok {
		return
	}
	index, ok := buttonIndex(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := c.UpdateButtonField(index, r.PostForm.Get(config.FormField), r.PostForm.Get(config.FormValue))
	if err != nil {
		writeEditError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveButtonRow(w http.ResponseWriter, r *http.Request) {
	c, ok := h.composerFor(w, r, noticeID(r))
	if !ok {
		return
	}
	index, ok := buttonIndex(w, r)
	if !ok {
		return
	}

	if err := c.RemoveButtonRow(index); err != nil {
		writeEditError(w, err)
		return
	}
	h.render(w, http.StatusOK, config.PartialButtons, c.View())
}

// Submit starts sending and answers right away with the disabled control.
// The page learns about the outcome through the settled SSE event.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.composerFor(w, r, noticeID(r))
	if !ok {
		return
	}

	status := http.StatusOK
	if err := c.Dispatch(r.Context()); err != nil {
		if !errors.Is(err, composer.ErrSubmitInFlight) {
			handlerLogger.Error().Err(err).Str("notice_id", string(c.ID())).Msg("Error starting submission")
			http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
			return
		}
		h.metrics.SubmitRejected()
		status = http.StatusConflict
	}

	h.render(w, status, config.PartialStatus, c.View())
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	c, ok := h.composerFor(w, r, noticeID(r))
	if !ok {
		return
	}
	h.render(w, http.StatusOK, config.PartialStatus, c.View())
}

func buttonIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue(routes.ParamIndex))
	if err != nil {
		http.Error(w, config.HTTPErrBadButtonIndex, http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrButtonIndexOutOfRange), errors.Is(err, model.ErrUnknownButtonField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		handlerLogger.Error().Err(err).Msg("Error editing notice")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
	}
}
