package poster

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/notice-composer/internal/model"
)

type receivedPart struct {
	Filename    string
	ContentType string
	Data        string
}

// parseParts reads every part of a multipart body, keyed by form name.
func parseParts(t *testing.T, contentType string, body []byte) map[string]receivedPart {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	parts := make(map[string]receivedPart)
	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		p, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts[p.FormName()] = receivedPart{
			Filename:    p.FileName(),
			ContentType: p.Header.Get("Content-Type"),
			Data:        string(data),
		}
	}
	return parts
}

func TestBuildPayload(t *testing.T) {
	t.Run("Caption and one URL button, no image", func(t *testing.T) {
		d := &model.Draft{
			Caption: "Hello",
			Buttons: []model.ButtonSpec{{Text: "Visit", URL: "https://x.com"}},
		}

		payload, err := BuildPayload(d)
		require.NoError(t, err)

		parts := parseParts(t, payload.ContentType, payload.Body)
		assert.Len(t, parts, 2)
		assert.Equal(t, "Hello", parts[FieldCaption].Data)
		assert.NotContains(t, parts, FieldPhoto)
		assert.Equal(t, `{"inline_keyboard":[[{"text":"Visit","url":"https://x.com"}]]}`, parts[FieldReplyMarkup].Data)
	})

	t.Run("Empty draft still carries caption and markup", func(t *testing.T) {
		payload, err := BuildPayload(&model.Draft{})
		require.NoError(t, err)

		parts := parseParts(t, payload.ContentType, payload.Body)
		require.Contains(t, parts, FieldCaption)
		assert.Equal(t, "", parts[FieldCaption].Data)
		assert.Equal(t, `{"inline_keyboard":[]}`, parts[FieldReplyMarkup].Data)
	})

	t.Run("Image is sent as a file part", func(t *testing.T) {
		d := &model.Draft{
			Image: &model.Image{Filename: "notice.png", ContentType: "image/png", Data: []byte("\x89PNG")},
		}

		payload, err := BuildPayload(d)
		require.NoError(t, err)

		parts := parseParts(t, payload.ContentType, payload.Body)
		photo := parts[FieldPhoto]
		assert.Equal(t, "notice.png", photo.Filename)
		assert.Equal(t, "image/png", photo.ContentType)
		assert.Equal(t, "\x89PNG", photo.Data)
	})

	t.Run("Image without name or type gets fallbacks", func(t *testing.T) {
		d := &model.Draft{Image: &model.Image{Data: []byte{1}}}

		payload, err := BuildPayload(d)
		require.NoError(t, err)

		photo := parseParts(t, payload.ContentType, payload.Body)[FieldPhoto]
		assert.Equal(t, defaultPhotoName, photo.Filename)
		assert.Equal(t, defaultPhotoType, photo.ContentType)
	})
}

func TestClientSend(t *testing.T) {
	t.Run("2xx is success", func(t *testing.T) {
		var gotParts map[string]receivedPart
		var gotMethod string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			body, _ := io.ReadAll(r.Body)
			gotParts = parseParts(t, r.Header.Get("Content-Type"), body)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"ok":false}`))
		}))
		defer srv.Close()

		c := New(srv.URL, 0)
		assert.Equal(t, srv.URL, c.Endpoint())

		err := c.Send(context.Background(), &model.Draft{Caption: "Hello"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "Hello", gotParts[FieldCaption].Data)
	})

	t.Run("Non-2xx is a status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := New(srv.URL, 0).Send(context.Background(), model.NewDraft())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, "Request failed with status code 500", err.Error())
	})

	t.Run("Transport error is unwrapped", func(t *testing.T) {
		wantErr := errors.New("Network Error")
		hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, wantErr
		})}

		err := New("http://notices.invalid/post", 0, WithHTTPClient(hc)).Send(context.Background(), model.NewDraft())
		assert.Equal(t, wantErr, err)
		assert.Equal(t, "Network Error", err.Error())
	})

	t.Run("Invalid endpoint", func(t *testing.T) {
		err := New("://bad", 0).Send(context.Background(), model.NewDraft())
		assert.Error(t, err)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
