// Package poster builds the multipart notice payload and posts it to the remote endpoint.
package poster

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/debemdeboas/notice-composer/internal/model"
)

// Multipart field names understood by the post-notice endpoint.
const (
	FieldCaption     = "caption"
	FieldPhoto       = "photo"
	FieldReplyMarkup = "reply_markup"
)

const (
	defaultPhotoName = "photo"
	defaultPhotoType = "application/octet-stream"
)

type Payload struct {
	Body        []byte
	ContentType string
}

// BuildPayload encodes a draft as multipart/form-data. caption and reply_markup
// are always present; photo only when an image is selected.
func BuildPayload(d *model.Draft) (*Payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(FieldCaption, d.Caption); err != nil {
		return nil, fmt.Errorf("writing caption: %w", err)
	}

	if d.Image != nil {
		if err := writePhoto(w, d.Image); err != nil {
			return nil, fmt.Errorf("writing photo: %w", err)
		}
	}

	markup, err := model.BuildReplyMarkup(d.Buttons).JSON()
	if err != nil {
		return nil, fmt.Errorf("encoding reply markup: %w", err)
	}
	if err := w.WriteField(FieldReplyMarkup, string(markup)); err != nil {
		return nil, fmt.Errorf("writing reply markup: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	return &Payload{
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writePhoto is multipart.Writer.CreateFormFile with the upload's own content type.
func writePhoto(w *multipart.Writer, img *model.Image) error {
	name := img.Filename
	if name == "" {
		name = defaultPhotoName
	}
	ctype := img.ContentType
	if ctype == "" {
		ctype = defaultPhotoType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(FieldPhoto), quoteEscaper.Replace(name)))
	h.Set("Content-Type", ctype)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(img.Data)
	return err
}
