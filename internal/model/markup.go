package model

import (
	"bytes"
	"encoding/json"
)

// InlineButton is a serialized button. At most one of URL and CallbackData is set.
type InlineButton struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

type ReplyMarkup struct {
	InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
}

// NewInlineButton applies the serialization rule: a URL wins over callback
// data, and a button with neither is a plain label.
func NewInlineButton(b ButtonSpec) InlineButton {
	switch {
	case b.URL != "":
		return InlineButton{Text: b.Text, URL: b.URL}
	case b.CallbackData != "":
		return InlineButton{Text: b.Text, CallbackData: b.CallbackData}
	default:
		return InlineButton{Text: b.Text}
	}
}

// BuildReplyMarkup lays every button out on its own row, in order.
func BuildReplyMarkup(buttons []ButtonSpec) ReplyMarkup {
	rows := make([][]InlineButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []InlineButton{NewInlineButton(b)})
	}
	return ReplyMarkup{InlineKeyboard: rows}
}

// JSON encodes the markup without HTML escaping, so URLs keep their literal '&'.
func (m ReplyMarkup) JSON() ([]byte, error) {
	if m.InlineKeyboard == nil {
		m.InlineKeyboard = [][]InlineButton{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
