// Package model defines the notice draft and its wire representation.
package model

import (
	"fmt"
	"slices"
)

type NoticeID string

// Button field names, as posted by the composer form.
const (
	FieldText         = "text"
	FieldURL          = "url"
	FieldCallbackData = "callback_data"
)

// ButtonSpec is the editable form of one inline button.
type ButtonSpec struct {
	Text         string
	URL          string
	CallbackData string
}

// Image is the photo attached to a notice. It is only ever held in memory.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (i *Image) Size() int {
	if i == nil {
		return 0
	}
	return len(i.Data)
}

// Draft is the notice being composed: caption, optional image and the button rows.
type Draft struct {
	Caption string
	Image   *Image
	Buttons []ButtonSpec
}

// NewDraft returns an empty draft holding a single blank button row.
func NewDraft() *Draft {
	return &Draft{
		Buttons: []ButtonSpec{{}},
	}
}

func (d *Draft) SetCaption(text string) {
	d.Caption = text
}

// SelectImage replaces the selected image. A nil image clears the selection.
func (d *Draft) SelectImage(img *Image) {
	d.Image = img
}

func (d *Draft) UpdateButtonField(index int, field, value string) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}

	b := &d.Buttons[index]
	switch field {
	case FieldText:
		b.Text = value
	case FieldURL:
		b.URL = value
	case FieldCallbackData:
		b.CallbackData = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownButtonField, field)
	}
	return nil
}

func (d *Draft) AddButtonRow() {
	d.Buttons = append(d.Buttons, ButtonSpec{})
}

// RemoveButtonRow drops the row at index. An emptied list stays empty.
func (d *Draft) RemoveButtonRow(index int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	d.Buttons = slices.Delete(d.Buttons, index, index+1)
	return nil
}

func (d *Draft) checkIndex(index int) error {
	if index < 0 || index >= len(d.Buttons) {
		return fmt.Errorf("%w: %d (rows: %d)", ErrButtonIndexOutOfRange, index, len(d.Buttons))
	}
	return nil
}

// Clone returns a deep copy. Submissions work on a clone so the live draft
// can keep changing while a request is in flight.
func (d *Draft) Clone() *Draft {
	c := &Draft{
		Caption: d.Caption,
		Buttons: slices.Clone(d.Buttons),
	}
	if c.Buttons == nil {
		c.Buttons = []ButtonSpec{}
	}
	if d.Image != nil {
		c.Image = &Image{
			Filename:    d.Image.Filename,
			ContentType: d.Image.ContentType,
			Data:        slices.Clone(d.Image.Data),
		}
	}
	return c
}
