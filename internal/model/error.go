package model

import "errors"

var ErrButtonIndexOutOfRange = errors.New("button index out of range")
var ErrUnknownButtonField = errors.New("unknown button field")
