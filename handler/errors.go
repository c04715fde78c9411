package handler

import "errors"

var (
	ErrNilResponse = errors.New("handler returned nil response")
)
