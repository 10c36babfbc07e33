package sms

import "errors"

var (
	ErrInvalidDestination = errors.New("destination must be digits with an optional leading +")
	ErrEmptyText          = errors.New("text is empty")
)
