package messages

import "errors"

var (
	ErrMessageNotFound      = errors.New("message not found")
	ErrMessageAlreadyExists = errors.New("message already exists")
	ErrMessageTooLarge      = errors.New("message exceeds maximum size")
	ErrMessageSealed        = errors.New("message is sealed")
	ErrAlreadyInserted      = errors.New("message already inserted")
)
