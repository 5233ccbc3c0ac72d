package errors

import "errors"

var (
	ErrReplayRejected    = errors.New("authorization has already been consumed")
	ErrInvalidCredential = errors.New("authorization credential failed verification")
	ErrInvalidInput      = errors.New("authorization tuple is invalid")
)
