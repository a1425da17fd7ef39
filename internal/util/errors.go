package util

import "errors"

var (
	ErrOptionNotFound     = errors.New("answer option not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrNegativeWeight     = errors.New("score weights must be non-negative")
)
