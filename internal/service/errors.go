package service

import "errors"

var (
	ErrNotFound      = errors.New("error not found")
	ErrOrderTerminal = errors.New("error order already in terminal state")
)
