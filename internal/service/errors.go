package service

import "errors"

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrSessionBusy     = errors.New("chat session already has a question in progress")
	ErrEmptyQuestion   = errors.New("question must not be empty")
)
