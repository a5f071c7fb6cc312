package storage

import "errors"

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrUnknownCategory = errors.New("unknown upload category")
	ErrNotManaged      = errors.New("url does not belong to this store")
)
