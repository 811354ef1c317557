package session

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveTab = errors.New("session: no active tab")
	ErrUnknownTab  = errors.New("session: unknown tab")
)

// FileReadError reports a document that could not be opened. No tab is
// created when it is returned.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("session: read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// FileWriteError reports a failed save. The tab keeps its previous path,
// label and fingerprint so the user can retry.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("session: write %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error { return e.Err }
