// Package platform describes the native services the editor leans on: file
// pickers and modal message boxes. Every call blocks until the user answers.
package platform

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrCancelled is returned by a picker the user closed without choosing.
var ErrCancelled = errors.New("platform: cancelled")

type FilePicker interface {
	// PickOpenPath asks for an existing file to open.
	PickOpenPath() (string, error)
	// PickSavePath asks for a destination. A name typed without an extension
	// gets defaultExt. startDir may be empty.
	PickSavePath(defaultExt, startDir string) (string, error)
}

type Dialogs interface {
	// AskYesNo returns false when the prompt is dismissed.
	AskYesNo(title, message string) bool
	ShowInfo(title, message string)
	ShowError(title, message string)
}

// Services bundles the collaborators a session needs.
type Services interface {
	FilePicker
	Dialogs
}

// CleanPick normalises a picker answer: a failure passes through, an empty
// path counts as a cancellation and anything else is cleaned.
func CleanPick(path string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", ErrCancelled
	}
	return filepath.Clean(path), nil
}
