// Package native implements platform.Services with the OS dialogs provided
// by github.com/sqweek/dialog.
package native

import (
	"errors"

	"github.com/sqweek/dialog"

	"tabpad/internal/platform"
	"tabpad/pkg/textfile"
)

type Backend struct{}

var _ platform.Services = (*Backend)(nil)

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "native" }

func (b *Backend) PickOpenPath() (string, error) {
	path, err := dialog.File().
		Title("Open").
		Filter("Text files", "txt").
		Filter("All files", "*").
		Load()
	return pickResult(path, err)
}

func (b *Backend) PickSavePath(defaultExt, startDir string) (string, error) {
	builder := dialog.File().Title("Save")
	if ext := trimDot(defaultExt); ext != "" {
		builder = builder.Filter("Text files", ext)
	}
	builder = builder.Filter("All files", "*")
	if startDir != "" {
		builder = builder.SetStartDir(startDir)
	}
	path, err := pickResult(builder.Save())
	if err != nil {
		return "", err
	}
	return textfile.WithDefaultExt(path, defaultExt), nil
}

func (b *Backend) AskYesNo(title, message string) bool {
	return dialog.Message("%s", message).Title(title).YesNo()
}

func (b *Backend) ShowInfo(title, message string) {
	dialog.Message("%s", message).Title(title).Info()
}

func (b *Backend) ShowError(title, message string) {
	dialog.Message("%s", message).Title(title).Error()
}

func pickResult(path string, err error) (string, error) {
	if errors.Is(err, dialog.ErrCancelled) {
		return "", platform.ErrCancelled
	}
	return platform.CleanPick(path, err)
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
