// Package session holds the editor's state and the commands that change it:
// the tab registry, per-tab dirty tracking, and the New/Open/Save/Close/Exit
// flows with their confirmation prompts.
//
// A Session is not safe for concurrent use. The UI calls into it from its
// single update goroutine, and every native dialog blocks that goroutine, so
// commands never interleave.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"tabpad/internal/platform"
	"tabpad/pkg/textfile"
)

const (
	AboutTitle       = "About"
	DefaultAboutText = "Tabpad is a multi-document text editor built with Ebitengine."
)

var ErrMissingCollaborator = errors.New("session: picker and dialogs are required")

// Storage reads and writes whole documents.
type Storage interface {
	Load(path string) (string, error)
	Save(path, text string) error
}

type Options struct {
	Picker  platform.FilePicker
	Dialogs platform.Dialogs
	// Storage defaults to textfile.Disk.
	Storage Storage
	// Logger defaults to a discarding logger.
	Logger    *slog.Logger
	AboutText string
}

type Session struct {
	tabs    *Registry
	picker  platform.FilePicker
	dialogs platform.Dialogs
	gate    Gate
	store   Storage
	log     *slog.Logger
	about   string
	status  string
}

// New builds a session with one empty Untitled tab.
func New(opts Options) (*Session, error) {
	if opts.Picker == nil || opts.Dialogs == nil {
		return nil, ErrMissingCollaborator
	}
	if opts.Storage == nil {
		opts.Storage = textfile.Disk{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.AboutText == "" {
		opts.AboutText = DefaultAboutText
	}
	s := &Session{
		tabs:    NewRegistry(),
		picker:  opts.Picker,
		dialogs: opts.Dialogs,
		gate:    NewGate(opts.Dialogs),
		store:   opts.Storage,
		log:     opts.Logger,
		about:   opts.AboutText,
		status:  "Untitled document",
	}
	s.tabs.Create("", textfile.UntitledDoc)
	return s, nil
}

func (s *Session) Tabs() *Registry { return s.tabs }

// Status is a one-line summary of the last command, for the status bar.
func (s *Session) Status() string { return s.status }

func (s *Session) Current() (*Tab, error) {
	return s.tabs.Current()
}

func (s *Session) IsDirty(id TabID) bool {
	tab, ok := s.tabs.Get(id)
	return ok && tab.IsDirty()
}

// AnyDirty reports whether at least one open tab has unsaved changes.
func (s *Session) AnyDirty() bool {
	for _, tab := range s.tabs.tabs {
		if tab.IsDirty() {
			return true
		}
	}
	return false
}

// Label is the header text for a tab, dirty marker included.
func (s *Session) Label(id TabID) string {
	tab, ok := s.tabs.Get(id)
	if !ok {
		return ""
	}
	return tab.DisplayLabel()
}

// OnKeystroke runs after every edit of a tab. The dirty marker flips only
// when dirtiness itself flipped; the return value says whether it did.
func (s *Session) OnKeystroke(id TabID) bool {
	tab, ok := s.tabs.Get(id)
	if !ok {
		return false
	}
	if !tab.syncMarker() {
		return false
	}
	s.log.Debug("dirty marker changed", "tab", tab.id, "label", tab.label, "dirty", tab.marked)
	return true
}

func (s *Session) NewTab() *Tab {
	tab := s.tabs.Create("", textfile.UntitledDoc)
	s.status = "New document"
	s.log.Info("tab created", "tab", tab.id)
	return tab
}

// Open asks for a file and opens it in a new tab. A cancelled picker returns
// a nil tab and a nil error. Read failures come back as *FileReadError and
// leave the registry untouched.
func (s *Session) Open() (*Tab, error) {
	path, err := s.picker.PickOpenPath()
	if errors.Is(err, platform.ErrCancelled) {
		s.status = "Open cancelled"
		s.log.Info("open cancelled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: open picker: %w", err)
	}
	content, err := s.store.Load(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	tab := s.tabs.Create(content, textfile.BaseName(path))
	tab.path = path
	s.status = "Opened " + tab.label
	s.log.Info("file opened", "tab", tab.id, "path", path, "bytes", len(content))
	return tab, nil
}

// Save writes the current tab. See SaveTab.
func (s *Session) Save() error {
	tab, err := s.tabs.Current()
	if err != nil {
		return err
	}
	return s.SaveTab(tab.id)
}

// SaveTab always asks for a destination, starting in the directory the tab
// was last saved to or opened from. On success the tab takes the file's base
// name and is clean. On failure nothing about the tab changes.
func (s *Session) SaveTab(id TabID) error {
	tab, ok := s.tabs.Get(id)
	if !ok {
		return ErrUnknownTab
	}
	startDir := ""
	if tab.path != "" {
		startDir = filepath.Dir(tab.path)
	}
	path, err := s.picker.PickSavePath(textfile.DefaultExt, startDir)
	if errors.Is(err, platform.ErrCancelled) {
		s.status = "Save cancelled"
		s.log.Info("save cancelled", "tab", tab.id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: save picker: %w", err)
	}
	text := tab.Text()
	if err := s.store.Save(path, text); err != nil {
		return &FileWriteError{Path: path, Err: err}
	}
	tab.markSaved(path, text)
	s.status = "Saved " + tab.label
	s.log.Info("file saved", "tab", tab.id, "path", path, "bytes", len(text))
	return nil
}

// CloseCurrent closes the focused tab. See CloseTab.
func (s *Session) CloseCurrent() (bool, error) {
	tab, err := s.tabs.Current()
	if err != nil {
		return false, err
	}
	return s.CloseTab(tab.id)
}

// CloseTab removes a tab, asking first when it is dirty. It reports whether
// the tab was closed; answering "No" leaves every tab as it was.
func (s *Session) CloseTab(id TabID) (bool, error) {
	tab, ok := s.tabs.Get(id)
	if !ok {
		return false, ErrUnknownTab
	}
	if tab.IsDirty() && !s.gate.ConfirmDiscard() {
		s.status = "Close cancelled"
		s.log.Info("close cancelled", "tab", tab.id)
		return false, nil
	}
	if err := s.tabs.Close(id); err != nil {
		return false, err
	}
	s.status = "Closed " + tab.label
	s.log.Info("tab closed", "tab", tab.id, "remaining", s.tabs.Len())
	return true, nil
}

func (s *Session) SelectTab(id TabID) error {
	if err := s.tabs.Select(id); err != nil {
		return err
	}
	s.log.Debug("tab selected", "tab", id)
	return nil
}

func (s *Session) CycleTabs(delta int) {
	s.tabs.Cycle(delta)
}

// Exit reports whether the application may terminate. When any tab is dirty
// the user is asked once for all of them.
func (s *Session) Exit() bool {
	if s.AnyDirty() && !s.gate.ConfirmDiscard() {
		s.status = "Exit cancelled"
		s.log.Info("exit cancelled")
		return false
	}
	s.log.Info("exiting", "tabs", s.tabs.Len())
	return true
}

func (s *Session) About() {
	s.dialogs.ShowInfo(AboutTitle, s.about)
}

// Dispatch runs a menu or shortcut command and surfaces any failure to the
// user. It returns true only when Exit was confirmed.
func (s *Session) Dispatch(cmd Command) bool {
	var err error
	switch cmd {
	case CommandNew:
		s.NewTab()
	case CommandOpen:
		_, err = s.Open()
	case CommandSave:
		err = s.Save()
	case CommandCloseTab:
		_, err = s.CloseCurrent()
	case CommandExit:
		return s.Exit()
	case CommandAbout:
		s.About()
	default:
		s.log.Warn("unknown command", "command", string(cmd))
	}
	if err != nil {
		s.Report(cmd, err)
	}
	return false
}

// Report shows a command failure in an error dialog and the status bar. A
// missing current tab means the registry invariant broke, which is fatal.
func (s *Session) Report(cmd Command, err error) {
	if errors.Is(err, ErrNoActiveTab) {
		s.log.Error("tab registry is empty", "command", string(cmd), "err", err)
		panic(err)
	}
	s.log.Error("command failed", "command", string(cmd), "err", err)

	title := cmd.Title() + " Failed"
	msg := err.Error()
	var readErr *FileReadError
	var writeErr *FileWriteError
	switch {
	case errors.As(err, &readErr):
		msg = fmt.Sprintf("Could not open %s:\n%v", readErr.Path, readErr.Err)
	case errors.As(err, &writeErr):
		msg = fmt.Sprintf("Could not save %s:\n%v", writeErr.Path, writeErr.Err)
	}
	s.status = cmd.Title() + " failed: " + err.Error()
	s.dialogs.ShowError(title, msg)
}
