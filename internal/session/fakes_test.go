package session

import (
	"errors"
	"testing"

	"tabpad/internal/platform"
)

var (
	_ platform.FilePicker = (*fakePicker)(nil)
	_ platform.Dialogs    = (*fakeDialogs)(nil)
)

type pickAnswer struct {
	path string
	err  error
}

type fakePicker struct {
	opens []pickAnswer
	saves []pickAnswer

	saveExts  []string
	saveDirs  []string
	openCalls int
}

func (p *fakePicker) PickOpenPath() (string, error) {
	p.openCalls++
	if len(p.opens) == 0 {
		return "", platform.ErrCancelled
	}
	a := p.opens[0]
	p.opens = p.opens[1:]
	return a.path, a.err
}

func (p *fakePicker) PickSavePath(defaultExt, startDir string) (string, error) {
	p.saveExts = append(p.saveExts, defaultExt)
	p.saveDirs = append(p.saveDirs, startDir)
	if len(p.saves) == 0 {
		return "", platform.ErrCancelled
	}
	a := p.saves[0]
	p.saves = p.saves[1:]
	return a.path, a.err
}

type message struct {
	title, text string
}

type fakeDialogs struct {
	answers []bool
	asks    []message
	infos   []message
	errors  []message
}

func (d *fakeDialogs) AskYesNo(title, text string) bool {
	d.asks = append(d.asks, message{title, text})
	if len(d.answers) == 0 {
		return false
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a
}

func (d *fakeDialogs) ShowInfo(title, text string) {
	d.infos = append(d.infos, message{title, text})
}

func (d *fakeDialogs) ShowError(title, text string) {
	d.errors = append(d.errors, message{title, text})
}

type failingStore struct{}

func (failingStore) Load(string) (string, error) { return "", errors.New("disk on fire") }
func (failingStore) Save(string, string) error   { return errors.New("disk on fire") }

func newTestSession(t *testing.T) (*Session, *fakePicker, *fakeDialogs) {
	t.Helper()
	picker := &fakePicker{}
	dialogs := &fakeDialogs{}
	s, err := New(Options{Picker: picker, Dialogs: dialogs})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, picker, dialogs
}

func currentTab(t *testing.T, s *Session) *Tab {
	t.Helper()
	tab, err := s.Current()
	if err != nil {
		t.Fatalf("no current tab: %v", err)
	}
	return tab
}

// typeText mimics the UI: edit the buffer, then report the keystroke.
func typeText(t *testing.T, s *Session, tab *Tab, text string) {
	t.Helper()
	for _, r := range text {
		if err := tab.Buffer().Insert(string(r)); err != nil {
			t.Fatal(err)
		}
		s.OnKeystroke(tab.ID())
	}
}

func backspace(s *Session, tab *Tab, n int) {
	for i := 0; i < n; i++ {
		tab.Buffer().Backspace()
		s.OnKeystroke(tab.ID())
	}
}
