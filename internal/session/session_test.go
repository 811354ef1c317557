package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrMissingCollaborator) {
		t.Fatalf("expected ErrMissingCollaborator, got %v", err)
	}
}

func TestNewStartsWithOneCleanTab(t *testing.T) {
	s, _, _ := newTestSession(t)
	if s.Tabs().Len() != 1 {
		t.Fatalf("expected one tab, got %d", s.Tabs().Len())
	}
	tab := currentTab(t, s)
	if tab.Label() != "Untitled" || s.IsDirty(tab.ID()) {
		t.Fatalf("unexpected default tab: %q dirty=%v", tab.Label(), s.IsDirty(tab.ID()))
	}
}

func TestTypeThenSaveClearsMarker(t *testing.T) {
	s, picker, _ := newTestSession(t)
	tab := currentTab(t, s)

	typeText(t, s, tab, "hello")
	if got := s.Label(tab.ID()); got != "Untitled*" {
		t.Fatalf("expected dirty label, got %q", got)
	}

	path := filepath.Join(t.TempDir(), "note.txt")
	picker.saves = []pickAnswer{{path: path}}
	if quit := s.Dispatch(CommandSave); quit {
		t.Fatalf("save must not quit")
	}
	if got := s.Label(tab.ID()); got != "note.txt" {
		t.Fatalf("expected saved label, got %q", got)
	}
	if tab.Label() != filepath.Base(path) || tab.Path() != path {
		t.Fatalf("tab not updated: %q %q", tab.Label(), tab.Path())
	}
	if s.IsDirty(tab.ID()) {
		t.Fatalf("tab dirty right after save")
	}
	if picker.saveExts[0] != ".txt" {
		t.Fatalf("expected .txt default extension, got %q", picker.saveExts[0])
	}
}

func TestSaveRoundTripsBytes(t *testing.T) {
	s, picker, _ := newTestSession(t)
	tab := currentTab(t, s)
	want := "first line\n\ttabbed żółć\n\nlast"
	if err := tab.Buffer().Insert(want); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "round.txt")
	picker.saves = []pickAnswer{{path: path}}
	if err := s.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("round trip mismatch: got %q want %q", got, want)
	}
}

func TestSaveAlwaysPromptsFromLastDirectory(t *testing.T) {
	s, picker, _ := newTestSession(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	picker.saves = []pickAnswer{{path: first}}
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("cancelled re-save returned error: %v", err)
	}
	if len(picker.saveDirs) != 2 {
		t.Fatalf("expected picker on every save, got %d prompts", len(picker.saveDirs))
	}
	if picker.saveDirs[0] != "" || picker.saveDirs[1] != dir {
		t.Fatalf("unexpected start dirs: %q", picker.saveDirs)
	}
}

func TestSaveCancelledIsNoop(t *testing.T) {
	s, _, dialogs := newTestSession(t)
	tab := currentTab(t, s)
	typeText(t, s, tab, "draft")
	s.Dispatch(CommandSave)
	if !s.IsDirty(tab.ID()) || s.Label(tab.ID()) != "Untitled*" || tab.Path() != "" {
		t.Fatalf("cancelled save changed the tab")
	}
	if len(dialogs.errors) != 0 {
		t.Fatalf("cancellation surfaced as error: %v", dialogs.errors)
	}
}

func TestSaveWriteFailureLeavesTabUnchanged(t *testing.T) {
	s, picker, dialogs := newTestSession(t)
	tab := currentTab(t, s)
	typeText(t, s, tab, "keep me")

	bad := filepath.Join(t.TempDir(), "missing-dir", "x.txt")
	picker.saves = []pickAnswer{{path: bad}}
	err := s.Save()
	var writeErr *FileWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected FileWriteError, got %v", err)
	}
	if writeErr.Path != bad || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("write error lost its cause: %v", err)
	}
	if tab.Path() != "" || tab.Label() != "Untitled" || !s.IsDirty(tab.ID()) || s.Label(tab.ID()) != "Untitled*" {
		t.Fatalf("failed save mutated the tab")
	}

	picker.saves = []pickAnswer{{path: bad}}
	s.Dispatch(CommandSave)
	if len(dialogs.errors) != 1 || !strings.Contains(dialogs.errors[0].text, bad) {
		t.Fatalf("expected one error dialog naming the path, got %v", dialogs.errors)
	}
}

func TestSavePickerFailureIsReported(t *testing.T) {
	s, picker, dialogs := newTestSession(t)
	picker.saves = []pickAnswer{{err: errors.New("no display")}}
	s.Dispatch(CommandSave)
	if len(dialogs.errors) != 1 {
		t.Fatalf("expected error dialog, got %v", dialogs.errors)
	}
}

func TestOpenCreatesTab(t *testing.T) {
	s, picker, _ := newTestSession(t)
	path := filepath.Join(t.TempDir(), "readme.txt")
	if err := os.WriteFile(path, []byte("from disk\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	picker.opens = []pickAnswer{{path: path}}
	tab, err := s.Open()
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if s.Tabs().Len() != 2 {
		t.Fatalf("expected a second tab, got %d", s.Tabs().Len())
	}
	if cur := currentTab(t, s); cur != tab {
		t.Fatalf("opened tab is not current")
	}
	if tab.Label() != "readme.txt" || tab.Path() != path || tab.Text() != "from disk\r\n" {
		t.Fatalf("unexpected tab: %q %q %q", tab.Label(), tab.Path(), tab.Text())
	}
	if s.IsDirty(tab.ID()) {
		t.Fatalf("opened tab is dirty")
	}
}

func TestOpenMissingFileReportsReadError(t *testing.T) {
	s, picker, dialogs := newTestSession(t)
	before := s.Tabs().List()
	typeText(t, s, currentTab(t, s), "unsaved")

	missing := filepath.Join(t.TempDir(), "nope.txt")
	picker.opens = []pickAnswer{{path: missing}}
	_, err := s.Open()
	var readErr *FileReadError
	if !errors.As(err, &readErr) || readErr.Path != missing {
		t.Fatalf("expected FileReadError for %q, got %v", missing, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("read error lost its cause: %v", err)
	}

	picker.opens = []pickAnswer{{path: missing}}
	s.Dispatch(CommandOpen)
	if len(dialogs.errors) != 1 {
		t.Fatalf("expected one error dialog, got %v", dialogs.errors)
	}
	after := s.Tabs().List()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("registry changed on failed open")
	}
	if currentTab(t, s).Text() != "unsaved" {
		t.Fatalf("existing tab changed on failed open")
	}
}

func TestOpenCancelledIsNoop(t *testing.T) {
	s, picker, dialogs := newTestSession(t)
	tab, err := s.Open()
	if err != nil || tab != nil {
		t.Fatalf("cancelled open returned %v, %v", tab, err)
	}
	if picker.openCalls != 1 || s.Tabs().Len() != 1 || len(dialogs.errors) != 0 {
		t.Fatalf("cancelled open had side effects")
	}
	if s.Status() != "Open cancelled" {
		t.Fatalf("unexpected status: %q", s.Status())
	}
}

func TestOpenWithFailingStorage(t *testing.T) {
	picker := &fakePicker{opens: []pickAnswer{{path: "/any/file.txt"}}}
	s, err := New(Options{Picker: picker, Dialogs: &fakeDialogs{}, Storage: failingStore{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Open(); err == nil {
		t.Fatalf("expected error")
	}
	if s.Tabs().Len() != 1 {
		t.Fatalf("tab created despite read failure")
	}
}

func TestMarkerIsIdempotent(t *testing.T) {
	s, _, _ := newTestSession(t)
	tab := currentTab(t, s)
	if err := tab.Buffer().Insert("x"); err != nil {
		t.Fatal(err)
	}
	if !s.OnKeystroke(tab.ID()) {
		t.Fatalf("first check should flip the marker")
	}
	if s.OnKeystroke(tab.ID()) {
		t.Fatalf("second check must not touch the label")
	}
	if got := s.Label(tab.ID()); got != "Untitled*" {
		t.Fatalf("expected a single marker, got %q", got)
	}
	if s.OnKeystroke(tab.ID()) || strings.Count(s.Label(tab.ID()), "*") != 1 {
		t.Fatalf("marker duplicated")
	}
}

func TestEditingBackToOriginalClearsMarker(t *testing.T) {
	s, _, _ := newTestSession(t)
	tab := currentTab(t, s)
	typeText(t, s, tab, "x")
	if s.Label(tab.ID()) != "Untitled*" {
		t.Fatalf("expected marker after typing")
	}
	backspace(s, tab, 1)
	if s.Label(tab.ID()) != "Untitled" || s.IsDirty(tab.ID()) {
		t.Fatalf("marker should clear when content matches the saved text")
	}
}

func TestEditingBackToOpenedContent(t *testing.T) {
	s, picker, _ := newTestSession(t)
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	picker.opens = []pickAnswer{{path: path}}
	tab, err := s.Open()
	if err != nil {
		t.Fatal(err)
	}
	tab.Buffer().MoveToEnd()
	typeText(t, s, tab, "def")
	backspace(s, tab, 3)
	if s.IsDirty(tab.ID()) || s.Label(tab.ID()) != "doc.txt" {
		t.Fatalf("expected clean tab, got %q", s.Label(tab.ID()))
	}
}

func TestDirtinessIsNotCached(t *testing.T) {
	s, _, _ := newTestSession(t)
	tab := currentTab(t, s)
	if err := tab.Buffer().Insert("edit without keystroke event"); err != nil {
		t.Fatal(err)
	}
	if !s.IsDirty(tab.ID()) {
		t.Fatalf("IsDirty must recompute from the buffer")
	}
}

func TestCloseCleanTabSkipsGate(t *testing.T) {
	s, _, dialogs := newTestSession(t)
	s.Dispatch(CommandNew)
	s.Dispatch(CommandCloseTab)
	if len(dialogs.asks) != 0 {
		t.Fatalf("gate invoked for a clean tab")
	}
	if s.Tabs().Len() != 1 {
		t.Fatalf("expected one tab left, got %d", s.Tabs().Len())
	}
}

func TestCloseDirtyTab(t *testing.T) {
	s, _, dialogs := newTestSession(t)
	first := currentTab(t, s)
	second := s.NewTab()
	typeText(t, s, second, "work")

	dialogs.answers = []bool{false}
	s.Dispatch(CommandCloseTab)
	if len(dialogs.asks) != 1 || dialogs.asks[0].title != DiscardTitle || dialogs.asks[0].text != DiscardMessage {
		t.Fatalf("unexpected prompts: %v", dialogs.asks)
	}
	if s.Tabs().Len() != 2 || currentTab(t, s) != second || second.Text() != "work" {
		t.Fatalf("declined close changed state")
	}

	dialogs.answers = []bool{true}
	s.Dispatch(CommandCloseTab)
	if s.Tabs().Len() != 1 || currentTab(t, s) != first {
		t.Fatalf("confirmed close did not remove the tab")
	}
}

func TestCloseLastTabLeavesExactlyOne(t *testing.T) {
	s, _, _ := newTestSession(t)
	original := currentTab(t, s)
	closed, err := s.CloseCurrent()
	if err != nil || !closed {
		t.Fatalf("close failed: %v", err)
	}
	if s.Tabs().Len() != 1 {
		t.Fatalf("expected exactly one tab, got %d", s.Tabs().Len())
	}
	if currentTab(t, s).ID() == original.ID() {
		t.Fatalf("expected a fresh default tab")
	}
}

func TestCloseBackgroundTabByID(t *testing.T) {
	s, _, dialogs := newTestSession(t)
	background := currentTab(t, s)
	typeText(t, s, background, "dirty")
	front := s.NewTab()

	dialogs.answers = []bool{true}
	closed, err := s.CloseTab(background.ID())
	if err != nil || !closed {
		t.Fatalf("close by id failed: %v", err)
	}
	if len(dialogs.asks) != 1 {
		t.Fatalf("expected confirmation for dirty background tab")
	}
	if currentTab(t, s) != front || s.Tabs().Len() != 1 {
		t.Fatalf("unexpected registry after close by id")
	}
	if _, err := s.CloseTab(background.ID()); !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab, got %v", err)
	}
}

func TestExitAsksOnceForManyDirtyTabs(t *testing.T) {
	s, _, dialogs := newTestSession(t)
	a := currentTab(t, s)
	typeText(t, s, a, "one")
	b := s.NewTab()
	typeText(t, s, b, "two")

	dialogs.answers = []bool{false}
	if quit := s.Dispatch(CommandExit); quit {
		t.Fatalf("declined exit must not quit")
	}
	if len(dialogs.asks) != 1 {
		t.Fatalf("expected a single aggregate prompt, got %d", len(dialogs.asks))
	}
	if s.Tabs().Len() != 2 || a.Text() != "one" || b.Text() != "two" {
		t.Fatalf("declined exit changed tabs")
	}
	if s.Label(a.ID()) != "Untitled*" || s.Label(b.ID()) != "Untitled*" {
		t.Fatalf("declined exit changed labels")
	}

	dialogs.answers = []bool{true}
	if quit := s.Dispatch(CommandExit); !quit {
		t.Fatalf("confirmed exit should quit")
	}
	if len(dialogs.asks) != 2 {
		t.Fatalf("expected one more prompt, got %d", len(dialogs.asks))
	}
}

func TestExitWithCleanTabsDoesNotAsk(t *testing.T) {
	s, _, dialogs := newTestSession(t)
	s.NewTab()
	if !s.Exit() {
		t.Fatalf("clean exit should quit")
	}
	if len(dialogs.asks) != 0 {
		t.Fatalf("gate invoked with no unsaved work")
	}
}

func TestAboutShowsInfo(t *testing.T) {
	s, _, dialogs := newTestSession(t)
	before := s.Tabs().List()
	s.Dispatch(CommandAbout)
	if len(dialogs.infos) != 1 || dialogs.infos[0].title != AboutTitle || dialogs.infos[0].text != DefaultAboutText {
		t.Fatalf("unexpected info dialogs: %v", dialogs.infos)
	}
	if after := s.Tabs().List(); len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("about changed state")
	}
}

func TestNewSelectsFreshTab(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Dispatch(CommandNew)
	if s.Tabs().Len() != 2 {
		t.Fatalf("expected two tabs")
	}
	tab := currentTab(t, s)
	if tab.Label() != "Untitled" || tab.Text() != "" || s.IsDirty(tab.ID()) {
		t.Fatalf("unexpected new tab")
	}
}

func TestTabIDStableAcrossSave(t *testing.T) {
	s, picker, _ := newTestSession(t)
	tab := currentTab(t, s)
	id := tab.ID()
	picker.saves = []pickAnswer{{path: filepath.Join(t.TempDir(), "renamed.txt")}}
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	if got, ok := s.Tabs().Get(id); !ok || got != tab {
		t.Fatalf("tab id changed across rename")
	}
}

func TestReportPanicsOnEmptyRegistry(t *testing.T) {
	s, _, _ := newTestSession(t)
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic")
		}
	}()
	s.Report(CommandSave, ErrNoActiveTab)
}

func TestShortcuts(t *testing.T) {
	tests := []struct {
		key  rune
		want Command
	}{
		{'n', CommandNew},
		{'O', CommandOpen},
		{'s', CommandSave},
		{'q', CommandCloseTab},
	}
	for _, tt := range tests {
		got, ok := Shortcut(tt.key)
		if !ok || got != tt.want {
			t.Fatalf("Shortcut(%q) = %q, %v", tt.key, got, ok)
		}
		if tt.want.Accelerator() == "" {
			t.Fatalf("%s has no accelerator hint", tt.want)
		}
	}
	if _, ok := Shortcut('x'); ok {
		t.Fatalf("unexpected shortcut")
	}
	if CommandExit.Accelerator() != "" || CommandAbout.Accelerator() != "" {
		t.Fatalf("exit and about must not have accelerators")
	}
}

func TestMenusCoverEveryCommand(t *testing.T) {
	seen := map[Command]bool{}
	for _, m := range Menus() {
		for _, c := range m.Commands {
			seen[c] = true
		}
	}
	for _, c := range []Command{CommandNew, CommandOpen, CommandSave, CommandCloseTab, CommandExit, CommandAbout} {
		if !seen[c] {
			t.Fatalf("%s missing from menus", c)
		}
	}
}

func TestFingerprint(t *testing.T) {
	if FingerprintOf("abc") != FingerprintOf("abc") {
		t.Fatalf("fingerprint not stable")
	}
	if FingerprintOf("abc") == FingerprintOf("abd") {
		t.Fatalf("fingerprint collision on trivial input")
	}
}
