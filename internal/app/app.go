package app

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"tabpad/internal/platform/native"
	"tabpad/internal/render"
	"tabpad/internal/session"
	"tabpad/internal/ui"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font"
)

// Held keys repeat after half a second, then every third tick.
const (
	repeatDelay    = 30
	repeatInterval = 3
)

var uiScales = []float32{1.0, 1.25, 1.5, 2.0}

type App struct {
	cfg     Config
	theme   ui.Theme
	session *session.Session
	log     *slog.Logger

	frameBuffer *render.FrameBuffer
	canvas      *ebiten.Image
	textLayer   *ebiten.Image

	fonts      fontBank
	uiScaleIdx int
	frameTick  uint64

	layout     ui.Layout
	tabSlots   []ui.TabSlot
	tabIDs     []session.TabID
	menus      []session.Menu
	menuRects  []render.Rect
	openMenu   int
	menuPanel  render.Rect
	menuRows   []render.Rect
	hoverTab   int
	hoverClose int
	hoverRow   int

	view    ui.TextView
	scrolls map[session.TabID]*ui.Scroll
	maxX    float64
	maxY    float64

	dragSelecting bool
	// notice overrides the session status until the next command runs.
	notice string

	screenW int
	screenH int
}

func New(cfg Config) (*App, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	backend := native.New()
	sess, err := session.New(session.Options{
		Picker:    backend,
		Dialogs:   backend,
		Logger:    cfg.Logger,
		AboutText: cfg.AboutText,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	fonts, err := newFontBank()
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug("platform ready", "backend", backend.Name())
	return &App{
		cfg:        cfg,
		theme:      ui.DefaultTheme(),
		session:    sess,
		log:        cfg.Logger,
		fonts:      fonts,
		menus:      session.Menus(),
		openMenu:   -1,
		hoverTab:   -1,
		hoverClose: -1,
		hoverRow:   -1,
		scrolls:    map[session.TabID]*ui.Scroll{},
	}, nil
}

func (a *App) Run() error {
	ebiten.SetWindowTitle(a.cfg.Title)
	ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(a.cfg.MinWidth, a.cfg.MinHeight, -1, -1)
	// The close button goes through Exit so dirty tabs get their prompt.
	ebiten.SetWindowClosingHandled(true)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) Update() error {
	a.frameTick++
	if ebiten.IsWindowBeingClosed() {
		return a.run(session.CommandExit)
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	a.refresh()

	if a.openMenu >= 0 {
		return a.updateMenu()
	}

	if ctrl {
		for _, key := range inpututil.AppendJustPressedKeys(nil) {
			name := key.String()
			if len(name) != 1 {
				continue
			}
			if cmd, ok := session.Shortcut(rune(name[0])); ok {
				return a.run(cmd)
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
			delta := 1
			if shift {
				delta = -1
			}
			a.session.CycleTabs(delta)
			return nil
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
			a.bumpUIScale(1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
			a.bumpUIScale(-1)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		x, y := ebiten.CursorPosition()
		if idx, _, ok := ui.HitTab(a.tabSlots, x, y); ok {
			a.closeTab(idx)
			return nil
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if a.handleChromeClick(x, y) {
			return nil
		}
	}

	tab := a.current()
	buf := tab.Buffer()
	scroll := a.scroll(tab.ID())

	wheelX, wheelY := ebiten.Wheel()
	if shift && wheelY != 0 {
		scroll.X -= wheelY * 48
	} else if wheelY != 0 {
		scroll.Y -= wheelY * 42
	}
	if wheelX != 0 {
		scroll.X -= wheelX * 48
	}
	scroll.Clamp(a.maxX, a.maxY)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if a.layout.Text.Contains(x, y) {
			if shift {
				buf.EnsureSelectionAnchor()
			} else {
				buf.ClearSelection()
				buf.EnsureSelectionAnchor()
			}
			buf.SetCaret(a.offsetAt(x, y, scroll))
			buf.UpdateSelectionFromCaret()
			a.dragSelecting = true
		}
	}
	if a.dragSelecting && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		buf.SetCaret(a.offsetAt(x, y, scroll))
		buf.UpdateSelectionFromCaret()
		a.revealCaret(tab)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.dragSelecting = false
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		buf.ClearSelection()
	}

	caret, size := buf.Caret(), buf.Len()
	if a.handleEditing(tab, ctrl, shift) {
		a.session.OnKeystroke(tab.ID())
	}
	if buf.Caret() != caret || buf.Len() != size {
		a.layoutText(tab)
		a.revealCaret(tab)
	}
	return nil
}

// handleEditing applies keyboard input to the current tab's buffer and
// reports whether the text may have changed.
func (a *App) handleEditing(tab *session.Tab, ctrl, shift bool) bool {
	buf := tab.Buffer()
	edited := false

	moveWithSelection := func(move func()) {
		if shift {
			buf.EnsureSelectionAnchor()
		} else {
			buf.ClearSelection()
		}
		move()
		if shift {
			buf.UpdateSelectionFromCaret()
		}
	}
	pageLines := 1
	if a.view.LineHeight > 0 {
		pageLines = max(1, a.layout.Text.H/a.view.LineHeight-1)
	}

	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyA) {
		buf.SelectAll()
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) && buf.HasSelection() {
		if err := clipboard.WriteAll(buf.SelectedText()); err != nil {
			a.clipboardFailed("Copy", err)
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyX) && buf.HasSelection() {
		if err := clipboard.WriteAll(buf.SelectedText()); err != nil {
			a.clipboardFailed("Cut", err)
		} else {
			buf.DeleteSelection()
			edited = true
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		paste, err := clipboard.ReadAll()
		switch {
		case err != nil:
			a.clipboardFailed("Paste", err)
		case paste != "":
			if err := buf.Insert(paste); err != nil {
				a.clipboardFailed("Paste", err)
			} else {
				edited = true
			}
		}
	}
	if ctrl && repeating(ebiten.KeyBackspace) {
		buf.DeleteWordBackward()
		edited = true
	}
	if ctrl && repeating(ebiten.KeyDelete) {
		buf.DeleteWordForward()
		edited = true
	}

	if repeating(ebiten.KeyArrowUp) {
		moveWithSelection(buf.MoveUp)
	}
	if repeating(ebiten.KeyArrowDown) {
		moveWithSelection(buf.MoveDown)
	}
	if repeating(ebiten.KeyArrowLeft) {
		if ctrl {
			moveWithSelection(buf.MoveWordLeft)
		} else {
			moveWithSelection(buf.MoveLeft)
		}
	}
	if repeating(ebiten.KeyArrowRight) {
		if ctrl {
			moveWithSelection(buf.MoveWordRight)
		} else {
			moveWithSelection(buf.MoveRight)
		}
	}
	if repeating(ebiten.KeyPageUp) {
		moveWithSelection(func() {
			for range pageLines {
				buf.MoveUp()
			}
		})
	}
	if repeating(ebiten.KeyPageDown) {
		moveWithSelection(func() {
			for range pageLines {
				buf.MoveDown()
			}
		})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		if ctrl {
			moveWithSelection(buf.MoveToStart)
		} else {
			moveWithSelection(buf.MoveToLineStart)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		if ctrl {
			moveWithSelection(buf.MoveToEnd)
		} else {
			moveWithSelection(buf.MoveToLineEnd)
		}
	}

	if ctrl {
		return edited
	}

	if repeating(ebiten.KeyEnter) || repeating(ebiten.KeyKPEnter) {
		buf.Newline()
		edited = true
	}
	if repeating(ebiten.KeyBackspace) {
		buf.Backspace()
		edited = true
	}
	if repeating(ebiten.KeyDelete) {
		buf.DeleteForward()
		edited = true
	}
	if repeating(ebiten.KeyTab) {
		_ = buf.Insert(strings.Repeat(" ", max(1, a.cfg.TabSpaces)))
		edited = true
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x20 || r == 0x7f || !utf8.ValidRune(r) {
			continue
		}
		_ = buf.Insert(string(r))
		edited = true
	}
	return edited
}

func (a *App) updateMenu() error {
	x, y := ebiten.CursorPosition()
	for i, r := range a.menuRects {
		if r.Contains(x, y) && i != a.openMenu {
			a.openMenu = i
			a.layoutMenuPanel()
		}
	}
	a.hoverRow = -1
	for i, r := range a.menuRows {
		if r.Contains(x, y) {
			a.hoverRow = i
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.closeMenu()
		return nil
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return nil
	}
	if a.hoverRow >= 0 {
		cmd := a.menus[a.openMenu].Commands[a.hoverRow]
		a.closeMenu()
		return a.run(cmd)
	}
	a.closeMenu()
	return nil
}

func (a *App) closeMenu() {
	a.openMenu = -1
	a.hoverRow = -1
	a.menuRows = nil
	a.menuPanel = render.Rect{}
}

// handleChromeClick routes a click on the menu bar or tab strip. It reports
// whether the click was consumed.
func (a *App) handleChromeClick(x, y int) bool {
	for i, r := range a.menuRects {
		if r.Contains(x, y) {
			a.openMenu = i
			a.layoutMenuPanel()
			return true
		}
	}
	idx, onClose, ok := ui.HitTab(a.tabSlots, x, y)
	if !ok {
		return a.layout.Menu.Contains(x, y) || a.layout.Tabs.Contains(x, y)
	}
	if onClose {
		a.closeTab(idx)
		return true
	}
	if idx < len(a.tabIDs) {
		if err := a.session.SelectTab(a.tabIDs[idx]); err != nil {
			a.log.Warn("select tab", "err", err)
		}
	}
	return true
}

func (a *App) closeTab(idx int) {
	if idx < 0 || idx >= len(a.tabIDs) {
		return
	}
	a.notice = ""
	if _, err := a.session.CloseTab(a.tabIDs[idx]); err != nil {
		a.session.Report(session.CommandCloseTab, err)
	}
}

// run dispatches a command and turns a confirmed exit into termination.
func (a *App) run(cmd session.Command) error {
	a.notice = ""
	a.dragSelecting = false
	if a.session.Dispatch(cmd) {
		return ebiten.Termination
	}
	return nil
}

func (a *App) clipboardFailed(op string, err error) {
	a.notice = op + " failed: " + err.Error()
	a.log.Warn("clipboard", "op", op, "err", err)
}

func (a *App) current() *session.Tab {
	tab, err := a.session.Current()
	if err != nil {
		a.log.Error("tab registry is empty", "err", err)
		panic(err)
	}
	return tab
}

func (a *App) scroll(id session.TabID) *ui.Scroll {
	s, ok := a.scrolls[id]
	if !ok {
		s = &ui.Scroll{}
		a.scrolls[id] = s
	}
	return s
}

// refresh recomputes everything derived from the window size and the
// registry: bars, tab headers, menus, and the current tab's lines.
func (a *App) refresh() {
	w, h := a.currentViewportSize()
	scale := uiScales[a.uiScaleIdx]
	a.layout = ui.ComputeLayout(w, h, a.theme, scale)
	measure := a.measurer(a.uiFace(false))

	cur := a.current()
	tabs := a.session.Tabs().Tabs()
	headers := make([]ui.TabHeader, len(tabs))
	a.tabIDs = a.tabIDs[:0]
	live := make(map[session.TabID]bool, len(tabs))
	for i, tab := range tabs {
		id := tab.ID()
		headers[i] = ui.TabHeader{Label: a.session.Label(id), Active: id == cur.ID()}
		a.tabIDs = append(a.tabIDs, id)
		live[id] = true
	}
	for id := range a.scrolls {
		if !live[id] {
			delete(a.scrolls, id)
		}
	}
	a.tabSlots = ui.LayoutTabs(a.layout.Tabs, headers, measure, a.theme, scale)

	titles := make([]string, len(a.menus))
	for i, m := range a.menus {
		titles[i] = m.Title
	}
	a.menuRects = ui.LayoutMenuBar(a.layout.Menu, titles, measure, scale)
	a.layoutMenuPanel()

	a.hoverTab, a.hoverClose = -1, -1
	x, y := ebiten.CursorPosition()
	if idx, onClose, ok := ui.HitTab(a.tabSlots, x, y); ok {
		a.hoverTab = idx
		if onClose {
			a.hoverClose = idx
		}
	}

	a.layoutText(cur)
}

func (a *App) layoutMenuPanel() {
	if a.openMenu < 0 || a.openMenu >= len(a.menuRects) {
		return
	}
	cmds := a.menus[a.openMenu].Commands
	items := make([]ui.MenuItem, len(cmds))
	for i, cmd := range cmds {
		items[i] = ui.MenuItem{Label: cmd.Title(), Hint: cmd.Accelerator()}
	}
	a.menuPanel, a.menuRows = ui.LayoutDropDown(a.menuRects[a.openMenu], items, a.measurer(a.uiFace(false)), a.theme, a.layout.Scale)
}

func (a *App) layoutText(tab *session.Tab) {
	face := a.textFace()
	m := face.Metrics()
	lineH := m.Ascent.Round() + m.Descent.Round() + a.layout.Dp(4)
	a.view = ui.LayoutText(tab.Buffer().Lines(), a.measurer(face), lineH, a.layout.Dp(4))
	a.maxX, a.maxY = a.view.Max(a.layout.Text.W, a.layout.Text.H, a.layout.Dp(12))
	a.scroll(tab.ID()).Clamp(a.maxX, a.maxY)
}

func (a *App) revealCaret(tab *session.Tab) {
	s := a.scroll(tab.ID())
	s.Reveal(a.view, tab.Buffer().Caret(), a.layout.Text.W, a.layout.Text.H, a.layout.Dp(16), a.measurer(a.textFace()))
	s.Clamp(a.maxX, a.maxY)
}

func (a *App) offsetAt(x, y int, s *ui.Scroll) int {
	docX := x - a.layout.Text.X + int(s.X)
	docY := y - a.layout.Text.Y + int(s.Y)
	return a.view.OffsetAt(docX, docY, a.measurer(a.textFace()))
}

func (a *App) bumpUIScale(delta int) {
	next := a.uiScaleIdx + delta
	if next < 0 || next >= len(uiScales) {
		return
	}
	a.uiScaleIdx = next
	a.notice = fmt.Sprintf("UI scale %.0f%%", uiScales[a.uiScaleIdx]*100)
}

func (a *App) uiFace(bold bool) font.Face {
	kind := faceUI
	if bold {
		kind = faceUIBold
	}
	return a.fonts.face(kind, a.cfg.UIFontSize*float64(uiScales[a.uiScaleIdx]))
}

func (a *App) textFace() font.Face {
	return a.fonts.face(faceText, a.cfg.TextFontSize*float64(uiScales[a.uiScaleIdx]))
}

func (a *App) measurer(face font.Face) ui.Measure {
	return func(s string) int { return measureString(face, s) }
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	outsideWidth = max(outsideWidth, a.cfg.MinWidth)
	outsideHeight = max(outsideHeight, a.cfg.MinHeight)
	a.screenW = outsideWidth
	a.screenH = outsideHeight
	return outsideWidth, outsideHeight
}

func (a *App) currentViewportSize() (int, int) {
	if a.screenW > 0 && a.screenH > 0 {
		return a.screenW, a.screenH
	}
	w, h := ebiten.WindowSize()
	if w <= 0 {
		w = a.cfg.Width
	}
	if h <= 0 {
		h = a.cfg.Height
	}
	return w, h
}

func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0)
}
