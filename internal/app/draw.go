package app

import (
	"fmt"
	"image/color"

	"tabpad/internal/render"
	"tabpad/internal/session"
	"tabpad/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil || a.frameBuffer.W != w || a.frameBuffer.H != h {
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.canvas = ebiten.NewImage(w, h)
	}

	a.refresh()
	tab := a.current()

	ui.DrawShell(a.frameBuffer, a.layout, ui.Chrome{
		Tabs:       a.tabSlots,
		Menus:      a.menuRects,
		OpenMenu:   a.openMenu,
		HoverTab:   a.hoverTab,
		HoverClose: a.hoverClose,
	}, a.theme)
	a.drawSelectionAndCaret(tab)
	a.drawScrollbars(tab)

	a.canvas.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.canvas, nil)

	uiFace := a.uiFace(false)
	a.drawMenuTitles(screen, uiFace)
	a.drawTabLabels(screen, uiFace)
	a.drawText(screen, tab)
	a.drawStatus(screen, tab, uiFace)
	if a.openMenu >= 0 {
		a.drawMenuPanel(screen, uiFace)
	}
}

func (a *App) drawSelectionAndCaret(tab *session.Tab) {
	buf := tab.Buffer()
	s := a.scroll(tab.ID())
	measure := a.measurer(a.textFace())
	clip := a.layout.Text
	originX := clip.X - int(s.X)
	originY := clip.Y - int(s.Y)

	if start, end, ok := buf.SelectionRange(); ok {
		for _, line := range a.view.Lines {
			lineEnd := line.Start + len(line.Text)
			selStart := max(start, line.Start)
			selEnd := min(end, lineEnd)
			if selEnd < selStart || (selEnd == selStart && end <= lineEnd) {
				continue
			}
			x0 := originX + a.view.DocX + ui.Advance(line.Text, selStart-line.Start, measure)
			x1 := originX + a.view.DocX + ui.Advance(line.Text, selEnd-line.Start, measure)
			if end > lineEnd {
				// Show the selected line break.
				x1 += a.layout.Dp(4)
			}
			r := render.Rect{X: x0, Y: originY + line.DocY, W: x1 - x0, H: a.view.LineHeight}
			a.frameBuffer.FillClipped(r, clip, a.theme.Selection)
		}
	}

	if buf.HasSelection() || (a.frameTick/30)%2 == 1 {
		return
	}
	line, x := a.view.CaretPoint(buf.Caret(), measure)
	if line >= len(a.view.Lines) {
		return
	}
	caret := render.Rect{
		X: originX + x,
		Y: originY + a.view.Lines[line].DocY + a.layout.Dp(1),
		W: max(1, a.layout.Dp(1)),
		H: max(2, a.view.LineHeight-a.layout.Dp(2)),
	}
	a.frameBuffer.FillClipped(caret, clip, a.theme.Caret)
}

func (a *App) drawScrollbars(tab *session.Tab) {
	r := a.layout.Editor
	if r.Empty() {
		return
	}
	s := a.scroll(tab.ID())
	thick := max(4, a.layout.Dp(4))

	if a.maxY > 0 {
		track := render.Rect{X: r.X + r.W - thick - 2, Y: r.Y + 2, W: thick, H: r.H - thick - 6}
		a.frameBuffer.Fill(track, a.theme.ScrollTrack)
		off, size := ui.Thumb(track.H, a.layout.Text.H, a.maxY, s.Y)
		a.frameBuffer.Fill(render.Rect{X: track.X, Y: track.Y + off, W: thick, H: size}, a.theme.ScrollThumb)
	}
	if a.maxX > 0 {
		track := render.Rect{X: r.X + 2, Y: r.Y + r.H - thick - 2, W: r.W - thick - 6, H: thick}
		a.frameBuffer.Fill(track, a.theme.ScrollTrack)
		off, size := ui.Thumb(track.W, a.layout.Text.W, a.maxX, s.X)
		a.frameBuffer.Fill(render.Rect{X: track.X + off, Y: track.Y, W: size, H: thick}, a.theme.ScrollThumb)
	}
}

func (a *App) drawText(screen *ebiten.Image, tab *session.Tab) {
	clip := a.layout.Text
	if clip.Empty() {
		return
	}
	if a.textLayer == nil || a.textLayer.Bounds().Dx() != clip.W || a.textLayer.Bounds().Dy() != clip.H {
		a.textLayer = ebiten.NewImage(clip.W, clip.H)
	}
	a.textLayer.Clear()

	face := a.textFace()
	s := a.scroll(tab.ID())
	ascent := face.Metrics().Ascent.Round()
	x := a.view.DocX - int(s.X)
	for _, line := range a.view.Lines {
		y := line.DocY - int(s.Y)
		if y+a.view.LineHeight < 0 {
			continue
		}
		if y > clip.H {
			break
		}
		if line.Text == "" {
			continue
		}
		text.Draw(a.textLayer, line.Text, face, x, y+ascent+a.layout.Dp(2), a.theme.DocText)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(clip.X), float64(clip.Y))
	screen.DrawImage(a.textLayer, op)
}

func (a *App) drawMenuTitles(screen *ebiten.Image, face font.Face) {
	for i, r := range a.menuRects {
		title := a.menus[i].Title
		x := r.X + (r.W-measureString(face, title))/2
		text.Draw(screen, title, face, x, centredBaseline(face, r.Y, r.H), a.theme.MenuText)
	}
}

func (a *App) drawTabLabels(screen *ebiten.Image, face font.Face) {
	for _, slot := range a.tabSlots {
		if slot.Label != "" {
			text.Draw(screen, slot.Label, face, slot.TextX, centredBaseline(face, slot.Bounds.Y, slot.Bounds.H), a.theme.TabText)
		}
		c := slot.Close.Inset(a.layout.Dp(4))
		x0, y0 := float64(c.X), float64(c.Y)
		x1, y1 := float64(c.X+c.W), float64(c.Y+c.H)
		ebitenutil.DrawLine(screen, x0, y0, x1, y1, a.theme.TabText)
		ebitenutil.DrawLine(screen, x0, y1, x1, y0, a.theme.TabText)
	}
}

func (a *App) drawStatus(screen *ebiten.Image, tab *session.Tab, face font.Face) {
	r := a.layout.Status
	baseline := centredBaseline(face, r.Y, r.H)
	buf := tab.Buffer()

	name := tab.Path()
	if name == "" {
		name = tab.Label()
	}
	line, col := buf.LineCol(buf.Caret())
	lineText := ""
	if line < len(a.view.Lines) {
		lineText = a.view.Lines[line].Text
	}
	idx := a.session.Tabs().Index(tab.ID())
	left := fmt.Sprintf("[ %s ] [ Ln %d, Col %d ] [ Tab %d/%d ]", name, line+1, ui.RuneColumn(lineText, col), idx+1, a.session.Tabs().Len())
	text.Draw(screen, left, face, r.X+a.layout.Dp(10), baseline, a.theme.MutedText)

	status := a.notice
	if status == "" {
		status = a.session.Status()
	}
	right := "[ " + status + " ]"
	x := r.X + r.W - a.layout.Dp(10) - measureString(face, right)
	text.Draw(screen, right, face, x, baseline, a.theme.MutedText)
}

func (a *App) drawMenuPanel(screen *ebiten.Image, face font.Face) {
	p := a.menuPanel
	if p.Empty() {
		return
	}
	a.drawFilledRectOnScreen(screen, p, a.theme.MenuPanel)
	a.drawRectOutlineOnScreen(screen, p, a.theme.Border)

	cmds := a.menus[a.openMenu].Commands
	pad := a.layout.Dp(10)
	for i, row := range a.menuRows {
		if i == a.hoverRow {
			a.drawFilledRectOnScreen(screen, row, a.theme.Selection)
		}
		baseline := centredBaseline(face, row.Y, row.H)
		text.Draw(screen, cmds[i].Title(), face, row.X+pad, baseline, a.theme.TabText)
		if hint := cmds[i].Accelerator(); hint != "" {
			x := row.X + row.W - pad - measureString(face, hint)
			text.Draw(screen, hint, face, x, baseline, a.theme.Border)
		}
	}
}

func (a *App) drawFilledRectOnScreen(screen *ebiten.Image, r render.Rect, c color.RGBA) {
	for yy := r.Y; yy < r.Y+r.H; yy++ {
		ebitenutil.DrawLine(screen, float64(r.X), float64(yy), float64(r.X+r.W), float64(yy), c)
	}
}

func (a *App) drawRectOutlineOnScreen(screen *ebiten.Image, r render.Rect, c color.RGBA) {
	x0, y0 := float64(r.X), float64(r.Y)
	x1, y1 := float64(r.X+r.W), float64(r.Y+r.H)
	ebitenutil.DrawLine(screen, x0, y0, x1, y0, c)
	ebitenutil.DrawLine(screen, x0, y1, x1, y1, c)
	ebitenutil.DrawLine(screen, x0, y0, x0, y1, c)
	ebitenutil.DrawLine(screen, x1, y0, x1, y1, c)
}
