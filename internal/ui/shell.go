package ui

import "tabpad/internal/render"

type Layout struct {
	Scale  float32
	Menu   render.Rect
	Tabs   render.Rect
	Editor render.Rect
	// Text is the scrolling text surface inside Editor.
	Text   render.Rect
	Status render.Rect
}

// Dp converts density-independent pixels to screen pixels.
func (l Layout) Dp(v int) int {
	return dp(v, l.Scale)
}

func dp(v int, scale float32) int {
	if scale <= 0 {
		scale = 1
	}
	return int(float32(v) * scale)
}

func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}
	menuH := dp(theme.MenuHeightDp, scale)
	tabH := dp(theme.TabHeightDp, scale)
	statusH := dp(theme.StatusHeightDp, scale)
	pad := dp(theme.EditorPadDp, scale)

	editorY := menuH + tabH
	editorH := h - editorY - statusH
	if editorH < 0 {
		editorH = 0
	}
	editor := render.Rect{X: 0, Y: editorY, W: w, H: editorH}

	return Layout{
		Scale:  scale,
		Menu:   render.Rect{X: 0, Y: 0, W: w, H: menuH},
		Tabs:   render.Rect{X: 0, Y: menuH, W: w, H: tabH},
		Editor: editor,
		Text:   editor.Inset(pad),
		Status: render.Rect{X: 0, Y: h - statusH, W: w, H: statusH},
	}
}

// Chrome is the per-frame interaction state the shell needs to highlight.
type Chrome struct {
	Tabs       []TabSlot
	Menus      []render.Rect
	OpenMenu   int
	HoverTab   int
	HoverClose int
}

// DrawShell paints every flat surface of the window. Text is drawn on top by
// the caller.
func DrawShell(fb *render.FrameBuffer, layout Layout, chrome Chrome, theme Theme) {
	fb.Clear(theme.AppBackground)

	fb.Fill(layout.Menu, theme.MenuBar)
	for i, r := range chrome.Menus {
		if i == chrome.OpenMenu {
			fb.Fill(r, theme.MenuHover)
		}
	}

	fb.Fill(layout.Tabs, theme.TabStrip)
	fb.FillRect(layout.Tabs.X, layout.Tabs.Y+layout.Tabs.H-1, layout.Tabs.W, 1, theme.Border)
	for i, slot := range chrome.Tabs {
		bg := theme.TabInactive
		switch {
		case slot.Active:
			bg = theme.TabActive
		case i == chrome.HoverTab:
			bg = theme.TabHover
		}
		fb.FillClipped(slot.Bounds, layout.Tabs, bg)
		fb.Stroke(slot.Bounds, 1, theme.Border)
		if slot.Active {
			accent := max(1, layout.Dp(2))
			fb.FillClipped(render.Rect{X: slot.Bounds.X, Y: slot.Bounds.Y, W: slot.Bounds.W, H: accent}, layout.Tabs, theme.Accent)
			// Open the active tab into the page below it.
			fb.FillRect(slot.Bounds.X+1, slot.Bounds.Y+slot.Bounds.H-1, slot.Bounds.W-2, 1, theme.TabActive)
		}
		if i == chrome.HoverClose {
			fb.Fill(slot.Close, theme.CloseHover)
		}
	}

	fb.Fill(layout.Editor, theme.Page)

	fb.Fill(layout.Status, theme.StatusBar)
	fb.Stroke(layout.Status, 1, theme.Border)
}
