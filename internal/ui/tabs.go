package ui

import (
	"unicode/utf8"

	"tabpad/internal/render"
)

const ellipsis = "..."

// Measure returns the pixel advance of s in the face the caller draws with.
type Measure func(s string) int

// TabHeader is what the tab strip shows for one tab.
type TabHeader struct {
	Label  string
	Active bool
}

type TabSlot struct {
	Index  int
	Label  string
	Active bool
	Bounds render.Rect
	Close  render.Rect
	// TextX is where the label starts; it is vertically centred by the caller.
	TextX int
}

// LayoutTabs places one header per tab, left to right. Headers take their
// natural width within the theme's bounds and shrink evenly when the strip is
// too narrow. Labels that still do not fit are shortened with an ellipsis.
func LayoutTabs(strip render.Rect, headers []TabHeader, measure Measure, theme Theme, scale float32) []TabSlot {
	if len(headers) == 0 {
		return nil
	}
	padX := dp(10, scale)
	gap := dp(2, scale)
	closeSz := dp(14, scale)
	minW := dp(theme.TabMinDp, scale)
	maxW := dp(theme.TabMaxDp, scale)

	widths := make([]int, len(headers))
	total := gap
	for i, h := range headers {
		w := padX + measure(h.Label) + padX + closeSz + padX/2
		w = min(max(w, minW), maxW)
		widths[i] = w
		total += w + gap
	}
	if total > strip.W {
		even := (strip.W - gap*(len(headers)+1)) / len(headers)
		even = max(even, dp(48, scale))
		for i := range widths {
			widths[i] = min(widths[i], even)
		}
	}

	slots := make([]TabSlot, 0, len(headers))
	x := strip.X + gap
	top := strip.Y + gap*2
	h := strip.H - gap*2
	for i, header := range headers {
		w := widths[i]
		bounds := render.Rect{X: x, Y: top, W: w, H: h}
		closeBox := render.Rect{
			X: x + w - padX/2 - closeSz,
			Y: top + (h-closeSz)/2,
			W: closeSz,
			H: closeSz,
		}
		textW := closeBox.X - padX/2 - (x + padX)
		slots = append(slots, TabSlot{
			Index:  i,
			Label:  Ellipsize(header.Label, textW, measure),
			Active: header.Active,
			Bounds: bounds,
			Close:  closeBox,
			TextX:  x + padX,
		})
		x += w + gap
	}
	return slots
}

// HitTab finds the tab under x, y and whether the click landed on its close box.
func HitTab(slots []TabSlot, x, y int) (index int, onClose bool, ok bool) {
	for _, slot := range slots {
		if !slot.Bounds.Contains(x, y) {
			continue
		}
		return slot.Index, slot.Close.Contains(x, y), true
	}
	return -1, false, false
}

// Ellipsize shortens s from the end until it fits in maxW.
func Ellipsize(s string, maxW int, measure Measure) string {
	if measure(s) <= maxW {
		return s
	}
	if measure(ellipsis) > maxW {
		return ""
	}
	cut := len(s)
	for cut > 0 {
		_, size := utf8.DecodeLastRuneInString(s[:cut])
		cut -= size
		if out := s[:cut] + ellipsis; measure(out) <= maxW {
			return out
		}
	}
	return ellipsis
}

// MenuItem is one row of a drop-down.
type MenuItem struct {
	Label string
	Hint  string
}

// LayoutMenuBar places the drop-down titles across the menu bar.
func LayoutMenuBar(bar render.Rect, titles []string, measure Measure, scale float32) []render.Rect {
	out := make([]render.Rect, 0, len(titles))
	x := bar.X + dp(6, scale)
	for _, title := range titles {
		w := measure(title) + dp(20, scale)
		out = append(out, render.Rect{X: x, Y: bar.Y, W: w, H: bar.H})
		x += w
	}
	return out
}

// LayoutDropDown hangs a panel below anchor with one row per item. The panel
// is wide enough for the longest label and the longest shortcut hint.
func LayoutDropDown(anchor render.Rect, items []MenuItem, measure Measure, theme Theme, scale float32) (render.Rect, []render.Rect) {
	pad := dp(4, scale)
	rowH := dp(theme.MenuItemDp, scale)
	labelW, hintW := 0, 0
	for _, item := range items {
		labelW = max(labelW, measure(item.Label))
		hintW = max(hintW, measure(item.Hint))
	}
	w := max(dp(180, scale), labelW+hintW+dp(48, scale))
	panel := render.Rect{X: anchor.X, Y: anchor.Y + anchor.H, W: w, H: rowH*len(items) + pad*2}
	rows := make([]render.Rect, len(items))
	for i := range items {
		rows[i] = render.Rect{X: panel.X + pad, Y: panel.Y + pad + i*rowH, W: w - pad*2, H: rowH}
	}
	return panel, rows
}
