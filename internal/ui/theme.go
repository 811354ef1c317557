package ui

import "image/color"

type Theme struct {
	AppBackground color.RGBA
	MenuBar       color.RGBA
	MenuHover     color.RGBA
	MenuPanel     color.RGBA
	TabStrip      color.RGBA
	TabActive     color.RGBA
	TabInactive   color.RGBA
	TabHover      color.RGBA
	CloseHover    color.RGBA
	Page          color.RGBA
	Border        color.RGBA
	StatusBar     color.RGBA
	Accent        color.RGBA
	Selection     color.RGBA
	Caret         color.RGBA
	ScrollTrack   color.RGBA
	ScrollThumb   color.RGBA
	MenuText      color.RGBA
	TabText       color.RGBA
	DocText       color.RGBA
	MutedText     color.RGBA

	MenuHeightDp   int
	TabHeightDp    int
	StatusHeightDp int
	EditorPadDp    int
	TabMinDp       int
	TabMaxDp       int
	MenuItemDp     int
}

func DefaultTheme() Theme {
	return Theme{
		AppBackground:  color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		MenuBar:        color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		MenuHover:      color.RGBA{0x3D, 0x6C, 0xB4, 0xFF},
		MenuPanel:      color.RGBA{0xFA, 0xFB, 0xFD, 0xFF},
		TabStrip:       color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		TabActive:      color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		TabInactive:    color.RGBA{0xEC, 0xF0, 0xF6, 0xFF},
		TabHover:       color.RGBA{0xF5, 0xF8, 0xFC, 0xFF},
		CloseHover:     color.RGBA{0xE8, 0xC4, 0xC4, 0xFF},
		Page:           color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Border:         color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		StatusBar:      color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		Accent:         color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Selection:      color.RGBA{0xBF, 0xD6, 0xFF, 0xFF},
		Caret:          color.RGBA{0x15, 0x54, 0xA4, 0xFF},
		ScrollTrack:    color.RGBA{0xE7, 0xEC, 0xF4, 0xFF},
		ScrollThumb:    color.RGBA{0x9C, 0xAA, 0xBE, 0xFF},
		MenuText:       color.RGBA{0xF4, 0xF8, 0xFF, 0xFF},
		TabText:        color.RGBA{0x2C, 0x3A, 0x52, 0xFF},
		DocText:        color.RGBA{0x20, 0x20, 0x20, 0xFF},
		MutedText:      color.RGBA{0x2A, 0x38, 0x50, 0xFF},
		MenuHeightDp:   28,
		TabHeightDp:    30,
		StatusHeightDp: 24,
		EditorPadDp:    8,
		TabMinDp:       90,
		TabMaxDp:       220,
		MenuItemDp:     26,
	}
}
