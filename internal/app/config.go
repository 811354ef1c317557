package app

import (
	"log/slog"

	"tabpad/internal/session"
)

// Config holds the window and text settings. Nothing is read from disk; main
// starts from DefaultConfig.
type Config struct {
	Title        string
	Width        int
	Height       int
	MinWidth     int
	MinHeight    int
	UIFontSize   float64
	TextFontSize float64
	// TabSpaces is how many spaces the Tab key inserts.
	TabSpaces int
	AboutText string
	Logger    *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Title:        "Tabpad",
		Width:        1100,
		Height:       720,
		MinWidth:     640,
		MinHeight:    400,
		UIFontSize:   12,
		TextFontSize: 14,
		TabSpaces:    4,
		AboutText:    session.DefaultAboutText,
	}
}
