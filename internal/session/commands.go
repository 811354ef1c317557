package session

import "unicode"

// Command names a user action reachable from the menus or a shortcut.
type Command string

const (
	CommandNew      Command = "new"
	CommandOpen     Command = "open"
	CommandSave     Command = "save"
	CommandCloseTab Command = "close_tab"
	CommandExit     Command = "exit"
	CommandAbout    Command = "about"
)

// Accelerator is the shortcut hint shown next to a menu entry.
func (c Command) Accelerator() string {
	switch c {
	case CommandNew:
		return "Ctrl+N"
	case CommandOpen:
		return "Ctrl+O"
	case CommandSave:
		return "Ctrl+S"
	case CommandCloseTab:
		return "Ctrl+Q"
	}
	return ""
}

func (c Command) Title() string {
	switch c {
	case CommandNew:
		return "New"
	case CommandOpen:
		return "Open"
	case CommandSave:
		return "Save"
	case CommandCloseTab:
		return "Close Tab"
	case CommandExit:
		return "Exit"
	case CommandAbout:
		return "About"
	}
	return string(c)
}

// Shortcut resolves a Ctrl+<key> chord. Exit and About have no shortcut.
func Shortcut(key rune) (Command, bool) {
	switch unicode.ToLower(key) {
	case 'n':
		return CommandNew, true
	case 'o':
		return CommandOpen, true
	case 's':
		return CommandSave, true
	case 'q':
		return CommandCloseTab, true
	}
	return "", false
}

// Menu is one drop-down of the menu bar.
type Menu struct {
	Title    string
	Commands []Command
}

func Menus() []Menu {
	return []Menu{
		{Title: "File", Commands: []Command{CommandNew, CommandOpen, CommandSave, CommandCloseTab, CommandExit}},
		{Title: "Help", Commands: []Command{CommandAbout}},
	}
}
