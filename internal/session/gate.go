package session

import "tabpad/internal/platform"

const (
	DiscardTitle   = "Unsaved Changes"
	DiscardMessage = "You have unsaved changes. Are you sure you want to close?"
)

// Gate asks the user before unsaved work is thrown away.
type Gate struct {
	dialogs platform.Dialogs
}

func NewGate(dialogs platform.Dialogs) Gate {
	return Gate{dialogs: dialogs}
}

// ConfirmDiscard blocks until the user answers. Dismissing the prompt counts
// as "No".
func (g Gate) ConfirmDiscard() bool {
	if g.dialogs == nil {
		return false
	}
	return g.dialogs.AskYesNo(DiscardTitle, DiscardMessage)
}
