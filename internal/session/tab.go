package session

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"tabpad/internal/editor"
	"tabpad/pkg/textfile"
)

const dirtyMarker = "*"

// TabID identifies a tab for its whole lifetime, across saves and renames.
type TabID uuid.UUID

func newTabID() TabID { return TabID(uuid.New()) }

func (id TabID) String() string { return uuid.UUID(id).String() }

// Fingerprint stands in for document content when deciding dirtiness.
// Equal fingerprints are treated as equal text. BLAKE2b-256 makes a false
// "clean" practically impossible, but it is still an approximation and is
// only used for display decisions.
type Fingerprint [blake2b.Size256]byte

func FingerprintOf(text string) Fingerprint {
	return Fingerprint(blake2b.Sum256([]byte(text)))
}

// Tab is one open document.
type Tab struct {
	id     TabID
	label  string
	path   string
	saved  Fingerprint
	buffer *editor.Buffer

	// marked mirrors the "*" currently shown next to the label.
	marked bool
}

func newTab(content, label string) *Tab {
	if label == "" {
		label = textfile.UntitledDoc
	}
	return &Tab{
		id:     newTabID(),
		label:  label,
		saved:  FingerprintOf(content),
		buffer: editor.NewBuffer(content),
	}
}

func (t *Tab) ID() TabID              { return t.id }
func (t *Tab) Label() string          { return t.label }
func (t *Tab) Path() string           { return t.path }
func (t *Tab) Buffer() *editor.Buffer { return t.buffer }
func (t *Tab) Text() string           { return t.buffer.Text() }

// IsDirty compares the live text against the last saved fingerprint. It is
// recomputed on every call.
func (t *Tab) IsDirty() bool {
	return FingerprintOf(t.buffer.Text()) != t.saved
}

// DisplayLabel is the tab header text: the stored label plus the dirty
// marker when one is shown.
func (t *Tab) DisplayLabel() string {
	if t.marked {
		return t.label + dirtyMarker
	}
	return t.label
}

// syncMarker sets the marker from the current dirtiness and reports whether
// it changed.
func (t *Tab) syncMarker() bool {
	dirty := t.IsDirty()
	if dirty == t.marked {
		return false
	}
	t.marked = dirty
	return true
}

// markSaved records a successful write of text to path.
func (t *Tab) markSaved(path, text string) {
	t.path = path
	t.label = textfile.BaseName(path)
	t.saved = FingerprintOf(text)
	t.marked = false
}
