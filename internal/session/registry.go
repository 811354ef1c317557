package session

import "tabpad/pkg/textfile"

// Registry is the ordered set of open tabs. It is owned by a Session and,
// like the Session, must only be used from the UI goroutine.
type Registry struct {
	tabs    []*Tab
	current int
}

func NewRegistry() *Registry {
	return &Registry{current: -1}
}

// Create appends a tab holding content and makes it current. The saved
// fingerprint is taken from content, so the new tab starts clean.
func (r *Registry) Create(content, label string) *Tab {
	tab := newTab(content, label)
	r.tabs = append(r.tabs, tab)
	r.current = len(r.tabs) - 1
	return tab
}

func (r *Registry) Current() (*Tab, error) {
	if r.current < 0 || r.current >= len(r.tabs) {
		return nil, ErrNoActiveTab
	}
	return r.tabs[r.current], nil
}

func (r *Registry) Get(id TabID) (*Tab, bool) {
	if i := r.Index(id); i >= 0 {
		return r.tabs[i], true
	}
	return nil, false
}

// Index returns the position of id, or -1.
func (r *Registry) Index(id TabID) int {
	for i, tab := range r.tabs {
		if tab.id == id {
			return i
		}
	}
	return -1
}

func (r *Registry) Select(id TabID) error {
	i := r.Index(id)
	if i < 0 {
		return ErrUnknownTab
	}
	r.current = i
	return nil
}

// Cycle moves the focus delta tabs along, wrapping at either end.
func (r *Registry) Cycle(delta int) {
	n := len(r.tabs)
	if n == 0 {
		return
	}
	r.current = ((r.current+delta)%n + n) % n
}

// Close removes a tab. The tab that slides into its slot becomes current,
// or the new last tab when the closed one was last. Closing the only tab
// leaves a fresh Untitled tab behind.
func (r *Registry) Close(id TabID) error {
	i := r.Index(id)
	if i < 0 {
		return ErrUnknownTab
	}
	wasCurrent := i == r.current
	r.tabs = append(r.tabs[:i], r.tabs[i+1:]...)
	if len(r.tabs) == 0 {
		r.current = -1
		r.Create("", textfile.UntitledDoc)
		return nil
	}
	switch {
	case wasCurrent && i >= len(r.tabs):
		r.current = len(r.tabs) - 1
	case wasCurrent:
		r.current = i
	case i < r.current:
		r.current--
	}
	return nil
}

func (r *Registry) List() []TabID {
	out := make([]TabID, 0, len(r.tabs))
	for _, tab := range r.tabs {
		out = append(out, tab.id)
	}
	return out
}

// Tabs returns the tabs in display order. The slice is a copy.
func (r *Registry) Tabs() []*Tab {
	return append([]*Tab(nil), r.tabs...)
}

func (r *Registry) Len() int {
	return len(r.tabs)
}
