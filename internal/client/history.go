package client

import "sync"

// SuggestionHistory is the set of titles shown during one suggestion session.
// It grows after every successful cycle and is reset on a fresh submit.
type SuggestionHistory struct {
	mu    sync.Mutex
	order []string
	seen  map[string]struct{}
}

func NewSuggestionHistory() *SuggestionHistory {
	return &SuggestionHistory{seen: make(map[string]struct{})}
}

// Add unions titles into the history, keeping first-seen order.
func (h *SuggestionHistory) Add(titles ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, title := range titles {
		if _, ok := h.seen[title]; ok {
			continue
		}
		h.seen[title] = struct{}{}
		h.order = append(h.order, title)
	}
}

func (h *SuggestionHistory) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.order = nil
	h.seen = make(map[string]struct{})
}

// Titles returns a copy suitable for use as an exclusion list.
func (h *SuggestionHistory) Titles() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	titles := make([]string, len(h.order))
	copy(titles, h.order)
	return titles
}

func (h *SuggestionHistory) Contains(title string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.seen[title]
	return ok
}

func (h *SuggestionHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.order)
}
