package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"cinematch-backend/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	DefaultQuietPeriod = 300 * time.Millisecond
	defaultSearchLimit = 5 * time.Second
	noActiveInput      = -1
)

// Searcher is the part of Relay autocomplete needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// AutocompleteState is what the dropdown shows.
type AutocompleteState struct {
	ActiveIndex int
	Results     []models.SearchResult
	Loading     bool
}

// Open reports whether a dropdown is showing under the active input.
func (s AutocompleteState) Open() bool {
	return s.ActiveIndex != noActiveInput && (s.Loading || len(s.Results) > 0)
}

type AutocompleteOption func(*Autocomplete)

// WithQuietPeriod overrides the debounce delay.
func WithQuietPeriod(d time.Duration) AutocompleteOption {
	return func(a *Autocomplete) { a.quietPeriod = d }
}

// WithOnChange registers a callback fired after every state change.
// It runs without the autocomplete lock held.
func WithOnChange(fn func(AutocompleteState)) AutocompleteOption {
	return func(a *Autocomplete) { a.onChange = fn }
}

// Autocomplete debounces keystrokes in voter inputs into relay searches.
// Each keystroke, selection or dismissal bumps a generation counter; search
// results from an older generation are discarded.
type Autocomplete struct {
	mu          sync.Mutex
	searcher    Searcher
	inputs      *VoterInputs
	logger      *logrus.Logger
	quietPeriod time.Duration
	onChange    func(AutocompleteState)

	timer       *time.Timer
	generation  uint64
	activeIndex int
	results     []models.SearchResult
	loading     bool
}

func NewAutocomplete(searcher Searcher, inputs *VoterInputs, logger *logrus.Logger, opts ...AutocompleteOption) *Autocomplete {
	a := &Autocomplete{
		searcher:    searcher,
		inputs:      inputs,
		logger:      logger,
		quietPeriod: DefaultQuietPeriod,
		activeIndex: noActiveInput,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Keystroke records an edit of input index. The committed year is cleared and
// a search is scheduled once the input has been quiet for the debounce period.
func (a *Autocomplete) Keystroke(index int, value string) error {
	if err := a.inputs.SetTitle(index, value); err != nil {
		return err
	}

	a.mu.Lock()
	a.activeIndex = index
	gen := a.invalidateLocked()

	if len(strings.TrimSpace(value)) < minSearchQueryLength {
		a.results = nil
		a.mu.Unlock()
		a.notify()
		return nil
	}

	a.timer = time.AfterFunc(a.quietPeriod, func() {
		a.search(gen, value)
	})
	a.mu.Unlock()
	a.notify()
	return nil
}

// Select commits a search result into input index and closes the dropdown.
func (a *Autocomplete) Select(index int, result models.SearchResult) error {
	if err := a.inputs.Commit(index, result.Title, result.Year); err != nil {
		return err
	}

	a.mu.Lock()
	a.invalidateLocked()
	a.activeIndex = noActiveInput
	a.results = nil
	a.mu.Unlock()
	a.notify()
	return nil
}

// ClickOutside dismisses the dropdown without touching input values.
func (a *Autocomplete) ClickOutside() {
	a.mu.Lock()
	a.invalidateLocked()
	a.activeIndex = noActiveInput
	a.results = nil
	a.mu.Unlock()
	a.notify()
}

func (a *Autocomplete) State() AutocompleteState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

func (a *Autocomplete) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

func (a *Autocomplete) Results() []models.SearchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.SearchResult(nil), a.results...)
}

// Close cancels any pending search.
func (a *Autocomplete) Close() {
	a.mu.Lock()
	a.invalidateLocked()
	a.mu.Unlock()
}

// invalidateLocked stops the pending timer and starts a new generation.
func (a *Autocomplete) invalidateLocked() uint64 {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.loading = false
	a.generation++
	return a.generation
}

func (a *Autocomplete) search(gen uint64, query string) {
	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}
	a.loading = true
	a.mu.Unlock()
	a.notify()

	ctx, cancel := context.WithTimeout(context.Background(), defaultSearchLimit)
	defer cancel()

	results, err := a.searcher.Search(ctx, query)
	if err != nil {
		a.logger.WithError(err).WithField("query", query).Warn("Autocomplete search failed")
		results = nil
	}

	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}
	a.results = results
	a.loading = false
	a.mu.Unlock()
	a.notify()
}

func (a *Autocomplete) stateLocked() AutocompleteState {
	return AutocompleteState{
		ActiveIndex: a.activeIndex,
		Results:     append([]models.SearchResult(nil), a.results...),
		Loading:     a.loading,
	}
}

func (a *Autocomplete) notify() {
	if a.onChange == nil {
		return
	}
	a.onChange(a.State())
}
