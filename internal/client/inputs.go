package client

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

const (
	MinVoters     = 1
	MaxVoters     = 10
	DefaultVoters = 2
)

var ErrInvalidVoterCount = errors.New("voter count must be between 1 and 10")

// VoterMovieInput is one participant's movie. Year is empty until the title is
// resolved through autocomplete.
type VoterMovieInput struct {
	Title string
	Year  string
}

// Label formats the input the way it is sent to the suggestion service.
func (in VoterMovieInput) Label() string {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ""
	}
	if in.Year == "" {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, in.Year)
}

// VoterInputs holds one entry per participant.
type VoterInputs struct {
	mu      sync.RWMutex
	entries []VoterMovieInput
}

func NewVoterInputs(count int) (*VoterInputs, error) {
	v := &VoterInputs{}
	if err := v.Resize(count); err != nil {
		return nil, err
	}
	return v, nil
}

// Resize keeps existing entries by index, padding with empty entries or truncating.
func (v *VoterInputs) Resize(count int) error {
	if count < MinVoters || count > MaxVoters {
		return fmt.Errorf("%w: got %d", ErrInvalidVoterCount, count)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	resized := make([]VoterMovieInput, count)
	copy(resized, v.entries)
	v.entries = resized
	return nil
}

func (v *VoterInputs) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// SetTitle records a manual edit, which always drops a previously committed year.
func (v *VoterInputs) SetTitle(index int, title string) error {
	return v.set(index, VoterMovieInput{Title: title})
}

// Commit stores a title and year picked from autocomplete.
func (v *VoterInputs) Commit(index int, title, year string) error {
	return v.set(index, VoterMovieInput{Title: title, Year: year})
}

func (v *VoterInputs) set(index int, in VoterMovieInput) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if index < 0 || index >= len(v.entries) {
		return fmt.Errorf("input index %d out of range [0,%d)", index, len(v.entries))
	}
	v.entries[index] = in
	return nil
}

func (v *VoterInputs) Get(index int) (VoterMovieInput, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if index < 0 || index >= len(v.entries) {
		return VoterMovieInput{}, false
	}
	return v.entries[index], true
}

// Entries returns a snapshot copy.
func (v *VoterInputs) Entries() []VoterMovieInput {
	v.mu.RLock()
	defer v.mu.RUnlock()

	entries := make([]VoterMovieInput, len(v.entries))
	copy(entries, v.entries)
	return entries
}
