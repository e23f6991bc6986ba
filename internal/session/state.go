// Package session keeps the interactive state of a translation session:
// the selected target language and the message currently being translated.
package session

import (
	"sync"

	"codeberg.org/snonux/interlinear/internal/language"
)

// State is safe for concurrent use. The zero value is not usable; call New.
type State struct {
	mu       sync.Mutex
	selected language.Language
	loading  map[string]struct{}
	last     string
}

// New creates a state with the given language selected.
func New(selected language.Language) *State {
	return &State{
		selected: selected,
		loading:  make(map[string]struct{}),
	}
}

// SelectLanguage selects a language by name or code.
func (s *State) SelectLanguage(nameOrCode string) error {
	l, err := language.Lookup(nameOrCode)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.selected = l
	s.mu.Unlock()
	return nil
}

// Language returns the selected language.
func (s *State) Language() language.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// BeginLoading marks messageID as in flight. It returns false if it
// already was.
func (s *State) BeginLoading(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loading[messageID]; ok {
		return false
	}
	s.loading[messageID] = struct{}{}
	s.last = messageID
	return true
}

// EndLoading clears the in-flight mark for messageID.
func (s *State) EndLoading(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading, messageID)
	if s.last == messageID {
		s.last = ""
		for id := range s.loading {
			s.last = id
			break
		}
	}
}

// IsLoading reports whether messageID is in flight.
func (s *State) IsLoading(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.loading[messageID]
	return ok
}

// Loading returns the most recently started message still in flight.
func (s *State) Loading() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.last != ""
}
