package lexicon

import "sync/atomic"

// Source provides the lexicon snapshot to score against
type Source interface {
	Current() *Lexicon
}

// Store holds the active lexicon and swaps it atomically on reload.
// Callers keep whatever snapshot they read for the rest of their call.
type Store struct {
	current atomic.Pointer[Lexicon]
}

// NewStore creates a store seeded with lex
func NewStore(lex *Lexicon) *Store {
	s := &Store{}
	s.current.Store(lex)
	return s
}

// Current returns the active snapshot
func (s *Store) Current() *Lexicon {
	return s.current.Load()
}

// Swap installs lex and returns the previous snapshot
func (s *Store) Swap(lex *Lexicon) *Lexicon {
	return s.current.Swap(lex)
}

// Static wraps a single lexicon as a Source
type Static struct {
	Lexicon *Lexicon
}

// Current implements Source
func (s Static) Current() *Lexicon {
	return s.Lexicon
}
