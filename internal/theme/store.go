package theme

import (
	"fmt"
	"sync"
)

// UnknownTokenError reports a lookup for a token name that is not defined
// in the active theme. Resolution never falls back to a default value.
type UnknownTokenError struct {
	Theme string
	Name  string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token %q in theme %q", e.Name, e.Theme)
}

// Store holds the active theme. Lookups read a snapshot that is only ever
// replaced wholesale, so consumers observe either the old or the new token
// set in full, never a partial mix.
type Store struct {
	mu       sync.RWMutex
	snapshot *snapshot
}

type snapshot struct {
	theme  string
	values map[string]string
	order  []string
}

// NewStore creates a store seeded with the given theme.
func NewStore(t *Theme) (*Store, error) {
	snap, err := buildSnapshot(t)
	if err != nil {
		return nil, err
	}
	return &Store{snapshot: snap}, nil
}

func buildSnapshot(t *Theme) (*snapshot, error) {
	if t == nil {
		return nil, fmt.Errorf("theme is required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(t.Tokens))
	order := make([]string, 0, len(t.Tokens))
	for _, token := range t.Tokens {
		values[token.Name] = token.Value
		order = append(order, token.Name)
	}

	return &snapshot{theme: t.Name, values: values, order: order}, nil
}

// View is an immutable snapshot of the token set. Every lookup on one View
// resolves against the same theme, even while ReplaceTheme runs; callers
// that resolve more than one token take a View so the set cannot mix.
type View struct {
	snap *snapshot
}

// View returns a snapshot of the active token set.
func (s *Store) View() View {
	return View{snap: s.current()}
}

// ThemeName returns the name of the snapshotted theme.
func (v View) ThemeName() string {
	return v.snap.theme
}

// Resolve returns the color value for a token name.
// It returns an *UnknownTokenError if the name is not defined.
func (v View) Resolve(name string) (string, error) {
	value, ok := v.snap.values[name]
	if !ok {
		return "", &UnknownTokenError{Theme: v.snap.theme, Name: name}
	}
	return value, nil
}

// Tokens returns the snapshotted token set in declaration order.
func (v View) Tokens() []Token {
	tokens := make([]Token, 0, len(v.snap.order))
	for _, name := range v.snap.order {
		tokens = append(tokens, Token{Name: name, Value: v.snap.values[name]})
	}
	return tokens
}

// Len returns the number of tokens in the snapshot.
func (v View) Len() int {
	return len(v.snap.order)
}

// Resolve returns the color value for a token name in the active theme.
// It returns an *UnknownTokenError if the name is not defined.
func (s *Store) Resolve(name string) (string, error) {
	return s.View().Resolve(name)
}

// ReplaceTheme atomically swaps the entire token mapping. The incoming theme
// is validated in full before the swap; on any error the old set stays active.
func (s *Store) ReplaceTheme(t *Theme) error {
	snap, err := buildSnapshot(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	return nil
}

// ThemeName returns the name of the active theme.
func (s *Store) ThemeName() string {
	return s.View().ThemeName()
}

// Tokens returns the active token set in declaration order.
func (s *Store) Tokens() []Token {
	return s.View().Tokens()
}

// Len returns the number of tokens in the active theme.
func (s *Store) Len() int {
	return s.View().Len()
}

func (s *Store) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
