// internal/pvstore/store.go
package pvstore

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
)

var (
	// ErrUnknownField is returned for names that are not in the catalog.
	ErrUnknownField = errors.New("pvstore: unknown field")

	// ErrType is returned when a value cannot be converted to the field kind.
	ErrType = errors.New("pvstore: type mismatch")
)

// WriteFunc is invoked after a field has been written.
// value is the stored (converted) value.
type WriteFunc func(field string, value any)

// Store is a named-attribute store with typed fields and write notification.
//
// Every Put notifies the handlers registered for that field, then the global
// watchers, synchronously and outside the store lock. Handlers may Put.
type Store struct {
	mu       sync.RWMutex
	fields   map[string]Field
	order    []string
	values   map[string]any
	handlers map[string][]WriteFunc
	watchers []WriteFunc
}

// New builds a store holding every field at its default value.
func New(fields []Field) (*Store, error) {
	s := &Store{
		fields:   make(map[string]Field, len(fields)),
		values:   make(map[string]any, len(fields)),
		handlers: make(map[string][]WriteFunc),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("pvstore: field name required")
		}
		if _, dup := s.fields[f.Name]; dup {
			return nil, fmt.Errorf("pvstore: duplicate field %q", f.Name)
		}
		v, err := convert(f.Kind, f.Default)
		if err != nil {
			return nil, fmt.Errorf("pvstore: field %q default: %w", f.Name, err)
		}
		s.fields[f.Name] = f
		s.order = append(s.order, f.Name)
		s.values[f.Name] = v
	}

	return s, nil
}

// Fields returns the catalog in declaration order.
func (s *Store) Fields() []Field {
	out := make([]Field, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[name])
	}
	return out
}

// Field returns the definition of one field.
func (s *Store) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Get returns the current value of a field.
func (s *Store) Get(name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	return copyValue(v), nil
}

// Put converts and stores a value, then fires write notifications.
func (s *Store) Put(name string, value any) error {
	f, ok := s.fields[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}

	v, err := convert(f.Kind, value)
	if err != nil {
		return fmt.Errorf("pvstore: field %q: %w", name, err)
	}

	s.mu.Lock()
	s.values[name] = v
	handlers := append([]WriteFunc(nil), s.handlers[name]...)
	watchers := append([]WriteFunc(nil), s.watchers...)
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(name, copyValue(v))
	}
	for _, fn := range watchers {
		fn(name, copyValue(v))
	}
	return nil
}

// OnWrite registers a handler for writes to one field.
func (s *Store) OnWrite(name string, fn WriteFunc) error {
	if _, ok := s.fields[name]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = append(s.handlers[name], fn)
	return nil
}

// Watch registers a handler for writes to any field.
func (s *Store) Watch(fn WriteFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Snapshot copies every value, keyed by field name.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = copyValue(v)
	}
	return out
}

// Names returns the field names sorted alphabetically.
func (s *Store) Names() []string {
	out := append([]string(nil), s.order...)
	sort.Strings(out)
	return out
}

// ---- typed accessors (zero value on unknown field or kind mismatch) ----

func (s *Store) Int(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.values[name].(int)
	return v
}

func (s *Store) Float(name string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.values[name].(float64)
	return v
}

func (s *Store) Text(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.values[name].(string)
	return v
}

func (s *Store) Bits(name string) *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name].(*big.Int)
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func copyValue(v any) any {
	if b, ok := v.(*big.Int); ok {
		return new(big.Int).Set(b)
	}
	return v
}
