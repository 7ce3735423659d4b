package state

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Slice is one named piece of client state mirrored to a storage key.
// Every Set performs exactly one write; the in-memory value only changes
// once that write succeeded.
type Slice[T any] struct {
	key    string
	value  T
	def    func() T
	store  Storage
	encode func(T) (string, error)
	decode func(string) (T, error)
}

func newJSONSlice[T any](key string, store Storage, def func() T) *Slice[T] {
	return &Slice[T]{
		key:   key,
		value: def(),
		def:   def,
		store: store,
		encode: func(v T) (string, error) {
			data, err := json.Marshal(v)
			return string(data), err
		},
		decode: func(s string) (T, error) {
			var v T
			err := json.Unmarshal([]byte(s), &v)
			return v, err
		},
	}
}

// newNumberSlice stores a float as a bare numeric string.
func newNumberSlice(key string, store Storage, def float64) *Slice[float64] {
	return &Slice[float64]{
		key:   key,
		value: def,
		def:   func() float64 { return def },
		store: store,
		encode: func(v float64) (string, error) {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		},
		decode: func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		},
	}
}

// Seed picks the starting value. A fresh slice takes its default; otherwise
// the stored value is used when present and parseable.
func (s *Slice[T]) Seed(fresh bool) error {
	if fresh {
		s.value = s.def()
		return nil
	}

	raw, ok, err := s.store.Get(s.key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	if !ok {
		s.value = s.def()
		return nil
	}

	v, err := s.decode(raw)
	if err != nil {
		s.value = s.def()
		return nil
	}
	s.value = v
	return nil
}

func (s *Slice[T]) Get() T {
	return s.value
}

func (s *Slice[T]) Set(v T) error {
	raw, err := s.encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}
	if err := s.store.Set(s.key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	s.value = v
	return nil
}

// Reset restores the default in memory without touching storage.
func (s *Slice[T]) Reset() {
	s.value = s.def()
}

func (s *Slice[T]) Key() string {
	return s.key
}

func (s *Slice[T]) persist() error {
	return s.Set(s.value)
}

func (s *Slice[T]) assign(v T) {
	s.value = v
}
