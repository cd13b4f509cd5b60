// Package state holds the client-side caches of tasks, subtasks, tags and
// channels, and the derived views the board reads from them.
package state

import (
	"sync"
)

// Versioned is anything a Computed can depend on.
type Versioned interface {
	Version() uint64
}

// Signal is a value guarded for concurrent readers. Every Set bumps the
// version and wakes subscribers once the lock is released.
type Signal[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	subs    listeners
}

func NewSignal[T any](value T) *Signal[T] {
	return &Signal[T]{value: value}
}

func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *Signal[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.version++
	s.mu.Unlock()
	s.subs.emit()
}

// Update replaces the value with fn(current) atomically.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	s.version++
	s.mu.Unlock()
	s.subs.emit()
}

func (s *Signal[T]) Subscribe(fn func()) func() {
	return s.subs.add(fn)
}

// Computed memoizes fn until one of its dependencies changes version.
type Computed[T any] struct {
	mu       sync.Mutex
	fn       func() T
	deps     []Versioned
	versions []uint64
	value    T
	valid    bool
}

func NewComputed[T any](fn func() T, deps ...Versioned) *Computed[T] {
	return &Computed[T]{fn: fn, deps: deps, versions: make([]uint64, len(deps))}
}

func (c *Computed[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := make([]uint64, len(c.deps))
	for i, dep := range c.deps {
		current[i] = dep.Version()
	}
	if c.valid && equalVersions(current, c.versions) {
		return c.value
	}
	c.value = c.fn()
	c.versions = current
	c.valid = true
	return c.value
}

func equalVersions(a, b []uint64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (l *listeners) add(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

func (l *listeners) emit() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// subscribeAll attaches fn to every signal and returns one func detaching it.
func subscribeAll(fn func(), signals ...interface{ Subscribe(func()) func() }) func() {
	cancels := make([]func(), 0, len(signals))
	for _, s := range signals {
		cancels = append(cancels, s.Subscribe(fn))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
