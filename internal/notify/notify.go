// Package notify holds the single auto-expiring notification slot the stores
// report success and failure through.
package notify

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 2 * time.Second

type Notification struct {
	Message string
	Kind    Kind
}

// Service keeps at most one notification. A new Show replaces the current one
// and restarts the expiry window.
type Service struct {
	mu      sync.Mutex
	clock   clock.Clock
	ttl     time.Duration
	current *Notification
	timer   *clock.Timer
	gen     uint64
	nextSub int
	subs    map[int]func(*Notification)
	closed  bool
}

type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		clock: clock.New(),
		ttl:   DefaultTTL,
		subs:  make(map[int]func(*Notification)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Show(message string, kind Kind) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.gen++
	gen := s.gen
	s.current = &Notification{Message: message, Kind: kind}
	s.timer = s.clock.AfterFunc(s.ttl, func() { s.expire(gen) })
	n := *s.current
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(&n)
	}
}

func (s *Service) Success(message string) {
	s.Show(message, KindSuccess)
}

func (s *Service) Error(message string) {
	s.Show(message, KindError)
}

// Clear empties the slot immediately.
func (s *Service) Clear() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.gen++
	had := s.current != nil
	s.current = nil
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if had {
		for _, fn := range subs {
			fn(nil)
		}
	}
}

// Current returns the visible notification, or nil.
func (s *Service) Current() *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	n := *s.current
	return &n
}

// Subscribe registers fn for every slot change; nil means the slot emptied.
// The returned func unregisters it.
func (s *Service) Subscribe(fn func(*Notification)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close stops the pending timer; later Show calls are ignored.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.gen++
	s.closed = true
	s.subs = make(map[int]func(*Notification))
}

// expire clears the slot only if no Show or Clear happened since the timer
// for gen was armed. A stopped timer may already be running its callback.
func (s *Service) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.current == nil {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.timer = nil
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
}

func (s *Service) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Service) subscribersLocked() []func(*Notification) {
	out := make([]func(*Notification), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
