// Package notify carries transient user notifications ("toasts") from the
// code that raises them to the view that draws them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is how long a toast stays up when no duration is given.
const DefaultDuration = 3 * time.Second

// Kind selects a toast's colour.
type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notification is one toast.
type Notification struct {
	ID       string
	Message  string
	Kind     Kind
	Duration time.Duration
	At       time.Time
}

// Notifier displays a message for duration. A zero duration means
// DefaultDuration.
type Notifier interface {
	Show(message string, kind Kind, duration time.Duration)
}

// New builds a Notification stamped with a fresh id.
func New(message string, kind Kind, duration time.Duration) Notification {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return Notification{
		ID:       uuid.NewString(),
		Message:  message,
		Kind:     kind,
		Duration: duration,
		At:       time.Now(),
	}
}

// Queue is a Notifier backed by a buffered channel. When the buffer is
// full the oldest pending notification is dropped so Show never blocks.
type Queue struct {
	mu sync.Mutex
	ch chan Notification
}

// NewQueue returns a queue holding up to size pending notifications.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Notification, size)}
}

// Show enqueues a notification.
func (q *Queue) Show(message string, kind Kind, duration time.Duration) {
	q.Push(New(message, kind, duration))
}

// Push enqueues n, evicting the oldest pending entry if needed.
func (q *Queue) Push(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case q.ch <- n:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// C is the receive side consumed by the UI.
func (q *Queue) C() <-chan Notification {
	return q.ch
}

// Slot holds the toast currently on screen. Setting a new one replaces
// the previous toast.
type Slot struct {
	current *Notification
}

// Set replaces the current toast.
func (s *Slot) Set(n Notification) {
	s.current = &n
}

// Expire clears the slot only when id is still the current toast, so a
// stale timer cannot hide a newer message.
func (s *Slot) Expire(id string) bool {
	if s.current == nil || s.current.ID != id {
		return false
	}
	s.current = nil
	return true
}

// Clear removes whatever is showing.
func (s *Slot) Clear() {
	s.current = nil
}

// Current returns the visible toast, if any.
func (s *Slot) Current() (Notification, bool) {
	if s.current == nil {
		return Notification{}, false
	}
	return *s.current, true
}

// Func adapts a function to Notifier.
type Func func(message string, kind Kind, duration time.Duration)

// Show calls f.
func (f Func) Show(message string, kind Kind, duration time.Duration) {
	f(message, kind, duration)
}

// Discard drops every notification.
var Discard Notifier = Func(func(string, Kind, time.Duration) {})
