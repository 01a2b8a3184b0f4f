package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/notify"
)

// ObjectService is the part of the API client the store calls.
type ObjectService interface {
	ListObjects(ctx context.Context) ([]api.Object, error)
	GetObject(ctx context.Context, id string) (api.Object, error)
	CreateObject(ctx context.Context, input api.Input) (api.Object, error)
	ReplaceObject(ctx context.Context, id string, input api.Input) (api.Object, error)
	DeleteObject(ctx context.Context, id string) error
}

// Toast texts for successful mutations.
const (
	MessageCreated = "object created"
	MessageUpdated = "object updated"
	MessageDeleted = "object deleted"
)

// Snapshot is a point-in-time copy of the store.
type Snapshot struct {
	Objects []api.Object
	Loading bool
	// Error is the message of the most recent failed operation.
	Error string
	// FetchError is set while the last list fetch has failed; it drives the
	// full-page error state.
	FetchError  string
	Err         error
	LastFetched time.Time
	Fetched     bool
}

// RateLimited reports whether the latest failure was the API's quota.
func (s Snapshot) RateLimited() bool {
	return api.IsRateLimited(s.Err)
}

// Find returns the object with id.
func (s Snapshot) Find(id string) (api.Object, bool) {
	for _, obj := range s.Objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return api.Object{}, false
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier routes success and error toasts to n.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithToastDuration sets how long toasts stay up.
func WithToastDuration(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.toast = d
		}
	}
}

// Store owns the in-memory object list. Its operations are the only way
// the list changes: a fetch replaces it, create appends, update replaces
// in place by id and delete removes by id.
type Store struct {
	mu       sync.RWMutex
	service  ObjectService
	notifier notify.Notifier
	logger   *zap.Logger
	toast    time.Duration
	snapshot Snapshot
}

// New returns a store backed by service. It starts in the loading state
// because the first fetch is expected to follow immediately.
func New(service ObjectService, opts ...Option) *Store {
	s := &Store{
		service:  service,
		notifier: notify.Discard,
		logger:   zap.NewNop(),
		toast:    notify.DefaultDuration,
		snapshot: Snapshot{Objects: []api.Object{}, Loading: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("store")
	return s
}

// Fetch reloads the whole list. On failure the previous list is kept and
// the error is recorded.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.snapshot.Loading = true
	s.snapshot.Error = ""
	s.snapshot.FetchError = ""
	s.snapshot.Err = nil
	s.mu.Unlock()

	objects, err := s.service.ListObjects(ctx)

	s.mu.Lock()
	s.snapshot.Loading = false
	if err != nil {
		msg := s.recordLocked(err)
		s.snapshot.FetchError = msg
		s.mu.Unlock()
		s.fail("fetch", "", err, msg)
		return err
	}
	s.snapshot.Objects = cloneObjects(objects)
	s.snapshot.LastFetched = time.Now()
	s.snapshot.Fetched = true
	count := len(s.snapshot.Objects)
	s.mu.Unlock()

	s.logger.Info("objects fetched", zap.Int("count", count))
	return nil
}

// Create posts input and appends the server's copy to the list.
func (s *Store) Create(ctx context.Context, input api.Input) (api.Object, error) {
	obj, err := s.service.CreateObject(ctx, input)
	if err != nil {
		return api.Object{}, s.failOp("create", "", err)
	}

	s.mu.Lock()
	s.snapshot.Objects = append(s.snapshot.Objects, obj.Clone())
	s.clearErrorLocked()
	s.mu.Unlock()

	s.logger.Info("object created", zap.String("id", obj.ID), zap.String("name", obj.Name))
	s.notifier.Show(MessageCreated, notify.Success, s.toast)
	return obj, nil
}

// Update replaces the object with id. The entry keeps its position; an id
// that is not in the list leaves the list unchanged.
func (s *Store) Update(ctx context.Context, id string, input api.Input) (api.Object, error) {
	obj, err := s.service.ReplaceObject(ctx, id, input)
	if err != nil {
		return api.Object{}, s.failOp("update", id, err)
	}

	s.mu.Lock()
	replaced := 0
	for i := range s.snapshot.Objects {
		if s.snapshot.Objects[i].ID == id {
			s.snapshot.Objects[i] = obj.Clone()
			replaced++
		}
	}
	s.clearErrorLocked()
	s.mu.Unlock()

	s.logger.Info("object updated", zap.String("id", id), zap.Int("replaced", replaced))
	s.notifier.Show(MessageUpdated, notify.Success, s.toast)
	return obj, nil
}

// Delete removes the object with id once the API confirms.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.service.DeleteObject(ctx, id); err != nil {
		return s.failOp("delete", id, err)
	}

	s.mu.Lock()
	kept := s.snapshot.Objects[:0:0]
	for _, obj := range s.snapshot.Objects {
		if obj.ID != id {
			kept = append(kept, obj)
		}
	}
	removed := len(s.snapshot.Objects) - len(kept)
	s.snapshot.Objects = kept
	s.clearErrorLocked()
	s.mu.Unlock()

	s.logger.Info("object deleted", zap.String("id", id), zap.Int("removed", removed))
	s.notifier.Show(MessageDeleted, notify.Success, s.toast)
	return nil
}

// Get fetches one object from the API without touching the list.
func (s *Store) Get(ctx context.Context, id string) (api.Object, error) {
	obj, err := s.service.GetObject(ctx, id)
	if err != nil {
		return api.Object{}, s.failOp("get", id, err)
	}
	return obj, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Objects = cloneObjects(s.snapshot.Objects)
	return snap
}

func (s *Store) failOp(op, id string, err error) error {
	s.mu.Lock()
	msg := s.recordLocked(err)
	s.mu.Unlock()
	s.fail(op, id, err, msg)
	return err
}

func (s *Store) fail(op, id string, err error, msg string) {
	fields := []zap.Field{zap.String("op", op), zap.Stringer("kind", api.KindOf(err)), zap.Error(err)}
	if id != "" {
		fields = append(fields, zap.String("id", id))
	}
	s.logger.Warn("operation failed", fields...)
	s.notifier.Show(msg, notify.Error, s.toast)
}

func (s *Store) recordLocked(err error) string {
	msg := api.Message(err)
	s.snapshot.Error = msg
	s.snapshot.Err = err
	return msg
}

func (s *Store) clearErrorLocked() {
	s.snapshot.Error = ""
	s.snapshot.FetchError = ""
	s.snapshot.Err = nil
}

func cloneObjects(objects []api.Object) []api.Object {
	dup := make([]api.Object, len(objects))
	for i, obj := range objects {
		dup[i] = obj.Clone()
	}
	return dup
}
