package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/notify"
)

type fakeService struct {
	mu      sync.Mutex
	objects []api.Object
	nextID  int
	listErr error
	opErr   error
	// deleteAlwaysOK mimics servers that report success for unknown ids.
	deleteAlwaysOK bool
}

func (f *fakeService) ListObjects(ctx context.Context) ([]api.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]api.Object, len(f.objects))
	copy(out, f.objects)
	return out, nil
}

func (f *fakeService) GetObject(ctx context.Context, id string) (api.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.objects {
		if o.ID == id {
			return o, nil
		}
	}
	return api.Object{}, &api.Error{StatusCode: 404, Kind: api.KindNotFound}
}

func (f *fakeService) CreateObject(ctx context.Context, in api.Input) (api.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.opErr != nil {
		return api.Object{}, f.opErr
	}
	f.nextID++
	obj := api.Object{ID: fmt.Sprintf("srv-%d", f.nextID), Name: in.Name, Data: in.Data}
	f.objects = append(f.objects, obj)
	return obj, nil
}

func (f *fakeService) ReplaceObject(ctx context.Context, id string, in api.Input) (api.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.opErr != nil {
		return api.Object{}, f.opErr
	}
	obj := api.Object{ID: id, Name: in.Name, Data: in.Data, UpdatedAt: "2024-05-01T10:00:00Z"}
	for i := range f.objects {
		if f.objects[i].ID == id {
			f.objects[i] = obj
		}
	}
	return obj, nil
}

func (f *fakeService) DeleteObject(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.opErr != nil {
		return f.opErr
	}
	for i := range f.objects {
		if f.objects[i].ID == id {
			f.objects = append(f.objects[:i], f.objects[i+1:]...)
			return nil
		}
	}
	if f.deleteAlwaysOK {
		return nil
	}
	return &api.Error{StatusCode: 404, Kind: api.KindNotFound}
}

type recorder struct {
	mu    sync.Mutex
	shown []notify.Notification
}

func (r *recorder) Show(message string, kind notify.Kind, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, notify.Notification{Message: message, Kind: kind, Duration: d})
}

func (r *recorder) last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.shown) == 0 {
		return notify.Notification{}
	}
	return r.shown[len(r.shown)-1]
}

func seeded(names ...string) *fakeService {
	f := &fakeService{}
	for i, n := range names {
		f.objects = append(f.objects, api.Object{ID: fmt.Sprint(i + 1), Name: n})
	}
	return f
}

func TestStore_StartsLoading(t *testing.T) {
	s := New(seeded())
	snap := s.Snapshot()
	assert.True(t, snap.Loading)
	assert.False(t, snap.Fetched)
	assert.NotNil(t, snap.Objects)
}

func TestStore_FetchReplacesList(t *testing.T) {
	svc := seeded("a", "b")
	s := New(svc)
	require.NoError(t, s.Fetch(context.Background()))

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.Fetched)
	assert.Len(t, snap.Objects, 2)
	assert.Empty(t, snap.Error)

	svc.objects = svc.objects[:1]
	require.NoError(t, s.Fetch(context.Background()))
	assert.Len(t, s.Snapshot().Objects, 1)
}

func TestStore_FetchFailureKeepsList(t *testing.T) {
	svc := seeded("a", "b")
	rec := &recorder{}
	s := New(svc, WithNotifier(rec), WithToastDuration(time.Second))
	require.NoError(t, s.Fetch(context.Background()))

	svc.listErr = &api.Error{StatusCode: 429, Kind: api.KindRateLimited}
	err := s.Fetch(context.Background())
	require.Error(t, err)

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Objects, 2)
	assert.Equal(t, api.MessageRateLimited, snap.Error)
	assert.Equal(t, api.MessageRateLimited, snap.FetchError)
	assert.True(t, snap.RateLimited())
	assert.Equal(t, notify.Notification{Message: api.MessageRateLimited, Kind: notify.Error, Duration: time.Second}, rec.last())

	svc.listErr = nil
	require.NoError(t, s.Fetch(context.Background()))
	snap = s.Snapshot()
	assert.Empty(t, snap.Error)
	assert.Empty(t, snap.FetchError)
}

func TestStore_CreateThenFetchRoundTrip(t *testing.T) {
	svc := seeded()
	rec := &recorder{}
	s := New(svc, WithNotifier(rec))
	require.NoError(t, s.Fetch(context.Background()))

	input := api.Input{Name: "Phone X", Data: api.Attributes{}.Set("price", api.Number(99.5))}
	created, err := s.Create(context.Background(), input)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, MessageCreated, rec.last().Message)
	assert.Equal(t, notify.Success, rec.last().Kind)

	snap := s.Snapshot()
	require.Len(t, snap.Objects, 1)
	assert.Equal(t, created.ID, snap.Objects[0].ID)

	require.NoError(t, s.Fetch(context.Background()))
	got, ok := s.Snapshot().Find(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Phone X", got.Name)
}

func TestStore_CreateAppendsAtEnd(t *testing.T) {
	s := New(seeded("b", "a"))
	require.NoError(t, s.Fetch(context.Background()))
	_, err := s.Create(context.Background(), api.Input{Name: "0"})
	require.NoError(t, err)

	objs := s.Snapshot().Objects
	require.Len(t, objs, 3)
	assert.Equal(t, []string{"b", "a", "0"}, []string{objs[0].Name, objs[1].Name, objs[2].Name})
}

func TestStore_UpdateReplacesInPlace(t *testing.T) {
	s := New(seeded("first", "second", "third"))
	require.NoError(t, s.Fetch(context.Background()))
	before := s.Snapshot().Objects

	_, err := s.Update(context.Background(), "2", api.Input{Name: "changed"})
	require.NoError(t, err)

	after := s.Snapshot().Objects
	require.Len(t, after, 3)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
	assert.Equal(t, "2", after[1].ID)
	assert.Equal(t, "changed", after[1].Name)
	assert.Equal(t, "2024-05-01T10:00:00Z", after[1].UpdatedAt)
}

func TestStore_UpdateUnknownIDLeavesListUnchanged(t *testing.T) {
	s := New(seeded("a"))
	require.NoError(t, s.Fetch(context.Background()))
	_, err := s.Update(context.Background(), "99", api.Input{Name: "ghost"})
	require.NoError(t, err)
	objs := s.Snapshot().Objects
	require.Len(t, objs, 1)
	assert.Equal(t, "a", objs[0].Name)
}

func TestStore_UpdateFailureKeepsList(t *testing.T) {
	svc := seeded("a")
	rec := &recorder{}
	s := New(svc, WithNotifier(rec))
	require.NoError(t, s.Fetch(context.Background()))

	svc.opErr = errors.New("boom")
	_, err := s.Update(context.Background(), "1", api.Input{Name: "b"})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, "a", snap.Objects[0].Name)
	assert.Equal(t, "boom", snap.Error)
	assert.Empty(t, snap.FetchError, "mutation failures must not trigger the full-page error")
	assert.Equal(t, notify.Error, rec.last().Kind)
}

func TestStore_DeleteRemovesByID(t *testing.T) {
	rec := &recorder{}
	s := New(seeded("a", "b", "c"), WithNotifier(rec))
	require.NoError(t, s.Fetch(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "2"))
	objs := s.Snapshot().Objects
	require.Len(t, objs, 2)
	assert.Equal(t, "1", objs[0].ID)
	assert.Equal(t, "3", objs[1].ID)
	assert.Equal(t, MessageDeleted, rec.last().Message)
}

func TestStore_DeleteMissingIDWithServerSuccess(t *testing.T) {
	svc := seeded("a", "b", "c")
	svc.deleteAlwaysOK = true
	s := New(svc)
	require.NoError(t, s.Fetch(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "nope"))
	assert.Len(t, s.Snapshot().Objects, 3)
}

func TestStore_DeleteMissingIDNotFound(t *testing.T) {
	rec := &recorder{}
	s := New(seeded("a", "b", "c"), WithNotifier(rec))
	require.NoError(t, s.Fetch(context.Background()))

	err := s.Delete(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))

	snap := s.Snapshot()
	assert.Len(t, snap.Objects, 3)
	assert.Equal(t, api.MessageNotFound, snap.Error)
	assert.Equal(t, api.MessageNotFound, rec.last().Message)
}

func TestStore_GetDoesNotMutate(t *testing.T) {
	s := New(seeded("a"))
	require.NoError(t, s.Fetch(context.Background()))

	obj, err := s.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "a", obj.Name)

	_, err = s.Get(context.Background(), "404")
	require.Error(t, err)
	snap := s.Snapshot()
	assert.Len(t, snap.Objects, 1)
	assert.Equal(t, api.MessageNotFound, snap.Error)
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	svc := &fakeService{objects: []api.Object{{ID: "1", Name: "a", Data: api.Attributes{}.Set("k", api.String("v"))}}}
	s := New(svc)
	require.NoError(t, s.Fetch(context.Background()))

	snap := s.Snapshot()
	snap.Objects[0].Name = "mutated"
	snap.Objects[0].Data[0].Value = api.String("changed")

	again := s.Snapshot()
	assert.Equal(t, "a", again.Objects[0].Name)
	v, _ := again.Objects[0].Data.Get("k")
	assert.Equal(t, "v", v.String())
}

func TestStore_ConcurrentSnapshotsDuringFetch(t *testing.T) {
	s := New(seeded("a", "b"))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Fetch(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, s.Snapshot().Objects, 2)
}
