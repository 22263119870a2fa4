package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/model"
	"github.com/teukusulthan/ninetyn-client/internal/store"
)

type fakeBackend struct {
	me    func(ctx context.Context) (*model.UserProfile, error)
	calls int64
}

func (f *fakeBackend) Me(ctx context.Context) (*model.UserProfile, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.me(ctx)
}

func profile() *model.UserProfile {
	return &model.UserProfile{ID: "u1", Name: "Ayu", Email: "ayu@example.com", Role: model.RoleUser, Points: 40}
}

func waitSettled(t *testing.T, s *Session) *model.UserProfile {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	u, loading := s.WaitProfile(ctx)
	require.False(t, loading, "refresh did not settle in time")
	return u
}

func TestSetCredentialPersistsAndRefreshes(t *testing.T) {
	mem := store.NewMemory()
	backend := &fakeBackend{me: func(context.Context) (*model.UserProfile, error) {
		return profile(), nil
	}}
	s := New(backend, mem)

	require.NoError(t, s.SetCredential("tok-1"))

	// persisted before the refresh can possibly complete
	tok, ok, err := mem.Get(store.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)

	u := waitSettled(t, s)
	require.NotNil(t, u)
	assert.Equal(t, "Ayu", u.Name)

	raw, ok, _ := mem.Get(store.KeyUser)
	require.True(t, ok)
	var persisted model.UserProfile
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, model.RoleUser, persisted.Role)
}

func TestRefreshUnauthorizedClearsEverything(t *testing.T) {
	mem := store.NewMemory()
	backend := &fakeBackend{me: func(context.Context) (*model.UserProfile, error) {
		return nil, &api.Error{StatusCode: http.StatusUnauthorized, Message: "token expired"}
	}}
	s := New(backend, mem)
	require.NoError(t, s.SetCredential("tok-1"))

	waitSettled(t, s)

	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	_, ok, _ := mem.Get(store.KeyToken)
	assert.False(t, ok, "token should be erased from the store")
	_, ok, _ = mem.Get(store.KeyUser)
	assert.False(t, ok, "profile should be erased from the store")
}

func TestRefreshTransientErrorKeepsState(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Put(store.KeyToken, "tok-1"))
	cached, _ := json.Marshal(profile())
	require.NoError(t, mem.Put(store.KeyUser, string(cached)))

	backend := &fakeBackend{me: func(context.Context) (*model.UserProfile, error) {
		return nil, &api.Error{StatusCode: http.StatusBadGateway}
	}}
	s := New(backend, mem)

	err := s.RefreshProfile(context.Background())
	require.Error(t, err)

	assert.Equal(t, "tok-1", s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, "Ayu", s.User().Name)
	tok, ok, _ := mem.Get(store.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)
}

func TestRefreshWithoutCredential(t *testing.T) {
	backend := &fakeBackend{me: func(context.Context) (*model.UserProfile, error) {
		t.Fatal("backend must not be called without a credential")
		return nil, nil
	}}
	s := New(backend, store.NewMemory())

	require.NoError(t, s.RefreshProfile(context.Background()))
	assert.Nil(t, s.User())
	assert.False(t, s.Loading())
}

func TestLogoutIsSynchronousAndOffline(t *testing.T) {
	mem := store.NewMemory()
	backend := &fakeBackend{me: func(context.Context) (*model.UserProfile, error) {
		return profile(), nil
	}}
	s := New(backend, mem)
	require.NoError(t, s.SetCredential("tok-1"))
	waitSettled(t, s)
	before := atomic.LoadInt64(&backend.calls)

	s.Logout()

	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Equal(t, before, atomic.LoadInt64(&backend.calls), "logout must not call the backend")
	_, ok, _ := mem.Get(store.KeyToken)
	assert.False(t, ok)
}

func TestClearingCredentialErasesProfile(t *testing.T) {
	mem := store.NewMemory()
	backend := &fakeBackend{me: func(context.Context) (*model.UserProfile, error) {
		return profile(), nil
	}}
	s := New(backend, mem)
	require.NoError(t, s.SetCredential("tok-1"))
	waitSettled(t, s)

	require.NoError(t, s.SetCredential(""))

	assert.Nil(t, s.User())
	_, ok, _ := mem.Get(store.KeyUser)
	assert.False(t, ok)
}

func TestRestoreSeedsCachedProfile(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Put(store.KeyToken, "tok-1"))
	cached, _ := json.Marshal(profile())
	require.NoError(t, mem.Put(store.KeyUser, string(cached)))

	backend := &fakeBackend{me: func(context.Context) (*model.UserProfile, error) {
		return profile(), nil
	}}
	s := New(backend, mem)

	assert.Equal(t, "tok-1", s.Token())
	require.NotNil(t, s.User(), "cached profile should seed the session before any refresh")
}

func TestCachedProfileWithoutTokenIsDiscarded(t *testing.T) {
	mem := store.NewMemory()
	cached, _ := json.Marshal(profile())
	require.NoError(t, mem.Put(store.KeyUser, string(cached)))

	s := New(&fakeBackend{me: func(context.Context) (*model.UserProfile, error) {
		return profile(), nil
	}}, mem)

	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
}

func TestStaleResponseSuppressedAfterLogout(t *testing.T) {
	mem := store.NewMemory()
	release := make(chan struct{})
	backend := &fakeBackend{me: func(ctx context.Context) (*model.UserProfile, error) {
		<-release
		return profile(), nil
	}}
	s := New(backend, mem)
	require.NoError(t, s.SetCredential("tok-1"))

	// log out while the refresh is still in flight, then let it finish
	s.Logout()
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	u, _ := s.WaitProfile(ctx)
	assert.Nil(t, u, "a response for a dead credential must not resurrect the profile")
	assert.Empty(t, s.Token())
}
