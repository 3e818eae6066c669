package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"studiobid/internal/biddingerrors"
	model "studiobid/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// Helper to create a new Session
func newSession(id, name string, loaded ...string) model.Session {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.Session{
		ID: id,
		Auth: &model.AuthSession{
			AccessToken: "token-" + name,
			Name:        name,
			Credits:     1000,
			ExpiresAt:   &exp,
		},
		Feed: model.FeedState{Sort: "newest", Page: 1, LoadedIDs: loaded, HasMore: true},
	}
}

// Test Save and Load
func TestMemoryRepo_SaveLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := NewMemoryRepo(time.Hour, 0)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, newSession("s1", "ola", "a", "b")))
	require.NoError(t, repo.Save(ctx, model.Session{ID: "anon"}))

	tests := []struct {
		name      string
		id        string
		wantName  string
		wantError error
	}{
		{name: "logged_in_session", id: "s1", wantName: "ola"},
		{name: "anonymous_session", id: "anon"},
		{name: "unknown_session", id: "nope", wantError: biddingerrors.ErrSessionNotFound},
		{name: "empty_id", id: "", wantError: biddingerrors.ErrSessionNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Load(ctx, tc.id)
			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.id, got.ID)
			if tc.wantName == "" {
				require.Nil(t, got.Auth)
			} else {
				require.Equal(t, tc.wantName, got.Auth.Name)
			}
		})
	}
}

func TestMemoryRepo_SaveRejectsEmptyID(t *testing.T) {
	repo := NewMemoryRepo(time.Hour, 0)
	defer repo.Close()

	require.Error(t, repo.Save(context.Background(), model.Session{}))
	require.Zero(t, repo.Len())
}

func TestMemoryRepo_CopiesOnSaveAndLoad(t *testing.T) {
	repo := NewMemoryRepo(time.Hour, 0)
	defer repo.Close()
	ctx := context.Background()

	s := newSession("s1", "ola", "a")
	require.NoError(t, repo.Save(ctx, s))

	// mutating the caller's copy must not reach the store
	s.Auth.Credits = 1
	s.Feed.LoadedIDs[0] = "zzz"

	loaded, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 1000, loaded.Auth.Credits)
	require.Equal(t, []string{"a"}, loaded.Feed.LoadedIDs)

	loaded.Feed.LoadedIDs = append(loaded.Feed.LoadedIDs, "b")
	loaded.Auth.Name = "kari"

	again, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "ola", again.Auth.Name)
	require.Len(t, again.Feed.LoadedIDs, 1)
}

func TestMemoryRepo_Delete(t *testing.T) {
	repo := NewMemoryRepo(time.Hour, 0)
	defer repo.Close()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newSession("s1", "ola")))
	require.NoError(t, repo.Delete(ctx, "s1"))
	require.NoError(t, repo.Delete(ctx, "s1"), "deleting twice is fine")

	_, err := repo.Load(ctx, "s1")
	require.ErrorIs(t, err, biddingerrors.ErrSessionNotFound)
}

func TestMemoryRepo_Expiry(t *testing.T) {
	repo := NewMemoryRepo(time.Minute, 0)
	defer repo.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Save(ctx, newSession("old", "ola")))
	now = now.Add(30 * time.Second)
	require.NoError(t, repo.Save(ctx, newSession("young", "kari")))

	now = now.Add(45 * time.Second)

	_, err := repo.Load(ctx, "old")
	require.ErrorIs(t, err, biddingerrors.ErrSessionNotFound)
	_, err = repo.Load(ctx, "young")
	require.NoError(t, err)

	require.Equal(t, 1, repo.sweep())
	require.Equal(t, 1, repo.Len())
}

func TestMemoryRepo_ZeroTTLNeverExpires(t *testing.T) {
	repo := NewMemoryRepo(0, 0)
	defer repo.Close()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newSession("s1", "ola")))
	repo.now = func() time.Time { return time.Now().Add(100 * 365 * 24 * time.Hour) }

	_, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Zero(t, repo.sweep())
}

func TestMemoryRepo_JanitorStopsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := NewMemoryRepo(time.Millisecond, 5*time.Millisecond)
	require.NoError(t, repo.Save(context.Background(), newSession("s1", "ola")))

	require.Eventually(t, func() bool { return repo.Len() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close(), "close is idempotent")
}

func TestMemoryRepo_ConcurrentAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := NewMemoryRepo(time.Hour, time.Millisecond)
	defer repo.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i%10)
			require.NoError(t, repo.Save(ctx, newSession(id, "user", id)))
			// another goroutine may have deleted it in between
			got, err := repo.Load(ctx, id)
			if err != nil {
				require.ErrorIs(t, err, biddingerrors.ErrSessionNotFound)
			} else {
				require.Equal(t, id, got.ID)
			}
			if i%7 == 0 {
				require.NoError(t, repo.Delete(ctx, id))
			}
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, repo.Len(), 10)
}
