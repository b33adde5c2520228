package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	"github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.WithClock(func() time.Time { return now })

	session := domain.Session{
		User:   domain.User{ID: "u1", UserType: []string{"seller"}},
		Tokens: domain.Tokens{Access: domain.Token{Value: "t1"}},
	}
	require.Error(t, store.Save(ctx, domain.Session{}, now.Add(time.Hour)))
	require.NoError(t, store.Save(ctx, session, now.Add(time.Hour)))
	require.NoError(t, store.Save(ctx, domain.Session{Tokens: domain.Tokens{Access: domain.Token{Value: "t2"}}}, now.Add(time.Minute)))

	loaded, err := store.Load(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "u1", loaded.User.ID)
	loaded.User.UserType[0] = "buyer"
	again, _ := store.Load(ctx, "t1")
	require.Equal(t, []string{"seller"}, again.User.UserType)

	now = now.Add(30 * time.Minute)
	_, err = store.Load(ctx, "t2")
	require.ErrorIs(t, err, ports.ErrNotFound)
	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	require.NoError(t, store.Delete(ctx, "t1"))
	_, err = store.Load(ctx, "t1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
