package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petsetu/petsetu-web/internal/domains/users/adapters/memory"
	"github.com/petsetu/petsetu-web/internal/domains/users/domain"
	"github.com/petsetu/petsetu-web/internal/domains/users/ports"
)

type fakeAuthenticator struct {
	session *domain.Session
	err     error
	lastReg domain.Registration
	logins  int
}

func (f *fakeAuthenticator) Login(_ context.Context, _ domain.Credentials) (*domain.Session, error) {
	f.logins++
	if f.err != nil {
		return nil, f.err
	}
	copy := *f.session
	return &copy, nil
}

func (f *fakeAuthenticator) Register(_ context.Context, r domain.Registration) (*domain.Session, error) {
	f.lastReg = r
	if f.err != nil {
		return nil, f.err
	}
	copy := *f.session
	return &copy, nil
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(auth ports.Authenticator) (*Service, *memory.SessionStore) {
	store := memory.NewSessionStore()
	store.WithClock(func() time.Time { return fixedNow })
	return NewService(auth, store, WithClock(func() time.Time { return fixedNow })), store
}

func sampleSession() *domain.Session {
	return &domain.Session{
		User:   domain.User{ID: "u1", Name: "Asha"},
		Tokens: domain.Tokens{Access: domain.Token{Value: "acc", Expires: "2024-05-01T12:00:00Z"}},
	}
}

func TestService_LoginPersistsSession(t *testing.T) {
	auth := &fakeAuthenticator{session: sampleSession()}
	svc, store := newTestService(auth)

	session, err := svc.Login(context.Background(), domain.Credentials{Email: " asha@example.com ", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "acc", session.AccessToken())

	stored, err := store.Load(context.Background(), "acc")
	require.NoError(t, err)
	require.Equal(t, "u1", stored.User.ID)

	resolved, err := svc.Resolve(context.Background(), "acc")
	require.NoError(t, err)
	require.True(t, resolved.Known())
}

func TestService_LoginValidationAndErrors(t *testing.T) {
	auth := &fakeAuthenticator{session: sampleSession()}
	svc, _ := newTestService(auth)

	_, err := svc.Login(context.Background(), domain.Credentials{Email: "bad"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "Invalid email", verr.Fields["email"])
	require.Zero(t, auth.logins)

	auth.err = ports.ErrInvalidCredentials
	_, err = svc.Login(context.Background(), domain.Credentials{Email: "a@b.co", Password: "x"})
	require.ErrorIs(t, err, ErrAuthentication)

	unconfigured := NewService(nil, nil)
	_, err = unconfigured.Login(context.Background(), domain.Credentials{Email: "a@b.co", Password: "x"})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestService_RegisterAppliesDefaults(t *testing.T) {
	auth := &fakeAuthenticator{session: sampleSession()}
	svc, _ := newTestService(auth)

	_, err := svc.Register(context.Background(), domain.Registration{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "user", auth.lastReg.Role)
	require.Equal(t, []string{"seller"}, auth.lastReg.UserType)
	require.Equal(t, "individual", auth.lastReg.SellerType)

	auth.err = ports.ErrRejected
	_, err = svc.Register(context.Background(), domain.Registration{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_RejectsSessionWithoutToken(t *testing.T) {
	auth := &fakeAuthenticator{session: &domain.Session{User: domain.User{ID: "u1"}}}
	svc, _ := newTestService(auth)
	_, err := svc.Login(context.Background(), domain.Credentials{Email: "a@b.co", Password: "x"})
	require.ErrorIs(t, err, ports.ErrUpstream)
}

func TestService_SyncResolveClear(t *testing.T) {
	svc, store := newTestService(&fakeAuthenticator{session: sampleSession()})
	ctx := context.Background()

	_, err := svc.Sync(ctx, "", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	cookie, err := svc.Sync(ctx, "ext", "2024-05-01T10:30:00Z")
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, cookie.MaxAge)

	resolved, err := svc.Resolve(ctx, "ext")
	require.NoError(t, err)
	require.False(t, resolved.Known())
	require.Equal(t, "ext", resolved.AccessToken())

	_, err = svc.Resolve(ctx, " ")
	require.ErrorIs(t, err, ErrAuthRequired)

	require.NoError(t, store.Save(ctx, *sampleSession(), fixedNow.Add(time.Hour)))
	require.NoError(t, svc.Clear(ctx, "acc"))
	_, err = store.Load(ctx, "acc")
	require.True(t, errors.Is(err, ports.ErrNotFound))
	require.NoError(t, svc.Clear(ctx, ""))
}

func TestService_PurgeExpired(t *testing.T) {
	svc, store := newTestService(&fakeAuthenticator{session: sampleSession()})
	require.NoError(t, store.Save(context.Background(), *sampleSession(), fixedNow.Add(-time.Second)))
	purged, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)
}
