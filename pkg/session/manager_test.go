package session_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkwell/internal/fakeapi"
	"github.com/aretw0/inkwell/pkg/adapters/fs"
	"github.com/aretw0/inkwell/pkg/adapters/memory"
	"github.com/aretw0/inkwell/pkg/api"
	"github.com/aretw0/inkwell/pkg/core"
	"github.com/aretw0/inkwell/pkg/session"
)

// stubAuth implements session.Authenticator without a network.
type stubAuth struct {
	token     string
	loginErr  error
	signupErr error
	logins    int
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (string, error) {
	s.logins++
	return s.token, s.loginErr
}

func (s *stubAuth) Signup(ctx context.Context, username, email, password string) (core.Account, error) {
	if s.signupErr != nil {
		return core.Account{}, s.signupErr
	}
	return core.Account{ID: "1", Username: username, Email: email}, nil
}

// failingStore fails every read.
type failingStore struct{ *memory.Store }

func (f failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func TestLogin_ThenRestoreYieldsSameSession(t *testing.T) {
	_, ts := fakeapi.NewTestServer(t)
	ctx := context.Background()
	store := memory.NewStore()

	first := session.NewManager(api.New(ts.URL), store)
	_, err := first.Signup(ctx, "someone", "someone@example.com", "secret1")
	require.NoError(t, err)
	first.Logout()

	user, err := first.Login(ctx, "someone@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, core.User{Email: "someone@example.com", Username: "someone"}, user)

	// Simulate a reload: a fresh manager over the same persisted state.
	reloaded := session.NewManager(api.New(ts.URL), store)
	assert.False(t, reloaded.IsAuthenticated())
	require.NoError(t, reloaded.Restore(ctx))
	require.True(t, reloaded.IsAuthenticated())

	a, _ := first.Current()
	b, _ := reloaded.Current()
	assert.Equal(t, a.User, b.User)
	assert.Equal(t, a.Token, b.Token)
	require.NotNil(t, b.ExpiresAt, "JWT expiry should be read")
	assert.WithinDuration(t, time.Now().Add(fakeapi.TokenTTL), *b.ExpiresAt, time.Minute)
}

func TestSignup_LogsInInternally(t *testing.T) {
	_, ts := fakeapi.NewTestServer(t)
	ctx := context.Background()
	m := session.NewManager(api.New(ts.URL), memory.NewStore())

	acc, err := m.Signup(ctx, "jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jane", acc.Username)

	sess, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, core.User{Email: "jane@x.com", Username: "jane"}, sess.User)
	assert.NotEmpty(t, m.Token())
}

func TestSignup_DuplicateAccount(t *testing.T) {
	_, ts := fakeapi.NewTestServer(t)
	ctx := context.Background()
	m := session.NewManager(api.New(ts.URL), memory.NewStore())

	_, err := m.Signup(ctx, "jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	m.Logout()

	_, err = m.Signup(ctx, "jane2", "jane@x.com", "secret1")
	var ae *core.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "Email already registered", ae.Message)
	assert.False(t, m.IsAuthenticated())
}

func TestLogin_RejectedLeavesSessionUntouched(t *testing.T) {
	_, ts := fakeapi.NewTestServer(t)
	ctx := context.Background()
	store := memory.NewStore()
	m := session.NewManager(api.New(ts.URL), store)

	_, err := m.Signup(ctx, "jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	before, _ := m.Current()

	_, err = m.Login(ctx, "jane@x.com", "wrong")
	var ae *core.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid credentials", ae.Message)

	after, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, 2, store.Len())
}

func TestLogin_FallbackMessage(t *testing.T) {
	m := session.NewManager(&stubAuth{loginErr: errors.New("connection refused")}, memory.NewStore())

	_, err := m.Login(context.Background(), "a@b.co", "pw")
	var ae *core.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Login failed", ae.Message)

	m = session.NewManager(&stubAuth{signupErr: &api.StatusError{Status: 500}}, memory.NewStore())
	_, err = m.Signup(context.Background(), "a", "a@b.co", "pw")
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Signup failed", ae.Message)
	assert.Equal(t, 500, ae.Status)
}

func TestLogout_AlwaysClears(t *testing.T) {
	ctx := context.Background()

	t.Run("from logged in", func(t *testing.T) {
		store := memory.NewStore()
		m := session.NewManager(&stubAuth{token: "opaque"}, store)
		_, err := m.Login(ctx, "a@b.co", "pw")
		require.NoError(t, err)
		require.True(t, m.IsAuthenticated())

		m.Logout()
		assert.False(t, m.IsAuthenticated())
		assert.Empty(t, m.Token())
		assert.Equal(t, 0, store.Len())
	})

	t.Run("from logged out", func(t *testing.T) {
		store := memory.NewStore()
		m := session.NewManager(&stubAuth{}, store)
		m.Logout()
		assert.False(t, m.IsAuthenticated())
		assert.Equal(t, 0, store.Len())
	})
}

func TestRestore_CorruptUserIsClearedSilently(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, core.KeyToken, []byte("tok")))
	require.NoError(t, store.Set(ctx, core.KeyUser, []byte("{not json")))

	m := session.NewManager(&stubAuth{}, store)
	require.NoError(t, m.Restore(ctx))
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, 0, store.Len())
}

func TestRestore_PartialStateIsCleared(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, core.KeyToken, []byte("tok")))

	m := session.NewManager(&stubAuth{}, store)
	require.NoError(t, m.Restore(ctx))
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, 0, store.Len())
}

func TestRestore_EmptyStore(t *testing.T) {
	m := session.NewManager(&stubAuth{}, memory.NewStore())
	require.NoError(t, m.Restore(context.Background()))
	assert.False(t, m.IsAuthenticated())

	state := m.State().(session.State)
	assert.True(t, state.Restored)
	assert.False(t, state.Authenticated)
}

func TestRestore_ReadFailureIsReported(t *testing.T) {
	m := session.NewManager(&stubAuth{}, failingStore{memory.NewStore()})
	assert.Error(t, m.Restore(context.Background()))
	assert.False(t, m.IsAuthenticated())
}

func TestRestore_OpaqueTokenHasNoExpiry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := session.NewManager(&stubAuth{token: "not-a-jwt"}, store)
	_, err := m.Login(ctx, "a@b.co", "pw")
	require.NoError(t, err)

	sess, _ := m.Current()
	assert.Nil(t, sess.ExpiresAt)
	assert.False(t, sess.Expired(time.Now()))
}

func TestFollow_ObservesLogoutFromAnotherProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()

	server := session.NewManager(&stubAuth{token: "tok"}, fs.NewStore(fs.Config{Dir: dir}))
	cli := session.NewManager(&stubAuth{token: "tok"}, fs.NewStore(fs.Config{Dir: dir}))

	_, err := cli.Login(ctx, "a@b.co", "pw")
	require.NoError(t, err)
	require.NoError(t, server.Restore(ctx))
	require.True(t, server.IsAuthenticated())

	require.NoError(t, server.Follow(ctx))
	cli.Logout()

	assert.Eventually(t, func() bool { return !server.IsAuthenticated() }, 3*time.Second, 20*time.Millisecond)
}

func TestFollow_ObservesLoginFromAnotherProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()

	server := session.NewManager(&stubAuth{token: "tok"}, fs.NewStore(fs.Config{Dir: dir}))
	require.NoError(t, server.Restore(ctx))
	require.False(t, server.IsAuthenticated())
	require.NoError(t, server.Follow(ctx))

	for i := range 5 {
		cli := session.NewManager(&stubAuth{token: "tok"}, fs.NewStore(fs.Config{Dir: dir}))
		_, err := cli.Login(ctx, "a@b.co", "pw")
		require.NoError(t, err)

		require.Eventually(t, server.IsAuthenticated, 3*time.Second, 20*time.Millisecond, "round %d", i)
		time.Sleep(300 * time.Millisecond)

		// The follower must not have repaired the pair while it was half written.
		fresh := session.NewManager(&stubAuth{}, fs.NewStore(fs.Config{Dir: dir}))
		require.NoError(t, fresh.Restore(ctx))
		require.True(t, fresh.IsAuthenticated(), "round %d: persisted login was wiped", i)
		assert.Equal(t, "tok", server.Token())

		cli.Logout()
		require.Eventually(t, func() bool { return !server.IsAuthenticated() }, 3*time.Second, 20*time.Millisecond)
	}
}

func TestFollow_ObservesTokenRefresh(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()

	server := session.NewManager(&stubAuth{token: "old"}, fs.NewStore(fs.Config{Dir: dir}))
	_, err := server.Login(ctx, "a@b.co", "pw")
	require.NoError(t, err)
	require.NoError(t, server.Follow(ctx))

	cli := session.NewManager(&stubAuth{token: "new"}, fs.NewStore(fs.Config{Dir: dir}))
	_, err = cli.Login(ctx, "b@b.co", "pw")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return server.Token() == "new" }, 3*time.Second, 20*time.Millisecond)
	sess, ok := server.Current()
	require.True(t, ok)
	assert.Equal(t, "b@b.co", sess.User.Email)
}

func TestLogin_EmptyTokenIsRejected(t *testing.T) {
	store := memory.NewStore()
	m := session.NewManager(&stubAuth{token: ""}, store)

	_, err := m.Login(context.Background(), "a@b.co", "pw")
	var authErr *core.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Login failed", authErr.Message)
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())

	_, ok, _ := store.Get(context.Background(), core.KeyUser)
	assert.False(t, ok, "nothing persisted")
}

func TestOnChange_FiresOnIdentityChanges(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := session.NewManager(&stubAuth{token: "tok"}, store)

	var seen []string
	m.OnChange(func(s core.Session) { seen = append(seen, s.User.Email) })

	_, err := m.Login(ctx, "a@b.co", "pw")
	require.NoError(t, err)
	require.NoError(t, m.Restore(ctx)) // same session, no change
	m.Logout()

	assert.Equal(t, []string{"a@b.co", ""}, seen)
}

func TestFollow_RequiresWatchableStore(t *testing.T) {
	m := session.NewManager(&stubAuth{}, memory.NewStore())
	assert.ErrorIs(t, m.Follow(context.Background()), session.ErrNotWatchable)
}
