package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/agentdesk/internal/client/client"
	"github.com/dmitrijs2005/agentdesk/internal/client/session"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

// fakeClient implements client.Client for AuthService unit tests.
type fakeClient struct {
	LoginRet    *session.CredentialPair
	LoginErr    error
	ProfileRet  *session.User
	ProfileErr  error
	RegisterRet *session.User
	RegisterErr error
	LogoutErr   error
	RefreshRet  *session.State
	RefreshErr  error

	LastLoginIdentifier string
	LastLoginPassword   string
	LastProfileToken    string
	LastRegister        client.RegisterRequest
	LogoutCalls         int
}

func (f *fakeClient) Do(ctx context.Context, req *client.Request, out any) error { return nil }

func (f *fakeClient) Login(ctx context.Context, identifier, password string) (*session.CredentialPair, error) {
	f.LastLoginIdentifier = identifier
	f.LastLoginPassword = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Refresh(ctx context.Context, refreshToken string) (*session.CredentialPair, error) {
	return nil, errors.New("not used")
}

func (f *fakeClient) Profile(ctx context.Context, accessToken string) (*session.User, error) {
	f.LastProfileToken = accessToken
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) Register(ctx context.Context, in client.RegisterRequest) (*session.User, error) {
	f.LastRegister = in
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeClient) RefreshSession(ctx context.Context) (*session.State, error) {
	return f.RefreshRet, f.RefreshErr
}

// ---- helpers ----

func okClient() *fakeClient {
	return &fakeClient{
		LoginRet:   &session.CredentialPair{AccessToken: "A1", RefreshToken: "R1", TokenType: "bearer"},
		ProfileRet: &session.User{ID: "u1", Email: "user@example.com", Username: "user"},
	}
}

func seeded(t *testing.T) *session.MemoryStore {
	t.Helper()
	st := session.NewMemoryStore()
	require.NoError(t, st.Set(context.Background(),
		session.CredentialPair{AccessToken: "OLD", RefreshToken: "OLDR"},
		session.User{ID: "old"}))
	return st
}

func requireEmpty(t *testing.T, st session.Store) {
	t.Helper()
	got, err := st.Get(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
}

// ---- TESTS ----

func TestLogin_StoresPairAndProfile(t *testing.T) {
	fc := okClient()
	st := session.NewMemoryStore()
	svc := NewAuthService(fc, st, nil)

	user, err := svc.Login(context.Background(), "user@example.com", "correct-pw")
	require.NoError(t, err)
	require.Equal(t, "user@example.com", user.Email)

	require.Equal(t, "user@example.com", fc.LastLoginIdentifier)
	require.Equal(t, "correct-pw", fc.LastLoginPassword)
	require.Equal(t, "A1", fc.LastProfileToken)

	got, err := st.Get(context.Background())
	require.NoError(t, err)
	want := &session.State{
		Pair: session.CredentialPair{AccessToken: "A1", RefreshToken: "R1", TokenType: "bearer"},
		User: session.User{ID: "u1", Email: "user@example.com", Username: "user"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stored state mismatch (-want +got):\n%s", diff)
	}
	require.True(t, svc.IsAuthenticated(context.Background()))
}

func TestLogin_LoginErrorClearsSession(t *testing.T) {
	fc := &fakeClient{LoginErr: errors.New("bad creds")}
	st := seeded(t)
	svc := NewAuthService(fc, st, nil)

	_, err := svc.Login(context.Background(), "u", "p")
	require.EqualError(t, err, "bad creds")
	requireEmpty(t, st)
	require.False(t, svc.IsAuthenticated(context.Background()))
}

func TestLogin_ProfileErrorClearsSession(t *testing.T) {
	fc := okClient()
	fc.ProfileErr = errors.New("profile down")
	fc.ProfileRet = nil
	st := seeded(t)
	svc := NewAuthService(fc, st, nil)

	_, err := svc.Login(context.Background(), "u", "p")
	require.Error(t, err)
	requireEmpty(t, st)
}

func TestRegister_LogsInWithCreatedEmail(t *testing.T) {
	fc := okClient()
	fc.RegisterRet = &session.User{ID: "u1", Email: "user@example.com"}
	st := session.NewMemoryStore()
	svc := NewAuthService(fc, st, nil)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "User@Example.com",
		Username:  "user",
		FirstName: "Ann",
		LastName:  "Lee",
	}, "correct-pw")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)

	require.Equal(t, client.RegisterRequest{
		Email:     "User@Example.com",
		Username:  "user",
		FirstName: "Ann",
		LastName:  "Lee",
		Password:  "correct-pw",
	}, fc.LastRegister)
	require.Equal(t, "user@example.com", fc.LastLoginIdentifier)

	tok, err := st.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A1", tok)
}

func TestRegister_FailureLeavesNoSession(t *testing.T) {
	fc := okClient()
	fc.RegisterErr = errors.New("dup")
	st := seeded(t)
	svc := NewAuthService(fc, st, nil)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "e"}, "p")
	require.Error(t, err)
	require.Empty(t, fc.LastLoginIdentifier)
	requireEmpty(t, st)
}

func TestLogout_ServerErrorStillClears(t *testing.T) {
	fc := &fakeClient{LogoutErr: errors.New("down")}
	st := seeded(t)
	svc := NewAuthService(fc, st, nil)

	require.NoError(t, svc.Logout(context.Background()))
	require.Equal(t, 1, fc.LogoutCalls)
	requireEmpty(t, st)
}

func TestRefreshToken_Delegates(t *testing.T) {
	fc := &fakeClient{RefreshRet: &session.State{User: session.User{ID: "u2"}}}
	svc := NewAuthService(fc, session.NewMemoryStore(), nil)

	user, err := svc.RefreshToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u2", user.ID)

	fc.RefreshErr = client.ErrNoRefreshToken
	_, err = svc.RefreshToken(context.Background())
	require.ErrorIs(t, err, client.ErrNoRefreshToken)
}

func TestCurrentUser(t *testing.T) {
	svc := NewAuthService(&fakeClient{}, session.NewMemoryStore(), nil)
	user, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Nil(t, user)

	svc = NewAuthService(&fakeClient{}, seeded(t), nil)
	user, err = svc.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "old", user.ID)
}

// ---- against a real HTTP client ----

func TestRegister_ValidationMessageSurfacedExactly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`[{"msg":"Password too short"}]`))
	}))
	defer srv.Close()

	st := session.NewMemoryStore()
	c, err := client.NewHTTPClient(srv.URL, st)
	require.NoError(t, err)
	svc := NewAuthService(c, st, nil)

	_, err = svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Username: "ab"}, "x")
	require.ErrorIs(t, err, client.ErrValidation)
	require.Equal(t, "Password too short", err.Error())
	requireEmpty(t, st)
}

func TestLogout_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	st := seeded(t)
	c, err := client.NewHTTPClient(base, st)
	require.NoError(t, err)
	svc := NewAuthService(c, st, nil)

	require.NoError(t, svc.Logout(context.Background()))
	requireEmpty(t, st)
}
