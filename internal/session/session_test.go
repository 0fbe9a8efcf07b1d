package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhishekbhonde/new-portfolio/internal/gateway"
	"github.com/abhishekbhonde/new-portfolio/internal/kv"
	"github.com/abhishekbhonde/new-portfolio/internal/localstore"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
)

type fakeAuth struct {
	users     map[string]models.Author // token -> user
	loginErr  error
	calls     int
	lastEmail string
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*gateway.AuthResult, error) {
	f.calls++
	f.lastEmail = email
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &gateway.AuthResult{Token: "tok-" + email, User: models.Author{ID: "u1", Name: "Ada"}}, nil
}

func (f *fakeAuth) Register(_ context.Context, name, email, password string) (*gateway.AuthResult, error) {
	f.calls++
	return &gateway.AuthResult{Token: "tok-new", User: models.Author{ID: "u2", Name: name}}, nil
}

func (f *fakeAuth) Me(_ context.Context, token string) (models.Author, error) {
	f.calls++
	u, ok := f.users[token]
	if !ok {
		return models.Author{}, models.ErrUnauthenticated
	}
	return u, nil
}

func newManager(t *testing.T, auth *fakeAuth) (*Manager, *localstore.Store) {
	t.Helper()
	tokens := localstore.New(kv.NewMemory())
	return NewManager(tokens, auth), tokens
}

func TestRestoreWithoutToken(t *testing.T) {
	auth := &fakeAuth{}
	m, _ := newManager(t, auth)

	if m.State() != StateUnknown {
		t.Fatalf("initial state: %v", m.State())
	}
	state, err := m.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if state != StateAnonymous || m.Identity() != nil {
		t.Fatalf("state %v identity %+v", state, m.Identity())
	}
	if auth.calls != 0 {
		t.Fatalf("no token should mean no verification call, got %d", auth.calls)
	}
}

func TestRestoreValidToken(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{users: map[string]models.Author{"good": {ID: "u1", Name: "Ada"}}}
	m, tokens := newManager(t, auth)
	tokens.SaveToken(ctx, "good")

	state, err := m.Restore(ctx)
	if err != nil || state != StateAuthenticated {
		t.Fatalf("restore: %v %v", state, err)
	}
	ident, err := m.Require()
	if err != nil {
		t.Fatalf("require: %v", err)
	}
	if ident.Token != "good" || ident.User.Name != "Ada" {
		t.Fatalf("identity: %+v", ident)
	}
}

func TestRestoreInvalidTokenClearsIt(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{users: map[string]models.Author{}}
	m, tokens := newManager(t, auth)
	tokens.SaveToken(ctx, "stale")

	state, err := m.Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if state != StateAnonymous {
		t.Fatalf("state: %v", state)
	}
	if m.Notice() != ExpiredNotice {
		t.Fatalf("notice: %q", m.Notice())
	}
	if tok, _ := tokens.Token(ctx); tok != "" {
		t.Fatalf("stale token still persisted: %q", tok)
	}
}

func TestLoginPersistsToken(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{}
	m, tokens := newManager(t, auth)
	m.Restore(ctx)

	ident, err := m.Login(ctx, Credentials{Email: " ada@example.com ", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if auth.lastEmail != "ada@example.com" {
		t.Fatalf("email not trimmed: %q", auth.lastEmail)
	}
	if m.State() != StateAuthenticated || ident.User.ID != "u1" {
		t.Fatalf("state %v ident %+v", m.State(), ident)
	}
	if tok, _ := tokens.Token(ctx); tok != ident.Token {
		t.Fatalf("persisted token %q, want %q", tok, ident.Token)
	}
}

func TestLoginFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{loginErr: &models.APIError{Status: 400, Message: "Invalid credentials"}}
	m, _ := newManager(t, auth)
	m.Restore(ctx)

	_, err := m.Login(ctx, Credentials{Email: "ada@example.com", Password: "bad"})
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Fatalf("got %v, want backend message", err)
	}
	if m.State() != StateAnonymous {
		t.Fatalf("state changed to %v", m.State())
	}
}

func TestLoginValidation(t *testing.T) {
	auth := &fakeAuth{}
	m, _ := newManager(t, auth)

	_, err := m.Login(context.Background(), Credentials{Email: "", Password: "pw"})
	if !models.IsValidation(err) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if auth.calls != 0 {
		t.Fatal("validation failure must not reach the backend")
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	auth := &fakeAuth{}
	m, _ := newManager(t, auth)

	_, err := m.Register(context.Background(), Registration{
		Name: "Ada", Email: "ada@example.com", Password: "one", Confirm: "two",
	})
	if !models.IsValidation(err) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if auth.calls != 0 {
		t.Fatal("mismatch must not reach the backend")
	}
}

func TestRegisterSignsIn(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{}
	m, tokens := newManager(t, auth)

	ident, err := m.Register(ctx, Registration{
		Name: "Grace", Email: "grace@example.com", Password: "pw", Confirm: "pw",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if ident.User.Name != "Grace" || m.State() != StateAuthenticated {
		t.Fatalf("ident %+v state %v", ident, m.State())
	}
	if tok, _ := tokens.Token(ctx); tok != "tok-new" {
		t.Fatalf("token: %q", tok)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{}
	m, tokens := newManager(t, auth)
	m.Login(ctx, Credentials{Email: "ada@example.com", Password: "pw"})

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if m.State() != StateAnonymous {
		t.Fatalf("state: %v", m.State())
	}
	if _, err := m.Require(); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("require after logout: %v", err)
	}
	if tok, _ := tokens.Token(ctx); tok != "" {
		t.Fatalf("token survived logout: %q", tok)
	}
}

func TestIdentityIsACopy(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, &fakeAuth{})
	m.Login(ctx, Credentials{Email: "ada@example.com", Password: "pw"})

	ident := m.Identity()
	ident.Token = "tampered"
	if m.Identity().Token == "tampered" {
		t.Fatal("Identity leaked internal state")
	}
}

func TestWrongPasswordSurfacesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	tokens := localstore.New(kv.NewMemory())
	m := NewManager(tokens, gateway.New(srv.URL))
	m.Restore(ctx)

	_, err := m.Login(ctx, Credentials{Email: "ada@example.com", Password: "wrong"})
	if errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("rejected credentials reported as missing session: %v", err)
	}
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("got %v, want backend message verbatim", err)
	}
	if m.State() != StateAnonymous {
		t.Fatalf("state changed to %v", m.State())
	}
	if tok, _ := tokens.Token(ctx); tok != "" {
		t.Fatalf("token stored after failed login: %q", tok)
	}
}
