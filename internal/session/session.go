// Package session tracks who is using folio. A Manager moves from Unknown
// to Authenticated or Anonymous and hands out an explicit Identity that
// every write operation takes as a parameter.
package session

import (
	"context"
	"net/mail"
	"strings"
	"sync"

	"github.com/abhishekbhonde/new-portfolio/internal/gateway"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
)

// State is the authentication state of the Manager.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// ExpiredNotice is shown when a persisted token fails verification.
const ExpiredNotice = "Session expired. Please login again."

// Identity is the credential and profile of an authenticated viewer.
type Identity struct {
	Token string
	User  models.Author
}

// TokenStore persists the session token.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Authenticator is the backend half of the auth flow.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*gateway.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*gateway.AuthResult, error)
	Me(ctx context.Context, token string) (models.Author, error)
}

// Credentials is the input of Login.
type Credentials struct {
	Email    string
	Password string
}

// Registration is the input of Register.
type Registration struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// Manager owns the session state machine.
type Manager struct {
	tokens TokenStore
	auth   Authenticator

	mu     sync.Mutex
	state  State
	ident  *Identity
	notice string
}

// NewManager returns a Manager in StateUnknown.
func NewManager(tokens TokenStore, auth Authenticator) *Manager {
	return &Manager{tokens: tokens, auth: auth}
}

// Restore verifies a persisted token. A missing token yields Anonymous; a
// token the backend rejects is discarded and yields Anonymous with
// ExpiredNotice. The returned error only reports local store failures.
func (m *Manager) Restore(ctx context.Context) (State, error) {
	token, err := m.tokens.Token(ctx)
	if err != nil {
		return m.setAnonymous(""), err
	}
	if token == "" {
		return m.setAnonymous(""), nil
	}

	user, err := m.auth.Me(ctx, token)
	if err != nil {
		state := m.setAnonymous(ExpiredNotice)
		if cerr := m.tokens.ClearToken(ctx); cerr != nil {
			return state, cerr
		}
		return state, nil
	}

	m.setAuthenticated(&Identity{Token: token, User: user})
	return StateAuthenticated, nil
}

// Login authenticates with email and password. On failure the state is left
// as it was and the backend message is returned.
func (m *Manager) Login(ctx context.Context, c Credentials) (*Identity, error) {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return nil, models.Invalid("email", "email is required")
	}
	if c.Password == "" {
		return nil, models.Invalid("password", "password is required")
	}

	res, err := m.auth.Login(ctx, email, c.Password)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, res)
}

// Register creates an account and signs in with it.
func (m *Manager) Register(ctx context.Context, r Registration) (*Identity, error) {
	name := strings.TrimSpace(r.Name)
	email := strings.TrimSpace(r.Email)
	switch {
	case name == "":
		return nil, models.Invalid("name", "name is required")
	case email == "":
		return nil, models.Invalid("email", "email is required")
	case r.Password == "":
		return nil, models.Invalid("password", "password is required")
	case r.Password != r.Confirm:
		return nil, models.Invalid("password", "passwords do not match")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, models.Invalid("email", "not a valid email address")
	}

	res, err := m.auth.Register(ctx, name, email, r.Password)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, res)
}

func (m *Manager) establish(ctx context.Context, res *gateway.AuthResult) (*Identity, error) {
	if res.Token == "" {
		return nil, &models.APIError{Message: "backend returned no token"}
	}
	if err := m.tokens.SaveToken(ctx, res.Token); err != nil {
		return nil, err
	}
	ident := &Identity{Token: res.Token, User: res.User}
	m.setAuthenticated(ident)
	return ident.clone(), nil
}

// Logout forgets the token. The state becomes Anonymous even when the store
// fails; that failure is still returned.
func (m *Manager) Logout(ctx context.Context) error {
	m.setAnonymous("")
	return m.tokens.ClearToken(ctx)
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Identity returns the current identity, or nil when not authenticated.
func (m *Manager) Identity() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ident.clone()
}

// Require returns the identity or models.ErrUnauthenticated.
func (m *Manager) Require() (*Identity, error) {
	if ident := m.Identity(); ident != nil {
		return ident, nil
	}
	return nil, models.ErrUnauthenticated
}

// Notice returns the pending user-facing notice, if any.
func (m *Manager) Notice() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notice
}

func (m *Manager) setAuthenticated(ident *Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticated
	m.ident = ident
	m.notice = ""
}

func (m *Manager) setAnonymous(notice string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAnonymous
	m.ident = nil
	m.notice = notice
	return m.state
}

func (i *Identity) clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
