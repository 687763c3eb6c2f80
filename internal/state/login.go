package state

import (
	"context"
	"errors"
	"strings"

	"github.com/rescueworks/rescuetui/internal/rescue"
	"github.com/rescueworks/rescuetui/internal/session"
)

// MessageInvalidCredentials is shown for every failed login, whatever the cause.
const MessageInvalidCredentials = "Invalid credentials. Please check your email and password."

var (
	ErrLoginInFlight = errors.New("login already in progress")
	ErrMissingFields = errors.New("username and password are required")
)

// LoginResult carries a finished token exchange.
type LoginResult struct {
	Gen   uint64
	Token string
	Err   error
}

// Authenticate exchanges credentials for a token.
func Authenticate(ctx context.Context, gw rescue.Gateway, gen uint64, username, password string) LoginResult {
	token, err := gw.Login(ctx, username, password)
	return LoginResult{Gen: gen, Token: token, Err: err}
}

// Login is the login form controller. A successful login writes the token
// into the session store; nothing else does.
type Login struct {
	store    *session.Store
	load     Load
	Username string
	Password string
	message  string
}

func NewLogin(store *session.Store) *Login {
	return &Login{store: store}
}

// BeginSubmit validates the form and starts a login attempt.
func (l *Login) BeginSubmit(parent context.Context) (uint64, context.Context, error) {
	if l.Submitting() {
		return 0, nil, ErrLoginInFlight
	}
	if strings.TrimSpace(l.Username) == "" || l.Password == "" {
		return 0, nil, ErrMissingFields
	}
	l.message = ""
	gen, ctx := l.load.Begin(parent)
	return gen, ctx, nil
}

// Apply settles a login attempt and reports whether the session is now
// active. Stale results are ignored.
func (l *Login) Apply(res LoginResult) bool {
	err := res.Err
	if err == nil && strings.TrimSpace(res.Token) == "" {
		err = errors.New("empty token")
	}
	if !l.load.Finish(res.Gen, err) {
		return false
	}
	if err != nil {
		l.message = MessageInvalidCredentials
		return false
	}
	l.store.SetToken(res.Token)
	l.Password = ""
	l.message = ""
	return l.store.Active()
}

func (l *Login) Cancel()          { l.load.Stop() }
func (l *Login) Submitting() bool { return l.load.Phase() == PhaseLoading }
func (l *Login) Message() string  { return l.message }
