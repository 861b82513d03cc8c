package effects

import (
	"context"
	"errors"
	"strings"

	"github.com/fjod/shop-sphere/internal/catalog"
	"github.com/fjod/shop-sphere/internal/domain"
	"github.com/fjod/shop-sphere/internal/state"
	"go.uber.org/zap"
)

const (
	loginFallback      = "Login failed"
	registerFallback   = "Registration failed"
	unexpectedErrorMsg = "An unexpected error occurred"
)

type Auth struct {
	client AuthClient
	store  Dispatcher
	demo   domain.Credentials
	log    *zap.Logger
}

// NewAuth takes the demo credentials used to sign in after a signup, since the demo
// API never creates a usable account.
func NewAuth(client AuthClient, store Dispatcher, demo domain.Credentials, log *zap.Logger) *Auth {
	return &Auth{
		client: client,
		store:  store,
		demo:   demo,
		log:    log,
	}
}

func (a *Auth) Login(ctx context.Context, creds domain.Credentials) state.AppState {
	a.store.Dispatch(state.AuthPending{Op: state.OpLogin})

	resp, err := a.client.Login(ctx, creds)
	if err != nil {
		a.log.Warn("login failed", zap.String("username", creds.Username), zap.Error(err))
		return a.store.Dispatch(state.AuthFailed{Op: state.OpLogin, Message: ErrorMessage(err, loginFallback)})
	}

	a.log.Info("user logged in", zap.String("username", creds.Username))
	return a.store.Dispatch(state.LoginSucceeded{Token: resp.Token, Username: creds.Username})
}

func (a *Auth) Register(ctx context.Context, data domain.SignUpData) (state.AppState, int64) {
	a.store.Dispatch(state.AuthPending{Op: state.OpRegister})

	resp, err := a.client.Register(ctx, data)
	if err != nil {
		a.log.Warn("registration failed", zap.String("username", data.Username), zap.Error(err))
		return a.store.Dispatch(state.AuthFailed{Op: state.OpRegister, Message: ErrorMessage(err, registerFallback)}), 0
	}

	return a.store.Dispatch(state.RegisterSucceeded{}), resp.ID
}

type SignupResult struct {
	RegisteredID int64
	LoggedInAs   string
	State        state.AppState
}

// Signup registers the user, then signs in with the demo credentials.
// A failed registration stops before the login.
func (a *Auth) Signup(ctx context.Context, data domain.SignUpData) SignupResult {
	s, id := a.Register(ctx, data)
	if s.Auth.Status == domain.StatusFailed {
		return SignupResult{State: s}
	}

	s = a.Login(ctx, a.demo)
	result := SignupResult{RegisteredID: id, State: s}
	if s.Auth.Authenticated {
		result.LoggedInAs = s.Auth.Username
	}
	return result
}

func (a *Auth) Logout() state.AppState {
	return a.store.Dispatch(state.Logout{})
}

// ErrorMessage turns a client error into the text shown to the shopper: the response
// body when the API sent one, the fallback for transport failures or empty bodies.
func ErrorMessage(err error, fallback string) string {
	var httpErr *catalog.HTTPError
	if errors.As(err, &httpErr) {
		if body := strings.TrimSpace(httpErr.Body); body != "" {
			return body
		}
		return fallback
	}
	if errors.Is(err, catalog.ErrTransport) {
		return fallback
	}
	return unexpectedErrorMsg
}
