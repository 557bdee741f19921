package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"tennisclub/internal/domain/player"
)

// LoginAPI defines the backend surface needed by Login.
type LoginAPI interface {
	Login(ctx context.Context, email, senha string) (player.Player, error)
}

// SessionWriter defines the session store surface needed by Login.
type SessionWriter interface {
	Create(ctx context.Context, p player.Player) (string, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email string
	Senha string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Player player.Player
	Token  string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API      LoginAPI
	Sessions SessionWriter
}

var ErrMissingCredentials = errors.New("email e senha são obrigatórios")

// ExecuteLogin authenticates against the backend and persists the session.
// The transport call and the persistence side effect are sequenced here, not
// inside the API client.
// PRE: input carries the form values
// POST: On success the session row exists and the token is returned
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Senha == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	p, err := deps.API.Login(ctx, input.Email, input.Senha)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email)
		return LoginResult{}, err
	}

	token, err := deps.Sessions.Create(ctx, p)
	if err != nil {
		slog.Error("auth_event", "event", "session_create_failed", "email", input.Email, "error", err)
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", input.Email, "papel", p.Papel)
	return LoginResult{Player: p, Token: token}, nil
}
