package orchestrators

import (
	"context"
	"log/slog"

	"tennisclub/internal/domain/player"
)

// RegisterAPI defines the backend surface needed by RegisterPlayer.
type RegisterAPI interface {
	RegisterPlayer(ctx context.Context, p player.Player) (player.Player, error)
}

// RegisterPlayerInput carries the registration form values.
type RegisterPlayerInput struct {
	Nome        string
	Email       string
	Senha       string
	Nivel       string
	Localizacao string
}

// RegisterPlayerDeps holds dependencies for RegisterPlayer.
type RegisterPlayerDeps struct {
	API RegisterAPI
}

// ExecuteRegisterPlayer validates the submission and creates the jogador.
// Validation failures block the backend call entirely.
// PRE: input carries the form values
// POST: Returns the created player, or field errors with no API call issued
func ExecuteRegisterPlayer(ctx context.Context, input RegisterPlayerInput, deps RegisterPlayerDeps) (player.Player, map[string]string, error) {
	p := player.Player{
		Nome:        input.Nome,
		Email:       input.Email,
		Senha:       input.Senha,
		Nivel:       input.Nivel,
		Localizacao: input.Localizacao,
		Papel:       player.RoleAluno,
	}

	if errs := p.FieldErrors(); len(errs) > 0 {
		return player.Player{}, errs, nil
	}

	created, err := deps.API.RegisterPlayer(ctx, p)
	if err != nil {
		slog.Info("auth_event", "event", "register_failed", "email", input.Email, "error", err)
		return player.Player{}, nil, err
	}

	slog.Info("auth_event", "event", "register_success", "email", input.Email)
	return created, nil, nil
}
