package orchestrators

import (
	"context"
	"log/slog"

	"tennisclub/internal/domain/court"
)

// CreateCourtAPI defines the backend surface needed by CreateCourt.
type CreateCourtAPI interface {
	CreateCourt(ctx context.Context, q court.Court) (court.Court, error)
}

// CreateCourtInput carries the court creation form values.
type CreateCourtInput struct {
	Nome        string
	Tipo        string
	Localizacao string
}

// CreateCourtDeps holds dependencies for CreateCourt.
type CreateCourtDeps struct {
	API CreateCourtAPI
}

// ExecuteCreateCourt validates the submission and creates the quadra.
// New courts start available; the backend owns later availability flips.
// PRE: input carries the form values
// POST: Returns the created court, or field errors with no API call issued
func ExecuteCreateCourt(ctx context.Context, input CreateCourtInput, deps CreateCourtDeps) (court.Court, map[string]string, error) {
	q := court.Court{
		Nome:        input.Nome,
		Tipo:        input.Tipo,
		Localizacao: input.Localizacao,
		Disponivel:  true,
	}

	if errs := q.FieldErrors(); len(errs) > 0 {
		return court.Court{}, errs, nil
	}

	created, err := deps.API.CreateCourt(ctx, q)
	if err != nil {
		slog.Info("court_event", "event", "create_failed", "nome", input.Nome, "error", err)
		return court.Court{}, nil, err
	}

	slog.Info("court_event", "event", "create_success", "nome", created.Nome, "id", created.ID)
	return created, nil, nil
}
