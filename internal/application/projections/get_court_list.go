package projections

import (
	"context"

	"tennisclub/internal/domain/court"
	"tennisclub/internal/domain/player"
)

// CourtListAPI defines the backend surface needed by the court list projection.
type CourtListAPI interface {
	ListCourts(ctx context.Context) ([]court.Court, error)
}

// GetCourtListQuery carries input for the court list projection.
type GetCourtListQuery struct {
	Viewer player.Player
}

// GetCourtListDeps holds dependencies for the court list projection.
type GetCourtListDeps struct {
	API CourtListAPI
}

// CourtRow is one rendered court table row. CanReserve is decided at render
// time so an unavailable court never exposes the action.
type CourtRow struct {
	ID          int64
	Nome        string
	Tipo        string
	Localizacao string
	StatusLabel string
	CanReserve  bool
}

// CourtListResult carries the output of the court list projection.
type CourtListResult struct {
	Rows      []CourtRow
	CanCreate bool // PROFESSOR-only "Nova Quadra" action
	Empty     bool
}

// QueryGetCourtList fetches all courts and computes the per-row actions for
// the viewer.
// PRE: query.Viewer is the authenticated player
// POST: CanReserve is true only for available courts viewed by an ALUNO
func QueryGetCourtList(ctx context.Context, query GetCourtListQuery, deps GetCourtListDeps) (CourtListResult, error) {
	courts, err := deps.API.ListCourts(ctx)
	if err != nil {
		return CourtListResult{}, err
	}

	result := CourtListResult{CanCreate: query.Viewer.IsProfessor()}
	for _, q := range courts {
		result.Rows = append(result.Rows, CourtRow{
			ID:          q.ID,
			Nome:        q.Nome,
			Tipo:        q.Tipo,
			Localizacao: q.Localizacao,
			StatusLabel: q.StatusLabel(),
			CanReserve:  q.CanBeReservedBy(query.Viewer.Papel),
		})
	}
	result.Empty = len(result.Rows) == 0
	return result, nil
}
