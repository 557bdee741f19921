package projections

import (
	"context"

	"tennisclub/internal/domain/player"
	"tennisclub/internal/domain/reservation"
)

// DashboardReservationAPI defines the backend surface needed by the dashboard
// projection.
type DashboardReservationAPI interface {
	ListReservationsByPlayer(ctx context.Context, jogadorID int64) ([]reservation.Reservation, error)
	ListAllReservations(ctx context.Context) ([]reservation.Reservation, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Viewer player.Player
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	API DashboardReservationAPI
}

// ReservationRow is one rendered reservation table row.
type ReservationRow struct {
	QuadraNome  string
	DataHora    string
	Status      string
	PlayerNames string // filled only for the instructor view
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Greeting    string
	RoleLabel   string
	IsProfessor bool
	ShowPlayers bool // instructor-only Jogadores column
	Rows        []ReservationRow
	Empty       bool
}

// QueryGetDashboard assembles the role-dependent dashboard: a PROFESSOR sees
// every reservation, an ALUNO sees only their own.
// PRE: query.Viewer is the authenticated player
// POST: Returns rendered rows; Empty set when the result set has no rows
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	viewer := query.Viewer
	result := DashboardResult{
		Greeting:    "Bem-vindo, " + viewer.Nome + "!",
		RoleLabel:   viewer.RoleLabel(),
		IsProfessor: viewer.IsProfessor(),
		ShowPlayers: viewer.IsProfessor(),
	}

	var (
		reservas []reservation.Reservation
		err      error
	)
	if viewer.IsProfessor() {
		reservas, err = deps.API.ListAllReservations(ctx)
	} else {
		reservas, err = deps.API.ListReservationsByPlayer(ctx, viewer.ID)
	}
	if err != nil {
		return DashboardResult{}, err
	}

	for _, r := range reservas {
		row := ReservationRow{
			QuadraNome: r.Quadra.Nome,
			DataHora:   r.FormatDataHora(),
			Status:     r.Status,
		}
		if result.ShowPlayers {
			row.PlayerNames = r.PlayerNames()
		}
		result.Rows = append(result.Rows, row)
	}
	result.Empty = len(result.Rows) == 0
	return result, nil
}
