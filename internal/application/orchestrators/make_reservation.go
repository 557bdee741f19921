package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tennisclub/internal/adapters/email"
	"tennisclub/internal/domain/player"
	"tennisclub/internal/domain/reservation"
)

// ReservationAPI defines the backend surface needed by MakeReservation.
type ReservationAPI interface {
	CreateReservation(ctx context.Context, req reservation.Request) (reservation.Reservation, error)
}

// MakeReservationInput carries the reserve-dialog values.
type MakeReservationInput struct {
	Jogador  player.Player
	QuadraID int64
	DataHora time.Time
}

// MakeReservationDeps holds dependencies for MakeReservation.
type MakeReservationDeps struct {
	API     ReservationAPI
	Email   email.Sender // optional: nil skips the confirmation email
	From    string
	ReplyTo string
	Now     func() time.Time
}

// ExecuteMakeReservation validates the request, books the court, and sends a
// best-effort confirmation email.
// PRE: input.Jogador is the authenticated player
// POST: On success the reserva exists on the backend; email failure only logs
func ExecuteMakeReservation(ctx context.Context, input MakeReservationInput, deps MakeReservationDeps) (reservation.Reservation, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	req := reservation.Request{
		QuadraID:  input.QuadraID,
		JogadorID: input.Jogador.ID,
		DataHora:  input.DataHora,
	}
	if err := req.Validate(now()); err != nil {
		return reservation.Reservation{}, err
	}

	res, err := deps.API.CreateReservation(ctx, req)
	if err != nil {
		slog.Info("reservation_event", "event", "create_failed", "quadra_id", input.QuadraID, "jogador_id", input.Jogador.ID, "error", err)
		return reservation.Reservation{}, err
	}

	slog.Info("reservation_event", "event", "create_success", "reserva_id", res.ID, "quadra_id", input.QuadraID, "jogador_id", input.Jogador.ID)

	if deps.Email != nil && input.Jogador.Email != "" {
		sendConfirmation(ctx, deps, input.Jogador, res)
	}

	return res, nil
}

// sendConfirmation emails the player about the new reserva. Failures are
// logged and never surface to the user.
func sendConfirmation(ctx context.Context, deps MakeReservationDeps, p player.Player, res reservation.Reservation) {
	courtName := res.Quadra.Nome
	if courtName == "" {
		courtName = fmt.Sprintf("quadra %d", res.Quadra.ID)
	}
	html := fmt.Sprintf(
		"<p>Olá, %s!</p><p>Sua reserva da %s para %s foi registrada com status %s.</p>",
		p.Nome, courtName, res.FormatDataHora(), res.Status,
	)
	_, err := deps.Email.Send(ctx, email.SendRequest{
		To:      []string{p.Email},
		From:    deps.From,
		Subject: "Reserva registrada: " + courtName,
		HTML:    html,
		ReplyTo: deps.ReplyTo,
	})
	if err != nil {
		slog.Warn("reservation_event", "event", "confirmation_email_failed", "reserva_id", res.ID, "error", err)
	}
}
