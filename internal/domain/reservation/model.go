package reservation

import (
	"errors"
	"strings"
	"time"

	"tennisclub/internal/domain/court"
	"tennisclub/internal/domain/player"
)

// Status constants: backend-owned reserva lifecycle values, displayed verbatim.
const (
	StatusPendente   = "PENDENTE"
	StatusConfirmada = "CONFIRMADA"
	StatusCancelada  = "CANCELADA"
)

// Domain errors
var (
	ErrMissingCourt    = errors.New("quadra é obrigatória")
	ErrMissingPlayer   = errors.New("jogador é obrigatório")
	ErrMissingDateTime = errors.New("data e hora são obrigatórias")
	ErrPastDateTime    = errors.New("a reserva deve ser para uma data futura")
)

// DateTime wraps time.Time to accept the backend's zone-less LocalDateTime
// serialization ("2006-01-02T15:04:05") as well as RFC3339. It always
// marshals as RFC3339 UTC, which the backend accepts on writes.
type DateTime struct {
	time.Time
}

// UnmarshalJSON parses RFC3339 first, then the backend's local form.
func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the time as RFC3339 UTC.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(time.RFC3339) + `"`), nil
}

// Reservation mirrors the backend reserva record. Quadra and Jogadores come
// back fully embedded.
type Reservation struct {
	ID        int64           `json:"id"`
	Quadra    court.Court     `json:"quadra"`
	Jogadores []player.Player `json:"jogadores"`
	DataHora  DateTime        `json:"dataHora"`
	Status    string          `json:"status"`
}

// Request is the create payload sent to POST /reservas.
type Request struct {
	QuadraID  int64     `json:"quadraId"`
	JogadorID int64     `json:"jogadorId"`
	DataHora  time.Time `json:"dataHora"`
}

// Validate checks a reservation request against the given clock.
// PRE: now is the current time
// POST: Returns nil if the request references a court, a player, and a
// now-or-later date-time
func (r *Request) Validate(now time.Time) error {
	if r.QuadraID == 0 {
		return ErrMissingCourt
	}
	if r.JogadorID == 0 {
		return ErrMissingPlayer
	}
	if r.DataHora.IsZero() {
		return ErrMissingDateTime
	}
	if r.DataHora.Before(now) {
		return ErrPastDateTime
	}
	return nil
}

// PlayerNames joins the names of all players on the reservation for the
// instructor view.
// INVARIANT: Reservation fields are not mutated
func (r *Reservation) PlayerNames() string {
	names := make([]string, 0, len(r.Jogadores))
	for _, j := range r.Jogadores {
		names = append(names, j.Nome)
	}
	return strings.Join(names, ", ")
}

// FormatDataHora renders the reservation time for table display.
func (r *Reservation) FormatDataHora() string {
	return r.DataHora.Format("02/01/2006 às 15:04")
}
