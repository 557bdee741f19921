package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"tennisclub/internal/adapters/http/perf"
	"tennisclub/internal/domain/court"
	"tennisclub/internal/domain/player"
	"tennisclub/internal/domain/reservation"
)

// DefaultTimeout bounds every backend round trip. The UI never waits on a
// request longer than this.
const DefaultTimeout = 10 * time.Second

// Error is the uniform failure shape for backend calls. Message carries the
// server-provided error payload when present, else the per-operation
// fallback.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// UserMessage returns the text safe to render to the user.
func (e *Error) UserMessage() string {
	return e.Message
}

// Client issues typed requests against the TennisClub backend REST API.
// Every call is a fresh round trip: no retry, no caching.
type Client struct {
	baseURL   string
	http      *http.Client
	collector *perf.Collector
}

// NewClient creates a client for the given base URL (no trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// SetCollector enables backend-call timing in the given collector.
func (c *Client) SetCollector(collector *perf.Collector) {
	c.collector = collector
}

// RegisterPlayer creates a jogador via POST /jogadores.
// PRE: p passed ValidateRegistration
// POST: Returns the created player as echoed by the backend
func (c *Client) RegisterPlayer(ctx context.Context, p player.Player) (player.Player, error) {
	var out player.Player
	err := c.do(ctx, http.MethodPost, "/jogadores", p, &out, "Erro ao cadastrar jogador")
	return out, err
}

// Login authenticates via POST /jogadores/login and returns the player
// record. It does not touch session state; the caller persists the session.
func (c *Client) Login(ctx context.Context, email, senha string) (player.Player, error) {
	creds := map[string]string{"email": email, "senha": senha}
	var out player.Player
	err := c.do(ctx, http.MethodPost, "/jogadores/login", creds, &out, "Erro ao fazer login")
	return out, err
}

// ListPlayers fetches all jogadores via GET /jogadores.
func (c *Client) ListPlayers(ctx context.Context) ([]player.Player, error) {
	var out []player.Player
	err := c.do(ctx, http.MethodGet, "/jogadores", nil, &out, "Erro ao listar jogadores")
	return out, err
}

// ListCourts fetches all quadras via GET /quadras.
func (c *Client) ListCourts(ctx context.Context) ([]court.Court, error) {
	var out []court.Court
	err := c.do(ctx, http.MethodGet, "/quadras", nil, &out, "Erro ao listar quadras")
	return out, err
}

// CreateCourt creates a quadra via POST /quadras.
// PRE: q passed Validate
func (c *Client) CreateCourt(ctx context.Context, q court.Court) (court.Court, error) {
	var out court.Court
	err := c.do(ctx, http.MethodPost, "/quadras", q, &out, "Erro ao cadastrar quadra")
	return out, err
}

// CreateReservation books a court via POST /reservas.
// PRE: req passed Validate
func (c *Client) CreateReservation(ctx context.Context, req reservation.Request) (reservation.Reservation, error) {
	var out reservation.Reservation
	err := c.do(ctx, http.MethodPost, "/reservas", req, &out, "Erro ao realizar reserva")
	return out, err
}

// ListReservationsByCourt fetches reservas for one quadra.
func (c *Client) ListReservationsByCourt(ctx context.Context, quadraID int64) ([]reservation.Reservation, error) {
	var out []reservation.Reservation
	path := fmt.Sprintf("/reservas/quadra/%d", quadraID)
	err := c.do(ctx, http.MethodGet, path, nil, &out, "Erro ao listar reservas")
	return out, err
}

// ListReservationsByPlayer fetches reservas for one jogador.
func (c *Client) ListReservationsByPlayer(ctx context.Context, jogadorID int64) ([]reservation.Reservation, error) {
	var out []reservation.Reservation
	path := fmt.Sprintf("/reservas/jogador/%d", jogadorID)
	err := c.do(ctx, http.MethodGet, path, nil, &out, "Erro ao listar reservas")
	return out, err
}

// ListAllReservations fetches every reserva (instructor view).
func (c *Client) ListAllReservations(ctx context.Context) ([]reservation.Reservation, error) {
	var out []reservation.Reservation
	err := c.do(ctx, http.MethodGet, "/reservas/todas", nil, &out, "Erro ao listar reservas")
	return out, err
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses become an *Error carrying the server's payload, or the
// fallback message when the body is absent or unreadable.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("api_call_failed", "op", op, "request_id", requestID, "error", err)
		c.record(op, 0, start)
		return &Error{Op: op, Message: fallback}
	}
	defer resp.Body.Close()

	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	c.record(op, resp.StatusCode, start)
	slog.Debug("api_call", "op", op, "request_id", requestID, "status", resp.StatusCode, "duration_ms", durationMs)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body, fallback),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// record feeds the backend call timing into the collector, when set.
func (c *Client) record(op string, status int, start time.Time) {
	if c.collector == nil {
		return
	}
	c.collector.Record(perf.Entry{
		Kind:       perf.KindBackend,
		Path:       op,
		StatusCode: status,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  time.Now(),
	})
}

// serverMessage extracts a human-readable message from an error body. The
// backend answers either a bare string or a JSON object with a message or
// error field.
func serverMessage(body io.Reader, fallback string) string {
	raw, err := io.ReadAll(io.LimitReader(body, 8192))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return fallback
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && asString != "" {
		return asString
	}

	var asObject map[string]any
	if err := json.Unmarshal(raw, &asObject); err == nil {
		for _, key := range []string{"message", "error", "mensagem"} {
			if msg, ok := asObject[key].(string); ok && msg != "" {
				return msg
			}
		}
		return fallback
	}

	return strings.TrimSpace(string(raw))
}
