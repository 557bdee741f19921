package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tennisclub/internal/domain/court"
	"tennisclub/internal/domain/player"
	"tennisclub/internal/domain/reservation"
)

// TestLogin_Success verifies the login call decodes the player and does not
// touch any session state.
func TestLogin_Success(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/jogadores/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(player.Player{ID: 1, Nome: "Ana", Papel: player.RoleAluno})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	p, err := c.Login(context.Background(), "a@b.com", "abcdef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 1 || p.Nome != "Ana" || p.Papel != player.RoleAluno {
		t.Errorf("unexpected player: %+v", p)
	}
	if gotBody["email"] != "a@b.com" || gotBody["senha"] != "abcdef" {
		t.Errorf("unexpected credentials payload: %v", gotBody)
	}
}

// TestLogin_ServerError verifies the server payload surfaces in the error.
func TestLogin_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.UserMessage() != "Credenciais inválidas" {
		t.Errorf("UserMessage() = %q", apiErr.UserMessage())
	}
}

// TestLogin_EmptyBodyFallback verifies the fixed fallback message when the
// server sends no body.
func TestLogin_EmptyBodyFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Login(context.Background(), "a@b.com", "abcdef")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.UserMessage() != "Erro ao fazer login" {
		t.Errorf("UserMessage() = %q, want fallback", apiErr.UserMessage())
	}
}

// TestListCourts_Idempotent verifies two consecutive fetches return the same
// set with no duplication or loss.
func TestListCourts_Idempotent(t *testing.T) {
	courts := []court.Court{
		{ID: 1, Nome: "Central", Tipo: court.TipoSaibro, Localizacao: "Centro", Disponivel: true},
		{ID: 2, Nome: "Anexa", Tipo: court.TipoGrama, Localizacao: "Centro", Disponivel: false},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(courts)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	first, err := c.ListCourts(context.Background())
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := c.ListCourts(context.Background())
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("lengths = %d, %d, want 2, 2", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs between fetches: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// TestCreateReservation_WireFormat verifies the exact request body shape the
// backend expects: {quadraId, jogadorId, dataHora ISO-8601}.
func TestCreateReservation_WireFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservas" {
			t.Errorf("path = %s, want /reservas", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(reservation.Reservation{ID: 7, Status: reservation.StatusPendente})
	}))
	defer srv.Close()

	when := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	c := NewClient(srv.URL)
	res, err := c.CreateReservation(context.Background(), reservation.Request{
		QuadraID: 3, JogadorID: 1, DataHora: when,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != 7 || res.Status != reservation.StatusPendente {
		t.Errorf("unexpected reservation: %+v", res)
	}
	if got["quadraId"] != float64(3) || got["jogadorId"] != float64(1) {
		t.Errorf("ids in payload = %v, %v", got["quadraId"], got["jogadorId"])
	}
	if got["dataHora"] != "2026-09-01T18:00:00Z" {
		t.Errorf("dataHora = %v, want RFC3339 UTC", got["dataHora"])
	}
}

// TestListReservations_Paths verifies all three list routes hit the right paths.
func TestListReservations_Paths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()
	if _, err := c.ListReservationsByCourt(ctx, 3); err != nil {
		t.Fatalf("by court: %v", err)
	}
	if _, err := c.ListReservationsByPlayer(ctx, 5); err != nil {
		t.Fatalf("by player: %v", err)
	}
	if _, err := c.ListAllReservations(ctx); err != nil {
		t.Fatalf("all: %v", err)
	}

	want := []string{"/reservas/quadra/3", "/reservas/jogador/5", "/reservas/todas"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("path[%d] = %s, want %s", i, paths[i], p)
		}
	}
}

// TestDo_ContextCancelled verifies an already-cancelled context aborts the call.
func TestDo_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL)
	_, err := c.ListCourts(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.UserMessage() != "Erro ao listar quadras" {
		t.Errorf("UserMessage() = %q, want transport fallback", apiErr.UserMessage())
	}
}

// TestServerMessage tests extraction of error payload variants.
func TestServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Quadra indisponível"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.CreateReservation(context.Background(), reservation.Request{QuadraID: 1, JogadorID: 1})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.UserMessage() != "Quadra indisponível" {
		t.Errorf("UserMessage() = %q", apiErr.UserMessage())
	}
}
