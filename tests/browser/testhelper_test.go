package browser_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"tennisclub/internal/adapters/api"
	web "tennisclub/internal/adapters/http"
	"tennisclub/internal/adapters/http/middleware"
	"tennisclub/internal/adapters/storage"
	sessionStore "tennisclub/internal/adapters/storage/session"
	"tennisclub/internal/config"
	"tennisclub/internal/domain/court"
	"tennisclub/internal/domain/player"
	"tennisclub/internal/domain/reservation"
)

// stubBackend is an in-memory stand-in for the reservation REST backend.
// It speaks the same wire format on /jogadores, /quadras and /reservas.
type stubBackend struct {
	mu           sync.Mutex
	players      []player.Player
	courts       []court.Court
	reservations []reservation.Reservation
	nextID       int64
}

func newStubBackend() *stubBackend {
	return &stubBackend{nextID: 1}
}

func (b *stubBackend) id() int64 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *stubBackend) addPlayer(p player.Player) player.Player {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = b.id()
	b.players = append(b.players, p)
	return p
}

func (b *stubBackend) addCourt(q court.Court) court.Court {
	b.mu.Lock()
	defer b.mu.Unlock()
	q.ID = b.id()
	b.courts = append(b.courts, q)
	return q
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (b *stubBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/jogadores/login":
		var creds struct {
			Email string `json:"email"`
			Senha string `json:"senha"`
		}
		json.NewDecoder(r.Body).Decode(&creds)
		for _, p := range b.players {
			if p.Email == creds.Email && p.Senha == creds.Senha {
				p.Senha = ""
				writeJSON(w, http.StatusOK, p)
				return
			}
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})

	case r.Method == http.MethodPost && r.URL.Path == "/jogadores":
		var p player.Player
		json.NewDecoder(r.Body).Decode(&p)
		p.ID = b.id()
		b.players = append(b.players, p)
		p.Senha = ""
		writeJSON(w, http.StatusCreated, p)

	case r.Method == http.MethodGet && r.URL.Path == "/jogadores":
		out := make([]player.Player, 0, len(b.players))
		for _, p := range b.players {
			p.Senha = ""
			out = append(out, p)
		}
		writeJSON(w, http.StatusOK, out)

	case r.Method == http.MethodPost && r.URL.Path == "/quadras":
		var q court.Court
		json.NewDecoder(r.Body).Decode(&q)
		q.ID = b.id()
		b.courts = append(b.courts, q)
		writeJSON(w, http.StatusCreated, q)

	case r.Method == http.MethodGet && r.URL.Path == "/quadras":
		writeJSON(w, http.StatusOK, b.courts)

	case r.Method == http.MethodPost && r.URL.Path == "/reservas":
		var req reservation.Request
		json.NewDecoder(r.Body).Decode(&req)
		var quadra court.Court
		for _, q := range b.courts {
			if q.ID == req.QuadraID {
				quadra = q
			}
		}
		var jogador player.Player
		for _, p := range b.players {
			if p.ID == req.JogadorID {
				p.Senha = ""
				jogador = p
			}
		}
		res := reservation.Reservation{
			ID:        b.id(),
			Quadra:    quadra,
			Jogadores: []player.Player{jogador},
			DataHora:  reservation.DateTime{Time: req.DataHora},
			Status:    reservation.StatusPendente,
		}
		b.reservations = append(b.reservations, res)
		writeJSON(w, http.StatusCreated, res)

	case r.Method == http.MethodGet && r.URL.Path == "/reservas/todas":
		writeJSON(w, http.StatusOK, b.reservations)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/reservas/jogador/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/reservas/jogador/"), 10, 64)
		out := make([]reservation.Reservation, 0)
		for _, res := range b.reservations {
			for _, j := range res.Jogadores {
				if j.ID == id {
					out = append(out, res)
					break
				}
			}
		}
		writeJSON(w, http.StatusOK, out)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/reservas/quadra/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/reservas/quadra/"), 10, 64)
		out := make([]reservation.Reservation, 0)
		for _, res := range b.reservations {
			if res.Quadra.ID == id {
				out = append(out, res)
			}
		}
		writeJSON(w, http.StatusOK, out)

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "rota não encontrada"})
	}
}

// testApp holds the running servers and Playwright handles.
type testApp struct {
	BaseURL string
	Backend *stubBackend
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Aluno   player.Player
	Prof    player.Player
	Quadra  court.Court
}

// newTestApp wires a stub backend, a temp session DB and the full middleware
// chain, then starts an HTTP server and a headless browser.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := newStubBackend()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	// Seed one student and one instructor
	aluno := backend.addPlayer(player.Player{
		Nome: "Ana Silva", Email: "ana@test.com", Senha: "segredo1",
		Nivel: player.NivelIniciante, Localizacao: "São Paulo", Papel: player.RoleAluno,
	})
	prof := backend.addPlayer(player.Player{
		Nome: "Carlos Souza", Email: "carlos@test.com", Senha: "segredo2",
		Nivel: player.NivelAvancado, Localizacao: "São Paulo", Papel: player.RoleProfessor,
	})
	quadra := backend.addCourt(court.Court{
		Nome: "Quadra Central", Tipo: court.TipoSaibro, Localizacao: "São Paulo", Disponivel: true,
	})

	// Session database in a temp directory
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open session DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init session DB: %v", err)
	}
	sessions := sessionStore.NewSQLiteStore(storage.NewTimedDB(db))

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	// Browser tests fire requests far faster than a human would
	web.RateLimitPerSecond = 1000

	cfg := config.App{
		Env:        "development",
		APIBaseURL: backendSrv.URL,
	}
	stores := &web.Stores{API: api.NewClient(backendSrv.URL), Sessions: sessions}
	mux := web.NewMux(cfg, stores, nil)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()
	t.Cleanup(func() { srv.Close() })

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &testApp{
		BaseURL: baseURL,
		Backend: backend,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Aluno:   aluno,
		Prof:    prof,
		Quadra:  quadra,
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login navigates to the login page and authenticates as the given player.
func (a *testApp) login(t *testing.T, page playwright.Page, email, senha string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Senha]").Fill(senha); err != nil {
		t.Fatalf("failed to fill senha: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
