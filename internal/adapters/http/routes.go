package web

import (
	"net/http"

	"tennisclub/internal/adapters/http/middleware"
	"tennisclub/internal/domain/player"
)

// registerRoutes attaches every page handler to the mux. Authorization is
// enforced per route: the gate re-evaluates the session on every request.
func registerRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("/", handleLanding)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/cadastro", handleCadastro)
	mux.HandleFunc("/logout", handleLogout)

	// Authenticated pages
	mux.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/quadras", middleware.RequireAuth(http.HandlerFunc(handleQuadras)))
	mux.Handle("/reservas", middleware.RequireAuth(http.HandlerFunc(handleReservas)))

	// Instructor-only pages
	professorOnly := middleware.RequireRole(player.RoleProfessor)
	mux.Handle("/quadras/cadastro", professorOnly(http.HandlerFunc(handleQuadraForm)))
	mux.Handle("/alunos", professorOnly(http.HandlerFunc(handleAlunos)))
}
