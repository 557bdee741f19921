package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"tennisclub/internal/adapters/api"
	"tennisclub/internal/adapters/http/middleware"
	"tennisclub/internal/application/orchestrators"
	"tennisclub/internal/application/projections"
	"tennisclub/internal/domain/court"
	"tennisclub/internal/domain/player"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// datetimeLocalFormat matches the value of an <input type="datetime-local">.
const datetimeLocalFormat = "2006-01-02T15:04"

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// templatesDir is resolved once: "templates" when running from the package
// directory (tests), the repo-root path otherwise.
var templatesDir = resolveTemplatesDir()

func resolveTemplatesDir() string {
	if _, err := os.Stat("templates"); err == nil {
		return "templates"
	}
	return "internal/adapters/http/templates"
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// userMessage extracts the text to show the user for a failed action.
// Backend failures carry a sanitized message; domain validation errors are
// already user-facing Portuguese sentences.
func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	viewer, loggedIn := middleware.GetPlayerFromContext(r.Context())

	funcMap := template.FuncMap{
		"isLoggedIn":  func() bool { return loggedIn },
		"isProfessor": func() bool { return loggedIn && viewer.IsProfessor() },
		"currentName": func() string { return viewer.Nome },
		"csrfToken":   func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// landingMarkdown is the marketing copy for the public landing page.
const landingMarkdown = `# TennisClub

Reserve quadras de tênis sem complicação.

- Quadras de **saibro**, **grama** e **dura** em diversas localizações
- Reserva online com status acompanhado em tempo real
- Professores acompanham todas as reservas do clube

Cadastre-se e faça sua primeira reserva hoje.`

// handleLanding handles GET / (public landing page).
func handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "landing.html", map[string]any{
		"Content": landingMarkdown,
	})
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, go straight to the dashboard
		if middleware.IsLoggedIn(r.Context()) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{"Email": ""})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email: r.FormValue("Email"),
			Senha: r.FormValue("Senha"),
		}
		deps := orchestrators.LoginDeps{
			API:      stores.API,
			Sessions: stores.Sessions,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"Error": userMessage(err),
				"Email": input.Email,
			})
			return
		}

		middleware.SetSessionCookie(w, result.Token)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleCadastro handles GET (form) and POST (register) for /cadastro
func handleCadastro(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "cadastro.html", map[string]any{
			"Niveis":      player.ValidNiveis,
			"FieldErrors": map[string]string{},
			"Nome":        "",
			"Email":       "",
			"Nivel":       "",
			"Localizacao": "",
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.RegisterPlayerInput{
			Nome:        r.FormValue("Nome"),
			Email:       r.FormValue("Email"),
			Senha:       r.FormValue("Senha"),
			Nivel:       r.FormValue("Nivel"),
			Localizacao: r.FormValue("Localizacao"),
		}
		deps := orchestrators.RegisterPlayerDeps{API: stores.API}

		_, fieldErrs, err := orchestrators.ExecuteRegisterPlayer(r.Context(), input, deps)
		if len(fieldErrs) > 0 || err != nil {
			data := map[string]any{
				"Niveis":      player.ValidNiveis,
				"FieldErrors": fieldErrs,
				"Nome":        input.Nome,
				"Email":       input.Email,
				"Nivel":       input.Nivel,
				"Localizacao": input.Localizacao,
			}
			if err != nil {
				data["Error"] = userMessage(err)
			}
			renderTemplate(w, r, "cadastro.html", data)
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token, ok := middleware.SessionToken(r); ok {
		if err := stores.Sessions.Delete(r.Context(), token); err != nil {
			slog.Error("auth_event", "event", "session_delete_failed", "error", err)
		}
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleDashboard handles GET /dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	viewer, _ := middleware.GetPlayerFromContext(r.Context())

	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Viewer: viewer},
		projections.GetDashboardDeps{API: stores.API},
	)
	if err != nil {
		renderTemplate(w, r, "dashboard.html", map[string]any{
			"Greeting":  "Bem-vindo, " + viewer.Nome + "!",
			"RoleLabel": viewer.RoleLabel(),
			"Error":     userMessage(err),
			"Empty":     true,
		})
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Greeting":    result.Greeting,
		"RoleLabel":   result.RoleLabel,
		"IsProfessor": result.IsProfessor,
		"ShowPlayers": result.ShowPlayers,
		"Rows":        result.Rows,
		"Empty":       result.Empty,
	})
}

// renderCourtList fetches the court list and renders it. errMsg and
// selectedQuadra carry reservation failure state back onto the page.
func renderCourtList(w http.ResponseWriter, r *http.Request, errMsg string, selectedQuadra int64) {
	viewer, _ := middleware.GetPlayerFromContext(r.Context())

	result, err := projections.QueryGetCourtList(r.Context(),
		projections.GetCourtListQuery{Viewer: viewer},
		projections.GetCourtListDeps{API: stores.API},
	)
	if err != nil {
		renderTemplate(w, r, "quadra_list.html", map[string]any{
			"Error": userMessage(err),
			"Empty": true,
		})
		return
	}

	renderTemplate(w, r, "quadra_list.html", map[string]any{
		"Rows":           result.Rows,
		"CanCreate":      result.CanCreate,
		"Empty":          result.Empty,
		"Error":          errMsg,
		"SelectedQuadra": selectedQuadra,
		"MinDataHora":    timeNow().Format(datetimeLocalFormat),
	})
}

// handleQuadras handles GET /quadras
func handleQuadras(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderCourtList(w, r, "", 0)
}

// handleQuadraForm handles GET (form) and POST (create) for /quadras/cadastro
func handleQuadraForm(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "quadra_form.html", map[string]any{
			"Tipos":       court.ValidTipos,
			"FieldErrors": map[string]string{},
			"Nome":        "",
			"Tipo":        "",
			"Localizacao": "",
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.CreateCourtInput{
			Nome:        r.FormValue("Nome"),
			Tipo:        r.FormValue("Tipo"),
			Localizacao: r.FormValue("Localizacao"),
		}
		deps := orchestrators.CreateCourtDeps{API: stores.API}

		created, fieldErrs, err := orchestrators.ExecuteCreateCourt(r.Context(), input, deps)
		if len(fieldErrs) > 0 || err != nil {
			data := map[string]any{
				"Tipos":       court.ValidTipos,
				"FieldErrors": fieldErrs,
				"Nome":        input.Nome,
				"Tipo":        input.Tipo,
				"Localizacao": input.Localizacao,
			}
			if err != nil {
				data["Error"] = userMessage(err)
			}
			renderTemplate(w, r, "quadra_form.html", data)
			return
		}

		// Success: fresh form with a confirmation banner
		renderTemplate(w, r, "quadra_form.html", map[string]any{
			"Tipos":       court.ValidTipos,
			"FieldErrors": map[string]string{},
			"Nome":        "",
			"Tipo":        "",
			"Localizacao": "",
			"Success":     "Quadra \"" + created.Nome + "\" cadastrada com sucesso!",
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleReservas handles POST /reservas (reserve dialog submission)
func handleReservas(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	viewer, _ := middleware.GetPlayerFromContext(r.Context())

	quadraID, err := strconv.ParseInt(r.FormValue("QuadraID"), 10, 64)
	if err != nil {
		renderCourtList(w, r, "Quadra inválida", 0)
		return
	}

	dataHora, err := time.ParseInLocation(datetimeLocalFormat, r.FormValue("DataHora"), time.Local)
	if err != nil {
		renderCourtList(w, r, "Data e hora inválidas", quadraID)
		return
	}

	input := orchestrators.MakeReservationInput{
		Jogador:  viewer,
		QuadraID: quadraID,
		DataHora: dataHora,
	}
	deps := orchestrators.MakeReservationDeps{
		API:     stores.API,
		Email:   emailSender,
		From:    emailFromAddress,
		ReplyTo: emailReplyTo,
		Now:     timeNow,
	}

	if _, err := orchestrators.ExecuteMakeReservation(r.Context(), input, deps); err != nil {
		renderCourtList(w, r, userMessage(err), quadraID)
		return
	}

	// Fresh fetch after redirect shows the new reservation state
	http.Redirect(w, r, "/quadras", http.StatusSeeOther)
}

// handleAlunos handles GET /alunos (instructor-only student roster)
func handleAlunos(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetStudentList(r.Context(),
		projections.GetStudentListDeps{API: stores.API},
	)
	if err != nil {
		renderTemplate(w, r, "aluno_list.html", map[string]any{
			"Error": userMessage(err),
			"Empty": true,
		})
		return
	}

	renderTemplate(w, r, "aluno_list.html", map[string]any{
		"Rows":  result.Rows,
		"Empty": result.Empty,
	})
}
