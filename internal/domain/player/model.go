package player

import (
	"errors"
	"net/mail"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
	MaxNameLength  = 100
)

// Role constants: papel values used by the backend.
const (
	RoleAluno     = "ALUNO"
	RoleProfessor = "PROFESSOR"
)

// Skill level constants: nivel values accepted by the backend.
const (
	NivelIniciante     = "Iniciante"
	NivelIntermediario = "Intermediário"
	NivelAvancado      = "Avançado"
	NivelProfissional  = "Profissional"
)

// ValidRoles contains all valid papel values.
var ValidRoles = []string{RoleAluno, RoleProfessor}

// ValidNiveis contains all valid skill levels, in display order.
var ValidNiveis = []string{NivelIniciante, NivelIntermediario, NivelAvancado, NivelProfissional}

// MinPasswordLength applies to registration only; login accepts any non-empty senha.
const MinPasswordLength = 6

// Domain errors
var (
	ErrEmptyName        = errors.New("nome é obrigatório")
	ErrEmptyEmail       = errors.New("email é obrigatório")
	ErrInvalidEmail     = errors.New("digite um email válido")
	ErrEmptyPassword    = errors.New("senha é obrigatória")
	ErrPasswordTooShort = errors.New("a senha deve ter no mínimo 6 caracteres")
	ErrInvalidNivel     = errors.New("nível é obrigatório")
	ErrEmptyLocation    = errors.New("localização é obrigatória")
	ErrInvalidRole      = errors.New("papel deve ser ALUNO ou PROFESSOR")
)

// Player mirrors the backend jogador record. Senha is write-only: it is sent
// on registration and login and never echoed back by the backend.
type Player struct {
	ID          int64  `json:"id"`
	Nome        string `json:"nome"`
	Email       string `json:"email"`
	Senha       string `json:"senha,omitempty"`
	Nivel       string `json:"nivel"`
	Localizacao string `json:"localizacao"`
	Papel       string `json:"papel"`
}

// ValidateRegistration checks the fields a registration submission must carry.
// PRE: Player struct is populated from the form
// POST: Returns nil if valid, the first failing field's error otherwise
func (p *Player) ValidateRegistration() error {
	if strings.TrimSpace(p.Nome) == "" {
		return ErrEmptyName
	}
	if len(p.Nome) > MaxNameLength {
		return errors.New("nome não pode exceder 100 caracteres")
	}
	if err := validateEmail(p.Email); err != nil {
		return err
	}
	if p.Senha == "" {
		return ErrEmptyPassword
	}
	if len(p.Senha) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !isValidNivel(p.Nivel) {
		return ErrInvalidNivel
	}
	if strings.TrimSpace(p.Localizacao) == "" {
		return ErrEmptyLocation
	}
	if p.Papel != "" && !isValidRole(p.Papel) {
		return ErrInvalidRole
	}
	return nil
}

// FieldErrors evaluates every registration rule and returns a field → message
// map for inline form rendering. An empty map means the submission is valid.
func (p *Player) FieldErrors() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(p.Nome) == "" {
		errs["Nome"] = ErrEmptyName.Error()
	}
	if err := validateEmail(p.Email); err != nil {
		errs["Email"] = err.Error()
	}
	switch {
	case p.Senha == "":
		errs["Senha"] = ErrEmptyPassword.Error()
	case len(p.Senha) < MinPasswordLength:
		errs["Senha"] = ErrPasswordTooShort.Error()
	}
	if !isValidNivel(p.Nivel) {
		errs["Nivel"] = ErrInvalidNivel.Error()
	}
	if strings.TrimSpace(p.Localizacao) == "" {
		errs["Localizacao"] = ErrEmptyLocation.Error()
	}
	return errs
}

// IsProfessor returns true if the player has the PROFESSOR role.
// INVARIANT: Player fields are not mutated
func (p *Player) IsProfessor() bool {
	return p.Papel == RoleProfessor
}

// IsAluno returns true if the player has the ALUNO role.
// INVARIANT: Player fields are not mutated
func (p *Player) IsAluno() bool {
	return p.Papel == RoleAluno
}

// RoleLabel returns the Portuguese display label for the player's role.
func (p *Player) RoleLabel() string {
	if p.IsProfessor() {
		return "Professor"
	}
	return "Aluno"
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if len(email) > MaxEmailLength {
		return errors.New("email não pode exceder 254 caracteres")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func isValidNivel(nivel string) bool {
	for _, n := range ValidNiveis {
		if n == nivel {
			return true
		}
	}
	return false
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
