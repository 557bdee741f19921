package court

import (
	"errors"
	"strings"

	"tennisclub/internal/domain/player"
)

// Court type constants: tipo values accepted by the backend.
const (
	TipoSaibro = "Saibro"
	TipoGrama  = "Grama"
	TipoDura   = "Dura"
)

// ValidTipos contains all valid court surface types, in display order.
var ValidTipos = []string{TipoSaibro, TipoGrama, TipoDura}

// Domain errors
var (
	ErrEmptyName     = errors.New("nome é obrigatório")
	ErrInvalidTipo   = errors.New("tipo é obrigatório")
	ErrEmptyLocation = errors.New("localização é obrigatória")
)

// Court mirrors the backend quadra record.
type Court struct {
	ID          int64  `json:"id"`
	Nome        string `json:"nome"`
	Tipo        string `json:"tipo"`
	Localizacao string `json:"localizacao"`
	Disponivel  bool   `json:"disponivel"`
}

// Validate checks if the Court has valid data for creation.
// PRE: Court struct is populated from the form
// POST: Returns nil if valid, the first failing field's error otherwise
func (c *Court) Validate() error {
	if strings.TrimSpace(c.Nome) == "" {
		return ErrEmptyName
	}
	if !isValidTipo(c.Tipo) {
		return ErrInvalidTipo
	}
	if strings.TrimSpace(c.Localizacao) == "" {
		return ErrEmptyLocation
	}
	return nil
}

// FieldErrors evaluates every creation rule and returns a field → message map
// for inline form rendering. An empty map means the submission is valid.
func (c *Court) FieldErrors() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(c.Nome) == "" {
		errs["Nome"] = ErrEmptyName.Error()
	}
	if !isValidTipo(c.Tipo) {
		errs["Tipo"] = ErrInvalidTipo.Error()
	}
	if strings.TrimSpace(c.Localizacao) == "" {
		errs["Localizacao"] = ErrEmptyLocation.Error()
	}
	return errs
}

// CanBeReservedBy reports whether the reserve action applies for a viewer
// with the given papel. Unavailable courts never expose the action, and only
// students reserve.
// INVARIANT: Court fields are not mutated
func (c *Court) CanBeReservedBy(papel string) bool {
	return c.Disponivel && papel == player.RoleAluno
}

// StatusLabel returns the Portuguese availability label for list rendering.
func (c *Court) StatusLabel() string {
	if c.Disponivel {
		return "Disponível"
	}
	return "Indisponível"
}

func isValidTipo(tipo string) bool {
	for _, t := range ValidTipos {
		if t == tipo {
			return true
		}
	}
	return false
}
