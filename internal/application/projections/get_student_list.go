package projections

import (
	"context"

	"tennisclub/internal/domain/player"
)

// StudentListAPI defines the backend surface needed by the student list
// projection.
type StudentListAPI interface {
	ListPlayers(ctx context.Context) ([]player.Player, error)
}

// GetStudentListDeps holds dependencies for the student list projection.
type GetStudentListDeps struct {
	API StudentListAPI
}

// StudentRow is one rendered student table row.
type StudentRow struct {
	Nome        string
	Email       string
	Nivel       string
	Localizacao string
}

// StudentListResult carries the output of the student list projection.
type StudentListResult struct {
	Rows  []StudentRow
	Empty bool
}

// QueryGetStudentList fetches all players and keeps only the students.
// POST: Rows contains every jogador with papel ALUNO, in backend order
func QueryGetStudentList(ctx context.Context, deps GetStudentListDeps) (StudentListResult, error) {
	players, err := deps.API.ListPlayers(ctx)
	if err != nil {
		return StudentListResult{}, err
	}

	var result StudentListResult
	for _, p := range players {
		if !p.IsAluno() {
			continue
		}
		result.Rows = append(result.Rows, StudentRow{
			Nome:        p.Nome,
			Email:       p.Email,
			Nivel:       p.Nivel,
			Localizacao: p.Localizacao,
		})
	}
	result.Empty = len(result.Rows) == 0
	return result, nil
}
