package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"tennisclub/internal/adapters/storage"
	"tennisclub/internal/domain/player"
)

// TTL is how long a session stays valid after login.
const TTL = 24 * time.Hour

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite. Sessions survive process
// restarts, unlike an in-memory map.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore creates a new session store. db is typically a
// storage.TimedDB so slow session queries show up in the logs.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Create persists a new session for the player and returns the token.
// PRE: p is the player returned by a successful login
// POST: Session row committed before the token is handed to the caller
func (s *SQLiteStore) Create(ctx context.Context, p player.Player) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	// Senha is write-only and must never reach disk.
	p.Senha = ""
	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal session player: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO session (token, jogador, created_at) VALUES (?, ?, ?)",
		token, string(payload), s.now().Format(timeFormat),
	)
	if err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return token, nil
}

// Get retrieves the player for a token. Expired sessions are removed and
// reported as absent.
// PRE: token is non-empty
// POST: Returns the player and true if the session is valid
func (s *SQLiteStore) Get(ctx context.Context, token string) (player.Player, bool, error) {
	var payload, createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT jogador, created_at FROM session WHERE token = ?", token,
	).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return player.Player{}, false, nil
	}
	if err != nil {
		return player.Player{}, false, err
	}

	created, err := time.Parse(timeFormat, createdAt)
	if err != nil || s.now().Sub(created) > TTL {
		_ = s.Delete(ctx, token)
		return player.Player{}, false, nil
	}

	var p player.Player
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		_ = s.Delete(ctx, token)
		return player.Player{}, false, fmt.Errorf("unmarshal session player: %w", err)
	}
	return p, true, nil
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session row with the given token is removed
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE token = ?", token)
	return err
}

// DeleteExpired removes every session older than the TTL.
func (s *SQLiteStore) DeleteExpired(ctx context.Context) error {
	cutoff := s.now().Add(-TTL).Format(timeFormat)
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE created_at < ?", cutoff)
	return err
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
