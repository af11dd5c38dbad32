// internal/journal/sqlite.go
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anatraveneta/escoba/engine"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLite is a Store backed by a local sqlite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the journal at path and migrates it.
// ":memory:" gives a private in-memory journal.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// A second connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the embedded schema.
func (s *SQLite) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLite) BeginRound(ctx context.Context, r RoundRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rounds(id, session_id, started_at, user_starts, initial_table, initial_hand)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID.String(), r.SessionID.String(), formatTime(r.StartedAt), r.UserStarts,
		joinCards(r.Table), joinCards(r.Hand))
	return err
}

func (s *SQLite) RecordPlay(ctx context.Context, p PlayRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plays(round_id, seq, player, card, captured, sweep, suggestion_rank, net_value, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.RoundID.String(), p.Seq, p.Player.String(), p.Move.Card.String(), joinCards(p.Move.Combination),
		p.Sweep, p.SuggestionRank, p.NetValue, formatTime(p.PlayedAt))
	return err
}

func (s *SQLite) Retract(ctx context.Context, roundID uuid.UUID, seq int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM plays WHERE round_id = ? AND seq = ?`, roundID.String(), seq)
	return err
}

func (s *SQLite) EndRound(ctx context.Context, roundID uuid.UUID, res engine.FinalResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	out, err := s.db.ExecContext(ctx, `
		UPDATE rounds
		   SET finished_at = ?, user_total = ?, opponent_total = ?, result = ?
		 WHERE id = ?
	`, formatTime(time.Now()), res.Sides[engine.User].Total, res.Sides[engine.Opponent].Total,
		string(data), roundID.String())
	if err != nil {
		return err
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return fmt.Errorf("end round %s: %w", roundID, ErrUnknownRound)
	}
	return nil
}

func (s *SQLite) Recent(ctx context.Context, n int) ([]RoundSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at, r.finished_at IS NOT NULL,
		       COALESCE(r.user_total, 0), COALESCE(r.opponent_total, 0),
		       (SELECT COUNT(*) FROM plays p WHERE p.round_id = r.id)
		  FROM rounds r
		 ORDER BY r.started_at DESC
		 LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundSummary
	for rows.Next() {
		var (
			sum       RoundSummary
			id, start string
		)
		if err := rows.Scan(&id, &start, &sum.Finished, &sum.UserTotal, &sum.OpponentTotal, &sum.Plays); err != nil {
			return nil, err
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if sum.StartedAt, err = time.Parse(timeLayout, start); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }

// timeLayout has fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }
