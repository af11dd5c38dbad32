// internal/journal/postgres.go
package journal

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/anatraveneta/escoba/engine"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema_postgres.sql
var postgresSchema string

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct{ *pgxpool.Pool }

// OpenPostgres connects to dsn, pings and migrates.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}
	db := &Postgres{p}
	if err := db.Migrate(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded schema.
func (db *Postgres) Migrate(ctx context.Context) error {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (db *Postgres) BeginRound(ctx context.Context, r RoundRecord) error {
	_, err := db.Exec(ctx, `
		INSERT INTO rounds(id, session_id, started_at, user_starts, initial_table, initial_hand)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, r.ID, r.SessionID, r.StartedAt, r.UserStarts, joinCards(r.Table), joinCards(r.Hand))
	return err
}

func (db *Postgres) RecordPlay(ctx context.Context, p PlayRecord) error {
	_, err := db.Exec(ctx, `
		INSERT INTO plays(round_id, seq, player, card, captured, sweep, suggestion_rank, net_value, played_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, p.RoundID, p.Seq, p.Player.String(), p.Move.Card.String(), joinCards(p.Move.Combination),
		p.Sweep, p.SuggestionRank, p.NetValue, p.PlayedAt)
	return err
}

func (db *Postgres) Retract(ctx context.Context, roundID uuid.UUID, seq int) error {
	_, err := db.Exec(ctx, `DELETE FROM plays WHERE round_id = $1 AND seq = $2`, roundID, seq)
	return err
}

func (db *Postgres) EndRound(ctx context.Context, roundID uuid.UUID, res engine.FinalResult) error {
	tag, err := db.Exec(ctx, `
		UPDATE rounds
		   SET finished_at = now(), user_total = $2, opponent_total = $3, result = $4
		 WHERE id = $1
	`, roundID, res.Sides[engine.User].Total, res.Sides[engine.Opponent].Total, res)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("end round %s: %w", roundID, ErrUnknownRound)
	}
	return nil
}

func (db *Postgres) Recent(ctx context.Context, n int) ([]RoundSummary, error) {
	rows, err := db.Query(ctx, `
		SELECT r.id, r.started_at, r.finished_at IS NOT NULL,
		       COALESCE(r.user_total, 0), COALESCE(r.opponent_total, 0),
		       (SELECT COUNT(*) FROM plays p WHERE p.round_id = r.id)
		  FROM rounds r
		 ORDER BY r.started_at DESC
		 LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundSummary
	for rows.Next() {
		var sum RoundSummary
		if err := rows.Scan(&sum.ID, &sum.StartedAt, &sum.Finished, &sum.UserTotal, &sum.OpponentTotal, &sum.Plays); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (db *Postgres) Close() error {
	db.Pool.Close()
	return nil
}
