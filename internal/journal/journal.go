// internal/journal/journal.go
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anatraveneta/escoba/engine"
	"github.com/anatraveneta/escoba/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrUnknownRound is returned when ending a round that was never begun.
var ErrUnknownRound = errors.New("unknown round")

// RoundRecord describes a round when it starts.
type RoundRecord struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	StartedAt  time.Time
	UserStarts bool
	Table      []engine.Card
	Hand       []engine.Card
}

// PlayRecord is one applied move. SuggestionRank is the 1-based position of
// the move in the ranking shown to the user, or 0 for opponent plays.
type PlayRecord struct {
	RoundID        uuid.UUID
	Seq            int
	Player         engine.Player
	Move           engine.Move
	Sweep          bool
	SuggestionRank int
	NetValue       float64
	PlayedAt       time.Time
}

// RoundSummary is a past round as listed by Recent.
type RoundSummary struct {
	ID            uuid.UUID
	StartedAt     time.Time
	Finished      bool
	UserTotal     int
	OpponentTotal int
	Plays         int
}

// Store persists rounds and their plays.
type Store interface {
	BeginRound(ctx context.Context, r RoundRecord) error
	RecordPlay(ctx context.Context, p PlayRecord) error
	// Retract removes a play that was undone.
	Retract(ctx context.Context, roundID uuid.UUID, seq int) error
	EndRound(ctx context.Context, roundID uuid.UUID, res engine.FinalResult) error
	Recent(ctx context.Context, n int) ([]RoundSummary, error)
	Close() error
}

// Open selects a backend from cfg: postgres when DatabaseURL is set, sqlite
// when JournalPath is set, otherwise a store that records nothing.
func Open(ctx context.Context, cfg config.Config, log *logrus.Logger) (Store, error) {
	switch {
	case cfg.DatabaseURL != "":
		s, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres journal: %w", err)
		}
		log.Info("journal: postgres")
		return s, nil
	case cfg.JournalPath != "":
		s, err := OpenSQLite(ctx, cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal %s: %w", cfg.JournalPath, err)
		}
		log.WithField("path", cfg.JournalPath).Info("journal: sqlite")
		return s, nil
	}
	log.Debug("journal: disabled")
	return Nop{}, nil
}

// Nop is a Store that records nothing.
type Nop struct{}

func (Nop) BeginRound(context.Context, RoundRecord) error                 { return nil }
func (Nop) RecordPlay(context.Context, PlayRecord) error                  { return nil }
func (Nop) Retract(context.Context, uuid.UUID, int) error                 { return nil }
func (Nop) EndRound(context.Context, uuid.UUID, engine.FinalResult) error { return nil }
func (Nop) Recent(context.Context, int) ([]RoundSummary, error)           { return nil, nil }
func (Nop) Close() error                                                  { return nil }

// joinCards renders cards as a comma-separated notation list.
func joinCards(cards []engine.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
