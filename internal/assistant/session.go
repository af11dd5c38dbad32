// internal/assistant/session.go
package assistant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/anatraveneta/escoba/engine"
	"github.com/anatraveneta/escoba/internal/cache"
	"github.com/anatraveneta/escoba/internal/journal"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotStarted is returned by operations that need a dealt round.
	ErrNotStarted = errors.New("round not started")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("round already started")
	// ErrNothingToUndo is returned by Undo when no play has been made.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// persistTimeout bounds each journal and cache call.
const persistTimeout = 2 * time.Second

// SuggestionCache stores rankings by round hash. *cache.Cache implements it.
type SuggestionCache interface {
	Get(ctx context.Context, hash uint64) ([]engine.Evaluation, bool, error)
	Put(ctx context.Context, hash uint64, ranked []engine.Evaluation) error
}

// Options configures a Session. Zero values are usable: no journal, no cache
// and a default logger.
type Options struct {
	Rules   engine.HouseRules
	Logger  *logrus.Logger
	Journal journal.Store
	Cache   SuggestionCache
}

// Session assists one player through one round.
type Session struct {
	ID         uuid.UUID
	RoundID    uuid.UUID
	UserStarts bool
	Round      *engine.Round

	mu      sync.Mutex
	started bool
	log     *logrus.Entry
	journal journal.Store
	cache   SuggestionCache

	seq     int                 // number of recorded plays
	ranking []engine.Evaluation // last ranking shown by Suggest
	undo    []engine.Snapshot
}

// Standing is the running heuristic view of both sides. Consolidated is the
// score of the cards already captured; Potential is the user's best net value
// and the opponent's expected best reply on the current table.
type Standing struct {
	Consolidated [2]float64 `json:"consolidated"`
	Potential    [2]float64 `json:"potential"`
}

// Outcome is the result of a finished round.
type Outcome struct {
	Result     engine.FinalResult  `json:"result"`
	LeftoverTo engine.Player       `json:"leftoverTo"`
	Leftover   []engine.Card       `json:"leftover"`
	Detail     [2]engine.Breakdown `json:"detail"`
}

// NewSession creates a session with a fresh deck and nothing dealt.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}
	if opts.Rules == (engine.HouseRules{}) {
		opts.Rules = engine.DefaultHouseRules()
	}
	id, _ := uuid.NewRandom()
	return &Session{
		ID:      id,
		Round:   engine.NewRound(opts.Rules),
		log:     opts.Logger.WithField("session", id),
		journal: opts.Journal,
		cache:   opts.Cache,
	}
}

// Start deals the initial table and hand and opens the round in the journal.
func (s *Session) Start(ctx context.Context, userStarts bool, table, hand []engine.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	if err := s.Round.Rules.Validate(); err != nil {
		return fmt.Errorf("house rules: %w", err)
	}

	snap := s.Round.Save()
	if err := s.Round.DealTable(table); err != nil {
		return fmt.Errorf("deal table: %w", err)
	}
	if err := s.Round.DealHand(hand); err != nil {
		s.Round.Restore(snap)
		return fmt.Errorf("deal hand: %w", err)
	}

	s.started = true
	s.UserStarts = userStarts
	s.RoundID, _ = uuid.NewRandom()
	s.log = s.log.WithField("round", s.RoundID)
	s.log.WithFields(logrus.Fields{
		"table":      FormatCards(table),
		"hand":       FormatCards(hand),
		"userStarts": userStarts,
	}).Info("round started")

	s.persist(ctx, "begin round", func(ctx context.Context) error {
		return s.journal.BeginRound(ctx, journal.RoundRecord{
			ID:         s.RoundID,
			SessionID:  s.ID,
			StartedAt:  time.Now(),
			UserStarts: userStarts,
			Table:      table,
			Hand:       hand,
		})
	})
	return nil
}

// Suggest ranks the user's moves. Rankings are served from the cache when the
// round hash matches a stored entry.
func (s *Session) Suggest(ctx context.Context) ([]engine.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	hash := s.Round.Hash()
	if s.cache != nil {
		cctx, cancel := context.WithTimeout(ctx, persistTimeout)
		ranked, ok, err := s.cache.Get(cctx, hash)
		cancel()
		switch {
		case err != nil:
			s.log.WithError(err).Warn("suggestion cache read failed")
		case ok:
			s.log.WithField("hash", cache.Key(hash)).Debug("suggestions from cache")
			s.ranking = ranked
			return ranked, nil
		}
	}

	ranked := s.Round.Suggestions()
	s.ranking = ranked
	if s.cache != nil {
		s.persist(ctx, "cache suggestions", func(ctx context.Context) error {
			return s.cache.Put(ctx, hash, ranked)
		})
	}
	return ranked, nil
}

// PlayUser applies the user's chosen move.
func (s *Session) PlayUser(ctx context.Context, ev engine.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	return s.apply(ctx, engine.User, ev.Move, rankOf(s.ranking, ev.Move), ev.NetValue)
}

// ReportOpponent applies a move the opponent was seen to make. When the
// opponent laid a card that could have captured, nothing is applied and a
// *engine.RenunciationError lists the captures to choose from; see
// ResolveRenunciation.
func (s *Session) ReportOpponent(ctx context.Context, card engine.Card, captured []engine.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if !engine.Contains(s.Round.Deck, card) {
		return fmt.Errorf("%w: %s", engine.ErrCardUnavailable, card)
	}
	if err := engine.ValidateReport(card, captured, s.Round.Table); err != nil {
		var rerr *engine.RenunciationError
		if errors.As(err, &rerr) {
			s.log.WithField("card", card).Warn("opponent reported without capturing")
		}
		return err
	}

	m := engine.DiscardMove(card)
	if len(captured) > 0 {
		m = engine.CaptureMove(card, captured)
	}
	return s.apply(ctx, engine.Opponent, m, 0, 0)
}

// ResolveRenunciation applies the capture the opponent must have made with card.
func (s *Session) ResolveRenunciation(ctx context.Context, card engine.Card, combo []engine.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if err := engine.ValidateCapture(card, combo, s.Round.Table); err != nil {
		return err
	}
	return s.apply(ctx, engine.Opponent, engine.CaptureMove(card, combo), 0, 0)
}

// LeaveCapture records that the opponent laid card although it could
// capture. The user may then take a capture out of turn; see Captures.
func (s *Session) LeaveCapture(ctx context.Context, card engine.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if !engine.Contains(s.Round.Deck, card) {
		return fmt.Errorf("%w: %s", engine.ErrCardUnavailable, card)
	}
	s.log.WithField("card", card).Info("opponent left a capture on the table")
	return s.apply(ctx, engine.Opponent, engine.DiscardMove(card), 0, 0)
}

// Captures ranks only the user's capturing moves. PlayUser records the
// chosen one's position in this ranking.
func (s *Session) Captures(ctx context.Context) ([]engine.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	s.ranking = engine.RankCaptures(s.Round.Hand, s.Round.Table, s.Round.Deck)
	return s.ranking, nil
}

// DealHand gives the user a new hand once the previous one is played out.
func (s *Session) DealHand(ctx context.Context, cards []engine.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if err := s.Round.DealHand(cards); err != nil {
		return err
	}
	// Plays before a deal can no longer be undone.
	s.undo = nil
	s.log.WithField("hand", FormatCards(cards)).Info("new hand")
	return nil
}

// Finish awards the leftover table, scores the round and closes it in the
// journal. It fails while cards remain to be played.
func (s *Session) Finish(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return Outcome{}, ErrNotStarted
	}

	wasFinished := s.Round.Finished
	to, leftover := s.Round.Leftover()
	res, err := s.Round.Finish()
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{
		Result:     res,
		LeftoverTo: to,
		Leftover:   leftover,
		Detail:     s.Round.Standing(),
	}
	if wasFinished {
		return out, nil
	}

	s.log.WithFields(logrus.Fields{
		"user":     res.Sides[engine.User].Total,
		"opponent": res.Sides[engine.Opponent].Total,
		"winner":   res.Winner(),
	}).Info("round finished")
	s.persist(ctx, "end round", func(ctx context.Context) error {
		return s.journal.EndRound(ctx, s.RoundID, res)
	})
	return out, nil
}

// Undo reverts the last applied play and returns the player who made it.
func (s *Session) Undo(ctx context.Context) (engine.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 || s.Round.Finished {
		return engine.NoPlayer, ErrNothingToUndo
	}
	who := s.Round.History[len(s.Round.History)-1].Player
	last := len(s.undo) - 1
	s.Round.Restore(s.undo[last])
	s.undo = s.undo[:last]

	seq := s.seq
	s.seq--
	s.ranking = nil
	s.log.WithField("seq", seq).Info("play undone")
	s.persist(ctx, "retract play", func(ctx context.Context) error {
		return s.journal.Retract(ctx, s.RoundID, seq)
	})
	return who, nil
}

// Standing returns the consolidated and potential scores.
func (s *Session) Standing() Standing {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.Round.Standing()
	st := Standing{Consolidated: [2]float64{b[engine.User].Total, b[engine.Opponent].Total}}
	if ranked := engine.RankMoves(s.Round.Hand, s.Round.Table, s.Round.Deck); len(ranked) > 0 {
		st.Potential[engine.User] = ranked[0].NetValue
	}
	st.Potential[engine.Opponent] = engine.OpponentExpectation(s.Round.Table, s.Round.Deck)
	return st
}

// Recent lists the latest rounds from the journal.
func (s *Session) Recent(ctx context.Context, n int) ([]journal.RoundSummary, error) {
	return s.journal.Recent(ctx, n)
}

// apply executes a move and records it. Assumes the lock is held.
func (s *Session) apply(ctx context.Context, p engine.Player, m engine.Move, rank int, net float64) error {
	snap := s.Round.Save()
	if err := s.Round.Apply(p, m); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"player": p, "move": m.String()}).Debug("move rejected")
		return err
	}
	s.undo = append(s.undo, snap)
	s.seq++
	s.ranking = nil

	play := s.Round.History[len(s.Round.History)-1]
	entry := s.log.WithFields(logrus.Fields{"player": p, "move": m.String(), "seq": s.seq})
	if play.Sweep {
		entry.Info("sweep")
	} else {
		entry.Debug("move applied")
	}

	rec := journal.PlayRecord{
		RoundID:        s.RoundID,
		Seq:            s.seq,
		Player:         p,
		Move:           m,
		Sweep:          play.Sweep,
		SuggestionRank: rank,
		NetValue:       net,
		PlayedAt:       time.Now(),
	}
	s.persist(ctx, "record play", func(ctx context.Context) error {
		return s.journal.RecordPlay(ctx, rec)
	})
	return nil
}

// persist runs a journal or cache write with a short timeout. Failures are
// logged and never reach the caller.
func (s *Session) persist(ctx context.Context, what string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		s.log.WithError(err).Warnf("%s failed", what)
	}
}

// rankOf returns the 1-based position of m in ranked, or 0 when absent.
func rankOf(ranked []engine.Evaluation, m engine.Move) int {
	for i, ev := range ranked {
		if ev.Move.Kind == m.Kind && ev.Move.Card == m.Card && slices.Equal(ev.Move.Combination, m.Combination) {
			return i + 1
		}
	}
	return 0
}
