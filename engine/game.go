// Package engine implements the Escoba move-evaluation rules.
//
// Combination search, scoring, evaluation, ranking and final scoring are pure
// functions over card slices: they never modify their inputs. Round is the
// only mutable type; it is owned by the caller and changes only through
// DealTable, DealHand, Apply and Finish.
package engine

import (
	"errors"
	"fmt"
)

// ErrRoundInProgress is returned by Finish while cards remain to be played.
var ErrRoundInProgress = errors.New("round still in progress")

// Play is one applied move in a round's history.
type Play struct {
	Player Player `json:"player"`
	Move   Move   `json:"move"`
	Sweep  bool   `json:"sweep"`
}

// Round holds the state of one round as seen by the assisted player.
//
// Deck is the unseen pool: every card not on the table, in the user's hand
// or in a captured pile. The opponent's hidden hand is part of it.
type Round struct {
	Rules        HouseRules
	Deck         []Card
	Table        []Card
	Hand         []Card
	Captured     [2][]Card
	Sweeps       [2]int
	LastCapturer Player
	History      []Play
	Finished     bool
}

// NewRound returns a round with the full deck unseen and nothing dealt.
func NewRound(rules HouseRules) *Round {
	return &Round{
		Rules:        rules,
		Deck:         BuildDeck(),
		LastCapturer: NoPlayer,
	}
}

// take moves cards out of the unseen pool, failing without changes if any of
// them is not there.
func (r *Round) take(cards []Card) error {
	if !ContainsAll(r.Deck, cards) {
		for _, c := range cards {
			if !Contains(r.Deck, c) {
				return fmt.Errorf("%w: %s", ErrCardUnavailable, c)
			}
		}
		return fmt.Errorf("%w: duplicate cards in %v", ErrCardUnavailable, cards)
	}
	r.Deck = Remove(r.Deck, cards)
	return nil
}

// DealTable lays cards face up on the table.
func (r *Round) DealTable(cards []Card) error {
	if r.Finished {
		return ErrRoundOver
	}
	if err := r.take(cards); err != nil {
		return err
	}
	r.Table = append(append([]Card{}, r.Table...), cards...)
	return nil
}

// DealHand gives the user a new hand. The previous hand must be used up.
func (r *Round) DealHand(cards []Card) error {
	if r.Finished {
		return ErrRoundOver
	}
	if len(r.Hand) > 0 {
		return fmt.Errorf("hand still holds %d cards", len(r.Hand))
	}
	if n := r.Rules.cardsPerHand(); len(cards) > n {
		return fmt.Errorf("cannot deal %d cards, hand size is %d", len(cards), n)
	}
	if err := r.take(cards); err != nil {
		return err
	}
	r.Hand = append([]Card{}, cards...)
	return nil
}

// Unseen returns a copy of the unseen pool.
func (r *Round) Unseen() []Card {
	return append([]Card{}, r.Deck...)
}

// NextDealSize returns how many cards each player receives on the next deal.
// Deals happen with both hands empty, so the unseen pool is split evenly.
func (r *Round) NextDealSize() int {
	return min(r.Rules.cardsPerHand(), len(r.Deck)/2)
}

// Apply executes a move for player p. User cards must come from the hand;
// opponent cards from the unseen pool. Captures are validated against the
// table. A capture that empties the table counts as a sweep.
func (r *Round) Apply(p Player, m Move) error {
	if r.Finished {
		return ErrRoundOver
	}
	switch p {
	case User:
		if !Contains(r.Hand, m.Card) {
			return fmt.Errorf("%w: %s", ErrCardNotInHand, m.Card)
		}
	case Opponent:
		if !Contains(r.Deck, m.Card) {
			return fmt.Errorf("%w: %s", ErrCardUnavailable, m.Card)
		}
	default:
		return fmt.Errorf("unknown player %d", p)
	}
	if m.Kind == Capture {
		if err := ValidateCapture(m.Card, m.Combination, r.Table); err != nil {
			return err
		}
	}

	if p == User {
		r.Hand = Remove(r.Hand, []Card{m.Card})
	} else {
		r.Deck = Remove(r.Deck, []Card{m.Card})
	}

	play := Play{Player: p, Move: m}
	if m.Kind == Capture {
		r.Table = Remove(r.Table, m.Combination)
		r.Captured[p] = append(append(append([]Card{}, r.Captured[p]...), m.Card), m.Combination...)
		r.LastCapturer = p
		if len(r.Table) == 0 {
			r.Sweeps[p]++
			play.Sweep = true
		}
	} else {
		r.Table = append(append([]Card{}, r.Table...), m.Card)
	}
	r.History = append(r.History, play)
	return nil
}

// Exhausted reports whether every card has been played.
func (r *Round) Exhausted() bool {
	return len(r.Hand) == 0 && len(r.Deck) == 0
}

// Leftover returns the cards Finish will award and who receives them.
// Without a last capturer the table stays unclaimed.
func (r *Round) Leftover() (Player, []Card) {
	if r.LastCapturer == NoPlayer || len(r.Table) == 0 {
		return NoPlayer, nil
	}
	return r.LastCapturer, append([]Card{}, r.Table...)
}

// Finish awards the table to the last capturer and scores the round.
func (r *Round) Finish() (FinalResult, error) {
	if !r.Finished {
		if !r.Exhausted() {
			return FinalResult{}, fmt.Errorf("%w: %d in hand, %d unseen", ErrRoundInProgress, len(r.Hand), len(r.Deck))
		}
		if p, cards := r.Leftover(); p != NoPlayer {
			r.Captured[p] = append(append([]Card{}, r.Captured[p]...), cards...)
			r.Table = nil
		}
		r.Finished = true
	}
	return FinalScore(r.Captured[User], r.Captured[Opponent], r.Sweeps[User], r.Sweeps[Opponent]), nil
}

// Standing returns the running heuristic score of both sides.
func (r *Round) Standing() [2]Breakdown {
	return [2]Breakdown{
		ScoreBreakdown(r.Captured[User], r.Sweeps[User]),
		ScoreBreakdown(r.Captured[Opponent], r.Sweeps[Opponent]),
	}
}

// Suggestions ranks the user's moves against the current table and unseen pool.
func (r *Round) Suggestions() []Evaluation {
	return RankMoves(r.Hand, r.Table, r.Deck)
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a deep copy of a Round for undo support.
type Snapshot Round

// Save returns a snapshot of the current round.
func (r *Round) Save() Snapshot { return Snapshot(r.clone()) }

// Restore replaces the round with the given snapshot. The snapshot stays
// reusable.
func (r *Round) Restore(s Snapshot) {
	src := Round(s)
	*r = src.clone()
}

func (r *Round) clone() Round {
	c := *r
	c.Deck = append([]Card(nil), r.Deck...)
	c.Table = append([]Card(nil), r.Table...)
	c.Hand = append([]Card(nil), r.Hand...)
	for p := range r.Captured {
		c.Captured[p] = append([]Card(nil), r.Captured[p]...)
	}
	c.History = append([]Play(nil), r.History...)
	return c
}

// ---------------------------------------------------------------------------
// Hash
// ---------------------------------------------------------------------------

// Hash returns a 64-bit FNV-1a hash of the inputs RankMoves depends on:
// table, hand and unseen pool, in order. Equal hashes give equal rankings.
func (r *Round) Hash() uint64 {
	h := uint64(14695981039346656037) // FNV-1a offset basis
	const prime = uint64(1099511628211)

	for i, part := range [3][]Card{r.Table, r.Hand, r.Deck} {
		for _, c := range part {
			h ^= uint64(c)
			h *= prime
		}
		// Separator so cards cannot shift between parts unnoticed.
		h ^= uint64(0xF0 + i)
		h *= prime
	}
	return h
}
