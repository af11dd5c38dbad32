package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCombination is returned when a capture's cards are not on the
	// table or do not add up to 15 with the played card.
	ErrInvalidCombination = errors.New("invalid combination")
	// ErrCardUnavailable is returned when a card is not in the unseen pool.
	ErrCardUnavailable = errors.New("card not available")
	// ErrCardNotInHand is returned when the user plays a card they do not hold.
	ErrCardNotInHand = errors.New("card not in hand")
	// ErrRoundOver is returned for moves after the round has been scored.
	ErrRoundOver = errors.New("round is over")
)

// RenunciationError reports that a player laid a card on the table although
// it could capture. Combinations lists every capture that was available.
type RenunciationError struct {
	Card         Card
	Combinations [][]Card
}

func (e *RenunciationError) Error() string {
	return fmt.Sprintf("%s renounced %d available capture(s)", e.Card, len(e.Combinations))
}

// ValidateCapture checks that combo is a non-empty subset of table that adds
// up to 15 with card.
func ValidateCapture(card Card, combo []Card, table []Card) error {
	if len(combo) == 0 {
		return fmt.Errorf("%w: capture with %s takes no cards", ErrInvalidCombination, card)
	}
	if !ContainsAll(table, combo) {
		return fmt.Errorf("%w: %v is not on the table %v", ErrInvalidCombination, combo, table)
	}
	if sum := int(card.Rank()) + RankSum(combo); sum != TargetSum {
		return fmt.Errorf("%w: %s with %v adds up to %d, not %d", ErrInvalidCombination, card, combo, sum, TargetSum)
	}
	return nil
}

// ValidateReport checks a move reported for the opponent. A capture must be
// valid; an empty capture returns a *RenunciationError when the card could
// have captured something.
func ValidateReport(card Card, captured []Card, table []Card) error {
	if len(captured) > 0 {
		return ValidateCapture(card, captured, table)
	}
	if combos := CombinationsSummingTo(table, TargetSum-int(card.Rank())); len(combos) > 0 {
		return &RenunciationError{Card: card, Combinations: combos}
	}
	return nil
}
