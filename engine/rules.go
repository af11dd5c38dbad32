package engine

import "fmt"

// HouseRules holds the dealing settings of a round.
type HouseRules struct {
	CardsPerHand uint8 // cards dealt to each player per deal
	InitialTable uint8 // cards laid face up before the first deal
}

// DefaultHouseRules returns the standard Escoba deal: four on the table, three per hand.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		CardsPerHand: 3,
		InitialTable: 4,
	}
}

// cardsPerHand returns the effective hand size, treating 0 as 3.
func (r *HouseRules) cardsPerHand() int {
	if r.CardsPerHand == 0 {
		return 3
	}
	return int(r.CardsPerHand)
}

// Validate reports deal sizes that cannot play a round out. Both players
// draw from the pool left after the table, so it must split evenly.
func (r HouseRules) Validate() error {
	hand := r.cardsPerHand()
	if hand > DeckSize/2 {
		return fmt.Errorf("hand size %d exceeds half the deck", hand)
	}
	if int(r.InitialTable) > DeckSize-2*hand {
		return fmt.Errorf("initial table of %d leaves no room for a deal of %d", r.InitialTable, hand)
	}
	if (DeckSize-int(r.InitialTable))%2 != 0 {
		return fmt.Errorf("initial table of %d leaves an odd pool of %d cards", r.InitialTable, DeckSize-int(r.InitialTable))
	}
	return nil
}
