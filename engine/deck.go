package engine

const (
	DeckSize  = 40
	TargetSum = 15
)

// BuildDeck returns the 40-card Spanish deck in fixed order: suit-major
// (coins, cups, swords, clubs), ranks 1..10 within each suit.
func BuildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := MinRank; rank <= MaxRank; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

// Remove returns a copy of cards without one occurrence of each card in
// remove. Cards that are not present are ignored.
func Remove(cards []Card, remove []Card) []Card {
	out := append([]Card{}, cards...)
	for _, rc := range remove {
		for i := range out {
			if out[i] == rc {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

// Contains reports whether c is in cards.
func Contains(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every card of sub can be matched to a distinct
// card of cards.
func ContainsAll(cards []Card, sub []Card) bool {
	counts := make(map[Card]int, len(cards))
	for _, c := range cards {
		counts[c]++
	}
	for _, c := range sub {
		if counts[c] == 0 {
			return false
		}
		counts[c]--
	}
	return true
}

// RankSum returns the sum of the card ranks.
func RankSum(cards []Card) int {
	sum := 0
	for _, c := range cards {
		sum += int(c.Rank())
	}
	return sum
}
