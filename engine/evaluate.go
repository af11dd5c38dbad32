package engine

// Evaluate scores one candidate move against table, assuming the opponent's
// next card is equally likely to be any card in unseen.
//
// NetValue = OwnPoints - OpponentExpected. A capture earns Score of the played
// card plus the combination, with a sweep bonus when the table is emptied; a
// card laid on the table earns nothing. Neither table nor unseen is modified.
func Evaluate(move Move, table, unseen []Card) (Evaluation, error) {
	if move.Kind == Capture {
		if err := ValidateCapture(move.Card, move.Combination, table); err != nil {
			return Evaluation{}, err
		}
	}
	return evaluate(move, table, unseen), nil
}

// evaluate is Evaluate without validation, for moves built by CandidateMoves.
func evaluate(move Move, table, unseen []Card) Evaluation {
	var resulting []Card
	var own float64
	if move.Kind == Capture {
		resulting = Remove(table, move.Combination)
		own = Score(withCard(move.Combination, move.Card), sweepBonus(resulting))
	} else {
		resulting = append(append(make([]Card, 0, len(table)+1), table...), move.Card)
	}

	expected := OpponentExpectation(resulting, unseen)
	return Evaluation{
		Move:             move,
		NetValue:         own - expected,
		OwnPoints:        own,
		OpponentExpected: expected,
		ResultingTable:   resulting,
	}
}

// OpponentExpectation averages, over every card in unseen, the best Score the
// opponent could take from table by playing that card. A card that cannot
// capture contributes 0. Ties between combinations are a plain max.
func OpponentExpectation(table, unseen []Card) float64 {
	if len(unseen) == 0 {
		return 0
	}
	var total float64
	for _, u := range unseen {
		total += BestCapture(u, table)
	}
	return total / float64(len(unseen))
}

// BestCapture returns the highest Score card can collect from table, counting
// the card itself and a sweep bonus, or 0 when it cannot capture.
func BestCapture(card Card, table []Card) float64 {
	var best float64
	for _, combo := range CombinationsSummingTo(table, TargetSum-int(card.Rank())) {
		rest := Remove(table, combo)
		if p := Score(withCard(combo, card), sweepBonus(rest)); p > best {
			best = p
		}
	}
	return best
}

func sweepBonus(resulting []Card) int {
	if len(resulting) == 0 {
		return 1
	}
	return 0
}

// withCard returns a fresh slice holding combo followed by card.
func withCard(combo []Card, card Card) []Card {
	return append(append(make([]Card, 0, len(combo)+1), combo...), card)
}
