package engine

import (
	"sort"
	"strconv"
	"strings"
)

// CandidateMoves lists every move the hand allows: one capture per
// combination summing to 15 with the card, or a single no-capture move for a
// card that cannot capture. Order follows the hand, then combination order.
func CandidateMoves(hand, table []Card) []Move {
	moves := make([]Move, 0, len(hand))
	for _, card := range hand {
		combos := CombinationsSummingTo(table, TargetSum-int(card.Rank()))
		if len(combos) == 0 {
			moves = append(moves, DiscardMove(card))
			continue
		}
		for _, combo := range combos {
			moves = append(moves, CaptureMove(card, combo))
		}
	}
	return moves
}

// RankMoves evaluates every candidate move of hand and orders them by
// descending NetValue. Equal values keep candidate order, so identical inputs
// always give identical rankings. An empty hand yields an empty ranking.
func RankMoves(hand, table, unseen []Card) []Evaluation {
	moves := CandidateMoves(hand, table)
	ranked := make([]Evaluation, 0, len(moves))
	for _, m := range moves {
		ranked = append(ranked, evaluate(m, table, unseen))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NetValue > ranked[j].NetValue
	})
	return ranked
}

// RankCaptures is RankMoves restricted to captures.
func RankCaptures(hand, table, unseen []Card) []Evaluation {
	var captures []Evaluation
	for _, ev := range RankMoves(hand, table, unseen) {
		if ev.Move.Kind == Capture {
			captures = append(captures, ev)
		}
	}
	return captures
}

// Pick resolves an operator selection against a ranking. Blank input selects
// the top result; "n" selects the n-th result (1-based). Anything else falls
// back to the top result and reports false.
func Pick(ranked []Evaluation, selection string) (Evaluation, bool) {
	if len(ranked) == 0 {
		return Evaluation{}, false
	}
	idx, ok := selectIndex(selection, len(ranked))
	return ranked[idx], ok
}

// PickCombination applies the Pick contract to a list of combinations.
func PickCombination(combos [][]Card, selection string) ([]Card, bool) {
	if len(combos) == 0 {
		return nil, false
	}
	idx, ok := selectIndex(selection, len(combos))
	return combos[idx], ok
}

func selectIndex(selection string, n int) (int, bool) {
	s := strings.TrimSpace(selection)
	if s == "" {
		return 0, true
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}
