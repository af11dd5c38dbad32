package engine

import (
	"reflect"
	"testing"
)

// TestRankMovesOrdersByNetValue: 5E sweeps {4O,6C} and outranks 9B taking 6C.
func TestRankMovesOrdersByNetValue(t *testing.T) {
	hand := []Card{NewCard(Clubs, 9), NewCard(Swords, 5)}
	table := []Card{NewCard(Coins, 4), NewCard(Cups, 6)}

	ranked := RankMoves(hand, table, nil)
	if len(ranked) != 2 {
		t.Fatalf("got %d moves, want 2", len(ranked))
	}
	if ranked[0].Move.Card != NewCard(Swords, 5) || !ranked[0].Sweep() {
		t.Errorf("top move = %v, want the 5E sweep", ranked[0].Move)
	}
	if !approx(ranked[1].OwnPoints, 2.0/21) {
		t.Errorf("9B capture = %f, want %f", ranked[1].OwnPoints, 2.0/21)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].NetValue > ranked[i-1].NetValue {
			t.Errorf("ranking not descending at %d", i)
		}
	}
}

// TestRankMovesDeterministic ranks identical inputs twice.
func TestRankMovesDeterministic(t *testing.T) {
	deck := BuildDeck()
	hand := []Card{deck[4], deck[17], deck[22]}
	table := []Card{deck[0], deck[13], deck[26], deck[35]}
	unseen := Remove(Remove(deck, hand), table)

	a := RankMoves(hand, table, unseen)
	b := RankMoves(hand, table, unseen)
	if !reflect.DeepEqual(a, b) {
		t.Error("rankings differ for identical inputs")
	}
}

// TestRankMovesStableTies: two cards that cannot capture both score 0 and
// keep hand order.
func TestRankMovesStableTies(t *testing.T) {
	hand := []Card{NewCard(Swords, 10), NewCard(Clubs, 10), NewCard(Cups, 10)}
	table := []Card{NewCard(Coins, 9)}

	ranked := RankMoves(hand, table, nil)
	if len(ranked) != 3 {
		t.Fatalf("got %d moves, want 3", len(ranked))
	}
	for i, ev := range ranked {
		if ev.Move.Card != hand[i] || ev.Move.Kind != NoCapture {
			t.Errorf("rank %d = %v, want discard of %s", i, ev.Move, hand[i])
		}
	}
}

// TestCandidateMoves verifies one move per combination and a single discard
// for cards that cannot capture.
func TestCandidateMoves(t *testing.T) {
	hand := []Card{NewCard(Coins, 5), NewCard(Cups, 10)}
	table := []Card{NewCard(Swords, 10), NewCard(Clubs, 4), NewCard(Cups, 6)}

	moves := CandidateMoves(hand, table)
	// 5O: {10E}, {4B,6C}. 10C needs 5: none.
	if len(moves) != 3 {
		t.Fatalf("got %d moves, want 3: %v", len(moves), moves)
	}
	if moves[0].Kind != Capture || moves[1].Kind != Capture || moves[2].Kind != NoCapture {
		t.Errorf("unexpected kinds: %v", moves)
	}
	if moves[2].Card != NewCard(Cups, 10) || moves[2].Combination != nil {
		t.Errorf("discard = %+v", moves[2])
	}
}

// TestRankMovesEmptyHand returns an empty ranking.
func TestRankMovesEmptyHand(t *testing.T) {
	if got := RankMoves(nil, []Card{NewCard(Coins, 1)}, BuildDeck()); len(got) != 0 {
		t.Errorf("expected no moves, got %v", got)
	}
}

// TestRankCapturesFilters drops no-capture moves.
func TestRankCapturesFilters(t *testing.T) {
	hand := []Card{NewCard(Coins, 5), NewCard(Cups, 10)}
	table := []Card{NewCard(Swords, 10)}
	got := RankCaptures(hand, table, nil)
	if len(got) != 1 || got[0].Move.Card != NewCard(Coins, 5) {
		t.Errorf("RankCaptures = %v", got)
	}
}

// TestPick covers the selection contract.
func TestPick(t *testing.T) {
	ranked := []Evaluation{
		{Move: DiscardMove(NewCard(Coins, 1))},
		{Move: DiscardMove(NewCard(Cups, 2))},
		{Move: DiscardMove(NewCard(Swords, 3))},
	}
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"", 0, true},
		{"  ", 0, true},
		{"1", 0, true},
		{"3", 2, true},
		{" 2 ", 1, true},
		{"0", 0, false},
		{"4", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := Pick(ranked, tt.in)
		if ok != tt.wantOK || got.Move.Card != ranked[tt.want].Move.Card {
			t.Errorf("Pick(%q) = (%v, %v), want (%v, %v)", tt.in, got.Move, ok, ranked[tt.want].Move, tt.wantOK)
		}
	}

	if _, ok := Pick(nil, ""); ok {
		t.Error("Pick on an empty ranking must report false")
	}
}

// TestPickCombination defaults to the first combination.
func TestPickCombination(t *testing.T) {
	combos := [][]Card{{NewCard(Coins, 5)}, {NewCard(Cups, 2), NewCard(Cups, 3)}}
	if got, ok := PickCombination(combos, "2"); !ok || len(got) != 2 {
		t.Errorf("PickCombination(2) = %v, %v", got, ok)
	}
	if got, ok := PickCombination(combos, "x"); ok || got[0] != NewCard(Coins, 5) {
		t.Errorf("PickCombination(x) = %v, %v; want first, false", got, ok)
	}
	if got, ok := PickCombination(nil, ""); ok || got != nil {
		t.Errorf("PickCombination(nil) = %v, %v", got, ok)
	}
}
