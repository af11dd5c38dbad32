package engine

import (
	"encoding/json"
	"testing"
)

// TestNewCardRoundTrip verifies suit and rank survive packing for all 40 cards.
func TestNewCardRoundTrip(t *testing.T) {
	for _, suit := range Suits {
		for rank := MinRank; rank <= MaxRank; rank++ {
			c := NewCard(suit, rank)
			if c.Suit() != suit || c.Rank() != rank {
				t.Errorf("NewCard(%v,%d) unpacked to (%v,%d)", suit, rank, c.Suit(), c.Rank())
			}
			if !c.Valid() {
				t.Errorf("NewCard(%v,%d) should be valid", suit, rank)
			}
		}
	}
}

// TestCardPredicates checks the veil, seven and coin predicates.
func TestCardPredicates(t *testing.T) {
	tests := []struct {
		card              Card
		veil, seven, coin bool
	}{
		{NewCard(Coins, 7), true, true, true},
		{NewCard(Cups, 7), false, true, false},
		{NewCard(Coins, 1), false, false, true},
		{NewCard(Clubs, 10), false, false, false},
	}
	for _, tt := range tests {
		if got := tt.card.IsVeil(); got != tt.veil {
			t.Errorf("%s.IsVeil() = %v, want %v", tt.card, got, tt.veil)
		}
		if got := tt.card.IsSeven(); got != tt.seven {
			t.Errorf("%s.IsSeven() = %v, want %v", tt.card, got, tt.seven)
		}
		if got := tt.card.IsCoin(); got != tt.coin {
			t.Errorf("%s.IsCoin() = %v, want %v", tt.card, got, tt.coin)
		}
	}
	if Veil != NewCard(Coins, RankSeven) {
		t.Errorf("Veil = %s, want 7O", Veil)
	}
}

// TestInvalidCards verifies rank 0, rank 11 and a fifth suit are rejected.
func TestInvalidCards(t *testing.T) {
	for _, c := range []Card{NewCard(Coins, 0), NewCard(Cups, 11), NewCard(Suit(4), 3)} {
		if c.Valid() {
			t.Errorf("card %#02x should be invalid", uint8(c))
		}
	}
}

// TestCardString checks the rank+letter notation.
func TestCardString(t *testing.T) {
	tests := map[Card]string{
		NewCard(Coins, 7):   "7O",
		NewCard(Cups, 1):    "1C",
		NewCard(Swords, 10): "10E",
		NewCard(Clubs, 5):   "5B",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

// TestEvaluationJSON verifies an Evaluation encodes cards by notation and
// decodes back to the same values.
func TestEvaluationJSON(t *testing.T) {
	ev := Evaluation{
		Move:             CaptureMove(NewCard(Swords, 5), []Card{NewCard(Coins, 4), NewCard(Cups, 6)}),
		NetValue:         1.25,
		OwnPoints:        1.5,
		OpponentExpected: 0.25,
		ResultingTable:   []Card{},
	}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Evaluation
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Move.Kind != Capture || got.Move.Card != ev.Move.Card {
		t.Errorf("move = %+v, want %+v", got.Move, ev.Move)
	}
	if len(got.Move.Combination) != 2 || got.Move.Combination[1] != NewCard(Cups, 6) {
		t.Errorf("combination = %v, want [4O 6C]", got.Move.Combination)
	}
	if !got.Sweep() {
		t.Error("decoded evaluation should still be a sweep")
	}
}

// TestUnmarshalTextRejects covers malformed notation.
func TestUnmarshalTextRejects(t *testing.T) {
	for _, s := range []string{"", "7", "11O", "0C", "7X", "xO", "7XO", "+7O", "-7O", "1 O"} {
		var c Card
		if err := c.UnmarshalText([]byte(s)); err == nil {
			t.Errorf("UnmarshalText(%q) should fail, got %s", s, c)
		}
	}
}
