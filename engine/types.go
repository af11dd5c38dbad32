package engine

import (
	"fmt"
	"strconv"
)

// Suit is one of the four Spanish suits, packed into the upper 4 bits of Card.
type Suit uint8

const (
	Coins  Suit = 0 // oros, the scoring suit
	Cups   Suit = 1 // copas
	Swords Suit = 2 // espadas
	Clubs  Suit = 3 // bastos

	NumSuits = 4
)

// Suits lists every suit in deck order.
var Suits = [NumSuits]Suit{Coins, Cups, Swords, Clubs}

// Letter returns the single-letter notation for the suit.
func (s Suit) Letter() byte {
	switch s {
	case Coins:
		return 'O'
	case Cups:
		return 'C'
	case Swords:
		return 'E'
	case Clubs:
		return 'B'
	default:
		return '?'
	}
}

func (s Suit) String() string {
	switch s {
	case Coins:
		return "coins"
	case Cups:
		return "cups"
	case Swords:
		return "swords"
	case Clubs:
		return "clubs"
	default:
		return fmt.Sprintf("suit(%d)", uint8(s))
	}
}

// Rank is the capture value of a card, 1..10, packed into the lower 4 bits of Card.
type Rank uint8

const (
	MinRank Rank = 1
	MaxRank Rank = 10

	RankSeven Rank = 7
)

// Valid reports whether r is within 1..10.
func (r Rank) Valid() bool { return r >= MinRank && r <= MaxRank }

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// Veil is the seven of coins.
const Veil Card = Card(uint8(Coins)<<4 | uint8(RankSeven))

// NewCard constructs a Card from suit and rank.
func NewCard(suit Suit, rank Rank) Card {
	return Card((uint8(suit) << 4) | (uint8(rank) & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() Suit { return Suit(uint8(c) >> 4) }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() Rank { return Rank(uint8(c) & 0x0F) }

// Valid reports whether the card belongs to the 40-card deck.
func (c Card) Valid() bool { return c.Suit() < NumSuits && c.Rank().Valid() }

func (c Card) IsVeil() bool  { return c == Veil }
func (c Card) IsCoin() bool  { return c.Suit() == Coins }
func (c Card) IsSeven() bool { return c.Rank() == RankSeven }

// String renders the card in rank+suit-letter notation, e.g. "7O".
func (c Card) String() string {
	return fmt.Sprintf("%d%c", c.Rank(), c.Suit().Letter())
}

// MarshalText encodes the card in its string notation.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid card %#02x", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes the notation produced by MarshalText.
func (c *Card) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) < 2 {
		return fmt.Errorf("card %q: too short", s)
	}
	digits := s[:len(s)-1]
	if digits[0] < '0' || digits[0] > '9' {
		return fmt.Errorf("card %q: bad rank", s)
	}
	rank, err := strconv.Atoi(digits)
	if err != nil {
		return fmt.Errorf("card %q: bad rank: %w", s, err)
	}
	var suit Suit = NumSuits
	for _, candidate := range Suits {
		if candidate.Letter() == s[len(s)-1] {
			suit = candidate
		}
	}
	card := NewCard(suit, Rank(rank))
	if rank < int(MinRank) || rank > int(MaxRank) || !card.Valid() {
		return fmt.Errorf("card %q: not in the deck", s)
	}
	*c = card
	return nil
}

// Player identifies a side of the table.
type Player int8

const (
	NoPlayer Player = -1
	User     Player = 0
	Opponent Player = 1
)

// Other returns the opposing side.
func (p Player) Other() Player { return 1 - p }

func (p Player) String() string {
	switch p {
	case User:
		return "user"
	case Opponent:
		return "opponent"
	default:
		return "none"
	}
}

// MoveKind separates captures from cards laid on the table.
type MoveKind uint8

const (
	NoCapture MoveKind = iota
	Capture
)

func (k MoveKind) String() string {
	if k == Capture {
		return "capture"
	}
	return "no_capture"
}

// MarshalText encodes the kind by name.
func (k MoveKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes the name produced by MarshalText.
func (k *MoveKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "capture":
		*k = Capture
	case "no_capture":
		*k = NoCapture
	default:
		return fmt.Errorf("unknown move kind %q", text)
	}
	return nil
}

// Move is either a capture of Combination with Card, or Card laid on the table.
type Move struct {
	Kind        MoveKind `json:"kind"`
	Card        Card     `json:"card"`
	Combination []Card   `json:"combination,omitempty"`
}

// CaptureMove builds a capture of combo using card.
func CaptureMove(card Card, combo []Card) Move {
	return Move{Kind: Capture, Card: card, Combination: combo}
}

// DiscardMove builds a move that lays card on the table without capturing.
func DiscardMove(card Card) Move {
	return Move{Kind: NoCapture, Card: card}
}

func (m Move) String() string {
	if m.Kind == Capture {
		return fmt.Sprintf("%s captures %v", m.Card, m.Combination)
	}
	return fmt.Sprintf("%s to the table", m.Card)
}

// Evaluation is the derived result of scoring one candidate move.
type Evaluation struct {
	Move             Move    `json:"move"`
	NetValue         float64 `json:"net_value"`
	OwnPoints        float64 `json:"own_points"`
	OpponentExpected float64 `json:"opponent_expected"`
	ResultingTable   []Card  `json:"resulting_table"`
}

// Sweep reports whether the move is a capture that leaves the table empty.
func (e Evaluation) Sweep() bool {
	return e.Move.Kind == Capture && len(e.ResultingTable) == 0
}
