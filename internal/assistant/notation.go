// internal/assistant/notation.go
package assistant

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anatraveneta/escoba/engine"
)

// ErrBadCard is wrapped by every notation error.
var ErrBadCard = errors.New("bad card")

// ParseCard reads one card in either notation:
//
//	7O, 10e     rank followed by suit letter O, C, E or B
//	7.1, 10.3   rank, a dot, suit number 1-4 (Oros, Copas, Espadas, Bastos)
func ParseCard(s string) (engine.Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if rank, suit, ok := strings.Cut(s, "."); ok {
		r, err := strconv.Atoi(strings.TrimSpace(rank))
		if err != nil || r < int(engine.MinRank) || r > int(engine.MaxRank) {
			return 0, fmt.Errorf("%w %q: rank must be 1-10", ErrBadCard, s)
		}
		n, err := strconv.Atoi(strings.TrimSpace(suit))
		if err != nil || n < 1 || n > engine.NumSuits {
			return 0, fmt.Errorf("%w %q: suit must be 1-4", ErrBadCard, s)
		}
		return engine.NewCard(engine.Suit(n-1), engine.Rank(r)), nil
	}

	var c engine.Card
	if err := c.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadCard, err)
	}
	return c, nil
}

// ParseCards reads a comma-separated list. Blank input yields no cards.
func ParseCards(s string) ([]engine.Card, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	cards := make([]engine.Card, 0, len(parts))
	for _, p := range parts {
		c, err := ParseCard(p)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// FormatCards renders cards as a bracketed notation list.
func FormatCards(cards []engine.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
