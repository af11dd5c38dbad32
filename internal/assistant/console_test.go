// internal/assistant/console_test.go
package assistant

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/anatraveneta/escoba/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinCards(cards []engine.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// scriptRound replays a shuffled round on a bare engine.Round and records the
// operator input the console needs for the same round. The user takes the
// suggestion except on every fourth turn, where the last card of the hand is
// typed in. Every third opponent capture is reported as laid and then
// resolved; every fourth other one is really left on the table, after which
// the user takes the best capture on offer.
func scriptRound(t *testing.T, rules engine.HouseRules, seed int64, userStarts bool) (string, engine.FinalResult) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	deck := engine.BuildDeck()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	draw := func(n int) []engine.Card {
		out := append([]engine.Card{}, deck[:n]...)
		deck = deck[n:]
		return out
	}

	var lines []string
	r := engine.NewRound(rules)

	table := draw(int(rules.InitialTable))
	require.NoError(t, r.DealTable(table))
	n := r.NextDealSize()
	hand := draw(n)
	lines = append(lines, joinCards(table), joinCards(hand))
	require.NoError(t, r.DealHand(hand))
	opp := draw(n)

	order := [2]engine.Player{engine.User, engine.Opponent}
	if !userStarts {
		order = [2]engine.Player{engine.Opponent, engine.User}
	}

	userTurns, oppCaptures := 0, 0
	for {
		for _, p := range order {
			switch {
			case p == engine.User && len(r.Hand) > 0:
				userTurns++
				var m engine.Move
				if userTurns%4 == 0 {
					card := r.Hand[len(r.Hand)-1]
					lines = append(lines, card.String())
					combos := engine.CombinationsSummingTo(r.Table, engine.TargetSum-int(card.Rank()))
					switch len(combos) {
					case 0:
						m = engine.DiscardMove(card)
					case 1:
						m = engine.CaptureMove(card, combos[0])
					default:
						lines = append(lines, "")
						m = engine.CaptureMove(card, combos[0])
					}
				} else {
					lines = append(lines, "")
					m = r.Suggestions()[0].Move
				}
				require.NoError(t, r.Apply(engine.User, m))

			case p == engine.Opponent && len(opp) > 0:
				card := opp[0]
				opp = opp[1:]
				combos := engine.CombinationsSummingTo(r.Table, engine.TargetSum-int(card.Rank()))
				m := engine.DiscardMove(card)
				lines = append(lines, card.String())
				left := false
				if len(combos) > 0 {
					oppCaptures++
					m = engine.CaptureMove(card, combos[0])
					switch {
					case oppCaptures%3 == 0:
						lines = append(lines, "", "")
					case oppCaptures%4 == 0:
						lines = append(lines, "", "n")
						m, left = engine.DiscardMove(card), true
					default:
						lines = append(lines, joinCards(combos[0]))
					}
				} else {
					lines = append(lines, "")
				}
				require.NoError(t, r.Apply(engine.Opponent, m))
				if left {
					if caps := engine.RankCaptures(r.Hand, r.Table, r.Deck); len(caps) > 0 {
						lines = append(lines, "")
						require.NoError(t, r.Apply(engine.User, caps[0].Move))
					}
				}
			}
		}
		if len(r.Hand) > 0 || len(opp) > 0 {
			continue
		}
		if len(deck) == 0 {
			break
		}
		n := r.NextDealSize()
		hand = draw(n)
		lines = append(lines, joinCards(hand))
		require.NoError(t, r.DealHand(hand))
		opp = draw(n)
	}

	res, err := r.Finish()
	require.NoError(t, err)
	return strings.Join(lines, "\n") + "\n", res
}

func TestConsoleFullRound(t *testing.T) {
	rules := []engine.HouseRules{
		engine.DefaultHouseRules(),
		{CardsPerHand: 4, InitialTable: 4},
		{CardsPerHand: 5, InitialTable: 2},
	}
	for _, seed := range []int64{1, 2, 3, 4, 5, 6} {
		userStarts := seed%2 == 1
		rr := rules[seed%int64(len(rules))]
		script, want := scriptRound(t, rr, seed, userStarts)

		s := NewSession(Options{Logger: quietLogger(), Rules: rr})
		var out bytes.Buffer
		console := NewConsole(s, strings.NewReader(script), &out, ConsoleOptions{UserStarts: &userStarts})

		got, err := console.Run(context.Background())
		require.NoError(t, err, "seed %d\n%s", seed, out.String())
		assert.Equal(t, want, got.Result, "seed %d", seed)
		assert.True(t, s.Round.Finished)
		assert.Contains(t, out.String(), "Round over")
		assert.NotContains(t, out.String(), "rejected", "seed %d", seed)
	}
}

func TestConsoleAsksWhoStarts(t *testing.T) {
	script := "y\n4O,6C,10E,2B\n5E,9B,1C\n"
	s := NewSession(Options{Logger: quietLogger()})
	var out bytes.Buffer
	_, err := NewConsole(s, strings.NewReader(script), &out, ConsoleOptions{}).Run(context.Background())

	// Input ends at the first move prompt.
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.True(t, s.UserStarts)
	assert.Contains(t, out.String(), "Moves:")
	assert.Contains(t, out.String(), "5E takes [4O 6C]")
}

func TestConsoleRetriesBadInput(t *testing.T) {
	script := strings.Join([]string{
		"4O,6C,10E",    // too few table cards
		"4O,6C,10E,2X", // bad card
		"4O,6C,10E,2B",
		"5E,9B,4O", // 4O is on the table: Start fails, setup restarts
		"4O,6C,10E,2B",
		"5E,9B,1C",
		"7B", // the opponent leads
		"2X", // bad capture list
		"7B",
		"6C,2B",
		"9", // out-of-range option falls back to the top move
	}, "\n") + "\n"
	no := false
	s := NewSession(Options{Logger: quietLogger()})
	var out bytes.Buffer
	_, err := NewConsole(s, strings.NewReader(script), &out, ConsoleOptions{UserStarts: &no}).Run(context.Background())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	text := out.String()
	assert.Contains(t, text, "Expected 4 cards, got 3.")
	assert.Contains(t, text, "bad card")
	assert.Contains(t, text, "Cannot start")
	assert.Contains(t, text, "Opponent plays 7B takes")
	assert.Contains(t, text, "Invalid option, playing 1.")
	assert.Equal(t, 2, len(s.Round.History), text)
}

func TestConsoleNonCardWordsPlayTopMove(t *testing.T) {
	table := []engine.Card{c(engine.Coins, 4), c(engine.Cups, 6), c(engine.Swords, 10), c(engine.Clubs, 2)}
	hand := []engine.Card{c(engine.Swords, 5), c(engine.Clubs, 9), c(engine.Cups, 1)}
	unseen := engine.Remove(engine.BuildDeck(), append(append([]engine.Card{}, table...), hand...))
	top := engine.RankMoves(hand, table, unseen)[0].Move

	for _, word := range []string{"ok", "yes", "abc", "x", "9"} {
		script := "4O,6C,10E,2B\n5E,9B,1C\n" + word + "\n"
		yes := true
		s := NewSession(Options{Logger: quietLogger()})
		var out bytes.Buffer
		_, err := NewConsole(s, strings.NewReader(script), &out, ConsoleOptions{UserStarts: &yes}).Run(context.Background())

		// Input ends at the opponent's prompt.
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, word)
		require.Len(t, s.Round.History, 1, word)
		assert.Equal(t, top, s.Round.History[0].Move, word)
		assert.Contains(t, out.String(), "Invalid option, playing 1.", word)
	}
}

func TestConsoleUndo(t *testing.T) {
	script := strings.Join([]string{
		"4O,6C,10E,2B",
		"5E,9B,1C",
		"u",  // nothing played yet
		"",   // top move
		"u",  // at the opponent's prompt: take it back
		"1C", // 1C takes [4O 10E]
	}, "\n") + "\n"
	yes := true
	s := NewSession(Options{Logger: quietLogger()})
	var out bytes.Buffer
	_, err := NewConsole(s, strings.NewReader(script), &out, ConsoleOptions{UserStarts: &yes}).Run(context.Background())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	text := out.String()
	assert.Contains(t, text, "Nothing to undo.")
	assert.Contains(t, text, "Last play undone.")
	require.Len(t, s.Round.History, 1, text)
	assert.Equal(t, c(engine.Cups, 1), s.Round.History[0].Move.Card)
	assert.ElementsMatch(t, []engine.Card{c(engine.Swords, 5), c(engine.Clubs, 9)}, s.Round.Hand)
}

func TestConsoleOpponentLeavesCapture(t *testing.T) {
	script := strings.Join([]string{
		"4O,6C,10E,2B",
		"5E,9B,1C",
		"7B", // could take [6C 2B]
		"",
		"n", // they really left it
		"",  // take the best capture on offer
	}, "\n") + "\n"
	no := false
	s := NewSession(Options{Logger: quietLogger()})
	var out bytes.Buffer
	_, err := NewConsole(s, strings.NewReader(script), &out, ConsoleOptions{UserStarts: &no}).Run(context.Background())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	text := out.String()
	assert.Contains(t, text, "Opponent plays 7B, no capture -> pts 0.00")
	assert.Contains(t, text, "The opponent left a capture.")
	require.Len(t, s.Round.History, 2, text)
	assert.Equal(t, engine.Opponent, s.Round.History[0].Player)
	assert.Equal(t, engine.NoCapture, s.Round.History[0].Move.Kind)
	assert.Equal(t, engine.User, s.Round.History[1].Player)
	assert.Equal(t, engine.Capture, s.Round.History[1].Move.Kind)
	assert.Len(t, s.Round.Hand, 2)
}
