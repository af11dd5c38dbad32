// internal/assistant/console.go
package assistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anatraveneta/escoba/engine"
)

// ConsoleOptions configures the interactive loop.
type ConsoleOptions struct {
	UserStarts *bool // nil asks the operator
	Color      bool
	History    int // past rounds listed on start; 0 disables
}

// Console drives a Session from line-based operator input.
type Console struct {
	s    *Session
	in   *bufio.Scanner
	out  io.Writer
	opts ConsoleOptions
}

// NewConsole returns a console reading from in and writing to out.
func NewConsole(s *Session, in io.Reader, out io.Writer, opts ConsoleOptions) *Console {
	return &Console{s: s, in: bufio.NewScanner(in), out: out, opts: opts}
}

// errUndo is returned by a turn when the operator asks to undo.
var errUndo = errors.New("undo requested")

const (
	ansiBold  = "\x1b[1m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// Run plays one round to the end. It returns io.ErrUnexpectedEOF when input
// runs out before the round is over.
func (c *Console) Run(ctx context.Context) (Outcome, error) {
	c.printHistory(ctx)

	userStarts, err := c.askStarts()
	if err != nil {
		return Outcome{}, err
	}
	if err := c.setup(ctx, userStarts); err != nil {
		return Outcome{}, err
	}

	first := engine.User
	if !userStarts {
		first = engine.Opponent
	}
	turn := first
	oppLeft := len(c.s.Round.Hand)

	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		r := c.s.Round
		if len(r.Hand) == 0 && oppLeft == 0 {
			if r.Exhausted() {
				break
			}
			n, err := c.deal(ctx)
			if err != nil {
				return Outcome{}, err
			}
			oppLeft = n
			turn = first
		}
		if turn == first {
			c.printf("\n--- %s ---\n", c.bold("Trick"))
			c.printState()
		}
		// A side with no cards left passes.
		if (turn == engine.User && len(r.Hand) == 0) || (turn == engine.Opponent && oppLeft == 0) {
			turn = turn.Other()
		}

		var err error
		if turn == engine.User {
			err = c.userTurn(ctx)
		} else {
			err = c.opponentTurn(ctx)
		}
		switch {
		case errors.Is(err, errUndo):
			who, err := c.s.Undo(ctx)
			if err != nil {
				c.printf("Nothing to undo.\n")
				continue
			}
			if who == engine.Opponent {
				oppLeft++
			}
			turn = who
			c.printf("Last play undone.\n")
			c.printState()
			continue
		case err != nil:
			return Outcome{}, err
		}
		if turn == engine.Opponent {
			oppLeft--
		}
		turn = turn.Other()
	}

	out, err := c.s.Finish(ctx)
	if err != nil {
		return Outcome{}, err
	}
	c.printOutcome(out)
	return out, nil
}

func (c *Console) askStarts() (bool, error) {
	if c.opts.UserStarts != nil {
		return *c.opts.UserStarts, nil
	}
	line, err := c.ask("Do you lead this round? (y/N): ")
	if err != nil {
		return false, err
	}
	return asYes(line, false), nil
}

// setup reads the initial table and hand until the session accepts them.
func (c *Console) setup(ctx context.Context, userStarts bool) error {
	rules := c.s.Round.Rules
	for {
		n := int(rules.InitialTable)
		table, err := c.readCards(fmt.Sprintf("Table cards (%d, comma separated): ", n), n)
		if err != nil {
			return err
		}
		n = c.s.Round.NextDealSize()
		hand, err := c.readCards(fmt.Sprintf("Your cards (%d, comma separated): ", n), n)
		if err != nil {
			return err
		}
		if err := c.s.Start(ctx, userStarts, table, hand); err != nil {
			c.printf("Cannot start: %v\n", err)
			continue
		}
		return nil
	}
}

func (c *Console) deal(ctx context.Context) (int, error) {
	n := c.s.Round.NextDealSize()
	for {
		cards, err := c.readCards(fmt.Sprintf("Your %d new cards: ", n), n)
		if err != nil {
			return 0, err
		}
		if err := c.s.DealHand(ctx, cards); err != nil {
			c.printf("Cannot deal: %v\n", err)
			continue
		}
		return n, nil
	}
}

func (c *Console) userTurn(ctx context.Context) error {
	ranked, err := c.s.Suggest(ctx)
	if err != nil {
		return err
	}
	c.printRanking(ranked)

	for {
		line, err := c.ask("Choose a move (Enter for 1, a card to play it, u to undo): ")
		if err != nil {
			return err
		}
		if isUndo(line) {
			return errUndo
		}

		var ev engine.Evaluation
		if card, perr := ParseCard(line); perr == nil {
			ev, err = c.manualMove(card)
			if err != nil {
				c.printf("%v\n", err)
				continue
			}
		} else {
			var ok bool
			ev, ok = engine.Pick(ranked, line)
			if !ok {
				c.printf("Invalid option, playing 1.\n")
			}
		}

		if err := c.s.PlayUser(ctx, ev); err != nil {
			c.printf("Move rejected: %v\n", err)
			continue
		}
		c.printf("You play %s\n", describeMove(ev.Move, ev.Sweep()))
		return nil
	}
}

// manualMove builds the evaluation of a card typed by the operator. A card
// with several captures asks which one.
func (c *Console) manualMove(card engine.Card) (engine.Evaluation, error) {
	r := c.s.Round
	if !engine.Contains(r.Hand, card) {
		return engine.Evaluation{}, fmt.Errorf("%s is not in your hand", card)
	}

	combos := engine.CombinationsSummingTo(r.Table, engine.TargetSum-int(card.Rank()))
	move := engine.DiscardMove(card)
	switch len(combos) {
	case 0:
	case 1:
		move = engine.CaptureMove(card, combos[0])
	default:
		c.printCombinations(card, combos)
		line, err := c.ask("Which capture? (Enter for 1): ")
		if err != nil {
			return engine.Evaluation{}, err
		}
		combo, ok := engine.PickCombination(combos, line)
		if !ok {
			c.printf("Invalid option, taking 1.\n")
		}
		move = engine.CaptureMove(card, combo)
	}
	return engine.Evaluate(move, r.Table, r.Deck)
}

func (c *Console) opponentTurn(ctx context.Context) error {
	for {
		line, err := c.ask("Card played by the opponent (u to undo): ")
		if err != nil {
			return err
		}
		if isUndo(line) {
			return errUndo
		}
		card, err := ParseCard(line)
		if err != nil {
			c.printf("%v\n", err)
			continue
		}
		line, err = c.ask("Cards the opponent captured (blank if none): ")
		if err != nil {
			return err
		}
		captured, err := ParseCards(line)
		if err != nil {
			c.printf("%v\n", err)
			continue
		}

		// The move is judged on the table and pool the opponent saw.
		table := append([]engine.Card{}, c.s.Round.Table...)
		unseen := engine.Remove(c.s.Round.Unseen(), []engine.Card{card})

		left := false
		err = c.s.ReportOpponent(ctx, card, captured)
		var rerr *engine.RenunciationError
		switch {
		case err == nil:
		case errors.As(err, &rerr):
			if left, err = c.resolveRenunciation(ctx, rerr); err != nil {
				return err
			}
		default:
			c.printf("Opponent move rejected: %v\n", err)
			continue
		}

		c.printOpponentMove(table, unseen)
		if left {
			return c.offerCaptures(ctx)
		}
		return nil
	}
}

// resolveRenunciation asks which capture the opponent made with a card
// reported as laid. It reports true when the opponent really left it.
func (c *Console) resolveRenunciation(ctx context.Context, rerr *engine.RenunciationError) (bool, error) {
	c.printf("%s could capture; the opponent must take one of:\n", rerr.Card)
	c.printCombinations(rerr.Card, rerr.Combinations)
	line, err := c.ask("Which one did they take? (Enter for 1, n if they left it): ")
	if err != nil {
		return false, err
	}
	if isNo(line) {
		return true, c.s.LeaveCapture(ctx, rerr.Card)
	}
	combo, ok := engine.PickCombination(rerr.Combinations, line)
	if !ok {
		c.printf("Invalid option, taking 1.\n")
	}
	return false, c.s.ResolveRenunciation(ctx, rerr.Card, combo)
}

// offerCaptures lets the user take a capture the opponent left behind.
func (c *Console) offerCaptures(ctx context.Context) error {
	ranked, err := c.s.Captures(ctx)
	if err != nil {
		return err
	}
	if len(ranked) == 0 {
		c.printf("No capture available for you.\n")
		return nil
	}
	c.printf("The opponent left a capture. You may take one now:\n")
	c.printRanking(ranked)
	line, err := c.ask("Capture (Enter for 1, n to pass): ")
	if err != nil {
		return err
	}
	if isNo(line) {
		return nil
	}
	ev, ok := engine.Pick(ranked, line)
	if !ok {
		c.printf("Invalid option, taking 1.\n")
	}
	if err := c.s.PlayUser(ctx, ev); err != nil {
		c.printf("Move rejected: %v\n", err)
		return nil
	}
	c.printf("You play %s\n", describeMove(ev.Move, ev.Sweep()))
	return nil
}

func (c *Console) printOpponentMove(table, unseen []engine.Card) {
	m, sweep := lastMove(c.s.Round)
	ev, err := engine.Evaluate(m, table, unseen)
	if err != nil {
		c.printf("Opponent plays %s\n", describeMove(m, sweep))
		return
	}
	c.printf("Opponent plays %s\n", formatEvaluation(ev))
}

// readCards reads exactly n cards. Parse errors and wrong counts re-ask.
func (c *Console) readCards(prompt string, n int) ([]engine.Card, error) {
	for {
		line, err := c.ask(prompt)
		if err != nil {
			return nil, err
		}
		cards, err := ParseCards(line)
		if err != nil {
			c.printf("%v\n", err)
			continue
		}
		if len(cards) != n {
			c.printf("Expected %d cards, got %d.\n", n, len(cards))
			continue
		}
		return cards, nil
	}
}

func (c *Console) ask(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) bold(s string) string {
	if !c.opts.Color {
		return s
	}
	return ansiBold + s + ansiReset
}

func (c *Console) printHistory(ctx context.Context) {
	if c.opts.History <= 0 {
		return
	}
	recent, err := c.s.Recent(ctx, c.opts.History)
	if err != nil {
		c.s.log.WithError(err).Warn("cannot list past rounds")
		return
	}
	if len(recent) == 0 {
		return
	}
	c.printf("Recent rounds:\n")
	for _, r := range recent {
		status := "unfinished"
		if r.Finished {
			status = fmt.Sprintf("you %d - %d opponent", r.UserTotal, r.OpponentTotal)
		}
		c.printf("  %s  %2d plays  %s\n", r.StartedAt.Local().Format("2006-01-02 15:04"), r.Plays, status)
	}
}

func (c *Console) printState() {
	v := c.s.View()
	c.printf("Table: %s\n", FormatCards(v.Table))
	c.printf("Hand:  %s\n", FormatCards(v.Hand))
	c.printf("Unseen %d, next deal %d, sweeps you %d | opponent %d\n",
		v.UnseenCount, v.NextDeal, v.Sides[engine.User].Sweeps, v.Sides[engine.Opponent].Sweeps)
	if st := v.Standing; st != nil {
		c.printf("Consolidated: you %.2f | opponent %.2f\n", st.Consolidated[engine.User], st.Consolidated[engine.Opponent])
		c.printf("Potential:    you %.2f | opponent %.2f\n", st.Potential[engine.User], st.Potential[engine.Opponent])
	}
}

func (c *Console) printRanking(ranked []engine.Evaluation) {
	c.printf("Moves:\n")
	for i, ev := range ranked {
		line := fmt.Sprintf("%2d. %s", i+1, formatEvaluation(ev))
		if i == 0 && c.opts.Color {
			line = ansiGreen + line + ansiReset
		}
		c.printf("%s\n", line)
	}
}

func (c *Console) printCombinations(card engine.Card, combos [][]engine.Card) {
	for i, combo := range combos {
		c.printf("  %d: %s (sum %d)\n", i+1, FormatCards(combo), int(card.Rank())+engine.RankSum(combo))
	}
}

func (c *Console) printOutcome(out Outcome) {
	c.printf("\n--- %s ---\n", c.bold("Round over"))
	if out.LeftoverTo != engine.NoPlayer {
		c.printf("Last hand: %s goes to %s\n", FormatCards(out.Leftover), out.LeftoverTo)
	}
	names := [2]string{"You", "Opponent"}
	for p, side := range out.Result.Sides {
		c.printf("%-8s %d points (veil %d, sevens %d, coins %d, cards %d, sweeps %d)\n",
			names[p], side.Total,
			side.Points[engine.CategoryVeil], side.Points[engine.CategorySevens],
			side.Points[engine.CategoryCoins], side.Points[engine.CategoryCards], side.Sweeps)
		d := out.Detail[p]
		c.printf("         heuristic %.2f (cards %.2f, veil %.0f, sevens %.2f, coins %.2f, sweeps %.0f)\n",
			d.Total, d.Cards, d.Veil, d.Sevens, d.Coins, d.Sweeps)
	}
	switch out.Result.Winner() {
	case engine.User:
		c.printf("You win the round.\n")
	case engine.Opponent:
		c.printf("The opponent wins the round.\n")
	default:
		c.printf("The round is tied.\n")
	}
}

// describeMove renders a move for the operator.
func describeMove(m engine.Move, sweep bool) string {
	if m.Kind == engine.NoCapture {
		return fmt.Sprintf("%s, no capture", m.Card)
	}
	s := fmt.Sprintf("%s takes %s", m.Card, FormatCards(m.Combination))
	if sweep {
		s += " (sweep!)"
	}
	return s
}

func formatEvaluation(ev engine.Evaluation) string {
	return fmt.Sprintf("%s -> pts %.2f, exp %.2f, net %.2f",
		describeMove(ev.Move, ev.Sweep()), ev.OwnPoints, ev.OpponentExpected, ev.NetValue)
}

func lastMove(r *engine.Round) (engine.Move, bool) {
	p := r.History[len(r.History)-1]
	return p.Move, p.Sweep
}

func isUndo(s string) bool {
	s = strings.ToLower(s)
	return s == "u" || s == "undo"
}

func isNo(s string) bool {
	s = strings.ToLower(s)
	return s == "n" || s == "no"
}

func asYes(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def
	case "y", "yes", "s", "si", "sí":
		return true
	default:
		return false
	}
}
