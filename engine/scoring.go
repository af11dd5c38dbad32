package engine

// Caps of the heuristic categories.
const (
	CardsCap  = 21
	SevensCap = 3
	CoinsCap  = 6
)

// scoreUnit is the common denominator of 1/21, 1/3 and 1/6. Terms are
// accumulated as integer multiples of 1/42 and divided once.
const scoreUnit = 42

// Breakdown is the per-term detail of the heuristic score.
type Breakdown struct {
	Cards  float64 `json:"cards"`
	Veil   float64 `json:"veil"`
	Sevens float64 `json:"sevens"`
	Coins  float64 `json:"coins"`
	Sweeps float64 `json:"sweeps"`
	Total  float64 `json:"total"`
}

// tally counts the heuristic categories. Sevens and coins exclude the veil.
func tally(cards []Card) (n, veil, sevens, coins int) {
	for _, c := range cards {
		n++
		switch {
		case c.IsVeil():
			veil++
		case c.IsSeven():
			sevens++
		case c.IsCoin():
			coins++
		}
	}
	return n, veil, sevens, coins
}

// ScoreBreakdown returns every term of Score for cards plus sweeps bonus points.
func ScoreBreakdown(cards []Card, sweeps int) Breakdown {
	n, veil, sevens, coins := tally(cards)
	b := Breakdown{
		Cards:  float64(min(n, CardsCap)*(scoreUnit/CardsCap)) / scoreUnit,
		Veil:   float64(veil),
		Sevens: float64(min(sevens, SevensCap)*(scoreUnit/SevensCap)) / scoreUnit,
		Coins:  float64(min(coins, CoinsCap)*(scoreUnit/CoinsCap)) / scoreUnit,
		Sweeps: float64(sweeps),
	}
	b.Total = Score(cards, sweeps)
	return b
}

// Score is the continuous move-ranking heuristic for a set of captured cards:
//
//	min(n,21)/21 + veil + min(sevens,3)/3 + min(coins,6)/6 + sweepBonus
//
// where sevens and coins do not count the veil. It is not the end-of-round
// score; see FinalScore.
func Score(cards []Card, sweepBonus int) float64 {
	n, veil, sevens, coins := tally(cards)
	units := min(n, CardsCap)*(scoreUnit/CardsCap) +
		min(sevens, SevensCap)*(scoreUnit/SevensCap) +
		min(coins, CoinsCap)*(scoreUnit/CoinsCap)
	units += (veil + sweepBonus) * scoreUnit
	return float64(units) / scoreUnit
}
