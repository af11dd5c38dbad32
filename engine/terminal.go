package engine

// Category is one of the contested end-of-round categories.
type Category uint8

const (
	CategoryVeil Category = iota
	CategorySevens
	CategoryCoins
	CategoryCards

	NumCategories = 4
)

func (c Category) String() string {
	switch c {
	case CategoryVeil:
		return "veil"
	case CategorySevens:
		return "sevens"
	case CategoryCoins:
		return "coins"
	case CategoryCards:
		return "cards"
	default:
		return "unknown"
	}
}

// SideResult is one side's end-of-round tally.
type SideResult struct {
	Counts [NumCategories]int `json:"counts"` // raw category counts
	Points [NumCategories]int `json:"points"` // 1 for a won category, else 0
	Sweeps int                `json:"sweeps"`
	Total  int                `json:"total"`
}

// FinalResult is the categorical end-of-round score, indexed by Player.
type FinalResult struct {
	Sides [2]SideResult `json:"sides"`
}

// Winner returns the side with more points, or NoPlayer on a tie.
func (r FinalResult) Winner() Player {
	switch {
	case r.Sides[User].Total > r.Sides[Opponent].Total:
		return User
	case r.Sides[Opponent].Total > r.Sides[User].Total:
		return Opponent
	}
	return NoPlayer
}

// categoryCounts counts the final categories. Unlike the heuristic, sevens and
// coins include the veil.
func categoryCounts(cards []Card) [NumCategories]int {
	var counts [NumCategories]int
	for _, c := range cards {
		if c.IsVeil() {
			counts[CategoryVeil]++
		}
		if c.IsSeven() {
			counts[CategorySevens]++
		}
		if c.IsCoin() {
			counts[CategoryCoins]++
		}
	}
	counts[CategoryCards] = len(cards)
	return counts
}

// FinalScore scores a finished round. Each category is worth exactly one
// point to the side with the strictly greater count and nothing to either
// side on a tie. Every sweep adds one point, uncapped.
func FinalScore(capturedA, capturedB []Card, sweepsA, sweepsB int) FinalResult {
	var r FinalResult
	r.Sides[User].Counts = categoryCounts(capturedA)
	r.Sides[Opponent].Counts = categoryCounts(capturedB)

	for cat := 0; cat < NumCategories; cat++ {
		a, b := r.Sides[User].Counts[cat], r.Sides[Opponent].Counts[cat]
		if a > b {
			r.Sides[User].Points[cat] = 1
		} else if b > a {
			r.Sides[Opponent].Points[cat] = 1
		}
	}

	r.Sides[User].Sweeps = sweepsA
	r.Sides[Opponent].Sweeps = sweepsB
	for p := range r.Sides {
		side := &r.Sides[p]
		side.Total = side.Sweeps
		for _, pts := range side.Points {
			side.Total += pts
		}
	}
	return r
}
