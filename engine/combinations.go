package engine

// CombinationsSummingTo returns every non-empty subset of cards whose ranks
// add up to target. Subsets are identified by position, so equal ranks in
// different cards yield distinct subsets. Results come in depth-first
// pre-order over the input order; nil means no subset exists.
func CombinationsSummingTo(cards []Card, target int) [][]Card {
	if target <= 0 {
		return nil
	}
	var out [][]Card
	var walk func(start int, path []Card, sum int)
	walk = func(start int, path []Card, sum int) {
		if sum == target {
			out = append(out, path)
			return
		}
		for j := start; j < len(cards); j++ {
			next := sum + int(cards[j].Rank())
			// Ranks are >= 1, so an overshooting branch can never come back.
			if next > target {
				continue
			}
			// Full slice expression forces a copy; sibling paths never alias.
			walk(j+1, append(path[:len(path):len(path)], cards[j]), next)
		}
	}
	walk(0, nil, 0)
	return out
}
