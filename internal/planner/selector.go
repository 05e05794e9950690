package planner

import "sort"

// TopBandMargin is how close to the best score a candidate must be to stay in
// the draw. A wider band trades score fidelity for more variety.
const TopBandMargin = 10

// SelectCandidate ranks scored candidates and picks one. Candidates are
// sorted by score descending (stable, so equal scores keep catalog order),
// the top band keeps everything within TopBandMargin of the best, and a
// Fisher-Yates pass over the band, driven by the shared random stream, makes
// the pick. The caller guarantees a non-empty slate.
func SelectCandidate(scored []ScoredRecipe, rng *SeededSource) ScoredRecipe {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	best := scored[0].Score
	band := 1
	for band < len(scored) && scored[band].Score >= best-TopBandMargin {
		band++
	}

	top := scored[:band]
	for i := len(top) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		top[i], top[j] = top[j], top[i]
	}
	return top[0]
}
