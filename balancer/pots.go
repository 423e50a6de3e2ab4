package balancer

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// rankPlayers orders players strongest first. The final comparison on name
// makes the order total, so equal inputs always produce equal pots.
func rankPlayers(players []*player) []*player {
	ranked := slices.Clone(players)
	slices.SortStableFunc(ranked, func(a, b *player) int {
		if c := cmp.Compare(b.rating, a.rating); c != 0 {
			return c
		}
		if c := cmp.Compare(b.raw.RankingScore, a.raw.RankingScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.raw.TotalPoints, a.raw.TotalPoints); c != 0 {
			return c
		}
		if c := cmp.Compare(b.raw.Appearances, a.raw.Appearances); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return ranked
}

// cutPots slices ordered players into bands of 2*teamCount, the last band
// taking whatever is left.
func cutPots(ordered []*player, teamCount int) [][]*player {
	size := max(2*teamCount, 1)
	pots := make([][]*player, 0, (len(ordered)+size-1)/size)
	for start := 0; start < len(ordered); start += size {
		end := min(start+size, len(ordered))
		pots = append(pots, slices.Clone(ordered[start:end]))
	}
	return pots
}

func seededPots(players []*player, teamCount int) [][]*player {
	return cutPots(rankPlayers(players), teamCount)
}

func randomPots(players []*player, teamCount int, rng *rand.Rand) [][]*player {
	shuffled := slices.Clone(players)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return cutPots(shuffled, teamCount)
}

// potIndex maps each player index to the pot it was drawn from.
func potIndex(pots [][]*player, playerCount int) []int {
	idx := make([]int, playerCount)
	for p, pot := range pots {
		for _, pl := range pot {
			idx[pl.index] = p
		}
	}
	return idx
}
