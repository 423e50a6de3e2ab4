package balancer

import (
	"math/rand/v2"
	"slices"
)

// arrangement is one candidate split of the pool. teams holds player indices
// in draft order; teamOf is the inverse lookup.
type arrangement struct {
	sizes  []int
	teams  [][]int
	teamOf []int
}

func newArrangement(sizes []int, playerCount int) *arrangement {
	a := &arrangement{
		sizes:  sizes,
		teams:  make([][]int, len(sizes)),
		teamOf: make([]int, playerCount),
	}
	for t, size := range sizes {
		a.teams[t] = make([]int, 0, size)
	}
	for i := range a.teamOf {
		a.teamOf[i] = -1
	}
	return a
}

func (a *arrangement) clone() *arrangement {
	c := &arrangement{
		sizes:  a.sizes,
		teams:  make([][]int, len(a.teams)),
		teamOf: slices.Clone(a.teamOf),
	}
	for t, roster := range a.teams {
		c.teams[t] = slices.Clone(roster)
	}
	return c
}

func (a *arrangement) full(t int) bool {
	return len(a.teams[t]) >= a.sizes[t]
}

func (a *arrangement) complete() bool {
	for t := range a.teams {
		if !a.full(t) {
			return false
		}
	}
	return true
}

func (a *arrangement) add(t, p int) {
	a.teams[t] = append(a.teams[t], p)
	a.teamOf[p] = t
}

// swap exchanges players p and q, which must sit on different teams. Each
// takes the other's roster slot.
func (a *arrangement) swap(p, q int) {
	tp, tq := a.teamOf[p], a.teamOf[q]
	ip := slices.Index(a.teams[tp], p)
	iq := slices.Index(a.teams[tq], q)
	a.teams[tp][ip], a.teams[tq][iq] = q, p
	a.teamOf[p], a.teamOf[q] = tq, tp
}

// snakeOrder returns team indices for the given round: forward on even
// rounds, reversed on odd ones.
func snakeOrder(teamCount, round int) []int {
	order := make([]int, teamCount)
	for k := range order {
		if round%2 == 0 {
			order[k] = k
		} else {
			order[k] = teamCount - 1 - k
		}
	}
	return order
}

// snakeDraft builds one candidate: every pot is shuffled, then dealt one
// player per team per round in snake order, skipping full teams.
func snakeDraft(pots [][]*player, sizes []int, playerCount int, rng *rand.Rand) *arrangement {
	a := newArrangement(sizes, playerCount)
	for _, pot := range pots {
		if a.complete() {
			break
		}
		drawn := slices.Clone(pot)
		rng.Shuffle(len(drawn), func(i, j int) {
			drawn[i], drawn[j] = drawn[j], drawn[i]
		})
		next := 0
		for round := 0; next < len(drawn); round++ {
			assigned := false
			for _, t := range snakeOrder(len(sizes), round) {
				if next >= len(drawn) {
					break
				}
				if a.full(t) {
					continue
				}
				a.add(t, drawn[next].index)
				next++
				assigned = true
			}
			if !assigned {
				break
			}
		}
	}
	return a
}
