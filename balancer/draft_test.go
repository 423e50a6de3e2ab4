package balancer

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnakeOrder(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, snakeOrder(3, 0))
	assert.Equal(t, []int{2, 1, 0}, snakeOrder(3, 1))
	assert.Equal(t, []int{0, 1, 2}, snakeOrder(3, 2))
}

func TestSnakeDraftFillsEveryTeamExactly(t *testing.T) {
	cases := [][]int{{4, 4, 4}, {5, 4}, {3, 3, 3, 3}, {6, 5, 5}, {7}}
	for _, sizes := range cases {
		n := lo.Sum(sizes)
		names, ratings := ladder(n, 900, 25)
		p := testPool(names, ratings)
		pots := seededPots(p.players, len(sizes))
		rng := seededRand(uint64(n))

		for range 20 {
			a := snakeDraft(pots, sizes, n, rng)
			require.True(t, a.complete(), "sizes=%v", sizes)
			for team, roster := range a.teams {
				assert.Len(t, roster, sizes[team])
			}
			seated := lo.Flatten(a.teams)
			assert.Len(t, seated, n)
			assert.Len(t, lo.Uniq(seated), n)
			for _, idx := range seated {
				assert.Contains(t, a.teams[a.teamOf[idx]], idx)
			}
		}
	}
}

func TestSnakeDraftSpreadsEachPot(t *testing.T) {
	names, ratings := ladder(12, 1000, 30)
	p := testPool(names, ratings)
	pots := seededPots(p.players, 3)
	potOf := potIndex(pots, len(p.players))

	a := snakeDraft(pots, []int{4, 4, 4}, 12, seededRand(3))
	for _, roster := range a.teams {
		perPot := lo.CountValuesBy(roster, func(idx int) int { return potOf[idx] })
		assert.Equal(t, map[int]int{0: 2, 1: 2}, perPot)
	}
}

func TestArrangementSwap(t *testing.T) {
	a := newArrangement([]int{2, 2}, 4)
	a.add(0, 0)
	a.add(0, 1)
	a.add(1, 2)
	a.add(1, 3)

	a.swap(1, 2)
	assert.Equal(t, [][]int{{0, 2}, {1, 3}}, a.teams)
	assert.Equal(t, []int{0, 1, 0, 1}, a.teamOf)

	a.swap(1, 2)
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, a.teams)
}
