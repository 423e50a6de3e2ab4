package balancer

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankPlayersTieBreaks(t *testing.T) {
	players := []*player{
		{name: "e", rating: 1000},
		{name: "d", rating: 1000, raw: Rating{RankingScore: 5}},
		{name: "c", rating: 1000, raw: Rating{RankingScore: 5, TotalPoints: 9}},
		{name: "b", rating: 1000, raw: Rating{RankingScore: 5, TotalPoints: 9, Appearances: 3}},
		{name: "a", rating: 1200},
		{name: "f", rating: 1000},
	}
	ranked := rankPlayers(players)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"},
		lo.Map(ranked, func(p *player, _ int) string { return p.name }))
	// Input is left untouched.
	assert.Equal(t, "e", players[0].name)
}

func TestSeededPotsBands(t *testing.T) {
	names, ratings := ladder(10, 900, 50)
	p := testPool(names, ratings)

	pots := seededPots(p.players, 2)
	require.Len(t, pots, 3)
	assert.Equal(t, []int{4, 4, 2}, lo.Map(pots, func(pot []*player, _ int) int { return len(pot) }))
	assert.Equal(t, []string{"p09", "p08", "p07", "p06"},
		lo.Map(pots[0], func(p *player, _ int) string { return p.name }))
	assert.Equal(t, []string{"p01", "p00"},
		lo.Map(pots[2], func(p *player, _ int) string { return p.name }))
}

func TestRandomPotsCoverPool(t *testing.T) {
	names, ratings := ladder(9, 1000, 10)
	p := testPool(names, ratings)

	pots := randomPots(p.players, 3, seededRand(7))
	require.Len(t, pots, 2)
	all := lo.Flatten(pots)
	assert.ElementsMatch(t, names, lo.Map(all, func(p *player, _ int) string { return p.name }))
}

func TestPotIndex(t *testing.T) {
	names, ratings := ladder(6, 1000, 10)
	p := testPool(names, ratings)
	pots := seededPots(p.players, 1)
	idx := potIndex(pots, len(p.players))
	assert.Equal(t, 0, idx[p.byName["p05"].index])
	assert.Equal(t, 2, idx[p.byName["p00"].index])
}
