package balancer

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructHistory(t *testing.T) {
	names, ratings := ladder(9, 1000, 20)
	p := testPool(names, ratings)
	sizes := []int{5, 4}
	pots := seededPots(p.players, 2)
	a := snakeDraft(pots, sizes, len(p.players), seededRand(21))
	teamNames := []string{"Red Lions", "Blue Bears"}

	h := reconstructHistory(a, p, pots, teamNames, MethodSeeded)
	require.Len(t, h.Steps, 9)
	assert.Equal(t, MethodSeeded, h.Method)
	assert.Equal(t, [][]string{
		{"p08", "p07", "p06", "p05"},
		{"p04", "p03", "p02", "p01"},
		{"p00"},
	}, h.InitialPots)

	rosters := rosterNames(p, a)
	for i, step := range h.Steps {
		assert.Equal(t, i+1, step.Order)
		team := lo.IndexOf(teamNames, step.DestinationTeam)
		require.GreaterOrEqual(t, team, 0)
		assert.Contains(t, rosters[team], step.Player)
		assert.Contains(t, h.InitialPots[step.PotIndex], step.Player)
	}
	assert.ElementsMatch(t, names, lo.Map(h.Steps, func(s DrawStep, _ int) string { return s.Player }))

	// The last pick of each pot empties it.
	for pi := range pots {
		steps := lo.Filter(h.Steps, func(s DrawStep, _ int) bool { return s.PotIndex == pi })
		assert.Zero(t, steps[len(steps)-1].PotPlayersRemainingAfter)
		assert.Equal(t, len(pots[pi])-1, steps[0].PotPlayersRemainingAfter)
	}
}

func TestReconstructHistorySnakesAcrossTeams(t *testing.T) {
	names, ratings := ladder(4, 1000, 50)
	p := testPool(names, ratings)
	pots := seededPots(p.players, 2)
	a := fixed(p, []string{"p03", "p00"}, []string{"p02", "p01"})

	h := reconstructHistory(a, p, pots, []string{"A", "B"}, MethodSeeded)
	assert.Equal(t, []string{"A", "B", "B", "A"},
		lo.Map(h.Steps, func(s DrawStep, _ int) string { return s.DestinationTeam }))
	assert.Equal(t, []string{"p03", "p02", "p01", "p00"},
		lo.Map(h.Steps, func(s DrawStep, _ int) string { return s.Player }))
}
