package balancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveValueProvisionalPull(t *testing.T) {
	assert.InDelta(t, 990.0, EffectiveValue(1400, 990, 0, 5), 1e-9)
	assert.InDelta(t, 1154.0, EffectiveValue(1400, 990, 2, 5), 1e-9)
	assert.Equal(t, 1400.0, EffectiveValue(1400, 990, 5, 5))
	assert.Equal(t, 1400.0, EffectiveValue(1400, 990, 12, 5))
}

func TestEffectiveValueContinuousAtThreshold(t *testing.T) {
	const threshold = 35
	prev := EffectiveValue(1400, 990, 0, threshold)
	for games := 1; games <= threshold; games++ {
		v := EffectiveValue(1400, 990, games, threshold)
		// Each extra game moves the value by the same fixed step.
		assert.InDelta(t, (1400.0-990.0)/threshold, v-prev, 1e-9, "games=%d", games)
		prev = v
	}
	assert.Equal(t, 1400.0, prev)
}

func TestComputeAnchorsUsesWeakestEstablished(t *testing.T) {
	players := []*player{
		{name: "a", established: true, raw: Rating{Rating: 1200, AttackRating: 0.7, ControlRating: 0.6}},
		{name: "b", established: true, raw: Rating{Rating: 1000, AttackRating: 0.4, ControlRating: 0.3}},
		{name: "c", established: false, raw: Rating{Rating: 800, AttackRating: 0.1, ControlRating: 0.1}},
	}
	a := computeAnchors(players, 0.99)
	assert.InDelta(t, 990.0, a.Rating, 1e-9)
	assert.InDelta(t, 0.396, a.Attack, 1e-9)
	assert.InDelta(t, 0.297, a.Control, 1e-9)
}

func TestComputeAnchorsDefaultsWithoutEstablished(t *testing.T) {
	players := []*player{{name: "a", raw: Rating{Rating: 1500}}}
	assert.Equal(t, DefaultAnchors, computeAnchors(players, 0.99))
}

func TestNewPoolRangeCountsProvisionalAsDefault(t *testing.T) {
	ratings := map[string]Rating{
		"est-high": {Rating: 1300, GamesPlayed: 10, AttackRating: 0.5, ControlRating: 0.5},
		"est-low":  {Rating: 1100, GamesPlayed: 10, AttackRating: 0.5, ControlRating: 0.5},
		"new":      {Rating: 1800, GamesPlayed: 1, AttackRating: 0.5, ControlRating: 0.5},
	}
	p := newPool([]string{"est-high", "est-low", "new", "unknown"}, ratings, 5, 0.99)

	// est-high 1300, est-low 1100, provisional players count as 1000.
	assert.InDelta(t, 300.0, p.ratingRange, 1e-9)
	assert.InDelta(t, 1089.0, p.anchors.Rating, 1e-9)
	assert.InDelta(t, 1089+(1800-1089)*0.2, p.byName["new"].rating, 1e-9)
	assert.InDelta(t, 1089.0, p.byName["unknown"].rating, 1e-9)
	assert.Equal(t, 1300.0, p.byName["est-high"].rating)
}
