package balancer

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// evaluator carries everything the checker and scorer need for one
// generation call.
type evaluator struct {
	pool     *pool
	pairs    *pairCounts
	params   Params
	eloLimit float64
}

func newEvaluator(p *pool, pairs *pairCounts, params Params) *evaluator {
	return &evaluator{
		pool:     p,
		pairs:    pairs,
		params:   params,
		eloLimit: hardEloDeltaLimit(p.ratingRange, params),
	}
}

// hardEloDeltaLimit is the widest gap allowed between the strongest and
// weakest team means.
func hardEloDeltaLimit(poolRange float64, params Params) float64 {
	return math.Max(params.MinEloDeltaLimit, math.Floor(params.EloDeltaRangeFraction*poolRange))
}

type teamStats struct {
	meanRating  []float64
	meanAttack  []float64
	meanControl []float64
	maxRating   []float64
	minRating   []float64
	medRating   []float64
}

func (e *evaluator) stats(a *arrangement) teamStats {
	n := len(a.teams)
	s := teamStats{
		meanRating:  make([]float64, n),
		meanAttack:  make([]float64, n),
		meanControl: make([]float64, n),
		maxRating:   make([]float64, n),
		minRating:   make([]float64, n),
		medRating:   make([]float64, n),
	}
	for t, roster := range a.teams {
		if len(roster) == 0 {
			continue
		}
		ratings := make([]float64, len(roster))
		attacks := make([]float64, len(roster))
		controls := make([]float64, len(roster))
		for k, p := range roster {
			pl := e.pool.players[p]
			ratings[k], attacks[k], controls[k] = pl.rating, pl.attack, pl.control
		}
		s.meanRating[t] = stat.Mean(ratings, nil)
		s.meanAttack[t] = stat.Mean(attacks, nil)
		s.meanControl[t] = stat.Mean(controls, nil)
		s.maxRating[t] = floats.Max(ratings)
		s.minRating[t] = floats.Min(ratings)
		s.medRating[t] = median(ratings)
	}
	return s
}

func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values) - floats.Min(values)
}

// ratingDelta is the gap between the strongest and weakest team means.
func (e *evaluator) ratingDelta(a *arrangement) float64 {
	means := make([]float64, len(a.teams))
	ratings := make([]float64, 0, len(e.pool.players))
	for t, roster := range a.teams {
		if len(roster) == 0 {
			continue
		}
		ratings = ratings[:0]
		for _, p := range roster {
			ratings = append(ratings, e.pool.players[p].rating)
		}
		means[t] = stat.Mean(ratings, nil)
	}
	return spread(means)
}

// repeatsTooOften reports whether any two teammates have already shared a
// team PairingHardLimit or more times.
func (e *evaluator) repeatsTooOften(a *arrangement) bool {
	if !e.pairs.enabled() {
		return false
	}
	for _, roster := range a.teams {
		for x := 0; x < len(roster); x++ {
			for y := x + 1; y < len(roster); y++ {
				if e.pairs.count(roster[x], roster[y]) >= e.params.PairingHardLimit {
					return true
				}
			}
		}
	}
	return false
}

// satisfiesHard applies both hard rules; either one rejects the candidate.
func (e *evaluator) satisfiesHard(a *arrangement) bool {
	if e.repeatsTooOften(a) {
		return false
	}
	return e.ratingDelta(a) <= e.eloLimit
}
