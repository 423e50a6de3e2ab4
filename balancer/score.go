package balancer

import "math"

const (
	weightElo     = 1.0
	weightSpread  = 0.7
	weightPairing = 1.3
	weightAttack  = 0.8
	weightControl = 0.8

	// secondaryCap is the per-team mean gap in a 0-1 rating that scores as
	// fully unbalanced.
	secondaryCap = 0.2
)

// Score is the normalized badness of an arrangement. Every component lies in
// [0, 1] and 0 is ideal; Total is their weighted average.
type Score struct {
	Total   float64 `json:"total"`
	Elo     float64 `json:"elo"`
	Spread  float64 `json:"spread"`
	Pairing float64 `json:"pairing"`
	Attack  float64 `json:"attack"`
	Control float64 `json:"control"`

	EloDelta float64 `json:"eloDelta"`
	EloLimit float64 `json:"eloLimit"`
}

// better orders scores: lower total wins, an exact tie goes to the tighter
// rating delta.
func (s Score) better(o Score) bool {
	if s.Total != o.Total {
		return s.Total < o.Total
	}
	return s.EloDelta < o.EloDelta
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func (e *evaluator) score(a *arrangement) Score {
	st := e.stats(a)
	s := Score{
		EloDelta: spread(st.meanRating),
		EloLimit: e.eloLimit,
	}
	if e.eloLimit > 0 {
		s.Elo = clamp01(s.EloDelta / e.eloLimit)
	} else if s.EloDelta > 0 {
		s.Elo = 1
	}
	s.Spread = e.spreadNorm(st)
	s.Pairing = e.pairingNorm(a)
	s.Attack = clamp01(spread(st.meanAttack) / secondaryCap)
	s.Control = clamp01(spread(st.meanControl) / secondaryCap)

	weighted := s.Elo*weightElo +
		s.Spread*weightSpread +
		s.Pairing*weightPairing +
		s.Attack*weightAttack +
		s.Control*weightControl
	s.Total = weighted / (weightElo + weightSpread + weightPairing + weightAttack + weightControl)
	return s
}

// spreadNorm compares how each team's best, worst and middle players line up
// across teams, so two teams with equal means but different shapes still
// score apart.
func (e *evaluator) spreadNorm(st teamStats) float64 {
	combined := spread(st.medRating)*1.0 + spread(st.maxRating)*0.6 + spread(st.minRating)*0.4
	ideal := 0.5 * e.pool.ratingRange
	worst := math.Max(ideal+1, 1.5*e.pool.ratingRange)
	return clamp01((combined - ideal) / (worst - ideal))
}

func pairBucket(count int) float64 {
	switch {
	case count <= 0:
		return -1.0
	case count == 1:
		return -0.5
	case count == 2:
		return 0
	case count == 3:
		return 0.5
	default:
		return 1.0
	}
}

func (e *evaluator) pairingNorm(a *arrangement) float64 {
	if !e.pairs.enabled() {
		return 0
	}
	total, pairs := 0.0, 0
	for _, roster := range a.teams {
		for x := 0; x < len(roster); x++ {
			for y := x + 1; y < len(roster); y++ {
				total += pairBucket(e.pairs.count(roster[x], roster[y]))
				pairs++
			}
		}
	}
	if pairs == 0 {
		return 0
	}
	return clamp01((total/float64(pairs) + 1) / 2)
}
