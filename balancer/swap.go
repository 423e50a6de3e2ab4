package balancer

import "slices"

// optimizeSwaps hill-climbs a by exchanging two players of the same pot who
// sit on different teams. The first improving swap of each scan is kept and
// the scan restarts; it stops when a scan finds nothing or after MaxSwaps
// scans. The returned score is never worse than a's starting score.
//
// A swap may not push the team rating delta past the hard limit, nor seat a
// capped pair together when a started without one.
func (e *evaluator) optimizeSwaps(a *arrangement, pots [][]*player) (Score, int) {
	current := e.score(a)
	keepPairCap := !e.repeatsTooOften(a)
	accepted := 0
	for range e.params.MaxSwaps {
		if !e.improveOnce(a, pots, &current, keepPairCap) {
			break
		}
		accepted++
	}
	return current, accepted
}

func (e *evaluator) improveOnce(a *arrangement, pots [][]*player, current *Score, keepPairCap bool) bool {
	for _, pot := range pots {
		byTeam := make(map[int][]int)
		for _, pl := range pot {
			t := a.teamOf[pl.index]
			byTeam[t] = append(byTeam[t], pl.index)
		}
		teams := make([]int, 0, len(byTeam))
		for t := range byTeam {
			teams = append(teams, t)
		}
		slices.Sort(teams)

		for x := 0; x < len(teams); x++ {
			for y := x + 1; y < len(teams); y++ {
				for _, p := range byTeam[teams[x]] {
					for _, q := range byTeam[teams[y]] {
						a.swap(p, q)
						s := e.score(a)
						if s.EloDelta <= e.eloLimit && s.better(*current) &&
							(!keepPairCap || !e.repeatsTooOften(a)) {
							*current = s
							return true
						}
						a.swap(p, q)
					}
				}
			}
		}
	}
	return false
}
