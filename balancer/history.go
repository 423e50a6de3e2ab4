package balancer

// DrawStep is one pick in a replayed draw.
type DrawStep struct {
	Order                    int    `json:"order"`
	Player                   string `json:"player"`
	PotIndex                 int    `json:"potIndex"`
	DestinationTeam          string `json:"destinationTeam"`
	PotPlayersRemainingAfter int    `json:"potPlayersRemainingAfter"`
}

// DrawHistory replays how the final teams could have been drawn from the
// pots. It is for display only and is derived from the result, never the
// other way round.
type DrawHistory struct {
	Steps       []DrawStep `json:"steps"`
	InitialPots [][]string `json:"initialPots"`
	Method      Method     `json:"method"`
}

func reconstructHistory(a *arrangement, p *pool, pots [][]*player, teamNames []string, method Method) *DrawHistory {
	h := &DrawHistory{
		InitialPots: make([][]string, len(pots)),
		Method:      method,
	}
	potOf := potIndex(pots, len(p.players))
	for pi, pot := range pots {
		for _, pl := range pot {
			h.InitialPots[pi] = append(h.InitialPots[pi], pl.name)
		}

		queues := make([][]int, len(a.teams))
		for t, roster := range a.teams {
			for _, idx := range roster {
				if potOf[idx] == pi {
					queues[t] = append(queues[t], idx)
				}
			}
		}

		remaining := len(pot)
		for round := 0; remaining > 0; round++ {
			progressed := false
			for _, t := range snakeOrder(len(a.teams), round) {
				if len(queues[t]) == 0 {
					continue
				}
				idx := queues[t][0]
				queues[t] = queues[t][1:]
				remaining--
				h.Steps = append(h.Steps, DrawStep{
					Order:                    len(h.Steps) + 1,
					Player:                   p.players[idx].name,
					PotIndex:                 pi,
					DestinationTeam:          teamNames[t],
					PotPlayersRemainingAfter: remaining,
				})
				progressed = true
			}
			if !progressed {
				break
			}
		}
	}
	return h
}
