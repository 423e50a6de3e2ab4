package balancer

import (
	"fmt"
	"math/rand/v2"
)

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ladder returns n established players rated base, base+step, ...
func ladder(n int, base, step float64) ([]string, map[string]Rating) {
	names := make([]string, n)
	ratings := make(map[string]Rating, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%02d", i)
		ratings[names[i]] = Rating{
			Rating:        base + float64(i)*step,
			GamesPlayed:   20,
			AttackRating:  0.3 + 0.4*float64(i%4)/3,
			ControlRating: 0.7 - 0.4*float64(i%3)/2,
			Appearances:   20,
		}
	}
	return names, ratings
}

func testPool(names []string, ratings map[string]Rating) *pool {
	return newPool(names, ratings, DefaultParams.EstablishedThreshold, DefaultParams.AnchorMultiplier)
}

func rosterNames(p *pool, a *arrangement) [][]string {
	out := make([][]string, len(a.teams))
	for t, roster := range a.teams {
		for _, idx := range roster {
			out[t] = append(out[t], p.players[idx].name)
		}
	}
	return out
}
