package balancer

import "github.com/samber/lo"

// TeammateHistory counts, for each pair of known players, how many recent
// sessions they shared a team. Matrix is square and symmetric, indexed like
// Players.
type TeammateHistory struct {
	Players []string `json:"players" yaml:"players"`
	Matrix  [][]int  `json:"matrix" yaml:"matrix"`
}

func (h *TeammateHistory) validate() error {
	if h == nil {
		return nil
	}
	if len(h.Matrix) != len(h.Players) {
		return configErrorf(CodeInvalidHistory, "teammate matrix has %d rows for %d players", len(h.Matrix), len(h.Players))
	}
	for i, row := range h.Matrix {
		if len(row) != len(h.Players) {
			return configErrorf(CodeInvalidHistory, "teammate matrix row %d has %d columns, want %d", i, len(row), len(h.Players))
		}
	}
	return nil
}

// Count returns how often a and b were teammates; unknown names count zero.
func (h *TeammateHistory) Count(a, b string) int {
	if h == nil {
		return 0
	}
	i, j := lo.IndexOf(h.Players, a), lo.IndexOf(h.Players, b)
	if i < 0 || j < 0 {
		return 0
	}
	return h.Matrix[i][j]
}

// BuildTeammateHistory tallies shared teams over past sessions. Each session
// is a list of rosters; names outside players are ignored.
func BuildTeammateHistory(players []string, sessions [][][]string) *TeammateHistory {
	index := make(map[string]int, len(players))
	for i, name := range players {
		index[name] = i
	}
	matrix := make([][]int, len(players))
	for i := range matrix {
		matrix[i] = make([]int, len(players))
	}
	for _, session := range sessions {
		for _, roster := range session {
			known := lo.FilterMap(lo.Uniq(roster), func(name string, _ int) (int, bool) {
				i, ok := index[name]
				return i, ok
			})
			for x := 0; x < len(known); x++ {
				for y := x + 1; y < len(known); y++ {
					matrix[known[x]][known[y]]++
					matrix[known[y]][known[x]]++
				}
			}
		}
	}
	return &TeammateHistory{Players: players, Matrix: matrix}
}

// pairCounts is the history re-indexed by pool position. A nil matrix means no
// history was supplied.
type pairCounts struct {
	matrix [][]int
}

func newPairCounts(h *TeammateHistory, p *pool) *pairCounts {
	if h == nil {
		return &pairCounts{}
	}
	index := make(map[string]int, len(h.Players))
	for i, name := range h.Players {
		index[name] = i
	}
	matrix := make([][]int, len(p.players))
	for i, a := range p.players {
		matrix[i] = make([]int, len(p.players))
		hi, ok := index[a.name]
		if !ok {
			continue
		}
		for j, b := range p.players {
			if hj, ok := index[b.name]; ok && i != j {
				matrix[i][j] = h.Matrix[hi][hj]
			}
		}
	}
	return &pairCounts{matrix: matrix}
}

func (pc *pairCounts) enabled() bool {
	return pc.matrix != nil
}

func (pc *pairCounts) count(i, j int) int {
	if pc.matrix == nil {
		return 0
	}
	return pc.matrix[i][j]
}
