package balancer

import (
	"github.com/samber/lo"
)

const (
	DefaultRating        = 1000.0
	DefaultAttackRating  = 0.5
	DefaultControlRating = 0.5
)

// Rating is what the rating source knows about one player.
type Rating struct {
	Rating        float64 `json:"rating" yaml:"rating"`
	GamesPlayed   int     `json:"gamesPlayed" yaml:"gamesPlayed"`
	AttackRating  float64 `json:"attackRating" yaml:"attackRating"`
	ControlRating float64 `json:"controlRating" yaml:"controlRating"`
	RankingScore  float64 `json:"rankingScore" yaml:"rankingScore"`
	TotalPoints   float64 `json:"totalPoints" yaml:"totalPoints"`
	Appearances   int     `json:"appearances" yaml:"appearances"`
}

// DefaultPlayerRating is used for players the rating source has never seen.
func DefaultPlayerRating() Rating {
	return Rating{
		Rating:        DefaultRating,
		AttackRating:  DefaultAttackRating,
		ControlRating: DefaultControlRating,
	}
}

type player struct {
	index int
	name  string
	raw   Rating

	established bool
	rating      float64
	attack      float64
	control     float64
}

type pool struct {
	players []*player
	byName  map[string]*player
	anchors Anchors
	// ratingRange is the max-minus-min rating over the whole pool, with
	// provisional players counted at DefaultRating.
	ratingRange float64
}

// selectPlayers splits names into those seated by the configuration and the
// waiting list, preserving caller order.
func selectPlayers(names []string, needed int) ([]string, []string, error) {
	if dup, ok := firstDuplicate(names); ok {
		return nil, nil, configErrorf(CodeDuplicatePlayer, "player %q listed more than once", dup)
	}
	if needed > len(names) {
		return nil, nil, configErrorf(CodeInsufficientPlayers,
			"configuration needs %d players, only %d available", needed, len(names))
	}
	return names[:needed], names[needed:], nil
}

func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n, true
		}
		seen[n] = struct{}{}
	}
	return "", false
}

func newPool(names []string, ratings map[string]Rating, threshold int, anchorMultiplier float64) *pool {
	p := &pool{
		players: make([]*player, len(names)),
		byName:  make(map[string]*player, len(names)),
	}
	for i, name := range names {
		r, ok := ratings[name]
		if !ok {
			r = DefaultPlayerRating()
		}
		pl := &player{
			index:       i,
			name:        name,
			raw:         r,
			established: r.GamesPlayed >= threshold,
		}
		p.players[i] = pl
		p.byName[name] = pl
	}

	p.anchors = computeAnchors(p.players, anchorMultiplier)
	for _, pl := range p.players {
		pl.rating, pl.attack, pl.control = p.anchors.effective(pl.raw, threshold)
	}

	rangeValues := lo.Map(p.players, func(pl *player, _ int) float64 {
		if !pl.established {
			return DefaultRating
		}
		return pl.rating
	})
	if len(rangeValues) > 0 {
		p.ratingRange = lo.Max(rangeValues) - lo.Min(rangeValues)
	}
	return p
}

func (p *pool) names() []string {
	return lo.Map(p.players, func(pl *player, _ int) string { return pl.name })
}
