package balancer

// Anchors are the conservative baselines provisional players are pulled
// toward. They come from the weakest established player in the pool.
type Anchors struct {
	Rating  float64 `json:"rating"`
	Attack  float64 `json:"attack"`
	Control float64 `json:"control"`
}

// DefaultAnchors apply when no player in the pool is established.
var DefaultAnchors = Anchors{
	Rating:  DefaultRating,
	Attack:  DefaultAttackRating,
	Control: DefaultControlRating,
}

func computeAnchors(players []*player, multiplier float64) Anchors {
	var weakest *player
	for _, pl := range players {
		if !pl.established {
			continue
		}
		if weakest == nil || pl.raw.Rating < weakest.raw.Rating {
			weakest = pl
		}
	}
	if weakest == nil {
		return DefaultAnchors
	}
	return Anchors{
		Rating:  weakest.raw.Rating * multiplier,
		Attack:  weakest.raw.AttackRating * multiplier,
		Control: weakest.raw.ControlRating * multiplier,
	}
}

func (a Anchors) effective(r Rating, threshold int) (rating, attack, control float64) {
	return EffectiveValue(r.Rating, a.Rating, r.GamesPlayed, threshold),
		EffectiveValue(r.AttackRating, a.Attack, r.GamesPlayed, threshold),
		EffectiveValue(r.ControlRating, a.Control, r.GamesPlayed, threshold)
}

// EffectiveValue interpolates linearly from anchor at zero games to actual at
// threshold games. Values at or past the threshold are returned unchanged.
func EffectiveValue(actual, anchor float64, gamesPlayed, threshold int) float64 {
	if threshold <= 0 || gamesPlayed >= threshold {
		return actual
	}
	if gamesPlayed < 0 {
		gamesPlayed = 0
	}
	return anchor + (actual-anchor)*float64(gamesPlayed)/float64(threshold)
}
