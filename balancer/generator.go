// Package balancer splits a pool of rated players into teams that are close
// in strength, similar in shape and mix players who have rarely been
// teammates.
//
// Generation is a bounded stochastic search: pots of similarly rated players
// are snake-drafted many times, candidates breaking a hard cap are dropped,
// the best-scoring survivor is refined by same-pot swaps. Results are good,
// not provably optimal.
package balancer

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// Method selects how teams are drawn.
type Method string

const (
	// MethodRandom deals a shuffled pool with no balancing.
	MethodRandom Method = "random"
	// MethodSeeded runs the full balancing search.
	MethodSeeded Method = "seeded"
)

// ParseMethod validates a method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodRandom, MethodSeeded:
		return m, nil
	}
	return "", configErrorf(CodeInvalidMethod, "unknown method %q", s)
}

type Params struct {
	MaxIterations      int
	EarlyExitIteration int
	EarlyExitScore     float64
	FallbackIterations int
	MaxSwaps           int

	PairingHardLimit      int
	MinEloDeltaLimit      float64
	EloDeltaRangeFraction float64

	// EstablishedThreshold is the games-played count at which a rating is
	// trusted as is.
	EstablishedThreshold int
	AnchorMultiplier     float64

	Workers int
}

var DefaultParams = Params{
	MaxIterations:      5000,
	EarlyExitIteration: 2000,
	EarlyExitScore:     0.25,
	FallbackIterations: 5,
	MaxSwaps:           200,

	PairingHardLimit:      3,
	MinEloDeltaLimit:      60,
	EloDeltaRangeFraction: 0.15,

	EstablishedThreshold: 5,
	AnchorMultiplier:     0.99,

	Workers: 1,
}

// Request is everything one generation call reads.
type Request struct {
	Method        Method
	Config        TeamConfiguration
	Players       []string
	Ratings       map[string]Rating
	History       *TeammateHistory
	RecordHistory bool
}

type Team struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

type ResultConfig struct {
	Method       Method `json:"method"`
	TeamCount    int    `json:"teamCount"`
	TotalPlayers int    `json:"totalPlayers"`
	PlayersUsed  int    `json:"playersUsed"`
}

type Result struct {
	Teams       []Team
	Config      ResultConfig
	Waiting     []string
	Score       Score
	Anchors     Anchors
	Iterations  int
	Swaps       int
	Fallback    bool
	DrawHistory *DrawHistory
}

// Rosters maps team name to players.
func (r *Result) Rosters() map[string][]string {
	m := make(map[string][]string, len(r.Teams))
	for _, t := range r.Teams {
		m[t.Name] = slices.Clone(t.Players)
	}
	return m
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Teams       map[string][]string `json:"teams"`
		TeamOrder   []string            `json:"teamOrder"`
		Config      ResultConfig        `json:"config"`
		Waiting     []string            `json:"waiting,omitempty"`
		Score       Score               `json:"score"`
		Fallback    bool                `json:"fallback,omitempty"`
		DrawHistory *DrawHistory        `json:"drawHistory,omitempty"`
	}{
		Teams: r.Rosters(),
		TeamOrder: func() []string {
			names := make([]string, len(r.Teams))
			for i, t := range r.Teams {
				names[i] = t.Name
			}
			return names
		}(),
		Config:      r.Config,
		Waiting:     r.Waiting,
		Score:       r.Score,
		Fallback:    r.Fallback,
		DrawHistory: r.DrawHistory,
	})
}

// Generator is not safe for concurrent use; its random stream advances with
// every call.
type Generator struct {
	settings *Settings
	params   Params
	rng      *rand.Rand
	names    NameSource
	logger   zerolog.Logger
}

type Option func(*Generator)

func WithParams(p Params) Option {
	return func(g *Generator) { g.params = p }
}

// WithRand injects the random stream; tests use a fixed seed.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

func WithNameSource(n NameSource) Option {
	return func(g *Generator) { g.names = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewRand returns a PCG stream seeded from system entropy.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(frand.Uint64n(math.MaxUint64), frand.Uint64n(math.MaxUint64)))
}

func NewGenerator(settings *Settings, opts ...Option) *Generator {
	g := &Generator{
		settings: settings,
		params:   DefaultParams,
		names:    ColourAnimalNames,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = NewRand()
	}
	return g
}

func (g *Generator) EnumerateConfigurations(playerCount int) ([]TeamConfiguration, error) {
	return EnumerateConfigurations(playerCount, g.settings)
}

func (g *Generator) validate(req Request) error {
	if err := g.settings.Validate(); err != nil {
		return err
	}
	if _, err := ParseMethod(string(req.Method)); err != nil {
		return err
	}
	if err := req.Config.validate(g.settings); err != nil {
		return err
	}
	return req.History.validate()
}

// GenerateTeams splits req.Players into req.Config's teams. Players beyond
// the configuration's total are returned as the waiting list, in order.
func (g *Generator) GenerateTeams(req Request) (*Result, error) {
	if err := g.validate(req); err != nil {
		return nil, err
	}
	needed := req.Config.PlayersNeeded()
	seated, waiting, err := selectPlayers(req.Players, needed)
	if err != nil {
		return nil, err
	}

	p := newPool(seated, req.Ratings, g.params.EstablishedThreshold, g.params.AnchorMultiplier)
	ev := newEvaluator(p, newPairCounts(req.History, p), g.params)
	sizes := slices.Clone(req.Config.TeamSizes)
	logger := g.logger.With().
		Str("method", string(req.Method)).
		Int("teams", req.Config.TeamCount).
		Int("players", needed).
		Logger()

	var (
		pots  [][]*player
		out   searchOutcome
		swaps int
	)
	switch req.Method {
	case MethodRandom:
		pots = randomPots(p.players, req.Config.TeamCount, g.rng)
		arr := snakeDraft(pots, sizes, len(p.players), g.rng)
		if !arr.complete() {
			return nil, &GenerationError{Players: needed, TeamCount: req.Config.TeamCount, Iterations: 1}
		}
		out = searchOutcome{best: arr, score: ev.score(arr), iterations: 1}
	default:
		pots = seededPots(p.players, req.Config.TeamCount)
		out, err = ev.search(pots, sizes, g.rng)
		if err != nil {
			logger.Error().Err(err).Msg("no arrangement found")
			return nil, err
		}
		if out.fallback {
			logger.Warn().Int("iterations", out.iterations).Msg("hard constraints unsatisfiable; using unconstrained arrangement")
		}
		before := out.score.Total
		out.score, swaps = ev.optimizeSwaps(out.best, pots)
		logger.Debug().
			Int("iterations", out.iterations).
			Int("swaps", swaps).
			Float64("scoreBefore", before).
			Float64("score", out.score.Total).
			Float64("eloDelta", out.score.EloDelta).
			Float64("eloLimit", out.score.EloLimit).
			Msg("teams balanced")
	}
	return g.finish(req, p, pots, out, swaps, waiting), nil
}

// teamNames asks the name source for count names and falls back to numbered
// names when it returns too few or repeats one.
func (g *Generator) teamNames(count int) []string {
	names := g.names(count, g.rng)
	if len(names) >= count && len(lo.Uniq(names[:count])) == count {
		return names[:count]
	}
	g.logger.Warn().Int("teams", count).Int("names", len(names)).Msg("name source gave unusable names; numbering teams")
	return NumberedNames(count, g.rng)
}

func (g *Generator) finish(req Request, p *pool, pots [][]*player, out searchOutcome, swaps int, waiting []string) *Result {
	arr := out.best
	names := g.teamNames(len(arr.teams))
	res := &Result{
		Teams: make([]Team, len(arr.teams)),
		Config: ResultConfig{
			Method:       req.Method,
			TeamCount:    req.Config.TeamCount,
			TotalPlayers: len(req.Players),
			PlayersUsed:  len(p.players),
		},
		Waiting:    slices.Clone(waiting),
		Score:      out.score,
		Anchors:    p.anchors,
		Iterations: out.iterations,
		Swaps:      swaps,
		Fallback:   out.fallback,
	}
	for t, roster := range arr.teams {
		res.Teams[t] = Team{Name: names[t], Players: make([]string, len(roster))}
		for k, idx := range roster {
			res.Teams[t].Players[k] = p.players[idx].name
		}
	}
	if req.RecordHistory {
		res.DrawHistory = reconstructHistory(arr, p, pots, names, req.Method)
	}
	return res
}
