package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/vgebrev/leagr-sub000/balancer"
)

// fixture is a recorded session. JSON files parse too, being valid YAML.
type fixture struct {
	Settings balancer.Settings           `yaml:"settings"`
	Config   *balancer.TeamConfiguration `yaml:"config"`
	Players  []string                    `yaml:"players"`
	Ratings  map[string]balancer.Rating  `yaml:"ratings"`
	Sessions [][][]string                `yaml:"sessions"`
}

func loadFixture(path string) (*fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

func normalizeKey(teams []balancer.Team) string {
	var gs [][]string
	for _, t := range teams {
		members := slices.Clone(t.Players)
		slices.Sort(members)
		gs = append(gs, members)
	}
	slices.SortFunc(gs, func(a, b []string) int { return strings.Compare(a[0], b[0]) })
	var buf strings.Builder
	for _, g := range gs {
		buf.WriteString(strings.Join(g, ","))
		buf.WriteByte(';')
	}
	return buf.String()
}

type runResult struct {
	score    float64
	eloDelta float64
	fallback bool
	swaps    int
	key      string
	elapsed  time.Duration
}

// scoreBucket rounds down to the nearest 0.05 for the distribution table.
func scoreBucket(score float64) float64 {
	return float64(int(score*20)) / 20
}

func printStats(label string, results []runResult, runs int) {
	fmt.Printf("--- %s ---\n", label)
	if len(results) == 0 {
		fmt.Printf("  no successful runs\n\n")
		return
	}

	buckets := map[float64]int{}
	arrangements := map[string]int{}
	var totalTime time.Duration
	var totalScore, totalDelta float64
	var fallbacks, totalSwaps int
	for _, r := range results {
		totalTime += r.elapsed
		totalScore += r.score
		totalDelta += r.eloDelta
		totalSwaps += r.swaps
		buckets[scoreBucket(r.score)]++
		arrangements[r.key]++
		if r.fallback {
			fallbacks++
		}
	}

	n := float64(len(results))
	fmt.Printf("  avg time: %v\n", totalTime/time.Duration(len(results)))
	fmt.Printf("  avg score: %.4f  avg elo delta: %.1f  avg swaps: %.1f\n", totalScore/n, totalDelta/n, float64(totalSwaps)/n)
	fmt.Printf("  fallbacks: %d/%d\n", fallbacks, runs)

	var bucketList []float64
	for b := range buckets {
		bucketList = append(bucketList, b)
	}
	sort.Float64s(bucketList)
	fmt.Printf("  score distribution:\n")
	for _, b := range bucketList {
		c := buckets[b]
		fmt.Printf("    [%.2f, %.2f): %d/%d runs (%.0f%%)\n", b, b+0.05, c, runs, float64(c)/float64(runs)*100)
	}

	var freqs []int
	for _, c := range arrangements {
		freqs = append(freqs, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(freqs)))
	fmt.Printf("  unique arrangements: %d\n", len(arrangements))
	topN := min(5, len(freqs))
	fmt.Printf("  top %d arrangement frequencies: ", topN)
	for i := range topN {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%d/%d", freqs[i], runs)
	}
	fmt.Println()
	fmt.Println()
}

func main() {
	path := flag.String("fixture", "fixture.yaml", "YAML or JSON fixture with settings, players, ratings and past sessions")
	runs := flag.Int("runs", 20, "number of generations per parameter set")
	method := flag.String("method", "seeded", "generation method: seeded or random")
	iterations := flag.String("iterations", "5000", "comma-separated search iteration budgets")
	swaps := flag.String("swaps", "200", "comma-separated swap scan budgets")
	workers := flag.String("workers", "1", "comma-separated search worker counts")
	earlyExit := flag.Float64("early-exit", balancer.DefaultParams.EarlyExitScore, "score at which the search may stop early")
	verbose := flag.Bool("v", false, "log each generation")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	f, err := loadFixture(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("reading fixture")
	}
	m, err := balancer.ParseMethod(*method)
	if err != nil {
		log.Fatal().Err(err).Msg("bad method")
	}

	config := f.Config
	if config == nil {
		configs, err := balancer.EnumerateConfigurations(len(f.Players), &f.Settings)
		if err != nil {
			log.Fatal().Err(err).Msg("enumerating configurations")
		}
		if len(configs) == 0 {
			log.Fatal().Int("players", len(f.Players)).Msg("no team configuration fits these settings")
		}
		config = &configs[0]
	}
	history := balancer.BuildTeammateHistory(f.Players, f.Sessions)

	fmt.Printf("Players: %d, Teams: %v, Past sessions: %d\n", len(f.Players), config.TeamSizes, len(f.Sessions))
	fmt.Printf("Method: %s, Runs per config: %d\n\n", m, *runs)

	for _, it := range parseIntList(*iterations) {
		for _, sw := range parseIntList(*swaps) {
			for _, w := range parseIntList(*workers) {
				params := balancer.DefaultParams
				params.MaxIterations = it
				params.MaxSwaps = sw
				params.Workers = w
				params.EarlyExitScore = *earlyExit

				var results []runResult
				for run := range *runs {
					rng := rand.New(rand.NewPCG(uint64(run*31337), uint64(run)))
					gen := balancer.NewGenerator(&f.Settings,
						balancer.WithParams(params),
						balancer.WithRand(rng),
						balancer.WithLogger(log.Logger),
					)
					start := time.Now()
					res, err := gen.GenerateTeams(balancer.Request{
						Method:  m,
						Config:  *config,
						Players: f.Players,
						Ratings: f.Ratings,
						History: history,
					})
					elapsed := time.Since(start)
					if err != nil {
						log.Error().Err(err).Int("run", run).Msg("generation failed")
						continue
					}
					results = append(results, runResult{
						score:    res.Score.Total,
						eloDelta: res.Score.EloDelta,
						fallback: res.Fallback,
						swaps:    res.Swaps,
						key:      normalizeKey(res.Teams),
						elapsed:  elapsed,
					})
				}
				label := fmt.Sprintf("%s iterations=%d swaps=%d workers=%d", m, it, sw, w)
				printStats(label, results, *runs)
			}
		}
	}
}

func parseIntList(s string) []int {
	parts := strings.Split(s, ",")
	var result []int
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err == nil {
			result = append(result, v)
		}
	}
	return result
}
