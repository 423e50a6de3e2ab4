package balancer

import (
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// searchOutcome is the best arrangement one search produced.
type searchOutcome struct {
	best       *arrangement
	score      Score
	iterations int
	fallback   bool
}

func (o *searchOutcome) offer(a *arrangement, s Score) {
	if o.best == nil || s.better(o.score) {
		o.best, o.score = a, s
	}
}

// searchWorker runs up to iterations snake drafts, discarding candidates that
// break a hard constraint and keeping the lowest score.
func (e *evaluator) searchWorker(pots [][]*player, sizes []int, iterations, earlyExitAt int, rng *rand.Rand) searchOutcome {
	var out searchOutcome
	for i := 1; i <= iterations; i++ {
		out.iterations = i
		a := snakeDraft(pots, sizes, len(e.pool.players), rng)
		if !a.complete() || !e.satisfiesHard(a) {
			continue
		}
		out.offer(a, e.score(a))
		if out.best != nil && i > earlyExitAt && out.score.Total <= e.params.EarlyExitScore {
			break
		}
	}
	return out
}

// search is a bounded random-restart search: it is a heuristic and makes no
// claim of global optimality. With more than one worker the iteration budget
// is split over independently seeded streams drawn from rng.
func (e *evaluator) search(pots [][]*player, sizes []int, rng *rand.Rand) (searchOutcome, error) {
	workers := max(e.params.Workers, 1)
	var out searchOutcome
	if workers == 1 {
		out = e.searchWorker(pots, sizes, e.params.MaxIterations, e.params.EarlyExitIteration, rng)
	} else {
		out = e.parallelSearch(pots, sizes, workers, rng)
	}
	if out.best != nil {
		return out, nil
	}

	// Nothing satisfied the hard constraints: take the first complete draft
	// with a finite score, ignoring them.
	for i := 0; i < e.params.FallbackIterations; i++ {
		out.iterations++
		a := snakeDraft(pots, sizes, len(e.pool.players), rng)
		if !a.complete() {
			continue
		}
		s := e.score(a)
		if math.IsNaN(s.Total) || math.IsInf(s.Total, 0) {
			continue
		}
		out.best, out.score, out.fallback = a, s, true
		return out, nil
	}
	return out, &GenerationError{
		Players:    len(e.pool.players),
		TeamCount:  len(sizes),
		Iterations: out.iterations,
	}
}

func (e *evaluator) parallelSearch(pots [][]*player, sizes []int, workers int, rng *rand.Rand) searchOutcome {
	perWorker := (e.params.MaxIterations + workers - 1) / workers
	earlyExitAt := e.params.EarlyExitIteration / workers

	streams := make([]*rand.Rand, workers)
	for w := range streams {
		streams[w] = rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
	}

	results := make([]searchOutcome, workers)
	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			results[w] = e.searchWorker(pots, sizes, perWorker, earlyExitAt, streams[w])
			return nil
		})
	}
	_ = g.Wait()

	// Reduce in worker order so ties resolve to the lower index.
	var out searchOutcome
	for _, r := range results {
		out.iterations += r.iterations
		if r.best != nil {
			out.offer(r.best, r.score)
		}
	}
	return out
}
