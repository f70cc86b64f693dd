package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/domino14/snakedraft/cache"
)

// DefaultQuantileCacheSize comfortably covers every (percentile, trials,
// proportion) triple a draft asks for: a handful of proportions times at
// most twice the participant count in trials.
const DefaultQuantileCacheSize = 1024

const cdfTolerance = 1e-10

// BinomialQuantile returns the smallest k such that P(X <= k) >= percentile
// for X ~ Binomial(trials, proportion).
func BinomialQuantile(percentile float64, trials int, proportion float64) int {
	if trials <= 0 || proportion <= 0 || percentile <= 0 {
		return 0
	}
	if proportion >= 1 || percentile >= 1 {
		return trials
	}
	dist := distuv.Binomial{N: float64(trials), P: proportion}
	for k := 0; k < trials; k++ {
		if dist.CDF(float64(k)) >= percentile-cdfTolerance {
			return k
		}
	}
	return trials
}

type quantileKey struct {
	percentile float64
	trials     int
	proportion float64
}

// Quantiler memoizes BinomialQuantile in a bounded LRU cache.
type Quantiler struct {
	cache *cache.Cache[quantileKey, int]
}

func NewQuantiler(size int) *Quantiler {
	return &Quantiler{cache: cache.New[quantileKey, int](size)}
}

func (q *Quantiler) Quantile(percentile float64, trials int, proportion float64) int {
	k, _ := q.cache.Get(quantileKey{percentile, trials, proportion},
		func(key quantileKey) (int, error) {
			return BinomialQuantile(key.percentile, key.trials, key.proportion), nil
		})
	return k
}

// Computations is the number of quantiles actually computed, as opposed
// to served from the cache.
func (q *Quantiler) Computations() int {
	return q.cache.Loads()
}

// Hits is the number of quantiles served from the cache.
func (q *Quantiler) Hits() int {
	return q.cache.Hits()
}
