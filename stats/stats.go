// Package stats holds the small amount of probability the drafters need:
// binomial quantiles for attrition and running summaries of tournament
// results.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic summarizes a stream of results, such as the finishing ranks
// of one strategy over many drafts, without keeping them.
type Statistic struct {
	n    int
	last float64
	min  float64
	max  float64

	// Welford's running mean and sum of squared deviations.
	mean float64
	m2   float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	if s.n == 1 {
		s.mean, s.m2 = val, 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

// Merge folds another statistic into s, as if every value pushed to o had
// been pushed to s.
func (s *Statistic) Merge(o *Statistic) {
	switch {
	case o.n == 0:
		return
	case s.n == 0:
		*s = *o
		return
	}
	n := s.n + o.n
	delta := o.mean - s.mean
	s.m2 += o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n)
	s.mean += delta * float64(o.n) / float64(n)
	s.min = math.Min(s.min, o.min)
	s.max = math.Max(s.max, o.max)
	s.last = o.last
	s.n = n
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.mean
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 { return s.min }
func (s *Statistic) Max() float64 { return s.max }

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// ConfidenceInterval returns the half-width of the two-tailed interval
// around the mean, for a confidence given in percent.
func (s *Statistic) ConfidenceInterval(confidence float64) float64 {
	return ZVal(confidence) * s.StandardError()
}

func (s *Statistic) Iterations() int {
	return s.n
}
