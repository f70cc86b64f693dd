package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal returns the two-tailed z-value for a confidence given in percent.
func ZVal(confidence float64) float64 {
	area := (1 + confidence/100) / 2
	return distuv.UnitNormal.Quantile(area)
}

// Z99 is the z-value for a 99% confidence interval.
var Z99 = ZVal(99)
