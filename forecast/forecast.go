// Package forecast estimates, per category, how many entities opposing
// rosters will draft before a participant's next turn.
//
// Each intervening roster drafts according to its need distribution. The
// first-order pass convolves that need into the running count
// distribution. Because a pick changes the same roster's need, a second
// pass re-runs the update on copies of the roster with one more entity at
// each category, weighted by how likely that first pick was. This catches
// a roster that takes the same scarce category twice in one window.
package forecast

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/snakedraft/need"
	"github.com/domino14/snakedraft/roster"
)

// MaxDepth bounds the recursion: one first-order update plus one nested
// level per intervening roster.
const MaxDepth = 2

type NeedFunc func(r *roster.Roster) need.Distribution

type Forecaster struct {
	// Threshold is the smallest probability mass worth moving.
	Threshold float64
	Need      NeedFunc
}

func NewForecaster(threshold float64) *Forecaster {
	return &Forecaster{Threshold: threshold, Need: need.Compute}
}

// Run folds every intervening roster, in turn order, into start and returns
// the resulting distribution. start is not modified.
func (f *Forecaster) Run(start Distribution, rosters []*roster.Roster) Distribution {
	d := start
	for _, r := range rosters {
		d = f.update(d, r, 1, 1)
	}
	log.Debug().Interface("distribution", d).Int("rosters", len(rosters)).
		Msg("forecast")
	return d
}

// update applies r's next pick, taken with probability weight, to d.
func (f *Forecaster) update(d Distribution, r *roster.Roster, weight float64, depth int) Distribution {
	likelihood := f.Need(r)
	cats := d.Categories()

	next := d.Clone()
	if weight > 0 {
		for _, c := range cats {
			l := likelihood[c]
			if l == 0 {
				continue
			}
			next[c].shift(l*weight, f.Threshold)
		}
	}
	if depth >= MaxDepth {
		return next
	}
	for _, c := range cats {
		if likelihood[c] == 0 {
			continue
		}
		next = f.update(next, r.WithPlaceholder(c), likelihood[c], depth+1)
	}
	return next
}
