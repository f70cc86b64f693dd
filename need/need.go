// Package need estimates which category a roster will draft next, from
// how far each of its categories is from full.
package need

import (
	"math"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/roster"
)

// Distribution maps each base category to the likelihood that a roster's
// next pick is of that category. Weights are non-negative and sum to at
// most 1; an all-zero distribution means the roster wants nothing.
type Distribution map[entity.Category]float64

func (d Distribution) Total() float64 {
	return lo.Sum(lo.Values(d))
}

// Compute returns the need distribution for r. It is a pure function of
// the roster's contents and is recomputed on every call.
func Compute(r *roster.Roster) Distribution {
	var d Distribution
	if r.DraftingBackups() {
		d = backups(r)
	} else {
		d = starters(r)
	}
	log.Debug().Str("roster", r.Name()).Interface("need", d).
		Bool("backups", r.DraftingBackups()).Msg("need-distribution")
	return d
}

func starters(r *roster.Roster) Distribution {
	rules := r.Rules()
	needs := Distribution{}
	for _, c := range rules.BaseCategories() {
		open := float64(rules.Capacity(c) - r.Count(c))
		needs[c] = math.Max(open*rules.Importance[c], 0)
	}
	if r.FlexOpen() {
		// A full flex-eligible category can still be drafted into the
		// flex slot.
		for _, c := range rules.FlexCategories() {
			if needs[c] == 0 {
				needs[c] = rules.Importance[c] * rules.FlexWeight(c)
			}
		}
	}
	return normalize(needs)
}

func backups(r *roster.Roster) Distribution {
	rules := r.Rules()
	d := Distribution{}
	if len(rules.BackupCaps) > 0 {
		for _, c := range rules.BaseCategories() {
			d[c] = math.Max(float64(rules.BackupCaps[c]-r.Count(c)), 0)
		}
		return normalize(d)
	}
	for _, c := range rules.BaseCategories() {
		d[c] = math.Max(rules.BackupDemand[c], 0)
	}
	if d.Total() > 1 {
		return normalize(d)
	}
	return d
}

func normalize(d Distribution) Distribution {
	total := d.Total()
	for c := range d {
		if total == 0 {
			d[c] = 0
			continue
		}
		d[c] /= total
	}
	return d
}
