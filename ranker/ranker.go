// Package ranker turns a scarcity forecast into a per-category expected
// loss: how much the best available entity at a category is expected to
// drop before the participant picks again.
package ranker

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/forecast"
	"github.com/domino14/snakedraft/pool"
	"github.com/domino14/snakedraft/roster"
)

// ErrOutOfRange means the forecast puts mass on a count past the end of the
// available list. The forecast and the pool disagree, which is a modeling
// bug rather than a data condition.
var ErrOutOfRange = errors.New("forecast count past available entities")

type Loss struct {
	Category entity.Category
	// Raw is the expected drop in best-available score.
	Raw float64
	// Value is Raw after heuristic adjustments; categories are ranked by it.
	Value float64
}

type Ranking struct {
	Forecast forecast.Distribution
	// Losses holds the categories the roster still wants, best first.
	Losses  []Loss
	Backups bool
}

// Best is the category with the largest adjusted loss.
func (rk *Ranking) Best() (entity.Category, bool) {
	if len(rk.Losses) == 0 {
		return "", false
	}
	return rk.Losses[0].Category, true
}

// ExpectedLoss is sum over k of P(k taken) * (best - k-th best), for a list
// of available entities ordered best first.
func ExpectedLoss(avail []entity.Entity, counts forecast.Counts) (float64, error) {
	if len(avail) == 0 {
		return 0, nil
	}
	best := avail[0].Score
	loss := 0.0
	for _, k := range counts.Keys() {
		if k >= len(avail) {
			return 0, fmt.Errorf("%w: count %d with %d available at %s",
				ErrOutOfRange, k, len(avail), avail[0].Category)
		}
		loss += counts[k] * (best - avail[k].Score)
	}
	return loss, nil
}

type Ranker struct {
	forecaster *forecast.Forecaster
}

func New(f *forecast.Forecaster) *Ranker {
	return &Ranker{forecaster: f}
}

// Rank forecasts what the intervening rosters will take and ranks the
// categories r still needs by expected loss.
func (rk *Ranker) Rank(r *roster.Roster, p *pool.Pool, intervening []*roster.Roster) (*Ranking, error) {
	rules := r.Rules()
	base := rules.BaseCategories()
	dist := rk.forecaster.Run(forecast.NewDistribution(base), intervening)
	backups := r.DraftingBackups()

	wanted := r.NonFullCategories()
	wanted = lo.Reject(wanted, func(c entity.Category, _ int) bool {
		return dominatedFlexCategory(r, p, c)
	})

	var losses []Loss
	for _, c := range base {
		avail := p.Available(c)
		if len(avail) == 0 {
			// Exhausted; nothing to lose by waiting.
			continue
		}
		raw, err := ExpectedLoss(avail, dist[c])
		if err != nil {
			return nil, err
		}
		l := Loss{Category: c, Raw: raw, Value: raw}
		if !backups && r.Count(c) == rules.Capacity(c)-1 {
			l.Value -= rules.LastSlotPenalty
		}
		if !backups && !lo.Contains(wanted, c) {
			continue
		}
		losses = append(losses, l)
	}
	sort.SliceStable(losses, func(i, j int) bool { return losses[i].Value > losses[j].Value })

	log.Debug().Str("roster", r.Name()).Interface("losses", losses).
		Bool("backups", backups).Msg("expected-loss")
	return &Ranking{Forecast: dist, Losses: losses, Backups: backups}, nil
}

// dominatedFlexCategory reports whether c should only be chased for the open
// flex slot if it beats the anchor category, and it doesn't.
func dominatedFlexCategory(r *roster.Roster, p *pool.Pool, c entity.Category) bool {
	rules := r.Rules()
	if !lo.Contains(rules.FlexSkip, c) || rules.FlexAnchor == "" || !r.FlexOpen() {
		return false
	}
	if r.Count(c) != rules.Capacity(c) {
		return false
	}
	own, ok := p.BestAt(c)
	if !ok {
		return false
	}
	anchor, ok := p.BestAt(rules.FlexAnchor)
	if !ok {
		return false
	}
	return own.Score < anchor.Score
}
