package strategy

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/stats"
)

// volatile picks at the category whose best available entity is expected
// to fall the furthest before the next turn, assuming each category loses
// its typical share of the intervening picks (the median of a binomial).
func volatile(q *stats.Quantiler) pickFunc {
	return func(d *draft.Draft) (entity.Entity, error) {
		r := d.Current()
		rules := d.Rules()
		p := d.Pool()

		wanted := r.NonFullCategories()
		if len(wanted) == 0 {
			return pickBest(d)
		}

		// With the flex slot open, a full flex-eligible category is only
		// worth drafting into flex, so its candidates move to FLEX.
		var flexFull []entity.Category
		if r.FlexOpen() {
			for _, fc := range rules.FlexCategories() {
				if r.Count(fc) == rules.Capacity(fc) {
					flexFull = append(flexFull, fc)
				}
			}
			if len(flexFull) > 0 {
				wanted = lo.Without(wanted, flexFull...)
				wanted = append(wanted, rules.Flex)
			}
		}

		lookahead := d.Lookahead()
		taken := func(c entity.Category) int {
			return q.Quantile(rules.QuantilePercentile, lookahead, rules.TypicalTaken[c])
		}
		tail := func(c entity.Category) ([]entity.Entity, []entity.Entity) {
			avail := p.Available(c)
			return avail, avail[min(taken(c), len(avail)):]
		}

		var (
			bestCat  entity.Category
			bestNow  entity.Entity
			bestLoss float64
			found    bool
		)
		for _, c := range wanted {
			var now, after []entity.Entity
			if c == rules.Flex {
				for _, fc := range flexFull {
					n, a := tail(fc)
					now = append(now, n...)
					after = append(after, a...)
				}
				sort.Stable(entity.ByScore(now))
				sort.Stable(entity.ByScore(after))
			} else {
				now, after = tail(c)
			}
			if len(now) == 0 {
				continue
			}
			// Attrition past the end of the list loses the whole category.
			loss := now[0].Score
			if len(after) > 0 {
				loss -= after[0].Score
			}
			log.Debug().Str("category", string(c)).Float64("loss", loss).
				Str("best", now[0].Name).Msg("volatility")
			if !found || loss > bestLoss {
				bestCat, bestNow, bestLoss, found = c, now[0], loss, true
			}
		}
		if !found {
			return pickBest(d)
		}
		log.Debug().Str("roster", r.Name()).Str("category", string(bestCat)).
			Int("lookahead", lookahead).Msg("most-volatile")
		return bestNow, nil
	}
}
