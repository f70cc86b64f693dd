package ranker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/forecast"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/pool"
	"github.com/domino14/snakedraft/roster"
	"github.com/domino14/snakedraft/stats"
)

func singleRules(t *testing.T) *league.Rules {
	rules, err := league.Parse([]byte("slots:\n  - {category: X, capacity: 1}\nimportance: {X: 1}\n"))
	if err != nil {
		t.Fatal(err)
	}
	return rules
}

func xs(scores ...float64) []entity.Entity {
	ents := make([]entity.Entity, len(scores))
	for i, s := range scores {
		ents[i] = entity.Entity{Name: string(rune('a' + i)), Category: "X", Score: s}
	}
	return ents
}

func build(t *testing.T, rules *league.Rules, ents ...entity.Entity) *roster.Roster {
	r := roster.New("r", "predictive", rules)
	for _, e := range ents {
		if err := r.Add(e); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func TestCertainPickCostsOneStep(t *testing.T) {
	is := is.New(t)
	rules := singleRules(t)
	p := pool.New(rules, xs(10, 8, 6, 4, 2))
	rk := New(forecast.NewForecaster(rules.PruneThreshold))

	ranking, err := rk.Rank(build(t, rules), p, []*roster.Roster{build(t, rules)})
	is.NoErr(err)
	is.Equal(ranking.Forecast["X"][1], 1.0)
	is.Equal(len(ranking.Losses), 1)
	is.Equal(ranking.Losses[0].Raw, 2.0)
	// Last open slot at X: deprioritized by the penalty.
	is.True(stats.FuzzyEqual(ranking.Losses[0].Value, 2.0-rules.LastSlotPenalty))
	c, ok := ranking.Best()
	is.True(ok)
	is.Equal(c, entity.Category("X"))
}

func TestExpectedLoss(t *testing.T) {
	is := is.New(t)
	avail := xs(10, 8, 6, 4, 2)
	loss, err := ExpectedLoss(avail, forecast.Counts{0: 0.5, 1: 0.25, 2: 0.25})
	is.NoErr(err)
	is.Equal(loss, 0.25*2+0.25*4)

	loss, err = ExpectedLoss(nil, forecast.Counts{0: 1})
	is.NoErr(err)
	is.Equal(loss, 0.0)

	_, err = ExpectedLoss(xs(10), forecast.Counts{0: 0.5, 1: 0.5})
	is.True(errors.Is(err, ErrOutOfRange))
}

func TestOutOfRangeIsFatal(t *testing.T) {
	is := is.New(t)
	rules := singleRules(t)
	p := pool.New(rules, xs(10))
	rk := New(forecast.NewForecaster(rules.PruneThreshold))
	_, err := rk.Rank(build(t, rules), p, []*roster.Roster{build(t, rules)})
	is.True(errors.Is(err, ErrOutOfRange))
}

func TestBackupsRankEveryCategory(t *testing.T) {
	is := is.New(t)
	rules, err := league.Parse([]byte(`
slots:
  - {category: X, capacity: 1}
  - {category: Y, capacity: 1}
importance: {X: 1, Y: 1}
low_signal: [Y]
`))
	is.NoErr(err)
	p := pool.New(rules, []entity.Entity{
		{Name: "x1", Category: "X", Score: 5},
		{Name: "x2", Category: "X", Score: 4},
		{Name: "x3", Category: "X", Score: 3},
		{Name: "x4", Category: "X", Score: 2},
		{Name: "y1", Category: "Y", Score: 3},
		{Name: "y2", Category: "Y", Score: 1},
		{Name: "y3", Category: "Y", Score: 0.5},
		{Name: "y4", Category: "Y", Score: 0.2},
	})
	rk := New(forecast.NewForecaster(rules.PruneThreshold))
	// X filled, so the roster is drafting backups and ranks every category.
	me := build(t, rules, entity.Entity{Name: "x0", Category: "X", Score: 6})
	ranking, err := rk.Rank(me, p, []*roster.Roster{build(t, rules)})
	is.NoErr(err)
	is.True(ranking.Backups)
	is.Equal(len(ranking.Losses), 2)
}

func defaultPool() []entity.Entity {
	type top struct {
		c     entity.Category
		score float64
		step  float64
	}
	var ents []entity.Entity
	for _, tp := range []top{
		{entity.QB, 22, 1},
		{entity.RB, 18, 3},
		{entity.WR, 16, 1},
		{entity.TE, 10, 2},
		{entity.AR, 8, 0.5},
		{entity.SK, 8, 0.5},
	} {
		for i := 0; i < 8; i++ {
			ents = append(ents, entity.Entity{
				Name:     fmt.Sprintf("%s%d", tp.c, i+1),
				Category: tp.c,
				Score:    tp.score - float64(i)*tp.step,
			})
		}
	}
	return ents
}

func TestDominatedFlexCategoryDropped(t *testing.T) {
	is := is.New(t)
	rules := league.DefaultRules()
	p := pool.New(rules, defaultPool())
	rk := New(forecast.NewForecaster(rules.PruneThreshold))
	// TE is full and the flex slot is open; the best TE (10) is worse than
	// the best WR (16), so TE is not worth chasing for flex.
	me := build(t, rules,
		entity.Entity{Name: "mt", Category: entity.TE, Score: 9},
		entity.Entity{Name: "mq", Category: entity.QB, Score: 25},
	)
	ranking, err := rk.Rank(me, p, []*roster.Roster{build(t, rules), build(t, rules)})
	is.NoErr(err)
	cats := map[entity.Category]bool{}
	for _, l := range ranking.Losses {
		cats[l.Category] = true
	}
	is.True(!cats[entity.TE])
	is.True(!cats[entity.QB])
	is.True(cats[entity.RB])
	is.True(cats[entity.WR])
	for i := 1; i < len(ranking.Losses); i++ {
		is.True(ranking.Losses[i-1].Value >= ranking.Losses[i].Value)
	}
}

func TestExhaustedCategorySkipped(t *testing.T) {
	is := is.New(t)
	rules := league.DefaultRules()
	ents := defaultPool()
	var noKickers []entity.Entity
	for _, e := range ents {
		if e.Category != entity.SK {
			noKickers = append(noKickers, e)
		}
	}
	p := pool.New(rules, noKickers)
	rk := New(forecast.NewForecaster(rules.PruneThreshold))
	ranking, err := rk.Rank(build(t, rules), p, []*roster.Roster{build(t, rules)})
	is.NoErr(err)
	for _, l := range ranking.Losses {
		is.True(l.Category != entity.SK)
	}
}
