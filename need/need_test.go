package need

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/roster"
	"github.com/domino14/snakedraft/stats"
)

func build(t *testing.T, rules *league.Rules, cats ...entity.Category) *roster.Roster {
	r := roster.New("test", "predictive", rules)
	for i, c := range cats {
		if err := r.Add(entity.Entity{Name: string(c), Category: c, Score: float64(20 - i)}); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func TestEmptyRoster(t *testing.T) {
	is := is.New(t)
	d := Compute(build(t, league.DefaultRules()))
	// needs: QB 1.25, RB 3, WR 3, TE .75, AR .001, SK .001
	total := 1.25 + 3 + 3 + 0.75 + 0.002
	is.True(stats.FuzzyEqual(d[entity.QB], 1.25/total))
	is.True(stats.FuzzyEqual(d[entity.RB], 3/total))
	is.True(stats.FuzzyEqual(d[entity.WR], 3/total))
	is.True(stats.FuzzyEqual(d[entity.TE], 0.75/total))
	is.True(stats.FuzzyEqual(d[entity.SK], 0.001/total))
	is.True(stats.FuzzyEqual(d.Total(), 1))
	_, hasFlex := d[entity.FLEX]
	is.True(!hasFlex)
}

func TestFlexBonus(t *testing.T) {
	is := is.New(t)
	d := Compute(build(t, league.DefaultRules(), entity.WR, entity.WR, entity.QB))
	// WR is full, but the flex slot is open: WR gets 1.5 * .8.
	total := 1.2 + 3 + 0.75 + 0.002
	is.True(stats.FuzzyEqual(d[entity.WR], 1.2/total))
	is.Equal(d[entity.QB], 0.0)

	d = Compute(build(t, league.DefaultRules(), entity.WR, entity.WR, entity.WR, entity.QB))
	is.Equal(d[entity.WR], 0.0)
}

func TestIdempotent(t *testing.T) {
	is := is.New(t)
	r := build(t, league.DefaultRules(), entity.RB, entity.TE)
	is.Equal(Compute(r), Compute(r))
}

func TestBackups(t *testing.T) {
	is := is.New(t)
	rules := league.DefaultRules()
	r := build(t, rules, entity.QB, entity.RB, entity.RB, entity.WR, entity.WR,
		entity.TE, entity.WR)
	is.True(r.DraftingBackups())
	d := Compute(r)
	is.True(stats.FuzzyEqual(d.Total(), 1))
	is.True(stats.FuzzyEqual(d[entity.WR], (2.8/7)/1.002))

	rules.BackupCaps = map[entity.Category]int{
		entity.QB: 3, entity.WR: 7, entity.RB: 6, entity.TE: 3, entity.AR: 2, entity.SK: 2}
	d = Compute(r)
	// remaining: QB 2, WR 4, RB 4, TE 2, AR 2, SK 2
	is.True(stats.FuzzyEqual(d[entity.WR], 4.0/16))
	is.True(stats.FuzzyEqual(d[entity.SK], 2.0/16))
}

func TestSaturated(t *testing.T) {
	is := is.New(t)
	rules, err := league.Parse([]byte("slots:\n  - {category: X, capacity: 1}\nimportance: {X: 1}\n"))
	is.NoErr(err)
	d := Compute(build(t, rules))
	is.Equal(d["X"], 1.0)
	// Full, and no backup demand configured: the roster wants nothing.
	d = Compute(build(t, rules, "X"))
	is.Equal(d["X"], 0.0)
	is.Equal(d.Total(), 0.0)
}
