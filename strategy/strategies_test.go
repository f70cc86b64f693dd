package strategy

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/pool"
	"github.com/domino14/snakedraft/roster"
	"github.com/domino14/snakedraft/selection"
	"github.com/domino14/snakedraft/stats"
	"github.com/domino14/snakedraft/testhelpers"
)

func newDraft(t *testing.T, rules *league.Rules, ents []entity.Entity, names ...string) *draft.Draft {
	seats := make([]draft.Seat, len(names))
	for i, n := range names {
		pol, err := Get(n, Deps{})
		if err != nil {
			t.Fatal(err)
		}
		seats[i] = draft.Seat{Roster: roster.New(fmt.Sprintf("guy %d", i+1), n, rules), Policy: pol}
	}
	d, err := draft.New(rules, pool.New(rules, ents), seats)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestGetUnknown(t *testing.T) {
	is := is.New(t)
	_, err := Get("yolo", Deps{})
	is.True(errors.Is(err, ErrUnknownStrategy))
	is.True(strings.Contains(err.Error(), `"yolo"`))
}

func TestAllRegistered(t *testing.T) {
	is := is.New(t)
	for _, n := range Names() {
		p, err := Get(n, Deps{})
		is.NoErr(err)
		is.Equal(p.Name(), n)
	}
	is.Equal(len(Names()), len(registry))
	is.True(IsManual(ManualPredictive))
	is.True(!IsManual(Predictive))
}

func TestGreedyTwoParticipants(t *testing.T) {
	is := is.New(t)
	rules := testhelpers.SingleCategoryRules(1)
	d := newDraft(t, rules, []entity.Entity{
		{Name: "b", Category: "X", Score: 8},
		{Name: "a", Category: "X", Score: 10},
		{Name: "c", Category: "X", Score: 3},
	}, Greedy, Greedy)
	is.NoErr(d.Run())
	is.Equal(d.Seat(0).Roster.Entities()[0].Name, "a")
	is.Equal(d.Seat(1).Roster.Entities()[0].Name, "b")
}

func TestGreedyVacant(t *testing.T) {
	is := is.New(t)
	rules := league.DefaultRules()
	d := newDraft(t, rules, testhelpers.SyntheticTalent(10), GreedyVacant, Greedy)
	// Fill the only QB slot first.
	qb, _ := d.Pool().BestAt(entity.QB)
	_, err := d.Apply(qb)
	is.NoErr(err)
	_, err = d.PlayNext() // greedy takes the next QB
	is.NoErr(err)
	_, err = d.PlayNext() // greedy again at the turn
	is.NoErr(err)
	p, err := d.PlayNext()
	is.NoErr(err)
	is.Equal(p.Seat, 0)
	is.True(p.Entity.Category != entity.QB)
	is.Equal(p.Entity.Category, entity.RB)
}

func TestVolatileChasesScarcity(t *testing.T) {
	is := is.New(t)
	rules := league.DefaultRules()
	ents := []entity.Entity{
		{Name: "q1", Category: entity.QB, Score: 25},
		{Name: "q2", Category: entity.QB, Score: 24},
		{Name: "r1", Category: entity.RB, Score: 20},
		{Name: "r2", Category: entity.RB, Score: 10},
		{Name: "w1", Category: entity.WR, Score: 19},
		{Name: "w2", Category: entity.WR, Score: 18},
		{Name: "t1", Category: entity.TE, Score: 9},
		{Name: "d1", Category: entity.AR, Score: 5},
		{Name: "k1", Category: entity.SK, Score: 5},
	}
	q := stats.NewQuantiler(16)
	pol, err := Get(Volatile, Deps{Quantiler: q})
	is.NoErr(err)
	seats := []draft.Seat{
		{Roster: roster.New("me", Volatile, rules), Policy: pol},
		{Roster: roster.New("them", Volatile, rules), Policy: pol},
	}
	d, err := draft.New(rules, pool.New(rules, ents), seats)
	is.NoErr(err)
	// Two picks until the next turn: one RB and one WR typically go, and
	// nothing else. RB drops 10, WR drops 1.
	e, err := pol.Pick(d)
	is.NoErr(err)
	is.Equal(e.Name, "r1")
	computed := q.Computations()
	_, err = pol.Pick(d)
	is.NoErr(err)
	is.Equal(q.Computations(), computed)
}

func TestPredictiveFullDraft(t *testing.T) {
	is := is.New(t)
	rules := league.DefaultRules()
	d := newDraft(t, rules, testhelpers.SyntheticTalent(50), Predictive, Volatile, GreedyVacant, Predictive)
	is.NoErr(d.Run())
	for _, r := range d.Rosters() {
		is.Equal(r.Len(), rules.TotalSlots())
		for _, s := range rules.Slots {
			is.True(r.FilledCount(s.Category) <= s.Capacity)
		}
	}
	is.Equal(d.Pool().Len(), 6*50-4*rules.TotalSlots())
	// A predictive roster fills every starting slot. Low-signal slots may
	// stay empty: once the starters are in, the roster drafts backups and
	// their demand is too small to ever win.
	for _, seat := range []int{0, 3} {
		r := d.Seat(seat).Roster
		is.True(r.DraftingBackups())
		for _, c := range rules.StarterCategories() {
			is.Equal(r.FilledCount(c), rules.Capacity(c))
		}
		for _, c := range rules.LowSignal {
			is.True(r.FilledCount(c) <= rules.Capacity(c))
		}
	}
}

type scripted struct {
	lines    []string
	notified []string
}

func (s *scripted) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", selection.ErrAbort
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func (s *scripted) Notify(msg string) {
	s.notified = append(s.notified, msg)
}

func TestManualPredictive(t *testing.T) {
	is := is.New(t)
	rules := league.DefaultRules()
	pr := &scripted{lines: []string{"wr zzzz", "wr wrpl"}}
	pol, err := Get(ManualPredictive, Deps{Prompter: pr})
	is.NoErr(err)
	greedy, _ := Get(Greedy, Deps{})
	d, err := draft.New(rules, pool.New(rules, testhelpers.SyntheticTalent(40)), []draft.Seat{
		{Roster: roster.New("You", ManualPredictive, rules), Policy: pol},
		{Roster: roster.New("them", Greedy, rules), Policy: greedy},
	})
	is.NoErr(err)
	p, err := d.PlayNext()
	is.NoErr(err)
	// Every WR shares the initials WRPL; the best of them is taken.
	is.Equal(p.Entity.Name, "WR Player1")
	is.Equal(len(pr.notified), 2)
	is.True(strings.HasPrefix(pr.notified[0], "you should pick "))
	is.True(strings.HasSuffix(pr.notified[1], "Try again."))

	_, err = d.PlayNext()
	is.NoErr(err)
	_, err = d.PlayNext()
	is.NoErr(err)
	// Out of scripted input: the human aborted.
	_, err = d.PlayNext()
	is.True(errors.Is(err, selection.ErrAbort))
}

func TestManualNeedsPrompter(t *testing.T) {
	is := is.New(t)
	d := newDraft(t, league.DefaultRules(), testhelpers.SyntheticTalent(5), Manual)
	_, err := d.PlayNext()
	is.True(err != nil)
}
