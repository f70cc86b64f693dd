package pool

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
)

func testPool() *Pool {
	return New(league.DefaultRules(), []entity.Entity{
		{Name: "Wide One", Category: entity.WR, Score: 15},
		{Name: "Quarter Back", Category: entity.QB, Score: 20},
		{Name: "Running One", Category: entity.RB, Score: 17},
		{Name: "Tight End", Category: entity.TE, Score: 9},
		{Name: "Wide Two", Category: entity.WR, Score: 12},
		{Name: "Kicker", Category: entity.SK, Score: 8},
	})
}

func TestNewSorts(t *testing.T) {
	is := is.New(t)
	p := testPool()
	ents := p.Entities()
	is.Equal(len(ents), 6)
	for i := 1; i < len(ents); i++ {
		is.True(ents[i-1].Score >= ents[i].Score)
	}
	best, ok := p.Best()
	is.True(ok)
	is.Equal(best.Name, "Quarter Back")
}

func TestTop(t *testing.T) {
	is := is.New(t)
	p := testPool()

	wrs := p.Top(entity.WR, 30)
	is.Equal(len(wrs), 2)
	is.Equal(wrs[0].Name, "Wide One")

	is.Equal(len(p.Top(entity.WR, 1)), 1)

	flex := p.Top(entity.FLEX, 30)
	is.Equal(len(flex), 4)
	is.Equal(flex[0].Name, "Running One")
	is.Equal(flex[3].Name, "Tight End")

	is.Equal(len(p.Top(entity.AR, 30)), 0)
	_, ok := p.BestAt(entity.AR)
	is.True(!ok)
}

func TestRemove(t *testing.T) {
	is := is.New(t)
	p := testPool()
	e := entity.Entity{Name: "Wide One", Category: entity.WR, Score: 15}
	is.NoErr(p.Remove(e))
	is.Equal(p.Len(), 5)
	err := p.Remove(e)
	is.True(errors.Is(err, ErrNotFound))
	is.Equal(p.Top(entity.WR, 30)[0].Name, "Wide Two")
}

func TestFingerprint(t *testing.T) {
	is := is.New(t)
	is.Equal(testPool().Fingerprint(), testPool().Fingerprint())
	p := testPool()
	is.NoErr(p.Remove(entity.Entity{Name: "Kicker", Category: entity.SK, Score: 8}))
	is.True(p.Fingerprint() != testPool().Fingerprint())
}
