package testhelpers

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/snakedraft/entity"
)

func TestSyntheticTalent(t *testing.T) {
	is := is.New(t)
	ents := SyntheticTalent(3)
	is.Equal(len(ents), 18)
	is.Equal(ents[0], entity.Entity{Name: "QB Player1", Category: entity.QB, Score: 24})
	is.Equal(ents[2].Name, "QB Player3")
	is.True(ents[1].Score < ents[0].Score)
}

func TestSingleCategoryRules(t *testing.T) {
	is := is.New(t)
	r := SingleCategoryRules(2)
	is.Equal(r.TotalSlots(), 2)
	is.Equal(r.BaseCategories(), []entity.Category{"X"})
}
