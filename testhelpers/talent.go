// Package testhelpers builds leagues and talent pools for tests.
package testhelpers

import (
	"fmt"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
)

// shape is where a category's scores start and how fast they fall off.
type shape struct {
	c          entity.Category
	top, decay float64
}

var footballShapes = []shape{
	{entity.QB, 24, 0.35},
	{entity.RB, 21, 0.45},
	{entity.WR, 19, 0.3},
	{entity.TE, 15, 0.4},
	{entity.AR, 9, 0.1},
	{entity.SK, 9, 0.05},
}

// SyntheticTalent returns perCategory entities of every default category,
// named "<category> Player<n>", with linearly decaying scores.
func SyntheticTalent(perCategory int) []entity.Entity {
	var ents []entity.Entity
	for _, s := range footballShapes {
		for i := 0; i < perCategory; i++ {
			ents = append(ents, entity.Entity{
				Name:     fmt.Sprintf("%s Player%d", s.c, i+1),
				Category: s.c,
				Score:    s.top - float64(i)*s.decay,
			})
		}
	}
	return ents
}

// SingleCategoryRules is a league with one category, X, of the given
// capacity and nothing else.
func SingleCategoryRules(capacity int) *league.Rules {
	r, err := league.Parse([]byte(fmt.Sprintf(
		"slots:\n  - {category: X, capacity: %d}\nimportance: {X: 1}\n", capacity)))
	if err != nil {
		panic(err)
	}
	return r
}
