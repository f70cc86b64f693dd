package strategy

import (
	"github.com/samber/lo"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/entity"
)

func pickBest(d *draft.Draft) (entity.Entity, error) {
	e, ok := d.Pool().Best()
	if !ok {
		return entity.Entity{}, draft.ErrPoolExhausted
	}
	return e, nil
}

// pickBestVacant takes the best entity at any category the roster still
// needs, or the best overall once it needs nothing.
func pickBestVacant(d *draft.Draft) (entity.Entity, error) {
	var candidates []entity.Entity
	for _, c := range d.Current().NonFullCategories() {
		candidates = append(candidates, d.Pool().Available(c)...)
	}
	if len(candidates) == 0 {
		return pickBest(d)
	}
	return lo.MaxBy(candidates, func(a, b entity.Entity) bool { return a.Score > b.Score }), nil
}
