// Package roster tracks what each participant has drafted and which of
// their slots are still open.
package roster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
)

var ErrRosterFull = errors.New("roster is full")

// Roster belongs to one participant. It only grows: one entity per turn.
type Roster struct {
	name     string
	policy   string
	rules    *league.Rules
	entities []entity.Entity
}

func New(name, policy string, rules *league.Rules) *Roster {
	return &Roster{name: name, policy: policy, rules: rules}
}

func (r *Roster) Name() string {
	return r.name
}

// Policy is the name of the strategy picking for this roster.
func (r *Roster) Policy() string {
	return r.policy
}

func (r *Roster) Rules() *league.Rules {
	return r.rules
}

// Entities returns the roster in acquisition order.
func (r *Roster) Entities() []entity.Entity {
	cp := make([]entity.Entity, len(r.entities))
	copy(cp, r.entities)
	return cp
}

func (r *Roster) Len() int {
	return len(r.entities)
}

// Add appends e. Entities beyond a category's capacity overflow into the
// flex slot and then the bench; once every slot is taken Add fails.
func (r *Roster) Add(e entity.Entity) error {
	if len(r.entities) >= r.rules.TotalSlots() {
		return fmt.Errorf("%w: %s cannot take %v", ErrRosterFull, r.name, e)
	}
	r.entities = append(r.entities, e)
	return nil
}

// WithPlaceholder returns a copy of the roster with a placeholder entity of
// category c appended. The copy shares nothing mutable with r and skips the
// capacity check, since it only models a hypothetical next pick.
func (r *Roster) WithPlaceholder(c entity.Category) *Roster {
	ents := make([]entity.Entity, len(r.entities), len(r.entities)+1)
	copy(ents, r.entities)
	return &Roster{
		name:     r.name,
		policy:   r.policy,
		rules:    r.rules,
		entities: append(ents, entity.Placeholder(c)),
	}
}

// ofCategory returns the roster's entities of exactly category c, best
// first.
func (r *Roster) ofCategory(c entity.Category) []entity.Entity {
	ents := lo.Filter(r.entities, func(e entity.Entity, _ int) bool { return e.Category == c })
	sort.Stable(entity.ByScore(ents))
	return ents
}

// EntitiesAt returns the entities playing at c, best first. For a base
// category that is every entity of that category. For the flex category
// it is every flex-eligible entity that is not already one of its own
// category's starters. The bench holds whatever no starting slot uses.
func (r *Roster) EntitiesAt(c entity.Category) []entity.Entity {
	switch c {
	case r.rules.Flex:
		var ents []entity.Entity
		for _, fc := range r.rules.FlexCategories() {
			own := r.ofCategory(fc)
			if n := r.rules.Capacity(fc); len(own) > n {
				ents = append(ents, own[n:]...)
			}
		}
		sort.Stable(entity.ByScore(ents))
		return ents
	case r.rules.Bench:
		return r.bench()
	}
	return r.ofCategory(c)
}

func (r *Roster) bench() []entity.Entity {
	var ents []entity.Entity
	for _, c := range r.rules.BaseCategories() {
		own := r.ofCategory(c)
		if n := r.rules.Capacity(c); len(own) > n {
			ents = append(ents, own[n:]...)
		}
	}
	if r.rules.Flex != "" {
		// Flex-eligible overflow sits on the bench only once the flex
		// slot itself is taken.
		ents = lo.Filter(ents, func(e entity.Entity, _ int) bool {
			return !r.rules.IsFlexEligible(e.Category)
		})
		flex := r.EntitiesAt(r.rules.Flex)
		if n := r.rules.Capacity(r.rules.Flex); len(flex) > n {
			ents = append(ents, flex[n:]...)
		}
	}
	sort.Stable(entity.ByScore(ents))
	return ents
}

// Count is the number of entities the roster holds at c, which may exceed
// the capacity of c.
func (r *Roster) Count(c entity.Category) int {
	return len(r.EntitiesAt(c))
}

// FilledCount is the number of slots of c that are in use. It never
// exceeds the capacity of c.
func (r *Roster) FilledCount(c entity.Category) int {
	return min(r.Count(c), r.rules.Capacity(c))
}

// IsFull reports whether every slot of c is in use.
func (r *Roster) IsFull(c entity.Category) bool {
	return r.Count(c) >= r.rules.Capacity(c)
}

// FlexOpen reports whether the flex slot is still empty.
func (r *Roster) FlexOpen() bool {
	return r.rules.Flex != "" && r.Count(r.rules.Flex) == 0
}

// NonFullCategories returns the base categories the roster still wants, in
// league order. An open flex slot contributes every flex-eligible
// category; the bench never counts.
func (r *Roster) NonFullCategories() []entity.Category {
	want := map[entity.Category]bool{}
	for _, s := range r.rules.Slots {
		if s.Category == r.rules.Bench || r.Count(s.Category) >= s.Capacity {
			continue
		}
		if s.Category == r.rules.Flex {
			for _, fc := range r.rules.FlexCategories() {
				want[fc] = true
			}
			continue
		}
		want[s.Category] = true
	}
	return lo.Filter(r.rules.BaseCategories(), func(c entity.Category, _ int) bool { return want[c] })
}

// DraftingBackups reports whether every starting slot is in use, so the
// roster's remaining picks are depth.
func (r *Roster) DraftingBackups() bool {
	for _, c := range r.rules.StarterCategories() {
		if !r.IsFull(c) {
			return false
		}
	}
	return true
}

// ExpectedScore sums the scores of the roster's starters, leaving out the
// low-signal categories and the bench.
func (r *Roster) ExpectedScore() float64 {
	score := 0.0
	for _, s := range r.rules.Slots {
		if s.Category == r.rules.Bench || r.rules.IsLowSignal(s.Category) {
			continue
		}
		starters := r.EntitiesAt(s.Category)
		if len(starters) > s.Capacity {
			starters = starters[:s.Capacity]
		}
		score += lo.SumBy(starters, func(e entity.Entity) float64 { return e.Score })
	}
	return score
}

func (r *Roster) String() string {
	return fmt.Sprintf("%s (%s, %d drafted)", r.name, r.policy, len(r.entities))
}
