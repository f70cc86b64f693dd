// Package pool holds the undrafted entities, best first.
package pool

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
)

var ErrNotFound = errors.New("entity not in pool")

// Pool is the shared talent pool. It only ever shrinks, and it stays
// sorted by descending score.
type Pool struct {
	rules    *league.Rules
	entities []entity.Entity
}

// New sorts a copy of ents and returns a pool over it. The sort is stable
// so entities with equal scores keep the talent source's order.
func New(rules *league.Rules, ents []entity.Entity) *Pool {
	cp := make([]entity.Entity, len(ents))
	copy(cp, ents)
	sort.Stable(entity.ByScore(cp))
	return &Pool{rules: rules, entities: cp}
}

func (p *Pool) Len() int {
	return len(p.entities)
}

// Entities returns a copy of the pool, best first.
func (p *Pool) Entities() []entity.Entity {
	cp := make([]entity.Entity, len(p.entities))
	copy(cp, p.entities)
	return cp
}

// Best returns the best available entity regardless of category.
func (p *Pool) Best() (entity.Entity, bool) {
	if len(p.entities) == 0 {
		return entity.Entity{}, false
	}
	return p.entities[0], true
}

func (p *Pool) matches(e entity.Entity, c entity.Category) bool {
	if e.Category == c {
		return true
	}
	return c == p.rules.Flex && p.rules.IsFlexEligible(e.Category)
}

// Top returns up to limit entities of category c in pool order. For the
// flex category it returns entities of every flex-eligible category. An
// empty result means the category is exhausted.
func (p *Pool) Top(c entity.Category, limit int) []entity.Entity {
	var ents []entity.Entity
	for _, e := range p.entities {
		if len(ents) >= limit {
			break
		}
		if p.matches(e, c) {
			ents = append(ents, e)
		}
	}
	return ents
}

// Available is Top with the league's configured limit.
func (p *Pool) Available(c entity.Category) []entity.Entity {
	return p.Top(c, p.rules.TopLimit)
}

// BestAt returns the best available entity at c.
func (p *Pool) BestAt(c entity.Category) (entity.Entity, bool) {
	ents := p.Top(c, 1)
	if len(ents) == 0 {
		return entity.Entity{}, false
	}
	return ents[0], true
}

// Remove takes e out of the pool. An entity can only leave once.
func (p *Pool) Remove(e entity.Entity) error {
	for idx := range p.entities {
		if p.entities[idx] == e {
			p.entities = append(p.entities[:idx], p.entities[idx+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrNotFound, e)
}

// Find returns every available entity satisfying pred, in pool order.
func (p *Pool) Find(pred func(entity.Entity) bool) []entity.Entity {
	var ents []entity.Entity
	for _, e := range p.entities {
		if pred(e) {
			ents = append(ents, e)
		}
	}
	return ents
}

// Fingerprint hashes the pool contents. Two pools with the same entities
// in the same order have the same fingerprint.
func (p *Pool) Fingerprint() uint64 {
	h := xxhash.New()
	for _, e := range p.entities {
		h.Write([]byte(e.Name))
		h.Write([]byte{0})
		h.Write([]byte(e.Category))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(e.Score, 'g', -1, 64)))
		h.Write([]byte{'\n'})
	}
	return h.Sum64()
}
