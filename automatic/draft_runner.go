// Package automatic runs drafts with no human in them, to compare pick
// strategies against each other.
package automatic

import (
	"fmt"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/pool"
	"github.com/domino14/snakedraft/roster"
	"github.com/domino14/snakedraft/strategy"
)

// DraftRunner seats one tested strategy among copies of another.
type DraftRunner struct {
	rules        *league.Rules
	talent       []entity.Entity
	tested       string
	others       string
	participants int
	deps         strategy.Deps
}

func NewDraftRunner(rules *league.Rules, talent []entity.Entity, tested, others string,
	participants int, deps strategy.Deps) (*DraftRunner, error) {

	if participants < 1 {
		return nil, draft.ErrNoSeats
	}
	for _, name := range []string{tested, others} {
		if strategy.IsManual(name) {
			return nil, fmt.Errorf("%s needs a human; automatic drafts cannot use it", name)
		}
		if _, err := strategy.Get(name, deps); err != nil {
			return nil, err
		}
	}
	return &DraftRunner{
		rules:        rules,
		talent:       talent,
		tested:       tested,
		others:       others,
		participants: participants,
		deps:         deps,
	}, nil
}

// Init builds a fresh draft with the tested strategy at testedSeat. Each
// draft gets its own pool, so drafts can run concurrently.
func (r *DraftRunner) Init(testedSeat int) (*draft.Draft, error) {
	seats := make([]draft.Seat, r.participants)
	for idx := range seats {
		name := r.others
		if idx == testedSeat {
			name = r.tested
		}
		pol, err := strategy.Get(name, r.deps)
		if err != nil {
			return nil, err
		}
		seats[idx] = draft.Seat{
			Roster: roster.New(fmt.Sprintf("guy %d", idx+1), name, r.rules),
			Policy: pol,
		}
	}
	return draft.New(r.rules, pool.New(r.rules, r.talent), seats)
}

// Play runs a whole draft and returns the tested seat's 1-based finish.
func (r *DraftRunner) Play(testedSeat int) (int, *draft.Draft, error) {
	d, err := r.Init(testedSeat)
	if err != nil {
		return 0, nil, err
	}
	if err := d.Run(); err != nil {
		return 0, d, err
	}
	return d.Rank(testedSeat), d, nil
}
