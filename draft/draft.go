// Package draft runs a snake draft: it owns every roster, the pool and the
// turn pointer, and applies one pick at a time.
package draft

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/pool"
	"github.com/domino14/snakedraft/roster"
)

var (
	ErrDraftComplete = errors.New("draft is complete")
	ErrPoolExhausted = errors.New("talent pool exhausted")
	ErrNoSeats       = errors.New("a draft needs at least one participant")
)

// Policy chooses an entity for the roster currently on the clock. Pick must
// not modify the draft.
type Policy interface {
	Name() string
	Pick(d *Draft) (entity.Entity, error)
}

// Seat is a participant: their roster and who picks for them.
type Seat struct {
	Roster *roster.Roster
	Policy Policy
}

// Pick records one completed selection.
type Pick struct {
	Number int
	Round  int
	Seat   int
	Roster string
	Policy string
	Entity entity.Entity
}

// Draft is the whole draft state. It is mutated once per pick, by one
// goroutine.
type Draft struct {
	rules *league.Rules
	pool  *pool.Pool
	seats []Seat

	currentIndex int
	roundNumber  int
	picks        []Pick

	onPick func(Pick)
}

func New(rules *league.Rules, p *pool.Pool, seats []Seat) (*Draft, error) {
	if len(seats) == 0 {
		return nil, ErrNoSeats
	}
	for idx, s := range seats {
		if s.Roster == nil || s.Policy == nil {
			return nil, fmt.Errorf("seat %d is missing a roster or policy", idx)
		}
	}
	return &Draft{rules: rules, pool: p, seats: seats}, nil
}

// OnPick registers a function called after every pick is applied.
func (d *Draft) OnPick(fn func(Pick)) {
	d.onPick = fn
}

func (d *Draft) Rules() *league.Rules { return d.rules }
func (d *Draft) Pool() *pool.Pool     { return d.pool }
func (d *Draft) NumParticipants() int { return len(d.seats) }
func (d *Draft) CurrentIndex() int    { return d.currentIndex }
func (d *Draft) Round() int           { return d.roundNumber }
func (d *Draft) Seat(idx int) Seat    { return d.seats[idx] }

// Current is the roster on the clock.
func (d *Draft) Current() *roster.Roster {
	return d.seats[d.currentIndex].Roster
}

// Rosters returns every roster in seat order.
func (d *Draft) Rosters() []*roster.Roster {
	rs := make([]*roster.Roster, len(d.seats))
	for idx, s := range d.seats {
		rs[idx] = s.Roster
	}
	return rs
}

// Picks returns the picks made so far, in order.
func (d *Draft) Picks() []Pick {
	return append([]Pick(nil), d.picks...)
}

// TotalRounds is the number of rounds, one per roster slot.
func (d *Draft) TotalRounds() int {
	return d.rules.TotalSlots()
}

func (d *Draft) Completed() bool {
	return d.roundNumber >= d.TotalRounds()
}

// SnakingForward reports whether the current round runs from seat 0 up.
func (d *Draft) SnakingForward() bool {
	return d.roundNumber%2 == 0
}

// PicksUntilNextTurn counts the picks made by others between the current
// participant's pick and their next one.
func (d *Draft) PicksUntilNextTurn() int {
	n := len(d.seats)
	if d.SnakingForward() {
		return (n - d.currentIndex - 1) * 2
	}
	return d.currentIndex * 2
}

// Lookahead is PicksUntilNextTurn, except that a participant at the turn of
// the snake looks ahead N-1 picks instead of zero.
func (d *Draft) Lookahead() int {
	if p := d.PicksUntilNextTurn(); p != 0 {
		return p
	}
	return len(d.seats) - 1
}

// Intervening returns the rosters that pick after the current one this
// round, in turn order. At the turn of the snake there are none, so every
// other roster stands in for one round of picks.
func (d *Draft) Intervening() []*roster.Roster {
	var rs []*roster.Roster
	if d.SnakingForward() {
		for idx := d.currentIndex + 1; idx < len(d.seats); idx++ {
			rs = append(rs, d.seats[idx].Roster)
		}
	} else {
		for idx := d.currentIndex - 1; idx >= 0; idx-- {
			rs = append(rs, d.seats[idx].Roster)
		}
	}
	if len(rs) > 0 {
		return rs
	}
	for idx, s := range d.seats {
		if idx != d.currentIndex {
			rs = append(rs, s.Roster)
		}
	}
	return rs
}

func (d *Draft) advance() {
	last := len(d.seats) - 1
	switch {
	case d.SnakingForward() && d.currentIndex == last:
		d.roundNumber++
	case d.SnakingForward():
		d.currentIndex++
	case d.currentIndex == 0:
		d.roundNumber++
	default:
		d.currentIndex--
	}
}

// Apply drafts e for the participant on the clock and advances the turn.
// Failing to remove e from the pool means the caller picked something that
// was never available; the draft must not continue.
func (d *Draft) Apply(e entity.Entity) (Pick, error) {
	if d.Completed() {
		return Pick{}, ErrDraftComplete
	}
	seat := d.seats[d.currentIndex]
	if err := d.pool.Remove(e); err != nil {
		return Pick{}, fmt.Errorf("%s picked an unavailable entity: %w", seat.Roster.Name(), err)
	}
	if err := seat.Roster.Add(e); err != nil {
		return Pick{}, err
	}
	p := Pick{
		Number: len(d.picks) + 1,
		Round:  d.roundNumber + 1,
		Seat:   d.currentIndex,
		Roster: seat.Roster.Name(),
		Policy: seat.Policy.Name(),
		Entity: e,
	}
	d.picks = append(d.picks, p)
	log.Debug().Int("pick", p.Number).Int("round", p.Round).Str("roster", p.Roster).
		Str("entity", e.Name).Str("category", string(e.Category)).Msg("picked")
	d.advance()
	if d.onPick != nil {
		d.onPick(p)
	}
	return p, nil
}

// PlayNext asks the current participant's policy for a pick and applies it.
func (d *Draft) PlayNext() (Pick, error) {
	if d.Completed() {
		return Pick{}, ErrDraftComplete
	}
	seat := d.seats[d.currentIndex]
	e, err := seat.Policy.Pick(d)
	if err != nil {
		return Pick{}, fmt.Errorf("%s (%s): %w", seat.Roster.Name(), seat.Policy.Name(), err)
	}
	return d.Apply(e)
}

// Run plays picks until the draft is complete.
func (d *Draft) Run() error {
	for !d.Completed() {
		if _, err := d.PlayNext(); err != nil {
			return err
		}
	}
	return nil
}

// Standings returns the rosters ranked by expected score, best first.
func (d *Draft) Standings() []*roster.Roster {
	rs := d.Rosters()
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].ExpectedScore() > rs[j].ExpectedScore()
	})
	return rs
}

// Rank returns the 1-based finishing position of the roster in seat idx.
func (d *Draft) Rank(idx int) int {
	target := d.seats[idx].Roster
	for pos, r := range d.Standings() {
		if r == target {
			return pos + 1
		}
	}
	return -1
}
