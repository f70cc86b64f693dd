// Package strategy holds the pick policies and the registry that finds
// them by name.
package strategy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/selection"
	"github.com/domino14/snakedraft/stats"
)

const (
	Greedy           = "greedy"
	Manual           = "manual"
	GreedyVacant     = "greedy_vacant"
	Volatile         = "volatile"
	Predictive       = "predictive"
	ManualPredictive = "manual_predictive"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Deps are collaborators some policies need. Zero values are fine for the
// automatic policies.
type Deps struct {
	// Prompter asks a human for picks. Required by the manual policies.
	Prompter selection.Prompter
	// Quantiler memoizes binomial quantiles. A shared default is used
	// when nil.
	Quantiler *stats.Quantiler
}

var (
	defaultQuantiler     *stats.Quantiler
	defaultQuantilerOnce sync.Once
)

func (deps Deps) quantiler() *stats.Quantiler {
	if deps.Quantiler != nil {
		return deps.Quantiler
	}
	defaultQuantilerOnce.Do(func() {
		defaultQuantiler = stats.NewQuantiler(stats.DefaultQuantileCacheSize)
	})
	return defaultQuantiler
}

type pickFunc func(d *draft.Draft) (entity.Entity, error)

type policy struct {
	name string
	pick pickFunc
}

func (p *policy) Name() string { return p.name }

func (p *policy) Pick(d *draft.Draft) (entity.Entity, error) {
	return p.pick(d)
}

type constructor func(deps Deps) pickFunc

// registry is fixed at compile time and never written.
var registry = map[string]constructor{
	Greedy:           func(Deps) pickFunc { return pickBest },
	Manual:           func(deps Deps) pickFunc { return manual(deps) },
	GreedyVacant:     func(Deps) pickFunc { return pickBestVacant },
	Volatile:         func(deps Deps) pickFunc { return volatile(deps.quantiler()) },
	Predictive:       func(Deps) pickFunc { return predictive },
	ManualPredictive: func(deps Deps) pickFunc { return manualPredictive(deps) },
}

// Names lists the registered strategies in a stable order.
func Names() []string {
	return []string{Greedy, Manual, GreedyVacant, Volatile, Predictive, ManualPredictive}
}

// Get returns the named policy.
func Get(name string, deps Deps) (draft.Policy, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not the name of a strategy", ErrUnknownStrategy, name)
	}
	return &policy{name: name, pick: ctor(deps)}, nil
}

// IsManual reports whether the named strategy asks a human.
func IsManual(name string) bool {
	return name == Manual || name == ManualPredictive
}
