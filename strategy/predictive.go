package strategy

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/forecast"
	"github.com/domino14/snakedraft/ranker"
	"github.com/domino14/snakedraft/selection"
)

// Suggest runs the scarcity forecast for the roster on the clock and
// returns the best available entity at the category with the largest
// expected loss, along with the full ranking.
func Suggest(d *draft.Draft) (entity.Entity, *ranker.Ranking, error) {
	rk := ranker.New(forecast.NewForecaster(d.Rules().PruneThreshold))
	ranking, err := rk.Rank(d.Current(), d.Pool(), d.Intervening())
	if err != nil {
		return entity.Entity{}, nil, err
	}
	cat, ok := ranking.Best()
	if !ok {
		e, err := pickBest(d)
		return e, ranking, err
	}
	e, ok := d.Pool().BestAt(cat)
	if !ok {
		// Ranked categories always have something available.
		return entity.Entity{}, ranking, fmt.Errorf("no entity available at ranked category %s", cat)
	}
	return e, ranking, nil
}

func predictive(d *draft.Draft) (entity.Entity, error) {
	e, _, err := Suggest(d)
	return e, err
}

func manual(deps Deps) pickFunc {
	return func(d *draft.Draft) (entity.Entity, error) {
		if deps.Prompter == nil {
			return entity.Entity{}, fmt.Errorf("%s strategy needs someone to ask", Manual)
		}
		msg := fmt.Sprintf("enter %s pick %d <category> <initials>: ",
			d.Current().Name(), d.Round()+1)
		return selection.Ask(deps.Prompter, d.Rules(), d.Pool(), msg)
	}
}

// manualPredictive shows the predictive suggestion and lets the human
// decide.
func manualPredictive(deps Deps) pickFunc {
	ask := manual(deps)
	return func(d *draft.Draft) (entity.Entity, error) {
		if deps.Prompter == nil {
			return entity.Entity{}, fmt.Errorf("%s strategy needs someone to ask", ManualPredictive)
		}
		e, _, err := Suggest(d)
		if err != nil {
			return entity.Entity{}, err
		}
		log.Info().Str("roster", d.Current().Name()).Str("suggestion", e.Name).Msg("suggested-pick")
		deps.Prompter.Notify(fmt.Sprintf("you should pick %s %s", e.Category, e.Name))
		return ask(d)
	}
}
