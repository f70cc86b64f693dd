package automatic

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"fmt"
	"io"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/stats"
)

var (
	DraftCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	DraftCounter = expvar.NewInt("draftCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// LogHeader is the first row of the pick log.
var LogHeader = []string{"testedSeat", "pick", "round", "seat", "roster", "policy", "entity", "category", "score", "finish"}

// Result holds the tested strategy's finish from every seat.
type Result struct {
	// Ranks[i] is the 1-based finish when the tested strategy sat at seat i.
	Ranks []int
	Stat  *stats.Statistic
}

// Mean is the average finishing rank, 1 being best.
func (r *Result) Mean() float64 {
	return r.Stat.Mean()
}

// Histogram draws the distribution of finishing ranks.
func (r *Result) Histogram(w io.Writer) error {
	vals := make([]float64, len(r.Ranks))
	for i, rank := range r.Ranks {
		vals[i] = float64(rank)
	}
	bins := min(len(vals), 10)
	if bins == 0 {
		return nil
	}
	return histogram.Fprint(w, histogram.Hist(bins, vals), histogram.Linear(40))
}

func (r *Result) String() string {
	return fmt.Sprintf("%v average %.3f±%.3f", r.Ranks, r.Mean(), stats.Z99*r.Stat.StandardError())
}

// AverageResult runs one draft per seat, each with the tested strategy at
// that seat and others everywhere else, and summarizes where it finished.
// Up to threads drafts run at once. If logw is not nil every pick of every
// draft is written to it as CSV, in seat order.
func (r *DraftRunner) AverageResult(ctx context.Context, threads int, logw io.Writer) (*Result, error) {
	if IsPlaying.Value() > 0 {
		return nil, errors.New("drafts are already being played, please wait till complete")
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	ranks := make([]int, r.participants)
	drafts := make([]*draft.Draft, r.participants)
	seatStats := make([]*stats.Statistic, r.participants)

	g, ctx := errgroup.WithContext(ctx)
	if threads > 0 {
		g.SetLimit(threads)
	}
	log.Debug().Int("drafts", r.participants).Int("threads", threads).
		Str("tested", r.tested).Str("others", r.others).Msg("starting-drafts")
	for seat := 0; seat < r.participants; seat++ {
		seat := seat
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rank, d, err := r.Play(seat)
			if err != nil {
				return fmt.Errorf("tested seat %d: %w", seat+1, err)
			}
			ranks[seat] = rank
			drafts[seat] = d
			seatStats[seat] = &stats.Statistic{}
			seatStats[seat].Push(float64(rank))
			DraftCounter.Add(1)
			log.Debug().Int("seat", seat+1).Int("finish", rank).Msg("draft-finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Ranks: ranks, Stat: &stats.Statistic{}}
	for _, st := range seatStats {
		res.Stat.Merge(st)
	}
	if logw != nil {
		if err := writeLog(logw, ranks, drafts); err != nil {
			return nil, err
		}
	}
	log.Info().Str("tested", r.tested).Str("others", r.others).
		Ints("ranks", ranks).Float64("mean", res.Mean()).Msg("average-result")
	if q := r.deps.Quantiler; q != nil {
		log.Debug().Int("computed", q.Computations()).Int("cached", q.Hits()).Msg("quantile-cache")
	}
	return res, nil
}

func writeLog(w io.Writer, ranks []int, drafts []*draft.Draft) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LogHeader); err != nil {
		return err
	}
	for seat, d := range drafts {
		for _, p := range d.Picks() {
			err := cw.Write([]string{
				strconv.Itoa(seat + 1),
				strconv.Itoa(p.Number),
				strconv.Itoa(p.Round),
				strconv.Itoa(p.Seat + 1),
				p.Roster,
				p.Policy,
				p.Entity.Name,
				string(p.Entity.Category),
				strconv.FormatFloat(p.Entity.Score, 'f', -1, 64),
				strconv.Itoa(d.Rank(p.Seat)),
			})
			if err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
