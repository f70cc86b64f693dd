package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/snakedraft/automatic"
	"github.com/domino14/snakedraft/config"
	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/forecast"
	"github.com/domino14/snakedraft/pool"
	"github.com/domino14/snakedraft/report"
	"github.com/domino14/snakedraft/roster"
	"github.com/domino14/snakedraft/selection"
	"github.com/domino14/snakedraft/strategy"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

// StringList splits a comma-separated option.
func (c CmdOptions) StringList(key string) []string {
	v := c.String(key)
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func msg(message string) *Response {
	return &Response{message: message}
}

// extractFields splits a line into the command, its positional arguments
// and its -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") && len(fields[idx]) > 1 {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[idx][1:]
			options[key] = append(options[key], fields[idx+1])
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: fields[0], args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		if sig != nil {
			sig <- syscall.SIGINT
		}
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newDraft(cmd)
	case "pick":
		return sc.pick(cmd)
	case "next":
		return sc.next(cmd)
	case "run":
		return sc.run(cmd)
	case "suggest":
		return sc.suggest(cmd)
	case "forecast":
		return sc.forecast(cmd)
	case "roster":
		return sc.roster(cmd)
	case "standings":
		return sc.standings(cmd)
	case "results":
		return sc.results(cmd)
	case "save":
		return sc.save(cmd)
	case "drafts":
		return sc.listDrafts(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "analyze":
		return sc.analyze(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, fmt.Errorf("unrecognized command %q; try `help`", cmd.cmd)
	}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}

func (sc *ShellController) newDraft(cmd *shellcmd) (*Response, error) {
	if err := sc.loadData(); err != nil {
		return nil, err
	}
	if err := sc.openStore(); err != nil {
		return nil, err
	}
	n, err := cmd.options.IntDefault("drafters", sc.config.GetInt(config.ConfigNumDrafters))
	if err != nil {
		return nil, err
	}
	position, err := cmd.options.IntDefault("position", sc.config.GetInt(config.ConfigDraftPosition))
	if err != nil {
		return nil, err
	}
	strats := cmd.options.StringList("strategies")
	if strats == nil {
		strats = sc.config.GetStringSlice(config.ConfigStrategies)
	}
	names := cmd.options.StringList("names")
	switch {
	case n < 1:
		return nil, draft.ErrNoSeats
	case len(strats) > 0 && len(strats) != n:
		return nil, fmt.Errorf("%d strategies for %d drafters", len(strats), n)
	case len(names) > 0 && len(names) != n:
		return nil, fmt.Errorf("%d names for %d drafters", len(names), n)
	case position < 0 || position > n:
		return nil, fmt.Errorf("position %d is not a seat", position)
	}

	deps := sc.deps
	deps.Prompter = sc
	seats := make([]draft.Seat, n)
	for idx := range seats {
		name := fmt.Sprintf("drafter %d", idx+1)
		if len(names) > 0 {
			name = names[idx]
		}
		var strat string
		switch {
		case len(strats) > 0:
			strat = strats[idx]
		case idx == position-1:
			name, strat = "You", strategy.ManualPredictive
		default:
			strat = strategy.Manual
		}
		pol, err := strategy.Get(strat, deps)
		if err != nil {
			return nil, err
		}
		seats[idx] = draft.Seat{Roster: roster.New(name, strat, sc.rules), Policy: pol}
	}
	d, err := draft.New(sc.rules, pool.New(sc.rules, sc.talent), seats)
	if err != nil {
		return nil, err
	}
	sc.draft = d
	sc.you = position - 1
	if len(strats) > 0 {
		sc.you = -1
	}
	d.OnPick(func(p draft.Pick) {
		advisory := p.Seat == sc.you && !strategy.IsManual(p.Policy)
		report.Announce(sc.out, p, advisory)
	})

	var ss strings.Builder
	fmt.Fprintf(&ss, "new draft: %d drafters, %d rounds, %d entities in the pool\n",
		n, d.TotalRounds(), d.Pool().Len())
	for idx := range seats {
		ss.WriteString(sc.seatLabel(idx) + "\n")
	}
	return msg(ss.String()), nil
}

// pick records a pick made outside the program for whoever is on the clock.
func (sc *ShellController) pick(cmd *shellcmd) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	e, err := selection.Parse(sc.rules, sc.draft.Pool(), strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	if _, err := sc.draft.Apply(e); err != nil {
		return nil, err
	}
	return sc.afterPicks()
}

func (sc *ShellController) next(cmd *shellcmd) (*Response, error) {
	n := 1
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	return sc.play(n)
}

func (sc *ShellController) run(cmd *shellcmd) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	return sc.play(sc.draft.TotalRounds()*sc.draft.NumParticipants() - len(sc.draft.Picks()))
}

// play lets the policies on the clock pick up to n times.
func (sc *ShellController) play(n int) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	for i := 0; i < n && !sc.draft.Completed(); i++ {
		_, err := sc.draft.PlayNext()
		if errors.Is(err, selection.ErrAbort) {
			return msg("draft paused; `next` or `run` picks up where it left off"), nil
		}
		if err != nil {
			return nil, err
		}
	}
	return sc.afterPicks()
}

func (sc *ShellController) afterPicks() (*Response, error) {
	d := sc.draft
	if !d.Completed() {
		return msg(fmt.Sprintf("on the clock: %s, round %d", sc.seatLabel(d.CurrentIndex()), d.Round()+1)), nil
	}
	var buf bytes.Buffer
	report.Results(&buf, d.Standings())
	if sc.store != nil {
		id, err := sc.store.Save(context.Background(), d)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "saved as %s\n", id)
	}
	return msg(buf.String()), nil
}

func (sc *ShellController) suggest(cmd *shellcmd) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	if sc.draft.Completed() {
		return nil, draft.ErrDraftComplete
	}
	e, ranking, err := strategy.Suggest(sc.draft)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s should pick %s %s\n%s",
		sc.draft.Current().Name(), e.Category, e.Name, report.Ranking(ranking))), nil
}

func (sc *ShellController) forecast(cmd *shellcmd) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	if sc.draft.Completed() {
		return nil, draft.ErrDraftComplete
	}
	f := forecast.NewForecaster(sc.rules.PruneThreshold)
	dist := f.Run(forecast.NewDistribution(sc.rules.BaseCategories()), sc.draft.Intervening())
	return msg(fmt.Sprintf("picks before %s goes again: %d\n%s",
		sc.draft.Current().Name(), sc.draft.Lookahead(), report.Forecast(dist))), nil
}

func (sc *ShellController) roster(cmd *shellcmd) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	idx := sc.draft.CurrentIndex()
	if len(cmd.args) > 0 {
		seat, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		if seat < 1 || seat > sc.draft.NumParticipants() {
			return nil, fmt.Errorf("seat %d does not exist", seat)
		}
		idx = seat - 1
	}
	return msg(sc.seatLabel(idx) + "\n" + report.Roster(sc.draft.Seat(idx).Roster)), nil
}

func (sc *ShellController) standings(cmd *shellcmd) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	return msg(report.Standings(sc.draft.Standings())), nil
}

func (sc *ShellController) results(cmd *shellcmd) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	var buf bytes.Buffer
	report.Results(&buf, sc.draft.Standings())
	return msg(buf.String()), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.draft == nil {
		return nil, errNoDraft
	}
	if sc.store == nil {
		return nil, errors.New("no database; set db-path to save drafts")
	}
	id, err := sc.store.Save(context.Background(), sc.draft)
	if err != nil {
		return nil, err
	}
	return msg("saved as " + id), nil
}

func (sc *ShellController) listDrafts(cmd *shellcmd) (*Response, error) {
	if err := sc.openStore(); err != nil {
		return nil, err
	}
	if sc.store == nil {
		return nil, errors.New("no database; set db-path to save drafts")
	}
	drafts, err := sc.store.Drafts(context.Background())
	if err != nil {
		return nil, err
	}
	var ss strings.Builder
	for _, d := range drafts {
		fmt.Fprintf(&ss, "%s  %s  %d drafters  %d rounds  pool %s\n",
			d.ID, d.CreatedAt.Format("2006-01-02 15:04"), d.Participants, d.Rounds, d.PoolFingerprint)
	}
	return msg(ss.String()), nil
}

// autoplay pits a tested strategy, at every seat in turn, against copies of
// another one.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if err := sc.loadData(); err != nil {
		return nil, err
	}
	tested := sc.config.GetString(config.ConfigAutoplayTested)
	others := sc.config.GetString(config.ConfigAutoplayOthers)
	if len(cmd.args) > 0 {
		tested = cmd.args[0]
	}
	if len(cmd.args) > 1 {
		others = cmd.args[1]
	}
	n, err := cmd.options.IntDefault("drafters", sc.config.GetInt(config.ConfigNumDrafters))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	runner, err := automatic.NewDraftRunner(sc.rules, sc.talent, tested, others, n, sc.deps)
	if err != nil {
		return nil, err
	}
	var logfile *os.File
	if path := cmd.options.String("log"); path != "" {
		if logfile, err = os.Create(path); err != nil {
			return nil, err
		}
		defer logfile.Close()
	}
	var res *automatic.Result
	if logfile != nil {
		res, err = runner.AverageResult(context.Background(), threads, logfile)
	} else {
		res, err = runner.AverageResult(context.Background(), threads, nil)
	}
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s vs %s, %d drafters: %s\n", tested, others, n, res)
	if err := res.Histogram(&buf); err != nil {
		return nil, err
	}
	return msg(buf.String()), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: analyze <logfile>")
	}
	stats, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg(stats), nil
}
