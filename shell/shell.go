// Package shell is the interactive draft room: it runs a draft one pick at
// a time, asks the human for picks, and shows suggestions and forecasts.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/domino14/snakedraft/config"
	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/selection"
	"github.com/domino14/snakedraft/store"
	"github.com/domino14/snakedraft/strategy"
	"github.com/domino14/snakedraft/talent"
)

const (
	prompt = "\033[32msnakedraft>\033[0m "
	// abortWord, typed at a pick prompt, pauses the draft.
	abortWord = "abort"
)

var (
	errNoDraft = errors.New("no draft in progress; start one with `new`")
	errQuit    = errors.New("sending quit signal")
)

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string
	out      io.Writer
	// readLine reads one line after showing the given prompt.
	readLine func(prompt string) (string, error)

	rules  *league.Rules
	talent []entity.Entity
	deps   strategy.Deps
	store  *store.Store

	draft *draft.Draft
	// you is the seat of the human at the keyboard, or -1.
	you int
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	sc := &ShellController{config: cfg, execPath: execPath, you: -1, deps: cfg.Deps()}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/snakedraft_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	sc.readLine = func(p string) (string, error) {
		l.SetPrompt(p)
		defer l.SetPrompt(prompt)
		return l.Readline()
	}
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Prompt asks the human for a line. Interrupting, closing the input or
// typing "abort" gives up on the pick.
func (sc *ShellController) Prompt(msg string) (string, error) {
	line, err := sc.readLine(msg)
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", selection.ErrAbort
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == abortWord {
		return "", selection.ErrAbort
	}
	return line, nil
}

func (sc *ShellController) Notify(msg string) {
	sc.showMessage(msg)
}

// loadData reads the league rules and talent pool the config names, once.
func (sc *ShellController) loadData() error {
	if sc.rules == nil {
		if lf := sc.config.GetString(config.ConfigLeagueFile); lf != "" {
			rules, err := league.Load(sc.config.GetString(config.ConfigDataPath), lf)
			if err != nil {
				return err
			}
			sc.rules = rules
		} else {
			sc.rules = league.DefaultRules()
		}
	}
	if sc.talent == nil {
		ents, err := talent.Load(sc.config.GetString(config.ConfigDataPath),
			sc.config.GetString(config.ConfigTalentFile), sc.rules)
		if err != nil {
			return err
		}
		sc.talent = ents
	}
	return nil
}

func (sc *ShellController) openStore() error {
	path := sc.config.GetString(config.ConfigDBPath)
	if path == "" || sc.store != nil {
		return nil
	}
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	sc.store = s
	return nil
}

// Execute runs a single command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if errors.Is(err, errQuit) {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	if sc.store != nil {
		if err := sc.store.Close(); err != nil {
			log.Err(err).Msg("closing-store")
		}
	}
}

func (sc *ShellController) seatLabel(idx int) string {
	s := sc.draft.Seat(idx)
	return fmt.Sprintf("%d. %s (%s)", idx+1, s.Roster.Name(), s.Policy.Name())
}
