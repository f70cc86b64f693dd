// Package selection turns what a human types into an available entity.
// A pick is entered as "<category> <initials>", where the initials are
// the first two letters of every word of the entity's name, e.g.
// "wr jaja" for WR Ja'Marr Jackson or "k jata" for kicker Jake Taylor.
package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/pool"
)

var (
	ErrMalformed = errors.New("expected <category> <initials>")
	ErrNoMatch   = errors.New("could not find an available entity of that category with those initials")
	// ErrAbort is returned by a Prompter when the human gives up on the
	// draft.
	ErrAbort = errors.New("selection aborted")
)

// Initials returns the first two letters of each word of name, upper-cased.
func Initials(name string) string {
	var sb strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		if len(r) > 2 {
			r = r[:2]
		}
		sb.WriteString(string(r))
	}
	return strings.ToUpper(sb.String())
}

// Parse resolves text against the pool. Only the first two words count;
// anything after them is ignored. When several entities share the category
// and initials, the best one wins.
func Parse(rules *league.Rules, p *pool.Pool, text string) (entity.Entity, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return entity.Entity{}, fmt.Errorf("%w, got %q", ErrMalformed, text)
	}
	cat, err := rules.ParseCategory(fields[0])
	if err != nil {
		return entity.Entity{}, err
	}
	initials := strings.ToUpper(fields[1])
	matches := p.Find(func(e entity.Entity) bool {
		return e.Category == cat && Initials(e.Name) == initials
	})
	if len(matches) == 0 {
		return entity.Entity{}, fmt.Errorf("%w: %s %s", ErrNoMatch, cat, initials)
	}
	if len(matches) > 1 {
		log.Debug().Int("matches", len(matches)).Str("text", text).Msg("ambiguous-selection")
	}
	return matches[0], nil
}

// Prompter is the human on the other end.
type Prompter interface {
	// Prompt shows a message and returns the line the human typed, or
	// ErrAbort.
	Prompt(msg string) (string, error)
	Notify(msg string)
}

// Ask prompts until the human names an available entity or aborts. Bad
// input is reported back and retried; it never changes draft state.
func Ask(pr Prompter, rules *league.Rules, p *pool.Pool, msg string) (entity.Entity, error) {
	for {
		text, err := pr.Prompt(msg)
		if err != nil {
			return entity.Entity{}, err
		}
		e, err := Parse(rules, p, text)
		if err == nil {
			return e, nil
		}
		if errors.Is(err, ErrMalformed) || errors.Is(err, ErrNoMatch) ||
			errors.Is(err, league.ErrUnknownCategory) {
			pr.Notify(err.Error() + ". Try again.")
			continue
		}
		return entity.Entity{}, err
	}
}
