// Package report prints drafts for humans.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/forecast"
	"github.com/domino14/snakedraft/ranker"
	"github.com/domino14/snakedraft/roster"
)

// Announce prints one pick. Advisory picks are suggestions the human still
// has to make in the real draft.
func Announce(w io.Writer, p draft.Pick, advisory bool) {
	verb := "selected"
	if advisory {
		verb = "should select"
	}
	fmt.Fprintf(w, "%s %s %s %s.\n\n", p.Roster, verb, p.Entity.Category, p.Entity.Name)
}

// Results prints the final standings and every roster's picks.
func Results(w io.Writer, standings []*roster.Roster) {
	fmt.Fprintln(w, "\nresults:")
	for idx, r := range standings {
		fmt.Fprintf(w, "rank %d: %s, expected %.5g per week. They drafted:\n",
			idx+1, r.Name(), r.ExpectedScore())
		for _, e := range r.Entities() {
			fmt.Fprintf(w, "%s %s (expected %v per week)\n", e.Category, e.Name, e.Score)
		}
		fmt.Fprintln(w)
	}
}

// Standings is a one-line-per-roster summary, usable mid-draft.
func Standings(standings []*roster.Roster) string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%-6s%-24s%-16s%-10s%8s\n", "Rank", "Roster", "Strategy", "Picks", "Expected")
	for idx, r := range standings {
		fmt.Fprintf(&ss, "%-6d%-24s%-16s%-10d%8.2f\n",
			idx+1, r.Name(), r.Policy(), r.Len(), r.ExpectedScore())
	}
	return ss.String()
}

// Ranking shows the expected loss per category, largest first, and the
// forecast of how many of each will be taken before the roster picks again.
func Ranking(rk *ranker.Ranking) string {
	var ss strings.Builder
	if rk.Backups {
		ss.WriteString("drafting backups\n")
	}
	fmt.Fprintf(&ss, "%-8s%10s%10s%12s\n", "Cat", "Loss", "Raw", "E[taken]")
	for _, l := range rk.Losses {
		fmt.Fprintf(&ss, "%-8s%10.3f%10.3f%12.3f\n",
			l.Category, l.Value, l.Raw, rk.Forecast[l.Category].Expected())
	}
	return ss.String()
}

// Forecast draws the probability of each count, per category, as bars.
func Forecast(d forecast.Distribution) string {
	const width = 40
	var ss strings.Builder
	for _, c := range d.Categories() {
		counts := d[c]
		fmt.Fprintf(&ss, "%s (expected %.2f)\n", c, counts.Expected())
		for _, k := range counts.Keys() {
			p := counts[k]
			fmt.Fprintf(&ss, "  %2d %-*s %.4f\n", k, width, strings.Repeat("#", int(p*width+0.5)), p)
		}
	}
	return ss.String()
}

// Roster lists a roster slot by slot, with open slots shown as "-".
func Roster(r *roster.Roster) string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%s, expected %.2f per week\n", r.Name(), r.ExpectedScore())
	for _, s := range r.Rules().Slots {
		ents := r.EntitiesAt(s.Category)
		for i := 0; i < s.Capacity; i++ {
			if i >= len(ents) {
				fmt.Fprintf(&ss, "%-7s-\n", s.Category)
				continue
			}
			fmt.Fprintf(&ss, "%-7s%-28s%6.2f\n", s.Category, ents[i].Name, ents[i].Score)
		}
	}
	return ss.String()
}
