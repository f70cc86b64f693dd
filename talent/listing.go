package talent

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
)

// ListingFormat describes a copy-pasted projections page. Every entity
// block starts at a line reading "rank"; the name is NameOffset lines
// below it, the position is the last word PositionOffset lines below it,
// and the season total sits on the line before the next Marker line.
type ListingFormat struct {
	NameOffset     int
	PositionOffset int
	Marker         string
	Games          float64
}

var DefaultListing = ListingFormat{
	NameOffset:     4,
	PositionOffset: 5,
	Marker:         "2025 outlook:",
	Games:          17,
}

// ReadListing parses a projections page into entities scored per game.
func ReadListing(r io.Reader, rules *league.Rules, f ListingFormat) ([]entity.Entity, error) {
	bts, err := decode(r)
	if err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(bts))
	for sc.Scan() {
		lines = append(lines, strings.ToLower(strings.TrimSpace(sc.Text())))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	title := cases.Title(language.English)
	var ents []entity.Entity
	for idx, line := range lines {
		if line != "rank" {
			continue
		}
		if idx+f.PositionOffset >= len(lines) {
			return nil, fmt.Errorf("line %d: truncated entry", idx+1)
		}
		words := strings.Fields(lines[idx+f.PositionOffset])
		if len(words) == 0 {
			return nil, fmt.Errorf("line %d: no position", idx+f.PositionOffset+1)
		}
		cat, err := parseBase(rules, words[len(words)-1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", idx+f.PositionOffset+1, err)
		}
		marker := -1
		for j := idx + f.PositionOffset + 1; j < len(lines); j++ {
			if lines[j] == f.Marker {
				marker = j
				break
			}
		}
		if marker < 1 {
			return nil, fmt.Errorf("line %d: no %q after entry", idx+1, f.Marker)
		}
		total, err := strconv.ParseFloat(lines[marker-1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", marker, err)
		}
		ents = append(ents, entity.Entity{
			Name:     title.String(lines[idx+f.NameOffset]),
			Category: cat,
			Score:    total / f.Games,
		})
	}
	if len(ents) == 0 {
		return nil, ErrEmpty
	}
	return ents, nil
}
