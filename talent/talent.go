// Package talent reads and writes the talent pool: every draftable entity
// with its category and expected per-game score.
package talent

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/domino14/snakedraft/dataloaders"
	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
)

var ErrEmpty = errors.New("talent file has no entities")

// Header is the first row of a talent CSV.
var Header = []string{"name", "position", "expected gamely score"}

// decode returns the contents as UTF-8. Files that are not valid UTF-8 are
// assumed to be Windows-1252, as exported by older spreadsheet tools.
func decode(r io.Reader) ([]byte, error) {
	bts, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if utf8.Valid(bts) {
		return bytes.TrimPrefix(bts, []byte("\ufeff")), nil
	}
	log.Debug().Msg("talent file is not utf-8; decoding as windows-1252")
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), bts)
	return out, err
}

// parseBase resolves a position that an entity can actually hold: the
// flex and bench slots are not positions.
func parseBase(rules *league.Rules, s string) (entity.Category, error) {
	cat, err := rules.ParseCategory(s)
	if err != nil {
		return "", err
	}
	if !rules.IsBase(cat) {
		return "", fmt.Errorf("%w: %s is not a position", league.ErrUnknownCategory, cat)
	}
	return cat, nil
}

// ReadCSV reads "name,position,expected gamely score" rows. Positions go
// through the league's aliases. The header row is optional.
func ReadCSV(r io.Reader, rules *league.Rules) ([]entity.Entity, error) {
	bts, err := decode(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(bytes.NewReader(bts))
	cr.FieldsPerRecord = len(Header)
	cr.TrimLeadingSpace = true

	var ents []entity.Entity
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		if row == 1 && strings.EqualFold(record[0], Header[0]) {
			continue
		}
		cat, err := parseBase(rules, record[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		ents = append(ents, entity.Entity{
			Name:     strings.TrimSpace(record[0]),
			Category: cat,
			Score:    score,
		})
	}
	if len(ents) == 0 {
		return nil, ErrEmpty
	}
	log.Debug().Int("entities", len(ents)).Msg("loaded-talent")
	return ents, nil
}

// WriteCSV writes entities in the format ReadCSV reads, scores rounded to
// four significant digits.
func WriteCSV(w io.Writer, ents []entity.Entity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range ents {
		err := cw.Write([]string{e.Name, string(e.Category), strconv.FormatFloat(e.Score, 'g', 4, 64)})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads a talent file found under the data path. Files ending in .csv
// are CSV; anything else is a projections listing.
func Load(dataPath, filename string, rules *league.Rules) ([]entity.Entity, error) {
	f, err := dataloaders.Open(dataPath, dataloaders.TalentDir, filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return ReadCSV(f, rules)
	}
	return ReadListing(f, rules, DefaultListing)
}
