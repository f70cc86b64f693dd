package talent

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/snakedraft/entity"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/stats"
)

func TestReadCSV(t *testing.T) {
	is := is.New(t)
	in := "name,position,expected gamely score\n" +
		"Josh Allen,QB,22.18\n" +
		"Bijan Robinson,RB,19.5\n" +
		"Brandon Aubrey,K,9.1\n" +
		"Broncos D/ST,D/ST,7.6\n"
	ents, err := ReadCSV(strings.NewReader(in), league.DefaultRules())
	is.NoErr(err)
	is.Equal(len(ents), 4)
	is.Equal(ents[0], entity.Entity{Name: "Josh Allen", Category: entity.QB, Score: 22.18})
	is.Equal(ents[2].Category, entity.SK)
	is.Equal(ents[3].Category, entity.AR)
}

func TestReadCSVNoHeader(t *testing.T) {
	is := is.New(t)
	ents, err := ReadCSV(strings.NewReader("A B,WR,3\n"), league.DefaultRules())
	is.NoErr(err)
	is.Equal(len(ents), 1)
}

func TestReadCSVErrors(t *testing.T) {
	rules := league.DefaultRules()
	_, err := ReadCSV(strings.NewReader("name,position,expected gamely score\n"), rules)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = ReadCSV(strings.NewReader("A B,XX,3\n"), rules)
	assert.ErrorIs(t, err, league.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "row 1")

	_, err = ReadCSV(strings.NewReader("A B,WR,lots\n"), rules)
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("A B,WR\n"), rules)
	assert.Error(t, err)
}

func TestReadCSVWindows1252(t *testing.T) {
	is := is.New(t)
	// "Jos\xe9" is Windows-1252 for José.
	ents, err := ReadCSV(bytes.NewReader([]byte("Jos\xe9 Ortiz,RB,4.5\n")), league.DefaultRules())
	is.NoErr(err)
	is.Equal(ents[0].Name, "José Ortiz")
}

func TestWriteCSVRoundTrip(t *testing.T) {
	ents := []entity.Entity{
		{Name: "Josh Allen", Category: entity.QB, Score: 22.176470588},
		{Name: "Jake Taylor", Category: entity.SK, Score: 8},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ents))
	assert.Equal(t, "name,position,expected gamely score\nJosh Allen,QB,22.18\nJake Taylor,SK,8\n", buf.String())

	back, err := ReadCSV(&buf, league.DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, "Josh Allen", back[0].Name)
	assert.True(t, stats.FuzzyEqual(back[0].Score, 22.18))
}

const listing = `RANK
1
Josh Allen
Buf
josh allen
Buf · QB
PASS
300.2
377.1
2025 Outlook:
Allen is a cheat code.
RANK
2
Someone
Atl
bijan robinson
Atl · RB
RUSH
331.5
2025 Outlook:
Workhorse.
`

func TestReadListing(t *testing.T) {
	is := is.New(t)
	ents, err := ReadListing(strings.NewReader(listing), league.DefaultRules(), DefaultListing)
	is.NoErr(err)
	is.Equal(len(ents), 2)
	is.Equal(ents[0].Name, "Josh Allen")
	is.Equal(ents[0].Category, entity.QB)
	is.True(stats.FuzzyEqual(ents[0].Score, 377.1/17))
	is.Equal(ents[1].Name, "Bijan Robinson")
	is.Equal(ents[1].Category, entity.RB)
	is.True(stats.FuzzyEqual(ents[1].Score, 331.5/17))
}

func TestReadListingMissingMarker(t *testing.T) {
	is := is.New(t)
	_, err := ReadListing(strings.NewReader("rank\n1\n\n\nname\nbuf · wr\n10\n"), league.DefaultRules(), DefaultListing)
	is.True(err != nil)
	is.True(!errors.Is(err, ErrEmpty))
}
