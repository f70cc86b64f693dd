package league

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/snakedraft/entity"
)

func TestDefaultRules(t *testing.T) {
	is := is.New(t)
	r := DefaultRules()
	is.NoErr(r.Validate())
	is.Equal(r.TotalSlots(), 16)
	is.Equal(r.BaseCategories(), []entity.Category{
		entity.QB, entity.RB, entity.WR, entity.TE, entity.AR, entity.SK})
	is.Equal(r.StarterCategories(), []entity.Category{
		entity.QB, entity.RB, entity.WR, entity.TE, entity.FLEX})
	is.True(r.IsFlexEligible(entity.TE))
	is.True(!r.IsFlexEligible(entity.QB))
	is.Equal(r.FlexWeight(entity.WR), 0.8)
	is.Equal(r.FlexWeight(entity.QB), 0.0)
	is.Equal(r.Capacity(entity.BENCH), 7)
	is.Equal(r.Capacity("XX"), 0)
}

func TestParseCategory(t *testing.T) {
	is := is.New(t)
	r := DefaultRules()
	for _, tc := range []struct {
		in   string
		want entity.Category
	}{
		{"qb", entity.QB},
		{"K", entity.SK},
		{"d/st", entity.AR},
		{" dst ", entity.AR},
		{"flex", entity.FLEX},
	} {
		c, err := r.ParseCategory(tc.in)
		is.NoErr(err)
		is.Equal(c, tc.want)
	}
	_, err := r.ParseCategory("punter")
	is.True(errors.Is(err, ErrUnknownCategory))
	is.True(err.Error() == `unknown category: "punter"`)
}

func TestParse(t *testing.T) {
	is := is.New(t)
	r, err := Parse([]byte(`
slots:
  - {category: X, capacity: 1}
importance: {X: 1}
`))
	is.NoErr(err)
	is.Equal(r.TotalSlots(), 1)
	is.Equal(r.TopLimit, DefaultTopLimit)
	is.Equal(r.PruneThreshold, DefaultPruneThreshold)
	is.Equal(r.QuantilePercentile, DefaultQuantilePercentile)
	is.Equal(r.BaseCategories(), []entity.Category{"X"})
}

func TestParseRejectsBadRules(t *testing.T) {
	is := is.New(t)
	for _, doc := range []string{
		``,
		"slots:\n  - {category: X, capacity: 0}\nimportance: {X: 1}\n",
		"slots:\n  - {category: X, capacity: 1}\n  - {category: X, capacity: 1}\nimportance: {X: 1}\n",
		"slots:\n  - {category: X, capacity: 1}\n",
		"slots:\n  - {category: X, capacity: 1}\nimportance: {X: 1}\nflex: F\n",
		"slots:\n  - {category: X, capacity: 1}\nimportance: {X: 1}\naliases: {Y: Z}\n",
	} {
		_, err := Parse([]byte(doc))
		is.True(err != nil)
	}
}

func TestLoadFromDataPath(t *testing.T) {
	is := is.New(t)
	data := t.TempDir()
	dir := filepath.Join(data, "leagues")
	is.NoErr(os.MkdirAll(dir, 0o755))
	yml := "slots:\n  - {category: QB, capacity: 1}\n  - {category: K, capacity: 1}\nimportance: {QB: 1, K: 0.1}\n"
	is.NoErr(os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte(yml), 0o644))

	r, err := Load(data, "tiny.yaml")
	is.NoErr(err)
	is.Equal(r.TotalSlots(), 2)
	is.Equal(r.TopLimit, DefaultTopLimit)

	_, err = Load(data, "nope.yaml")
	is.True(err != nil)
}

func TestShippedStandardLeague(t *testing.T) {
	is := is.New(t)
	r, err := Load("../data", "standard.yaml")
	is.NoErr(err)
	is.Equal(r.TotalSlots(), DefaultRules().TotalSlots())
	is.True(r.IsLowSignal("K"))
	c, err := r.ParseCategory("dst")
	is.NoErr(err)
	is.Equal(c, entity.Category("D/ST"))
}
