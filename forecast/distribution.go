package forecast

import (
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/snakedraft/entity"
)

// Counts is a probability mass function over how many entities of one
// category get drafted before a reference turn.
type Counts map[int]float64

// Max is the largest count with an entry.
func (c Counts) Max() int {
	return lo.Max(lo.Keys(c))
}

func (c Counts) Sum() float64 {
	return lo.Sum(lo.Values(c))
}

// Keys returns the tracked counts in ascending order.
func (c Counts) Keys() []int {
	ks := lo.Keys(c)
	sort.Ints(ks)
	return ks
}

// Expected is the mean count.
func (c Counts) Expected() float64 {
	e := 0.0
	for k, p := range c {
		e += float64(k) * p
	}
	return e
}

func (c Counts) clone() Counts {
	cp := make(Counts, len(c))
	for k, p := range c {
		cp[k] = p
	}
	return cp
}

// shift moves mass from k-1 to k in proportion to likelihood, as if one more
// pick of this category happened with that likelihood. It walks k downward
// so no mass moves twice. Transfers below threshold are skipped.
func (c Counts) shift(likelihood, threshold float64) {
	top := c.Max()
	for k := top + 1; k >= 1; k-- {
		added := c[k-1] * likelihood
		if added < threshold {
			continue
		}
		c[k] += added
		c[k-1] -= added
	}
}

// Distribution holds one Counts per tracked category. Values are treated as
// immutable: every update returns a new Distribution.
type Distribution map[entity.Category]Counts

// NewDistribution tracks cats, each starting with all mass at zero.
func NewDistribution(cats []entity.Category) Distribution {
	d := make(Distribution, len(cats))
	for _, c := range cats {
		d[c] = Counts{0: 1}
	}
	return d
}

func (d Distribution) Clone() Distribution {
	cp := make(Distribution, len(d))
	for c, counts := range d {
		cp[c] = counts.clone()
	}
	return cp
}

// Categories returns the tracked categories sorted by name.
func (d Distribution) Categories() []entity.Category {
	cats := lo.Keys(d)
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
