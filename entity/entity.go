// Package entity holds the draftable item type. An Entity is an immutable
// value: two entities are the same entity if their name, category and
// score all match.
package entity

import "fmt"

// Category is a roster bucket tag such as QB or FLEX.
type Category string

// The default category set. Leagues can define their own categories; these
// are the tags used by DefaultRules in the league package.
const (
	QB    Category = "QB"
	RB    Category = "RB"
	WR    Category = "WR"
	TE    Category = "TE"
	FLEX  Category = "FLEX"
	AR    Category = "AR" // team defense
	SK    Category = "SK" // kicker
	BENCH Category = "BENCH"
)

type Entity struct {
	Name     string
	Category Category
	Score    float64
}

// Placeholder returns a nameless, zero-score entity at the given category.
// The forecaster appends these to hypothetical rosters.
func Placeholder(c Category) Entity {
	return Entity{Category: c}
}

func (e Entity) String() string {
	return fmt.Sprintf("%s %s with expected score %.4g", e.Category, e.Name, e.Score)
}

// ByScore sorts entities best-first.
type ByScore []Entity

func (b ByScore) Len() int           { return len(b) }
func (b ByScore) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
func (b ByScore) Less(i, j int) bool { return b[i].Score > b[j].Score }
