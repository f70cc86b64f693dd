// Package league describes the roster shape of a draft league: how many
// slots each category fills, which categories may fill the flexible slot,
// and the tuning constants the pick policies read.
package league

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/snakedraft/dataloaders"
	"github.com/domino14/snakedraft/entity"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidRules    = errors.New("invalid league rules")
)

const (
	DefaultTopLimit           = 30
	DefaultPruneThreshold     = 1e-5
	DefaultQuantilePercentile = 0.5
	DefaultLastSlotPenalty    = 0.2
)

// Slot is a category and the number of roster spots it fills.
type Slot struct {
	Category entity.Category `yaml:"category"`
	Capacity int             `yaml:"capacity"`
}

// FlexRule marks a base category as eligible for the flexible slot. Weight
// scales the small need bonus a roster with an empty flex slot still has
// for this category once its own slots are full.
type FlexRule struct {
	Category entity.Category `yaml:"category"`
	Weight   float64         `yaml:"weight"`
}

type Rules struct {
	Slots        []Slot          `yaml:"slots"`
	Flex         entity.Category `yaml:"flex"`
	Bench        entity.Category `yaml:"bench"`
	FlexEligible []FlexRule      `yaml:"flex_eligible"`
	// LowSignal categories are drafted but left out of a roster's
	// expected score.
	LowSignal []entity.Category `yaml:"low_signal"`

	Importance map[entity.Category]float64 `yaml:"importance"`
	// BackupDemand is the static next-pick distribution of a roster that
	// has filled every starting slot.
	BackupDemand map[entity.Category]float64 `yaml:"backup_demand"`
	// BackupCaps, when set, replaces BackupDemand: a roster drafting
	// backups wants each category in proportion to how far it is below
	// its cap.
	BackupCaps map[entity.Category]int `yaml:"backup_caps"`
	// TypicalTaken is the share of picks that go to each category, used
	// by the binomial attrition heuristic.
	TypicalTaken map[entity.Category]float64 `yaml:"typical_taken"`

	// FlexSkip categories are dropped from a roster's needs when the flex
	// slot is open, the category is full, and its best available is worse
	// than the best available at FlexAnchor.
	FlexSkip   []entity.Category `yaml:"flex_skip"`
	FlexAnchor entity.Category   `yaml:"flex_anchor"`

	LastSlotPenalty    float64 `yaml:"last_slot_penalty"`
	PruneThreshold     float64 `yaml:"prune_threshold"`
	QuantilePercentile float64 `yaml:"quantile_percentile"`
	TopLimit           int     `yaml:"top_limit"`

	// Aliases map user shorthand to canonical category tags.
	Aliases map[string]entity.Category `yaml:"aliases"`
}

// DefaultRules is a standard fantasy football league: 1 QB, 2 RB, 2 WR,
// 1 TE, 1 FLEX (RB/WR/TE), 1 defense, 1 kicker and 7 bench spots.
func DefaultRules() *Rules {
	return &Rules{
		Slots: []Slot{
			{entity.QB, 1},
			{entity.RB, 2},
			{entity.WR, 2},
			{entity.TE, 1},
			{entity.FLEX, 1},
			{entity.AR, 1},
			{entity.SK, 1},
			{entity.BENCH, 7},
		},
		Flex:  entity.FLEX,
		Bench: entity.BENCH,
		FlexEligible: []FlexRule{
			{entity.WR, 0.8},
			{entity.RB, 0.4},
			{entity.TE, 0.05},
		},
		LowSignal: []entity.Category{entity.AR, entity.SK},
		Importance: map[entity.Category]float64{
			entity.QB: 1.25, entity.WR: 1.5, entity.RB: 1.5,
			entity.TE: 0.75, entity.AR: 0.001, entity.SK: 0.001,
		},
		BackupDemand: map[entity.Category]float64{
			entity.QB: 1.0 / 7, entity.WR: 2.8 / 7, entity.RB: 2.2 / 7,
			entity.TE: 1.0 / 7, entity.AR: 0.001, entity.SK: 0.001,
		},
		TypicalTaken: map[entity.Category]float64{
			entity.QB: 0.175, entity.RB: 0.35, entity.WR: 0.35,
			entity.TE: 0.15, entity.SK: 0.07, entity.AR: 0.07,
		},
		FlexSkip:           []entity.Category{entity.TE, entity.RB},
		FlexAnchor:         entity.WR,
		LastSlotPenalty:    DefaultLastSlotPenalty,
		PruneThreshold:     DefaultPruneThreshold,
		QuantilePercentile: DefaultQuantilePercentile,
		TopLimit:           DefaultTopLimit,
		Aliases: map[string]entity.Category{
			"K": entity.SK, "D": entity.AR, "D/ST": entity.AR, "DST": entity.AR,
		},
	}
}

// Load reads rules from a YAML file.
func Load(dataPath, filename string) (*Rules, error) {
	f, err := dataloaders.Open(dataPath, dataloaders.LeagueDir, filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	bts, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	r, err := Parse(bts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	log.Info().Str("path", f.Name()).Int("slots", r.TotalSlots()).Msg("loaded-league-rules")
	return r, nil
}

// Parse decodes YAML rules, fills unset tuning constants with defaults and
// validates the result.
func Parse(bts []byte) (*Rules, error) {
	r := &Rules{}
	if err := yaml.Unmarshal(bts, r); err != nil {
		return nil, err
	}
	if r.TopLimit == 0 {
		r.TopLimit = DefaultTopLimit
	}
	if r.PruneThreshold == 0 {
		r.PruneThreshold = DefaultPruneThreshold
	}
	if r.QuantilePercentile == 0 {
		r.QuantilePercentile = DefaultQuantilePercentile
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rules) Validate() error {
	if len(r.Slots) == 0 {
		return fmt.Errorf("%w: no slots", ErrInvalidRules)
	}
	seen := map[entity.Category]bool{}
	for _, s := range r.Slots {
		if s.Category == "" {
			return fmt.Errorf("%w: slot without a category", ErrInvalidRules)
		}
		if seen[s.Category] {
			return fmt.Errorf("%w: duplicate slot %s", ErrInvalidRules, s.Category)
		}
		if s.Capacity <= 0 {
			return fmt.Errorf("%w: slot %s has capacity %d", ErrInvalidRules, s.Category, s.Capacity)
		}
		seen[s.Category] = true
	}
	if r.Flex != "" && !seen[r.Flex] {
		return fmt.Errorf("%w: flex %s", ErrUnknownCategory, r.Flex)
	}
	if r.Bench != "" && !seen[r.Bench] {
		return fmt.Errorf("%w: bench %s", ErrUnknownCategory, r.Bench)
	}
	if r.Flex == "" && len(r.FlexEligible) > 0 {
		return fmt.Errorf("%w: flex-eligible categories without a flex slot", ErrInvalidRules)
	}
	for _, fr := range r.FlexEligible {
		if !r.IsBase(fr.Category) {
			return fmt.Errorf("%w: flex-eligible %s", ErrUnknownCategory, fr.Category)
		}
	}
	for _, c := range r.BaseCategories() {
		if _, ok := r.Importance[c]; !ok {
			return fmt.Errorf("%w: no importance for %s", ErrInvalidRules, c)
		}
	}
	for _, c := range append(append([]entity.Category{}, r.LowSignal...), r.FlexSkip...) {
		if !r.IsBase(c) {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, c)
		}
	}
	if r.FlexAnchor != "" && !r.IsBase(r.FlexAnchor) {
		return fmt.Errorf("%w: flex anchor %s", ErrUnknownCategory, r.FlexAnchor)
	}
	for alias, c := range r.Aliases {
		if !r.IsBase(c) {
			return fmt.Errorf("%w: alias %s -> %s", ErrUnknownCategory, alias, c)
		}
	}
	if r.TopLimit <= 0 {
		return fmt.Errorf("%w: top limit %d", ErrInvalidRules, r.TopLimit)
	}
	if r.PruneThreshold < 0 {
		return fmt.Errorf("%w: prune threshold %v", ErrInvalidRules, r.PruneThreshold)
	}
	if r.QuantilePercentile <= 0 || r.QuantilePercentile > 1 {
		return fmt.Errorf("%w: quantile percentile %v", ErrInvalidRules, r.QuantilePercentile)
	}
	return nil
}

// Capacity returns the number of slots for c, or 0 if the league has none.
func (r *Rules) Capacity(c entity.Category) int {
	for _, s := range r.Slots {
		if s.Category == c {
			return s.Capacity
		}
	}
	return 0
}

// TotalSlots is the roster size, which is also the number of draft rounds.
func (r *Rules) TotalSlots() int {
	return lo.SumBy(r.Slots, func(s Slot) int { return s.Capacity })
}

// BaseCategories are the real item categories, in slot order: everything
// but the flex and bench pseudo-categories.
func (r *Rules) BaseCategories() []entity.Category {
	cats := make([]entity.Category, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Category == r.Flex || s.Category == r.Bench {
			continue
		}
		cats = append(cats, s.Category)
	}
	return cats
}

// StarterCategories are the slots that have to be filled before a roster
// starts drafting backups. The flex slot is included.
func (r *Rules) StarterCategories() []entity.Category {
	cats := make([]entity.Category, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Category == r.Bench || r.IsLowSignal(s.Category) {
			continue
		}
		cats = append(cats, s.Category)
	}
	return cats
}

func (r *Rules) IsBase(c entity.Category) bool {
	return c != r.Flex && c != r.Bench && r.Capacity(c) > 0
}

func (r *Rules) IsLowSignal(c entity.Category) bool {
	return lo.Contains(r.LowSignal, c)
}

func (r *Rules) FlexCategories() []entity.Category {
	return lo.Map(r.FlexEligible, func(fr FlexRule, _ int) entity.Category { return fr.Category })
}

func (r *Rules) IsFlexEligible(c entity.Category) bool {
	return lo.ContainsBy(r.FlexEligible, func(fr FlexRule) bool { return fr.Category == c })
}

func (r *Rules) FlexWeight(c entity.Category) float64 {
	fr, ok := lo.Find(r.FlexEligible, func(fr FlexRule) bool { return fr.Category == c })
	if !ok {
		return 0
	}
	return fr.Weight
}

// ParseCategory turns user text into a canonical category, resolving
// aliases. Unknown names fail; they never default.
func (r *Rules) ParseCategory(s string) (entity.Category, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if c, ok := r.Aliases[name]; ok {
		return c, nil
	}
	c := entity.Category(name)
	if r.Capacity(c) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
