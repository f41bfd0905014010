package progression

import (
	"sort"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

// RankStatus is what a view needs to render a user's rank.
type RankStatus struct {
	TotalXP  int
	Current  entities.RankTier
	Next     *entities.RankTier // nil at maximum rank
	Progress float64            // percent towards Next, in [0, 100]
	XPToNext int                // 0 at maximum rank
}

// IsMaxRank reports whether the user has reached the top tier.
func (s RankStatus) IsMaxRank() bool {
	return s.Next == nil
}

// Resolver derives rank information from total XP.
type Resolver struct {
	table *RankTable
}

func NewResolver(table *RankTable) *Resolver {
	return &Resolver{table: table}
}

// Table returns the rank table the resolver works with.
func (r *Resolver) Table() *RankTable {
	return r.table
}

// CurrentTier returns the tier with the greatest MinXP not above totalXP.
// The lower boundary is inclusive.
func (r *Resolver) CurrentTier(totalXP int) (entities.RankTier, error) {
	if err := r.check(); err != nil {
		return entities.RankTier{}, err
	}
	if totalXP < 0 {
		totalXP = 0
	}

	tiers := r.table.tiers
	// First tier strictly above totalXP; the one before it is current.
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].MinXP > totalXP })
	return tiers[i-1], nil
}

// NextTier returns the first tier above totalXP, or nil at maximum rank.
func (r *Resolver) NextTier(totalXP int) (*entities.RankTier, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	if totalXP < 0 {
		totalXP = 0
	}

	tiers := r.table.tiers
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].MinXP > totalXP })
	if i == len(tiers) {
		return nil, nil
	}

	next := tiers[i]
	return &next, nil
}

// ProgressFraction returns the percentage of the current band covered by
// totalXP. It returns 100 at maximum rank and is clamped to [0, 100].
func ProgressFraction(totalXP int, current entities.RankTier, next *entities.RankTier) float64 {
	if next == nil {
		return 100
	}

	band := next.MinXP - current.MinXP
	if band <= 0 {
		return 100
	}

	p := float64(totalXP-current.MinXP) / float64(band) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Resolve computes the full rank status for a progression value.
func (r *Resolver) Resolve(p entities.UserProgression) (RankStatus, error) {
	current, err := r.CurrentTier(p.TotalXP)
	if err != nil {
		return RankStatus{}, err
	}

	next, err := r.NextTier(p.TotalXP)
	if err != nil {
		return RankStatus{}, err
	}

	status := RankStatus{
		TotalXP:  p.TotalXP,
		Current:  current,
		Next:     next,
		Progress: ProgressFraction(p.TotalXP, current, next),
	}
	if next != nil {
		status.XPToNext = next.MinXP - p.TotalXP
	}

	return status, nil
}

func (r *Resolver) check() error {
	if r.table == nil || len(r.table.tiers) == 0 {
		return &ConfigurationError{Reason: "no tiers defined"}
	}
	if r.table.tiers[0].MinXP != 0 {
		return &ConfigurationError{Reason: "missing zero-XP floor tier"}
	}
	return nil
}
