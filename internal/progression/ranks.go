package progression

import (
	"fmt"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

// RankTable is the ordered, immutable rank ladder. Tiers are strictly
// increasing by MinXP and the first tier starts at 0.
type RankTable struct {
	tiers []entities.RankTier
}

// DefaultTiers returns the stock rank ladder.
func DefaultTiers() []entities.RankTier {
	return []entities.RankTier{
		{Name: "Bronze", MinXP: 0, Color: "#CD7F32"},
		{Name: "Silver", MinXP: 500, Color: "#C0C0C0"},
		{Name: "Gold", MinXP: 1500, Color: "#FFD700"},
		{Name: "Platinum", MinXP: 3000, Color: "#5CC8E0"},
		{Name: "Diamond", MinXP: 5000, Color: "#B9F2FF"},
		{Name: "Legend", MinXP: 8000, Color: "#9B59B6"},
	}
}

// DefaultRankTable returns a table built from DefaultTiers.
func DefaultRankTable() *RankTable {
	t, err := NewRankTable(DefaultTiers())
	if err != nil {
		panic(err)
	}
	return t
}

// NewRankTable validates tiers and returns a table holding its own copy.
func NewRankTable(tiers []entities.RankTier) (*RankTable, error) {
	if len(tiers) == 0 {
		return nil, &ConfigurationError{Reason: "no tiers defined"}
	}
	if tiers[0].MinXP != 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("first tier %q must start at 0 XP, got %d", tiers[0].Name, tiers[0].MinXP)}
	}

	for i, t := range tiers {
		if t.Name == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("tier %d has no name", i)}
		}
		if i > 0 && t.MinXP <= tiers[i-1].MinXP {
			return nil, &ConfigurationError{Reason: fmt.Sprintf(
				"tier %q (%d XP) must be above %q (%d XP)",
				t.Name, t.MinXP, tiers[i-1].Name, tiers[i-1].MinXP,
			)}
		}
	}

	cp := make([]entities.RankTier, len(tiers))
	copy(cp, tiers)
	return &RankTable{tiers: cp}, nil
}

// Tiers returns a copy of the ladder, lowest tier first.
func (t *RankTable) Tiers() []entities.RankTier {
	cp := make([]entities.RankTier, len(t.tiers))
	copy(cp, t.tiers)
	return cp
}

func (t *RankTable) Len() int {
	return len(t.tiers)
}

// Highest returns the top tier.
func (t *RankTable) Highest() entities.RankTier {
	return t.tiers[len(t.tiers)-1]
}
