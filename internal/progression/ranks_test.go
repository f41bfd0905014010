package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

func TestNewRankTable(t *testing.T) {
	tests := []struct {
		name    string
		tiers   []entities.RankTier
		wantErr bool
	}{
		{"default", DefaultTiers(), false},
		{"single floor tier", []entities.RankTier{{Name: "Novice", MinXP: 0}}, false},
		{"empty", nil, true},
		{"no zero floor", []entities.RankTier{{Name: "A", MinXP: 10}, {Name: "B", MinXP: 20}}, true},
		{"equal thresholds", []entities.RankTier{{Name: "A", MinXP: 0}, {Name: "B", MinXP: 100}, {Name: "C", MinXP: 100}}, true},
		{"decreasing thresholds", []entities.RankTier{{Name: "A", MinXP: 0}, {Name: "B", MinXP: 200}, {Name: "C", MinXP: 100}}, true},
		{"unnamed tier", []entities.RankTier{{Name: "A", MinXP: 0}, {MinXP: 100}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewRankTable(tt.tiers)
			if tt.wantErr {
				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.tiers), table.Len())
		})
	}
}

func TestRankTable_Immutable(t *testing.T) {
	tiers := DefaultTiers()
	table, err := NewRankTable(tiers)
	require.NoError(t, err)

	tiers[0].Name = "Mutated"
	assert.Equal(t, "Bronze", table.Tiers()[0].Name)

	got := table.Tiers()
	got[1].MinXP = 1
	assert.Equal(t, 500, table.Tiers()[1].MinXP)
}

func TestRankTable_Highest(t *testing.T) {
	assert.Equal(t, "Legend", DefaultRankTable().Highest().Name)
}
