package entities

// UserProgression is the per-user XP rollup. TotalXP only grows: the
// engine adds awards and never spends or decrements it.
type UserProgression struct {
	UserID  int64
	TotalXP int
}

// RankTier is a named XP band. Color is a display token for the UI.
type RankTier struct {
	Name  string `mapstructure:"name"`
	MinXP int    `mapstructure:"min_xp"`
	Color string `mapstructure:"color"`
}

// LeaderboardEntry is a single row of the XP leaderboard.
type LeaderboardEntry struct {
	Position    int
	UserID      int64
	DisplayName string
	TotalXP     int
	Tier        RankTier
}
