package models

// LeaderboardEntry is one row of a guild leaderboard
type LeaderboardEntry struct {
	UserID   int64
	Username string
	Value    int64
}

// EconomyStats summarizes a guild's economy
type EconomyStats struct {
	TotalCurrency  int64
	MemberCount    int64
	CheckInsToday  int64
	ActiveStreaks  int64
	AverageBalance int64
}
