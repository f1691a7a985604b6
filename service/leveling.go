package service

import (
	"math"
)

// Leveling uses the quadratic curve: level 1 starts at 0 XP, level n
// requires (n-1)^2 * 100 XP.

// LevelForXP returns the level reached at the given XP total
func LevelForXP(xp int64) int {
	if xp < 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

// RequiredXP returns the XP total at which the given level is reached
func RequiredXP(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(level-1) * int64(level-1) * 100
}

// LevelUpBonus is the currency granted on level-up when the guild has
// the level-up bonus policy enabled
func LevelUpBonus(newLevel int) int64 {
	return int64(newLevel) * 50
}

// StreakBonus computes the compounding check-in bonus: the streak
// multiplies the base reward by 1.1 per day, capped at 30 days of
// compounding and at maxStreakBonus total.
func StreakBonus(baseReward int64, streak int) int64 {
	capped := streak
	if capped > maxCompoundedDays {
		capped = maxCompoundedDays
	}
	bonus := int64(math.Round(float64(baseReward) * (math.Pow(streakMultiplier, float64(capped)) - 1)))
	if bonus > maxStreakBonus {
		bonus = maxStreakBonus
	}
	return bonus
}

// MilestoneBonus returns the extra reward for streaks hitting a weekly
// or monthly milestone. Only the monthly bonus pays when a streak hits
// both (e.g. day 210).
func MilestoneBonus(streak int) int64 {
	if streak > 0 && streak%30 == 0 {
		return 2000 + int64(streak/30)*500
	}
	if streak > 0 && streak%7 == 0 {
		return 500 + int64(streak/7)*100
	}
	return 0
}

const (
	streakMultiplier  = 1.1
	maxCompoundedDays = 30
	maxStreakBonus    = 500
)
