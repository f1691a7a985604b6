package service

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Setenv("ENVIRONMENT", "test")
	os.Exit(m.Run())
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int64
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{2500, 6},
		{-5, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestRequiredXP(t *testing.T) {
	assert.Equal(t, int64(0), RequiredXP(1))
	assert.Equal(t, int64(100), RequiredXP(2))
	assert.Equal(t, int64(400), RequiredXP(3))
	assert.Equal(t, int64(8100), RequiredXP(10))

	// The two functions agree: reaching RequiredXP(n) puts you at level n
	for level := 2; level <= 20; level++ {
		xp := RequiredXP(level)
		assert.Equal(t, level, LevelForXP(xp))
		assert.Equal(t, level-1, LevelForXP(xp-1))
	}
}

func TestLevelUpBonus(t *testing.T) {
	assert.Equal(t, int64(100), LevelUpBonus(2))
	assert.Equal(t, int64(500), LevelUpBonus(10))
}

func TestStreakBonus(t *testing.T) {
	t.Run("day one", func(t *testing.T) {
		assert.Equal(t, int64(10), StreakBonus(100, 1))
	})

	t.Run("day seven", func(t *testing.T) {
		// 100 * (1.1^7 - 1) = 94.87...
		assert.Equal(t, int64(95), StreakBonus(100, 7))
	})

	t.Run("monotonically non-decreasing", func(t *testing.T) {
		prev := int64(0)
		for streak := 1; streak <= 120; streak++ {
			bonus := StreakBonus(100, streak)
			assert.GreaterOrEqual(t, bonus, prev, "streak=%d", streak)
			prev = bonus
		}
	})

	t.Run("capped at the maximum", func(t *testing.T) {
		assert.Equal(t, int64(500), StreakBonus(100, 30))
		assert.Equal(t, int64(500), StreakBonus(100, 31))
		assert.Equal(t, int64(500), StreakBonus(100, 365))
	})

	t.Run("compounding stops at thirty days", func(t *testing.T) {
		assert.Equal(t, StreakBonus(10, 30), StreakBonus(10, 90))
	})
}

func TestMilestoneBonus(t *testing.T) {
	assert.Equal(t, int64(0), MilestoneBonus(0))
	assert.Equal(t, int64(0), MilestoneBonus(1))
	assert.Equal(t, int64(0), MilestoneBonus(6))

	// Weekly: 500 + 100 per completed week
	assert.Equal(t, int64(600), MilestoneBonus(7))
	assert.Equal(t, int64(700), MilestoneBonus(14))

	// Monthly: 2000 + 500 per completed month
	assert.Equal(t, int64(2500), MilestoneBonus(30))
	assert.Equal(t, int64(3000), MilestoneBonus(60))

	t.Run("monthly wins when both milestones land", func(t *testing.T) {
		// Day 210 is both a 30th and a 7th multiple; only the monthly pays
		assert.Equal(t, int64(2000+7*500), MilestoneBonus(210))
	})
}

func TestEscalationTierFor(t *testing.T) {
	tests := []struct {
		count int
		tier  string
	}{
		{0, "none"},
		{1, "none"},
		{2, "none"},
		{3, "mute"},
		{4, "mute"},
		{5, "ban"},
		{6, "ban"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tier, string(EscalationTierFor(tt.count)), "count=%d", tt.count)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "0s", false},
		{"30s", "30s", false},
		{"15m", "15m0s", false},
		{"1h", "1h0m0s", false},
		{"2d", "48h0m0s", false},
		{"10x", "", true},
		{"h", "", true},
		{"-5m", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input=%q", tt.input)
			continue
		}
		assert.NoError(t, err, "input=%q", tt.input)
		assert.Equal(t, tt.want, got.String(), "input=%q", tt.input)
	}
}
