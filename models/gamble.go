package models

// GambleGame identifies one of the supported games of chance
type GambleGame string

const (
	GameCoinflip GambleGame = "coinflip"
	GameSlots    GambleGame = "slots"
	GameDice     GambleGame = "dice"
)

// ValidGame reports whether g names a supported game
func ValidGame(g GambleGame) bool {
	switch g {
	case GameCoinflip, GameSlots, GameDice:
		return true
	}
	return false
}

// GambleResult is the outcome of a resolved wager
type GambleResult struct {
	Game       GambleGame
	Won        bool
	Wager      int64
	Payout     int64 // gross amount credited on a win, 0 on a loss
	NewBalance int64
	DiceRoll   int // set for dice
	Multiplier int // set for slots wins
}

// Net returns the net balance change of the gamble
func (r *GambleResult) Net() int64 {
	return r.Payout - r.Wager
}
