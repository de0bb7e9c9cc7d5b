package domain

// Badge is the tier earned for a score, derived purely from the
// percentage.
type Badge string

const (
	BadgeNone     Badge = "None"
	BadgeBronze   Badge = "Bronze"
	BadgeSilver   Badge = "Silver"
	BadgeGold     Badge = "Gold"
	BadgePlatinum Badge = "Platinum"
)

// DefaultPassingScore applies when the scope carries no passing score of
// its own, which is the case for cross-module difficulty pools.
const DefaultPassingScore = 75

// BadgeForScore maps a 0-100 score to a badge tier, evaluated
// highest-first with no gaps or overlap.
func BadgeForScore(score int) Badge {
	switch {
	case score >= 100:
		return BadgePlatinum
	case score >= 90:
		return BadgeGold
	case score >= 80:
		return BadgeSilver
	case score >= 70:
		return BadgeBronze
	default:
		return BadgeNone
	}
}

// BadgeRank orders tiers for comparisons: None < Bronze < Silver < Gold < Platinum.
func BadgeRank(b Badge) int {
	switch b {
	case BadgeBronze:
		return 1
	case BadgeSilver:
		return 2
	case BadgeGold:
		return 3
	case BadgePlatinum:
		return 4
	default:
		return 0
	}
}
