package insights

import "fmt"

const recentWindowDays = 30

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func WinrateLabel(wr float64) string {
	switch {
	case wr >= 0.65:
		return "dominant"
	case wr >= 0.55:
		return "strong"
	case wr >= 0.45:
		return "average"
	case wr >= 0.35:
		return "struggling"
	default:
		return "weak"
	}
}

func PoolDepth(uniqueChamps, games int) string {
	if games == 0 {
		return "unknown"
	}
	ratio := float64(uniqueChamps) / float64(games)
	switch {
	case uniqueChamps <= 3 || ratio < 0.15:
		return "one-trick"
	case uniqueChamps <= 5 || ratio < 0.25:
		return "shallow"
	case uniqueChamps <= 8 || ratio < 0.4:
		return "moderate"
	default:
		return "deep"
	}
}

// ThreatLevel adds points for winrate, experience and a dominant comfort pick.
func ThreatLevel(winrate float64, games int, comfortShare float64) string {
	if games < 3 {
		return "unknown"
	}

	score := 0
	switch {
	case winrate >= 0.6:
		score += 3
	case winrate >= 0.5:
		score += 2
	case winrate >= 0.4:
		score++
	}
	switch {
	case games >= 20:
		score += 2
	case games >= 10:
		score++
	}
	if comfortShare >= 0.5 {
		score++
	}

	switch {
	case score >= 5:
		return "critical"
	case score >= 4:
		return "high"
	case score >= 2:
		return "medium"
	default:
		return "low"
	}
}

func RecentForm(recentWR, overallWR float64) string {
	diff := recentWR - overallWR
	switch {
	case diff >= 0.15:
		return "hot"
	case diff >= 0.05:
		return "trending up"
	case diff <= -0.15:
		return "cold"
	case diff <= -0.05:
		return "trending down"
	default:
		return "stable"
	}
}

func Playstyle(killsPerGame, deathsPerGame float64) string {
	kd := killsPerGame
	if deathsPerGame > 0 {
		kd = killsPerGame / deathsPerGame
	}
	aggression := killsPerGame + deathsPerGame

	switch {
	case aggression > 8 && kd >= 1.5:
		return "aggressive carry"
	case aggression > 8 && kd < 1.0:
		return "coinflip"
	case aggression > 6 && kd >= 1.2:
		return "calculated aggression"
	case aggression <= 4 && kd >= 1.5:
		return "safe/controlled"
	case kd < 0.8:
		return "liability"
	default:
		return "balanced"
	}
}
