package insights

import (
	"time"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
)

const (
	trendRecentDays = 14
	trendMidDays    = 45
)

type FormPeriod struct {
	Period  string  `json:"period"`
	Games   int     `json:"games"`
	Winrate float64 `json:"winrate"`
}

type Trends struct {
	Trajectory     string       `json:"trajectory"`
	TrajectoryNote string       `json:"trajectory_note"`
	FormPeriods    []FormPeriod `json:"form_periods"`
	RecentGames    int          `json:"recent_games"`
	RecentWinrate  *float64     `json:"recent_winrate"`
}

type period struct {
	games, wins int
}

func (p period) winrate() *float64 {
	if p.games == 0 {
		return nil
	}
	wr := float64(p.wins) / float64(p.games)
	return &wr
}

// AnalyzeTrends compares the last two weeks against the two to six weeks before.
func AnalyzeTrends(games []domain.GameRecord, now time.Time) Trends {
	if len(games) == 0 {
		return Trends{Trajectory: "unknown", TrajectoryNote: "Not enough data", FormPeriods: []FormPeriod{}}
	}

	var recent, mid, old period
	for i := range games {
		p := &old
		switch days := features.DaysAgo(games[i].StartTime, now); {
		case days <= trendRecentDays:
			p = &recent
		case days <= trendMidDays:
			p = &mid
		}
		p.games++
		if games[i].Opponent.HasWon() {
			p.wins++
		}
	}

	out := Trends{FormPeriods: []FormPeriod{}, RecentGames: recent.games, RecentWinrate: recent.winrate()}
	rw, mw := recent.winrate(), mid.winrate()
	switch {
	case rw != nil && mw != nil:
		switch diff := *rw - *mw; {
		case diff >= 0.15:
			out.Trajectory, out.TrajectoryNote = "surging", "They're on a hot streak - expect their best"
		case diff >= 0.05:
			out.Trajectory, out.TrajectoryNote = "improving", "Trending upward - don't take them lightly"
		case diff <= -0.15:
			out.Trajectory, out.TrajectoryNote = "slumping", "They're struggling lately - exploit their poor form"
		case diff <= -0.05:
			out.Trajectory, out.TrajectoryNote = "declining", "Slight downward trend - could be vulnerable"
		default:
			out.Trajectory, out.TrajectoryNote = "stable", "Consistent performance - expect their standard level"
		}
	case rw != nil:
		switch {
		case *rw >= 0.6:
			out.Trajectory, out.TrajectoryNote = "strong", "Playing well recently"
		case *rw <= 0.4:
			out.Trajectory, out.TrajectoryNote = "weak", "Struggling in recent games"
		default:
			out.Trajectory, out.TrajectoryNote = "stable", "Average recent performance"
		}
	default:
		out.Trajectory, out.TrajectoryNote = "unknown", "Not enough recent data"
	}

	for _, fp := range []struct {
		label string
		p     period
	}{
		{"Last 2 weeks", recent},
		{"2-6 weeks ago", mid},
		{"Older", old},
	} {
		if fp.p.games > 0 {
			out.FormPeriods = append(out.FormPeriods, FormPeriod{Period: fp.label, Games: fp.p.games, Winrate: *fp.p.winrate()})
		}
	}
	return out
}
