package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
)

type PlayerStats struct {
	Games           int     `json:"games"`
	Winrate         float64 `json:"winrate"`
	RecentWinrate   float64 `json:"recent_winrate"`
	KDA             float64 `json:"kda"`
	KillsPerGame    float64 `json:"kills_per_game"`
	DeathsPerGame   float64 `json:"deaths_per_game"`
	UniqueChampions int     `json:"unique_champions"`
}

type PlayerCard struct {
	features.PlayerTendency
	ScoutingNotes       string       `json:"scouting_notes"`
	ThreatLevel         string       `json:"threat_level"`
	ChampionPoolDepth   string       `json:"champion_pool_depth"`
	RecentForm          string       `json:"recent_form"`
	Playstyle           string       `json:"playstyle"`
	ExploitablePatterns []string     `json:"exploitable_patterns,omitempty"`
	Stats               *PlayerStats `json:"stats,omitempty"`
}

type playerRecord struct {
	games, wins             int
	recentGames, recentWins int
	kills, deaths           int
	champs                  map[string]struct{}
}

func (r playerRecord) winrate() float64 {
	if r.games == 0 {
		return 0
	}
	return float64(r.wins) / float64(r.games)
}

// collectPlayer counts one appearance per game for the opponent player pid.
func collectPlayer(games []domain.GameRecord, pid string, now time.Time) playerRecord {
	rec := playerRecord{champs: make(map[string]struct{})}
	for i := range games {
		g := &games[i]
		for _, p := range g.Opponent.Players {
			if p.PlayerID != pid {
				continue
			}
			rec.games++
			rec.kills += p.Kills
			rec.deaths += p.Deaths
			if p.Character != "" {
				rec.champs[p.Character] = struct{}{}
			}
			won := g.Opponent.HasWon()
			if won {
				rec.wins++
			}
			if features.DaysAgo(g.StartTime, now) <= recentWindowDays {
				rec.recentGames++
				if won {
					rec.recentWins++
				}
			}
			break
		}
	}
	return rec
}

func displayName(p features.PlayerTendency) string {
	if p.Name != "" {
		return p.Name
	}
	return p.PlayerID
}

func displayRole(p features.PlayerTendency) string {
	if p.Role != "" {
		return p.Role
	}
	return "unknown"
}

func topComfort(p features.PlayerTendency) (string, float64) {
	if len(p.ComfortPicks) == 0 {
		return "unknown", 0
	}
	return p.ComfortPicks[0].Character, p.ComfortPicks[0].Share
}

// PlayerCards labels each opponent player with threat, pool depth, form and playstyle.
func PlayerCards(games []domain.GameRecord, players []features.PlayerTendency, now time.Time) map[string]PlayerCard {
	out := make(map[string]PlayerCard, len(players))
	for _, p := range players {
		name, role := displayName(p), displayRole(p)
		rec := collectPlayer(games, p.PlayerID, now)
		if rec.games == 0 {
			out[p.PlayerID] = PlayerCard{
				PlayerTendency:    p,
				ScoutingNotes:     fmt.Sprintf("No games found for %s.", name),
				ThreatLevel:       "unknown",
				ChampionPoolDepth: "unknown",
				RecentForm:        "unknown",
				Playstyle:         "unknown",
			}
			continue
		}

		n := float64(rec.games)
		winrate := rec.winrate()
		recentWR := winrate
		if rec.recentGames > 0 {
			recentWR = float64(rec.recentWins) / float64(rec.recentGames)
		}
		kpg, dpg := float64(rec.kills)/n, float64(rec.deaths)/n
		kda := float64(rec.kills)
		if rec.deaths > 0 {
			kda = float64(rec.kills) / float64(rec.deaths)
		}
		topChamp, topShare := topComfort(p)

		depth := PoolDepth(len(rec.champs), rec.games)
		threat := ThreatLevel(winrate, rec.games, topShare)
		form := RecentForm(recentWR, winrate)
		style := Playstyle(kpg, dpg)

		exploitable := []string{}
		switch {
		case depth == "one-trick":
			exploitable = append(exploitable, fmt.Sprintf("Ban %s - they rely on it heavily (%s of games)", topChamp, pct(topShare)))
		case depth == "shallow" && topShare >= 0.4:
			exploitable = append(exploitable, fmt.Sprintf("Target ban %s to limit their options", topChamp))
		}
		switch style {
		case "coinflip":
			exploitable = append(exploitable, "Plays aggressive but dies a lot - punish overextensions")
		case "liability":
			exploitable = append(exploitable, "Weak link - focus resources against this lane")
		}
		if form == "cold" || form == "trending down" {
			exploitable = append(exploitable, "Currently struggling - apply early pressure")
		}
		if len(exploitable) == 0 {
			exploitable = append(exploitable, "No obvious weaknesses")
		}

		out[p.PlayerID] = PlayerCard{
			PlayerTendency:      p,
			ScoutingNotes:       scoutingNotes(p, name, role, threat, depth, form, style, winrate, kda),
			ThreatLevel:         threat,
			ChampionPoolDepth:   depth,
			RecentForm:          form,
			Playstyle:           style,
			ExploitablePatterns: exploitable,
			Stats: &PlayerStats{
				Games:           rec.games,
				Winrate:         winrate,
				RecentWinrate:   recentWR,
				KDA:             kda,
				KillsPerGame:    kpg,
				DeathsPerGame:   dpg,
				UniqueChampions: len(rec.champs),
			},
		}
	}
	return out
}

func scoutingNotes(p features.PlayerTendency, name, role, threat, depth, form, style string, winrate, kda float64) string {
	var parts []string
	switch threat {
	case "critical":
		parts = append(parts, fmt.Sprintf("%s is a major threat on %s", name, role))
	case "high":
		parts = append(parts, fmt.Sprintf("%s is a strong %s player", name, role))
	case "medium":
		parts = append(parts, fmt.Sprintf("%s is a solid %s", name, role))
	default:
		parts = append(parts, fmt.Sprintf("%s is a serviceable %s", name, role))
	}

	topChamp, _ := topComfort(p)
	switch depth {
	case "one-trick":
		parts = append(parts, "with a tiny champion pool centered on "+topChamp)
	case "shallow":
		var top []string
		for i, c := range p.ComfortPicks {
			if i == 2 {
				break
			}
			top = append(top, c.Character)
		}
		parts = append(parts, "who mainly plays "+strings.Join(top, ", "))
	case "deep":
		parts = append(parts, "with a deep, flexible champion pool")
	default:
		parts = append(parts, "with a decent pool")
	}

	parts = append(parts, fmt.Sprintf("(%s WR, %.1f KDA).", pct(winrate), kda))

	switch form {
	case "hot":
		parts = append(parts, "Currently on fire - respect their confidence.")
	case "cold":
		parts = append(parts, "Currently slumping - might be tilted.")
	}
	switch style {
	case "aggressive carry":
		parts = append(parts, "Plays aggressively and usually delivers.")
	case "coinflip":
		parts = append(parts, "Coinflip player - can carry or int.")
	case "safe/controlled":
		parts = append(parts, "Plays safe and scales.")
	}
	return strings.Join(parts, " ")
}
