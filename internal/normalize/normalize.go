// Package normalize turns raw series records into GameRecords.
package normalize

import (
	"github.com/rs/zerolog"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

// RoleMap maps a character name to the role it is usually played in.
type RoleMap map[string]string

type Normalizer struct {
	roles  RoleMap
	logger zerolog.Logger
}

func NewNormalizer(roles RoleMap, logger zerolog.Logger) *Normalizer {
	if roles == nil {
		roles = RoleMap{}
	}
	return &Normalizer{roles: roles, logger: logger}
}

// Normalize emits one GameRecord per sub-game. A series without a games array falls
// back to its series-level team aggregates as game 0. Games missing either team are skipped.
func (n *Normalizer) Normalize(records []domain.RawSeriesRecord, teamID, opponentID string) []domain.GameRecord {
	games := []domain.GameRecord{}
	skipped := 0

	for _, rec := range records {
		state := rec.SeriesState
		if len(state.Games) > 0 {
			for _, g := range state.Games {
				game, ok := n.game(rec, g.Teams, g.SequenceNumber.Int(), teamID, opponentID)
				if !ok {
					skipped++
					continue
				}
				games = append(games, game)
			}
			continue
		}

		game, ok := n.game(rec, state.Teams, 0, teamID, opponentID)
		if !ok {
			skipped++
			continue
		}
		games = append(games, game)
	}

	n.logger.Debug().
		Int("records", len(records)).
		Int("games", len(games)).
		Int("skipped", skipped).
		Msg("Normalized series records")
	return games
}

func (n *Normalizer) game(rec domain.RawSeriesRecord, teams []domain.RawTeam, number int, teamID, opponentID string) (domain.GameRecord, bool) {
	teamEntry, ok := findTeam(teams, teamID)
	if !ok {
		return domain.GameRecord{}, false
	}
	oppEntry, ok := findTeam(teams, opponentID)
	if !ok {
		return domain.GameRecord{}, false
	}

	team := n.teamState(teamEntry)
	opp := n.teamState(oppEntry)
	return domain.GameRecord{
		SeriesID:   rec.SeriesID,
		GameNumber: number,
		StartTime:  rec.StartTime,
		Tournament: rec.Tournament,
		Team:       team,
		Opponent:   opp,
		Result:     domain.ResultFromStates(team, opp),
	}, true
}

func findTeam(teams []domain.RawTeam, id string) (domain.RawTeam, bool) {
	for _, t := range teams {
		if string(t.ID) == id {
			return t, true
		}
	}
	return domain.RawTeam{}, false
}

func (n *Normalizer) teamState(t domain.RawTeam) domain.TeamGameState {
	state := domain.TeamGameState{
		TeamID:  string(t.ID),
		Won:     t.Won,
		Kills:   t.Kills.Int(),
		Deaths:  t.Deaths.Int(),
		Players: make([]domain.PlayerPerf, 0, len(t.Players)),
	}
	if t.Score != nil {
		state.Score = domain.IntPtr(t.Score.Int())
	}
	for _, p := range t.Players {
		state.Players = append(state.Players, n.player(p))
	}
	return state
}

func (n *Normalizer) player(p domain.RawPlayer) domain.PlayerPerf {
	character := firstNonEmpty(p.Character.Value(), p.Champion.Value(), p.Agent.Value())
	role := firstNonEmpty(string(p.Role), string(p.Lane), string(p.Position))
	if role == "" && character != "" {
		role = n.roles[character]
	}
	return domain.PlayerPerf{
		PlayerID:  string(p.ID),
		Name:      p.Name,
		Role:      role,
		Character: character,
		Kills:     p.Kills.Int(),
		Deaths:    p.Deaths.Int(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
