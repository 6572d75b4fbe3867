package insights

import (
	"fmt"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/matchups"
)

const (
	PhaseHardRead = "hard_read"
	PhaseBalanced = "balanced"
	PhaseReactive = "reactive"
)

type BanTarget struct {
	Champion string `json:"champion"`
	Reason   string `json:"reason"`
	Priority int    `json:"priority,omitempty"`
}

type DraftTrap struct {
	OurPick     string `json:"our_pick"`
	TheirAnswer string `json:"their_answer"`
	Role        string `json:"role"`
	Note        string `json:"note"`
}

type DraftGuide struct {
	MustBan           []BanTarget `json:"must_ban"`
	SituationalBans   []BanTarget `json:"situational_bans"`
	RespectPicks      []string    `json:"respect_picks"`
	DraftTraps        []DraftTrap `json:"draft_traps"`
	PhaseStrategy     string      `json:"phase_strategy"`
	PhaseStrategyNote string      `json:"phase_strategy_note"`
	FlexThreats       []string    `json:"flex_threats"`
	Summary           string      `json:"summary"`
}

func banned(bans []BanTarget, champ string) bool {
	for _, b := range bans {
		if b.Champion == champ {
			return true
		}
	}
	return false
}

// BuildDraftGuide turns draft tendencies and counters into ban and pick advice.
func BuildDraftGuide(players []features.PlayerTendency, draft features.DraftTendencies, counters matchups.Counters, randScore float64) DraftGuide {
	mustBan := []BanTarget{}
	for i, pick := range draft.PriorityPicks {
		if i == 2 {
			break
		}
		if pick.Character != "" && pick.Share >= 0.15 {
			mustBan = append(mustBan, BanTarget{
				Champion: pick.Character,
				Reason:   fmt.Sprintf("High priority pick (%s of games)", pct(pick.Share)),
				Priority: 1,
			})
		}
	}
	for _, p := range players {
		if len(p.ComfortPicks) == 0 || p.ComfortPicks[0].Share < 0.5 {
			continue
		}
		top := p.ComfortPicks[0]
		if top.Character == "" || banned(mustBan, top.Character) {
			continue
		}
		name := p.Name
		if name == "" {
			name = "unknown"
		}
		mustBan = append(mustBan, BanTarget{
			Champion: top.Character,
			Reason:   fmt.Sprintf("%s's main (%s of their games)", name, pct(top.Share)),
			Priority: 2,
		})
	}

	situational := []BanTarget{}
	for _, champ := range capList(draft.FlexPicks, 3) {
		if !banned(mustBan, champ) {
			situational = append(situational, BanTarget{Champion: champ, Reason: "Flex pick - limits their draft options"})
		}
	}

	respect := []string{}
	for i, pick := range draft.PriorityPicks {
		if i == 5 {
			break
		}
		if pick.Character != "" {
			respect = append(respect, pick.Character)
		}
	}

	traps := []DraftTrap{}
	seenRole := make(map[string]bool)
	for _, p := range players {
		if p.Role == "" || seenRole[p.Role] {
			continue
		}
		seenRole[p.Role] = true
		for _, c := range counters.ByRole[p.Role] {
			if c.ExpectedWinrate <= 0.4 && c.Samples >= 3 {
				traps = append(traps, DraftTrap{
					OurPick:     c.OurChamp,
					TheirAnswer: c.TheirChamp,
					Role:        p.Role,
					Note:        fmt.Sprintf("They have a strong answer - %s expected WR", pct(c.ExpectedWinrate)),
				})
			}
		}
	}
	if len(traps) > 5 {
		traps = traps[:5]
	}

	guide := DraftGuide{
		SituationalBans: situational,
		RespectPicks:    respect,
		DraftTraps:      traps,
		FlexThreats:     capList(append([]string{}, draft.FlexPicks...), 5),
	}
	switch {
	case randScore < 40:
		guide.PhaseStrategy = PhaseHardRead
		guide.PhaseStrategyNote = "They're predictable. You can save counterpicks for later phases " +
			"since you know what's coming. Use early picks on flex champions."
	case randScore < 60:
		guide.PhaseStrategy = PhaseBalanced
		guide.PhaseStrategyNote = "Moderate predictability. Secure one comfort pick early, " +
			"save one counterpick for R4/R5 or B4/B5."
	default:
		guide.PhaseStrategy = PhaseReactive
		guide.PhaseStrategyNote = "They're unpredictable. Don't over-commit to specific counters. " +
			"Prioritize your own comfort and flexibility over hard reads."
	}

	read := "Stay flexible in draft."
	if guide.PhaseStrategy == PhaseHardRead {
		read = "Hard-read their draft."
	}
	guide.Summary = fmt.Sprintf("Ban %d priority targets. %s", len(mustBan), read)

	if len(mustBan) > 5 {
		mustBan = mustBan[:5]
	}
	guide.MustBan = mustBan
	return guide
}
