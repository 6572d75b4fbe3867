package domain

type Side int

const (
	SideTeam Side = iota
	SideOpponent
)

func (s Side) String() string {
	if s == SideOpponent {
		return "opponent"
	}
	return "team"
}

type Result string

const (
	ResultWin     Result = "win"
	ResultLoss    Result = "loss"
	ResultUnknown Result = "unknown"
)

type PlayerPerf struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	Character string `json:"character,omitempty"`
	Kills     int    `json:"kills"`
	Deaths    int    `json:"deaths"`
}

type TeamGameState struct {
	TeamID  string       `json:"team_id"`
	Won     *bool        `json:"won"` // nil when the outcome is unknown
	Score   *int         `json:"score"`
	Kills   int          `json:"kills"`
	Deaths  int          `json:"deaths"`
	Players []PlayerPerf `json:"players"`
}

func (s TeamGameState) HasWon() bool {
	return s.Won != nil && *s.Won
}

func (s TeamGameState) HasLost() bool {
	return s.Won != nil && !*s.Won
}

type Tournament struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type GameRecord struct {
	SeriesID   string        `json:"series_id"`
	GameNumber int           `json:"game_number"`
	StartTime  string        `json:"start_time"`
	Tournament Tournament    `json:"tournament"`
	Team       TeamGameState `json:"team"`
	Opponent   TeamGameState `json:"opponent"`
	Result     Result        `json:"result"`
}

// State returns the TeamGameState for the requested side.
func (g *GameRecord) State(side Side) *TeamGameState {
	if side == SideOpponent {
		return &g.Opponent
	}
	return &g.Team
}

func ResultFromStates(team, opponent TeamGameState) Result {
	if team.HasWon() {
		return ResultWin
	}
	if opponent.HasWon() {
		return ResultLoss
	}
	return ResultUnknown
}

type FetchMeta struct {
	TeamName       string `json:"team_name"`
	OpponentName   string `json:"opponent_name"`
	TeamID         string `json:"team_id"`
	OpponentID     string `json:"opponent_id"`
	Title          string `json:"title"`
	WindowGTE      string `json:"window_gte"`
	WindowLTE      string `json:"window_lte"`
	SeriesFound    int    `json:"series_found"`
	SeriesAnalyzed int    `json:"series_analyzed"`
}

func BoolPtr(b bool) *bool {
	return &b
}

func IntPtr(i int) *int {
	return &i
}
