package grid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/constants"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
)

var titleAliases = map[string][]string{
	"lol":               {"league of legends", "lol"},
	"league of legends": {"league of legends", "lol"},
	"valorant":          {"valorant"},
}

type FetchRequest struct {
	Title            string
	TeamName         string
	OpponentName     string
	WindowDays       int
	TournamentFilter string
	TeamID           string
	OpponentID       string
}

type Ingester struct {
	client   *Client
	pageSize int
	workers  int
	now      func() time.Time
	logger   zerolog.Logger
}

func NewIngester(client *Client, pageSize int, logger zerolog.Logger) *Ingester {
	if pageSize <= 0 {
		pageSize = constants.GridPageSize
	}
	return &Ingester{
		client:   client,
		pageSize: pageSize,
		workers:  constants.GridSeriesWorkers,
		now:      time.Now,
		logger:   logger,
	}
}

type namedNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type seriesNode struct {
	ID                 string              `json:"id"`
	StartTimeScheduled string              `json:"startTimeScheduled"`
	Tournament         domain.Tournament   `json:"tournament"`
	Teams              []domain.SeriesTeam `json:"teams"`
}

// IsoZ formats t as UTC with second precision and a Z suffix.
func IsoZ(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

func (in *Ingester) ResolveTitleID(ctx context.Context, title string) (string, error) {
	var data struct {
		Titles []namedNode `json:"titles"`
	}
	if _, err := in.client.QueryAcross(ctx, CentralDataURLs, titlesQuery, nil, &data); err != nil {
		return "", err
	}
	if len(data.Titles) == 0 {
		return "", ErrNoTitles
	}

	name := strings.ToLower(title)
	candidates, ok := titleAliases[name]
	if !ok {
		candidates = []string{name}
	}

	bestID, bestScore := "", -1.0
	for _, t := range data.Titles {
		tname := strings.TrimSpace(t.Name)
		if tname == "" {
			continue
		}
		score := -1.0
		for _, alias := range candidates {
			score = max(score, ScoreName(alias, tname))
		}
		if score > bestScore {
			bestScore, bestID = score, t.ID
		}
	}
	if bestID == "" {
		return "", fmt.Errorf("%w: %q", ErrTitleNotResolved, title)
	}
	return bestID, nil
}

func (in *Ingester) fetchTeams(ctx context.Context, query string) ([]namedNode, error) {
	var data struct {
		Teams struct {
			Edges []struct {
				Node namedNode `json:"node"`
			} `json:"edges"`
		} `json:"teams"`
	}
	vars := map[string]any{"q": query}
	if _, err := in.client.QueryAcross(ctx, CentralDataURLs, teamsQueryExtended, vars, &data); err != nil {
		if _, err := in.client.QueryAcross(ctx, CentralDataURLs, teamsQueryBasic, vars, &data); err != nil {
			return nil, err
		}
	}
	out := make([]namedNode, 0, len(data.Teams.Edges))
	for _, e := range data.Teams.Edges {
		out = append(out, e.Node)
	}
	return out, nil
}

// ResolveTeam returns the best fuzzy match for name as (id, display name).
func (in *Ingester) ResolveTeam(ctx context.Context, name string) (string, string, error) {
	candidates, err := in.fetchTeams(ctx, name)
	if err != nil {
		return "", "", err
	}
	bestID, bestName, bestScore := "", "", -1.0
	for _, c := range candidates {
		cname := strings.TrimSpace(c.Name)
		if cname == "" {
			continue
		}
		if score := ScoreName(name, cname); score > bestScore {
			bestScore, bestID, bestName = score, c.ID, cname
		}
	}
	if bestID == "" {
		return "", "", fmt.Errorf("%w: %q", ErrTeamNotResolved, name)
	}
	return bestID, bestName, nil
}

func (in *Ingester) ListTournaments(ctx context.Context, titleID, nameFilter string) ([]namedNode, error) {
	var out []namedNode
	err := in.client.Paginate(ctx, CentralDataURLs, tournamentsQuery, map[string]any{"titleId": titleID},
		[]string{"tournaments"}, in.pageSize, func(node json.RawMessage) error {
			var t namedNode
			if err := json.Unmarshal(node, &t); err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	if err != nil {
		return nil, err
	}

	if nameFilter == "" {
		return out, nil
	}
	nf := strings.ToLower(nameFilter)
	filtered := out[:0]
	for _, t := range out {
		if strings.Contains(strings.ToLower(strings.TrimSpace(t.Name)), nf) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (in *Ingester) ListAllSeries(ctx context.Context, tournamentIDs []string, gte, lte string) ([]seriesNode, error) {
	if len(tournamentIDs) == 0 {
		return nil, nil
	}
	vars := map[string]any{"tournamentIds": tournamentIDs, "gte": gte, "lte": lte}
	var out []seriesNode
	err := in.client.Paginate(ctx, CentralDataURLs, allSeriesQuery, vars, []string{"allSeries"}, in.pageSize,
		func(node json.RawMessage) error {
			var s seriesNode
			if err := json.Unmarshal(node, &s); err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
	return out, err
}

// FetchSeriesState prefers the character-aware query and falls back to the basic one.
func (in *Ingester) FetchSeriesState(ctx context.Context, seriesID string) (domain.SeriesState, error) {
	var data struct {
		SeriesState *domain.SeriesState `json:"seriesState"`
	}
	vars := map[string]any{"id": seriesID}
	if _, err := in.client.QueryAcross(ctx, SeriesStateURLs, seriesStateQueryCharacter, vars, &data); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.SeriesState{}, err
		}
		in.logger.Debug().Err(err).Str("series_id", seriesID).Msg("Character series state failed, using basic query")
		if _, err := in.client.QueryAcross(ctx, SeriesStateURLs, seriesStateQueryBasic, vars, &data); err != nil {
			return domain.SeriesState{}, err
		}
	}
	if data.SeriesState == nil {
		return domain.SeriesState{}, nil
	}
	return *data.SeriesState, nil
}

func hasTeamIDs(s seriesNode, teamID, opponentID string) bool {
	var team, opp bool
	for _, t := range s.Teams {
		team = team || t.BaseInfo.ID == teamID
		opp = opp || t.BaseInfo.ID == opponentID
	}
	return team && opp
}

// candidateIDs collects ids of series teams whose name contains name.
func candidateIDs(series []seriesNode, name string) []string {
	needle := strings.ToLower(name)
	set := make(map[string]struct{})
	for _, s := range series {
		for _, t := range s.Teams {
			if t.BaseInfo.ID != "" && strings.Contains(strings.ToLower(t.BaseInfo.Name), needle) {
				set[t.BaseInfo.ID] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func filterMatchup(series []seriesNode, teamID, opponentID string) []seriesNode {
	var out []seriesNode
	if teamID == "" || opponentID == "" {
		return out
	}
	for _, s := range series {
		if hasTeamIDs(s, teamID, opponentID) {
			out = append(out, s)
		}
	}
	return out
}

// FetchMatchup resolves both teams and returns every series they played against
// each other within the window, with series state attached.
func (in *Ingester) FetchMatchup(ctx context.Context, req FetchRequest) ([]domain.RawSeriesRecord, domain.FetchMeta, error) {
	titleID, err := in.ResolveTitleID(ctx, req.Title)
	if err != nil {
		return nil, domain.FetchMeta{}, err
	}
	in.logger.Debug().Str("title", req.Title).Str("title_id", titleID).Msg("Resolved title")

	teamID, teamLabel := in.resolveSide(ctx, req.TeamName, req.TeamID)
	oppID, oppLabel := in.resolveSide(ctx, req.OpponentName, req.OpponentID)

	tournaments, err := in.ListTournaments(ctx, titleID, req.TournamentFilter)
	if err != nil {
		return nil, domain.FetchMeta{}, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if len(tournaments) == 0 && req.TournamentFilter != "" {
		in.logger.Debug().Str("filter", req.TournamentFilter).Msg("Tournament filter matched nothing, retrying without it")
		if tournaments, err = in.ListTournaments(ctx, titleID, ""); err != nil {
			return nil, domain.FetchMeta{}, fmt.Errorf("failed to list tournaments: %w", err)
		}
	}
	tournamentIDs := make([]string, 0, len(tournaments))
	for _, t := range tournaments {
		if t.ID != "" {
			tournamentIDs = append(tournamentIDs, t.ID)
		}
	}

	now := in.now()
	lte := IsoZ(now)
	gte := IsoZ(now.AddDate(0, 0, -req.WindowDays))

	series, err := in.ListAllSeries(ctx, tournamentIDs, gte, lte)
	if err != nil {
		return nil, domain.FetchMeta{}, fmt.Errorf("failed to list series: %w", err)
	}

	matchup := filterMatchup(series, teamID, oppID)
	if len(matchup) == 0 {
		teamIDs, oppIDs := candidateIDs(series, teamLabel), candidateIDs(series, oppLabel)
		if len(teamIDs) > 0 && len(oppIDs) > 0 {
			if inferred := filterMatchup(series, teamIDs[0], oppIDs[0]); len(inferred) > 0 {
				in.logger.Info().
					Str("team_id", teamIDs[0]).
					Str("opponent_id", oppIDs[0]).
					Msg("Inferred team ids from series names")
				matchup, teamID, oppID = inferred, teamIDs[0], oppIDs[0]
			}
		}
	}
	in.logger.Info().
		Int("tournaments", len(tournamentIDs)).
		Int("series", len(series)).
		Int("matchup_series", len(matchup)).
		Msg("Listed matchup series")

	records, err := in.fetchStates(ctx, matchup)
	if err != nil {
		return nil, domain.FetchMeta{}, err
	}

	meta := domain.FetchMeta{
		TeamName:       teamLabel,
		OpponentName:   oppLabel,
		TeamID:         teamID,
		OpponentID:     oppID,
		Title:          req.Title,
		WindowGTE:      gte,
		WindowLTE:      lte,
		SeriesFound:    len(matchup),
		SeriesAnalyzed: len(records),
	}
	return records, meta, nil
}

// resolveSide uses the override id when given. A failed lookup is not fatal and yields an empty id.
func (in *Ingester) resolveSide(ctx context.Context, name, override string) (string, string) {
	if override != "" {
		return override, name
	}
	id, label, err := in.ResolveTeam(ctx, name)
	if err != nil {
		in.logger.Warn().Err(err).Str("team", name).Msg("Team resolution failed")
		return "", name
	}
	return id, label
}

func (in *Ingester) fetchStates(ctx context.Context, series []seriesNode) ([]domain.RawSeriesRecord, error) {
	states := make([]*domain.RawSeriesRecord, len(series))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)
	for i, s := range series {
		if s.ID == "" {
			continue
		}
		g.Go(func() error {
			state, err := in.FetchSeriesState(gCtx, s.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch series state %s: %w", s.ID, err)
			}
			states[i] = &domain.RawSeriesRecord{
				SeriesID:    s.ID,
				StartTime:   s.StartTimeScheduled,
				Tournament:  s.Tournament,
				Teams:       s.Teams,
				SeriesState: state,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]domain.RawSeriesRecord, 0, len(series))
	for _, r := range states {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}
