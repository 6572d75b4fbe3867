package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/config"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/database"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/grid"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/logger"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/normalize"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/render"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/repository"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/service"
)

type options struct {
	title            string
	team             string
	opponent         string
	windowDays       int
	tournamentFilter string
	saveRaw          string
	saveNormalized   string
	output           string
	outputFormat     string
	teamID           string
	opponentID       string
	fromRaw          string
	cache            bool
	debug            bool
	chartsDir        string
	insights         bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("scout", flag.ContinueOnError)
	fs.StringVar(&o.title, "title", "", "Game title (lol or valorant)")
	fs.StringVar(&o.team, "team", "", "Our team name")
	fs.StringVar(&o.opponent, "opponent", "", "Opponent team name")
	fs.IntVar(&o.windowDays, "window-days", 0, "Days back to include")
	fs.StringVar(&o.tournamentFilter, "tournament-filter", "", "Optional tournament name filter")
	fs.StringVar(&o.saveRaw, "save-raw", "", "Path to save raw series JSON")
	fs.StringVar(&o.saveNormalized, "save-normalized", "", "Path to save normalized games JSON")
	fs.StringVar(&o.output, "output", "", "Path to output report JSON/text")
	fs.StringVar(&o.outputFormat, "output-format", "json", "Output format (json or text)")
	fs.StringVar(&o.teamID, "team-id", "", "Override team id")
	fs.StringVar(&o.opponentID, "opponent-id", "", "Override opponent id")
	fs.StringVar(&o.fromRaw, "from-raw", "", "Load raw JSON instead of querying GRID")
	fs.BoolVar(&o.cache, "cache", false, "Enable on-disk GraphQL response cache")
	fs.BoolVar(&o.debug, "debug", false, "Print debug logs")
	fs.StringVar(&o.chartsDir, "charts-dir", "", "Directory to write HTML charts into")
	fs.BoolVar(&o.insights, "insights", false, "Include the narrative insights in the output")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.outputFormat != "json" && o.outputFormat != "text" {
		return o, fmt.Errorf("invalid --output-format %q: expected json or text", o.outputFormat)
	}
	if o.fromRaw == "" && (o.team == "" || o.opponent == "") {
		return o, errors.New("--team and --opponent are required unless --from-raw is given")
	}
	if o.windowDays < 0 {
		return o, errors.New("--window-days must not be negative")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := os.Getenv("LOG_LEVEL")
	if opts.debug {
		level = "debug"
	}
	log := logger.ForLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		log.Error().Err(err).Msg("scouting report failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log zerolog.Logger) error {
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	if opts.cache {
		cfg.GridCache = true
	}
	if opts.title == "" {
		opts.title = cfg.DefaultTitle
	}
	if opts.windowDays == 0 {
		opts.windowDays = cfg.DefaultWindowDays
	}

	roles, err := config.LoadRoleMap(cfg.RoleMapPath)
	if err != nil {
		return err
	}
	svc := service.NewScoutingService(cfg, nil, normalize.NewNormalizer(roles, log), nil, nil, log)

	var (
		records []domain.RawSeriesRecord
		meta    domain.FetchMeta
	)
	if opts.fromRaw != "" {
		dump, err := grid.LoadRaw(opts.fromRaw)
		if err != nil {
			return err
		}
		records = dump.Records
		meta = metaWithFallbacks(dump.Meta, opts, len(records))
	} else {
		if err := cfg.Validate(true); err != nil {
			return fmt.Errorf("%w: set it in your shell or .env file before running", err)
		}
		records, meta, err = fetch(ctx, cfg, opts, log)
		if err != nil {
			return err
		}
	}

	if opts.saveRaw != "" {
		if err := grid.SaveRaw(opts.saveRaw, meta, records); err != nil {
			return err
		}
	}

	games := svc.Normalize(records, meta)
	if opts.saveNormalized != "" {
		if games == nil {
			games = []domain.GameRecord{}
		}
		if err := writeJSON(opts.saveNormalized, games); err != nil {
			return err
		}
	}

	stored := svc.BuildFromGames(games, meta)

	if opts.chartsDir != "" {
		paths, err := render.WriteCharts(stored.Report, opts.chartsDir, render.DefaultChartConfig())
		if err != nil {
			return err
		}
		log.Info().Strs("charts", paths).Msg("charts written")
	}

	out, err := formatOutput(stored, opts)
	if err != nil {
		return err
	}
	if opts.output == "" {
		fmt.Println(out)
		return nil
	}
	return os.WriteFile(opts.output, []byte(out), 0o644)
}

func fetch(ctx context.Context, cfg *config.Config, opts options, log zerolog.Logger) ([]domain.RawSeriesRecord, domain.FetchMeta, error) {
	clientOpts := grid.DefaultClientOptions(cfg.GridAPIKey)
	clientOpts.RateLimit = rate.Limit(cfg.GridRateLimit)
	if cfg.GridCache {
		db, err := database.Open(cfg.DBPath, log)
		if err != nil {
			return nil, domain.FetchMeta{}, err
		}
		defer db.Close()
		clientOpts.Cache = repository.NewQueryCacheRepository(db, cfg.GridCacheTTL, log)
	}

	ingester := grid.NewIngester(grid.NewClient(clientOpts, log), cfg.GridPageSize, log)
	return ingester.FetchMatchup(ctx, grid.FetchRequest{
		Title:            opts.title,
		TeamName:         opts.team,
		OpponentName:     opts.opponent,
		WindowDays:       opts.windowDays,
		TournamentFilter: opts.tournamentFilter,
		TeamID:           opts.teamID,
		OpponentID:       opts.opponentID,
	})
}

// metaWithFallbacks fills fields missing from a saved dump with the command line values.
func metaWithFallbacks(meta domain.FetchMeta, opts options, records int) domain.FetchMeta {
	if meta.TeamName == "" {
		meta.TeamName = opts.team
	}
	if meta.OpponentName == "" {
		meta.OpponentName = opts.opponent
	}
	if meta.TeamID == "" {
		meta.TeamID = opts.teamID
	}
	if meta.OpponentID == "" {
		meta.OpponentID = opts.opponentID
	}
	if meta.Title == "" {
		meta.Title = opts.title
	}
	if meta.SeriesAnalyzed == 0 {
		meta.SeriesAnalyzed = records
	}
	return meta
}

func formatOutput(stored *repository.StoredReport, opts options) (string, error) {
	if opts.outputFormat == "text" {
		out := render.Text(stored.Report)
		if opts.insights {
			out += "\n" + render.Insights(stored.Insights)
		}
		return out, nil
	}

	var v any = stored.Report
	if opts.insights {
		v = struct {
			Report   any `json:"report"`
			Insights any `json:"insights"`
		}{stored.Report, stored.Insights}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(data), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
