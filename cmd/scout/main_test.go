package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/grid"
)

const rawSeries = `{
  "series_id": "s1",
  "start_time": "2025-05-20T18:00:00Z",
  "series_state": {
    "games": [
      {"sequenceNumber": 1, "teams": [
        {"id": "A", "won": true, "kills": 15, "deaths": 6, "players": [{"id": "a1", "character": "Ornn", "role": "top"}]},
        {"id": "B", "won": false, "kills": 6, "deaths": 15, "players": [{"id": "b1", "name": "Impact", "character": "Gnar", "role": "top"}]}
      ]}
    ]
  }
}`

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, o options)
	}{
		{
			name: "required names",
			args: []string{"--team", "Cloud9", "--opponent", "Team Liquid", "--window-days", "90", "--insights"},
			check: func(t *testing.T, o options) {
				assert.Equal(t, "Cloud9", o.team)
				assert.Equal(t, "Team Liquid", o.opponent)
				assert.Equal(t, 90, o.windowDays)
				assert.Equal(t, "json", o.outputFormat)
				assert.True(t, o.insights)
			},
		},
		{
			name: "from raw needs no names",
			args: []string{"--from-raw", "dump.json", "--output-format", "text"},
			check: func(t *testing.T, o options) {
				assert.Equal(t, "dump.json", o.fromRaw)
				assert.Equal(t, "text", o.outputFormat)
			},
		},
		{name: "missing opponent", args: []string{"--team", "Cloud9"}, wantErr: true},
		{name: "bad format", args: []string{"--team", "a", "--opponent", "b", "--output-format", "xml"}, wantErr: true},
		{name: "negative window", args: []string{"--team", "a", "--opponent", "b", "--window-days", "-1"}, wantErr: true},
		{name: "unknown flag", args: []string{"--nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, o)
		})
	}
}

func TestMetaWithFallbacks(t *testing.T) {
	opts := options{team: "Cloud9", opponent: "Team Liquid", teamID: "A", opponentID: "B", title: "lol"}

	got := metaWithFallbacks(domain.FetchMeta{OpponentName: "TL"}, opts, 3)

	assert.Equal(t, "Cloud9", got.TeamName)
	assert.Equal(t, "TL", got.OpponentName)
	assert.Equal(t, "A", got.TeamID)
	assert.Equal(t, "B", got.OpponentID)
	assert.Equal(t, "lol", got.Title)
	assert.Equal(t, 3, got.SeriesAnalyzed)
}

func writeDump(t *testing.T, dir string) string {
	t.Helper()
	var rec domain.RawSeriesRecord
	require.NoError(t, json.Unmarshal([]byte(rawSeries), &rec))
	path := filepath.Join(dir, "raw.json")
	require.NoError(t, grid.SaveRaw(path, domain.FetchMeta{TeamID: "A", OpponentID: "B"}, []domain.RawSeriesRecord{rec}))
	return path
}

func TestRunFromRawText(t *testing.T) {
	t.Setenv("SCOUTING_ROLE_MAP", "")
	dir := t.TempDir()
	opts := options{
		team:           "Cloud9",
		opponent:       "Team Liquid",
		fromRaw:        writeDump(t, dir),
		output:         filepath.Join(dir, "report.txt"),
		outputFormat:   "text",
		saveNormalized: filepath.Join(dir, "games.json"),
		chartsDir:      filepath.Join(dir, "charts"),
		insights:       true,
	}

	require.NoError(t, run(context.Background(), opts, zerolog.Nop()))

	out, err := os.ReadFile(opts.output)
	require.NoError(t, err)
	assert.Contains(t, string(out), "SCOUTING REPORT")
	assert.Contains(t, string(out), "Opponent: Team Liquid | Team: Cloud9")
	assert.Contains(t, string(out), "EXECUTIVE SUMMARY")

	var games []domain.GameRecord
	data, err := os.ReadFile(opts.saveNormalized)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &games))
	assert.Len(t, games, 1)

	assert.FileExists(t, filepath.Join(opts.chartsDir, "style_triangle.html"))
}

func TestRunFromRawJSON(t *testing.T) {
	t.Setenv("SCOUTING_ROLE_MAP", "")
	dir := t.TempDir()
	opts := options{
		fromRaw:      writeDump(t, dir),
		output:       filepath.Join(dir, "report.json"),
		outputFormat: "json",
		insights:     true,
	}

	require.NoError(t, run(context.Background(), opts, zerolog.Nop()))

	data, err := os.ReadFile(opts.output)
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Contains(t, out, "report")
	assert.Contains(t, out, "insights")
}

func TestRunLiveRequiresAPIKey(t *testing.T) {
	t.Setenv("GRID_API_KEY", "")
	t.Setenv("SCOUTING_ROLE_MAP", "")

	err := run(context.Background(), options{team: "a", opponent: "b", outputFormat: "json"}, zerolog.Nop())

	assert.ErrorContains(t, err, "GRID_API_KEY")
}
