package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/database"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/domain"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/report"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func sampleReport(hash string) *StoredReport {
	return &StoredReport{
		RequestHash:  hash,
		TeamName:     "Cloud9",
		OpponentName: "Team Liquid",
		Title:        "lol",
		Games:        3,
		Report: &report.Report{
			Meta: domain.FetchMeta{TeamName: "Cloud9", OpponentName: "Team Liquid"},
		},
	}
}

func TestReportSaveAndGet(t *testing.T) {
	repo := NewReportRepository(openTestDB(t), zerolog.Nop())
	ctx := context.Background()

	rep := sampleReport("h1")
	require.NoError(t, repo.Save(ctx, rep))
	require.NotEmpty(t, rep.ID)
	require.False(t, rep.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)
	assert.Equal(t, "h1", got.RequestHash)
	assert.Equal(t, 3, got.Games)
	require.NotNil(t, got.Report)
	assert.Equal(t, "Team Liquid", got.Report.Meta.OpponentName)
	assert.Nil(t, got.Insights)
	assert.Equal(t, rep.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestReportGetByIDNotFound(t *testing.T) {
	repo := NewReportRepository(openTestDB(t), zerolog.Nop())

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportSaveDuplicateID(t *testing.T) {
	repo := NewReportRepository(openTestDB(t), zerolog.Nop())
	ctx := context.Background()

	rep := sampleReport("h1")
	rep.ID = "fixed"
	require.NoError(t, repo.Save(ctx, rep))

	dup := sampleReport("h2")
	dup.ID = "fixed"
	assert.Error(t, repo.Save(ctx, dup))
}

func TestReportGetFreshByHash(t *testing.T) {
	c := &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewReportRepository(openTestDB(t), zerolog.Nop())
	repo.now = c.Now
	ctx := context.Background()

	old := sampleReport("h1")
	old.ID = "old"
	old.CreatedAt = c.now.Add(-3 * time.Hour)
	require.NoError(t, repo.Save(ctx, old))

	newer := sampleReport("h1")
	newer.ID = "newer"
	newer.CreatedAt = c.now.Add(-30 * time.Minute)
	require.NoError(t, repo.Save(ctx, newer))

	tests := []struct {
		name    string
		hash    string
		ttl     time.Duration
		wantID  string
		wantErr error
	}{
		{"newest within ttl", "h1", 6 * time.Hour, "newer", nil},
		{"only recent within short ttl", "h1", time.Hour, "newer", nil},
		{"all expired", "h1", 10 * time.Minute, "", ErrNotFound},
		{"unknown hash", "h2", 6 * time.Hour, "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetFreshByHash(ctx, tt.hash, tt.ttl)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestReportList(t *testing.T) {
	repo := NewReportRepository(openTestDB(t), zerolog.Nop())
	ctx := context.Background()

	empty, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		rep := sampleReport("h")
		rep.ID = id
		rep.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Save(ctx, rep))
	}

	got, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "Cloud9", got[0].TeamName)
	assert.Equal(t, base.Add(2*time.Hour), got[0].CreatedAt)
}

func TestQueryCache(t *testing.T) {
	c := &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewQueryCacheRepository(openTestDB(t), time.Hour, zerolog.Nop())
	repo.now = c.Now
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Put(ctx, "k", []byte(`{"a":1}`)))
	payload, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(payload))

	require.NoError(t, repo.Put(ctx, "k", []byte(`{"a":2}`)))
	payload, _, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(payload))

	c.now = c.now.Add(2 * time.Hour)
	_, ok, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueryCachePurge(t *testing.T) {
	c := &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewQueryCacheRepository(openTestDB(t), 0, zerolog.Nop())
	repo.now = c.Now
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "old", []byte("1")))
	c.now = c.now.Add(48 * time.Hour)
	require.NoError(t, repo.Put(ctx, "new", []byte("2")))

	removed, err := repo.Purge(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok, err := repo.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = repo.Get(ctx, "new")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewRedisReportCacheFromClient(client, zerolog.Nop())
	defer cache.Close()

	got, ok, err := cache.Get(context.Background(), "hash")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Error(t, cache.Set(context.Background(), "hash", sampleReport("hash"), time.Minute))
}
