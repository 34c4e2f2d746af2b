package data_test

import (
	"path/filepath"
	"testing"

	"smashlog/internal/data"
	"smashlog/internal/match"
	"smashlog/internal/roster"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lookup = roster.NewRepository([]roster.Character{
	{ID: "mario", DisplayName: "Mario"},
	{ID: "fox", DisplayName: "Fox"},
	{ID: "kirby", DisplayName: "Kirby"},
	{ID: "link", DisplayName: "Link"},
}, nil)

func openDB(t *testing.T) *data.MatchDB {
	t.Helper()
	db, err := data.OpenMatchDB(filepath.Join(t.TempDir(), "index", "matches.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func build(t *testing.T, mode match.Mode, ts float64, stage string, participants []string, stocks ...int) match.Record {
	t.Helper()
	r, err := match.Build(match.Draft{
		Mode:         mode,
		Participants: participants,
		Stocks:       stocks,
		Stage:        stage,
		Timestamp:    ts,
	}, lookup)
	require.NoError(t, err)
	return r
}

func sampleRecords(t *testing.T) []match.Record {
	return []match.Record{
		build(t, match.OneVOne, 1, "fd", []string{"mario", "fox"}, 2, 0),
		build(t, match.OneVOne, 2, "bf", []string{"mario", "fox"}, 0, 1),
		build(t, match.OneVOne, 3, "fd", []string{"mario", "kirby"}, 1, 0),
		build(t, match.OneVOne, 4, "fd", []string{"link", "fox"}, 3, 2),
		build(t, match.TwoVTwo, 5, "bf", []string{"mario", "link", "fox", "kirby"}, 1, 1, 0, 1),
		build(t, match.FreeForAll, 6, "fd", []string{"kirby", "mario", "fox", "link"}, 0, 1, 0, 0),
	}
}

func TestRebuild_Summary(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Rebuild(sampleRecords(t)))

	count, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	summary, err := db.Summary()
	require.NoError(t, err)
	require.Len(t, summary, 3)

	assert.Equal(t, match.FreeForAll, summary[0].Mode)
	assert.Equal(t, 1, summary[0].Games)
	assert.Equal(t, 0, summary[0].Wins)

	assert.Equal(t, match.TwoVTwo, summary[1].Mode)
	assert.Equal(t, 1, summary[1].Wins)

	assert.Equal(t, match.OneVOne, summary[2].Mode)
	assert.Equal(t, 4, summary[2].Games)
	assert.Equal(t, 3, summary[2].Wins)
	assert.Equal(t, 1, summary[2].Losses)
	assert.InDelta(t, 75.0, summary[2].WinRate, 0.001)
}

func TestRebuild_ReplacesPreviousIndex(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Rebuild(sampleRecords(t)))
	require.NoError(t, db.Rebuild(sampleRecords(t)[:2]))

	count, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCharacterStats(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Rebuild(sampleRecords(t)))

	stats, err := db.CharacterStats()
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "mario", stats[0].CharacterID)
	assert.Equal(t, 4, stats[0].Games)
	assert.Equal(t, 3, stats[0].Wins)

	// Two characters with one game each, ordered by id
	assert.Equal(t, "kirby", stats[1].CharacterID)
	assert.Equal(t, 0, stats[1].Wins)
	assert.Equal(t, "link", stats[2].CharacterID)
	assert.InDelta(t, 100.0, stats[2].WinRate, 0.001)
}

func TestMatchups(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Rebuild(sampleRecords(t)))

	matchups, err := db.Matchups("mario")
	require.NoError(t, err)
	require.Len(t, matchups, 2)
	assert.Equal(t, "fox", matchups[0].OpponentID)
	assert.Equal(t, 2, matchups[0].Games)
	assert.Equal(t, 1, matchups[0].Wins)
	assert.InDelta(t, 50.0, matchups[0].WinRate, 0.001)
	assert.Equal(t, "kirby", matchups[1].OpponentID)

	all, err := db.Matchups("")
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, "fox", all[0].OpponentID)
	assert.Equal(t, 3, all[0].Games)
}

func TestStageStats(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Rebuild(sampleRecords(t)))

	stats, err := db.StageStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "fd", stats[0].StageID)
	assert.Equal(t, 4, stats[0].Games)
	assert.Equal(t, 3, stats[0].Wins)
	assert.Equal(t, "bf", stats[1].StageID)
}

func TestInsert_OverwritesSameTimestamp(t *testing.T) {
	db := openDB(t)

	require.NoError(t, db.Insert(build(t, match.OneVOne, 7, "fd", []string{"mario", "fox"}, 2, 0)))
	require.NoError(t, db.Insert(build(t, match.OneVOne, 7, "bf", []string{"kirby", "fox"}, 0, 2)))

	count, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats, err := db.CharacterStats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "kirby", stats[0].CharacterID)
	assert.Equal(t, 0, stats[0].Wins)
}

func TestEmptyIndex(t *testing.T) {
	db := openDB(t)

	summary, err := db.Summary()
	require.NoError(t, err)
	assert.Empty(t, summary)

	stats, err := db.StageStats()
	require.NoError(t, err)
	assert.Empty(t, stats)
}
