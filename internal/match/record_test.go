package match_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"smashlog/internal/match"
	"smashlog/internal/roster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() *roster.Repository {
	return roster.NewRepository([]roster.Character{
		{ID: "mario", DisplayName: "Mario", Game: "Super Mario", Placement: 1},
		{ID: "fox", DisplayName: "Fox", Game: "Star Fox", Placement: 7},
		{ID: "kirby", DisplayName: "Kirby", Game: "Kirby", Placement: 6},
		{ID: "link", DisplayName: "Link", Game: "Zelda", Placement: 3},
	}, []roster.Stage{
		{ID: "fd", Name: "fd", DisplayName: "Final Destination"},
		{ID: "bf", Name: "bf", DisplayName: "Battlefield"},
	})
}

func mustBuild(t *testing.T, d match.Draft) match.Record {
	t.Helper()
	r, err := match.Build(d, testRoster())
	require.NoError(t, err)
	return r
}

func TestParseMode(t *testing.T) {
	for _, tag := range []string{"sp", "mp", "ffa"} {
		m, err := match.ParseMode(tag)
		require.NoError(t, err)
		assert.Equal(t, tag, string(m))
	}

	_, err := match.ParseMode("teams")
	var modeErr *match.UnknownModeError
	require.True(t, errors.As(err, &modeErr))
	assert.Equal(t, "teams", modeErr.Tag)
}

func TestMode_TurnOrder(t *testing.T) {
	assert.Equal(t, []string{"own", "opp"}, match.OneVOne.TurnOrder())
	assert.Equal(t, []string{"own1", "own2", "opp1", "opp2"}, match.TwoVTwo.TurnOrder())
	assert.Equal(t, []string{"own", "opp1", "opp2", "opp3"}, match.FreeForAll.TurnOrder())

	assert.Equal(t, 2, match.OneVOne.ParticipantCount())
	assert.Equal(t, 4, match.TwoVTwo.ParticipantCount())
	assert.Equal(t, 4, match.FreeForAll.ParticipantCount())
}

func TestMode_SlotsAreCopies(t *testing.T) {
	slots := match.OneVOne.Slots()
	slots[0].Tag = "changed"
	assert.Equal(t, "own", match.OneVOne.Slots()[0].Tag)
}

func TestIsWin(t *testing.T) {
	tests := []struct {
		name   string
		mode   match.Mode
		stocks []int
		want   bool
	}{
		{"1v1 win", match.OneVOne, []int{3, 1}, true},
		{"1v1 loss", match.OneVOne, []int{1, 3}, false},
		{"1v1 tie is a loss", match.OneVOne, []int{2, 2}, false},
		{"2v2 win on team total", match.TwoVTwo, []int{2, 1, 1, 1}, true},
		{"2v2 tie is a loss", match.TwoVTwo, []int{1, 1, 1, 1}, false},
		{"2v2 loss", match.TwoVTwo, []int{0, 1, 2, 0}, false},
		{"ffa tie counts as win", match.FreeForAll, []int{2, 2, 1, 0}, true},
		{"ffa outright win", match.FreeForAll, []int{3, 2, 1, 0}, true},
		{"ffa loss", match.FreeForAll, []int{2, 3, 1, 0}, false},
		{"ffa loss to last slot", match.FreeForAll, []int{1, 0, 0, 2}, false},
	}

	participants := map[match.Mode][]string{
		match.OneVOne:    {"mario", "fox"},
		match.TwoVTwo:    {"mario", "fox", "kirby", "link"},
		match.FreeForAll: {"mario", "fox", "kirby", "link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustBuild(t, match.Draft{
				Mode:         tt.mode,
				Participants: participants[tt.mode],
				Stocks:       tt.stocks,
				Timestamp:    1,
			})
			assert.Equal(t, tt.want, r.IsWin())
			assert.Equal(t, tt.want, tt.mode.IsWin(tt.stocks))
		})
	}
}

func TestBuild_UnknownCharacter(t *testing.T) {
	_, err := match.Build(match.Draft{
		Mode:         match.OneVOne,
		Participants: []string{"mario", "pichu"},
		Stocks:       []int{1, 0},
	}, testRoster())

	var charErr *roster.UnknownCharacterError
	require.True(t, errors.As(err, &charErr))
	assert.Equal(t, "pichu", charErr.ID)
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft match.Draft
		field string
	}{
		{
			name:  "too few participants",
			draft: match.Draft{Mode: match.TwoVTwo, Participants: []string{"mario", "fox"}, Stocks: []int{1, 1, 1, 1}},
			field: "participants",
		},
		{
			name:  "stock count mismatch",
			draft: match.Draft{Mode: match.OneVOne, Participants: []string{"mario", "fox"}, Stocks: []int{1}},
			field: "stocks",
		},
		{
			name:  "negative stock",
			draft: match.Draft{Mode: match.OneVOne, Participants: []string{"mario", "fox"}, Stocks: []int{1, -1}},
			field: "stocks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := match.Build(tt.draft, testRoster())
			var valErr *match.ValidationError
			require.True(t, errors.As(err, &valErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestNew_UnknownMode(t *testing.T) {
	_, err := match.New(match.Mode("duel"), nil, nil, "", 1)
	var modeErr *match.UnknownModeError
	assert.True(t, errors.As(err, &modeErr))
}

func TestBuild_Defaults(t *testing.T) {
	before := match.ToTimestamp(time.Now())
	r := mustBuild(t, match.Draft{
		Mode:         match.OneVOne,
		Participants: []string{"mario", "fox"},
		Stocks:       []int{2, 0},
	})
	after := match.ToTimestamp(time.Now())

	assert.Equal(t, match.DefaultStage, r.Stage())
	assert.GreaterOrEqual(t, r.Timestamp(), before)
	assert.LessOrEqual(t, r.Timestamp(), after)
}

func TestRecord_IsImmutable(t *testing.T) {
	r := mustBuild(t, match.Draft{
		Mode:         match.OneVOne,
		Participants: []string{"mario", "fox"},
		Stocks:       []int{2, 0},
		Timestamp:    10,
	})

	stocks := r.Stocks()
	stocks[0] = 0
	participants := r.Participants()
	participants[0] = roster.Character{ID: "kirby"}

	assert.Equal(t, []int{2, 0}, r.Stocks())
	assert.Equal(t, "mario", r.Participants()[0].ID)
	assert.True(t, r.IsWin())
}

func TestRoundTrip(t *testing.T) {
	records := []match.Draft{
		{Mode: match.OneVOne, Participants: []string{"mario", "fox"}, Stocks: []int{3, 0}, Stage: "bf", Timestamp: 1583960493.1234567},
		{Mode: match.TwoVTwo, Participants: []string{"mario", "fox", "kirby", "link"}, Stocks: []int{1, 0, 0, 0}, Timestamp: 1583960500.5},
		{Mode: match.FreeForAll, Participants: []string{"link", "kirby", "fox", "mario"}, Stocks: []int{0, 0, 2, 0}, Stage: "fd", Timestamp: 1583960600},
	}

	for _, d := range records {
		t.Run(d.Mode.Name(), func(t *testing.T) {
			r := mustBuild(t, d)

			p := r.ToPersisted()
			assert.Equal(t, d.Participants, p.Characters)
			assert.Equal(t, string(d.Mode), p.Type)

			back, err := match.FromPersisted(p, testRoster())
			require.NoError(t, err)
			assert.Equal(t, r, back)

			// Through the JSON wire form as well
			data, err := json.Marshal(p)
			require.NoError(t, err)
			var decoded match.Persisted
			require.NoError(t, json.Unmarshal(data, &decoded))
			back, err = match.FromPersisted(decoded, testRoster())
			require.NoError(t, err)
			assert.Equal(t, r, back)
		})
	}
}

func TestToPersisted_WireFields(t *testing.T) {
	r := mustBuild(t, match.Draft{
		Mode:         match.OneVOne,
		Participants: []string{"mario", "fox"},
		Stocks:       []int{3, 1},
		Stage:        "bf",
		Timestamp:    42.5,
	})

	data, err := json.Marshal(r.ToPersisted())
	require.NoError(t, err)
	assert.JSONEq(t, `{"time": 42.5, "type": "sp", "characters": ["mario", "fox"], "stocks": [3, 1], "stage": "bf"}`, string(data))
}

func TestFromPersisted_MissingTime(t *testing.T) {
	var p match.Persisted
	require.NoError(t, json.Unmarshal([]byte(`{"type": "sp", "characters": ["mario", "fox"], "stocks": [1, 2], "stage": "fd"}`), &p))
	require.Nil(t, p.Time)

	before := match.ToTimestamp(time.Now())
	r, err := match.FromPersisted(p, testRoster())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, r.Timestamp(), before)
}

func TestFromPersisted_UnknownMode(t *testing.T) {
	ts := 5.0
	_, err := match.FromPersisted(match.Persisted{
		Time:       &ts,
		Type:       "teams",
		Characters: []string{"mario", "fox"},
		Stocks:     []int{1, 2},
	}, testRoster())

	var modeErr *match.UnknownModeError
	require.True(t, errors.As(err, &modeErr))
	assert.Equal(t, "teams", modeErr.Tag)
}

func TestFromPersisted_ZeroTimeIsKept(t *testing.T) {
	ts := 0.0
	r, err := match.FromPersisted(match.Persisted{
		Time:       &ts,
		Type:       "sp",
		Characters: []string{"mario", "fox"},
		Stocks:     []int{1, 2},
	}, testRoster())
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Timestamp())
}

func TestRecord_String(t *testing.T) {
	tests := []struct {
		name  string
		draft match.Draft
		want  string
	}{
		{
			name:  "1v1 win",
			draft: match.Draft{Mode: match.OneVOne, Participants: []string{"mario", "fox"}, Stocks: []int{3, 1}, Timestamp: 1583960493.75},
			want:  "W | Mario 3 | Fox 1 | 2020-03-11 21:01:33",
		},
		{
			name:  "1v1 loss",
			draft: match.Draft{Mode: match.OneVOne, Participants: []string{"mario", "fox"}, Stocks: []int{0, 1}, Timestamp: 1600000000},
			want:  "L | Mario 0 | Fox 1 | 2020-09-13 12:26:40",
		},
		{
			name:  "2v2",
			draft: match.Draft{Mode: match.TwoVTwo, Participants: []string{"mario", "fox", "kirby", "link"}, Stocks: []int{2, 1, 1, 1}, Timestamp: 1600000000},
			want:  "W | You: Mario (2), Fox (1) | Them: Kirby (1), Link (1) | 2020-09-13 12:26:40",
		},
		{
			name:  "ffa",
			draft: match.Draft{Mode: match.FreeForAll, Participants: []string{"mario", "fox", "kirby", "link"}, Stocks: []int{2, 3, 1, 0}, Timestamp: 1600000000},
			want:  "L | You: Mario (2) | Them: Fox (3), Kirby (1), Link (0) | 2020-09-13 12:26:40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustBuild(t, tt.draft).String())
		})
	}
}

func TestSortByTime(t *testing.T) {
	var records []match.Record
	for _, ts := range []float64{5, 1, 3} {
		records = append(records, mustBuild(t, match.Draft{
			Mode:         match.OneVOne,
			Participants: []string{"mario", "fox"},
			Stocks:       []int{1, 0},
			Timestamp:    ts,
		}))
	}

	timestamps := func() []float64 {
		out := make([]float64, len(records))
		for i, r := range records {
			out[i] = r.Timestamp()
		}
		return out
	}

	match.SortByTime(records, false)
	assert.Equal(t, []float64{1, 3, 5}, timestamps())

	match.SortByTime(records, true)
	assert.Equal(t, []float64{5, 3, 1}, timestamps())
}

func TestModes_Registered(t *testing.T) {
	for _, mode := range match.Modes() {
		t.Run(string(mode), func(t *testing.T) {
			require.True(t, mode.Valid())
			n := mode.ParticipantCount()
			require.Len(t, mode.Slots(), n)

			participants := []string{"mario", "fox", "kirby", "link"}[:n]
			stocks := make([]int, n)
			stocks[0] = 1
			r := mustBuild(t, match.Draft{Mode: mode, Participants: participants, Stocks: stocks, Timestamp: 1600000000})
			assert.True(t, r.IsWin())
			assert.Equal(t, "W | ", r.String()[:4])
		})
	}
}
