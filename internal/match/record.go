package match

import (
	"fmt"
	"math"
	"sort"
	"time"

	"smashlog/internal/roster"
)

// DefaultStage is used when a record carries no stage
const DefaultStage = "fd"

const timeLayout = "2006-01-02 15:04:05"

var timeNow = time.Now

// CharacterLookup resolves character identifiers; *roster.Repository satisfies it
type CharacterLookup interface {
	Character(id string) (roster.Character, error)
}

// Record is one finished match. It is never modified after construction.
type Record struct {
	mode         Mode
	timestamp    float64
	participants []roster.Character
	stocks       []int
	stage        string
}

// Draft holds the raw fields of a record with participants as identifiers.
// A zero Timestamp means "now".
type Draft struct {
	Mode         Mode
	Participants []string
	Stocks       []int
	Stage        string
	Timestamp    float64
}

// ToTimestamp converts a time into the log's float seconds
func ToTimestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// New creates a record from resolved characters
func New(mode Mode, participants []roster.Character, stocks []int, stage string, timestamp float64) (Record, error) {
	if !mode.Valid() {
		return Record{}, &UnknownModeError{Tag: string(mode)}
	}

	want := mode.ParticipantCount()
	if len(participants) != want {
		return Record{}, &ValidationError{
			Field:  "participants",
			Reason: fmt.Sprintf("%s needs %d participants, got %d", mode.Name(), want, len(participants)),
		}
	}
	if len(stocks) != want {
		return Record{}, &ValidationError{
			Field:  "stocks",
			Reason: fmt.Sprintf("%s needs %d stock values, got %d", mode.Name(), want, len(stocks)),
		}
	}
	for i, s := range stocks {
		if s < 0 {
			return Record{}, &ValidationError{
				Field:  "stocks",
				Reason: fmt.Sprintf("slot %d has negative stock count %d", i, s),
			}
		}
	}

	if stage == "" {
		stage = DefaultStage
	}

	r := Record{
		mode:         mode,
		timestamp:    timestamp,
		participants: make([]roster.Character, want),
		stocks:       make([]int, want),
		stage:        stage,
	}
	copy(r.participants, participants)
	copy(r.stocks, stocks)
	return r, nil
}

// Build resolves the draft's identifiers and creates the record
func Build(d Draft, lookup CharacterLookup) (Record, error) {
	if d.Timestamp == 0 {
		d.Timestamp = ToTimestamp(timeNow())
	}
	return resolve(d, lookup)
}

func resolve(d Draft, lookup CharacterLookup) (Record, error) {
	participants := make([]roster.Character, 0, len(d.Participants))
	for _, id := range d.Participants {
		c, err := lookup.Character(id)
		if err != nil {
			return Record{}, err
		}
		participants = append(participants, c)
	}
	return New(d.Mode, participants, d.Stocks, d.Stage, d.Timestamp)
}

func (r Record) Mode() Mode {
	return r.mode
}

// Timestamp returns the record key in float seconds since the epoch
func (r Record) Timestamp() float64 {
	return r.timestamp
}

// Time returns the timestamp as a UTC time
func (r Record) Time() time.Time {
	sec, frac := math.Modf(r.timestamp)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}

func (r Record) Participants() []roster.Character {
	out := make([]roster.Character, len(r.participants))
	copy(out, r.participants)
	return out
}

func (r Record) Stocks() []int {
	out := make([]int, len(r.stocks))
	copy(out, r.stocks)
	return out
}

func (r Record) Stage() string {
	return r.stage
}

// IsWin reports whether the local side won
func (r Record) IsWin() bool {
	return r.mode.IsWin(r.stocks)
}

// Less orders records by timestamp
func (r Record) Less(other Record) bool {
	return r.timestamp < other.timestamp
}

// String renders the one-line history entry for the record's mode
func (r Record) String() string {
	spec, ok := modes[r.mode]
	if !ok {
		return ""
	}
	return spec.format(r)
}

// SortByTime sorts records by timestamp, newest first when reverse is set
func SortByTime(records []Record, reverse bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if reverse {
			return records[j].Less(records[i])
		}
		return records[i].Less(records[j])
	})
}

func (r Record) outcome() string {
	if r.IsWin() {
		return "W | "
	}
	return "L | "
}

func (r Record) name(i int) string {
	return r.participants[i].DisplayName
}

func formatOneVOne(r Record) string {
	return r.outcome() +
		fmt.Sprintf("%s %d | %s %d | ", r.name(0), r.stocks[0], r.name(1), r.stocks[1]) +
		r.Time().Format(timeLayout)
}

func formatTwoVTwo(r Record) string {
	return r.outcome() +
		fmt.Sprintf("You: %s (%d), %s (%d) | Them: %s (%d), %s (%d) | ",
			r.name(0), r.stocks[0], r.name(1), r.stocks[1],
			r.name(2), r.stocks[2], r.name(3), r.stocks[3]) +
		r.Time().Format(timeLayout)
}

func formatFreeForAll(r Record) string {
	return r.outcome() +
		fmt.Sprintf("You: %s (%d) | Them: %s (%d), %s (%d), %s (%d) | ",
			r.name(0), r.stocks[0],
			r.name(1), r.stocks[1], r.name(2), r.stocks[2], r.name(3), r.stocks[3]) +
		r.Time().Format(timeLayout)
}
