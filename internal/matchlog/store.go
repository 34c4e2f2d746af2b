package matchlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"smashlog/internal/logger"
	"smashlog/internal/match"

	"github.com/rs/zerolog"
)

// LogReadError is returned when the log file is missing, unreadable or malformed
type LogReadError struct {
	Path string
	Err  error
}

func (e *LogReadError) Error() string {
	return fmt.Sprintf("failed to read game log %s: %v", e.Path, e.Err)
}

func (e *LogReadError) Unwrap() error {
	return e.Err
}

// IsNotExist reports whether err means the log file does not exist yet
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// EntryError describes a log entry that could not be turned into a record
type EntryError struct {
	Timestamp float64
	Err       error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %s: %v", formatKey(e.Timestamp), e.Err)
}

func (e EntryError) Unwrap() error {
	return e.Err
}

// Store reads and writes the game log: one JSON object mapping timestamp to record.
// Every append rewrites the whole file; a single writer is assumed.
type Store struct {
	path   string
	lookup match.CharacterLookup
	log    zerolog.Logger
}

// NewStore creates a store for the log at path
func NewStore(path string, lookup match.CharacterLookup, log zerolog.Logger) *Store {
	return &Store{
		path:   path,
		lookup: lookup,
		log:    logger.Component(log, "matchlog").With().Str("path", path).Logger(),
	}
}

// Path returns the log file location
func (s *Store) Path() string {
	return s.path
}

// Init writes an empty log if none exists yet. Existing logs are left alone.
func (s *Store) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat game log: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create game log directory: %w", err)
		}
	}
	if err := s.write(map[float64]match.Persisted{}); err != nil {
		return err
	}
	s.log.Info().Msg("Created empty game log")
	return nil
}

// LoadAll returns every entry of the log keyed by timestamp
func (s *Store) LoadAll() (map[float64]match.Persisted, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &LogReadError{Path: s.path, Err: err}
	}

	var raw map[string]match.Persisted
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LogReadError{Path: s.path, Err: err}
	}

	games := make(map[float64]match.Persisted, len(raw))
	for key, p := range raw {
		ts, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, &LogReadError{Path: s.path, Err: fmt.Errorf("bad timestamp key %q: %w", key, err)}
		}
		games[ts] = p
	}
	return games, nil
}

// LoadAllSorted returns every record ordered by timestamp.
// The first entry that cannot be decoded aborts the load.
func (s *Store) LoadAllSorted(reverse bool) ([]match.Record, error) {
	games, err := s.LoadAll()
	if err != nil {
		return nil, err
	}

	records := make([]match.Record, 0, len(games))
	for ts, p := range games {
		r, err := match.FromPersisted(p, s.lookup)
		if err != nil {
			return nil, EntryError{Timestamp: ts, Err: err}
		}
		records = append(records, r)
	}

	match.SortByTime(records, reverse)
	return records, nil
}

// LoadValidSorted is LoadAllSorted with entries that cannot be decoded
// (foreign modes, characters missing from the roster) returned separately.
func (s *Store) LoadValidSorted(reverse bool) ([]match.Record, []EntryError, error) {
	games, err := s.LoadAll()
	if err != nil {
		return nil, nil, err
	}

	records := make([]match.Record, 0, len(games))
	var skipped []EntryError
	for ts, p := range games {
		r, err := match.FromPersisted(p, s.lookup)
		if err != nil {
			skipped = append(skipped, EntryError{Timestamp: ts, Err: err})
			continue
		}
		records = append(records, r)
	}

	if len(skipped) > 0 {
		s.log.Warn().Int("skipped", len(skipped)).Msg("Skipped undecodable log entries")
	}

	match.SortByTime(records, reverse)
	return records, skipped, nil
}

// Append adds the record to the log. An entry with the same timestamp is overwritten.
// The file is read, updated in memory and rewritten in full; this is not crash-safe.
func (s *Store) Append(r match.Record) error {
	games, err := s.LoadAll()
	if err != nil {
		return err
	}

	games[r.Timestamp()] = r.ToPersisted()
	if err := s.write(games); err != nil {
		return err
	}

	s.log.Debug().
		Float64("timestamp", r.Timestamp()).
		Str("mode", string(r.Mode())).
		Int("entries", len(games)).
		Msg("Recorded game")
	return nil
}

func (s *Store) write(games map[float64]match.Persisted) error {
	raw := make(map[string]match.Persisted, len(games))
	for ts, p := range games {
		raw[formatKey(ts)] = p
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal game log: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write game log: %w", err)
	}
	return nil
}

func formatKey(ts float64) string {
	return strconv.FormatFloat(ts, 'f', -1, 64)
}
