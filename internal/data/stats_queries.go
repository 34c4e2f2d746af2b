package data

import (
	"database/sql"
	"fmt"

	"smashlog/internal/match"
)

// ModeSummary holds win/loss totals for one mode
type ModeSummary struct {
	Mode    match.Mode `json:"mode"`
	Games   int        `json:"games"`
	Wins    int        `json:"wins"`
	Losses  int        `json:"losses"`
	WinRate float64    `json:"winRate"`
}

// CharacterStat holds results for a character played by the local player (slot 0)
type CharacterStat struct {
	CharacterID string  `json:"characterId"`
	Games       int     `json:"games"`
	Wins        int     `json:"wins"`
	WinRate     float64 `json:"winRate"`
}

// MatchupStat holds 1v1 results against one opponent character
type MatchupStat struct {
	OpponentID string  `json:"opponentId"`
	Games      int     `json:"games"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"winRate"`
}

// StageStat holds results on one stage
type StageStat struct {
	StageID string  `json:"stageId"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}

func winRate(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(wins) / float64(games) * 100
}

// Summary returns totals per mode, ordered by mode tag
func (m *MatchDB) Summary() ([]ModeSummary, error) {
	rows, err := m.db.Query(`
		SELECT mode, COUNT(*), SUM(win)
		FROM matches
		GROUP BY mode
		ORDER BY mode
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer rows.Close()

	var results []ModeSummary
	for rows.Next() {
		var mode string
		var s ModeSummary
		if err := rows.Scan(&mode, &s.Games, &s.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		s.Mode = match.Mode(mode)
		s.Losses = s.Games - s.Wins
		s.WinRate = winRate(s.Wins, s.Games)
		results = append(results, s)
	}
	return results, rows.Err()
}

// CharacterStats returns results per local character, most played first
func (m *MatchDB) CharacterStats() ([]CharacterStat, error) {
	rows, err := m.db.Query(`
		SELECT p.character_id, COUNT(*), SUM(m.win)
		FROM participants p
		JOIN matches m ON m.timestamp = p.timestamp
		WHERE p.slot = 0
		GROUP BY p.character_id
		ORDER BY COUNT(*) DESC, p.character_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query character stats: %w", err)
	}
	defer rows.Close()

	var results []CharacterStat
	for rows.Next() {
		var s CharacterStat
		if err := rows.Scan(&s.CharacterID, &s.Games, &s.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan character stat: %w", err)
		}
		s.WinRate = winRate(s.Wins, s.Games)
		results = append(results, s)
	}
	return results, rows.Err()
}

// Matchups returns 1v1 results against each opponent for the given local character.
// An empty characterID covers every local character.
func (m *MatchDB) Matchups(characterID string) ([]MatchupStat, error) {
	query := `
		SELECT opp.character_id, COUNT(*), SUM(m.win)
		FROM matches m
		JOIN participants own ON own.timestamp = m.timestamp AND own.slot = 0
		JOIN participants opp ON opp.timestamp = m.timestamp AND opp.slot = 1
		WHERE m.mode = ?
	`
	args := []any{string(match.OneVOne)}
	if characterID != "" {
		query += " AND own.character_id = ?"
		args = append(args, characterID)
	}
	query += `
		GROUP BY opp.character_id
		ORDER BY COUNT(*) DESC, opp.character_id
	`

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchups: %w", err)
	}
	defer rows.Close()

	var results []MatchupStat
	for rows.Next() {
		var s MatchupStat
		if err := rows.Scan(&s.OpponentID, &s.Games, &s.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan matchup: %w", err)
		}
		s.WinRate = winRate(s.Wins, s.Games)
		results = append(results, s)
	}
	return results, rows.Err()
}

// StageStats returns results per stage, most played first
func (m *MatchDB) StageStats() ([]StageStat, error) {
	rows, err := m.db.Query(`
		SELECT stage, COUNT(*), SUM(win)
		FROM matches
		GROUP BY stage
		ORDER BY COUNT(*) DESC, stage
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stage stats: %w", err)
	}
	defer rows.Close()

	return scanStageStats(rows)
}

func scanStageStats(rows *sql.Rows) ([]StageStat, error) {
	var results []StageStat
	for rows.Next() {
		var s StageStat
		if err := rows.Scan(&s.StageID, &s.Games, &s.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan stage stat: %w", err)
		}
		s.WinRate = winRate(s.Wins, s.Games)
		results = append(results, s)
	}
	return results, rows.Err()
}
