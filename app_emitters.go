package main

import (
	"smashlog/internal/match"
	"smashlog/internal/matchlog"
)

// HistoryEntry represents one line of the game history panel
type HistoryEntry struct {
	Timestamp float64 `json:"timestamp"`
	Mode      string  `json:"mode"`
	Win       bool    `json:"win"`
	Display   string  `json:"display"`
}

// emitSelection pushes the current selection state to the frontend
func (a *App) emitSelection() {
	if a.machine == nil {
		return
	}
	a.emit("selection:update", a.machine.Snapshot())
}

// emitHistory pushes the full game history, newest first, to the frontend
func (a *App) emitHistory() {
	entries, err := a.GetHistory(true)
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to load game history")
		a.emit("history:update", map[string]interface{}{
			"hasGames": false,
			"error":    err.Error(),
		})
		return
	}

	a.emit("history:update", map[string]interface{}{
		"hasGames": len(entries) > 0,
		"games":    entries,
	})
}

// GetHistory returns every readable game in the log ordered by time.
// Entries that cannot be decoded are skipped and logged.
func (a *App) GetHistory(reverse bool) ([]HistoryEntry, error) {
	if a.store == nil {
		return []HistoryEntry{}, nil
	}

	records, _, err := a.store.LoadValidSorted(reverse)
	if err != nil {
		if matchlog.IsNotExist(err) {
			return []HistoryEntry{}, nil
		}
		return nil, err
	}
	return historyEntries(records), nil
}

func historyEntries(records []match.Record) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, HistoryEntry{
			Timestamp: r.Timestamp(),
			Mode:      string(r.Mode()),
			Win:       r.IsWin(),
			Display:   r.String(),
		})
	}
	return entries
}
