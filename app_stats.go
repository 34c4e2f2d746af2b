package main

import (
	"fmt"

	"smashlog/internal/data"
)

// Stats represents the statistics panel
type Stats struct {
	HasData    bool                 `json:"hasData"`
	Summary    []data.ModeSummary   `json:"summary"`
	Characters []data.CharacterStat `json:"characters"`
	Stages     []data.StageStat     `json:"stages"`
}

// RebuildStats rebuilds the statistics index from the game log
func (a *App) RebuildStats() string {
	if a.matchDB == nil {
		return "Match index not initialized"
	}
	if err := a.rebuildIndex(); err != nil {
		return fmt.Sprintf("Rebuild failed: %v", err)
	}

	count, err := a.matchDB.Count()
	if err != nil {
		return fmt.Sprintf("Rebuild failed: %v", err)
	}
	return fmt.Sprintf("Indexed %d games", count)
}

// GetStats returns aggregated results from the statistics index
func (a *App) GetStats() *Stats {
	emptyStats := &Stats{HasData: false}

	if a.matchDB == nil {
		return emptyStats
	}

	summary, err := a.matchDB.Summary()
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to load mode summary")
		return emptyStats
	}
	characters, err := a.matchDB.CharacterStats()
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to load character stats")
		return emptyStats
	}
	stages, err := a.matchDB.StageStats()
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to load stage stats")
		return emptyStats
	}

	return &Stats{
		HasData:    len(summary) > 0,
		Summary:    summary,
		Characters: characters,
		Stages:     stages,
	}
}
