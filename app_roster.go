package main

import (
	"smashlog/internal/match"
	"smashlog/internal/roster"
)

// CharacterView represents a character tile in the selection grid
type CharacterView struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"displayName"`
	Game        string           `json:"game"`
	Image       string           `json:"img"`
	Placement   int              `json:"placement"`
	Claims      []match.SlotSpec `json:"claims"` // Slots currently holding this character
}

// CharacterDetails represents the per-character statistics panel
type CharacterDetails struct {
	HasData     bool               `json:"hasData"`
	ID          string             `json:"id"`
	DisplayName string             `json:"displayName"`
	Games       int                `json:"games"`
	Wins        int                `json:"wins"`
	WinRate     float64            `json:"winRate"`
	Matchups    []CharacterMatchup `json:"matchups"`
}

// CharacterMatchup represents 1v1 results against one opponent
type CharacterMatchup struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Games       int     `json:"games"`
	Wins        int     `json:"wins"`
	WinRate     float64 `json:"winRate"`
}

// GetCharacters returns the roster ordered by sortBy ("name", "place" or "game"),
// optionally filtered by a case-insensitive substring of the identifier
func (a *App) GetCharacters(sortBy string, reverse bool, search string) []CharacterView {
	if a.roster == nil {
		return nil
	}

	by := roster.SortBy(sortBy)
	switch by {
	case roster.SortByName, roster.SortByPlacement, roster.SortByGame:
	default:
		by = roster.SortByName
	}

	var characters []roster.Character
	if search != "" {
		characters = a.roster.Search(search, by, reverse)
	} else {
		characters = a.roster.Characters(by, reverse)
	}

	views := make([]CharacterView, 0, len(characters))
	for _, c := range characters {
		views = append(views, CharacterView{
			ID:          c.ID,
			DisplayName: c.DisplayName,
			Game:        c.Game,
			Image:       c.Image,
			Placement:   c.Placement,
			Claims:      a.claimsFor(c),
		})
	}
	return views
}

// GetStages returns the stage roster ordered by identifier
func (a *App) GetStages() []roster.Stage {
	if a.roster == nil {
		return nil
	}
	return a.roster.Stages()
}

// GetCharacterDetails returns results for a character played in the first slot
func (a *App) GetCharacterDetails(id string) *CharacterDetails {
	if a.roster == nil {
		return &CharacterDetails{HasData: false}
	}
	character, err := a.roster.Character(id)
	if err != nil {
		return &CharacterDetails{HasData: false, ID: id}
	}

	details := &CharacterDetails{
		ID:          character.ID,
		DisplayName: character.DisplayName,
		Matchups:    []CharacterMatchup{},
	}
	if a.matchDB == nil {
		return details
	}

	stats, err := a.matchDB.CharacterStats()
	if err != nil {
		a.log.Warn().Err(err).Str("character", id).Msg("Failed to load character stats")
		return details
	}
	for _, s := range stats {
		if s.CharacterID == character.ID {
			details.HasData = true
			details.Games = s.Games
			details.Wins = s.Wins
			details.WinRate = s.WinRate
		}
	}

	matchups, err := a.matchDB.Matchups(character.ID)
	if err != nil {
		a.log.Warn().Err(err).Str("character", id).Msg("Failed to load matchups")
		return details
	}
	for _, m := range matchups {
		name := m.OpponentID
		if opponent, err := a.roster.Character(m.OpponentID); err == nil {
			name = opponent.DisplayName
		}
		details.Matchups = append(details.Matchups, CharacterMatchup{
			ID:          m.OpponentID,
			DisplayName: name,
			Games:       m.Games,
			Wins:        m.Wins,
			WinRate:     m.WinRate,
		})
	}
	return details
}
