package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
)

// Character holds a selectable character from the roster file
type Character struct {
	ID          string `json:"id"`          // Unique name (e.g., "captain_falcon")
	Image       string `json:"img"`         // Image file name, resolved by the frontend
	DisplayName string `json:"displayName"` // Display name (e.g., "Captain Falcon")
	Game        string `json:"game"`        // Source game label
	Placement   int    `json:"placement"`   // Display order rank
}

// Equal compares characters by identifier only
func (c Character) Equal(other Character) bool {
	return c.ID == other.ID
}

func (c Character) String() string {
	return c.DisplayName + " (" + c.Game + ")"
}

// Stage holds a selectable stage from the stage file
type Stage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"img"`
	DisplayName string `json:"displayName"`
}

func (s Stage) String() string {
	return s.DisplayName
}

// characterJSON is the on-disk shape of a character entry
type characterJSON struct {
	Image       string `json:"img"`
	DisplayName string `json:"display_name"`
	Game        string `json:"game"`
	Placement   int    `json:"placement"`
}

// stageJSON is the on-disk shape of a stage entry
type stageJSON struct {
	Name        string `json:"name"`
	Image       string `json:"img"`
	DisplayName string `json:"display_name"`
}

// SortBy selects the ordering of a character listing
type SortBy string

const (
	SortByName      SortBy = "name"
	SortByPlacement SortBy = "place"
	SortByGame      SortBy = "game"
)

// Repository holds the character and stage rosters.
// It is built once at startup and never mutated afterwards.
type Repository struct {
	characters map[string]Character
	stages     map[string]Stage
}

// NewRepository creates a repository from already-loaded entities
func NewRepository(characters []Character, stages []Stage) *Repository {
	r := &Repository{
		characters: make(map[string]Character, len(characters)),
		stages:     make(map[string]Stage, len(stages)),
	}
	for _, c := range characters {
		r.characters[c.ID] = c
	}
	for _, s := range stages {
		r.stages[s.ID] = s
	}
	return r
}

// Load reads both roster files from disk
func Load(charactersPath, stagesPath string) (*Repository, error) {
	cf, err := os.Open(charactersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open character roster: %w", err)
	}
	defer cf.Close()

	characters, err := LoadCharacters(cf)
	if err != nil {
		return nil, err
	}

	sf, err := os.Open(stagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open stage roster: %w", err)
	}
	defer sf.Close()

	stages, err := LoadStages(sf)
	if err != nil {
		return nil, err
	}

	return NewRepository(characters, stages), nil
}

// LoadCharacters parses a character roster: {id: {img, display_name, game, placement}}
func LoadCharacters(r io.Reader) ([]Character, error) {
	var raw map[string]characterJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse character roster: %w", err)
	}

	characters := make([]Character, 0, len(raw))
	for id, c := range raw {
		characters = append(characters, Character{
			ID:          id,
			Image:       c.Image,
			DisplayName: c.DisplayName,
			Game:        c.Game,
			Placement:   c.Placement,
		})
	}
	sortCharacters(characters, SortByName, false)
	return characters, nil
}

// LoadStages parses a stage roster: {id: {name, img, display_name}}
func LoadStages(r io.Reader) ([]Stage, error) {
	var raw map[string]stageJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse stage roster: %w", err)
	}

	stages := make([]Stage, 0, len(raw))
	for id, s := range raw {
		stages = append(stages, Stage{
			ID:          id,
			Name:        s.Name,
			Image:       s.Image,
			DisplayName: s.DisplayName,
		})
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].ID < stages[j].ID })
	return stages, nil
}

// Character returns the character for a given identifier
func (r *Repository) Character(id string) (Character, error) {
	if c, ok := r.characters[id]; ok {
		return c, nil
	}
	return Character{}, &UnknownCharacterError{ID: id}
}

// Stage returns the stage for a given identifier
func (r *Repository) Stage(id string) (Stage, error) {
	if s, ok := r.stages[id]; ok {
		return s, nil
	}
	return Stage{}, &UnknownStageError{ID: id}
}

// Characters returns every character in the requested order
func (r *Repository) Characters(by SortBy, reverse bool) []Character {
	characters := make([]Character, 0, len(r.characters))
	for _, c := range r.characters {
		characters = append(characters, c)
	}
	sortCharacters(characters, by, reverse)
	return characters
}

// Search returns the characters whose identifier contains expr, ignoring case.
// An empty expression matches everything.
func (r *Repository) Search(expr string, by SortBy, reverse bool) []Character {
	all := r.Characters(by, reverse)
	if expr == "" {
		return all
	}

	pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(expr))
	matched := make([]Character, 0, len(all))
	for _, c := range all {
		if pattern.MatchString(c.ID) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Stages returns every stage ordered by identifier
func (r *Repository) Stages() []Stage {
	stages := make([]Stage, 0, len(r.stages))
	for _, s := range r.stages {
		stages = append(stages, s)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].ID < stages[j].ID })
	return stages
}

// Len returns the number of characters
func (r *Repository) Len() int {
	return len(r.characters)
}

func sortCharacters(characters []Character, by SortBy, reverse bool) {
	less := func(a, b Character) bool {
		switch by {
		case SortByPlacement:
			if a.Placement != b.Placement {
				return a.Placement < b.Placement
			}
		case SortByGame:
			if a.Game != b.Game {
				return a.Game < b.Game
			}
		}
		return a.ID < b.ID
	}

	sort.SliceStable(characters, func(i, j int) bool {
		if reverse {
			return less(characters[j], characters[i])
		}
		return less(characters[i], characters[j])
	})
}
