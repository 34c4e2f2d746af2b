package main

import (
	"fmt"

	"smashlog/internal/match"
	"smashlog/internal/roster"
	"smashlog/internal/selection"
)

// ModeView describes a game mode for the mode picker
type ModeView struct {
	Tag   string           `json:"tag"`
	Name  string           `json:"name"`
	Slots []match.SlotSpec `json:"slots"`
}

// GetModes returns every supported game mode
func (a *App) GetModes() []ModeView {
	var views []ModeView
	for _, mode := range match.Modes() {
		views = append(views, ModeView{
			Tag:   string(mode),
			Name:  mode.Name(),
			Slots: mode.Slots(),
		})
	}
	return views
}

// GetSelection returns the current selection state
func (a *App) GetSelection() (selection.State, error) {
	if a.machine == nil {
		return selection.State{}, fmt.Errorf("no mode selected")
	}
	return a.machine.Snapshot(), nil
}

// SelectCharacter assigns the character to the slot whose turn it is
func (a *App) SelectCharacter(id string) error {
	if a.machine == nil {
		return fmt.Errorf("no mode selected")
	}
	character, err := a.roster.Character(id)
	if err != nil {
		return err
	}
	a.machine.SelectCharacter(character)
	return nil
}

// SetStock records the remaining stocks for a slot
func (a *App) SetStock(tag string, stocks int) error {
	if a.machine == nil {
		return fmt.Errorf("no mode selected")
	}
	return a.machine.SetStock(tag, stocks)
}

// SetStage selects the stage the match is played on
func (a *App) SetStage(id string) error {
	if a.machine == nil {
		return fmt.Errorf("no mode selected")
	}
	if _, err := a.roster.Stage(id); err != nil {
		return err
	}
	a.machine.SetStage(id)
	return nil
}

// SetTurn moves the turn pointer to the slot
func (a *App) SetTurn(tag string) error {
	if a.machine == nil {
		return fmt.Errorf("no mode selected")
	}
	return a.machine.SetTurn(tag)
}

// onSelectionEvent forwards selection changes to the frontend
func (a *App) onSelectionEvent(e selection.Event) {
	evt := a.log.Debug().Str("event", string(e.Type))
	if e.Slot != "" {
		evt = evt.Str("slot", e.Slot)
	}
	if e.Character != "" {
		evt = evt.Str("character", e.Character)
	}
	evt.Msg("Selection changed")

	a.emit("selection:event", e)
	a.emitSelection()
}

// claimsFor returns the slots currently holding the character
func (a *App) claimsFor(c roster.Character) []match.SlotSpec {
	if a.machine == nil {
		return nil
	}
	var claims []match.SlotSpec
	for _, tag := range a.machine.ClaimedBy(c.ID) {
		if slot, err := a.machine.Slot(tag); err == nil {
			claims = append(claims, slot.SlotSpec)
		}
	}
	return claims
}
