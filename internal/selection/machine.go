// Package selection tracks character selection for a match in progress:
// which slot is picking, what each slot holds, and when the match can be saved.
package selection

import (
	"fmt"
	"time"

	"smashlog/internal/match"
	"smashlog/internal/roster"
)

// EventType names a change made by the machine
type EventType string

const (
	EventSelected     EventType = "selected"
	EventDeselected   EventType = "deselected"
	EventTurnChanged  EventType = "turn"
	EventStockChanged EventType = "stock"
	EventStageChanged EventType = "stage"
	EventCleared      EventType = "cleared"
)

// Event is delivered to listeners after every change
type Event struct {
	Type      EventType `json:"type"`
	Slot      string    `json:"slot,omitempty"`
	Character string    `json:"character,omitempty"`
	Stocks    int       `json:"stocks,omitempty"`
	Stage     string    `json:"stage,omitempty"`
}

// Listener receives change notifications
type Listener func(Event)

// SlotState is a read-only copy of one slot
type SlotState struct {
	match.SlotSpec
	Character *roster.Character `json:"character"`
	Stocks    int               `json:"stocks"`
	HasStocks bool              `json:"hasStocks"`
	Active    bool              `json:"active"`
}

// State is a read-only copy of the whole machine
type State struct {
	Mode  match.Mode  `json:"mode"`
	Slots []SlotState `json:"slots"` // In turn order
	Turn  string      `json:"turn"`
	Stage string      `json:"stage"`
	Ready bool        `json:"ready"`
}

type slot struct {
	spec      match.SlotSpec
	character *roster.Character
	stocks    int
	hasStocks bool
}

// Machine is the selection state for one match. It is the only writer of its slots;
// readers take snapshots or subscribe to events.
type Machine struct {
	mode      match.Mode
	order     []string
	slots     map[string]*slot
	turn      int
	stage     string
	now       func() time.Time
	listeners []Listener
}

// Option configures a Machine
type Option func(*Machine)

// WithClock overrides the clock used to stamp assembled records
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithStage sets the initial stage
func WithStage(stage string) Option {
	return func(m *Machine) {
		m.stage = stage
	}
}

// New creates a machine for mode with every slot empty and the first slot active
func New(mode match.Mode, opts ...Option) (*Machine, error) {
	if !mode.Valid() {
		return nil, &match.UnknownModeError{Tag: string(mode)}
	}

	m := &Machine{
		mode:  mode,
		order: mode.TurnOrder(),
		slots: make(map[string]*slot),
		stage: match.DefaultStage,
		now:   time.Now,
	}
	for _, spec := range mode.Slots() {
		m.slots[spec.Tag] = &slot{spec: spec, hasStocks: true}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Subscribe registers a listener for change notifications
func (m *Machine) Subscribe(l Listener) {
	m.listeners = append(m.listeners, l)
}

func (m *Machine) emit(e Event) {
	for _, l := range m.listeners {
		l(e)
	}
}

func (m *Machine) Mode() match.Mode {
	return m.mode
}

// Turn returns the tag of the slot that receives the next selection
func (m *Machine) Turn() string {
	return m.order[m.turn]
}

// TurnIndex returns the position of the active slot in the turn order
func (m *Machine) TurnIndex() int {
	return m.turn
}

func (m *Machine) TurnOrder() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *Machine) Stage() string {
	return m.stage
}

// SelectCharacter assigns c to the active slot and passes the turn on.
// Picking the character the slot already holds changes nothing.
func (m *Machine) SelectCharacter(c roster.Character) {
	tag := m.Turn()
	s := m.slots[tag]

	if s.character != nil {
		if s.character.Equal(c) {
			return
		}
		previous := s.character.ID
		s.character = nil
		m.emit(Event{Type: EventDeselected, Slot: tag, Character: previous})
	}

	picked := c
	s.character = &picked
	m.emit(Event{Type: EventSelected, Slot: tag, Character: c.ID})

	m.turn = (m.turn + 1) % len(m.order)
	m.emit(Event{Type: EventTurnChanged, Slot: m.Turn()})
}

// SetStock sets a slot's remaining stock count. The turn is not affected.
func (m *Machine) SetStock(tag string, stocks int) error {
	s, err := m.slot(tag)
	if err != nil {
		return err
	}
	if stocks < 0 {
		return &match.ValidationError{
			Field:  "stocks",
			Reason: fmt.Sprintf("stock count must not be negative, got %d", stocks),
		}
	}

	s.stocks = stocks
	s.hasStocks = true
	m.emit(Event{Type: EventStockChanged, Slot: tag, Stocks: stocks})
	return nil
}

// ClearStock marks a slot's stock count as not entered
func (m *Machine) ClearStock(tag string) error {
	s, err := m.slot(tag)
	if err != nil {
		return err
	}

	s.stocks = 0
	s.hasStocks = false
	m.emit(Event{Type: EventStockChanged, Slot: tag})
	return nil
}

// SetStage sets the shared stage of the match
func (m *Machine) SetStage(stage string) {
	m.stage = stage
	m.emit(Event{Type: EventStageChanged, Stage: stage})
}

// SetTurn makes tag the active slot regardless of rotation
func (m *Machine) SetTurn(tag string) error {
	for i, t := range m.order {
		if t == tag {
			m.turn = i
			m.emit(Event{Type: EventTurnChanged, Slot: tag})
			return nil
		}
	}
	return unknownSlot(tag)
}

// DeselectAll clears every slot's character. Stocks, stage and turn are kept.
func (m *Machine) DeselectAll() {
	for _, tag := range m.order {
		s := m.slots[tag]
		if s.character == nil {
			continue
		}
		previous := s.character.ID
		s.character = nil
		m.emit(Event{Type: EventDeselected, Slot: tag, Character: previous})
	}
	m.emit(Event{Type: EventCleared})
}

// ReadyToSave reports whether every slot has a character and a stock count
func (m *Machine) ReadyToSave() bool {
	for _, s := range m.slots {
		if s.character == nil || !s.hasStocks {
			return false
		}
	}
	return true
}

// AssembleRecord projects the slots, in turn order, into a record draft stamped with
// the current time. Callers check ReadyToSave first; empty slots produce empty identifiers.
func (m *Machine) AssembleRecord() match.Draft {
	d := match.Draft{
		Mode:         m.mode,
		Participants: make([]string, len(m.order)),
		Stocks:       make([]int, len(m.order)),
		Stage:        m.stage,
		Timestamp:    match.ToTimestamp(m.now()),
	}
	for i, tag := range m.order {
		s := m.slots[tag]
		if s.character != nil {
			d.Participants[i] = s.character.ID
		}
		d.Stocks[i] = s.stocks
	}
	return d
}

// ClaimedBy returns the tags of the slots currently holding the character
func (m *Machine) ClaimedBy(characterID string) []string {
	var tags []string
	for _, tag := range m.order {
		if c := m.slots[tag].character; c != nil && c.ID == characterID {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Slot returns a copy of one slot
func (m *Machine) Slot(tag string) (SlotState, error) {
	s, err := m.slot(tag)
	if err != nil {
		return SlotState{}, err
	}
	return m.slotState(s), nil
}

// Snapshot returns a copy of the whole state
func (m *Machine) Snapshot() State {
	st := State{
		Mode:  m.mode,
		Slots: make([]SlotState, 0, len(m.order)),
		Turn:  m.Turn(),
		Stage: m.stage,
		Ready: m.ReadyToSave(),
	}
	for _, tag := range m.order {
		st.Slots = append(st.Slots, m.slotState(m.slots[tag]))
	}
	return st
}

func (m *Machine) slotState(s *slot) SlotState {
	st := SlotState{
		SlotSpec:  s.spec,
		Stocks:    s.stocks,
		HasStocks: s.hasStocks,
		Active:    s.spec.Tag == m.Turn(),
	}
	if s.character != nil {
		c := *s.character
		st.Character = &c
	}
	return st
}

func (m *Machine) slot(tag string) (*slot, error) {
	s, ok := m.slots[tag]
	if !ok {
		return nil, unknownSlot(tag)
	}
	return s, nil
}

func unknownSlot(tag string) error {
	return &match.ValidationError{Field: "slot", Reason: fmt.Sprintf("no slot %q in this mode", tag)}
}
