package match

// Mode identifies a game variant. Its value is the tag written to the log.
type Mode string

const (
	OneVOne    Mode = "sp"
	TwoVTwo    Mode = "mp"
	FreeForAll Mode = "ffa"
)

// Slot colours
const (
	ColorRed    = "#E3242B"
	ColorBlue   = "#2A6FDB"
	ColorYellow = "#F5C518"
	ColorGreen  = "#3CB043"
)

// SlotSpec describes one participant position of a mode
type SlotSpec struct {
	Tag   string `json:"tag"`   // e.g., "own", "opp1"
	Color string `json:"color"` // Banner colour
	Label string `json:"label"` // e.g., "Player 1"
	Short string `json:"short"` // e.g., "P1"
}

// modeSpec carries everything that differs between modes.
// Slot 0 (and slot 1 for TwoVTwo) is always the local side.
type modeSpec struct {
	name   string
	slots  []SlotSpec
	win    func(stocks []int) bool
	format func(r Record) string
}

// modes is filled in init: the display templates call back into IsWin, which reads it.
var modes map[Mode]modeSpec

func init() {
	modes = map[Mode]modeSpec{
		OneVOne: {
			name: "1v1",
			slots: []SlotSpec{
				{Tag: "own", Color: ColorRed, Label: "Player 1", Short: "P1"},
				{Tag: "opp", Color: ColorBlue, Label: "Player 2", Short: "P2"},
			},
			win: func(stocks []int) bool {
				return stocks[0] > stocks[1]
			},
			format: formatOneVOne,
		},
		TwoVTwo: {
			name: "2v2",
			slots: []SlotSpec{
				{Tag: "own1", Color: ColorRed, Label: "Player 1", Short: "P1"},
				{Tag: "own2", Color: ColorRed, Label: "Player 2", Short: "P2"},
				{Tag: "opp1", Color: ColorBlue, Label: "Player 3", Short: "P3"},
				{Tag: "opp2", Color: ColorBlue, Label: "Player 4", Short: "P4"},
			},
			win: func(stocks []int) bool {
				return stocks[0]+stocks[1] > stocks[2]+stocks[3]
			},
			format: formatTwoVTwo,
		},
		FreeForAll: {
			name: "ffa",
			slots: []SlotSpec{
				{Tag: "own", Color: ColorRed, Label: "Player 1", Short: "P1"},
				{Tag: "opp1", Color: ColorBlue, Label: "Player 2", Short: "P2"},
				{Tag: "opp2", Color: ColorYellow, Label: "Player 3", Short: "P3"},
				{Tag: "opp3", Color: ColorGreen, Label: "Player 4", Short: "P4"},
			},
			// Ties go to the local player
			win: func(stocks []int) bool {
				for _, s := range stocks[1:] {
					if stocks[0] < s {
						return false
					}
				}
				return true
			},
			format: formatFreeForAll,
		},
	}
}

// Modes returns every known mode in menu order
func Modes() []Mode {
	return []Mode{OneVOne, TwoVTwo, FreeForAll}
}

// ParseMode converts a log tag into a Mode
func ParseMode(tag string) (Mode, error) {
	m := Mode(tag)
	if !m.Valid() {
		return "", &UnknownModeError{Tag: tag}
	}
	return m, nil
}

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	_, ok := modes[m]
	return ok
}

// Name returns the short human name (e.g., "2v2")
func (m Mode) Name() string {
	return modes[m].name
}

// ParticipantCount returns the number of slots in the mode
func (m Mode) ParticipantCount() int {
	return len(modes[m].slots)
}

// Slots returns the slot specs in turn order
func (m Mode) Slots() []SlotSpec {
	spec := modes[m].slots
	slots := make([]SlotSpec, len(spec))
	copy(slots, spec)
	return slots
}

// TurnOrder returns the slot tags in selection order
func (m Mode) TurnOrder() []string {
	spec := modes[m].slots
	order := make([]string, len(spec))
	for i, s := range spec {
		order[i] = s.Tag
	}
	return order
}

// IsWin applies the mode's win rule to a stock list of the right length
func (m Mode) IsWin(stocks []int) bool {
	spec, ok := modes[m]
	if !ok || len(stocks) != len(spec.slots) {
		return false
	}
	return spec.win(stocks)
}
