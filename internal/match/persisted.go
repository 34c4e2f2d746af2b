package match

// Persisted is the log file shape of a record.
// Time is a pointer because records written before timestamping have none.
type Persisted struct {
	Time       *float64 `json:"time,omitempty"`
	Type       string   `json:"type"`
	Characters []string `json:"characters"`
	Stocks     []int    `json:"stocks"`
	Stage      string   `json:"stage"`
}

// ToPersisted converts the record to its log form. Participants are written as identifiers.
func (r Record) ToPersisted() Persisted {
	ts := r.timestamp
	characters := make([]string, len(r.participants))
	for i, c := range r.participants {
		characters[i] = c.ID
	}
	return Persisted{
		Time:       &ts,
		Type:       string(r.mode),
		Characters: characters,
		Stocks:     r.Stocks(),
		Stage:      r.stage,
	}
}

// FromPersisted rebuilds a record from its log form.
// A missing time is replaced with the current time.
func FromPersisted(p Persisted, lookup CharacterLookup) (Record, error) {
	mode, err := ParseMode(p.Type)
	if err != nil {
		return Record{}, err
	}

	var ts float64
	if p.Time != nil {
		ts = *p.Time
	} else {
		ts = ToTimestamp(timeNow())
	}

	return resolve(Draft{
		Mode:         mode,
		Participants: p.Characters,
		Stocks:       p.Stocks,
		Stage:        p.Stage,
		Timestamp:    ts,
	}, lookup)
}
