package experiment

// MergeOutcome describes what Accumulator.Merge did with a session result.
type MergeOutcome int

const (
	// MergeCreated means the animal was seen for the first time.
	MergeCreated MergeOutcome = iota
	// MergeUpdated means a new session was added to a known animal.
	MergeUpdated
	// MergeOverwritten means the session was already recorded and was replaced.
	MergeOverwritten
)

// String returns a short name for the outcome.
func (o MergeOutcome) String() string {
	switch o {
	case MergeCreated:
		return "created"
	case MergeUpdated:
		return "updated"
	case MergeOverwritten:
		return "overwritten"
	default:
		return "unknown"
	}
}

// AnimalRecord accumulates the sessions of one animal.
type AnimalRecord struct {
	AnimalID   string
	Sessions   map[string]SessionMetrics
	Recordings map[string]string
	Conditions map[string]string
}

// Session returns the metrics of a session label.
func (r *AnimalRecord) Session(label string) (SessionMetrics, bool) {
	m, ok := r.Sessions[label]
	return m, ok
}

// Accumulator merges session results into one record per animal,
// keeping first-seen order.
type Accumulator struct {
	records map[string]*AnimalRecord
	order   []string
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{records: make(map[string]*AnimalRecord)}
}

// Merge adds a session result. A session already present for the animal is
// replaced by the new result.
func (a *Accumulator) Merge(res SessionResult) MergeOutcome {
	rec, exists := a.records[res.AnimalID]
	if !exists {
		rec = &AnimalRecord{
			AnimalID:   res.AnimalID,
			Sessions:   make(map[string]SessionMetrics),
			Recordings: make(map[string]string),
			Conditions: make(map[string]string),
		}
		a.records[res.AnimalID] = rec
		a.order = append(a.order, res.AnimalID)
	}

	_, replaced := rec.Sessions[res.Session]
	rec.Sessions[res.Session] = res.Metrics
	rec.Recordings[res.Session] = res.Recording
	for k, v := range res.Conditions {
		rec.Conditions[k] = v
	}

	switch {
	case !exists:
		return MergeCreated
	case replaced:
		return MergeOverwritten
	default:
		return MergeUpdated
	}
}

// Get returns the record of an animal.
func (a *Accumulator) Get(animalID string) (*AnimalRecord, bool) {
	rec, ok := a.records[animalID]
	return rec, ok
}

// Len returns the number of animals.
func (a *Accumulator) Len() int {
	return len(a.order)
}

// Records returns the records in first-seen order.
func (a *Accumulator) Records() []*AnimalRecord {
	out := make([]*AnimalRecord, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.records[id])
	}
	return out
}
