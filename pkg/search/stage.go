package search

// Stage is how far a search got.
type Stage int

const (
	Idle Stage = iota
	RouteResolved
	PredictionReceived
	HistoryPersisted
	Aborted
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case RouteResolved:
		return "route_resolved"
	case PredictionReceived:
		return "prediction_received"
	case HistoryPersisted:
		return "history_persisted"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// StepKind decides what a failing step does to the search.
type StepKind int

const (
	// Required steps abort the search when they fail.
	Required StepKind = iota
	// BestEffort steps are logged and recorded but never fail the search.
	BestEffort
)
