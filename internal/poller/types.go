package poller

import "net/http"

// State is a position in the poll loop's lifecycle.
type State int

const (
	StateIdle State = iota
	StateProbing
	StateRetrying
	StateHealthy
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateRetrying:
		return "retrying"
	case StateHealthy:
		return "healthy"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// ProbeTarget is one candidate health path, tried in order within a cycle.
type ProbeTarget struct {
	Name string
	Path string
}

// DefaultTargets is the standard probe order: the health endpoint first,
// then the swagger page as a fallback for services without one.
var DefaultTargets = []ProbeTarget{
	{Name: "health", Path: "health"},
	{Name: "swagger", Path: "swagger"},
}

// ProbeOutcome is the result of a single probe.
// StatusCode is 0 when Err is set.
type ProbeOutcome struct {
	Target     ProbeTarget
	StatusCode int
	Err        error
}

// IsHealthy reports whether the probe saw the success status.
func (o ProbeOutcome) IsHealthy() bool {
	return o.Err == nil && o.StatusCode == http.StatusOK
}

// Outcome is the terminal result of a poll run. State is StateHealthy or
// StateExhausted; Target and StatusCode are only set for StateHealthy.
type Outcome struct {
	State      State
	Target     ProbeTarget
	StatusCode int
	Attempts   int
}

// Healthy reports whether the run ended with a successful probe.
func (o Outcome) Healthy() bool {
	return o.State == StateHealthy
}
