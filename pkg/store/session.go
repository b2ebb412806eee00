package store

import "time"

// GateStatus distinguishes "never tried" from "tried and failed" so the UI
// only shows a password error after a failed attempt.
type GateStatus string

const (
	GateNotAttempted GateStatus = "not_attempted"
	GateGranted      GateStatus = "granted"
	GateDenied       GateStatus = "denied"
)

type Location string

const (
	LocationSingapore Location = "Singapore"
	LocationOthers    Location = "Others"
)

type Need string

const (
	NeedCPF Need = "CPF"
)

// Selector options in display order.
var (
	Locations = []Location{LocationSingapore, LocationOthers}
	Needs     = []Need{NeedCPF}
)

// QueryContext is the location/need pair attached to every question.
type QueryContext struct {
	Location Location `json:"location"`
	Need     Need     `json:"need"`
}

func DefaultQueryContext() QueryContext {
	return QueryContext{Location: LocationSingapore, Need: NeedCPF}
}

// Session is the per-browser state. The password candidate is never stored.
type Session struct {
	ID        string     `json:"id"`
	Gate      GateStatus `json:"gate"`
	Location  Location   `json:"location"`
	Need      Need       `json:"need"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewSession(id string) *Session {
	qctx := DefaultQueryContext()
	return &Session{
		ID:        id,
		Gate:      GateNotAttempted,
		Location:  qctx.Location,
		Need:      qctx.Need,
		CreatedAt: time.Now(),
	}
}

func (s *Session) Authenticated() bool {
	return s.Gate == GateGranted
}

func (s *Session) Context() QueryContext {
	return QueryContext{Location: s.Location, Need: s.Need}
}

func (s *Session) SetContext(qctx QueryContext) {
	s.Location = qctx.Location
	s.Need = qctx.Need
}

func ParseLocation(v string) (Location, bool) {
	for _, l := range Locations {
		if string(l) == v {
			return l, true
		}
	}
	return "", false
}

func ParseNeed(v string) (Need, bool) {
	for _, n := range Needs {
		if string(n) == v {
			return n, true
		}
	}
	return "", false
}
