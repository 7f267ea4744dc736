package models

import "time"

type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateWatching  SessionState = "watching"
	StateConfirmed SessionState = "confirmed"
	StateError     SessionState = "error"
)

func (s SessionState) Terminal() bool {
	return s == StateConfirmed || s == StateError
}

type ErrorKind string

const (
	ErrorKindNone          ErrorKind = ""
	ErrorKindConfiguration ErrorKind = "configuration"
	ErrorKindTimeout       ErrorKind = "timeout"
)

// SessionStatus is the read-only view of a watch session handed to callers.
type SessionStatus struct {
	ID        string          `json:"id"`
	Chain     string          `json:"chain"`
	Asset     string          `json:"asset"`
	State     SessionState    `json:"state"`
	Attempts  int             `json:"attempts"`
	ErrorKind ErrorKind       `json:"errorKind,omitempty"`
	Message   string          `json:"message,omitempty"`
	Active    bool            `json:"active"`
	Baseline  string          `json:"baseline"`
	StartedAt time.Time       `json:"startedAt"`
	Record    *DonationRecord `json:"record,omitempty"`
}
