package domain

import "time"

// SupervisorStatus is the persisted view of a supervised session, written
// after every state change so external tools can see what a long-running
// process is doing.
type SupervisorStatus struct {
	State      string    `json:"state"`
	SessionID  string    `json:"session_id,omitempty"`
	Opens      int       `json:"opens"`
	Reconnects int       `json:"reconnects"`
	LastError  string    `json:"last_error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
