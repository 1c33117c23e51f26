// Package session drives one intake session: the wizard state machine, the
// patient record, billing routing and the hand-off to capture, signature,
// persistence and packet delivery.
package session

import (
	"maps"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
)

// Session is the aggregate state of one intake.
type Session struct {
	ID        string
	Mode      intake.Mode
	Step      int
	EventName string
	EventDate string

	Record     intake.PatientRecord
	Routing    intake.RoutingDecision
	Signatures intake.SignatureSet
	Captures   intake.CaptureSet

	LastSaved time.Time
}

func newSession(id string) Session {
	return Session{
		ID:         id,
		Mode:       intake.ModeSetup,
		Record:     intake.EmptyPatientRecord(),
		Signatures: intake.SignatureSet{},
		Captures:   intake.CaptureSet{},
	}
}

// clone returns a copy whose record and maps can be changed independently.
func (s Session) clone() Session {
	c := s
	c.Record = s.Record.Clone()
	c.Signatures = maps.Clone(s.Signatures)
	c.Captures = maps.Clone(s.Captures)
	return c
}

// Action is a destructive operator action that needs confirmation.
type Action int

const (
	// ActionNewPatient clears the patient but keeps the event.
	ActionNewPatient Action = iota
	// ActionChangeEvent clears everything and deletes the saved session.
	ActionChangeEvent
)

// Prompt is the confirmation question shown before the action runs.
func (a Action) Prompt() string {
	switch a {
	case ActionNewPatient:
		return "Start new patient for this event?"
	case ActionChangeEvent:
		return "Change event? All data will be cleared."
	default:
		return ""
	}
}

func (a Action) String() string {
	switch a {
	case ActionNewPatient:
		return "new-patient"
	case ActionChangeEvent:
		return "change-event"
	default:
		return "unknown"
	}
}
