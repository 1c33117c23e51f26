// Package intake holds the data model shared by every stage of a DME intake
// session: the patient record, signature and capture roles, billing company
// routing and the error taxonomy surfaced to the operator.
package intake

import (
	"fmt"
	"strings"
)

// Mode is the top-level phase of the wizard.
type Mode string

const (
	// ModeSetup collects the event name and date.
	ModeSetup Mode = "setup"
	// ModeCapture offers optional document capture before the form.
	ModeCapture Mode = "capture"
	// ModeIntake walks the numbered intake steps.
	ModeIntake Mode = "intake"
)

// AllModes returns all known modes in lifecycle order.
func AllModes() []Mode {
	return []Mode{ModeSetup, ModeCapture, ModeIntake}
}

// ParseMode converts a string to a Mode (case-insensitive).
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllModes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mode: %q (valid values: setup, capture, intake)", s)
}

// Intake steps. Step is only meaningful in ModeIntake.
const (
	StepIdentity = iota + 1
	StepInsurance
	StepHistory
	StepClinical
	StepDiagnosis
	StepSignatures
	StepReview
)

// TotalSteps is the number of intake steps; the last one exposes packet generation.
const TotalSteps = StepReview

// StepTitle returns the heading shown for an intake step.
func StepTitle(step int) string {
	switch step {
	case StepIdentity:
		return "Patient Identity"
	case StepInsurance:
		return "Insurance & Billing"
	case StepHistory:
		return "Medical History"
	case StepClinical:
		return "Clinical Findings"
	case StepDiagnosis:
		return "Diagnosis & Devices"
	case StepSignatures:
		return "Signatures"
	case StepReview:
		return "Review & Print"
	default:
		return ""
	}
}

// ValidStep reports whether step is a valid intake step.
func ValidStep(step int) bool {
	return step >= 1 && step <= TotalSteps
}
