// Package packet assembles the printable DME claim packet and delivers it
// to the print sink.
package packet

import (
	"context"
	"strings"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
)

// Packet is the fully populated structure handed to a Sink. It owns copies
// of everything it references, so later session edits do not leak into it.
type Packet struct {
	GeneratedAt time.Time
	EventName   string
	EventDate   string

	Patient    intake.PatientRecord
	Company    intake.Company
	AutoRouted bool

	Captures   map[intake.CaptureRole]*intake.Artifact
	Signatures map[intake.SignatureRole]*intake.Artifact
	// Signed lists roles signed in an earlier run whose images were not kept.
	Signed map[intake.SignatureRole]bool
}

// Input is what the session provides to Assemble.
type Input struct {
	EventName  string
	EventDate  string
	Patient    intake.PatientRecord
	Routing    intake.RoutingDecision
	Captures   intake.CaptureSet
	Signatures intake.SignatureSet
	Now        time.Time
}

// Assemble validates the input and builds a Packet. The patient's first and
// last name are required; everything else may be blank.
func Assemble(in Input) (*Packet, error) {
	var missing []string
	if strings.TrimSpace(in.Patient.FirstName) == "" {
		missing = append(missing, "first name")
	}
	if strings.TrimSpace(in.Patient.LastName) == "" {
		missing = append(missing, "last name")
	}
	if len(missing) > 0 {
		return nil, &intake.MissingFieldError{Fields: missing}
	}

	p := &Packet{
		GeneratedAt: in.Now,
		EventName:   in.EventName,
		EventDate:   in.EventDate,
		Patient:     in.Patient.Clone(),
		Company:     intake.LookupCompany(in.Routing.CompanyID),
		AutoRouted:  in.Routing.AutoRouted,
		Captures:    make(map[intake.CaptureRole]*intake.Artifact),
		Signatures:  make(map[intake.SignatureRole]*intake.Artifact),
		Signed:      make(map[intake.SignatureRole]bool),
	}

	for role, art := range in.Captures {
		if art != nil {
			p.Captures[role] = copyArtifact(art)
		}
	}
	for role, entry := range in.Signatures {
		if entry == nil {
			continue
		}
		p.Signed[role] = true
		if entry.Artifact != nil {
			p.Signatures[role] = copyArtifact(entry.Artifact)
		}
	}
	return p, nil
}

func copyArtifact(a *intake.Artifact) *intake.Artifact {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// FullName returns the patient's printed name.
func (p *Packet) FullName() string {
	return p.Patient.FullName()
}

// ServiceDate is the event date, or the generation date when no event date was set.
func (p *Packet) ServiceDate() string {
	if p.EventDate != "" {
		return p.EventDate
	}
	return p.GeneratedAt.Format(intake.DateLayout)
}

// FileName returns the base name used for the rendered packet, without extension.
func (p *Packet) FileName() string {
	name := p.Patient.LastName + "_" + p.Patient.FirstName + "_" + p.EventDate
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, name)
}

// Sink delivers an assembled packet for display or printing and returns
// where it was written.
type Sink interface {
	Deliver(ctx context.Context, p *Packet) (string, error)
}
