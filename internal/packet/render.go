package packet

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"

	"github.com/mrsinham/intakeforge/internal/intake"
)

//go:embed templates/packet.html.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
	"complaints": func(items []string) string {
		return strings.Join(intake.Labels(intake.ComplaintOptions, items), ", ")
	},
	"icd": func(code string) string {
		return intake.Label(slices.Concat(intake.PrimaryICDOptions, intake.AdditionalICDOptions), code)
	},
	// Artifacts are produced in-process, so their data URIs are trusted.
	"src": func(a *intake.Artifact) template.URL { return template.URL(a.DataURI()) },
}

var packetTemplate = template.Must(template.New("packet.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/packet.html.tmpl"))

type signatureView struct {
	Role        intake.SignatureRole
	Label       string
	Attestation string
	Artifact    *intake.Artifact
	Signed      bool
	Provider    bool
}

type deviceView struct {
	Code, Name, Indication string
}

type view struct {
	*Packet
	Title        string
	Devices      []deviceView
	Additional   []string
	SignatureSet []signatureView
	CardFront    *intake.Artifact
	CardBack     *intake.Artifact
	License      *intake.Artifact
	Prescription *intake.Artifact
}

func newView(p *Packet) view {
	v := view{
		Packet:    p,
		Title:     p.FileName(),
		CardFront: p.Captures[intake.CaptureInsuranceFront],
		CardBack:  p.Captures[intake.CaptureInsuranceBack],
		License:   p.Captures[intake.CaptureLicense],
	}
	if rx := p.Captures[intake.CapturePrescription]; rx.IsImage() {
		v.Prescription = rx
	}
	for _, d := range intake.DeviceOptions {
		if p.Patient.Has("device", d.Value) {
			indication, _, _ := strings.Cut(d.Detail, " | ")
			v.Devices = append(v.Devices, deviceView{Code: d.Value, Name: d.Label, Indication: indication})
		}
	}
	for _, code := range p.Patient.AdditionalICD {
		if code != p.Patient.PrimaryICD {
			v.Additional = append(v.Additional, code)
		}
	}
	for _, role := range intake.AllSignatureRoles() {
		v.SignatureSet = append(v.SignatureSet, signatureView{
			Role:        role,
			Label:       role.Label(),
			Attestation: role.Attestation(),
			Artifact:    p.Signatures[role],
			Signed:      p.Signed[role],
			Provider:    role == intake.SignatureProvider,
		})
	}
	return v
}

// Render writes the packet as a standalone HTML document.
func Render(w io.Writer, p *Packet) error {
	if err := packetTemplate.Execute(w, newView(p)); err != nil {
		return fmt.Errorf("rendering packet: %w", err)
	}
	return nil
}
