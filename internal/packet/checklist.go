package packet

import "github.com/mrsinham/intakeforge/internal/intake"

// ChecklistItem is one line of the review screen.
type ChecklistItem struct {
	Label    string
	Done     bool
	Optional bool
	// Step is the intake step where the item is filled in.
	Step int
}

// Checklist summarizes what has been collected for the review step.
func Checklist(rec *intake.PatientRecord, routing intake.RoutingDecision, captures intake.CaptureSet, sigs intake.SignatureSet) []ChecklistItem {
	items := []ChecklistItem{
		{Label: "Patient name", Done: rec.FirstName != "" && rec.LastName != "", Step: intake.StepIdentity},
		{Label: "Date of birth", Done: rec.DOB != "", Step: intake.StepIdentity},
		{Label: "Insurance", Done: rec.PrimaryIns != "" && rec.PrimaryID != "", Step: intake.StepInsurance},
		{Label: "Billing company", Done: routing.CompanyID != "", Step: intake.StepInsurance},
		{Label: "Devices", Done: len(rec.Device) > 0, Step: intake.StepDiagnosis},
		{Label: "Patient initials", Done: rec.PatientInitials != "", Step: intake.StepDiagnosis},
	}
	for _, role := range intake.AllCaptureRoles() {
		step := intake.StepInsurance
		if role == intake.CapturePrescription {
			step = intake.StepDiagnosis
		}
		items = append(items, ChecklistItem{Label: role.Label(), Done: captures.Has(role), Optional: true, Step: step})
	}
	for _, role := range intake.AllSignatureRoles() {
		items = append(items, ChecklistItem{
			Label:    role.Label() + " signature",
			Done:     sigs.Signed(role),
			Optional: role.Optional(),
			Step:     intake.StepSignatures,
		})
	}
	return items
}
