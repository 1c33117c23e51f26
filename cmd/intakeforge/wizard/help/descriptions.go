package help

// HelpText contains information about a field. GatesPacket marks the
// fields the packet cannot be printed without.
type HelpText struct {
	Title       string
	Description string
	Details     string
	GatesPacket bool
}

// Texts contains help information for the wizard fields, keyed by form field key
var Texts = map[string]HelpText{
	"event_name": {
		Title:       "EVENT NAME",
		Description: "Name of the screening event or clinic day.",
		Details:     "Printed on every packet generated during the event.",
	},
	"event_date": {
		Title:       "EVENT DATE",
		Description: "Date of the event.",
		Details: `Format: YYYY-MM-DD
Seeds the onset and delivery dates of each new patient.`,
	},
	"preset_path": {
		Title:       "SAVE PRESET",
		Description: "Optional path of a YAML preset for this event.",
		Details:     "Reload it later with: intakeforge run --from <path>",
	},
	"first_name": {
		Title:       "FIRST NAME",
		Description: "Patient's legal first name.",
		GatesPacket: true,
	},
	"last_name": {
		Title:       "LAST NAME",
		Description: "Patient's legal last name.",
		Details:     "Used in the packet file name.",
		GatesPacket: true,
	},
	"dob": {
		Title:       "DATE OF BIRTH",
		Description: "Patient's date of birth.",
		Details: `Format: YYYY-MM-DD
The age is computed automatically.`,
	},
	"state": {
		Title:       "STATE",
		Description: "Two-letter state code.",
	},
	"primary_ins": {
		Title:       "PRIMARY INSURANCE",
		Description: "The patient's primary insurance carrier.",
		Details: `Horizon and United Healthcare claims are billed to NJback Chiropractic Center.
Every other carrier is billed to BG Bracing.`,
	},
	"company": {
		Title:       "BILLING COMPANY",
		Description: "Override the automatic routing.",
		Details:     "Leave on Automatic unless the clinic instructs otherwise.",
	},
	"complaints": {
		Title:       "CHIEF COMPLAINTS",
		Description: "Select every complaint reported by the patient.",
	},
	"pain_level": {
		Title:       "PAIN LEVEL",
		Description: "Self-reported pain on a 0-10 scale.",
	},
	"mechanical": {
		Title:       "MECHANICAL FINDINGS",
		Description: "Findings are consistent with mechanical low back pain.",
		Details:     "Requires external stabilization to reduce motion, improve function and decrease pain.",
	},
	"initials": {
		Title:       "PATIENT INITIALS",
		Description: "Patient initials acknowledging the assessment summary.",
		Details:     "Up to four letters, upper-cased automatically.",
	},
	"device": {
		Title:       "DEVICES",
		Description: "HCPCS-coded devices dispensed to the patient.",
		Details: `L0631 - Lumbar Sacral Orthosis
E0730 - TENS Unit`,
	},
	"rx_path": {
		Title:       "PRESCRIPTION",
		Description: "Optional path to a prescription image or PDF.",
		Details:     "PDFs are attached as-is. Images are scaled like camera captures.",
	},
	"capture_path": {
		Title:       "DOCUMENT FILE",
		Description: "Path to a photo or scan of the document.",
		Details:     "JPEG, PNG, GIF, BMP, TIFF and WebP are accepted.",
	},
}
