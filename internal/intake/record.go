package intake

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// DateLayout is the layout used for every date-valued field.
const DateLayout = "2006-01-02"

// msPerYear is the average Gregorian year in milliseconds.
const msPerYear = 31557600000

// PatientRecord is the form data collected for one patient.
type PatientRecord struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	MiddleName string `json:"middleName"`
	Age        int    `json:"age"`
	DOB        string `json:"dob"`
	Sex        string `json:"sex"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Employer   string `json:"employer"`

	PrimaryIns   string `json:"primaryIns"`
	PrimaryID    string `json:"primaryID"`
	PrimaryGroup string `json:"primaryGroup"`

	Complaints     []string `json:"complaints"`
	OnsetDate      string   `json:"onsetDate"`
	Duration       string   `json:"duration"`
	PainLevel      string   `json:"painLevel"`
	PainDesc       []string `json:"painDesc"`
	Limitations    []string `json:"limitations"`
	PriorCare      []string `json:"priorCare"`
	MedicalHistory []string `json:"medicalHistory"`

	Device          []string `json:"device"`
	DateDelivered   string   `json:"dateDelivered"`
	PatientInitials string   `json:"patientInitials"`
	PrimaryICD      string   `json:"primaryICD"`
	AdditionalICD   []string `json:"additionalICD"`

	PostureGait           string   `json:"postureGait"`
	LumbarMobility        string   `json:"lumbarMobility"`
	PainBehavior          []string `json:"painBehavior"`
	FunctionalImpact      []string `json:"functionalImpact"`
	OtherNotes            string   `json:"otherNotes"`
	MechanicalLBPFindings bool     `json:"mechanicalLBPFindings"`
	LengthOfNeed          string   `json:"lengthOfNeed"`
}

// NewPatientRecord returns the record a fresh patient starts with at an event:
// the clinic's usual findings pre-selected and the event date seeded into the
// onset and delivery dates.
func NewPatientRecord(eventDate string) PatientRecord {
	return PatientRecord{
		State:                 "NJ",
		Complaints:            []string{"lbp"},
		OnsetDate:             eventDate,
		Duration:              "Chronic (>3 mo)",
		PainLevel:             "6",
		PainDesc:              []string{},
		Limitations:           []string{"Difficulty standing"},
		PriorCare:             []string{"Home Treatment"},
		MedicalHistory:        []string{"No Significant Medical History"},
		Device:                []string{"L0631", "E0730"},
		DateDelivered:         eventDate,
		PrimaryICD:            "M54.50",
		AdditionalICD:         []string{},
		PostureGait:           "Guarded",
		LumbarMobility:        "Moderate Restriction",
		PainBehavior:          []string{"Pain on Movement"},
		FunctionalImpact:      []string{"Difficulty Standing/Sitting"},
		MechanicalLBPFindings: true,
		LengthOfNeed:          "3 months",
	}
}

// EmptyPatientRecord returns the fully cleared record used after the event changes.
func EmptyPatientRecord() PatientRecord {
	return PatientRecord{
		Complaints:       []string{},
		PainLevel:        "6",
		PainDesc:         []string{},
		Limitations:      []string{},
		PriorCare:        []string{},
		MedicalHistory:   []string{},
		Device:           []string{},
		PrimaryICD:       "M54.50",
		AdditionalICD:    []string{},
		PainBehavior:     []string{},
		FunctionalImpact: []string{},
		LengthOfNeed:     "3 months",
	}
}

// ListFields returns the JSON names of the multi-select fields.
func ListFields() []string {
	return []string{
		"complaints", "painDesc", "limitations", "priorCare", "medicalHistory",
		"device", "additionalICD", "painBehavior", "functionalImpact",
	}
}

func (r *PatientRecord) list(field string) (*[]string, bool) {
	switch field {
	case "complaints":
		return &r.Complaints, true
	case "painDesc":
		return &r.PainDesc, true
	case "limitations":
		return &r.Limitations, true
	case "priorCare":
		return &r.PriorCare, true
	case "medicalHistory":
		return &r.MedicalHistory, true
	case "device":
		return &r.Device, true
	case "additionalICD":
		return &r.AdditionalICD, true
	case "painBehavior":
		return &r.PainBehavior, true
	case "functionalImpact":
		return &r.FunctionalImpact, true
	}
	return nil, false
}

// Toggle flips membership of value in the named list field: it is appended
// when absent and removed when present.
func (r *PatientRecord) Toggle(field, value string) error {
	list, ok := r.list(field)
	if !ok {
		return fmt.Errorf("unknown list field: %q", field)
	}
	if i := slices.Index(*list, value); i >= 0 {
		*list = slices.Delete(slices.Clone(*list), i, i+1)
		return nil
	}
	*list = append(slices.Clone(*list), value)
	return nil
}

// Has reports whether value is selected in the named list field.
func (r *PatientRecord) Has(field, value string) bool {
	list, ok := r.list(field)
	if !ok {
		return false
	}
	return slices.Contains(*list, value)
}

// Values returns a copy of the named list field.
func (r *PatientRecord) Values(field string) []string {
	list, ok := r.list(field)
	if !ok {
		return nil
	}
	return slices.Clone(*list)
}

// SetValues replaces the named list field, dropping duplicates while keeping
// first-seen order.
func (r *PatientRecord) SetValues(field string, values []string) error {
	list, ok := r.list(field)
	if !ok {
		return fmt.Errorf("unknown list field: %q", field)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	*list = out
	return nil
}

// Clone returns a deep copy of the record.
func (r PatientRecord) Clone() PatientRecord {
	c := r
	for _, f := range ListFields() {
		list, _ := c.list(f)
		*list = slices.Clone(*list)
	}
	return c
}

// FullName joins first, middle and last name the way the packet prints them.
func (r *PatientRecord) FullName() string {
	parts := []string{r.FirstName}
	if r.MiddleName != "" {
		parts = append(parts, r.MiddleName)
	}
	parts = append(parts, r.LastName)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// SetDOB stores the date of birth and recomputes the age against now.
// An unparseable, empty or future date clears the age.
func (r *PatientRecord) SetDOB(dob string, now time.Time) {
	r.DOB = dob
	r.Age = 0
	if t, err := time.Parse(DateLayout, dob); err == nil {
		r.Age = AgeAt(t, now)
	}
}

// SetInitials stores the patient's initials upper-cased and bounded to four characters.
func (r *PatientRecord) SetInitials(s string) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if runes := []rune(s); len(runes) > 4 {
		s = string(runes[:4])
	}
	r.PatientInitials = s
}

// AgeAt returns the whole number of average Gregorian years between dob and now.
// A dob after now is age 0.
func AgeAt(dob, now time.Time) int {
	if dob.After(now) {
		return 0
	}
	ms := now.Sub(dob).Milliseconds()
	return int(math.Floor(float64(ms) / msPerYear))
}
