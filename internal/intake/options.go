package intake

import "strconv"

// Option is one selectable value of a form field.
type Option struct {
	Value string
	Label string
	// Detail is shown under the label where the form has room.
	Detail string
}

// Labels returns the label of each value, keeping unknown values as-is.
func Labels(opts []Option, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, Label(opts, v))
	}
	return out
}

// Label returns the label of value, or value itself when it is not listed.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func plain(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: v}
	}
	return opts
}

var (
	InsuranceOptions = plain(
		"Horizon Blue Cross Blue Shield", "United Healthcare", "Aetna",
		"Meritain", "Cigna", "Amerihealth", "Other",
	)

	MedicalHistoryOptions = plain(
		"Diabetes", "Cardiac Disease", "Arthritis", "Respiratory Disorder",
		"No Significant Medical History",
	)

	LimitationOptions = plain(
		"Difficulty walking", "Difficulty sitting", "Difficulty standing",
		"Limited bending", "Sleep disturbance", "Postural Weakness",
		"Reduced ROM", "Limited Lifting",
	)

	PriorCareOptions = plain(
		"Chiropractic", "Physical Therapy", "Medication", "Surgery",
		"Injection", "Home Treatment", "None",
	)

	ComplaintOptions = []Option{
		{Value: "lbp", Label: "Lower back pain"},
		{Value: "lumbar", Label: "Lumbar instability"},
		{Value: "degen", Label: "Degenerative disc"},
	}

	DurationOptions = plain("Acute (<3 mo)", "Chronic (>3 mo)")

	PostureGaitOptions = plain("Neutral", "Antalgic", "Guarded")

	LumbarMobilityOptions = plain("Mild Restriction", "Moderate Restriction", "Severe Restriction")

	PainBehaviorOptions = plain("Local Tenderness", "Muscle Guarding", "Pain on Movement")

	FunctionalImpactOptions = plain("Limited ADL Performance", "Difficulty Standing/Sitting", "Sleep Disturbance")

	PrimaryICDOptions = []Option{
		{Value: "M54.50", Label: "Low Back Pain, Unspecified"},
	}

	AdditionalICDOptions = []Option{
		{Value: "M51.16", Label: "Degenerative Disc Disease (Lumbar)"},
		{Value: "M47.819", Label: "Spondylosis, Unspecified"},
	}

	DeviceOptions = []Option{
		{Value: "L0631", Label: "Lumbar Sacral Orthosis", Detail: "Pain reduction and stabilization | Frequency: 6 hours/day"},
		{Value: "E0730", Label: "TENS Unit", Detail: "Adjunct pain management"},
	}

	LengthOfNeedOptions = []Option{
		{Value: "3 months", Label: "3 Months"},
		{Value: "6 months", Label: "6 Months"},
		{Value: "12 months", Label: "12 Months"},
		{Value: "Lifetime", Label: "Lifetime"},
	}
)

// PainLevelOptions returns the 0-10 scale with the anchor descriptions.
func PainLevelOptions() []Option {
	anchors := map[int]string{0: " - No Pain", 3: " - Mild", 6: " - Moderate", 8: " - Severe", 10: " - Worst"}
	opts := make([]Option, 0, 11)
	for n := 0; n <= 10; n++ {
		v := strconv.Itoa(n)
		opts = append(opts, Option{Value: v, Label: v + anchors[n]})
	}
	return opts
}
