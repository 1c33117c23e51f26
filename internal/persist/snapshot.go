// Package persist keeps a single durable snapshot of the session in progress
// so an interrupted intake can be resumed.
package persist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SlotName is the name of the single durable slot.
const SlotName = "dme-intake-current"

//go:embed snapshot.schema.json
var schemaJSON []byte

var snapshotSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	const url = "snapshot.schema.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("add snapshot schema: %v", err))
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile snapshot schema: %v", err))
	}
	return schema
}

// Snapshot is the image-free projection of a session. Image-bearing fields
// are reduced to presence flags.
type Snapshot struct {
	Mode       intake.Mode                   `json:"mode"`
	Step       int                           `json:"step"`
	Company    string                        `json:"company"`
	EventDate  string                        `json:"eventDate"`
	EventName  string                        `json:"eventName"`
	Data       intake.PatientRecord          `json:"data"`
	Signatures map[intake.SignatureRole]bool `json:"signatures"`
	AutoRouted bool                          `json:"autoRouted"`

	HasInsuranceCardFront bool `json:"hasInsuranceCardFront"`
	HasInsuranceCardBack  bool `json:"hasInsuranceCardBack"`
	HasDriversLicense     bool `json:"hasDriversLicense"`
	HasRx                 bool `json:"hasRx"`

	Timestamp time.Time `json:"timestamp"`
}

// Encode serializes the snapshot.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode validates data against the snapshot schema and deserializes it.
// Any failure is reported as an *intake.CorruptSnapshotError.
func Decode(data []byte) (*Snapshot, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &intake.CorruptSnapshotError{Err: err}
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return nil, &intake.CorruptSnapshotError{Err: err}
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &intake.CorruptSnapshotError{Err: err}
	}
	if s.Mode == intake.ModeIntake && !intake.ValidStep(s.Step) {
		return nil, &intake.CorruptSnapshotError{Err: fmt.Errorf("step %d out of range", s.Step)}
	}
	if s.Signatures == nil {
		s.Signatures = map[intake.SignatureRole]bool{}
	}
	return &s, nil
}
