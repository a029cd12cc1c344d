package model

import "encoding/json"

// TestType identifies the kind of measurement performed.
type TestType string

const (
	TestTypeRCD          TestType = "RCD Test"
	TestTypeIsolation    TestType = "Isolationstest"
	TestTypeContinuity   TestType = "Kontinuitetstest"
	TestTypeEarthing     TestType = "Jordingstest"
	TestTypeShortCircuit TestType = "Kortslutningstest"
)

// TestTypes lists every test type in display order.
var TestTypes = []TestType{
	TestTypeRCD,
	TestTypeIsolation,
	TestTypeContinuity,
	TestTypeEarthing,
	TestTypeShortCircuit,
}

// Unit returns the measurement unit recorded for the test type.
func (t TestType) Unit() string {
	switch t {
	case TestTypeRCD:
		return "ms"
	case TestTypeIsolation:
		return "MΩ"
	case TestTypeContinuity, TestTypeEarthing:
		return "Ω"
	case TestTypeShortCircuit:
		return "A"
	default:
		return ""
	}
}

// Hint returns guidance on acceptable values for the test type.
func (t TestType) Hint() string {
	switch t {
	case TestTypeRCD:
		return "Tripping time. Should be at most 300 ms for a 30 mA type A RCD."
	case TestTypeIsolation:
		return "Insulation resistance. Should be above 1 MΩ."
	case TestTypeContinuity:
		return "Continuity resistance. Should be below 1 Ω."
	case TestTypeEarthing:
		return "Earth resistance. Should normally be below 100 Ω."
	case TestTypeShortCircuit:
		return "Prospective short-circuit current."
	default:
		return ""
	}
}

// TestStatus is the verdict of a test.
type TestStatus string

const (
	TestStatusPass    TestStatus = "Godkendt"
	TestStatusFail    TestStatus = "Ikke godkendt"
	TestStatusWarning TestStatus = "Advarsel"
)

// TestStatuses lists every test verdict.
var TestStatuses = []TestStatus{TestStatusPass, TestStatusFail, TestStatusWarning}

// Label returns the English label of the verdict.
func (s TestStatus) Label() string {
	switch s {
	case TestStatusPass:
		return "Pass"
	case TestStatusFail:
		return "Fail"
	case TestStatusWarning:
		return "Warning"
	default:
		return string(s)
	}
}

// Test is one measurement against an installation. ID is server-assigned;
// InstallationID and TestType never change after creation.
type Test struct {
	ID             int64      `json:"id"`
	InstallationID string     `json:"installation_id"`
	TestType       TestType   `json:"test_type"`
	Value          float64    `json:"value"`
	Unit           string     `json:"unit"`
	Status         TestStatus `json:"status"`
	Timestamp      *Time      `json:"timestamp"`
	Technician     string     `json:"technician,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	ImagePath      string     `json:"image_path,omitempty"`
}

// TestCreate is the payload for POST /tests.
type TestCreate struct {
	InstallationID string   `json:"installation_id"`
	TestType       TestType `json:"test_type"`
	Value          float64  `json:"value"`
	Unit           string   `json:"unit"`
	Notes          string   `json:"notes,omitempty"`
	ImagePath      string   `json:"image_path,omitempty"`
}

// NewTestCreate builds a creation payload with the unit derived from the type.
func NewTestCreate(installationID string, tt TestType, value float64) TestCreate {
	return TestCreate{
		InstallationID: installationID,
		TestType:       tt,
		Value:          value,
		Unit:           tt.Unit(),
	}
}

// TestDraft is the editable projection of a Test.
type TestDraft struct {
	Value     float64
	Unit      string
	Status    TestStatus
	Notes     string
	ImagePath string
}

// Draft returns the editable fields of t.
func (t Test) Draft() TestDraft {
	return TestDraft{
		Value:     t.Value,
		Unit:      t.Unit,
		Status:    t.Status,
		Notes:     t.Notes,
		ImagePath: t.ImagePath,
	}
}

// TestUpdate is a partial update for PUT /tests/{id}.
type TestUpdate struct {
	Value     Opt[float64]
	Unit      Opt[string]
	Status    Opt[TestStatus]
	Notes     Opt[string]
	ImagePath Opt[string]
}

// IsEmpty reports whether the update carries no fields.
func (u TestUpdate) IsEmpty() bool {
	return !u.Value.Set && !u.Unit.Set && !u.Status.Set &&
		!u.Notes.Set && !u.ImagePath.Set
}

// MarshalJSON encodes only the fields that are set.
func (u TestUpdate) MarshalJSON() ([]byte, error) {
	p := payload{}
	putOpt(p, "value", u.Value)
	putOpt(p, "unit", u.Unit)
	putOpt(p, "status", u.Status)
	putOpt(p, "notes", u.Notes)
	putOpt(p, "image_path", u.ImagePath)
	return json.Marshal(p)
}

// UploadedImage is the response of POST /tests/upload-image.
type UploadedImage struct {
	ImagePath string `json:"image_path"`
	Filename  string `json:"filename"`
}
