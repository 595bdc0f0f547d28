// Package entity holds the resume document shapes exchanged with clients.
// The pipeline itself treats LLM output as opaque JSON; these types document
// the contract and back the document fixtures in tests.
package entity

import "encoding/json"

// PersonalInfo is the contact block of a resume document.
type PersonalInfo struct {
	FullName       string  `json:"fullName"`
	JobTitle       string  `json:"jobTitle"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Location       string  `json:"location"`
	Summary        string  `json:"summary"`
	ProfilePicture *string `json:"profilePicture"`
}

// Section is one ordered resume section. Item shape varies by section type
// and is not interpreted here.
type Section struct {
	ID     string            `json:"id"`
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Order  int               `json:"order"`
	Hidden bool              `json:"hidden"`
	Format string            `json:"format,omitempty"`
	Items  []json.RawMessage `json:"items"`
	Groups []json.RawMessage `json:"groups"`
	State  map[string]any    `json:"state"`
}

// ResumeDocument is the fixed output shape requested from the generator.
type ResumeDocument struct {
	ID                   *string      `json:"id"`
	TargetJobTitle       string       `json:"targetJobTitle"`
	TargetJobDescription string       `json:"targetJobDescription"`
	PersonalInfo         PersonalInfo `json:"personalInfo"`
	Sections             []Section    `json:"sections"`
}

// Default section type tags, in the order always requested of the generator.
const (
	SectionExperience = "experience"
	SectionProjects   = "projects"
	SectionEducation  = "education"
	SectionSkills     = "skills"
)

// ErrorObject is the soft-failure variant embedded in a 200 response when
// the transform stage cannot produce a document.
type ErrorObject struct {
	Error string `json:"error"`
}

// ErrorJSON renders the error-object variant as raw JSON.
func ErrorJSON(message string) json.RawMessage {
	b, err := json.Marshal(ErrorObject{Error: message})
	if err != nil {
		// Marshal of a flat string field cannot fail; keep the contract anyway.
		return json.RawMessage(`{"error":"internal error"}`)
	}
	return b
}

// IsErrorObject reports whether raw parses as the soft-failure variant.
func IsErrorObject(raw json.RawMessage) (string, bool) {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Error == nil {
		return "", false
	}
	return *probe.Error, true
}
