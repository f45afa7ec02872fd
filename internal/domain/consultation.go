package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity enumerates diagnosis severities.
type Severity string

const (
	SeverityLeve     Severity = "leve"
	SeverityModerado Severity = "moderado"
	SeverityGrave    Severity = "grave"
)

// ParseSeverity validates a severity value. Anything outside the three known
// levels is rejected rather than coerced.
func ParseSeverity(v string) (Severity, error) {
	switch s := Severity(strings.TrimSpace(strings.ToLower(v))); s {
	case SeverityLeve, SeverityModerado, SeverityGrave:
		return s, nil
	}
	return "", fmt.Errorf("%w: severity %q", ErrInvalidInput, v)
}

// Consultation is one recorded diagnosis attempt. Records are immutable once
// appended to a ledger.
type Consultation struct {
	ID              string
	UserID          string
	Symptoms        string
	Diagnosis       string
	Severity        Severity
	Medications     []string
	Recommendations string
	CreatedAt       time.Time
}

// NewConsultation builds a validated consultation ready to append. ID and
// CreatedAt are left for the ledger to assign.
func NewConsultation(userID, symptoms, diagnosis string, severity Severity, medications []string, recommendations string) (*Consultation, error) {
	sev, err := ParseSeverity(string(severity))
	if err != nil {
		return nil, err
	}
	meds := make([]string, 0, len(medications))
	for _, m := range medications {
		if m = strings.TrimSpace(m); m != "" {
			meds = append(meds, m)
		}
	}
	c := &Consultation{
		UserID:          userID,
		Symptoms:        symptoms,
		Diagnosis:       diagnosis,
		Severity:        sev,
		Medications:     meds,
		Recommendations: recommendations,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports whether c may be appended to a ledger. Ledgers call it
// on every append, so records built without NewConsultation are held to
// the same rules.
func (c *Consultation) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: consultation is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Symptoms) == "" {
		return fmt.Errorf("%w: symptoms are required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Diagnosis) == "" {
		return fmt.Errorf("%w: diagnosis is required", ErrInvalidInput)
	}
	switch c.Severity {
	case SeverityLeve, SeverityModerado, SeverityGrave:
	default:
		return fmt.Errorf("%w: severity %q", ErrInvalidInput, c.Severity)
	}
	return nil
}

// Medication is a suggestion produced by the diagnosis collaborator. Only the
// name is persisted with the consultation.
type Medication struct {
	Name    string `json:"name"`
	Generic string `json:"generic"`
	Dosage  string `json:"dosage"`
	Type    string `json:"type"`
}

// DiagnosisOutcome is the result of the diagnosis collaborator.
type DiagnosisOutcome struct {
	Diagnosis       string       `json:"diagnosis"`
	Severity        Severity     `json:"severity"`
	Medications     []Medication `json:"medications"`
	Recommendations string       `json:"recommendations"`
	Urgency         string       `json:"urgency"`
}

// MedicationNames returns medication names in presentation order.
func (o DiagnosisOutcome) MedicationNames() []string {
	names := make([]string, 0, len(o.Medications))
	for _, m := range o.Medications {
		names = append(names, m.Name)
	}
	return names
}
