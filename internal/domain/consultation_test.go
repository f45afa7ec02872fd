package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConsultation(t *testing.T) {
	c, err := NewConsultation("u1", "dor de cabeça", "Sintomas identificados", SeverityModerado, []string{"Paracetamol", " ", "Dipirona"}, "Descanse")
	require.NoError(t, err)
	require.Equal(t, []string{"Paracetamol", "Dipirona"}, c.Medications)
	require.Equal(t, SeverityModerado, c.Severity)
	require.Empty(t, c.ID)
}

func TestNewConsultationRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		symptoms  string
		diagnosis string
		severity  Severity
	}{
		{name: "empty symptoms", symptoms: "  ", diagnosis: "x", severity: SeverityLeve},
		{name: "empty diagnosis", symptoms: "febre", diagnosis: "", severity: SeverityLeve},
		{name: "unknown severity", symptoms: "febre", diagnosis: "x", severity: "unknown"},
		{name: "missing severity", symptoms: "febre", diagnosis: "x", severity: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConsultation("u1", tc.symptoms, tc.diagnosis, tc.severity, nil, "")
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNewConsultationAllowsNoMedications(t *testing.T) {
	c, err := NewConsultation("u1", "tosse", "Resfriado", SeverityLeve, nil, "")
	require.NoError(t, err)
	require.Empty(t, c.Medications)
}

func TestParseSeverityNormalizes(t *testing.T) {
	s, err := ParseSeverity(" GRAVE ")
	require.NoError(t, err)
	require.Equal(t, SeverityGrave, s)
}

func TestUserTier(t *testing.T) {
	require.Equal(t, TierFree, User{}.Tier())
	require.Equal(t, TierPremium, User{Premium: true}.Tier())
	require.True(t, User{}.IsFree())
}

func TestValidateRequiresCanonicalSeverity(t *testing.T) {
	c := &Consultation{UserID: "u1", Symptoms: "febre", Diagnosis: "x", Severity: "Leve"}
	require.ErrorIs(t, c.Validate(), ErrInvalidInput)

	c.Severity = SeverityLeve
	require.NoError(t, c.Validate())

	var missing *Consultation
	require.ErrorIs(t, missing.Validate(), ErrInvalidInput)
}
