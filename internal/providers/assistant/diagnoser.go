// Package assistant holds the stand-ins for the AI collaborators: symptom
// diagnosis, chat replies and prescription OCR.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"farmaai/internal/domain"
)

const (
	staticProviderName = "static"
	openAIProviderName = "openai"
)

// StaticDiagnoser returns templated outcomes without any inference.
type StaticDiagnoser struct{}

func NewStaticDiagnoser() *StaticDiagnoser {
	return &StaticDiagnoser{}
}

func (d *StaticDiagnoser) Diagnose(ctx context.Context, symptoms string, tier domain.Tier) (*domain.DiagnosisOutcome, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return nil, fmt.Errorf("%w: symptoms are required", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := &domain.DiagnosisOutcome{
		Diagnosis:       fmt.Sprintf("Sintomas identificados: %s. Recomendamos acompanhamento médico.", symptoms),
		Severity:        domain.SeverityModerado,
		Medications:     defaultMedications(),
		Recommendations: "Descanse, hidrate-se e procure um médico se os sintomas persistirem.",
		Urgency:         "Monitore os sintomas. Procure atendimento médico se houver piora.",
	}
	if tier == domain.TierPremium {
		out.Diagnosis = fmt.Sprintf("Análise detalhada dos sintomas: %s. Baseado na descrição, identificamos possíveis causas que requerem atenção médica adequada.", symptoms)
		out.Recommendations = "Recomendações detalhadas: Mantenha-se hidratado, descanse adequadamente e monitore os sintomas. Se houver piora ou persistência por mais de 3 dias, procure atendimento médico presencial."
	}
	return out, nil
}

func defaultMedications() []domain.Medication {
	return []domain.Medication{
		{Name: "Paracetamol", Generic: "Paracetamol", Dosage: "500mg a cada 6 horas", Type: "Analgésico"},
		{Name: "Dipirona", Generic: "Dipirona Sódica", Dosage: "500mg a cada 6 horas", Type: "Analgésico e Antitérmico"},
	}
}
