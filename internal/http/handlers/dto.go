package handlers

import (
	"time"

	"farmaai/internal/consult"
	"farmaai/internal/domain"
	"farmaai/internal/policy"
)

type userDTO struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Tier      domain.Tier `json:"tier"`
	IsPremium bool        `json:"is_premium"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Tier:      u.Tier(),
		IsPremium: u.Premium,
		CreatedAt: u.CreatedAt,
	}
}

type consultationDTO struct {
	ID              string          `json:"id"`
	Symptoms        string          `json:"symptoms"`
	Diagnosis       string          `json:"diagnosis"`
	Severity        domain.Severity `json:"severity"`
	Medications     []string        `json:"medications"`
	Recommendations string          `json:"recommendations"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toConsultationDTO(c domain.Consultation) consultationDTO {
	meds := c.Medications
	if meds == nil {
		meds = []string{}
	}
	return consultationDTO{
		ID:              c.ID,
		Symptoms:        c.Symptoms,
		Diagnosis:       c.Diagnosis,
		Severity:        c.Severity,
		Medications:     meds,
		Recommendations: c.Recommendations,
		CreatedAt:       c.CreatedAt,
	}
}

type messageDTO struct {
	ID             string          `json:"id"`
	ConsultationID string          `json:"consultation_id,omitempty"`
	Role           domain.ChatRole `json:"role"`
	Content        string          `json:"content"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toMessageDTO(m domain.ChatMessage) messageDTO {
	return messageDTO{
		ID:             m.ID,
		ConsultationID: m.ConsultationID,
		Role:           m.Role,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// limitsDTO renders unbounded limits as null.
type limitsDTO struct {
	Tier         domain.Tier      `json:"tier"`
	DailyQuota   *int             `json:"daily_quota"`
	HistoryLimit *int             `json:"history_limit"`
	ChatDepth    policy.ChatDepth `json:"chat_depth"`
	OCREnabled   bool             `json:"ocr_enabled"`
}

func toLimitsDTO(l policy.Limits) limitsDTO {
	return limitsDTO{
		Tier:         l.Tier,
		DailyQuota:   bounded(l.DailyQuota),
		HistoryLimit: bounded(l.HistoryLimit),
		ChatDepth:    l.ChatDepth,
		OCREnabled:   l.OCREnabled,
	}
}

// decisionDTO is a quota decision with unbounded counts rendered as null.
type decisionDTO struct {
	Allowed   bool               `json:"allowed"`
	Reason    consult.DenyReason `json:"reason,omitempty"`
	Tier      domain.Tier        `json:"tier"`
	UsedToday int                `json:"used_today"`
	Quota     *int               `json:"daily_quota"`
	Remaining *int               `json:"remaining"`
}

func toDecisionDTO(d consult.Decision) decisionDTO {
	return decisionDTO{
		Allowed:   d.Allowed,
		Reason:    d.Reason,
		Tier:      d.Tier,
		UsedToday: d.UsedToday,
		Quota:     bounded(d.Quota),
		Remaining: bounded(d.Remaining),
	}
}

func bounded(n int) *int {
	if n == policy.Unbounded {
		return nil
	}
	return &n
}
