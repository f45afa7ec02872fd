package handlers

import (
	"net/http"
	"strings"

	"farmaai/internal/domain"
	"farmaai/internal/policy"
	"farmaai/internal/providers/assistant"
)

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message        string     `json:"message"`
	ConsultationID string     `json:"consultation_id"`
	History        []chatTurn `json:"history"`
}

type chatResponse struct {
	Reply    string           `json:"reply"`
	Provider string           `json:"provider"`
	Depth    policy.ChatDepth `json:"depth"`
	Messages []messageDTO     `json:"messages,omitempty"`
}

// Chat answers a message at the depth the user's tier allows. With a
// consultation id the stored transcript is the history and both turns are
// saved; otherwise the client-sent history is used and nothing is stored.
func (a *App) Chat(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req chatRequest
	if !a.decode(w, r, &req) {
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		a.fail(w, r, domain.ErrInvalidInput)
		return
	}
	limits, err := policy.LimitsFor(user.Tier())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	ctx := r.Context()
	consultationID := strings.TrimSpace(req.ConsultationID)
	var history []assistant.Turn
	if consultationID != "" {
		if !validID(consultationID) {
			a.fail(w, r, domain.ErrNotFound)
			return
		}
		if _, err := a.Consults.Get(ctx, user.ID, consultationID); err != nil {
			a.fail(w, r, err)
			return
		}
		stored, err := a.Transcripts.List(ctx, user.ID, consultationID)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		for _, m := range stored {
			history = append(history, assistant.Turn{Role: m.Role, Content: m.Content})
		}
	} else {
		for _, t := range req.History {
			role, err := domain.ParseChatRole(t.Role)
			if err != nil {
				a.fail(w, r, err)
				return
			}
			history = append(history, assistant.Turn{Role: role, Content: t.Content})
		}
	}

	reply, err := a.Responder.Reply(ctx, assistant.ChatRequest{Message: message, History: history, Depth: limits.ChatDepth})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	resp := chatResponse{Reply: reply.Content, Provider: reply.Provider, Depth: limits.ChatDepth}
	if consultationID != "" {
		turns := []*domain.ChatMessage{
			{UserID: user.ID, ConsultationID: consultationID, Role: domain.ChatRoleUser, Content: message},
			{UserID: user.ID, ConsultationID: consultationID, Role: domain.ChatRoleAssistant, Content: reply.Content},
		}
		if err := a.Transcripts.Append(ctx, turns...); err != nil {
			a.fail(w, r, err)
			return
		}
		for _, m := range turns {
			resp.Messages = append(resp.Messages, toMessageDTO(*m))
		}
	}
	a.json(w, http.StatusOK, resp)
}
