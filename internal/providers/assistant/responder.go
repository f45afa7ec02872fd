package assistant

import (
	"context"
	"fmt"
	"strings"

	"farmaai/internal/domain"
	"farmaai/internal/policy"
)

// Turn is one prior message of a conversation.
type Turn struct {
	Role    domain.ChatRole `json:"role"`
	Content string          `json:"content"`
}

// ChatRequest is the input to a Responder.
type ChatRequest struct {
	Message string
	History []Turn
	Depth   policy.ChatDepth
}

// ChatReply is a generated assistant message.
type ChatReply struct {
	Content  string
	Provider string
}

// Responder answers chat messages.
type Responder interface {
	Reply(ctx context.Context, req ChatRequest) (*ChatReply, error)
}

const basicReply = `Obrigado pela sua mensagem. Como assistente médico virtual, posso ajudá-lo com informações básicas sobre saúde.

Para sintomas específicos, recomendo:
- Descrever detalhadamente o que está sentindo
- Informar há quanto tempo os sintomas persistem
- Mencionar se já tomou algum medicamento

⚠️ Lembre-se: sempre consulte um médico para diagnóstico preciso.`

const advancedReply = `Obrigado pela sua mensagem! Como usuário Premium, você tem acesso a respostas mais detalhadas.

Posso ajudá-lo com:
✓ Análise detalhada de sintomas
✓ Sugestões de medicamentos (genéricos e marca)
✓ Orientações sobre quando procurar atendimento médico
✓ Informações sobre dosagens e contraindicações

Por favor, descreva seus sintomas em detalhes para que eu possa fornecer orientações mais precisas.

⚠️ Importante: Minhas orientações não substituem consulta médica profissional.`

// StaticResponder replies with a fixed template per depth.
type StaticResponder struct{}

func NewStaticResponder() *StaticResponder {
	return &StaticResponder{}
}

func (s *StaticResponder) Reply(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	content := basicReply
	if req.Depth == policy.ChatDepthAdvanced {
		content = advancedReply
	}
	return &ChatReply{Content: content, Provider: staticProviderName}, nil
}

// DepthRouter sends advanced requests to a dedicated responder and
// everything else to the basic one.
type DepthRouter struct {
	Basic    Responder
	Advanced Responder
}

func (r DepthRouter) Reply(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if req.Depth == policy.ChatDepthAdvanced && r.Advanced != nil {
		return r.Advanced.Reply(ctx, req)
	}
	return r.Basic.Reply(ctx, req)
}

var (
	_ Responder = (*StaticResponder)(nil)
	_ Responder = DepthRouter{}
)
