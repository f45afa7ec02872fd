package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"farmaai/internal/domain"
)

const (
	defaultOpenAIModel   = "gpt-4o-mini"
	openAIDefaultTimeout = 20 * time.Second
)

const systemPrompt = `Você é o Farma AI, um assistente médico virtual. Responda em português do Brasil,
de forma clara e detalhada. Sugira medicamentos genéricos e de marca quando fizer sentido,
com dosagens usuais e contraindicações. Sempre lembre que as orientações não substituem
uma consulta médica profissional e indique quando procurar atendimento presencial.`

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	// Fallback answers when the API call fails. Without it the error is returned.
	Fallback   Responder
	OnFallback func(err error)
}

// OpenAIResponder answers through the OpenAI chat completion API.
type OpenAIResponder struct {
	client     *openai.Client
	model      string
	fallback   Responder
	onFallback func(err error)
}

func NewOpenAIResponder(opts OpenAIOptions) (*OpenAIResponder, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("openai: api key is required")
	}
	cfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	if org := strings.TrimSpace(opts.Organization); org != "" {
		cfg.OrgID = org
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	} else {
		cfg.HTTPClient = &http.Client{Timeout: openAIDefaultTimeout}
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIResponder{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}, nil
}

// Model returns the configured chat model.
func (o *OpenAIResponder) Model() string { return o.model }

func (o *OpenAIResponder) Reply(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    buildMessages(req),
		Temperature: 0.3,
	})
	if err == nil && (len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "") {
		err = errors.New("openai: empty completion")
	}
	if err != nil {
		if o.fallback == nil {
			return nil, fmt.Errorf("openai chat: %w", err)
		}
		if o.onFallback != nil {
			o.onFallback(err)
		}
		return o.fallback.Reply(ctx, req)
	}
	return &ChatReply{Content: strings.TrimSpace(resp.Choices[0].Message.Content), Provider: openAIProviderName}, nil
}

func buildMessages(req ChatRequest) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, t := range req.History {
		role := openai.ChatMessageRoleUser
		if t.Role == domain.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}
	return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Message})
}

var _ Responder = (*OpenAIResponder)(nil)
