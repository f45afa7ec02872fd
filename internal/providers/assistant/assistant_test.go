package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"farmaai/internal/domain"
	"farmaai/internal/policy"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestStaticDiagnoserByTier(t *testing.T) {
	d := NewStaticDiagnoser()
	free, err := d.Diagnose(context.Background(), "febre", domain.TierFree)
	require.NoError(t, err)
	require.Equal(t, "Sintomas identificados: febre. Recomendamos acompanhamento médico.", free.Diagnosis)
	require.Equal(t, domain.SeverityModerado, free.Severity)
	require.Equal(t, []string{"Paracetamol", "Dipirona"}, free.MedicationNames())

	premium, err := d.Diagnose(context.Background(), "febre", domain.TierPremium)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(premium.Diagnosis, "Análise detalhada dos sintomas: febre."))
	require.True(t, strings.HasPrefix(premium.Recommendations, "Recomendações detalhadas"))

	_, err = d.Diagnose(context.Background(), " ", domain.TierFree)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStaticResponderDepth(t *testing.T) {
	r := NewStaticResponder()
	basic, err := r.Reply(context.Background(), ChatRequest{Message: "oi", Depth: policy.ChatDepthBasic})
	require.NoError(t, err)
	require.Equal(t, basicReply, basic.Content)

	adv, err := r.Reply(context.Background(), ChatRequest{Message: "oi", Depth: policy.ChatDepthAdvanced})
	require.NoError(t, err)
	require.Equal(t, advancedReply, adv.Content)

	_, err = r.Reply(context.Background(), ChatRequest{Message: ""})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenAIResponderFallsBack(t *testing.T) {
	var fallbackErr error
	r, err := NewOpenAIResponder(OpenAIOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
		Fallback:   NewStaticResponder(),
		OnFallback: func(err error) { fallbackErr = err },
	})
	require.NoError(t, err)
	require.Equal(t, defaultOpenAIModel, r.Model())

	reply, err := r.Reply(context.Background(), ChatRequest{Message: "dor de cabeça", Depth: policy.ChatDepthAdvanced})
	require.NoError(t, err)
	require.Equal(t, staticProviderName, reply.Provider)
	require.Error(t, fallbackErr)
}

func TestOpenAIResponderWithoutFallbackReturnsError(t *testing.T) {
	r, err := NewOpenAIResponder(OpenAIOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
	})
	require.NoError(t, err)
	_, err = r.Reply(context.Background(), ChatRequest{Message: "oi"})
	require.Error(t, err)
}

func TestNewOpenAIResponderRequiresKey(t *testing.T) {
	_, err := NewOpenAIResponder(OpenAIOptions{APIKey: " "})
	require.Error(t, err)
}

func TestBuildMessagesKeepsHistoryOrder(t *testing.T) {
	msgs := buildMessages(ChatRequest{
		Message: "e agora?",
		History: []Turn{{Role: domain.ChatRoleUser, Content: "oi"}, {Role: domain.ChatRoleAssistant, Content: "olá"}, {Role: domain.ChatRoleUser, Content: ""}},
	})
	require.Len(t, msgs, 4)
	require.Equal(t, "system", msgs[0].Role)
	require.Equal(t, "oi", msgs[1].Content)
	require.Equal(t, "assistant", msgs[2].Role)
	require.Equal(t, "e agora?", msgs[3].Content)
}

func TestDepthRouter(t *testing.T) {
	adv := &countingResponder{}
	r := DepthRouter{Basic: NewStaticResponder(), Advanced: adv}
	_, err := r.Reply(context.Background(), ChatRequest{Message: "oi", Depth: policy.ChatDepthBasic})
	require.NoError(t, err)
	require.Zero(t, adv.calls)
	_, err = r.Reply(context.Background(), ChatRequest{Message: "oi", Depth: policy.ChatDepthAdvanced})
	require.NoError(t, err)
	require.Equal(t, 1, adv.calls)
}

type countingResponder struct{ calls int }

func (c *countingResponder) Reply(context.Context, ChatRequest) (*ChatReply, error) {
	c.calls++
	return &ChatReply{Content: "ok", Provider: "test"}, nil
}

func TestStaticOCR(t *testing.T) {
	ocr := NewStaticOCR()
	img := base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'})

	name, err := ocr.ExtractMedication(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, "Paracetamol 500mg", name)

	name, err = ocr.ExtractMedication(context.Background(), "data:image/png;base64,"+img)
	require.NoError(t, err)
	require.Equal(t, "Paracetamol 500mg", name)

	for _, bad := range []string{"", "data:image/png,abc", "not base64!!"} {
		_, err := ocr.ExtractMedication(context.Background(), bad)
		require.ErrorIs(t, err, domain.ErrInvalidInput, bad)
	}
}
