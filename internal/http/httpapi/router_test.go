package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"farmaai/internal/adapter/memory"
	"farmaai/internal/consult"
	"farmaai/internal/domain"
	"farmaai/internal/http/handlers"
	"farmaai/internal/identity"
	"farmaai/internal/middleware"
	"farmaai/internal/providers/assistant"
)

const secret = "router-test-secret"

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, memory.NewChatStore(nil))
}

func newTestServerWith(t *testing.T, transcripts domain.ChatRepository) *testServer {
	t.Helper()
	users := memory.NewUserStore(nil)
	svc, err := consult.NewService(consult.Options{
		Ledger:    memory.NewLedger(nil),
		Diagnoser: assistant.NewStaticDiagnoser(),
		Mode:      consult.ModeStrict,
		Location:  time.UTC,
	})
	require.NoError(t, err)

	issue := func(userID string, now time.Time) (string, error) {
		return middleware.SignToken(secret, userID, time.Hour, now)
	}
	app := &handlers.App{
		Users:       users,
		Identity:    identity.NewService(users, issue, bcrypt.MinCost, zerolog.Nop()),
		Consults:    svc,
		Transcripts: transcripts,
		Responder:   assistant.DepthRouter{Basic: assistant.NewStaticResponder(), Advanced: assistant.NewStaticResponder()},
		Scanner:     assistant.NewStaticOCR(),
		Logger:      zerolog.Nop(),
	}
	h := NewRouter(app, Options{
		JWTSecret:     secret,
		CORSOrigins:   []string{"http://localhost:3000"},
		DefaultLocale: "pt",
		Logger:        zerolog.Nop(),
	})
	return &testServer{t: t, handler: h}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "pt-BR")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func (s *testServer) signup(email string) string {
	s.t.Helper()
	rec, body := s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"name": "Ana", "email": email, "password": "segredo",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return body["token"].(string)
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealthAndPlans(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(http.MethodGet, "/v1/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec, body = s.do(http.MethodGet, "/v1/plans", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plans := body["plans"].([]any)
	require.Len(t, plans, 2)
	free := plans[0].(map[string]any)
	require.Equal(t, "free", free["tier"])
	require.EqualValues(t, 3, free["daily_quota"])
	premium := plans[1].(map[string]any)
	require.Nil(t, premium["daily_quota"])
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(http.MethodGet, "/v1/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", errorCode(body))
	require.Equal(t, "Faça login para continuar.", body["error"].(map[string]any)["message"])
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.signup("ana@example.com")

	rec, body := s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{"name": "X", "email": "ANA@example.com", "password": "segredo"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "email_taken", errorCode(body))

	rec, body = s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{"name": "X", "email": "b@example.com", "password": "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "bad_request", errorCode(body))

	rec, body = s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{"name": "X", "email": "c@example.com", "password": strings.Repeat("x", 73)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "bad_request", errorCode(body))

	rec, body = s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ana@example.com", "password": "wrong1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_credentials", errorCode(body))

	rec, body = s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ana@example.com", "password": "segredo"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, body["token"])
}

func TestConsultationLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ana@example.com")

	for i := 1; i <= 3; i++ {
		rec, body := s.do(http.MethodPost, "/v1/consultations", token, map[string]string{"symptoms": "febre e dor de cabeça"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		quota := body["quota"].(map[string]any)
		require.EqualValues(t, i, quota["used_today"])
		require.EqualValues(t, 3-i, quota["remaining"])
	}

	rec, body := s.do(http.MethodPost, "/v1/consultations", token, map[string]string{"symptoms": "tosse"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "quota_exceeded", errorCode(body))

	rec, body = s.do(http.MethodGet, "/v1/consultations/quota", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, body["allowed"])
	require.Equal(t, "daily_quota_exceeded", body["reason"])

	rec, body = s.do(http.MethodGet, "/v1/consultations", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["items"].([]any), 3)
	require.EqualValues(t, 5, body["history_limit"])

	rec, _ = s.do(http.MethodPost, "/v1/premium/subscribe", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = s.do(http.MethodPost, "/v1/consultations", token, map[string]string{"symptoms": "tosse"})
	require.Equal(t, http.StatusCreated, rec.Code)
	quota := body["quota"].(map[string]any)
	require.Equal(t, "premium", quota["tier"])
	require.Contains(t, quota, "remaining")
	require.Nil(t, quota["remaining"])
	require.Nil(t, quota["daily_quota"])
	require.EqualValues(t, 4, quota["used_today"])

	rec, body = s.do(http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, body["quota"].(map[string]any)["daily_quota"])
}

func TestCreateConsultationRejectsEmptySymptoms(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ana@example.com")
	rec, body := s.do(http.MethodPost, "/v1/consultations", token, map[string]string{"symptoms": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "bad_request", errorCode(body))

	rec, body = s.do(http.MethodGet, "/v1/consultations/quota", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 0, body["used_today"])
}

func TestChatPersistsTranscript(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ana@example.com")

	rec, body := s.do(http.MethodPost, "/v1/consultations", token, map[string]string{"symptoms": "febre"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body["consultation"].(map[string]any)["id"].(string)

	rec, body = s.do(http.MethodPost, "/v1/chat", token, map[string]string{"message": "posso tomar dipirona?", "consultation_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "basic", body["depth"])
	require.Len(t, body["messages"].([]any), 2)

	rec, body = s.do(http.MethodGet, "/v1/consultations/"+id+"/messages", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	require.Equal(t, "user", items[0].(map[string]any)["role"])
	require.Equal(t, "assistant", items[1].(map[string]any)["role"])

	other := s.signup("bia@example.com")
	rec, body = s.do(http.MethodGet, "/v1/consultations/"+id+"/messages", other, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", errorCode(body))

	rec, _ = s.do(http.MethodPost, "/v1/chat", other, map[string]string{"message": "oi", "consultation_id": id})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodGet, "/v1/consultations/not-a-uuid/messages", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatDepthFollowsTier(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ana@example.com")

	rec, body := s.do(http.MethodPost, "/v1/chat", token, map[string]any{
		"message": "oi",
		"history": []map[string]string{{"role": "user", "content": "antes"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "basic", body["depth"])
	require.Nil(t, body["messages"])

	s.do(http.MethodPost, "/v1/premium/subscribe", token, nil)
	rec, body = s.do(http.MethodPost, "/v1/chat", token, map[string]string{"message": "oi"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "advanced", body["depth"])

	rec, _ = s.do(http.MethodPost, "/v1/chat", token, map[string]any{
		"message": "oi",
		"history": []map[string]string{{"role": "system", "content": "x"}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOCRIsPremiumOnly(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ana@example.com")
	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png"))

	rec, body := s.do(http.MethodPost, "/v1/ocr", token, map[string]string{"image": image})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "feature_locked", errorCode(body))

	s.do(http.MethodPost, "/v1/premium/subscribe", token, nil)
	rec, body = s.do(http.MethodPost, "/v1/ocr", token, map[string]string{"image": image})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Paracetamol 500mg", body["medication"])

	rec, body = s.do(http.MethodPost, "/v1/ocr", token, map[string]string{"image": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "bad_request", errorCode(body))
}

func TestMeAndUpdateMe(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("ana@example.com")

	rec, body := s.do(http.MethodPatch, "/v1/me", token, map[string]string{"name": "Ana Souza"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Ana Souza", body["user"].(map[string]any)["name"])

	rec, body = s.do(http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	limits := body["limits"].(map[string]any)
	require.Equal(t, false, limits["ocr_enabled"])
	require.Equal(t, true, body["quota"].(map[string]any)["allowed"])
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(http.MethodGet, "/v1/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", errorCode(body))
}

type rejectingTranscripts struct {
	*memory.ChatStore
	batches []int
}

func (r *rejectingTranscripts) Append(ctx context.Context, msgs ...*domain.ChatMessage) error {
	r.batches = append(r.batches, len(msgs))
	return fmt.Errorf("%w: connection reset", domain.ErrPersistence)
}

func TestChatStoresBothTurnsTogether(t *testing.T) {
	transcripts := &rejectingTranscripts{ChatStore: memory.NewChatStore(nil)}
	s := newTestServerWith(t, transcripts)
	token := s.signup("ana@example.com")

	rec, body := s.do(http.MethodPost, "/v1/consultations", token, map[string]string{"symptoms": "febre"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body["consultation"].(map[string]any)["id"].(string)

	rec, body = s.do(http.MethodPost, "/v1/chat", token, map[string]string{"message": "oi", "consultation_id": id})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal_error", errorCode(body))
	require.Equal(t, []int{2}, transcripts.batches)

	rec, body = s.do(http.MethodGet, "/v1/consultations/"+id+"/messages", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, body["items"])
}
