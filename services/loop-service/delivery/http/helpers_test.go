package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"loop/pkg/api"
	"loop/pkg/jwt"
	"loop/pkg/logger"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/repository/event"
	"loop/services/loop-service/repository/memory"
	"loop/services/loop-service/repository/store"
	"loop/services/loop-service/usecase"
)

// Seeded user IDs
const (
	adminUser   int64 = 1
	carlosUser  int64 = 2
	marianaUser int64 = 3
	anaUser     int64 = 4
)

type fakeGenerator struct {
	mu     sync.Mutex
	answer string
	chunks []string
	err    error
}

func (f *fakeGenerator) result() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answer, f.err
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	return f.result()
}

func (f *fakeGenerator) Chat(context.Context, string, []model.Turn, string) (string, error) {
	return f.result()
}

func (f *fakeGenerator) Stream(_ context.Context, _ string, onChunk func(string) error) error {
	f.mu.Lock()
	chunks, err := f.chunks, f.err
	f.mu.Unlock()
	for _, c := range chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return err
}

type testEnv struct {
	handler   http.Handler
	store     *store.Store
	jwt       jwt.JWTClient
	generator *fakeGenerator
	hub       *ChatHub
}

// newTestEnv wires the full router over a seeded in-memory store
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	appLogger := logger.NoOpLogger()

	s := store.New(memory.NewKeyValueRepository(), appLogger, store.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, s.Seed(context.Background()))

	jwtClient, err := jwt.New(jwt.WithAccessTokenSecret("access-secret"), jwt.WithRefreshTokenSecret("refresh-secret"))
	require.NoError(t, err)

	generator := &fakeGenerator{answer: "Resposta automática"}
	hub := NewChatHub(jwtClient, func(ctx context.Context, userID int64) (int64, bool) {
		client, ok := s.FindClientByUserID(ctx, userID)
		return client.ID, ok
	}, []string{"http://localhost:5173"}, appLogger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	publisher := event.NoopPublisher{}
	sales := usecase.NewSaleUseCase(s, publisher, appLogger)
	router := &Router{
		AuthHandler:           NewAuthHandler(usecase.NewAuthUseCase(s, jwtClient, publisher, appLogger), appLogger),
		RepresentativeHandler: NewRepresentativeHandler(usecase.NewRepresentativeUseCase(s, appLogger), appLogger),
		ClientHandler:         NewClientHandler(usecase.NewClientUseCase(s, generator, appLogger), appLogger),
		PlanHandler:           NewPlanHandler(usecase.NewPlanUseCase(s, appLogger), appLogger),
		SaleHandler:           NewSaleHandler(sales, appLogger),
		ChatHandler:           NewChatHandler(usecase.NewChatUseCase(s, generator, hub, appLogger), appLogger),
		ContractHandler:       NewContractHandler(usecase.NewContractUseCase(s, sales, appLogger), appLogger),
		AssistantHandler:      NewAssistantHandler(usecase.NewAssistantUseCase(generator, appLogger), appLogger),
		HealthHandler:         NewHealthHandler(appLogger, nil),
		ChatHub:               hub,
		JWTClient:             jwtClient,
		AllowedOrigins:        []string{"http://localhost:5173"},
		AppLogger:             appLogger,
	}

	return &testEnv{
		handler:   router.SetupRoutes(),
		store:     s,
		jwt:       jwtClient,
		generator: generator,
		hub:       hub,
	}
}

func (e *testEnv) token(t *testing.T, userID int64, role model.Role) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken(userID, string(role))
	require.NoError(t, err)
	return token
}

func (e *testEnv) adminToken(t *testing.T) string { return e.token(t, adminUser, model.RoleAdmin) }
func (e *testEnv) carlosToken(t *testing.T) string {
	return e.token(t, carlosUser, model.RoleRepresentative)
}
func (e *testEnv) anaToken(t *testing.T) string { return e.token(t, anaUser, model.RoleClient) }

// do sends body as JSON (a string is sent verbatim) and records the response
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *api.Error      `json:"error"`
	Meta   *api.Meta       `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// decodeData unmarshals the data field of a success response into T
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.Equal(t, api.StatusSuccess, env.Status, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}
