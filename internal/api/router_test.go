package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/newscheck/config"
	"github.com/d60-Lab/newscheck/internal/api"
	"github.com/d60-Lab/newscheck/internal/api/handler"
	"github.com/d60-Lab/newscheck/internal/auth"
	"github.com/d60-Lab/newscheck/internal/ml"
	"github.com/d60-Lab/newscheck/internal/model"
	"github.com/d60-Lab/newscheck/internal/repository"
	"github.com/d60-Lab/newscheck/internal/service"
)

// stubVerifier resolves fixed tokens to fixed identities.
type stubVerifier struct {
	users map[string]*auth.UserContext
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*auth.UserContext, error) {
	if uc, ok := s.users[token]; ok {
		return uc, nil
	}
	return nil, auth.ErrInvalidToken
}

type env struct {
	router  http.Handler
	db      *gorm.DB
	mlCalls *atomic.Int64
	mlFail  *atomic.Bool
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.NewsAnalysis{}))

	var calls atomic.Int64
	var fail atomic.Bool
	mlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fail.Load() {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"prediction":      "real",
			"confidence":      0.82,
			"model_used":      "v1",
			"processing_time": 120,
		})
	}))
	t.Cleanup(mlSrv.Close)

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Server.Mode = "test"

	verifier := &stubVerifier{users: map[string]*auth.UserContext{
		"token-alice": {UID: "uid-alice", Email: "alice@example.com", Name: "Alice"},
		"token-bob":   {UID: "uid-bob", Email: "bob@example.com", Name: "Bob"},
	}}

	log := zap.NewNop()
	analysisRepo := repository.NewAnalysisRepository(db)
	userRepo := repository.NewUserRepository(db)
	newsSvc := service.NewNewsService(analysisRepo, ml.NewClient(config.MLConfig{ServiceURL: mlSrv.URL}), log)
	userSvc := service.NewUserService(userRepo)
	h := handler.New(newsSvc, userSvc, log)

	return &env{
		router:  api.NewRouter(cfg, h, verifier, log),
		db:      db,
		mlCalls: &calls,
		mlFail:  &fail,
	}
}

func (e *env) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthGate(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/news/history", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token provided", decode(t, w)["error"])

	req := httptest.NewRequest(http.MethodGet, "/api/news/history", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = e.do(t, http.MethodGet, "/api/news/history", "forged-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decode(t, w)["error"])
}

func TestAnalyzeValidation(t *testing.T) {
	e := newEnv(t)

	for name, body := range map[string]string{
		"too short": `{"content":"too short"}`,
		"too long":  fmt.Sprintf(`{"content":%q}`, strings.Repeat("x", 10001)),
		"missing":   `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/api/news/analyze", "token-alice", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			out := decode(t, w)
			assert.Equal(t, "Invalid input", out["error"])
			assert.NotEmpty(t, out["details"])
		})
	}

	// Invalid input never reaches the classifier and never persists.
	assert.EqualValues(t, 0, e.mlCalls.Load())
	var cnt int64
	require.NoError(t, e.db.Model(&model.NewsAnalysis{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestAnalyzeSuccessRoundTrip(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/news/analyze", "token-alice",
		`{"content":"Breaking: stocks rally on news"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, "real", out["prediction"])
	assert.Equal(t, 0.82, out["confidence"])
	assert.Equal(t, "v1", out["modelUsed"])
	assert.Equal(t, float64(120), out["processingTime"])
	assert.NotEmpty(t, out["timestamp"])
	id, _ := out["id"].(string)
	require.NotEmpty(t, id)

	// Same record round-trips through the single fetch, content included.
	w = e.do(t, http.MethodGet, "/api/news/analysis/"+id, "token-alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "real", got["prediction"])
	assert.Equal(t, "Breaking: stocks rally on news", got["content"])

	// History lists metadata but never the text.
	w = e.do(t, http.MethodGet, "/api/news/history?page=1&limit=10", "token-alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode(t, w)
	analyses := hist["analyses"].([]interface{})
	require.Len(t, analyses, 1)
	first := analyses[0].(map[string]interface{})
	assert.Equal(t, id, first["id"])
	assert.NotContains(t, first, "content")

	pag := hist["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pag["page"])
	assert.Equal(t, float64(10), pag["limit"])
	assert.Equal(t, float64(1), pag["total"])
	assert.Equal(t, float64(1), pag["pages"])
}

func TestAnalyzeClassifierDown(t *testing.T) {
	e := newEnv(t)
	e.mlFail.Store(true)

	w := e.do(t, http.MethodPost, "/api/news/analyze", "token-alice",
		`{"content":"a perfectly valid article body"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	out := decode(t, w)
	assert.Equal(t, "ML service unavailable", out["error"])
	assert.Equal(t, "Please try again later", out["message"])

	var cnt int64
	require.NoError(t, e.db.Model(&model.NewsAnalysis{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestGetAnalysisOwnership(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/news/analyze", "token-alice",
		`{"content":"an article that alice submitted"}`)
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["id"].(string)

	// Another user's row resolves as 404, not 403.
	w = e.do(t, http.MethodGet, "/api/news/analysis/"+id, "token-bob", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Analysis not found", decode(t, w)["error"])
}

func TestHistoryPermissiveParams(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/news/history?page=abc&limit=xyz", "token-alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	pag := decode(t, w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pag["page"])
	assert.Equal(t, float64(10), pag["limit"])
}

func TestProfileUpsertAndFetch(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/auth/profile", "token-alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/profile", "token-alice",
		`{"displayName":"Alice","photoURL":"https://example.com/a.png"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode(t, w)
	assert.Equal(t, "alice@example.com", first["email"])
	assert.Equal(t, "Alice", first["displayName"])

	// Second upsert for the same identity updates in place.
	w = e.do(t, http.MethodPost, "/api/auth/profile", "token-alice",
		`{"displayName":"Alice Renamed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode(t, w)
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, "Alice Renamed", second["displayName"])

	var cnt int64
	require.NoError(t, e.db.Model(&model.User{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)

	w = e.do(t, http.MethodGet, "/api/auth/profile", "token-alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice Renamed", decode(t, w)["displayName"])
}

func TestHealthAndNoRoute(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = e.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decode(t, w)["error"])
}
