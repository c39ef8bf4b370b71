package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"callboard/internal/auth"
	"callboard/internal/models"
	"callboard/internal/repository"
	"callboard/internal/services"
	"callboard/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// testEnv holds all test dependencies
type testEnv struct {
	router *gin.Engine
	clock  *clockwork.FakeClock
}

// setupTestEnv creates a router backed by an in-memory SQLite database and a
// clock frozen at testutil.BaseTime. A non-nil tokens enables resolver auth.
func setupTestEnv(t *testing.T, tokens *auth.TokenManager) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	clock := clockwork.NewFakeClockAt(testutil.BaseTime)
	repo := repository.NewRepository(db)

	gin.SetMode(gin.TestMode)
	router := NewRouter(RouterOptions{
		Predictions: services.NewPredictionService(repo, clock),
		Leaderboard: services.NewLeaderboardService(repo),
		Tokens:      tokens,
	})

	return &testEnv{router: router, clock: clock}
}

// do performs a request with an optional JSON body and extra headers
func (env *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// createPrediction posts a prediction and returns the decoded response
func (env *testEnv) createPrediction(t *testing.T, body gin.H) models.PredictionResponse {
	t.Helper()

	w := env.do(t, http.MethodPost, "/predictions", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return parse[models.PredictionResponse](t, w)
}

// parse decodes the response body into T
func parse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp T
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}
