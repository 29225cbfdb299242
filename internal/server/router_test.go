package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hptracker/backend/internal/characters"
	"github.com/hptracker/backend/internal/config"
	"github.com/hptracker/backend/internal/store"
)

type testServer struct {
	handler http.Handler
	path    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "characters.json")
	logger := zaptest.NewLogger(t)
	svc := characters.NewService(store.NewFileStore(path), logger)
	cfg := config.Config{CORSAllowOrigins: []string{"*"}}
	return &testServer{handler: NewRouter(cfg, Deps{Characters: svc}, logger), path: path}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCharacterScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/characters", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/characters", `{"name":"Aria","maxHP":20}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[characters.Character](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Aria", created.Name)
	assert.Equal(t, 20, created.MaxHP)
	assert.Equal(t, 20, created.CurrentHP)

	w = s.do(t, http.MethodPut, "/api/characters/"+created.ID, `{"hpDelta":-7}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 13, decode[characters.Character](t, w).CurrentHP)

	w = s.do(t, http.MethodPut, "/api/characters/"+created.ID, `{"maxHP":10}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[characters.Character](t, w)
	assert.Equal(t, 10, updated.MaxHP)
	assert.Equal(t, 10, updated.CurrentHP)

	w = s.do(t, http.MethodGet, "/api/characters", "")
	list := decode[[]characters.Character](t, w)
	assert.Equal(t, []characters.Character{updated}, list)

	w = s.do(t, http.MethodDelete, "/api/characters/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Character deleted"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/characters", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty name", `{"name":"","maxHP":5}`, characters.MsgNameRequired},
		{"whitespace name", `{"name":"   ","maxHP":5}`, characters.MsgNameRequired},
		{"missing name", `{"maxHP":5}`, characters.MsgNameRequired},
		{"zero max", `{"name":"A","maxHP":0}`, characters.MsgMaxHPPositive},
		{"negative max", `{"name":"A","maxHP":-2}`, characters.MsgMaxHPPositive},
		{"missing max", `{"name":"A"}`, characters.MsgMaxHPPositive},
		{"text max", `{"name":"A","maxHP":"lots"}`, characters.MsgMaxHPNotInt},
		{"malformed json", `{"name":`, "invalid payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/characters", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode[map[string]string](t, w)["error"])
		})
	}

	_, err := os.Stat(s.path)
	assert.True(t, os.IsNotExist(err), "rejected creates must not write the file")
}

func TestCreateCoercesNumericStrings(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/characters", `{"name":"  Bram  ","maxHP":"12"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	c := decode[characters.Character](t, w)
	assert.Equal(t, "Bram", c.Name)
	assert.Equal(t, 12, c.MaxHP)
	assert.Equal(t, 12, c.CurrentHP)
}

func TestUpdateClampingAndSilentFields(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/characters", `{"name":"Aria","maxHP":12}`)
	id := decode[characters.Character](t, w).ID

	steps := []struct {
		body    string
		current int
		max     int
		name    string
	}{
		{`{"currentHP":10}`, 10, 12, "Aria"},
		{`{"hpDelta":5}`, 12, 12, "Aria"},
		{`{"hpDelta":-100}`, 0, 12, "Aria"},
		{`{"currentHP":"abc","hpDelta":null,"maxHP":"x"}`, 0, 12, "Aria"},
		{`{"currentHP":50}`, 12, 12, "Aria"},
		{`{"currentHP":10,"hpDelta":-3}`, 7, 12, "Aria"},
		{`{"maxHP":-5,"name":"   "}`, 7, 12, "Aria"},
		{`{"name":" Aria the Bold "}`, 7, 12, "Aria the Bold"},
		{`{}`, 7, 12, "Aria the Bold"},
	}
	for _, st := range steps {
		w := s.do(t, http.MethodPut, "/api/characters/"+id, st.body)
		require.Equal(t, http.StatusOK, w.Code, st.body)
		c := decode[characters.Character](t, w)
		assert.Equal(t, st.current, c.CurrentHP, st.body)
		assert.Equal(t, st.max, c.MaxHP, st.body)
		assert.Equal(t, st.name, c.Name, st.body)
	}
}

func TestUnknownIDReturnsNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/api/characters/nope", `{"hpDelta":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Character not found"}`, w.Body.String())

	w = s.do(t, http.MethodDelete, "/api/characters/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Character not found"}`, w.Body.String())
}

func TestUpdateRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPut, "/api/characters/any", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCorruptFileIsServerError(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(s.path, []byte("[{"), 0o644))

	w := s.do(t, http.MethodGet, "/api/characters", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestStateIsReloadedFromFile(t *testing.T) {
	s := newTestServer(t)
	data, err := json.Marshal([]characters.Character{{ID: "x1", Name: "Zed", MaxHP: 7, CurrentHP: 3}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.path, data, 0o644))

	w := s.do(t, http.MethodPut, "/api/characters/x1", `{"hpDelta":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[characters.Character](t, w).CurrentHP)

	raw, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, []byte(`"currentHP": 5`)))
}

func TestIndexAndAssets(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `data-api-base="/api/characters"`)

	w = s.do(t, http.MethodGet, "/static/js/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/static/css/style.css", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/characters/{id}")

	w = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/characters", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitedAPI(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	logger := zaptest.NewLogger(t)
	svc := characters.NewService(store.NewFileStore(filepath.Join(t.TempDir(), "c.json")), logger)
	cfg := config.Config{RateLimitRPS: 1}
	h := NewRouter(cfg, Deps{Characters: svc, Redis: rdb}, logger)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/characters", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
