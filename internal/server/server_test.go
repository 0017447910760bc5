package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mockexam/internal/app"
	"github.com/abhisek/mockexam/internal/llm"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/quota"
	"github.com/abhisek/mockexam/internal/review"
	"github.com/abhisek/mockexam/internal/store"
)

func batchJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"category":"Clinical Practice","question":"Q%d?","options":["a","b","c","d","e"],"answer":1,"explanation":"because"}`, i+1)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

type harness struct {
	t      *testing.T
	ts     *httptest.Server
	srv    *Server
	client *http.Client
	store  *store.Store
	mock   *llm.MockProvider
}

func newHarness(t *testing.T, password string, limit int, creds []string) *harness {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(batchJSON(3))}).Repeat()
	factory, err := llm.NewFactory(llm.Config{Provider: "mock", Mock: mock}, nil)
	require.NoError(t, err)

	svc := app.New(
		quota.NewGuard(s.UsageRepo()),
		questiongen.New(factory, questiongen.DefaultConfig()),
		review.NewManager(s.ReviewRepo()),
		app.Options{Credentials: creds, DailyLimit: limit, BatchSize: 3},
	)

	srv := New(svc, Config{AccessPassword: password})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{t: t, ts: ts, srv: srv, client: &http.Client{Jar: jar}, store: s, mock: mock}
}

func (h *harness) do(method, path string, body any) (int, map[string]any) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, h.ts.URL+path, &buf)
	require.NoError(h.t, err)
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func session(body map[string]any) map[string]any {
	return body["session"].(map[string]any)
}

func TestFullFlow(t *testing.T) {
	h := newHarness(t, "", 20, []string{"k1"})

	code, body := h.do(http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "idle", session(body)["phase"])
	assert.EqualValues(t, 0, body["used"])

	code, body = h.do(http.MethodPost, "/api/batch", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["count"])
	sess := session(body)
	assert.Equal(t, "in_progress", sess["phase"])
	q := sess["question"].(map[string]any)
	assert.Equal(t, "Q1?", q["question"])
	assert.NotContains(t, q, "answer", "answer is hidden before grading")

	// Answer index 0 is correct; 4 is wrong and lands in review notes.
	code, _ = h.do(http.MethodPost, "/api/next", nil)
	assert.Equal(t, http.StatusConflict, code, "advance before submit")

	code, body = h.do(http.MethodPost, "/api/answer", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code, "missing selection")

	code, body = h.do(http.MethodPost, "/api/answer", map[string]any{"choice": 4})
	require.Equal(t, http.StatusOK, code)
	out := body["outcome"].(map[string]any)
	assert.Equal(t, false, out["correct"])
	assert.EqualValues(t, 0, out["correct_index"])
	assert.Equal(t, "because", out["explanation"])

	code, _ = h.do(http.MethodPost, "/api/answer", map[string]any{"choice": 0})
	assert.Equal(t, http.StatusConflict, code, "double submit")

	for range 3 {
		code, _ = h.do(http.MethodPost, "/api/next", nil)
		require.Equal(t, http.StatusOK, code)
		h.do(http.MethodPost, "/api/answer", map[string]any{"choice": 0})
	}
	code, body = h.do(http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, code)
	sess = session(body)
	assert.Equal(t, "complete", sess["phase"])
	assert.EqualValues(t, 2, sess["correct"])
	assert.EqualValues(t, 3, body["used"])

	code, body = h.do(http.MethodGet, "/api/notes", nil)
	require.Equal(t, http.StatusOK, code)
	notes := body["notes"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, "Q1?", notes[0].(map[string]any)["question"])

	code, body = h.do(http.MethodDelete, "/api/notes", map[string]string{"question": "Q1?"})
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["deleted"])

	code, body = h.do(http.MethodPost, "/api/home", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "idle", session(body)["phase"])
}

func TestQuotaExceeded(t *testing.T) {
	h := newHarness(t, "", 3, []string{"k1"})

	code, _ := h.do(http.MethodPost, "/api/batch", nil)
	require.Equal(t, http.StatusOK, code)

	code, body := h.do(http.MethodPost, "/api/batch", nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.EqualValues(t, 3, body["count"])
	assert.EqualValues(t, 3, body["limit"])
	assert.Equal(t, 1, h.mock.CallCount())
}

func TestGenerationFailureIsRetryable(t *testing.T) {
	h := newHarness(t, "", 20, nil)

	code, body := h.do(http.MethodPost, "/api/batch", nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, true, body["retry"])
}

func TestPasswordGate(t *testing.T) {
	h := newHarness(t, "s3cret", 20, []string{"k1"})

	code, _ := h.do(http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(http.MethodPost, "/api/login", map[string]string{"password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(http.MethodPost, "/api/login", map[string]string{"password": "s3cret"})
	require.Equal(t, http.StatusOK, code)

	code, _ = h.do(http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestVisitorsAreIsolated(t *testing.T) {
	h := newHarness(t, "", 20, []string{"k1"})

	code, _ := h.do(http.MethodPost, "/api/batch", nil)
	require.Equal(t, http.StatusOK, code)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := &harness{t: t, ts: h.ts, client: &http.Client{Jar: jar}}

	code, body := other.do(http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "idle", session(body)["phase"])
	assert.EqualValues(t, 0, body["used"])
	assert.NotEqual(t, "", body["user_id"])
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, New(nil, Config{}).ListenAndServe(ctx, "127.0.0.1:0"))
}

func (h *harness) visitorCount() int {
	h.srv.mu.Lock()
	defer h.srv.mu.Unlock()
	return len(h.srv.visitors)
}

func TestRejectedRequestsKeepNoVisitorState(t *testing.T) {
	h := newHarness(t, "s3cret", 20, []string{"k1"})

	// Fresh client per call: no cookie, so every request mints a new id.
	for range 50 {
		resp, err := http.Get(h.ts.URL + "/api/status")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	code, _ := h.do(http.MethodPost, "/api/login", map[string]string{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Zero(t, h.visitorCount())

	code, _ = h.do(http.MethodPost, "/api/login", map[string]string{"password": "s3cret"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, h.visitorCount())
}

func TestIdleVisitorsExpire(t *testing.T) {
	h := newHarness(t, "", 20, []string{"k1"})
	var clock atomic.Int64
	clock.Store(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC).UnixNano())
	h.srv.now = func() time.Time { return time.Unix(0, clock.Load()) }

	code, _ := h.do(http.MethodPost, "/api/batch", nil)
	require.Equal(t, http.StatusOK, code)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := &harness{t: t, ts: h.ts, client: &http.Client{Jar: jar}}

	clock.Add(int64(DefaultIdleTimeout - time.Minute))
	code, _ = other.do(http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, h.visitorCount())

	clock.Add(int64(2 * time.Minute))
	assert.Equal(t, 1, h.srv.evictIdle(), "only the idle visitor goes")
	assert.Equal(t, 1, h.visitorCount())

	// The expired visitor starts over with an idle session.
	code, body := h.do(http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "idle", session(body)["phase"])
	assert.EqualValues(t, 3, body["used"], "quota is persistent, sessions are not")
}

func TestIdleTimeoutDefault(t *testing.T) {
	assert.Equal(t, DefaultIdleTimeout, New(nil, Config{}).cfg.IdleTimeout)
	assert.Equal(t, time.Minute, New(nil, Config{IdleTimeout: time.Minute}).cfg.IdleTimeout)
}
