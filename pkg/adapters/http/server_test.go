package http

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/codmetric/codmetricbot/pkg/observability"
	"github.com/codmetric/codmetricbot/pkg/ports"
	"github.com/codmetric/codmetricbot/pkg/runner"
	"github.com/codmetric/codmetricbot/pkg/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 15, 14, 5, 0, 0, time.UTC)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	clock := ports.ClockFunc(func() time.Time { return fixedNow })
	sessions := session.NewManager(memory.NewStore(),
		session.WithClock(clock),
		session.WithWelcome(intent.Welcome),
	)
	h, err := NewHandler(intent.New(intent.WithClock(clock)), sessions, opts...)
	require.NoError(t, err)
	return h
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestLoadSpec(t *testing.T) {
	spec, err := LoadSpec(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", spec.Info.Version)
	assert.NotNil(t, spec.Paths.Find("/chat"))
	assert.NotNil(t, spec.Paths.Find("/evaluate"))
}

func TestChat(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/chat", ChatRequest{Message: "2^10"})
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[ChatResponse](t, w)
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, "Result = 1024", first.Response)
	assert.Equal(t, "math", first.Rule)
	assert.Empty(t, first.Signal)

	w = do(t, h, http.MethodPost, "/chat", ChatRequest{SessionID: first.SessionID, Message: "time"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[ChatResponse](t, w)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "The current time is ⏰ 02:05 PM", second.Response)

	w = do(t, h, http.MethodGet, "/transcript?session_id="+first.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tr := decode[struct {
		SessionID string   `json:"session_id"`
		Lines     []string `json:"lines"`
	}](t, w)
	assert.Equal(t, first.SessionID, tr.SessionID)
	assert.Equal(t, []string{
		"CodmetricBot: " + intent.Welcome, "",
		"You: 2^10",
		"CodmetricBot: Result = 1024", "",
		"You: time",
		"CodmetricBot: The current time is ⏰ 02:05 PM", "",
	}, tr.Lines)
}

func TestChat_SaveAndFetch(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/chat", ChatRequest{SessionID: "s1", Message: "save"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ChatResponse](t, w)
	assert.Equal(t, "persist_transcript", string(resp.Signal))
	assert.Equal(t, "chatlog_20261015_140500.txt", resp.SavedAs)
	assert.Equal(t, "Saved as chatlog_20261015_140500.txt", resp.Notice)

	w = do(t, h, http.MethodGet, "/transcripts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"chatlog_20261015_140500.txt"}, decode[map[string][]string](t, w)["names"])

	w = do(t, h, http.MethodGet, "/transcripts/chatlog_20261015_140500.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CodmetricBot: "+intent.Welcome, w.Body.String())

	w = do(t, h, http.MethodGet, "/transcripts/missing.txt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat_FarewellEndsSession(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/chat", ChatRequest{SessionID: "s1", Message: "bye"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "terminate_session", string(decode[ChatResponse](t, w).Signal))

	w = do(t, h, http.MethodGet, "/transcript?session_id=s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat_BadInput(t *testing.T) {
	h := newTestHandler(t, WithMaxInputSize(8))

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	t.Setenv(runner.EnvMaxInputSize, "")
	w = do(t, h, http.MethodPost, "/chat", ChatRequest{Message: "this is far too long"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "invalid input")
}

func TestChat_BlankMessage(t *testing.T) {
	h := newTestHandler(t)

	for _, msg := range []string{"", "   ", "\t\n"} {
		w := do(t, h, http.MethodPost, "/chat", ChatRequest{SessionID: "quiet", Message: msg})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.ErrEmptyMessage.Error(), decode[map[string]string](t, w)["error"])
	}

	w := do(t, h, http.MethodGet, "/transcript?session_id=quiet", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "blank messages must not be logged")
}

func TestEvaluate(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		expr   string
		status int
		want   map[string]string
	}{
		{"2+3*4", http.StatusOK, map[string]string{"result": "14", "type": "int"}},
		{"7/2", http.StatusOK, map[string]string{"result": "3.5", "type": "float"}},
		{"3 x 4", http.StatusOK, map[string]string{"result": "12", "type": "int"}},
		{"1/0", http.StatusUnprocessableEntity, map[string]string{"kind": "arithmetic"}},
		{"hello", http.StatusUnprocessableEntity, map[string]string{"kind": "not_math"}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/evaluate", EvaluateRequest{Expression: tt.expr})
			require.Equal(t, tt.status, w.Code)
			got := decode[map[string]string](t, w)
			for k, v := range tt.want {
				assert.Equal(t, v, got[k], k)
			}
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, got["error"])
			}
		})
	}
}

func TestGetTranscript_Errors(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/transcript", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/transcript?session_id=unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntrospection(t *testing.T) {
	h := newTestHandler(t, WithVersion("1.2.3"))

	w := do(t, h, http.MethodGet, "/rules", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, intent.Rules(), decode[map[string][]string](t, w)["rules"])

	w = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	w = do(t, h, http.MethodGet, "/info", nil)
	info := decode[map[string]string](t, w)
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = do(t, h, http.MethodGet, "/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodOptions, "/chat", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	m := observability.NewMetrics()
	h := newTestHandler(t, WithMetrics(m))

	do(t, h, http.MethodPost, "/chat", ChatRequest{SessionID: "s1", Message: "save"})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TranscriptSaves.WithLabelValues("saved")))

	w := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "codmetric_transcript_saves_total")
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()

	ch, cancel := sm.Subscribe("s1")
	assert.Equal(t, 1, sm.Broadcast("s1", "hello"))
	assert.Equal(t, 0, sm.Broadcast("s2", "ignored"))
	assert.Equal(t, "hello", <-ch)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, sm.Broadcast("s1", "gone"))
}

func TestSubscribeEvents(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/events?session_id=s1", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(prefix string) string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q", prefix)
		return ""
	}

	waitFor("data: connected")

	body, _ := json.Marshal(ChatRequest{SessionID: "s1", Message: "6*7"})
	post, err := http.Post(srv.URL+"/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	post.Body.Close()

	waitFor("event: exchange")
	data := waitFor("data: ")
	assert.Contains(t, data, `"response":"Result = 42"`)
	assert.Contains(t, data, `"session_id":"s1"`)
}
