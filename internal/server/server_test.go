package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/swipestack/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := config.Default()
	s.Swipe.SettleDuration = 20 * time.Millisecond
	srv := New(Options{Settings: s, FrameInterval: 2 * time.Millisecond, MaxSessions: 3})
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func create(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[createResponse](t, w).ID
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestRequestIDPropagated(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.Header.Set(headerRequestID, "abc")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	assert.Equal(t, "abc", w.Header().Get(headerRequestID))
}

func TestCreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv, "")

	w := do(t, srv, http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[sessionResponse](t, w)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "idle", got.State)
	assert.Equal(t, 0, got.Top)
	assert.Equal(t, []int{0, 1, 2, 3}, got.Order)
}

func TestCreateOverrides(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv, `{"visible": 6, "items": 5, "policy": "quarter", "labels": ["a", "b"]}`)

	got := decodeBody[sessionResponse](t, do(t, srv, http.MethodGet, "/sessions/"+id, ""))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got.Order, "the ring holds the five items")

	frame := decodeBody[frameResponse](t, do(t, srv, http.MethodGet, "/sessions/"+id+"/frame", ""))
	require.Len(t, frame.Layers, 5)
	top := frame.Layers[len(frame.Layers)-1]
	assert.Equal(t, 0, top.Index)
	assert.Equal(t, "a", top.Label)
	assert.Equal(t, "#4", frame.Layers[0].Label)
}

func TestCreateErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name, body, code string
	}{
		{"invalid config", `{"visible": 0}`, "INVALID_CONFIG"},
		{"more items than visible", `{"visible": 2, "items": 5}`, "INVALID_CONFIG"},
		{"unknown policy", `{"policy": "third"}`, "INVALID_CONFIG"},
		{"bad json", `{"visible":`, "INVALID_INPUT"},
		{"unknown field", `{"colour": "red"}`, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeBody[errorResponse](t, w).Code)
		})
	}
}

func TestSessionLimit(t *testing.T) {
	srv := newTestServer(t)
	for range 3 {
		create(t, srv, "")
	}
	w := do(t, srv, http.MethodPost, "/sessions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/sessions/6f1c1d4e-9a55-4a1e-9d6e-3f3b1a2c4d5e", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[errorResponse](t, w).Code)

	w = do(t, srv, http.MethodGet, "/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDragCommit(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv, "")
	base := "/sessions/" + id

	start := decodeBody[dragResponse](t, do(t, srv, http.MethodPost, base+"/drag/start", `{"x": 10, "y": 5}`))
	assert.True(t, start.Accepted)
	assert.Equal(t, "dragging", start.State)

	upd := decodeBody[view](t, do(t, srv, http.MethodPost, base+"/drag/update", `{"x": 210, "y": 5}`))
	assert.Equal(t, 200.0, upd.Offset)

	end := decodeBody[outcomeResponse](t, do(t, srv, http.MethodPost, base+"/drag/end", `{"velocity": 0}`))
	assert.Equal(t, "commit(forward)", end.Outcome)

	assert.Eventually(t, func() bool {
		v := decodeBody[view](t, do(t, srv, http.MethodGet, base, ""))
		return v.State == "idle" && v.Top == 1 && v.Swipes == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDragWrongTarget(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv, "")

	got := decodeBody[dragResponse](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/drag/start", `{"x": 0, "y": 0, "target": 2}`))
	assert.False(t, got.Accepted)
	assert.Equal(t, "idle", got.State)
}

func TestSwipeAndReset(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv, `{"circular": false}`)
	base := "/sessions/" + id

	back := decodeBody[outcomeResponse](t, do(t, srv, http.MethodPost, base+"/swipe", `{"direction": "backward"}`))
	assert.Equal(t, "cancel", back.Outcome, "backward from the first item is blocked")

	fwd := decodeBody[outcomeResponse](t, do(t, srv, http.MethodPost, base+"/swipe", `{"direction": "forward"}`))
	assert.Equal(t, "commit(forward)", fwd.Outcome)
	assert.Eventually(t, func() bool {
		return decodeBody[view](t, do(t, srv, http.MethodGet, base, "")).Top == 1
	}, 2*time.Second, 5*time.Millisecond)

	w := do(t, srv, http.MethodPost, base+"/swipe", `{"direction": "up"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reset := decodeBody[view](t, do(t, srv, http.MethodPost, base+"/reset", ""))
	assert.Equal(t, 0, reset.Top)
	assert.Equal(t, "idle", reset.State)
}

func TestFrameSVG(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv, `{"labels": ["hello"]}`)

	w := do(t, srv, http.MethodGet, "/sessions/"+id+"/frame.svg", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("<svg")))
	assert.Contains(t, w.Body.String(), ">hello<")
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv, "")

	w := do(t, srv, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, srv.sessions.len())

	w = do(t, srv, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
