package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramedit/paramedit/internal/event"
	"github.com/paramedit/paramedit/internal/host/memhost"
	"github.com/paramedit/paramedit/internal/session"
)

// readSSEData reads frames until it sees a data line, skipping heartbeats.
func readSSEData(t *testing.T, scanner *bufio.Scanner) string {
	t.Helper()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimPrefix(line, "data: ")
		}
	}
	t.Fatal("SSE stream ended before a data frame arrived")
	return ""
}

func TestEventStream(t *testing.T) {
	event.Reset()
	t.Cleanup(event.Reset)

	srv := New(DefaultConfig(), session.NewService(memhost.New(), nil))
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/event", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)

	// The first frame announces the connection.
	var first WireEvent
	require.NoError(t, json.Unmarshal([]byte(readSSEData(t, scanner)), &first))
	assert.Equal(t, event.EventType("server.connected"), first.Type)

	// A published bus event comes through the stream.
	event.PublishSync(event.Event{
		Type: event.ParamUpdated,
		Data: &event.ParamUpdatedData{SessionID: "s1"},
	})

	var got WireEvent
	require.NoError(t, json.Unmarshal([]byte(readSSEData(t, scanner)), &got))
	assert.Equal(t, event.ParamUpdated, got.Type)

	props, err := json.Marshal(got.Properties)
	require.NoError(t, err)
	assert.Contains(t, string(props), "s1")
}

func TestEventStreamOverSessionLifecycle(t *testing.T) {
	event.Reset()
	t.Cleanup(event.Reset)

	h := memhost.New()
	_, err := h.Create(context.Background(), "width", "10 mm", "mm", "")
	require.NoError(t, err)

	srv := New(DefaultConfig(), session.NewService(h, nil))
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/event", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	readSSEData(t, scanner) // server.connected

	openResp, err := http.Post(ts.URL+"/session", "application/json", nil)
	require.NoError(t, err)
	openResp.Body.Close()
	require.Equal(t, http.StatusCreated, openResp.StatusCode)

	var got WireEvent
	require.NoError(t, json.Unmarshal([]byte(readSSEData(t, scanner)), &got))
	assert.Equal(t, event.SessionOpened, got.Type)
}

func TestSSEWriterRequiresFlusher(t *testing.T) {
	_, err := newSSEWriter(plainWriter{rec: httptest.NewRecorder()})
	assert.Error(t, err)
}

// plainWriter is a ResponseWriter without a Flush method.
type plainWriter struct {
	rec *httptest.ResponseRecorder
}

func (p plainWriter) Header() http.Header         { return p.rec.Header() }
func (p plainWriter) Write(b []byte) (int, error) { return p.rec.Write(b) }
func (p plainWriter) WriteHeader(code int)        { p.rec.WriteHeader(code) }
