package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"wall-panel-server/modules/common/model"
)

func dial(t *testing.T, srv *httptest.Server, jobID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?job=" + jobID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitWatchers(t *testing.T, h *Hub, jobID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Watchers(jobID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("watchers(%s) = %d, want %d", jobID, h.Watchers(jobID), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDeliversEventsToWatchers(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	watcher := dial(t, srv, "job-1")
	defer watcher.Close()
	other := dial(t, srv, "job-2")
	defer other.Close()
	waitWatchers(t, hub, "job-1", 1)
	waitWatchers(t, hub, "job-2", 1)

	hub.handleMessage(`{"jobId":"job-1","status":"processing"}`)
	hub.Broadcast(model.StatusEvent{JobID: "job-1", Status: model.StatusCompleted, ProcessedImageURL: "https://cdn.test/a.webp"})

	watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	for _, want := range []string{model.StatusProcessing, model.StatusCompleted} {
		_, data, err := watcher.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var got model.StatusEvent
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.JobID != "job-1" || got.Status != want {
			t.Errorf("event = %+v, want status %s", got, want)
		}
	}

	// Terminal status closes the job's watchers.
	if _, _, err := watcher.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal close after terminal status, got %v", err)
	}
	waitWatchers(t, hub, "job-1", 0)

	if hub.Watchers("job-2") != 1 {
		t.Errorf("job-2 watcher dropped")
	}
	if m := hub.Metrics(); m.TotalConnections != 2 || m.EventsDelivered != 2 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestHubRequiresJobParam(t *testing.T) {
	hub := NewHub()
	rec := httptest.NewRecorder()
	hub.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHubIgnoresInvalidPayload(t *testing.T) {
	hub := NewHub()
	hub.handleMessage("not json")
	if m := hub.Metrics(); m.EventsDelivered != 0 {
		t.Errorf("metrics = %+v", m)
	}
}
