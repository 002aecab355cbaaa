package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"wall-panel-server/modules/common/model"
	redisutil "wall-panel-server/modules/common/redis"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 모든 origin 허용 (CORS는 라우터에서 처리)
		return true
	},
}

// 연결된 클라이언트 정보
type client struct {
	conn  *websocket.Conn
	jobID string
	send  chan []byte
}

// Metrics - 허브 메트릭
type Metrics struct {
	TotalConnections int       `json:"totalConnections"`
	ActiveWatchers   int       `json:"activeWatchers"`
	WatchedJobs      int       `json:"watchedJobs"`
	EventsDelivered  int       `json:"eventsDelivered"`
	StartTime        time.Time `json:"startTime"`
}

// Hub fans job status events out to websocket clients watching that job.
type Hub struct {
	mu       sync.Mutex
	watchers map[string]map[*client]struct{}
	metrics  Metrics
}

func NewHub() *Hub {
	return &Hub{
		watchers: make(map[string]map[*client]struct{}),
		metrics:  Metrics{StartTime: time.Now()},
	}
}

// RegisterRoutes - /ws, /api/realtime/metrics
func (h *Hub) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws", h.HandleWebSocket)
	r.HandleFunc("/api/realtime/metrics", h.HandleMetrics).Methods("GET")
	log.Info().Msg("✅ Realtime routes registered: /ws, /api/realtime/metrics")
}

// Subscribe listens on the status channel until ctx is done.
func (h *Hub) Subscribe(ctx context.Context, rdb *redis.Client) error {
	pubsub := rdb.Subscribe(ctx, redisutil.StatusChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", redisutil.StatusChannel, err)
	}
	log.Info().Str("channel", redisutil.StatusChannel).Msg("📡 Subscribed to status events")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			h.handleMessage(msg.Payload)
		}
	}
}

func (h *Hub) handleMessage(payload string) {
	var event model.StatusEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Warn().Err(err).Msg("⚠️  Invalid status event payload")
		return
	}
	h.Broadcast(event)
}

// Broadcast delivers event to watchers of its job. Slow clients are dropped.
// After a terminal status every watcher of the job is closed.
func (h *Hub) Broadcast(event model.StatusEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	group := h.watchers[event.JobID]
	for c := range group {
		select {
		case c.send <- payload:
			h.metrics.EventsDelivered++
		default:
			log.Warn().Str("job_id", c.jobID).Msg("⚠️  Slow websocket client dropped")
			h.removeLocked(c)
		}
	}

	if model.IsTerminal(event.Status) {
		for c := range h.watchers[event.JobID] {
			h.removeLocked(c)
		}
	}
}

// Watchers returns the number of clients watching jobID.
func (h *Hub) Watchers(jobID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers[jobID])
}

func (h *Hub) Metrics() Metrics {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.metrics
	m.WatchedJobs = len(h.watchers)
	return m
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.watchers[c.jobID]
	if !ok {
		group = make(map[*client]struct{})
		h.watchers[c.jobID] = group
	}
	group[c] = struct{}{}
	h.metrics.TotalConnections++
	h.metrics.ActiveWatchers++

	log.Info().Str("job_id", c.jobID).Int("watchers", len(group)).Msg("👤 Client watching job")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked closes c.send exactly once; callers hold h.mu.
func (h *Hub) removeLocked(c *client) {
	group, ok := h.watchers[c.jobID]
	if !ok {
		return
	}
	if _, ok := group[c]; !ok {
		return
	}
	delete(group, c)
	close(c.send)
	h.metrics.ActiveWatchers--
	if len(group) == 0 {
		delete(h.watchers, c.jobID)
	}
}

// HandleWebSocket - GET /ws?job={jobId}
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		http.Error(w, `{"error": "job parameter is required"}`, http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{
		conn:  conn,
		jobID: jobID,
		send:  make(chan []byte, sendBuffer),
	}
	h.register(c)

	go c.writePump()
	go c.readPump(h)
}

// HandleMetrics - 허브 메트릭 조회
func (h *Hub) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Metrics())
}

// readPump only watches for the client going away; clients send nothing.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("job_id", c.jobID).Msg("WebSocket read error")
			}
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Debug().Err(err).Str("job_id", c.jobID).Msg("WebSocket write error")
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"))
}
