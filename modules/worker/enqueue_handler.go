package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"wall-panel-server/modules/common/database"
	"wall-panel-server/modules/common/model"
)

// Enqueuer - Job ID를 큐에 추가
type Enqueuer interface {
	Push(ctx context.Context, jobID string) (int64, error)
	Key() string
}

// JobLookup - enqueue 전 Job 존재/상태 확인
type JobLookup interface {
	FetchDesignJob(ctx context.Context, jobID string) (*model.DesignJob, error)
}

// EnqueueHandler - Redis Queue Enqueue Handler
type EnqueueHandler struct {
	queue Enqueuer
	jobs  JobLookup
}

// EnqueueRequest - Enqueue 요청
type EnqueueRequest struct {
	JobID string `json:"job_id"`
}

// EnqueueResponse - Enqueue 응답
type EnqueueResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	JobID         string `json:"job_id,omitempty"`
	Queue         string `json:"queue,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
}

func NewEnqueueHandler(queue Enqueuer, jobs JobLookup) *EnqueueHandler {
	return &EnqueueHandler{queue: queue, jobs: jobs}
}

// RegisterRoutes - 라우트 등록
func (h *EnqueueHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/designs/enqueue", h.HandleEnqueue).Methods("POST", "OPTIONS")
	log.Info().Msg("✅ Enqueue route registered: /api/designs/enqueue")
}

// HandleEnqueue - POST /api/designs/enqueue
func (h *EnqueueHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// OPTIONS 요청 처리
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("❌ [Enqueue] Invalid request")
		writeJSON(w, http.StatusBadRequest, EnqueueResponse{Error: "Invalid request body"})
		return
	}
	if req.JobID == "" {
		writeJSON(w, http.StatusBadRequest, EnqueueResponse{Error: "job_id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	job, err := h.jobs.FetchDesignJob(ctx, req.JobID)
	if errors.Is(err, database.ErrJobNotFound) {
		writeJSON(w, http.StatusNotFound, EnqueueResponse{Error: "Job not found", JobID: req.JobID})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("job_id", req.JobID).Msg("❌ [Enqueue] Job lookup failed")
		writeJSON(w, http.StatusInternalServerError, EnqueueResponse{Error: "Failed to look up job"})
		return
	}
	if job.Status != model.StatusPending {
		writeJSON(w, http.StatusConflict, EnqueueResponse{
			Error: "Job is " + job.Status + ", only pending jobs can be enqueued",
			JobID: req.JobID,
		})
		return
	}

	position, err := h.queue.Push(ctx, req.JobID)
	if err != nil {
		log.Error().Err(err).Str("job_id", req.JobID).Msg("❌ [Enqueue] Redis LPUSH failed")
		writeJSON(w, http.StatusInternalServerError, EnqueueResponse{Error: "Failed to enqueue job"})
		return
	}

	log.Info().Str("job_id", req.JobID).Int64("position", position).Msg("✅ [Enqueue] Job enqueued")
	writeJSON(w, http.StatusOK, EnqueueResponse{
		Success:       true,
		Message:       "Job enqueued successfully",
		JobID:         req.JobID,
		Queue:         h.queue.Key(),
		QueuePosition: position,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
