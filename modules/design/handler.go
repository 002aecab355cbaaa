package design

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

type JobReader interface {
	FetchDesignJob(ctx context.Context, jobID string) (*model.DesignJob, error)
}

// Handler - 디자인 Job 상태 조회 API
type Handler struct {
	jobs JobReader
}

func NewHandler(jobs JobReader) *Handler {
	return &Handler{jobs: jobs}
}

// RegisterRoutes - 라우터에 Design 엔드포인트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/designs/{jobId}", h.GetJobStatus).Methods("GET", "OPTIONS")
	log.Info().Msg("✅ Design routes registered: /api/designs/{jobId}")
}

// GetJobStatus - Job 상태 조회
func (h *Handler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	jobID := mux.Vars(r)["jobId"]
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "jobId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	job, err := h.jobs.FetchDesignJob(ctx, jobID)
	if errors.Is(err, database.ErrJobNotFound) {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("❌ Failed to fetch job")
		writeError(w, http.StatusInternalServerError, "Failed to fetch job")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(job)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
