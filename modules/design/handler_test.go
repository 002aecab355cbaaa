package design

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"wall-panel-server/modules/common/model"
)

func TestGetJobStatus(t *testing.T) {
	jobs := &fakeJobs{job: &model.DesignJob{ID: "job-1", Status: model.StatusProcessing}}
	r := mux.NewRouter()
	NewHandler(jobs).RegisterRoutes(r)

	tests := []struct {
		name       string
		path       string
		fetchErr   error
		wantStatus int
	}{
		{"found", "/api/designs/job-1", nil, http.StatusOK},
		{"missing", "/api/designs/nope", nil, http.StatusNotFound},
		{"store error", "/api/designs/job-1", errors.New("supabase down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs.fetchErr = tt.fetchErr
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var job model.DesignJob
			if err := json.NewDecoder(rec.Body).Decode(&job); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if job.ID != "job-1" || job.Status != model.StatusProcessing {
				t.Errorf("job = %+v", job)
			}
		})
	}
}
