package model

import "time"

// DesignJob - designs 테이블 구조
type DesignJob struct {
	ID                string    `json:"id"`
	OriginalImageURL  string    `json:"original_image_url"`
	ProcessedImageURL *string   `json:"processed_image_url"`
	Prompt            *string   `json:"prompt"`
	Status            string    `json:"status"`
	LayoutStrategy    *string   `json:"layout_strategy"` // standard | staggered | asymmetric | mixed
	Pipeline          *string   `json:"pipeline"`        // procedural (default) | edit
	CreatedAt         time.Time `json:"created_at"`
}

// PromptText returns the user prompt or "".
func (j *DesignJob) PromptText() string {
	if j.Prompt == nil {
		return ""
	}
	return *j.Prompt
}

// PipelineName returns the requested pipeline, defaulting to procedural.
func (j *DesignJob) PipelineName() string {
	if j.Pipeline == nil || *j.Pipeline == "" {
		return PipelineProcedural
	}
	return *j.Pipeline
}

// StatusEvent - 상태 전이 알림 (Redis Pub/Sub -> WebSocket)
type StatusEvent struct {
	JobID             string    `json:"jobId"`
	Status            string    `json:"status"`
	ProcessedImageURL string    `json:"processedImageUrl,omitempty"`
	At                time.Time `json:"at"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	PipelineProcedural = "procedural"
	PipelineEdit       = "edit"
)

// IsTerminal reports whether no further transition is allowed from status.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// CanTransition - pending -> processing -> {completed, failed}
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	}
	return false
}
