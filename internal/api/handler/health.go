package handler

import (
	"net/http"

	"github.com/hszk-dev/movieverse/internal/domain/repository"
)

type HealthResponse struct {
	Status string `json:"status"`
	Queue  string `json:"queue"`
}

// HealthHandler reports process liveness and queue reachability.
type HealthHandler struct {
	queue repository.JobQueue
}

// NewHealthHandler creates a new HealthHandler. queue may be nil when the
// asynchronous path is disabled.
func NewHealthHandler(queue repository.JobQueue) *HealthHandler {
	return &HealthHandler{queue: queue}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	queueStatus := "disabled"
	if h.queue != nil {
		if h.queue.IsAvailable() {
			queueStatus = "available"
		} else {
			queueStatus = "unavailable"
		}
	}

	JSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Queue:  queueStatus,
	})
}
