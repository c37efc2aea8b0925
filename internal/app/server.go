package app

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"standardsync/internal/reconciler"
	"standardsync/internal/taskqueue"
	"standardsync/pkg/logging"
)

// FunctionKeyHeader carries the shared trigger key.
const FunctionKeyHeader = "x-functions-key"

// triggerHandler serves the HTTP trigger and status endpoints.
type triggerHandler struct {
	runs        *RunTracker
	worker      *taskqueue.Worker
	functionKey string
}

// NewHandler returns the HTTP API:
//
//	POST /api/update-standards  enqueue a run (202 with the job id)
//	GET  /api/runs/latest       the latest run and metrics
//	GET  /healthz               worker state and queue length
func NewHandler(runs *RunTracker, worker *taskqueue.Worker, functionKey string) http.Handler {
	h := &triggerHandler{runs: runs, worker: worker, functionKey: functionKey}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/update-standards", h.requireKey(h.updateStandards))
	mux.HandleFunc("GET /api/runs/latest", h.requireKey(h.latestRun))
	mux.HandleFunc("GET /healthz", h.health)
	return mux
}

func (h *triggerHandler) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.functionKey != "" {
			got := r.Header.Get(FunctionKeyHeader)
			if got == "" {
				got = r.URL.Query().Get("code")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(h.functionKey)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or missing function key"})
				return
			}
		}
		next(w, r)
	}
}

func (h *triggerHandler) updateStandards(w http.ResponseWriter, r *http.Request) {
	id, err := h.runs.Trigger("http")
	switch {
	case errors.Is(err, ErrDisabled):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		logging.Error("Trigger", err, "UpdateStandardsHttp has failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"jobId": id})
	}
}

type latestRunResponse struct {
	Latest  *LatestRun                          `json:"latest"`
	Metrics reconciler.ReconcilerMetricsSummary `json:"metrics"`
}

func (h *triggerHandler) latestRun(w http.ResponseWriter, r *http.Request) {
	latest := h.runs.Latest()
	if latest == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run has finished yet"})
		return
	}
	writeJSON(w, http.StatusOK, latestRunResponse{
		Latest:  latest,
		Metrics: reconciler.GetReconcilerMetrics().Summary(),
	})
}

type healthResponse struct {
	Status  string                `json:"status"`
	Enabled bool                  `json:"enabled"`
	Worker  taskqueue.WorkerStats `json:"worker"`
}

func (h *triggerHandler) health(w http.ResponseWriter, r *http.Request) {
	stats := h.worker.Stats()
	status, code := "ok", http.StatusOK
	if stats.State == taskqueue.StateStopped {
		status, code = "stopped", http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthResponse{
		Status:  status,
		Enabled: h.runs.Enabled(),
		Worker:  stats,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Debug("Trigger", "Failed to write response: %v", err)
	}
}
