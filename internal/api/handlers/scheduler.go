package handlers

import (
	"net/http"
	"sort"

	"github.com/ShrayBagga/StockAnalysis/internal/scheduler"
)

// JobStatsProvider exposes scheduler statistics
type JobStatsProvider interface {
	GetJobStats() map[string]scheduler.JobStats
}

// SchedulerHandler reports scheduled job status
type SchedulerHandler struct {
	jobs JobStatsProvider
}

// NewSchedulerHandler creates a new scheduler handler. jobs may be nil when
// scheduling is disabled.
func NewSchedulerHandler(jobs JobStatsProvider) *SchedulerHandler {
	return &SchedulerHandler{jobs: jobs}
}

// GetJobs returns statistics for every job, ordered by name
// GET /api/scheduler/jobs
func (h *SchedulerHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	result := make([]scheduler.JobStats, 0)

	if h.jobs != nil {
		for _, st := range h.jobs.GetJobStats() {
			result = append(result, st)
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].JobName < result[j].JobName
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"enabled": h.jobs != nil,
		"jobs":    result,
	})
}
