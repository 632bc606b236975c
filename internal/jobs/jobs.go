// Package jobs tracks asynchronous enrichment jobs submitted through the
// webhook server. The registry is in-memory; jobs do not survive a restart.
package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Job is one submitted enrichment batch.
type Job struct {
	ID          string            `json:"id"`
	Status      Status            `json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	FinishedAt  *time.Time        `json:"finished_at,omitempty"`
	RowCount    int               `json:"row_count"`
	Error       string            `json:"error,omitempty"`
	Rows        []model.OutputRow `json:"-"`
}

// Registry is a concurrency-safe in-memory job store.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new pending job and returns a snapshot of it. The
// snapshot is detached: later Start/Complete/Fail calls do not touch it, so
// callers can hand it to an encoder while the job runs.
func (r *Registry) Create(rowCount int) *Job {
	j := &Job{
		ID:          uuid.NewString(),
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
		RowCount:    rowCount,
	}
	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()
	cp := *j
	return &cp
}

// Get returns a copy of the job, or nil if unknown. The copy omits result
// rows; use Rows for those.
func (r *Registry) Get(id string) *Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil
	}
	cp := *j
	cp.Rows = nil
	return &cp
}

// Rows returns the finished job's output rows, or nil if the job is
// unknown or not complete.
func (r *Registry) Rows(id string) []model.OutputRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok || j.Status != StatusComplete {
		return nil
	}
	return j.Rows
}

// Start marks the job running.
func (r *Registry) Start(id string) {
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.Status = StatusRunning
		j.StartedAt = &now
	}
}

// Complete stores the job's results and marks it complete.
func (r *Registry) Complete(id string, rows []model.OutputRow) {
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.Status = StatusComplete
		j.FinishedAt = &now
		j.Rows = rows
	}
}

// Fail marks the job failed with a message.
func (r *Registry) Fail(id, msg string) {
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.Status = StatusFailed
		j.FinishedAt = &now
		j.Error = msg
	}
}

// List returns copies of all jobs, newest first not guaranteed.
func (r *Registry) List() []*Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		cp := *j
		cp.Rows = nil
		out = append(out, &cp)
	}
	return out
}
