package store

import "time"

// RunStatus tracks an analysis run through its lifecycle.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// RunKind names what a run analyzed.
type RunKind string

const (
	KindFile      RunKind = "file"
	KindStructure RunKind = "structure"
	KindDeps      RunKind = "deps"
	KindProject   RunKind = "project"
)

// Run is one recorded analysis execution. Result holds the JSON-encoded
// report for completed runs.
type Run struct {
	ID          string     `json:"id"`
	Kind        RunKind    `json:"kind"`
	Target      string     `json:"target"`
	Status      RunStatus  `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
	Result      string     `json:"-"`
}

// Summary is the listing view of a run, without the result payload.
type Summary struct {
	ID          string     `json:"id"`
	Kind        RunKind    `json:"kind"`
	Target      string     `json:"target"`
	Status      RunStatus  `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// ToSummary strips the result payload for listings.
func (r *Run) ToSummary() Summary {
	return Summary{
		ID:          r.ID,
		Kind:        r.Kind,
		Target:      r.Target,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
		Error:       r.Error,
	}
}

// ListOptions filters and pages run listings.
type ListOptions struct {
	Kind   []RunKind
	Status []RunStatus
	Limit  int
	Offset int
}

// ListResponse is one page of runs plus the unpaged total.
type ListResponse struct {
	Runs       []Summary `json:"runs"`
	TotalCount int       `json:"totalCount"`
}
