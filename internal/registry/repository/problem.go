package repository

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProblemNotFound = errors.New("problem not found")
)

// Status is the lifecycle state of a problem report.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// ValidStatus reports whether s is one of the recognized status values.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// RecognizedCategories are the category values tracked by Stats. Any non-empty
// category is accepted for storage; unrecognized ones are simply not bucketed.
var RecognizedCategories = []string{
	"infrastructure",
	"safety",
	"environment",
	"education",
	"health",
}

// Problem represents one reported problem.
type Problem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Upvotes     int64     `json:"upvotes"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Filter narrows List results. Zero-valued fields are unconstrained.
type Filter struct {
	Status   Status
	Category string
}

// Matches reports whether p satisfies every constraint set on f.
func (f Filter) Matches(p *Problem) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// Patch carries the mutable problem fields for an update. Nil fields are left
// untouched; validation of supplied values happens in the service layer.
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Status      *Status
}

// ProblemStore owns the problem collection and the id counter. Ids are
// monotonically assigned and never reused, even after Delete. Every method is
// linearizable with respect to the collection.
type ProblemStore interface {
	// List returns the problems matching filter in storage order.
	List(ctx context.Context, filter Filter) ([]Problem, error)
	// Get returns the problem with the given id, or ErrProblemNotFound.
	Get(ctx context.Context, id int64) (Problem, error)
	// Create assigns the next id, stamps timestamps and appends the problem.
	Create(ctx context.Context, problem *Problem) (Problem, error)
	// Update applies the non-nil patch fields and refreshes UpdatedAt.
	Update(ctx context.Context, id int64, patch Patch) (Problem, error)
	// Upvote increments the upvote counter by one and refreshes UpdatedAt.
	Upvote(ctx context.Context, id int64) (Problem, error)
	// Delete removes the problem permanently and returns its last snapshot.
	Delete(ctx context.Context, id int64) (Problem, error)
}
