package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"civicboard/internal/registry/repository"
	pkgerrors "civicboard/pkg/errors"
)

const topUpvotedLimit = 5

// ProblemService implements the registry operations on top of a ProblemStore.
type ProblemService struct {
	store repository.ProblemStore
}

// NewProblemService creates a new ProblemService.
func NewProblemService(store repository.ProblemStore) *ProblemService {
	return &ProblemService{store: store}
}

// CreateInput represents input for problem creation.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Location    string
}

// UpdateInput represents a partial problem update. Nil fields were not
// supplied by the caller.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Status      *string
}

// Stats aggregates the current collection.
type Stats struct {
	Total      int                  `json:"total"`
	ByStatus   map[string]int       `json:"byStatus"`
	ByCategory map[string]int       `json:"byCategory"`
	TopUpvoted []repository.Problem `json:"topUpvoted"`
}

// List returns problems matching the optional status and category filters.
func (s *ProblemService) List(ctx context.Context, status, category string) ([]repository.Problem, error) {
	filter := repository.Filter{
		Status:   repository.Status(status),
		Category: category,
	}
	problems, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(fmt.Errorf("list problems failed: %w", err), pkgerrors.StoreError)
	}
	return problems, nil
}

// Get returns a single problem by id.
func (s *ProblemService) Get(ctx context.Context, id int64) (repository.Problem, error) {
	problem, err := s.store.Get(ctx, id)
	if err != nil {
		return repository.Problem{}, s.mapStoreError(err, "get problem")
	}
	return problem, nil
}

// Create validates the four required fields and stores a new open problem.
func (s *ProblemService) Create(ctx context.Context, input CreateInput) (repository.Problem, error) {
	if isBlank(input.Title) || isBlank(input.Description) || isBlank(input.Category) || isBlank(input.Location) {
		return repository.Problem{}, pkgerrors.New(pkgerrors.RequiredFieldEmpty)
	}

	problem, err := s.store.Create(ctx, &repository.Problem{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Status:      repository.StatusOpen,
	})
	if err != nil {
		return repository.Problem{}, pkgerrors.Wrap(fmt.Errorf("create problem failed: %w", err), pkgerrors.StoreError)
	}
	return problem, nil
}

// Update applies the supplied fields to an existing problem. A supplied text
// field must be non-empty and a supplied status must be recognized; validation
// failures apply no mutation.
func (s *ProblemService) Update(ctx context.Context, id int64, input UpdateInput) (repository.Problem, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return repository.Problem{}, s.mapStoreError(err, "update problem")
	}

	patch := repository.Patch{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
	}
	for _, field := range []*string{input.Title, input.Description, input.Category, input.Location} {
		if field != nil && isBlank(*field) {
			return repository.Problem{}, pkgerrors.New(pkgerrors.RequiredFieldEmpty)
		}
	}
	if input.Status != nil {
		status := repository.Status(*input.Status)
		if !repository.ValidStatus(status) {
			return repository.Problem{}, pkgerrors.New(pkgerrors.InvalidStatusValue)
		}
		patch.Status = &status
	}

	problem, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return repository.Problem{}, s.mapStoreError(err, "update problem")
	}
	return problem, nil
}

// Upvote increments a problem's upvote counter by one.
func (s *ProblemService) Upvote(ctx context.Context, id int64) (repository.Problem, error) {
	problem, err := s.store.Upvote(ctx, id)
	if err != nil {
		return repository.Problem{}, s.mapStoreError(err, "upvote problem")
	}
	return problem, nil
}

// ChangeStatus moves a problem to one of the recognized status values.
func (s *ProblemService) ChangeStatus(ctx context.Context, id int64, status string) (repository.Problem, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return repository.Problem{}, s.mapStoreError(err, "change status")
	}

	next := repository.Status(status)
	if !repository.ValidStatus(next) {
		return repository.Problem{}, pkgerrors.New(pkgerrors.InvalidStatusValue)
	}

	problem, err := s.store.Update(ctx, id, repository.Patch{Status: &next})
	if err != nil {
		return repository.Problem{}, s.mapStoreError(err, "change status")
	}
	return problem, nil
}

// Delete removes a problem permanently and returns its last snapshot.
func (s *ProblemService) Delete(ctx context.Context, id int64) (repository.Problem, error) {
	problem, err := s.store.Delete(ctx, id)
	if err != nil {
		return repository.Problem{}, s.mapStoreError(err, "delete problem")
	}
	return problem, nil
}

// Stats computes aggregates over the full collection. The top-upvoted ranking
// sorts a copy; the stored order is never touched.
func (s *ProblemService) Stats(ctx context.Context) (Stats, error) {
	problems, err := s.store.List(ctx, repository.Filter{})
	if err != nil {
		return Stats{}, pkgerrors.Wrap(fmt.Errorf("load problems failed: %w", err), pkgerrors.StoreError)
	}

	stats := Stats{
		Total: len(problems),
		ByStatus: map[string]int{
			string(repository.StatusOpen):       0,
			string(repository.StatusInProgress): 0,
			string(repository.StatusResolved):   0,
		},
		ByCategory: make(map[string]int, len(repository.RecognizedCategories)),
	}
	for _, category := range repository.RecognizedCategories {
		stats.ByCategory[category] = 0
	}

	for i := range problems {
		stats.ByStatus[string(problems[i].Status)]++
		if _, ok := stats.ByCategory[problems[i].Category]; ok {
			stats.ByCategory[problems[i].Category]++
		}
	}

	ranked := make([]repository.Problem, len(problems))
	copy(ranked, problems)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Upvotes > ranked[j].Upvotes
	})
	if len(ranked) > topUpvotedLimit {
		ranked = ranked[:topUpvotedLimit]
	}
	stats.TopUpvoted = ranked

	return stats, nil
}

func (s *ProblemService) mapStoreError(err error, op string) error {
	if err == repository.ErrProblemNotFound {
		return pkgerrors.New(pkgerrors.ProblemNotFound)
	}
	return pkgerrors.Wrap(fmt.Errorf("%s failed: %w", op, err), pkgerrors.StoreError)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
