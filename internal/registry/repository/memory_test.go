package repository_test

import (
	"context"
	"testing"
	"time"

	"civicboard/internal/registry/repository"
	"civicboard/internal/testutil"
)

func seedProblem(t *testing.T, store repository.ProblemStore, title, category string) repository.Problem {
	t.Helper()
	created, err := store.Create(context.Background(), &repository.Problem{
		Title:       title,
		Description: "description of " + title,
		Category:    category,
		Location:    "Main St",
		Status:      repository.StatusOpen,
	})
	testutil.AssertNil(t, err)
	return created
}

func TestMemoryStoreAssignsIncreasingIDs(t *testing.T) {
	store := repository.NewMemoryStore()

	first := seedProblem(t, store, "Pothole", "infrastructure")
	second := seedProblem(t, store, "Broken light", "safety")

	testutil.AssertEqual(t, first.ID, int64(1))
	testutil.AssertEqual(t, second.ID, int64(2))
	testutil.AssertEqual(t, first.Upvotes, int64(0))
	testutil.AssertEqual(t, first.Status, repository.StatusOpen)
	testutil.AssertFalse(t, first.CreatedAt.IsZero(), "createdAt must be stamped")
	testutil.AssertEqual(t, first.CreatedAt, first.UpdatedAt)
}

func TestMemoryStoreNeverReusesIDs(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	first := seedProblem(t, store, "Pothole", "infrastructure")
	_, err := store.Delete(ctx, first.ID)
	testutil.AssertNil(t, err)

	second := seedProblem(t, store, "Broken light", "safety")
	testutil.AssertEqual(t, second.ID, int64(2))
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, 42)
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)

	_, err = store.Update(ctx, 42, repository.Patch{})
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)

	_, err = store.Upvote(ctx, 42)
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)

	_, err = store.Delete(ctx, 42)
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)

	problems, err := store.List(ctx, repository.Filter{})
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, len(problems), 0)
}

func TestMemoryStoreUpvote(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	created := seedProblem(t, store, "Pothole", "infrastructure")
	time.Sleep(time.Millisecond)

	updated, err := store.Upvote(ctx, created.ID)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, updated.Upvotes, int64(1))
	testutil.AssertTrue(t, updated.UpdatedAt.After(created.UpdatedAt), "updatedAt must advance on upvote")
	testutil.AssertEqual(t, updated.CreatedAt, created.CreatedAt)
}

func TestMemoryStoreUpdateAppliesOnlySuppliedFields(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	created := seedProblem(t, store, "Pothole", "infrastructure")

	title := "Large pothole"
	status := repository.StatusInProgress
	updated, err := store.Update(ctx, created.ID, repository.Patch{
		Title:  &title,
		Status: &status,
	})
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, updated.Title, "Large pothole")
	testutil.AssertEqual(t, updated.Status, repository.StatusInProgress)
	testutil.AssertEqual(t, updated.Description, created.Description)
	testutil.AssertEqual(t, updated.Category, created.Category)
	testutil.AssertEqual(t, updated.Location, created.Location)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	first := seedProblem(t, store, "Pothole", "infrastructure")
	second := seedProblem(t, store, "Broken light", "safety")

	removed, err := store.Delete(ctx, first.ID)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, removed.ID, first.ID)
	testutil.AssertEqual(t, removed.Title, first.Title)

	_, err = store.Get(ctx, first.ID)
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)

	problems, err := store.List(ctx, repository.Filter{})
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, len(problems), 1)
	testutil.AssertEqual(t, problems[0].ID, second.ID)
}

func TestMemoryStoreListFilters(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	pothole := seedProblem(t, store, "Pothole", "infrastructure")
	light := seedProblem(t, store, "Broken light", "safety")
	seedProblem(t, store, "Littering", "environment")

	resolved := repository.StatusResolved
	_, err := store.Update(ctx, light.ID, repository.Patch{Status: &resolved})
	testutil.AssertNil(t, err)

	cases := []struct {
		name    string
		filter  repository.Filter
		wantIDs []int64
	}{
		{"no filter returns all in insertion order", repository.Filter{}, []int64{1, 2, 3}},
		{"status filter", repository.Filter{Status: repository.StatusResolved}, []int64{light.ID}},
		{"category filter", repository.Filter{Category: "infrastructure"}, []int64{pothole.ID}},
		{"combined filter", repository.Filter{Status: repository.StatusOpen, Category: "safety"}, nil},
		{"unknown category matches nothing", repository.Filter{Category: "folklore"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problems, err := store.List(ctx, tc.filter)
			testutil.AssertNil(t, err)
			testutil.AssertEqual(t, len(problems), len(tc.wantIDs))
			for i, want := range tc.wantIDs {
				testutil.AssertEqual(t, problems[i].ID, want)
			}
		})
	}
}
