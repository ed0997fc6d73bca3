package repository_test

import (
	"context"
	"testing"

	"civicboard/internal/registry/repository"
	"civicboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) *repository.RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return repository.NewRedisStore(client, "registry-test")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	created := seedProblem(t, store, "Pothole", "infrastructure")
	testutil.AssertEqual(t, created.ID, int64(1))
	testutil.AssertEqual(t, created.Status, repository.StatusOpen)

	got, err := store.Get(ctx, created.ID)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, got.Title, "Pothole")
	testutil.AssertEqual(t, got.Category, "infrastructure")
	testutil.AssertTrue(t, got.CreatedAt.Equal(created.CreatedAt), "createdAt must survive the round trip")
}

func TestRedisStoreListPreservesInsertionOrder(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	seedProblem(t, store, "Pothole", "infrastructure")
	seedProblem(t, store, "Broken light", "safety")
	seedProblem(t, store, "Littering", "environment")

	problems, err := store.List(ctx, repository.Filter{})
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, len(problems), 3)
	testutil.AssertEqual(t, problems[0].Title, "Pothole")
	testutil.AssertEqual(t, problems[1].Title, "Broken light")
	testutil.AssertEqual(t, problems[2].Title, "Littering")

	safetyOnly, err := store.List(ctx, repository.Filter{Category: "safety"})
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, len(safetyOnly), 1)
	testutil.AssertEqual(t, safetyOnly[0].Title, "Broken light")
}

func TestRedisStoreMutations(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	created := seedProblem(t, store, "Pothole", "infrastructure")

	upvoted, err := store.Upvote(ctx, created.ID)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, upvoted.Upvotes, int64(1))

	status := repository.StatusResolved
	updated, err := store.Update(ctx, created.ID, repository.Patch{Status: &status})
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, updated.Status, repository.StatusResolved)
	testutil.AssertEqual(t, updated.Upvotes, int64(1))
}

func TestRedisStoreDeleteDoesNotReuseIDs(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	first := seedProblem(t, store, "Pothole", "infrastructure")
	removed, err := store.Delete(ctx, first.ID)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, removed.ID, first.ID)

	_, err = store.Get(ctx, first.ID)
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)

	second := seedProblem(t, store, "Broken light", "safety")
	testutil.AssertEqual(t, second.ID, int64(2))

	problems, err := store.List(ctx, repository.Filter{})
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, len(problems), 1)
}

func TestRedisStoreNotFound(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, 42)
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)

	_, err = store.Upvote(ctx, 42)
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)

	_, err = store.Delete(ctx, 42)
	testutil.AssertEqual(t, err, repository.ErrProblemNotFound)
}
