package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "registry"

// RedisStore keeps the collection in Redis: one JSON value per problem, a list
// preserving insertion order, and an INCR-based id counter. Read-modify-write
// operations are serialized by a process-local mutex; the service is a single
// logical owner of the collection, so cross-process coordination is out of
// scope.
type RedisStore struct {
	mu        sync.Mutex
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisStore creates a store on top of an existing Redis client.
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultRedisKeyPrefix
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

func (s *RedisStore) nextIDKey() string { return s.keyPrefix + ":next_id" }
func (s *RedisStore) orderKey() string  { return s.keyPrefix + ":ids" }
func (s *RedisStore) problemKey(id int64) string {
	return fmt.Sprintf("%s:problem:%d", s.keyPrefix, id)
}

// List returns problems matching filter in insertion order.
func (s *RedisStore) List(ctx context.Context, filter Filter) ([]Problem, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list problem ids failed: %w", err)
	}

	matched := make([]Problem, 0, len(ids))
	if len(ids) == 0 {
		return matched, nil
	}

	keys := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt id entry %q: %w", raw, err)
		}
		keys = append(keys, s.problemKey(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load problems failed: %w", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Entry deleted between LRANGE and MGET.
			continue
		}
		var p Problem
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode problem failed: %w", err)
		}
		if filter.Matches(&p) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Get returns the problem with the given id.
func (s *RedisStore) Get(ctx context.Context, id int64) (Problem, error) {
	return s.load(ctx, id)
}

// Create assigns the next id, stamps timestamps and appends the problem.
func (s *RedisStore) Create(ctx context.Context, problem *Problem) (Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.client.Incr(ctx, s.nextIDKey()).Result()
	if err != nil {
		return Problem{}, fmt.Errorf("allocate id failed: %w", err)
	}

	now := s.now().UTC()
	stored := *problem
	stored.ID = id
	stored.Upvotes = 0
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if err := s.save(ctx, &stored); err != nil {
		return Problem{}, err
	}
	if err := s.client.RPush(ctx, s.orderKey(), strconv.FormatInt(id, 10)).Err(); err != nil {
		return Problem{}, fmt.Errorf("append problem id failed: %w", err)
	}
	return stored, nil
}

// Update applies the non-nil patch fields and refreshes UpdatedAt.
func (s *RedisStore) Update(ctx context.Context, id int64, patch Patch) (Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return Problem{}, err
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, &p); err != nil {
		return Problem{}, err
	}
	return p, nil
}

// Upvote increments the upvote counter by one and refreshes UpdatedAt.
func (s *RedisStore) Upvote(ctx context.Context, id int64) (Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return Problem{}, err
	}

	p.Upvotes++
	p.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, &p); err != nil {
		return Problem{}, err
	}
	return p, nil
}

// Delete removes the problem permanently and returns its last snapshot.
// The id counter is never rolled back, so ids are not reassigned.
func (s *RedisStore) Delete(ctx context.Context, id int64) (Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return Problem{}, err
	}

	if err := s.client.Del(ctx, s.problemKey(id)).Err(); err != nil {
		return Problem{}, fmt.Errorf("delete problem failed: %w", err)
	}
	if err := s.client.LRem(ctx, s.orderKey(), 1, strconv.FormatInt(id, 10)).Err(); err != nil {
		return Problem{}, fmt.Errorf("remove problem id failed: %w", err)
	}
	return p, nil
}

func (s *RedisStore) load(ctx context.Context, id int64) (Problem, error) {
	raw, err := s.client.Get(ctx, s.problemKey(id)).Result()
	if err == redis.Nil {
		return Problem{}, ErrProblemNotFound
	}
	if err != nil {
		return Problem{}, fmt.Errorf("load problem failed: %w", err)
	}

	var p Problem
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Problem{}, fmt.Errorf("decode problem failed: %w", err)
	}
	return p, nil
}

func (s *RedisStore) save(ctx context.Context, p *Problem) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode problem failed: %w", err)
	}
	if err := s.client.Set(ctx, s.problemKey(p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("store problem failed: %w", err)
	}
	return nil
}
