// Package controller sits between a presentation layer and the cache engine. It owns the active engine, replaces it
// when the policy or capacity changes, and turns engine events into renders and human-readable status messages.

package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/nobletooth/kvcache/pkg/cache"
	"github.com/nobletooth/kvcache/pkg/utils"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	// The evicted-keys filter answers "was this key evicted before?" for misses; false positives only affect the
	// wording of the status message.
	evictedFilterSize              = 10_000
	evictedFilterFalsePositiveRate = 0.01
)

// Presenter shows the cache to a user.
type Presenter interface {
	// Render shows `entries` in the policy order. `event` is the change that caused the render; its Action is
	// cache.ActionNone when the whole cache was replaced.
	Render(entries []utils.Pair[string, string], event cache.Event[string, string])
	// Status shows a one-line message about the last operation.
	Status(message string)
}

// store is satisfied by both the plain engines and cache.Sharded.
type store interface {
	Put(key, value string)
	Get(key string) (string, bool)
	Snapshot() []utils.Pair[string, string]
	Len() int
}

// Option customizes a Controller.
type Option func(*Controller)

// WithShardCount spreads the cache over `shardCount` engines; 1 (the default) uses a single engine.
func WithShardCount(shardCount int) Option {
	return func(c *Controller) { c.shardCount = shardCount }
}

// Controller owns the active cache engine. It is meant to be used from a single goroutine.
type Controller struct {
	policy     cache.Policy
	capacity   int
	shardCount int
	engine     store
	presenter  Presenter
	pending    []cache.Event[string, string] // Events of the running operation, rendered once it returns.
	evicted    *bloom.BloomFilter            // Keys evicted from the active engine.
}

// New creates a controller with an empty engine. A nil presenter discards all output.
func New(policy cache.Policy, capacity int, presenter Presenter, opts ...Option) (*Controller, error) {
	if presenter == nil {
		presenter = discardPresenter{}
	}
	c := &Controller{
		policy:     policy,
		capacity:   capacity,
		shardCount: 1,
		presenter:  presenter,
		evicted:    bloom.NewWithEstimates(evictedFilterSize, evictedFilterFalsePositiveRate),
	}
	for _, opt := range opts {
		opt(c)
	}
	engine, err := c.newEngine(policy, capacity)
	if err != nil {
		return nil, err
	}
	c.engine = engine
	cacheEntries.Set(0)
	return c, nil
}

func (c *Controller) newEngine(policy cache.Policy, capacity int) (store, error) {
	if c.shardCount > 1 {
		sharded, err := cache.NewSharded[string, string](policy, capacity, c.shardCount, c.observe)
		if err != nil {
			return nil, fmt.Errorf("failed to create sharded %s cache: %w", policy, err)
		}
		return sharded, nil
	}
	engine, err := cache.New[string, string](policy, capacity, c.observe)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cache: %w", policy, err)
	}
	return engine, nil
}

// observe is the engine observer. It must not call back into the engine, so renders wait for flush.
func (c *Controller) observe(event cache.Event[string, string]) {
	cacheEvents.WithLabelValues(c.policy.String(), event.Action.String()).Inc()
	if event.Action == cache.ActionEvicted {
		c.evicted.Add([]byte(event.Key))
	}
	slog.Debug("Cache event.", "policy", c.policy, "action", event.Action, "key", event.Key)
	c.pending = append(c.pending, event)
}

// flush renders every pending event against the current contents.
func (c *Controller) flush() {
	if len(c.pending) == 0 {
		return
	}
	entries := c.engine.Snapshot()
	for _, event := range c.pending {
		c.presenter.Render(entries, event)
	}
	c.pending = c.pending[:0]
	cacheEntries.Set(float64(len(entries)))
}

// replace discards the active engine and all its entries.
func (c *Controller) replace(policy cache.Policy, capacity int) error {
	engine, err := c.newEngine(policy, capacity)
	if err != nil {
		return err
	}
	slog.Info("Replacing cache engine.", "oldPolicy", c.policy, "newPolicy", policy,
		"oldCapacity", c.capacity, "newCapacity", capacity, "droppedEntries", c.engine.Len())
	c.engine, c.policy, c.capacity = engine, policy, capacity
	c.evicted.ClearAll()
	c.pending = c.pending[:0]
	cacheEntries.Set(0)
	c.presenter.Render(nil, cache.Event[string, string]{})
	return nil
}

// SetPolicy switches to a new, empty engine of `policy` with the current capacity.
func (c *Controller) SetPolicy(policy cache.Policy) error {
	if err := c.replace(policy, c.capacity); err != nil {
		c.presenter.Status(fmt.Sprintf("Error: %v", err))
		return err
	}
	c.presenter.Status(fmt.Sprintf("Algorithm set to %s", policy))
	return nil
}

// SetCapacity switches to a new, empty engine of the current policy with `capacity`. A non-positive capacity is
// rejected and the active engine is kept.
func (c *Controller) SetCapacity(capacity int) error {
	if capacity <= 0 {
		c.presenter.Status("Cache size must be greater than 0")
		return fmt.Errorf("%w: got %d", cache.ErrInvalidCapacity, capacity)
	}
	if err := c.replace(c.policy, capacity); err != nil {
		c.presenter.Status(fmt.Sprintf("Error: %v", err))
		return err
	}
	c.presenter.Status(fmt.Sprintf("Cache size set to %d", capacity))
	return nil
}

// Add stores `key` with `value`. Surrounding whitespace is trimmed and both must be non-empty.
func (c *Controller) Add(key, value string) error {
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" || value == "" {
		c.presenter.Status("Please enter both key and value")
		return fmt.Errorf("%w: both key and value are required", ErrInvalidInput)
	}
	c.engine.Put(key, value)
	c.flush()
	c.presenter.Status(fmt.Sprintf("Added key: %s, value: %s", key, value))
	return nil
}

// Access reads `key`. A miss returns an error wrapping cache.ErrKeyNotFound and leaves the cache untouched.
func (c *Controller) Access(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		c.presenter.Status("Please enter a key to access")
		return "", fmt.Errorf("%w: key is required", ErrInvalidInput)
	}
	value, found := c.engine.Get(key)
	recordLookup(c.policy, found)
	if !found {
		status := fmt.Sprintf("Error: Key \"%s\" not found in the cache", key)
		if c.evicted.Test([]byte(key)) {
			status += " (it was likely evicted)"
		}
		c.presenter.Status(status)
		return "", fmt.Errorf("%w: %s", cache.ErrKeyNotFound, key)
	}
	c.flush()
	c.presenter.Status(fmt.Sprintf("Accessed key: %s, value: %s", key, value))
	return value, nil
}

// Snapshot returns the contents of the active engine in its policy order.
func (c *Controller) Snapshot() []utils.Pair[string, string] {
	return c.engine.Snapshot()
}

func (c *Controller) Policy() cache.Policy { return c.policy }
func (c *Controller) Capacity() int        { return c.capacity }
func (c *Controller) Len() int             { return c.engine.Len() }

type discardPresenter struct{} // Implements Presenter.

func (discardPresenter) Render([]utils.Pair[string, string], cache.Event[string, string]) {}

func (discardPresenter) Status(string) {}
