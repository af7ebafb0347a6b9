package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultRunTTL bounds how long a crashed run can keep its session locked.
const DefaultRunTTL = 5 * time.Minute

// RunRegistry tracks which chat sessions have a pipeline run in flight.
type RunRegistry struct {
	cache *cache.Cache
}

func NewRunRegistry(ttl time.Duration) *RunRegistry {
	if ttl <= 0 {
		ttl = DefaultRunTTL
	}
	c := cache.New(ttl, time.Minute)
	return &RunRegistry{
		cache: c,
	}
}

// Acquire marks the session busy. It returns false if a run already holds it.
func (r *RunRegistry) Acquire(sessionID string) bool {
	return r.cache.Add(sessionID, time.Now(), cache.DefaultExpiration) == nil
}

func (r *RunRegistry) Release(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *RunRegistry) Busy(sessionID string) bool {
	_, found := r.cache.Get(sessionID)
	return found
}

func (r *RunRegistry) InFlight() int {
	return r.cache.ItemCount()
}
