package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the snapshot served by the /health endpoint. This service
// holds exactly one Redis client (the availability cache) and one Mongo client.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot. A zero CheckedAt
// means no probe has completed yet.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

func recordHealth(h HealthStatus) {
	healthMu.Lock()
	currentHealth = h
	healthMu.Unlock()
}

// StartHealthMonitor probes the cache and database once a minute and keeps
// the in-memory snapshot current.
func StartHealthMonitor(cache *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			recordHealth(HealthStatus{
				Mongo:     mongoClient.Ping(ctx, nil) == nil,
				Redis:     cache.Ping(ctx).Err() == nil,
				CheckedAt: time.Now(),
			})
			cancel()
		}
	}()
}
