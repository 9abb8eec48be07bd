package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthSnapshotRoundtrip(t *testing.T) {
	now := time.Now()
	recordHealth(HealthStatus{Mongo: true, Redis: false, CheckedAt: now})

	got := GetHealthStatus()
	assert.True(t, got.Mongo)
	assert.False(t, got.Redis)
	assert.Equal(t, now, got.CheckedAt)

	recordHealth(HealthStatus{Mongo: false, Redis: true, CheckedAt: now.Add(time.Minute)})
	got = GetHealthStatus()
	assert.False(t, got.Mongo)
	assert.True(t, got.Redis)
}
