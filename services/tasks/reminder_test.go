package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"sudzy/config"
	"sudzy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderQueueOptMirrorsConfig(t *testing.T) {
	config.AppConfig.RedisAddr = "redis.internal:6380"
	config.AppConfig.RedisPassword = "pw"
	config.AppConfig.RedisReminderQueueDB = 3

	opt := ReminderQueueOpt()
	assert.Equal(t, "redis.internal:6380", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 3, opt.DB)
}

func TestNewReminderTaskCarriesPayload(t *testing.T) {
	payload := models.ReminderPayload{
		BookingID: "bk-1", FirstName: "Ada", ServiceName: "Premium Wash",
		Date: "2026-04-18", StartTime: "10:00",
	}
	fireAt := time.Date(2026, 4, 18, 9, 30, 0, 0, time.UTC)
	task, opts, err := NewReminderTask(payload, fireAt)
	require.NoError(t, err)

	assert.Equal(t, TypeSendReminder, task.Type())
	assert.Len(t, opts, 1)

	var got models.ReminderPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, payload, got)
}
