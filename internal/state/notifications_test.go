package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_console/internal/models"
)

func TestDeduperAlertsOnlyFirstTime(t *testing.T) {
	d := NewNotificationDeduper()
	batch := map[string][]models.Notification{
		"BTCUSDC": {
			{Timestamp: "2026-08-30 10:00:00", Type: models.NotificationError, Message: "order failed"},
			{Timestamp: "2026-08-30 10:05:00", Type: models.NotificationInfo, Message: "order filled"},
		},
	}

	alerts := d.Apply(batch)
	require.Len(t, alerts, 1)
	assert.Equal(t, "order failed", alerts[0].Message)
	assert.Equal(t, "BTCUSDC", alerts[0].Symbol)

	// накопительный лог приходит в каждом poll — повторных алертов нет
	assert.Empty(t, d.Apply(batch))
	assert.Empty(t, d.Apply(batch))
	assert.Len(t, d.List(), 2)
}

func TestDeduperListNewestFirst(t *testing.T) {
	d := NewNotificationDeduper()
	d.Apply(map[string][]models.Notification{
		"ETHUSDC": {{Timestamp: "2026-08-30 09:00:00", Type: models.NotificationInfo}},
		"BTCUSDC": {{Timestamp: "2026-08-30 11:00:00", Type: models.NotificationInfo}},
	})

	list := d.List()
	require.Len(t, list, 2)
	assert.Equal(t, "BTCUSDC", list[0].Symbol)
}

func TestDeduperReset(t *testing.T) {
	d := NewNotificationDeduper()
	batch := map[string][]models.Notification{
		"BTCUSDC": {{Timestamp: "2026-08-30 10:00:00", Type: models.NotificationError}},
	}
	require.Len(t, d.Apply(batch), 1)

	d.Reset()
	assert.Empty(t, d.List())
	// после очистки та же запись снова считается новой
	assert.Len(t, d.Apply(batch), 1)
}
