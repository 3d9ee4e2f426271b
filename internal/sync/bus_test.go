package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/homekeepapp/go-home-keeper/models"
)

func TestBus_NotifyAndUnsubscribe(t *testing.T) {
	bus := NewBus()

	var first, second []models.SyncEventType
	unsubscribe := bus.AddListener(func(e models.SyncEvent) {
		first = append(first, e.Type)
	})
	bus.AddListener(func(e models.SyncEvent) {
		second = append(second, e.Type)
	})

	bus.Notify(models.SyncEvent{Type: models.SyncEventPull})
	unsubscribe()
	bus.Notify(models.SyncEvent{Type: models.SyncEventPush})

	assert.Equal(t, []models.SyncEventType{models.SyncEventPull}, first)
	assert.Equal(t, []models.SyncEventType{models.SyncEventPull, models.SyncEventPush}, second)
}

func TestBus_UnsubscribeTwice(t *testing.T) {
	bus := NewBus()

	unsubscribe := bus.AddListener(func(models.SyncEvent) {})
	unsubscribe()
	assert.NotPanics(t, unsubscribe)
}
