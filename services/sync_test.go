package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := NewHub(nil)

	var got int
	unsub := hub.Subscribe(7, func() { got++ })
	defer unsub()

	hub.Publish(7)
	hub.Publish(7)
	assert.Equal(t, 2, got)
}

func TestHubPublishScopedToContent(t *testing.T) {
	hub := NewHub(nil)

	var a, b int
	defer hub.Subscribe(1, func() { a++ })()
	defer hub.Subscribe(2, func() { b++ })()

	hub.Publish(1)
	assert.Equal(t, 1, a)
	assert.Equal(t, 0, b)
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(nil)

	var got int
	unsub := hub.Subscribe(3, func() { got++ })

	hub.Publish(3)
	unsub()
	hub.Publish(3)

	assert.Equal(t, 1, got)
}

// Unsubscribing twice, or after the hub has already dropped the handler,
// must be a silent no-op.
func TestHubUnsubscribeIdempotent(t *testing.T) {
	hub := NewHub(nil)

	unsub := hub.Subscribe(3, func() {})
	unsub()
	assert.NotPanics(t, func() {
		unsub()
		unsub()
	})
	assert.NotPanics(t, func() { hub.Publish(3) })
}

func TestHubMultipleSubscribersSameContent(t *testing.T) {
	hub := NewHub(nil)

	var first, second int
	unsub1 := hub.Subscribe(5, func() { first++ })
	defer hub.Subscribe(5, func() { second++ })()

	hub.Publish(5)
	unsub1()
	hub.Publish(5)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestHubPanickingHandlerDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(nil)

	var got int
	defer hub.Subscribe(9, func() { panic("boom") })()
	defer hub.Subscribe(9, func() { got++ })()

	assert.NotPanics(t, func() { hub.Publish(9) })
	assert.Equal(t, 1, got)
}

func TestHubConcurrentSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := hub.Subscribe(1, func() {})
			hub.Publish(1)
			unsub()
		}()
	}
	wg.Wait()

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Empty(t, hub.subs, "all subscriptions should be gone")
}

func TestParseSyncPayload(t *testing.T) {
	instance, contentID, err := parseSyncPayload("abc-def:42")
	require.NoError(t, err)
	assert.Equal(t, "abc-def", instance)
	assert.Equal(t, uint(42), contentID)

	_, _, err = parseSyncPayload("garbage")
	assert.Error(t, err)

	_, _, err = parseSyncPayload("abc:notanumber")
	assert.Error(t, err)
}
