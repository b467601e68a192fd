package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/skillforge/engage/utils"
)

const syncChannelPrefix = "engage:reviews:"

// Hub is the change-notification registry for review/like activity on a
// content item. Handlers are expected to re-run the full read path for the
// item, never to patch local state incrementally. A Redis pub/sub bridge
// fans notifications out across instances; without Redis the hub still
// works process-locally.
type Hub struct {
	mu       sync.Mutex
	subs     map[uint]map[uint64]func()
	nextID   uint64
	rdb      *redis.Client
	instance string
}

// NewHub creates a hub. rdb may be nil for a process-local hub.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		subs:     make(map[uint]map[uint64]func()),
		rdb:      rdb,
		instance: uuid.NewString(),
	}
}

// Subscribe registers onChange for the content item and returns an
// unsubscribe handle. Calling the handle more than once, or after the hub
// has otherwise forgotten the subscription, is a no-op.
func (h *Hub) Subscribe(contentID uint, onChange func()) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[contentID] == nil {
		h.subs[contentID] = make(map[uint64]func())
	}
	h.subs[contentID][id] = onChange
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			if handlers, ok := h.subs[contentID]; ok {
				delete(handlers, id)
				if len(handlers) == 0 {
					delete(h.subs, contentID)
				}
			}
			h.mu.Unlock()
		})
	}
}

// Publish notifies local subscribers and, when Redis is configured, every
// other instance. Publish failures are logged and dropped; a missed
// notification heals itself on the next user-triggered reload.
func (h *Hub) Publish(contentID uint) {
	h.dispatch(contentID)

	if h.rdb == nil {
		return
	}
	payload := fmt.Sprintf("%s:%d", h.instance, contentID)
	if err := h.rdb.Publish(context.Background(), syncChannelKey(contentID), payload).Err(); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("sync publish failed content=%d err=%v", contentID, err)
		}
	}
}

// dispatch invokes the handlers registered for contentID. Handlers run
// outside the lock; a panicking handler is logged and does not take down
// the hub.
func (h *Hub) dispatch(contentID uint) {
	h.mu.Lock()
	handlers := make([]func(), 0, len(h.subs[contentID]))
	for _, fn := range h.subs[contentID] {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil && utils.Sugar != nil {
					utils.Sugar.Errorf("sync handler panic content=%d: %v", contentID, r)
				}
			}()
			fn()
		}()
	}
}

// StartRedisBridge subscribes to the review channels and forwards remote
// notifications into the local hub. Messages this instance published are
// skipped so local subscribers are not notified twice. Runs until ctx is
// cancelled.
func (h *Hub) StartRedisBridge(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	sub := h.rdb.PSubscribe(ctx, syncChannelPrefix+"*")
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				instance, contentID, err := parseSyncPayload(msg.Payload)
				if err != nil {
					if utils.Sugar != nil {
						utils.Sugar.Warnf("sync bridge bad payload %q: %v", msg.Payload, err)
					}
					continue
				}
				if instance == h.instance {
					continue
				}
				h.dispatch(contentID)
			}
		}
	}()
}

func syncChannelKey(contentID uint) string {
	return syncChannelPrefix + strconv.FormatUint(uint64(contentID), 10)
}

func parseSyncPayload(payload string) (instance string, contentID uint, err error) {
	idx := strings.LastIndex(payload, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("missing separator")
	}
	id, err := strconv.ParseUint(payload[idx+1:], 10, 64)
	if err != nil {
		return "", 0, err
	}
	return payload[:idx], uint(id), nil
}
