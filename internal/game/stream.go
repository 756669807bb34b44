package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Subscription receives every snapshot the engine publishes. The channel is
// closed on Unsubscribe or when the engine closes.
type Subscription struct {
	ID      string
	Updates <-chan GameState

	updates chan GameState
}

// StreamManager fans snapshots out to subscribers without ever blocking the engine
type StreamManager struct {
	clients    map[string]*Subscription
	clientsMu  sync.Mutex
	bufferSize int
	logger     zerolog.Logger
}

// NewStreamManager creates a new stream manager
func NewStreamManager(bufferSize int, logger zerolog.Logger) *StreamManager {
	if bufferSize <= 0 {
		bufferSize = DefaultStreamBuffer
	}
	return &StreamManager{
		clients:    make(map[string]*Subscription),
		bufferSize: bufferSize,
		logger:     logger.With().Str("component", "stream_manager").Logger(),
	}
}

// Register adds a subscriber and queues initial as its first update
func (sm *StreamManager) Register(initial GameState) *Subscription {
	ch := make(chan GameState, sm.bufferSize)
	sub := &Subscription{
		ID:      uuid.NewString(),
		Updates: ch,
		updates: ch,
	}
	ch <- initial

	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()
	sm.clients[sub.ID] = sub

	sm.logger.Debug().
		Str("subscription_id", sub.ID).
		Int("total_streams", len(sm.clients)).
		Msg("Stream client registered")
	return sub
}

// Unregister removes a subscriber and closes its channel
func (sm *StreamManager) Unregister(id string) bool {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	sub, exists := sm.clients[id]
	if !exists {
		return false
	}
	close(sub.updates)
	delete(sm.clients, id)

	sm.logger.Debug().
		Str("subscription_id", id).
		Int("remaining_streams", len(sm.clients)).
		Msg("Stream client unregistered")
	return true
}

// Broadcast sends s to every subscriber. A full channel drops its oldest snapshot.
func (sm *StreamManager) Broadcast(s GameState) {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	for id, sub := range sm.clients {
		select {
		case sub.updates <- s:
			continue
		default:
		}

		// Only Broadcast sends, and it holds clientsMu, so one free slot suffices.
		select {
		case <-sub.updates:
		default:
		}
		select {
		case sub.updates <- s:
		default:
		}

		sm.logger.Warn().
			Str("subscription_id", id).
			Msg("Stream update channel full, dropped oldest snapshot")
	}
}

// SubscriberCount returns the number of open subscriptions
func (sm *StreamManager) SubscriberCount() int {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()
	return len(sm.clients)
}

// CloseAll closes every subscription
func (sm *StreamManager) CloseAll() {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	for id, sub := range sm.clients {
		close(sub.updates)
		delete(sm.clients, id)
	}
}
