package streaming

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dungeonmaze/server/internal/worldgen"
)

// MaxRenderDistance caps the per-axis render distance a client may request.
// Distance d spans 2d-1 chunks along its axis, so 8 already means a
// 15x15x15 window.
const MaxRenderDistance = 8

// Manager coordinates server-driven streaming subscriptions.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	nextID        int64
}

// Subscription tracks an individual client's chunk window.
type Subscription struct {
	ID          string
	UserID      int64
	Request     SubscriptionRequest
	ActiveChunk worldgen.ChunkCoord
	Chunks      []worldgen.ChunkCoord
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChunkDelta describes server-evaluated chunk changes for a subscription.
type ChunkDelta struct {
	SubscriptionID string                `json:"subscription_id"`
	AddedChunks    []worldgen.ChunkCoord `json:"added_chunks,omitempty"`
	RemovedChunks  []worldgen.ChunkCoord `json:"removed_chunks,omitempty"`
	CurrentChunks  []worldgen.ChunkCoord `json:"current_chunks,omitempty"`
}

// NewManager builds a streaming manager instance.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*Subscription),
	}
}

// PlayerPose describes the player's world position for streaming decisions.
type PlayerPose struct {
	Position worldgen.WorldPosition `json:"position"`
}

// SubscriptionRequest is sent by clients to begin receiving streaming data.
// The distances are per-axis render distances in chunks.
type SubscriptionRequest struct {
	Pose          PlayerPose `json:"pose"`
	XDistance     uint32     `json:"x_distance"`
	YDistance     uint32     `json:"y_distance"`
	ZDistance     uint32     `json:"z_distance"`
	IncludeChunks bool       `json:"include_chunks"`
}

// SubscriptionPlan captures the initial server response for a subscription.
type SubscriptionPlan struct {
	SubscriptionID string                `json:"subscription_id"`
	ActiveChunk    worldgen.ChunkCoord   `json:"active_chunk"`
	Chunks         []worldgen.ChunkCoord `json:"chunks,omitempty"`
}

func validateRequest(req SubscriptionRequest) error {
	if err := req.Pose.Position.Validate(); err != nil {
		return fmt.Errorf("invalid pose: %w", err)
	}
	for _, d := range []struct {
		name string
		dist uint32
	}{
		{"x_distance", req.XDistance},
		{"y_distance", req.YDistance},
		{"z_distance", req.ZDistance},
	} {
		if d.dist == 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
		if d.dist > MaxRenderDistance {
			return fmt.Errorf("%s cannot exceed %d", d.name, MaxRenderDistance)
		}
	}
	return nil
}

// PlanSubscription validates the request and registers the subscription plan.
func (m *Manager) PlanSubscription(userID int64, req SubscriptionRequest) (*SubscriptionPlan, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	activeChunk := worldgen.MarkerFromPosition(req.Pose.Position).ChunkXYZ()
	chunks := ComputeChunkWindow(activeChunk, req.XDistance, req.YDistance, req.ZDistance)

	m.mu.Lock()
	m.nextID++
	subscriptionID := fmt.Sprintf("sub_%d_%d", userID, m.nextID)
	subscription := &Subscription{
		ID:          subscriptionID,
		UserID:      userID,
		Request:     req,
		ActiveChunk: activeChunk,
		Chunks:      chunks,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.subscriptions[subscriptionID] = subscription
	m.mu.Unlock()

	return &SubscriptionPlan{
		SubscriptionID: subscriptionID,
		ActiveChunk:    activeChunk,
		Chunks:         chunks,
	}, nil
}

// UpdatePose recomputes the subscription window and returns chunk deltas.
// The window only moves when the pose crosses into a different chunk, so a
// pose update within the current active chunk yields an empty delta.
func (m *Manager) UpdatePose(userID int64, subscriptionID string, pose PlayerPose) (*ChunkDelta, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription_id is required")
	}
	if err := pose.Position.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pose: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	subscription, ok := m.subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("subscription %s not found", subscriptionID)
	}
	if subscription.UserID != userID {
		return nil, fmt.Errorf("subscription %s does not belong to the current user", subscriptionID)
	}

	activeChunk := worldgen.MarkerFromPosition(pose.Position).ChunkXYZ()
	if activeChunk == subscription.ActiveChunk {
		subscription.Request.Pose = pose
		subscription.UpdatedAt = time.Now()
		return &ChunkDelta{
			SubscriptionID: subscriptionID,
			CurrentChunks:  subscription.Chunks,
		}, nil
	}

	req := subscription.Request
	newChunks := ComputeChunkWindow(activeChunk, req.XDistance, req.YDistance, req.ZDistance)
	added, removed := diffChunkSets(subscription.Chunks, newChunks)
	log.Printf("[Stream] UpdatePose: subscription=%s, active_chunk=(%d,%d,%d), added=%d, removed=%d",
		subscriptionID, activeChunk.X, activeChunk.Y, activeChunk.Z, len(added), len(removed))

	subscription.ActiveChunk = activeChunk
	subscription.Chunks = newChunks
	subscription.Request.Pose = pose
	subscription.UpdatedAt = time.Now()

	return &ChunkDelta{
		SubscriptionID: subscriptionID,
		AddedChunks:    added,
		RemovedChunks:  removed,
		CurrentChunks:  newChunks,
	}, nil
}

// GetSubscription retrieves a subscription by ID (for use by websocket handler).
func (m *Manager) GetSubscription(subscriptionID string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subscription, ok := m.subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("subscription %s not found", subscriptionID)
	}
	return subscription, nil
}

// DropUserSubscriptions removes all subscriptions belonging to a user.
// Called when the user's connection closes.
func (m *Manager) DropUserSubscriptions(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, sub := range m.subscriptions {
		if sub.UserID == userID {
			delete(m.subscriptions, id)
			dropped++
		}
	}
	return dropped
}

// ComputeChunkWindow derives the chunk coordinates within the given render
// distances of the active chunk.
func ComputeChunkWindow(activeChunk worldgen.ChunkCoord, xDist, yDist, zDist uint32) []worldgen.ChunkCoord {
	return worldgen.MakeNeighboringChunksXYZ(activeChunk, xDist, yDist, zDist)
}

func diffChunkSets(previous, next []worldgen.ChunkCoord) (added, removed []worldgen.ChunkCoord) {
	prevSet := make(map[worldgen.ChunkCoord]struct{}, len(previous))
	nextSet := make(map[worldgen.ChunkCoord]struct{}, len(next))

	for _, c := range previous {
		prevSet[c] = struct{}{}
	}
	for _, c := range next {
		nextSet[c] = struct{}{}
		if _, exists := prevSet[c]; !exists {
			added = append(added, c)
		}
	}
	for _, c := range previous {
		if _, exists := nextSet[c]; !exists {
			removed = append(removed, c)
		}
	}
	return
}
