package streaming

import (
	"math"
	"testing"

	"github.com/dungeonmaze/server/internal/worldgen"
)

func validSubscriptionRequest() SubscriptionRequest {
	return SubscriptionRequest{
		Pose:          PlayerPose{Position: worldgen.WorldPosition{X: 0, Y: 0, Z: 0}},
		XDistance:     2,
		YDistance:     1,
		ZDistance:     2,
		IncludeChunks: true,
	}
}

func TestPlanSubscription(t *testing.T) {
	m := NewManager()

	plan, err := m.PlanSubscription(1, validSubscriptionRequest())
	if err != nil {
		t.Fatalf("PlanSubscription failed: %v", err)
	}

	if plan.SubscriptionID == "" {
		t.Error("Expected non-empty subscription ID")
	}
	if plan.ActiveChunk != (worldgen.ChunkCoord{X: 0, Y: 0, Z: 0}) {
		t.Errorf("Expected active chunk (0,0,0), got %+v", plan.ActiveChunk)
	}
	// Distances (2,1,2) span a 3x1x3 window.
	if len(plan.Chunks) != 9 {
		t.Errorf("Expected 9 chunks in window, got %d", len(plan.Chunks))
	}

	sub, err := m.GetSubscription(plan.SubscriptionID)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	if sub.UserID != 1 {
		t.Errorf("Expected user ID 1, got %d", sub.UserID)
	}
}

func TestPlanSubscriptionValidation(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name   string
		modify func(*SubscriptionRequest)
	}{
		{"zero x_distance", func(r *SubscriptionRequest) { r.XDistance = 0 }},
		{"zero y_distance", func(r *SubscriptionRequest) { r.YDistance = 0 }},
		{"zero z_distance", func(r *SubscriptionRequest) { r.ZDistance = 0 }},
		{"excessive distance", func(r *SubscriptionRequest) { r.XDistance = MaxRenderDistance + 1 }},
		{"NaN position", func(r *SubscriptionRequest) { r.Pose.Position.X = math.NaN() }},
		{"infinite position", func(r *SubscriptionRequest) { r.Pose.Position.Z = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubscriptionRequest()
			tt.modify(&req)
			if _, err := m.PlanSubscription(1, req); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestUpdatePoseSameChunk(t *testing.T) {
	m := NewManager()
	plan, err := m.PlanSubscription(1, validSubscriptionRequest())
	if err != nil {
		t.Fatalf("PlanSubscription failed: %v", err)
	}

	// Still inside chunk (0,0,0): no window change.
	delta, err := m.UpdatePose(1, plan.SubscriptionID, PlayerPose{
		Position: worldgen.WorldPosition{X: 1.5, Y: 0.5, Z: -1.5},
	})
	if err != nil {
		t.Fatalf("UpdatePose failed: %v", err)
	}
	if len(delta.AddedChunks) != 0 || len(delta.RemovedChunks) != 0 {
		t.Errorf("Expected empty delta within active chunk, got added=%d removed=%d",
			len(delta.AddedChunks), len(delta.RemovedChunks))
	}
	if len(delta.CurrentChunks) != len(plan.Chunks) {
		t.Errorf("Expected current chunks unchanged (%d), got %d", len(plan.Chunks), len(delta.CurrentChunks))
	}
}

func TestUpdatePoseCrossesChunkBoundary(t *testing.T) {
	m := NewManager()
	plan, err := m.PlanSubscription(1, validSubscriptionRequest())
	if err != nil {
		t.Fatalf("PlanSubscription failed: %v", err)
	}

	// X=20 lands in chunk x=1: the 3x1x3 window slides one chunk along x,
	// exchanging a 1x1x3 slab on each side.
	delta, err := m.UpdatePose(1, plan.SubscriptionID, PlayerPose{
		Position: worldgen.WorldPosition{X: 20, Y: 0, Z: 0},
	})
	if err != nil {
		t.Fatalf("UpdatePose failed: %v", err)
	}

	if len(delta.AddedChunks) != 3 {
		t.Errorf("Expected 3 added chunks, got %d: %v", len(delta.AddedChunks), delta.AddedChunks)
	}
	if len(delta.RemovedChunks) != 3 {
		t.Errorf("Expected 3 removed chunks, got %d: %v", len(delta.RemovedChunks), delta.RemovedChunks)
	}
	if len(delta.CurrentChunks) != 9 {
		t.Errorf("Expected 9 current chunks, got %d", len(delta.CurrentChunks))
	}

	for _, c := range delta.AddedChunks {
		if c.X != 2 {
			t.Errorf("Added chunk %+v should lie on the x=2 slab", c)
		}
	}
	for _, c := range delta.RemovedChunks {
		if c.X != -1 {
			t.Errorf("Removed chunk %+v should lie on the x=-1 slab", c)
		}
	}

	sub, err := m.GetSubscription(plan.SubscriptionID)
	if err != nil {
		t.Fatalf("GetSubscription failed: %v", err)
	}
	if sub.ActiveChunk != (worldgen.ChunkCoord{X: 1, Y: 0, Z: 0}) {
		t.Errorf("Expected active chunk (1,0,0), got %+v", sub.ActiveChunk)
	}
}

func TestUpdatePoseErrors(t *testing.T) {
	m := NewManager()
	plan, err := m.PlanSubscription(1, validSubscriptionRequest())
	if err != nil {
		t.Fatalf("PlanSubscription failed: %v", err)
	}

	pose := PlayerPose{Position: worldgen.WorldPosition{X: 0, Y: 0, Z: 0}}

	if _, err := m.UpdatePose(1, "", pose); err == nil {
		t.Error("Expected error for empty subscription ID")
	}
	if _, err := m.UpdatePose(1, "sub_missing", pose); err == nil {
		t.Error("Expected error for unknown subscription")
	}
	if _, err := m.UpdatePose(2, plan.SubscriptionID, pose); err == nil {
		t.Error("Expected error for wrong user")
	}
	badPose := PlayerPose{Position: worldgen.WorldPosition{X: math.NaN()}}
	if _, err := m.UpdatePose(1, plan.SubscriptionID, badPose); err == nil {
		t.Error("Expected error for invalid pose")
	}
}

func TestDropUserSubscriptions(t *testing.T) {
	m := NewManager()

	if _, err := m.PlanSubscription(1, validSubscriptionRequest()); err != nil {
		t.Fatalf("PlanSubscription failed: %v", err)
	}
	if _, err := m.PlanSubscription(1, validSubscriptionRequest()); err != nil {
		t.Fatalf("PlanSubscription failed: %v", err)
	}
	otherPlan, err := m.PlanSubscription(2, validSubscriptionRequest())
	if err != nil {
		t.Fatalf("PlanSubscription failed: %v", err)
	}

	if dropped := m.DropUserSubscriptions(1); dropped != 2 {
		t.Errorf("Expected 2 dropped subscriptions, got %d", dropped)
	}
	if _, err := m.GetSubscription(otherPlan.SubscriptionID); err != nil {
		t.Errorf("Other user's subscription should survive: %v", err)
	}
}

func TestComputeChunkWindow(t *testing.T) {
	chunks := ComputeChunkWindow(worldgen.ChunkCoord{X: 5, Y: -2, Z: 0}, 2, 2, 2)
	if len(chunks) != 27 {
		t.Fatalf("Expected 27 chunks, got %d", len(chunks))
	}

	found := false
	for _, c := range chunks {
		if c == (worldgen.ChunkCoord{X: 5, Y: -2, Z: 0}) {
			found = true
		}
		if c.X < 4 || c.X > 6 || c.Y < -3 || c.Y > -1 || c.Z < -1 || c.Z > 1 {
			t.Errorf("Chunk %+v outside window bounds", c)
		}
	}
	if !found {
		t.Error("Window should include the active chunk itself")
	}
}
