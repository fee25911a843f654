package world

import (
	"math"
	"testing"
)

func straightRoadMap() *Map {
	return &Map{
		ID:       "straight",
		Name:     "Straight",
		DogSpeed: 10,
		Roads:    []Road{{Start: Point{X: 0, Y: 0}, End: Point{X: 20, Y: 0}}},
	}
}

func TestResolveMovementAlongRoad(t *testing.T) {
	m := straightRoadMap()

	result := m.ResolveMovement(Position{X: 0, Y: 0}, Velocity{X: 10}, 1)
	if result.Blocked {
		t.Fatalf("movement inside the corridor must not block")
	}
	if result.Position != (Position{X: 10, Y: 0}) {
		t.Fatalf("expected position (10,0), got %+v", result.Position)
	}
}

func TestResolveMovementClampsAtRoadEnd(t *testing.T) {
	m := straightRoadMap()

	result := m.ResolveMovement(Position{X: 18, Y: 0}, Velocity{X: 10}, 1)
	if !result.Blocked {
		t.Fatalf("expected a blocking collision at the road end")
	}
	if math.Abs(result.Position.X-20.4) > 1e-12 || result.Position.Y != 0 {
		t.Fatalf("expected clamp to the corridor edge (20.4,0), got %+v", result.Position)
	}
}

func TestResolveMovementClampsAcrossCorridorWidth(t *testing.T) {
	m := straightRoadMap()

	result := m.ResolveMovement(Position{X: 5, Y: 0}, Velocity{Y: 3}, 1)
	if !result.Blocked {
		t.Fatalf("expected a blocking collision against the corridor side")
	}
	if result.Position.X != 5 || math.Abs(result.Position.Y-0.4) > 1e-12 {
		t.Fatalf("expected clamp to (5,0.4), got %+v", result.Position)
	}
}

func TestResolveMovementCrossesJunction(t *testing.T) {
	m := &Map{
		ID: "cross",
		Roads: []Road{
			{Start: Point{X: 0, Y: 0}, End: Point{X: 10, Y: 0}},
			{Start: Point{X: 10, Y: 0}, End: Point{X: 10, Y: 10}},
		},
	}

	// At the junction both corridors contain the dog, so turning onto
	// the vertical road is unrestricted.
	result := m.ResolveMovement(Position{X: 10, Y: 0}, Velocity{Y: 4}, 1)
	if result.Blocked {
		t.Fatalf("expected unrestricted movement onto the crossing road")
	}
	if result.Position != (Position{X: 10, Y: 4}) {
		t.Fatalf("expected position (10,4), got %+v", result.Position)
	}
}

func TestResolveMovementPicksMostPermissiveRoad(t *testing.T) {
	m := &Map{
		ID: "overlap",
		Roads: []Road{
			{Start: Point{X: 0, Y: 0}, End: Point{X: 5, Y: 0}},
			{Start: Point{X: 0, Y: 0}, End: Point{X: 15, Y: 0}},
		},
	}

	result := m.ResolveMovement(Position{X: 2, Y: 0}, Velocity{X: 10}, 1)
	if result.Blocked {
		t.Fatalf("expected the longer road to carry the full move")
	}
	if result.Position != (Position{X: 12, Y: 0}) {
		t.Fatalf("expected position (12,0), got %+v", result.Position)
	}
}

func TestResolveMovementOffRoad(t *testing.T) {
	m := straightRoadMap()

	result := m.ResolveMovement(Position{X: 50, Y: 50}, Velocity{X: 1}, 1)
	if !result.Blocked {
		t.Fatalf("expected off-road movement to report blocked")
	}
	if result.Position != (Position{X: 50, Y: 50}) {
		t.Fatalf("off-road movement must not change position, got %+v", result.Position)
	}
}
