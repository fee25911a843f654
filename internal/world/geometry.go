package world

import "math"

// stationaryEpsilon is the displacement length below which a tick's
// movement is treated as no movement at all.
const stationaryEpsilon = 1e-9

// Position is a continuous world-space coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Velocity is a world-space velocity in units per second.
type Velocity struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsZero reports whether the velocity has no component on either axis.
func (v Velocity) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Distance returns the Euclidean distance between two positions.
func Distance(a, b Position) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// CollisionTime computes when a point sweeping from start to end first
// enters the circle of the given radius around target. The result is the
// fraction of the path in [0, 1], with ok=false when the swept point
// never enters the circle within the segment.
//
// A stationary point (displacement below stationaryEpsilon) collides at
// fraction 0 exactly when it already sits within the radius. The entry
// point is clamped to the traveled segment: a target only reachable by
// extrapolating past either endpoint does not collide.
func CollisionTime(start, end, target Position, radius float64) (float64, bool) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	pathLength := math.Hypot(dx, dy)

	if pathLength < stationaryEpsilon {
		if Distance(start, target) <= radius {
			return 0, true
		}
		return 0, false
	}

	dirX := dx / pathLength
	dirY := dy / pathLength

	toTargetX := target.X - start.X
	toTargetY := target.Y - start.Y
	projection := toTargetX*dirX + toTargetY*dirY

	var closest Position
	switch {
	case projection <= 0:
		closest = start
	case projection >= pathLength:
		closest = end
	default:
		closest = Position{X: start.X + dirX*projection, Y: start.Y + dirY*projection}
	}

	perpDistance := Distance(target, closest)
	if perpDistance > radius {
		return 0, false
	}

	entryDistance := projection - math.Sqrt(radius*radius-perpDistance*perpDistance)
	if entryDistance < 0 || entryDistance > pathLength {
		return 0, false
	}

	return entryDistance / pathLength, true
}
