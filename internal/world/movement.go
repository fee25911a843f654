package world

// MovementResult reports where a moving dog ended up and whether it ran
// into the edge of the road network on the way.
type MovementResult struct {
	Position Position
	Blocked  bool
}

// ResolveMovement integrates pos by vel over dt seconds, then clamps the
// target into the road corridors reachable from the starting position.
// When the unclamped target would leave every containing corridor the
// returned position sits on the corridor boundary and Blocked is true;
// the caller is expected to zero the mover's velocity in that case.
func (m *Map) ResolveMovement(pos Position, vel Velocity, dt float64) MovementResult {
	target := Position{X: pos.X + vel.X*dt, Y: pos.Y + vel.Y*dt}

	reached := false
	var best Position
	bestTravel := -1.0

	for _, road := range m.Roads {
		corridor := road.corridor()
		if !corridor.contains(pos) {
			continue
		}
		candidate := corridor.clamp(target)
		if candidate == target {
			return MovementResult{Position: target}
		}
		reached = true
		if travel := Distance(pos, candidate); travel > bestTravel {
			bestTravel = travel
			best = candidate
		}
	}

	if !reached {
		// Off-road position: refuse to move rather than teleport back
		// onto the network.
		return MovementResult{Position: pos, Blocked: true}
	}

	return MovementResult{Position: best, Blocked: true}
}
