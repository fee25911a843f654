package world

import "time"

// Tick advances the simulation by delta. The pipeline order is fixed:
// every dog moves and resolves its own collisions against its map, then
// emptied maps regenerate loot, then idle players are swept into
// retirement. The call is not re-entrant; the driver serializes it with
// every other mutating operation.
func (w *World) Tick(delta time.Duration) {
	w.now = w.now.Add(delta)
	dt := delta.Seconds()

	for _, dog := range w.dogs {
		start := dog.Position
		w.moveDog(dog, dt)
		w.processDogCollisions(dog, start, dog.Position)
	}

	w.regenerateLoot()
	w.sweepIdlePlayers()
}

// moveDog integrates one dog's motion. Stationary dogs are skipped
// outright; a dog whose map vanished mid-tick is left untouched. A
// blocking collision with the road edge kills the dog's momentum.
func (w *World) moveDog(dog *Dog, dt float64) {
	if dog.Velocity.IsZero() {
		return
	}
	m, ok := w.mapsByID[dog.MapID]
	if !ok {
		return
	}

	result := m.ResolveMovement(dog.Position, dog.Velocity, dt)
	dog.Position = result.Position
	if result.Blocked {
		dog.Velocity = Velocity{}
	}
}
