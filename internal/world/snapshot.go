package world

import "time"

// DogSnapshot is a copy of one dog's broadcastable state.
type DogSnapshot struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	MapID     string     `json:"mapId"`
	Position  Position   `json:"pos"`
	Velocity  Velocity   `json:"speed"`
	Direction Direction  `json:"dir"`
	Score     int        `json:"score"`
	Bag       []LootItem `json:"bag"`
}

// MapLootSnapshot lists the loot on the ground of one map.
type MapLootSnapshot struct {
	MapID string     `json:"mapId"`
	Loot  []LootItem `json:"loot"`
}

// Snapshot is a full copy of the broadcastable world state at the end
// of a tick. Nothing in it aliases live storage.
type Snapshot struct {
	Time time.Time         `json:"time"`
	Dogs []DogSnapshot     `json:"dogs"`
	Maps []MapLootSnapshot `json:"maps"`
}

// Snapshot copies the current world state for broadcasting.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Time: w.now,
		Dogs: make([]DogSnapshot, 0, len(w.dogs)),
		Maps: make([]MapLootSnapshot, 0, len(w.maps)),
	}

	for _, dog := range w.dogs {
		bag := make([]LootItem, len(dog.Bag))
		copy(bag, dog.Bag)
		snap.Dogs = append(snap.Dogs, DogSnapshot{
			ID:        dog.ID,
			Name:      dog.Name,
			MapID:     dog.MapID,
			Position:  dog.Position,
			Velocity:  dog.Velocity,
			Direction: dog.Direction,
			Score:     dog.Score,
			Bag:       bag,
		})
	}

	for _, m := range w.maps {
		loot := make([]LootItem, len(m.loot))
		copy(loot, m.loot)
		snap.Maps = append(snap.Maps, MapLootSnapshot{MapID: m.ID, Loot: loot})
	}

	return snap
}
