package world

import "sort"

// Interaction radii carried by the stationary targets; the moving dog
// itself is treated as a point.
const (
	lootPickupRadius = 0.3
	officeRadius     = 0.55
)

type collisionKind int

const (
	collisionItemPickup collisionKind = iota
	collisionOfficeReturn
)

// collisionEvent is one candidate interaction along a dog's path this
// tick, timestamped with the path fraction at which it occurs.
type collisionEvent struct {
	kind   collisionKind
	time   float64
	itemID int
}

// processDogCollisions finds everything the dog's swept path touched on
// its own map and applies the results in time order. The sort is stable,
// so simultaneous events resolve in the order the loot and offices are
// enumerated on the map.
func (w *World) processDogCollisions(dog *Dog, start, end Position) {
	m, ok := w.mapsByID[dog.MapID]
	if !ok {
		return
	}

	var events []collisionEvent

	for _, item := range m.loot {
		if t, hit := CollisionTime(start, end, item.Position, lootPickupRadius); hit {
			events = append(events, collisionEvent{
				kind:   collisionItemPickup,
				time:   t,
				itemID: item.ID,
			})
		}
	}

	for _, office := range m.Offices {
		officePos := Position{
			X: float64(office.Position.X),
			Y: float64(office.Position.Y),
		}
		if t, hit := CollisionTime(start, end, officePos, officeRadius); hit {
			events = append(events, collisionEvent{
				kind: collisionOfficeReturn,
				time: t,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].time < events[j].time
	})

	for _, event := range events {
		switch event.kind {
		case collisionItemPickup:
			if dog.BagFull() {
				// Full bag: the item stays on the ground, no event fires.
				continue
			}
			if item, ok := w.RemoveLootItem(m.ID, event.itemID); ok {
				dog.Bag = append(dog.Bag, item)
			}
		case collisionOfficeReturn:
			for _, carried := range dog.Bag {
				dog.Score += carried.Value
			}
			dog.Bag = dog.Bag[:0]
		}
	}
}
