package world

import (
	"testing"
	"time"
)

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestWorld builds a world around a single long road with one office
// at (15,0). Loot templates are supplied per test.
func newTestWorld(t *testing.T, loot []LootSpawn, bagCapacity int) *World {
	t.Helper()
	m := &Map{
		ID:          "town",
		Name:        "Town",
		DogSpeed:    10,
		BagCapacity: bagCapacity,
		Roads:       []Road{{Start: Point{X: 0, Y: 0}, End: Point{X: 20, Y: 0}}},
		Offices:     []Office{{ID: "o1", Position: Point{X: 15, Y: 0}}},
		InitialLoot: loot,
	}
	cfg := GameConfig{
		Maps:               []*Map{m},
		DefaultDogSpeed:    DefaultDogSpeed,
		DefaultBagCapacity: bagCapacity,
		RetirementTime:     DefaultRetirementTime,
	}
	return New(cfg, Options{Start: testStart, Seed: 1})
}

/// checkIndexConsistency verifies every entity-store invariant: indices
// cover exactly the live records, and every entry resolves to the
// record it was registered for.
func checkIndexConsistency(t *testing.T, w *World) {
	t.Helper()

	if len(w.tokenToPlayer) != len(w.players) {
		t.Fatalf("token index has %d entries for %d players", len(w.tokenToPlayer), len(w.players))
	}
	if len(w.playerSlots) != len(w.players) {
		t.Fatalf("player index has %d entries for %d players", len(w.playerSlots), len(w.players))
	}
	if len(w.dogSlots) != len(w.dogs) {
		t.Fatalf("dog index has %d entries for %d dogs", len(w.dogSlots), len(w.dogs))
	}

	for token, slot := range w.tokenToPlayer {
		if slot >= len(w.players) {
			t.Fatalf("token index references slot %d past %d players", slot, len(w.players))
		}
		if w.players[slot].Token != token {
			t.Fatalf("token index slot %d resolves to a different player", slot)
		}
	}
	for playerID, slot := range w.playerSlots {
		if slot >= len(w.players) || w.players[slot].ID != playerID {
			t.Fatalf("player index entry %d is stale", playerID)
		}
	}
	for dogID, slot := range w.dogSlots {
		if slot >= len(w.dogs) || w.dogs[slot].ID != dogID {
			t.Fatalf("dog index entry %d is stale", dogID)
		}
	}
	for _, p := range w.players {
		dog, ok := w.FindDog(p.DogID)
		if !ok {
			t.Fatalf("player %d references missing dog %d", p.ID, p.DogID)
		}
		if dog.Name != p.Name {
			t.Fatalf("player %d and dog %d disagree on the owner name", p.ID, dog.ID)
		}
	}
}

func TestRemoveLootItemTakesItemOffMap(t *testing.T) {
	w := newTestWorld(t, []LootSpawn{{Type: 1, Value: 10, Position: Position{X: 5, Y: 0}}}, 3)

	item, ok := w.RemoveLootItem("town", 0)
	if !ok {
		t.Fatalf("expected to remove seeded item 0")
	}
	if item.Value != 10 || item.Type != 1 {
		t.Fatalf("unexpected item payload: %+v", item)
	}

	if _, ok := w.RemoveLootItem("town", 0); ok {
		t.Fatalf("item 0 must be gone after removal")
	}
	if _, ok := w.RemoveLootItem("nowhere", 0); ok {
		t.Fatalf("unknown map must not yield an item")
	}
}

func TestInitialLootReceivesAllocatedIDs(t *testing.T) {
	loot := []LootSpawn{
		{Type: 1, Value: 10, Position: Position{X: 5, Y: 0}},
		{Type: 2, Value: 30, Position: Position{X: 6, Y: 0}},
	}
	w := newTestWorld(t, loot, 3)

	m, _ := w.FindMap("town")
	items := m.Loot()
	if len(items) != 2 {
		t.Fatalf("expected 2 seeded items, got %d", len(items))
	}
	if items[0].ID != 0 || items[1].ID != 1 {
		t.Fatalf("expected seeded ids 0,1, got %d,%d", items[0].ID, items[1].ID)
	}
}

func TestSnapshotDoesNotAliasLiveState(t *testing.T) {
	w := newTestWorld(t, []LootSpawn{{Type: 1, Value: 10, Position: Position{X: 5, Y: 0}}}, 3)
	if _, err := w.JoinGame("rex", "town"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	snap := w.Snapshot()
	if len(snap.Dogs) != 1 || len(snap.Maps) != 1 {
		t.Fatalf("unexpected snapshot shape: %d dogs, %d maps", len(snap.Dogs), len(snap.Maps))
	}

	snap.Maps[0].Loot[0].Value = 999
	m, _ := w.FindMap("town")
	if m.Loot()[0].Value != 10 {
		t.Fatalf("mutating the snapshot must not touch live loot")
	}
}
