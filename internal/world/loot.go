package world

// LootGenerator produces the items restocked onto a map whose ground
// ran empty. Implementations return spawn templates; the world assigns
// ids when it materializes them.
type LootGenerator interface {
	Generate(m *Map) []LootSpawn
}

// Interim regeneration policy: a fixed batch of identical items laid
// out along a line.
// TODO: drive batch size, positions, and types from the map's loot
// class catalog instead of these constants.
const (
	lootRespawnBatch = 5
	lootRespawnType  = 1
	lootRespawnValue = 10
)

// batchGenerator is the default policy behind LootGenerator.
type batchGenerator struct{}

func (batchGenerator) Generate(*Map) []LootSpawn {
	spawns := make([]LootSpawn, 0, lootRespawnBatch)
	for i := 0; i < lootRespawnBatch; i++ {
		spawns = append(spawns, LootSpawn{
			Type:     lootRespawnType,
			Value:    lootRespawnValue,
			Position: Position{X: 10.0 + float64(i)*5.0, Y: 10.0},
		})
	}
	return spawns
}

// regenerateLoot restocks every map whose live loot set ran empty. Item
// ids continue the session-wide monotonic sequence.
func (w *World) regenerateLoot() {
	for _, m := range w.maps {
		if len(m.loot) > 0 {
			continue
		}
		for _, spawn := range w.lootGenerator.Generate(m) {
			m.addLootItem(LootItem{
				ID:       w.allocateLootID(),
				Type:     spawn.Type,
				Value:    spawn.Value,
				Position: spawn.Position,
			})
		}
	}
}
