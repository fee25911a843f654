package world

// roadHalfWidth is half the width of a road corridor. A dog may occupy
// any position within this distance of a road's center line.
const roadHalfWidth = 0.4

// Point is an integer map-grid coordinate from the game config.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Road is an axis-aligned road segment between two grid points. Dogs can
// only move inside the corridor formed by expanding the segment by
// roadHalfWidth on every side.
type Road struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// IsHorizontal reports whether the road runs along the X axis.
func (r Road) IsHorizontal() bool {
	return r.Start.Y == r.End.Y
}

// corridor returns the walkable rectangle covered by the road.
func (r Road) corridor() bounds {
	minX := float64(r.Start.X)
	maxX := float64(r.End.X)
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	minY := float64(r.Start.Y)
	maxY := float64(r.End.Y)
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	return bounds{
		minX: minX - roadHalfWidth,
		minY: minY - roadHalfWidth,
		maxX: maxX + roadHalfWidth,
		maxY: maxY + roadHalfWidth,
	}
}

// bounds is a closed axis-aligned rectangle in world space.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func (b bounds) contains(p Position) bool {
	return p.X >= b.minX && p.X <= b.maxX && p.Y >= b.minY && p.Y <= b.maxY
}

func (b bounds) clamp(p Position) Position {
	return Position{
		X: Clamp(p.X, b.minX, b.maxX),
		Y: Clamp(p.Y, b.minY, b.maxY),
	}
}

// Building is a decorative rectangular structure. Buildings do not block
// movement; dogs are constrained to roads instead.
type Building struct {
	Position Point `json:"position"`
	Width    int   `json:"width"`
	Height   int   `json:"height"`
}

// Office is a drop-off location where a dog's bagged loot converts to
// score. The offset shifts the rendered sprite, not the collision point.
type Office struct {
	ID       string `json:"id"`
	Position Point  `json:"position"`
	Offset   Point  `json:"offset"`
}

// LootClass describes one configured class of loot on a map, used for
// scoring and client-side visuals.
type LootClass struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// LootItem is a single collectible lying on a map or carried in a bag.
// IDs are issued by the world's allocator and are never reused.
type LootItem struct {
	ID       int      `json:"id"`
	Type     int      `json:"type"`
	Value    int      `json:"value"`
	Position Position `json:"position"`
}

// LootSpawn is a template for an item placed at load time, before the
// world has assigned it an id.
type LootSpawn struct {
	Type     int
	Value    int
	Position Position
}

// Map is a configuration-time immutable game area. Only its live loot
// set mutates after load, and only through the owning World.
type Map struct {
	ID          string
	Name        string
	DogSpeed    float64
	BagCapacity int
	Roads       []Road
	Buildings   []Building
	Offices     []Office
	LootClasses []LootClass
	InitialLoot []LootSpawn

	loot []LootItem
}

// Loot returns the live loot currently on the ground, in spawn order.
// The returned slice is the map's own backing storage and must not be
// mutated by callers.
func (m *Map) Loot() []LootItem {
	return m.loot
}

// findLootItem returns the live item with the given id.
func (m *Map) findLootItem(itemID int) (LootItem, bool) {
	for _, item := range m.loot {
		if item.ID == itemID {
			return item, true
		}
	}
	return LootItem{}, false
}

// removeLootItem deletes the item with the given id from the live set,
// preserving the enumeration order of the remaining items.
func (m *Map) removeLootItem(itemID int) bool {
	for i, item := range m.loot {
		if item.ID == itemID {
			m.loot = append(m.loot[:i], m.loot[i+1:]...)
			return true
		}
	}
	return false
}

// addLootItem appends an item to the live set.
func (m *Map) addLootItem(item LootItem) {
	m.loot = append(m.loot, item)
}

// DefaultSpawnPosition is where dogs appear when spawn randomization is
// disabled: the start of the map's first road.
func (m *Map) DefaultSpawnPosition() Position {
	if len(m.Roads) == 0 {
		return Position{}
	}
	start := m.Roads[0].Start
	return Position{X: float64(start.X), Y: float64(start.Y)}
}
