package world

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Direction is a dog's facing, encoded the way the wire protocol spells
// it: U=north, D=south, L=west, R=east.
type Direction string

const (
	DirectionNorth Direction = "U"
	DirectionSouth Direction = "D"
	DirectionWest  Direction = "L"
	DirectionEast  Direction = "R"
)

// Dog is the player-controlled avatar. Its bag never grows past the
// owning map's bag capacity.
type Dog struct {
	ID          int
	Name        string
	MapID       string
	Position    Position
	Velocity    Velocity
	Direction   Direction
	Score       int
	Bag         []LootItem
	BagCapacity int
}

// BagFull reports whether the dog cannot pick up another item.
func (d *Dog) BagFull() bool {
	return len(d.Bag) >= d.BagCapacity
}

// Player is one live session. Exactly one dog belongs to it for its
// whole lifetime, and exactly one token resolves to it.
type Player struct {
	ID    int
	Name  string
	DogID int
	MapID string
	Token string
}

// RetirementCallback observes a player leaving the game. It runs before
// any of the player's state is removed, so the dog/player pair it sees
// is still consistent.
type RetirementCallback func(name string, score int, playTime time.Duration)

// Options tune a World instance.
type Options struct {
	// RandomizeSpawnPoints spawns joining dogs at a random point on a
	// random road instead of the map's default position.
	RandomizeSpawnPoints bool
	// RetirementTime overrides the game config's idle threshold when
	// positive.
	RetirementTime time.Duration
	// Start anchors the simulated clock. Zero means time.Now().
	Start time.Time
	// Seed fixes the spawn RNG for reproducible runs. Zero derives a
	// seed from the start time.
	Seed int64
	// LootGenerator overrides the restock policy for maps that run out
	// of ground loot. Nil uses the default fixed-batch policy.
	LootGenerator LootGenerator
	// Logger receives join/retire events. Nil disables logging.
	Logger *zap.Logger
}

// World owns every live entity: maps with their loot, dogs, players,
// the lookup indices over them, and the id allocators. All mutation
// goes through its methods, and callers must serialize those calls
// externally (one simulation goroutine, or a lock around the world).
type World struct {
	maps     []*Map
	mapsByID map[string]*Map

	dogs    []*Dog
	players []*Player

	tokenToPlayer map[string]int
	playerSlots   map[int]int
	dogSlots      map[int]int

	metadata map[int]*playerMetadata

	nextDogID    int
	nextPlayerID int
	nextLootID   int

	randomizeSpawns bool
	retirementTime  time.Duration
	now             time.Time
	rng             *rand.Rand
	lootGenerator   LootGenerator
	logger          *zap.Logger

	retirementCallback RetirementCallback
}

// New builds a world from a loaded game config. Initial loot templates
// are materialized through the world's id allocator so every item id in
// a session comes from the same monotonic sequence.
func New(cfg GameConfig, opts Options) *World {
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = start.UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	generator := opts.LootGenerator
	if generator == nil {
		generator = batchGenerator{}
	}
	retirement := cfg.RetirementTime
	if opts.RetirementTime > 0 {
		retirement = opts.RetirementTime
	}
	if retirement <= 0 {
		retirement = DefaultRetirementTime
	}

	w := &World{
		mapsByID:        make(map[string]*Map, len(cfg.Maps)),
		tokenToPlayer:   make(map[string]int),
		playerSlots:     make(map[int]int),
		dogSlots:        make(map[int]int),
		metadata:        make(map[int]*playerMetadata),
		randomizeSpawns: opts.RandomizeSpawnPoints,
		retirementTime:  retirement,
		now:             start,
		rng:             rand.New(rand.NewSource(seed)),
		lootGenerator:   generator,
		logger:          logger,
	}

	for _, m := range cfg.Maps {
		w.maps = append(w.maps, m)
		w.mapsByID[m.ID] = m
		for _, spawn := range m.InitialLoot {
			m.addLootItem(LootItem{
				ID:       w.allocateLootID(),
				Type:     spawn.Type,
				Value:    spawn.Value,
				Position: spawn.Position,
			})
		}
	}

	return w
}

// SetRetirementCallback installs the observer invoked when idle players
// retire. Must be called before the first Tick.
func (w *World) SetRetirementCallback(cb RetirementCallback) {
	w.retirementCallback = cb
}

// Now is the simulated clock: the start time plus every tick delta
// applied so far.
func (w *World) Now() time.Time {
	return w.now
}

// Maps returns the configured maps in declaration order.
func (w *World) Maps() []*Map {
	return w.maps
}

// FindMap resolves a map id.
func (w *World) FindMap(mapID string) (*Map, bool) {
	m, ok := w.mapsByID[mapID]
	return m, ok
}

// FindDog resolves a dog id through the slot index.
func (w *World) FindDog(dogID int) (*Dog, bool) {
	slot, ok := w.dogSlots[dogID]
	if !ok || slot >= len(w.dogs) {
		return nil, false
	}
	return w.dogs[slot], true
}

// FindPlayer resolves a player id through the slot index.
func (w *World) FindPlayer(playerID int) (*Player, bool) {
	slot, ok := w.playerSlots[playerID]
	if !ok || slot >= len(w.players) {
		return nil, false
	}
	return w.players[slot], true
}

// FindPlayerByToken resolves a session token.
func (w *World) FindPlayerByToken(token string) (*Player, bool) {
	slot, ok := w.tokenToPlayer[token]
	if !ok || slot >= len(w.players) {
		return nil, false
	}
	return w.players[slot], true
}

// RemoveLootItem takes the identified item off the given map and
// returns it. Once removed the item can never be matched again, which
// is what makes pickups one-shot within a tick.
func (w *World) RemoveLootItem(mapID string, itemID int) (LootItem, bool) {
	m, ok := w.mapsByID[mapID]
	if !ok {
		return LootItem{}, false
	}
	item, ok := m.findLootItem(itemID)
	if !ok {
		return LootItem{}, false
	}
	m.removeLootItem(itemID)
	return item, true
}

// allocateLootID issues the next loot id. Ids increase strictly across
// the whole session and are never reused.
func (w *World) allocateLootID() int {
	id := w.nextLootID
	w.nextLootID++
	return id
}

func (w *World) allocateDogID() int {
	id := w.nextDogID
	w.nextDogID++
	return id
}

func (w *World) allocatePlayerID() int {
	id := w.nextPlayerID
	w.nextPlayerID++
	return id
}

// removePlayerAndDog erases one player/dog pair and repairs every index
// in the same operation, so no index ever references a dead slot. The
// backing slices use swap-erase; the slot entries for any moved records
// are rewritten before the truncation is visible to callers.
func (w *World) removePlayerAndDog(player *Player, dog *Dog) {
	delete(w.tokenToPlayer, player.Token)

	if slot, ok := w.playerSlots[player.ID]; ok {
		last := len(w.players) - 1
		if slot != last {
			moved := w.players[last]
			w.players[slot] = moved
			w.playerSlots[moved.ID] = slot
			w.tokenToPlayer[moved.Token] = slot
		}
		w.players = w.players[:last]
		delete(w.playerSlots, player.ID)
	}

	if slot, ok := w.dogSlots[dog.ID]; ok {
		last := len(w.dogs) - 1
		if slot != last {
			moved := w.dogs[last]
			w.dogs[slot] = moved
			w.dogSlots[moved.ID] = slot
		}
		w.dogs = w.dogs[:last]
		delete(w.dogSlots, dog.ID)
	}
}

// spawnPosition picks where a joining dog appears on the given map.
func (w *World) spawnPosition(m *Map) Position {
	if !w.randomizeSpawns || len(m.Roads) == 0 {
		return m.DefaultSpawnPosition()
	}
	road := m.Roads[w.rng.Intn(len(m.Roads))]
	t := w.rng.Float64()
	return Position{
		X: float64(road.Start.X) + t*float64(road.End.X-road.Start.X),
		Y: float64(road.Start.Y) + t*float64(road.End.Y-road.Start.Y),
	}
}
