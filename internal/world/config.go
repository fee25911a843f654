package world

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config defaults applied when the game document omits a field.
const (
	DefaultDogSpeed       = 1.0
	DefaultBagCapacity    = 3
	DefaultRetirementTime = 60 * time.Second
	initialLootPerClass   = 3
	defaultLootValue      = 10
)

// GameConfig is the validated content of a game document: the immutable
// map set plus world-level defaults.
type GameConfig struct {
	Maps               []*Map
	DefaultDogSpeed    float64
	DefaultBagCapacity int
	RetirementTime     time.Duration
}

type gameDocument struct {
	DefaultDogSpeed    *float64      `json:"defaultDogSpeed"`
	DefaultBagCapacity *int          `json:"defaultBagCapacity"`
	DogRetirementTime  *float64      `json:"dogRetirementTime"`
	Maps               []mapDocument `json:"maps"`
}

type mapDocument struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	DogSpeed    *float64       `json:"dogSpeed"`
	BagCapacity *int           `json:"bagCapacity"`
	Roads       []roadDocument `json:"roads"`
	Buildings   []buildingDoc  `json:"buildings"`
	Offices     []officeDoc    `json:"offices"`
	LootTypes   []lootClassDoc `json:"lootTypes"`
}

type roadDocument struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1"`
	Y1 *int `json:"y1"`
}

type buildingDoc struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type officeDoc struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

type lootClassDoc struct {
	Name  string `json:"name"`
	Value *int   `json:"value"`
}

// LoadGameConfig reads and validates a game document from disk. Any
// structural problem is fatal: the server must not start on a config it
// only partially understands.
func LoadGameConfig(path string) (GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read game config: %w", err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig builds a GameConfig from a raw game document.
func ParseGameConfig(data []byte) (GameConfig, error) {
	var doc gameDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return GameConfig{}, fmt.Errorf("parse game config: %w", err)
	}

	cfg := GameConfig{
		DefaultDogSpeed:    DefaultDogSpeed,
		DefaultBagCapacity: DefaultBagCapacity,
		RetirementTime:     DefaultRetirementTime,
	}
	if doc.DefaultDogSpeed != nil {
		cfg.DefaultDogSpeed = *doc.DefaultDogSpeed
	}
	if doc.DefaultBagCapacity != nil {
		cfg.DefaultBagCapacity = *doc.DefaultBagCapacity
	}
	if doc.DogRetirementTime != nil {
		cfg.RetirementTime = time.Duration(*doc.DogRetirementTime * float64(time.Second))
	}

	if len(doc.Maps) == 0 {
		return GameConfig{}, fmt.Errorf("game config declares no maps")
	}

	seen := make(map[string]struct{}, len(doc.Maps))
	for _, mapDoc := range doc.Maps {
		m, err := buildMap(mapDoc, cfg)
		if err != nil {
			return GameConfig{}, err
		}
		if _, dup := seen[m.ID]; dup {
			return GameConfig{}, fmt.Errorf("duplicate map id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
		cfg.Maps = append(cfg.Maps, m)
	}

	return cfg, nil
}

func buildMap(doc mapDocument, cfg GameConfig) (*Map, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("map with empty id")
	}
	if len(doc.Roads) == 0 {
		return nil, fmt.Errorf("map %q has no roads", doc.ID)
	}

	m := &Map{
		ID:          doc.ID,
		Name:        doc.Name,
		DogSpeed:    cfg.DefaultDogSpeed,
		BagCapacity: cfg.DefaultBagCapacity,
	}
	if doc.DogSpeed != nil {
		m.DogSpeed = *doc.DogSpeed
	}
	if doc.BagCapacity != nil {
		m.BagCapacity = *doc.BagCapacity
	}

	for i, road := range doc.Roads {
		parsed, err := parseRoad(road)
		if err != nil {
			return nil, fmt.Errorf("map %q road %d: %w", doc.ID, i, err)
		}
		m.Roads = append(m.Roads, parsed)
	}

	for _, b := range doc.Buildings {
		m.Buildings = append(m.Buildings, Building{
			Position: Point{X: b.X, Y: b.Y},
			Width:    b.W,
			Height:   b.H,
		})
	}

	for _, o := range doc.Offices {
		m.Offices = append(m.Offices, Office{
			ID:       o.ID,
			Position: Point{X: o.X, Y: o.Y},
			Offset:   Point{X: o.OffsetX, Y: o.OffsetY},
		})
	}

	for classIndex, class := range doc.LootTypes {
		value := defaultLootValue
		if class.Value != nil {
			value = *class.Value
		}
		m.LootClasses = append(m.LootClasses, LootClass{Name: class.Name, Value: value})

		// Seed a handful of each configured class so freshly loaded maps
		// have something on the ground before the generator first runs.
		for i := 0; i < initialLootPerClass; i++ {
			m.InitialLoot = append(m.InitialLoot, LootSpawn{
				Type:  classIndex + 1,
				Value: value,
				Position: Position{
					X: 10.0 + float64(i)*5.0,
					Y: 10.0 + float64(classIndex)*3.0,
				},
			})
		}
	}

	return m, nil
}

func parseRoad(doc roadDocument) (Road, error) {
	switch {
	case doc.X1 != nil:
		return Road{
			Start: Point{X: doc.X0, Y: doc.Y0},
			End:   Point{X: *doc.X1, Y: doc.Y0},
		}, nil
	case doc.Y1 != nil:
		return Road{
			Start: Point{X: doc.X0, Y: doc.Y0},
			End:   Point{X: doc.X0, Y: *doc.Y1},
		}, nil
	default:
		return Road{}, fmt.Errorf("road is neither horizontal nor vertical")
	}
}
