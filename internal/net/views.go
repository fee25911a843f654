package net

import "lost-and-hound/server/internal/world"

// playerView is the wire shape of a player in listing responses. The
// session token never leaves the world through these.
type playerView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	DogID int    `json:"dogId"`
	MapID string `json:"mapId"`
}

func playerViews(players []world.Player) []playerView {
	views := make([]playerView, 0, len(players))
	for _, p := range players {
		views = append(views, playerView{
			ID:    p.ID,
			Name:  p.Name,
			DogID: p.DogID,
			MapID: p.MapID,
		})
	}
	return views
}

// mapView is the wire shape of a map's static configuration.
type mapView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	DogSpeed    float64           `json:"dogSpeed"`
	BagCapacity int               `json:"bagCapacity"`
	Roads       []world.Road      `json:"roads"`
	Buildings   []world.Building  `json:"buildings"`
	Offices     []world.Office    `json:"offices"`
	LootClasses []world.LootClass `json:"lootClasses"`
}

func newMapView(m *world.Map) mapView {
	return mapView{
		ID:          m.ID,
		Name:        m.Name,
		DogSpeed:    m.DogSpeed,
		BagCapacity: m.BagCapacity,
		Roads:       m.Roads,
		Buildings:   m.Buildings,
		Offices:     m.Offices,
		LootClasses: m.LootClasses,
	}
}
