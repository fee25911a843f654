package world

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestJoinGameValidation(t *testing.T) {
	w := newTestWorld(t, nil, 3)

	if _, err := w.JoinGame("rex", "nowhere"); !errors.Is(err, ErrUnknownMap) {
		t.Fatalf("expected ErrUnknownMap, got %v", err)
	}
	if _, err := w.JoinGame("", "town"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if len(w.players) != 0 || len(w.dogs) != 0 {
		t.Fatalf("rejected joins must not create entities")
	}
}

func TestJoinGameCreatesConsistentSession(t *testing.T) {
	w := newTestWorld(t, nil, 2)

	result, err := w.JoinGame("rex", "town")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if !tokenPattern.MatchString(result.Token) {
		t.Fatalf("token %q is not 32 hex digits", result.Token)
	}

	player, ok := w.FindPlayerByToken(result.Token)
	if !ok {
		t.Fatalf("token does not resolve to the joined player")
	}
	if player.ID != result.PlayerID {
		t.Fatalf("token resolves to player %d, expected %d", player.ID, result.PlayerID)
	}

	dog, ok := w.FindDog(player.DogID)
	if !ok {
		t.Fatalf("joined player has no dog")
	}
	if dog.BagCapacity != 2 {
		t.Fatalf("expected bag capacity from the map, got %d", dog.BagCapacity)
	}
	if !dog.Velocity.IsZero() {
		t.Fatalf("a fresh dog must be stationary")
	}
	if dog.Position != (Position{X: 0, Y: 0}) {
		t.Fatalf("expected default spawn at the first road start, got %+v", dog.Position)
	}

	checkIndexConsistency(t, w)
}

func TestJoinGameTokensAreUnique(t *testing.T) {
	w := newTestWorld(t, nil, 3)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		result, err := w.JoinGame("rex", "town")
		if err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
		if _, dup := seen[result.Token]; dup {
			t.Fatalf("duplicate token issued: %s", result.Token)
		}
		seen[result.Token] = struct{}{}
	}
}

func TestSetPlayerActionMovesDog(t *testing.T) {
	tests := []struct {
		move      string
		velocity  Velocity
		direction Direction
	}{
		{"L", Velocity{X: -10}, DirectionWest},
		{"R", Velocity{X: 10}, DirectionEast},
		{"U", Velocity{Y: -10}, DirectionNorth},
		{"D", Velocity{Y: 10}, DirectionSouth},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			w := newTestWorld(t, nil, 3)
			result, err := w.JoinGame("rex", "town")
			if err != nil {
				t.Fatalf("join failed: %v", err)
			}
			if err := w.SetPlayerAction(result.PlayerID, tc.move); err != nil {
				t.Fatalf("action %q rejected: %v", tc.move, err)
			}

			player, _ := w.FindPlayer(result.PlayerID)
			dog, _ := w.FindDog(player.DogID)
			if dog.Velocity != tc.velocity {
				t.Fatalf("expected velocity %+v, got %+v", tc.velocity, dog.Velocity)
			}
			if dog.Direction != tc.direction {
				t.Fatalf("expected direction %q, got %q", tc.direction, dog.Direction)
			}
		})
	}
}

func TestSetPlayerActionStopKeepsFacing(t *testing.T) {
	w := newTestWorld(t, nil, 3)
	result, _ := w.JoinGame("rex", "town")

	if err := w.SetPlayerAction(result.PlayerID, "R"); err != nil {
		t.Fatalf("move rejected: %v", err)
	}
	if err := w.SetPlayerAction(result.PlayerID, ""); err != nil {
		t.Fatalf("stop rejected: %v", err)
	}

	player, _ := w.FindPlayer(result.PlayerID)
	dog, _ := w.FindDog(player.DogID)
	if !dog.Velocity.IsZero() {
		t.Fatalf("stop must zero the velocity, got %+v", dog.Velocity)
	}
	if dog.Direction != DirectionEast {
		t.Fatalf("stop must keep the facing, got %q", dog.Direction)
	}
}

func TestSetPlayerActionRejectsUnknownCode(t *testing.T) {
	w := newTestWorld(t, nil, 3)
	result, _ := w.JoinGame("rex", "town")
	if err := w.SetPlayerAction(result.PlayerID, "R"); err != nil {
		t.Fatalf("move rejected: %v", err)
	}

	if err := w.SetPlayerAction(result.PlayerID, "X"); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}

	player, _ := w.FindPlayer(result.PlayerID)
	dog, _ := w.FindDog(player.DogID)
	if dog.Velocity != (Velocity{X: 10}) || dog.Direction != DirectionEast {
		t.Fatalf("a rejected move must not mutate the dog")
	}

	if err := w.SetPlayerAction(9999, "R"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

func TestSetPlayerActionIdleTracking(t *testing.T) {
	w := newTestWorld(t, nil, 3)
	result, _ := w.JoinGame("rex", "town")
	meta := w.metadata[result.PlayerID]

	if !meta.idleSince.IsZero() {
		t.Fatalf("a fresh join must not carry an idle timestamp")
	}

	if err := w.SetPlayerAction(result.PlayerID, ""); err != nil {
		t.Fatalf("stop rejected: %v", err)
	}
	firstIdle := meta.idleSince
	if firstIdle.IsZero() {
		t.Fatalf("stopping must start the idle timer")
	}

	// A second stop must not restart an already running timer.
	w.now = w.now.Add(5 * time.Second)
	if err := w.SetPlayerAction(result.PlayerID, ""); err != nil {
		t.Fatalf("stop rejected: %v", err)
	}
	if !meta.idleSince.Equal(firstIdle) {
		t.Fatalf("a repeated stop must keep the original idle timestamp")
	}

	if err := w.SetPlayerAction(result.PlayerID, "D"); err != nil {
		t.Fatalf("move rejected: %v", err)
	}
	if !meta.idleSince.IsZero() {
		t.Fatalf("moving must clear the idle timer")
	}
}

func TestGetPlayersScopedToMap(t *testing.T) {
	m1 := &Map{
		ID: "town", DogSpeed: 10, BagCapacity: 3,
		Roads: []Road{{Start: Point{X: 0, Y: 0}, End: Point{X: 20, Y: 0}}},
	}
	m2 := &Map{
		ID: "port", DogSpeed: 10, BagCapacity: 3,
		Roads: []Road{{Start: Point{X: 0, Y: 0}, End: Point{X: 20, Y: 0}}},
	}
	w := New(GameConfig{Maps: []*Map{m1, m2}, RetirementTime: DefaultRetirementTime}, Options{Start: testStart, Seed: 1})

	a, _ := w.JoinGame("alpha", "town")
	if _, err := w.JoinGame("bravo", "town"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	c, _ := w.JoinGame("charlie", "port")

	townPlayers := w.GetPlayers(a.Token)
	if len(townPlayers) != 2 {
		t.Fatalf("expected 2 players on town, got %d", len(townPlayers))
	}
	for _, p := range townPlayers {
		if p.MapID != "town" {
			t.Fatalf("player %q leaked from map %q", p.Name, p.MapID)
		}
	}

	portPlayers := w.GetGameState(c.Token)
	if len(portPlayers) != 1 || portPlayers[0].Name != "charlie" {
		t.Fatalf("unexpected port roster: %+v", portPlayers)
	}

	if got := w.GetPlayers("ffffffffffffffffffffffffffffffff"); len(got) != 0 {
		t.Fatalf("unknown token must yield an empty roster")
	}
}

func TestGetPlayersAndGameStateAgree(t *testing.T) {
	w := newTestWorld(t, nil, 3)
	a, _ := w.JoinGame("alpha", "town")
	if _, err := w.JoinGame("bravo", "town"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	players := w.GetPlayers(a.Token)
	state := w.GetGameState(a.Token)
	if len(players) != len(state) {
		t.Fatalf("GetPlayers and GetGameState disagree: %d vs %d", len(players), len(state))
	}
	for i := range players {
		if players[i] != state[i] {
			t.Fatalf("roster entry %d differs between the two operations", i)
		}
	}
}
