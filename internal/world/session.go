package world

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Session-facing failures. Not-found and invalid-input conditions are
// reported as values; nothing in this file panics.
var (
	ErrUnknownMap    = errors.New("unknown map id")
	ErrEmptyName     = errors.New("player name is empty")
	ErrUnknownPlayer = errors.New("unknown player id")
	ErrInvalidMove   = errors.New("invalid move code")
)

// JoinResult is handed back to a successfully joined player.
type JoinResult struct {
	Token    string
	PlayerID int
}

// JoinGame creates a dog/player pair on the requested map, registers
// every index, and returns the session token. The dog spawns with zero
// velocity, facing north, and an empty bag sized by the map.
func (w *World) JoinGame(name, mapID string) (JoinResult, error) {
	m, ok := w.mapsByID[mapID]
	if !ok {
		return JoinResult{}, ErrUnknownMap
	}
	if name == "" {
		return JoinResult{}, ErrEmptyName
	}

	dog := &Dog{
		ID:          w.allocateDogID(),
		Name:        name,
		MapID:       mapID,
		Position:    w.spawnPosition(m),
		Direction:   DirectionNorth,
		BagCapacity: m.BagCapacity,
	}

	player := &Player{
		ID:    w.allocatePlayerID(),
		Name:  name,
		DogID: dog.ID,
		MapID: mapID,
		Token: newToken(),
	}

	w.dogs = append(w.dogs, dog)
	w.dogSlots[dog.ID] = len(w.dogs) - 1
	w.players = append(w.players, player)
	w.playerSlots[player.ID] = len(w.players) - 1
	w.tokenToPlayer[player.Token] = len(w.players) - 1

	w.metadata[player.ID] = &playerMetadata{joinedAt: w.now}

	w.logger.Info("player joined",
		zap.Int("playerID", player.ID),
		zap.Int("dogID", dog.ID),
		zap.String("map", mapID),
	)

	return JoinResult{Token: player.Token, PlayerID: player.ID}, nil
}

// SetPlayerAction applies a movement code for the player's dog. Valid
// codes are L, R, U, D, and the empty string, which stops the dog
// without changing its facing. Anything else is rejected with no state
// change. Stopping starts the idle timer; moving clears it.
func (w *World) SetPlayerAction(playerID int, move string) error {
	player, ok := w.FindPlayer(playerID)
	if !ok {
		return ErrUnknownPlayer
	}
	dog, ok := w.FindDog(player.DogID)
	if !ok {
		return ErrUnknownPlayer
	}
	m, ok := w.mapsByID[player.MapID]
	if !ok {
		return ErrUnknownMap
	}

	speed := m.DogSpeed
	var velocity Velocity
	direction := dog.Direction

	switch move {
	case "L":
		velocity = Velocity{X: -speed}
		direction = DirectionWest
	case "R":
		velocity = Velocity{X: speed}
		direction = DirectionEast
	case "U":
		velocity = Velocity{Y: -speed}
		direction = DirectionNorth
	case "D":
		velocity = Velocity{Y: speed}
		direction = DirectionSouth
	case "":
		// stop, keep facing
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMove, move)
	}

	dog.Velocity = velocity
	dog.Direction = direction

	if meta, ok := w.metadata[playerID]; ok && !meta.retired {
		if velocity.IsZero() {
			if meta.idleSince.IsZero() {
				meta.idleSince = w.now
			}
		} else {
			meta.idleSince = zeroTime
		}
	}

	return nil
}

// GetPlayers returns every player sharing a map with the token's owner.
// An unknown token yields an empty result.
func (w *World) GetPlayers(token string) []Player {
	return w.playersOnSameMap(token)
}

// GetGameState returns the same map-scoped player snapshot as
// GetPlayers. Both names are part of the public surface; callers may
// depend on either.
func (w *World) GetGameState(token string) []Player {
	return w.playersOnSameMap(token)
}

func (w *World) playersOnSameMap(token string) []Player {
	player, ok := w.FindPlayerByToken(token)
	if !ok {
		return nil
	}
	result := make([]Player, 0, len(w.players))
	for _, p := range w.players {
		if p.MapID == player.MapID {
			result = append(result, *p)
		}
	}
	return result
}

// newToken returns 128 bits of randomness as 32 hex digits. Collisions
// among live sessions are improbable enough not to check for.
func newToken() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(fmt.Sprintf("token entropy unavailable: %v", err))
	}
	return hex.EncodeToString(buf[:])
}
