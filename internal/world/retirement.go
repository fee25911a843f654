package world

import (
	"time"

	"go.uber.org/zap"
)

var zeroTime time.Time

// playerMetadata is engine-private bookkeeping keyed by player id. It
// lives exactly as long as the player does.
type playerMetadata struct {
	joinedAt  time.Time
	idleSince time.Time // zero while the dog is moving
	retired   bool
}

// sweepIdlePlayers retires every player whose dog has sat still for the
// configured threshold. Candidates are collected first and retired in a
// second phase, so the metadata collection is never mutated while it is
// being iterated.
func (w *World) sweepIdlePlayers() {
	var due []int

	for playerID, meta := range w.metadata {
		if meta.retired {
			continue
		}
		player, ok := w.FindPlayer(playerID)
		if !ok {
			continue
		}
		dog, ok := w.FindDog(player.DogID)
		if !ok {
			continue
		}

		if !dog.Velocity.IsZero() {
			meta.idleSince = zeroTime
			continue
		}
		if meta.idleSince.IsZero() {
			meta.idleSince = w.now
			continue
		}
		if w.now.Sub(meta.idleSince) >= w.retirementTime {
			due = append(due, playerID)
		}
	}

	for _, playerID := range due {
		w.retirePlayer(playerID)
	}
}

// retirePlayer removes one player and its dog. The retirement callback
// runs first, while the pair is still fully consistent; then the token,
// player-id, and dog-id index entries go together with the records. The
// retired flag makes a second call for the same id a no-op.
func (w *World) retirePlayer(playerID int) {
	meta, ok := w.metadata[playerID]
	if !ok || meta.retired {
		return
	}
	player, ok := w.FindPlayer(playerID)
	if !ok {
		return
	}
	dog, ok := w.FindDog(player.DogID)
	if !ok {
		return
	}

	playTime := w.now.Sub(meta.joinedAt)

	if w.retirementCallback != nil {
		w.retirementCallback(player.Name, dog.Score, playTime)
	}

	meta.retired = true
	w.removePlayerAndDog(player, dog)
	delete(w.metadata, playerID)

	w.logger.Info("player retired",
		zap.Int("playerID", playerID),
		zap.String("name", player.Name),
		zap.Int("score", dog.Score),
		zap.Duration("playTime", playTime),
	)
}
