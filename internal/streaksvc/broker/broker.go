package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/numrace/game-services/internal/comm"
	"github.com/numrace/game-services/internal/gamesvc/models"
	"github.com/numrace/game-services/internal/gamesvc/service"
	"github.com/numrace/game-services/internal/gamesvc/store"
)

const refreshTimeout = 30 * time.Second

// Broker consumes settled match events and keeps the multiplayer pair
// leaderboard cache fresh so the game service serves reads without scanning
// match history.
type Broker struct {
	Conn        *nats.Conn
	Multiplayer *service.MultiplayerService
	Boards      *store.LeaderboardStore
}

func NewBroker(nc *nats.Conn, multiplayer *service.MultiplayerService, boards *store.LeaderboardStore) *Broker {
	return &Broker{
		Conn:        nc,
		Multiplayer: multiplayer,
		Boards:      boards,
	}
}

// Subscribe starts consuming match-completed events. A queue group keeps the
// refresh single-writer when several streak workers run.
func (b *Broker) Subscribe(queueGroup string) (*nats.Subscription, error) {
	sub, err := b.Conn.QueueSubscribe(comm.TopicMatchCompleted, queueGroup, b.handleMatchCompleted)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMatchCompleted(msgNat *nats.Msg) {
	ev := &comm.MatchCompleted{}
	if err := json.Unmarshal(msgNat.Data, ev); err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	log.Infof("match completed: %s vs %s winner=%s", ev.Player1, ev.Player2, ev.Winner)

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	pairs, err := b.Multiplayer.ComputePairs(ctx)
	if err != nil {
		log.Errorf("failed to recompute pair standings: %v", err)
		return
	}

	board := &models.MultiplayerLeaderboard{
		Pairs:       pairs,
		LastUpdated: time.Now().UTC(),
	}
	if err := b.Boards.UpsertMultiplayer(ctx, board); err != nil {
		log.Errorf("failed to refresh multiplayer leaderboard cache: %v", err)
	}
}
