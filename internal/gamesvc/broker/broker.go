package broker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/numrace/game-services/internal/comm"
)

// Broker publishes settled match outcomes to NATS for background consumers.
// It is the outbound half of the match pipeline; the streak service holds the
// inbound half.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

func (b *Broker) PublishMatchCompleted(ev comm.MatchCompleted) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if err := b.Conn.Publish(comm.TopicMatchCompleted, payload); err != nil {
		log.Errorf("Error publishing to topic %s: %s", comm.TopicMatchCompleted, err)
		return err
	}

	return nil
}
