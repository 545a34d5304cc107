package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/pitwall/core/events"
	"github.com/kilianp07/pitwall/core/logger"
	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/core/monitoring"
	"github.com/kilianp07/pitwall/internal/eventbus"
)

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// StrategyMessage is the JSON payload of a published plan.
type StrategyMessage struct {
	MessageID string             `json:"message_id"`
	RequestID string             `json:"request_id,omitempty"`
	Timestamp int64              `json:"timestamp"`
	Plan      model.StrategyPlan `json:"plan"`
}

var topicReplacer = strings.NewReplacer("/", "_", "+", "_", "#", "_", " ", "_")

// Topic returns <prefix>/<track>/<driver> with MQTT wildcard and level
// characters in track and driver replaced by underscores.
func Topic(prefix, track, driver string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + topicReplacer.Replace(track) + "/" + topicReplacer.Replace(driver)
}

// StrategyPublisher publishes successful strategy plans.
type StrategyPublisher struct {
	pub    Publisher
	prefix string
	log    logger.Logger
	now    func() time.Time
}

// NewStrategyPublisher creates a publisher writing under prefix.
func NewStrategyPublisher(pub Publisher, prefix string, log logger.Logger) *StrategyPublisher {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &StrategyPublisher{pub: pub, prefix: prefix, log: log, now: time.Now}
}

// PublishPlan marshals plan into a StrategyMessage and publishes it on the
// plan's track/driver topic. Failures are reported to monitoring.
func (s *StrategyPublisher) PublishPlan(ctx context.Context, requestID string, plan model.StrategyPlan) error {
	msg := StrategyMessage{
		MessageID: uuid.NewString(),
		RequestID: requestID,
		Timestamp: s.now().UnixMilli(),
		Plan:      plan,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := Topic(s.prefix, plan.Track, plan.Driver)
	if err := s.pub.Publish(ctx, topic, payload); err != nil {
		monitoring.CaptureException(err, map[string]string{
			"module":     "mqtt",
			"track":      plan.Track,
			"driver":     plan.Driver,
			"request_id": requestID,
		})
		return err
	}
	s.log.Infof("published strategy %s to %s", msg.MessageID, topic)
	return nil
}

// Start publishes the plan of every successful event on bus. The returned
// channel is closed once the publisher goroutine has stopped.
func (s *StrategyPublisher) Start(ctx context.Context, bus *eventbus.TypedBus[events.StrategyEvent]) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil {
		close(done)
		return done
	}
	sub := bus.SubscribeN(64)
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if !ev.Succeeded() {
					continue
				}
				if err := s.PublishPlan(ctx, ev.RequestID, *ev.Plan); err != nil {
					s.log.Errorf("publish strategy %s: %v", ev.RequestID, err)
				}
			}
		}
	}()
	return done
}
