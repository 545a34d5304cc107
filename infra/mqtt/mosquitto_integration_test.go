package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/pitwall/test/util"
)

func TestStrategyPublisher_Mosquitto(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("mosquitto unavailable: %v", err)
	}
	defer cleanup()

	received := make(chan []byte, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("pitwall-test-sub"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	tok := sub.Subscribe("pitwall/strategy/#", 1, func(_ paho.Client, m paho.Message) {
		select {
		case received <- m.Payload():
		default:
		}
	})
	if tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	cli, err := NewPahoClient(Config{Enabled: true, Broker: broker, ClientID: "pitwall-test-pub", QoS: 1})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	defer cli.Disconnect()
	sp := NewStrategyPublisher(cli, "pitwall/strategy", nil)
	if err := sp.PublishPlan(ctx, "req-int", samplePlan()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case payload := <-received:
		var msg StrategyMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.RequestID != "req-int" || msg.Plan.Driver != "LEC" {
			t.Fatalf("unexpected message %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("strategy not received")
	}
}
