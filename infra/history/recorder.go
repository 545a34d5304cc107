package history

import (
	"context"
	"time"

	"github.com/kilianp07/pitwall/core/events"
	corehistory "github.com/kilianp07/pitwall/core/history"
	"github.com/kilianp07/pitwall/core/logger"
	"github.com/kilianp07/pitwall/internal/eventbus"
)

const recorderBuffer = 256

// StartRecorder appends every strategy event published on bus to store. The
// subscription is registered before it returns. The returned channel is
// closed once the recorder has stopped, after ctx is canceled or the bus is
// closed.
func StartRecorder(ctx context.Context, bus *eventbus.TypedBus[events.StrategyEvent], store corehistory.Store, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || store == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.SubscribeN(recorderBuffer)
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
				wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := store.Append(wctx, corehistory.FromEvent(ev)); err != nil {
					log.Errorf("append prediction %s: %v", ev.RequestID, err)
				}
				cancel()
			}
		}
	}()
	return done
}
