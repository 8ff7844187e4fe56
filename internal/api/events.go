package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/procnode/internal/events"
)

func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of process output, lifecycle changes, and runtime configuration updates",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"process-stdout":        events.ProcessStdoutEvent{},
		"process-stderr":        events.ProcessStderrEvent{},
		"process-exit":          events.ProcessExitEvent{},
		"process-spawned":       events.ProcessSpawnedEvent{},
		"process-killed":        events.ProcessKilledEvent{},
		"runtime-paths-changed": events.RuntimePathsChangedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// One channel per connection; drops under pressure rather than
		// stalling the publishers.
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.ProcessStdoutEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ProcessStderrEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ProcessExitEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ProcessSpawnedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ProcessKilledEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RuntimePathsChangedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
