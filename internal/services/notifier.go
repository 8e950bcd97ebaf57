package services

import (
	"context"

	redisclient "github.com/hackly/garage-backend/internal/clients/redis"
	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/sse"
)

// Broadcaster is what services need from the realtime layer.
type Broadcaster interface {
	Broadcast(msg sse.SSEMessage)
}

// FanoutNotifier delivers events to local SSE clients and, when a Redis bus is
// configured, publishes them for the other instances. Messages arriving from
// the bus are fed back through the hub only (never re-published).
type FanoutNotifier struct {
	log *logger.Logger
	hub *sse.SSEHub
	bus redisclient.SSEBus
}

func NewFanoutNotifier(baseLog *logger.Logger, hub *sse.SSEHub, bus redisclient.SSEBus) *FanoutNotifier {
	return &FanoutNotifier{
		log: baseLog.With("component", "FanoutNotifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *FanoutNotifier) Broadcast(msg sse.SSEMessage) {
	if n.bus != nil {
		// The forwarder echoes published messages back into the local hub, so
		// publishing once covers every instance including this one.
		if err := n.bus.Publish(context.Background(), msg); err == nil {
			return
		} else {
			n.log.Warn("Failed to publish SSE message to bus, delivering locally", "channel", msg.Channel, "error", err)
		}
	}
	n.hub.Broadcast(msg)
}

// StartBusForwarder wires cross-instance messages into the local hub.
func (n *FanoutNotifier) StartBusForwarder(ctx context.Context) error {
	if n.bus == nil {
		return nil
	}
	return n.bus.StartForwarder(ctx, func(m sse.SSEMessage) {
		n.hub.Broadcast(m)
	})
}
