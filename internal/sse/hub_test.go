package sse

import (
	"testing"

	"github.com/hackly/garage-backend/internal/logger"
)

func newTestHub(t *testing.T) *SSEHub {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewSSEHub(log)
}

func TestBroadcastReachesOnlySubscribers(t *testing.T) {
	hub := newTestHub(t)

	subscribed := hub.NewSSEClient("u1")
	other := hub.NewSSEClient("u2")
	hub.AddChannel(subscribed, ChannelPrompts)
	hub.AddChannel(other, ChannelArchive)

	hub.Broadcast(SSEMessage{Channel: ChannelPrompts, Event: SSEEventPromptCreated})

	select {
	case msg := <-subscribed.Outbound:
		if msg.Event != SSEEventPromptCreated {
			t.Fatalf("event = %s", msg.Event)
		}
	default:
		t.Fatal("subscriber did not receive message")
	}
	select {
	case <-other.Outbound:
		t.Fatal("non-subscriber received message")
	default:
	}
}

func TestBroadcastEvaluationChannelIsPerRequest(t *testing.T) {
	hub := newTestHub(t)

	watcher := hub.NewSSEClient("u1")
	hub.AddChannel(watcher, EvaluationChannel("req-1"))

	hub.Broadcast(SSEMessage{Channel: EvaluationChannel("req-2"), Event: SSEEventEvaluationUpdated})
	select {
	case <-watcher.Outbound:
		t.Fatal("watcher received update for a different request")
	default:
	}

	hub.Broadcast(SSEMessage{Channel: EvaluationChannel("req-1"), Event: SSEEventEvaluationUpdated})
	select {
	case msg := <-watcher.Outbound:
		if msg.Channel != EvaluationChannel("req-1") {
			t.Fatalf("channel = %s", msg.Channel)
		}
	default:
		t.Fatal("watcher did not receive its request update")
	}
}

func TestRemoveClientDropsAllSubscriptions(t *testing.T) {
	hub := newTestHub(t)

	c := hub.NewSSEClient("u1")
	hub.AddChannel(c, ChannelPrompts)
	hub.AddChannel(c, ChannelLeaderboard)
	hub.RemoveClient(c)

	hub.Broadcast(SSEMessage{Channel: ChannelPrompts, Event: SSEEventPromptUpdated})
	hub.Broadcast(SSEMessage{Channel: ChannelLeaderboard, Event: SSEEventPromptUpdated})
	select {
	case <-c.Outbound:
		t.Fatal("removed client still receives messages")
	default:
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := newTestHub(t)

	c := hub.NewSSEClient("u1")
	hub.AddChannel(c, ChannelPrompts)
	for i := 0; i < 20; i++ {
		hub.Broadcast(SSEMessage{Channel: ChannelPrompts, Event: SSEEventPromptUpdated})
	}
	// Buffer is 10; the rest are dropped without blocking this goroutine.
	if got := len(c.Outbound); got != 10 {
		t.Fatalf("buffered = %d, want 10", got)
	}
}

func TestCloseClientTwiceIsSafe(t *testing.T) {
	hub := newTestHub(t)
	client := hub.NewSSEClient("user-1")
	hub.AddChannel(client, ChannelPrompts)

	hub.CloseClient(client)
	hub.CloseClient(client)

	hub.Broadcast(SSEMessage{Channel: ChannelPrompts, Event: SSEEventPromptUpdated})
	if len(client.Channels) != 0 {
		t.Fatalf("channels not cleared: %v", client.Channels)
	}
}
