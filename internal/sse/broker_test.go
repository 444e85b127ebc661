package sse

import (
	"strings"
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestSubscribeReceivesPublishedEvent(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.Publish(Event{Type: "menu.updated", Data: map[string]string{}})

	msg := recvEvent(t, ch)
	if !strings.Contains(msg, "event: menu.updated") {
		t.Errorf("unexpected payload: %q", msg)
	}
}

func TestMenuEventCarriesItemName(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.PublishMenuEvent("updated", "Soup")

	msg := recvEvent(t, ch)
	if !strings.Contains(msg, "event: menu.item.updated") || !strings.Contains(msg, `"name":"Soup"`) {
		t.Errorf("unexpected payload: %q", msg)
	}
}

func TestAggregateEventThrottled(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()

	b.PublishMenuEvent("updated", "Soup")
	first := recvEvent(t, ch)
	if !strings.Contains(first, "menu.item.updated") {
		t.Fatalf("unexpected first event: %q", first)
	}
	// The very first item event also yields one aggregate event.
	agg := recvEvent(t, ch)
	if !strings.Contains(agg, "event: menu.updated") {
		t.Fatalf("expected aggregate event, got %q", agg)
	}

	// A second change within the throttle window yields only the item event.
	b.PublishMenuEvent("deleted", "Ribeye")
	second := recvEvent(t, ch)
	if !strings.Contains(second, "menu.item.deleted") {
		t.Fatalf("unexpected event: %q", second)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected extra event within throttle window: %q", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("client count = %d, want 1", n)
	}

	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	if n := b.ClientCount(); n != 0 {
		t.Errorf("client count = %d, want 0", n)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := NewBroker(time.Hour)
	ch := b.Subscribe()

	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after broker close")
	}
	b.Publish(Event{Type: "menu.updated"}) // must not panic
}
