package pubsub

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case event := <-sub.Events():
		return event
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
		return Event{}
	}
}

func TestPublishSubscribe(t *testing.T) {
	p := NewSSEPublisher()
	defer p.Close()

	sub, err := p.Subscribe(context.Background(), "graph")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	update := GraphUpdate{Configuration: "Debug", Targets: 12, Edges: 30}
	if err := p.Publish("graph", "updated", update); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	event := receive(t, sub)
	if event.Topic != "graph" || event.Type != "updated" {
		t.Errorf("Unexpected event envelope: %+v", event)
	}
	if event.Version != 1 {
		t.Errorf("Expected version 1, got %d", event.Version)
	}

	var decoded GraphUpdate
	if err := json.Unmarshal(event.Data, &decoded); err != nil {
		t.Fatalf("Unmarshal event data: %v", err)
	}
	if decoded.Configuration != "Debug" || decoded.Targets != 12 {
		t.Errorf("Unexpected payload: %+v", decoded)
	}
}

func TestTopicIsolation(t *testing.T) {
	p := NewSSEPublisher()
	defer p.Close()

	sub, err := p.Subscribe(context.Background(), "build_status")
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	p.Publish("graph", "updated", GraphUpdate{})

	select {
	case event := <-sub.Events():
		t.Errorf("Expected no cross-topic delivery, got %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReplayLastEvent(t *testing.T) {
	p := NewSSEPublisher()
	defer p.Close()
	p.ConfigureTopic("build_status", TopicConfig{BufferSize: 10, ReplayAll: false})

	p.Publish("build_status", "building", BuildStatus{State: "building"})
	p.Publish("build_status", "ready", BuildStatus{State: "ready"})

	sub, err := p.Subscribe(context.Background(), "build_status")
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	event := receive(t, sub)
	if event.Type != "ready" {
		t.Errorf("Expected only the latest event replayed, got '%s'", event.Type)
	}

	select {
	case extra := <-sub.Events():
		t.Errorf("Expected a single replayed event, got %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReplayAll(t *testing.T) {
	p := NewSSEPublisher()
	defer p.Close()
	p.ConfigureTopic("graph", TopicConfig{BufferSize: 5, ReplayAll: true})

	for i := 0; i < 3; i++ {
		p.Publish("graph", "updated", GraphUpdate{Targets: i})
	}

	sub, err := p.Subscribe(context.Background(), "graph")
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	for want := 1; want <= 3; want++ {
		event := receive(t, sub)
		if event.Version != want {
			t.Errorf("Expected replayed version %d, got %d", want, event.Version)
		}
	}
}

func TestSubscriptionContextCancel(t *testing.T) {
	p := NewSSEPublisher()
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := p.Subscribe(ctx, "graph")
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	// After cancellation the subscription drops off the topic; publishing
	// must not fail.
	time.Sleep(20 * time.Millisecond)
	if err := p.Publish("graph", "updated", GraphUpdate{}); err != nil {
		t.Errorf("Publish() after unsubscribe error = %v", err)
	}
	_ = sub
}

func TestClosedPublisher(t *testing.T) {
	p := NewSSEPublisher()
	p.Close()

	if _, err := p.Subscribe(context.Background(), "graph"); err == nil {
		t.Error("Expected Subscribe() to fail on a closed publisher")
	}
	if err := p.Publish("graph", "updated", GraphUpdate{}); err == nil {
		t.Error("Expected Publish() to fail on a closed publisher")
	}
}

func TestWriteSSEFormat(t *testing.T) {
	var b strings.Builder
	event := Event{Topic: "graph", Type: "updated", Data: json.RawMessage(`{"targets":3}`), Version: 7}

	if err := WriteSSE(&b, event); err != nil {
		t.Fatalf("WriteSSE() error = %v", err)
	}

	out := b.String()
	if !strings.HasPrefix(out, "data: {") {
		t.Errorf("Expected 'data: ' prefix, got %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("Expected double newline terminator, got %q", out)
	}
	if !strings.Contains(out, `"version":7`) {
		t.Errorf("Expected version in payload, got %q", out)
	}
}
