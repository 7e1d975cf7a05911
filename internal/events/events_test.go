package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"nimbus-web/internal/config"
)

func TestNewRenderEvent(t *testing.T) {
	before := time.Now().UTC()
	ev := NewRenderEvent(PanelZone, "sur", "ok", 2, 1, 1500*time.Millisecond)

	if _, err := uuid.Parse(ev.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", ev.ID, err)
	}
	if ev.Panel != PanelZone || ev.Key != "sur" || ev.Outcome != "ok" {
		t.Errorf("ev = %+v", ev)
	}
	if ev.Cards != 2 || ev.Errors != 1 || ev.DurationMs != 1500 {
		t.Errorf("counts = (%d, %d, %d); want (2, 1, 1500)", ev.Cards, ev.Errors, ev.DurationMs)
	}
	if ev.At.Before(before) {
		t.Errorf("At = %v; want >= %v", ev.At, before)
	}

	other := NewRenderEvent(PanelZone, "sur", "ok", 0, 0, 0)
	if other.ID == ev.ID {
		t.Error("two events share an ID")
	}
}

func TestRenderEvent_JSON(t *testing.T) {
	ev := NewRenderEvent(PanelLocation, "", "failed", 0, 1, 0)
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"id", "panel", "outcome", "cards", "errors", "duration_ms", "at"} {
		if _, ok := got[k]; !ok {
			t.Errorf("missing key %q in %s", k, data)
		}
	}
	if _, ok := got["key"]; ok {
		t.Errorf("empty key should be omitted: %s", data)
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), RenderEvent{}); err != nil {
		t.Errorf("Nop.Publish() = %v; want nil", err)
	}
}

func testConfig() config.Config {
	return config.Config{
		MQTTBroker:   "127.0.0.1",
		MQTTPort:     1,
		MQTTClientID: "nimbus-web-test",
		MQTTTopic:    "nimbus/render",
	}
}

func TestMQTTPublisher_publishWithoutConnection(t *testing.T) {
	p := NewMQTTPublisher(testConfig(), nil)
	err := p.Publish(context.Background(), NewRenderEvent(PanelNews, "general", "items", 3, 0, 0))
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Publish() = %v; want ErrNotConnected", err)
	}
}

func TestMQTTPublisher_connectRespectsContext(t *testing.T) {
	p := NewMQTTPublisher(testConfig(), nil)
	t.Cleanup(p.Disconnect)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	// Nothing listens on port 1; with connect retry the token never completes.
	err := p.Connect(ctx)
	if err == nil {
		t.Fatal("Connect() = nil; want error")
	}
	if p.IsConnected() {
		t.Error("IsConnected() = true after failed connect")
	}
}

func TestMQTTPublisher_disconnectIdempotent(t *testing.T) {
	p := NewMQTTPublisher(testConfig(), nil)
	p.Disconnect()
	p.Disconnect()

	if err := p.Connect(context.Background()); !errors.Is(err, errStopped) {
		t.Errorf("Connect() after Disconnect = %v; want errStopped", err)
	}
}
