package proto

import (
	"encoding/json"
	"testing"
)

func TestEventChannelPrefix(t *testing.T) {
	if got := EventChannel(EventLine); got != "event/line" {
		t.Fatalf("EventChannel(line) = %q", got)
	}
}

func TestStatusClosedSet(t *testing.T) {
	for _, s := range []Status{StatusOffline, StatusStarting, StatusOnline, StatusStopping} {
		if !s.Valid() {
			t.Fatalf("status %q rejected", s)
		}
	}
	if Status("unknown").Valid() {
		t.Fatal("status outside the closed set accepted")
	}
}

func TestFrameOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(Frame{Type: FrameTypeEvent, Channel: "event/line"})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"id", "data", "error"} {
		if _, present := decoded[field]; present {
			t.Fatalf("empty %q serialized", field)
		}
	}
}
