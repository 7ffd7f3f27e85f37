package poller

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDispatchRoutesKnownChannels(t *testing.T) {
	r := NewRegistry()

	var got []byte
	r.Register("builds", func(payload json.RawMessage) error {
		got = payload
		return nil
	})

	r.Dispatch(map[string]json.RawMessage{
		"builds": json.RawMessage(`[1]`),
	})

	if string(got) != `[1]` {
		t.Errorf("handler got %q", got)
	}
}

func TestDispatchIgnoresUnknownChannels(t *testing.T) {
	r := NewRegistry()

	called := false
	r.Register("builds", func(json.RawMessage) error {
		called = true
		return nil
	})

	r.Dispatch(map[string]json.RawMessage{
		"surprise": json.RawMessage(`{}`),
	})

	if called {
		t.Error("handler called for an unknown channel")
	}
}

func TestDispatchSurvivesHandlerErrors(t *testing.T) {
	r := NewRegistry()

	r.Register("bad", func(json.RawMessage) error {
		return errors.New("boom")
	})

	handled := false
	r.Register("good", func(json.RawMessage) error {
		handled = true
		return nil
	})

	// Must not panic and must still deliver the healthy channel.
	r.Dispatch(map[string]json.RawMessage{
		"bad":  json.RawMessage(`{}`),
		"good": json.RawMessage(`{}`),
	})

	if !handled {
		t.Error("healthy channel starved by a failing handler")
	}
}
