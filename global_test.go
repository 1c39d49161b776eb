package ionbridge

import (
	"testing"

	"github.com/JupiterMetaLabs/ionbridge/bridgetest"
)

func TestGlobal(t *testing.T) {
	t.Cleanup(func() { SetGlobal(nil) })

	// Without a global bridge the package functions discard.
	SetGlobal(nil)
	Send("dropped", nil)
	NativeLog("dropped")

	func() {
		defer func() {
			if recover() == nil {
				t.Error("L() must panic without a global bridge")
			}
		}()
		L()
	}()

	rec := bridgetest.NewRecorder()
	b := New(rec, WithEnvironment(&Environment{}))
	SetGlobal(b)
	if L() != b {
		t.Fatal("L() must return the global bridge")
	}

	SetGlobalAttributes(map[string]any{"tenant": "acme"})
	RemoveAttribute("tenant")
	Report("screen_view", map[string]any{"screen": "home"})
	Send("checkout", nil)
	RecordCustomEvent("ui", "tap", Attrs{A("x", 1)})
	NativeLog("hello")

	calls := rec.Calls()
	want := []string{
		bridgetest.MethodSetAttribute,
		bridgetest.MethodRemoveAttribute,
		bridgetest.MethodSend,
		bridgetest.MethodSend,
		bridgetest.MethodRecordCustomEvent,
		bridgetest.MethodNativeLog,
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(calls), len(want))
	}
	for i, m := range want {
		if calls[i].Method != m {
			t.Errorf("call %d = %s, want %s", i, calls[i].Method, m)
		}
	}
	if got := calls[4].Attributes["x"]; got != "1" {
		t.Errorf("custom event attribute x = %q", got)
	}
}
