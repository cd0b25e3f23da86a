package bridge

import (
	stderrors "errors"
	"strings"
	"testing"

	neonbridge "github.com/quietterminal/neon-bridge"
	berrors "github.com/quietterminal/neon-bridge/errors"
	"github.com/quietterminal/neon-bridge/vm"
)

// panickyClient blows up inside forwarded calls, standing in for a managed
// side that raises instead of returning an error.
type panickyClient struct {
	events neonbridge.ClientEvents
}

func (c *panickyClient) Connect(sessionID uint32, host string, port int) error {
	panic("managed runtime fault")
}
func (c *panickyClient) ProcessPackets() (int, error) { return 0, stderrors.New("socket torn down") }
func (c *panickyClient) ClientID() uint8              { return 0 }
func (c *panickyClient) SessionID() uint32            { return 0 }
func (c *panickyClient) IsConnected() bool            { return false }
func (c *panickyClient) SendPing() error              { return nil }
func (c *panickyClient) SetAutoPing(enabled bool)     {}
func (c *panickyClient) Close() error                 { return nil }

type panickyFactory struct {
	last *panickyClient
}

func (f *panickyFactory) NewClient(name string, events neonbridge.ClientEvents) (neonbridge.ManagedClient, error) {
	f.last = &panickyClient{events: events}
	return f.last, nil
}

func (f *panickyFactory) NewHost(sessionID uint32, host string, port int, events neonbridge.HostEvents) (neonbridge.ManagedHost, error) {
	return nil, stderrors.New("no hosts here")
}

func TestInvoke_TranslatesPanic(t *testing.T) {
	f := &panickyFactory{}
	v, err := vm.Init(f)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { _ = vm.Shutdown() })
	b := New(v)

	h, err := b.NewClient("Alice")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer b.FreeClient(h)

	err = b.ClientConnect(h, 1, "127.0.0.1:7777")
	if !isKind(err, berrors.StageInvoke, berrors.KindManagedCallFailed) {
		t.Fatalf("Expected managed_call_failed, got %v", err)
	}
	if !strings.Contains(err.Error(), "managed runtime fault") {
		t.Fatalf("Panic value lost: %v", err)
	}

	// Error returns take the same shape as panics.
	_, err = b.ClientProcessPackets(h)
	if !isKind(err, berrors.StageInvoke, berrors.KindManagedCallFailed) {
		t.Fatalf("Expected managed_call_failed, got %v", err)
	}
}

func TestConstructionFailure(t *testing.T) {
	f := &panickyFactory{}
	v, err := vm.Init(f)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { _ = vm.Shutdown() })
	b := New(v)

	_, err = b.NewHost(1, "127.0.0.1:7777")
	if !isKind(err, berrors.StageConstruct, berrors.KindConstructionFailed) {
		t.Fatalf("Expected construction_failed, got %v", err)
	}
}

func TestLateEventAfterFree(t *testing.T) {
	f := &panickyFactory{}
	v, err := vm.Init(f)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { _ = vm.Shutdown() })
	b := New(v)

	h, err := b.NewClient("Alice")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	fired := false
	if err := b.SetPongCallback(h, func(rt, ts uint64) { fired = true }); err != nil {
		t.Fatalf("SetPongCallback failed: %v", err)
	}

	events := f.last.events
	b.FreeClient(h)

	// An event racing past free must be a safe no-op, not a call into a
	// released callback.
	events.OnPong(1, 2)
	if fired {
		t.Fatal("Callback fired after free")
	}
}
