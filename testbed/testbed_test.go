package testbed

import (
	"os"
	"path/filepath"
	"testing"

	neonbridge "github.com/quietterminal/neon-bridge"
)

type clientRecorder struct {
	configs    []uint16
	registries [][]neonbridge.PacketTypeInfo
	pongs      int
	unhandled  []uint8
	wrongDest  [][2]uint8
}

func (r *clientRecorder) OnPong(responseTimeMS, originalTimestamp uint64) { r.pongs++ }
func (r *clientRecorder) OnSessionConfig(version uint8, tickRate, maxPacketSize uint16) {
	r.configs = append(r.configs, tickRate)
}
func (r *clientRecorder) OnPacketTypeRegistry(entries []neonbridge.PacketTypeInfo) {
	r.registries = append(r.registries, entries)
}
func (r *clientRecorder) OnUnhandledPacket(packetType, fromClientID uint8) {
	r.unhandled = append(r.unhandled, packetType)
}
func (r *clientRecorder) OnWrongDestination(myID, destinationID uint8) {
	r.wrongDest = append(r.wrongDest, [2]uint8{myID, destinationID})
}

type hostRecorder struct {
	connects  []string
	denies    []string
	pings     []uint8
	unhandled []uint8
}

func (r *hostRecorder) OnClientConnect(clientID uint8, name string, sessionID uint32) {
	r.connects = append(r.connects, name)
}
func (r *hostRecorder) OnClientDeny(name, reason string) { r.denies = append(r.denies, reason) }
func (r *hostRecorder) OnPingReceived(fromClientID uint8) {
	r.pings = append(r.pings, fromClientID)
}
func (r *hostRecorder) OnUnhandledPacket(packetType, fromClientID uint8) {
	r.unhandled = append(r.unhandled, packetType)
}

func newClient(t *testing.T, f *Factory, name string, events neonbridge.ClientEvents) *Client {
	t.Helper()
	c, err := f.NewClient(name, events)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c.(*Client)
}

func newHost(t *testing.T, f *Factory, sessionID uint32, events neonbridge.HostEvents) *Host {
	t.Helper()
	host, port := f.relay.Addr()
	h, err := f.NewHost(sessionID, host, port, events)
	if err != nil {
		t.Fatalf("NewHost failed: %v", err)
	}
	return h.(*Host)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	data := []byte(`
protocol_version: 2
tick_rate: 30
max_packet_size: 900
max_clients: 2
packet_types:
  - id: 1
    name: ping
    description: latency probe
  - id: 7
    name: chat
    description: text message
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ProtocolVersion != 2 || cfg.TickRate != 30 || cfg.MaxPacketSize != 900 || cfg.MaxClients != 2 {
		t.Fatalf("Unexpected config: %+v", cfg)
	}
	if len(cfg.PacketTypes) != 2 || cfg.PacketTypes[1].Name != "chat" {
		t.Fatalf("Unexpected packet types: %+v", cfg.PacketTypes)
	}
	if !cfg.knownType(7) || cfg.knownType(10) {
		t.Fatal("knownType does not reflect the loaded registry")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestJoinAnnouncesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickRate = 30
	relay := NewRelay("relay.local", 9000, cfg)
	f := NewFactory(relay)

	rec := &clientRecorder{}
	c := newClient(t, f, "Alice", rec)
	defer c.Close()

	if err := c.Connect(1, "relay.local", 9000); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if n, err := c.ProcessPackets(); err != nil || n != 2 {
		t.Fatalf("ProcessPackets = %d, %v", n, err)
	}
	if len(rec.configs) != 1 || rec.configs[0] != 30 {
		t.Fatalf("Session config not announced: %v", rec.configs)
	}
	if len(rec.registries) != 1 || len(rec.registries[0]) != len(cfg.PacketTypes) {
		t.Fatalf("Registry not announced: %v", rec.registries)
	}
}

func TestConnect_WrongAddress(t *testing.T) {
	relay := NewRelay("relay.local", 9000, DefaultConfig())
	f := NewFactory(relay)

	c := newClient(t, f, "Alice", &clientRecorder{})
	defer c.Close()

	if err := c.Connect(1, "other.host", 9000); err == nil {
		t.Fatal("Expected join to fail for an unreachable relay")
	}
	if c.IsConnected() {
		t.Fatal("Client must stay disconnected")
	}
}

func TestSessionFullDeny(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClients = 1
	relay := NewRelay("relay.local", 9000, cfg)
	f := NewFactory(relay)

	hrec := &hostRecorder{}
	h := newHost(t, f, 5, hrec)
	defer h.Close()

	c1 := newClient(t, f, "Alice", &clientRecorder{})
	defer c1.Close()
	if err := c1.Connect(5, "relay.local", 9000); err != nil {
		t.Fatalf("First join failed: %v", err)
	}
	if len(hrec.connects) != 1 || hrec.connects[0] != "Alice" {
		t.Fatalf("Connect not announced: %v", hrec.connects)
	}

	c2 := newClient(t, f, "Bob", &clientRecorder{})
	defer c2.Close()
	if err := c2.Connect(5, "relay.local", 9000); err == nil {
		t.Fatal("Second join must be denied")
	}
	if len(hrec.denies) != 1 || hrec.denies[0] != "session full" {
		t.Fatalf("Deny not announced: %v", hrec.denies)
	}
	if h.ClientCount() != 1 {
		t.Fatalf("Expected 1 client, got %d", h.ClientCount())
	}
}

func TestDeliver_WrongDestinationAndUnknownType(t *testing.T) {
	relay := NewRelay("relay.local", 9000, DefaultConfig())
	f := NewFactory(relay)

	rec := &clientRecorder{}
	c := newClient(t, f, "Alice", rec)
	defer c.Close()
	if err := c.Connect(1, "relay.local", 9000); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	c.ProcessPackets() // drain join announcements

	// Addressed to someone else: wrong destination, regardless of type.
	c.Deliver(10, 2, 9)
	// Addressed to us but of an unregistered type.
	c.Deliver(99, 2, c.ClientID())
	// Addressed to us, registered type: handled, no event.
	c.Deliver(10, 2, c.ClientID())

	if n, err := c.ProcessPackets(); err != nil || n != 3 {
		t.Fatalf("ProcessPackets = %d, %v", n, err)
	}
	if len(rec.wrongDest) != 1 || rec.wrongDest[0] != [2]uint8{1, 9} {
		t.Fatalf("Wrong destination events: %v", rec.wrongDest)
	}
	if len(rec.unhandled) != 1 || rec.unhandled[0] != 99 {
		t.Fatalf("Unhandled events: %v", rec.unhandled)
	}
}

func TestHostDeliver_UnknownType(t *testing.T) {
	relay := NewRelay("relay.local", 9000, DefaultConfig())
	f := NewFactory(relay)

	hrec := &hostRecorder{}
	h := newHost(t, f, 1, hrec)
	defer h.Close()

	h.Deliver(99, 3)
	h.Deliver(1, 3) // registered, handled silently

	if n, err := h.ProcessPackets(); err != nil || n != 2 {
		t.Fatalf("ProcessPackets = %d, %v", n, err)
	}
	if len(hrec.unhandled) != 1 || hrec.unhandled[0] != 99 {
		t.Fatalf("Unhandled events: %v", hrec.unhandled)
	}
}

func TestInstanceCounters(t *testing.T) {
	relay := NewRelay("relay.local", 9000, DefaultConfig())
	f := NewFactory(relay)

	c := newClient(t, f, "Alice", &clientRecorder{})
	h := newHost(t, f, 1, &hostRecorder{})

	if clients, hosts := relay.Instances(); clients != 1 || hosts != 1 {
		t.Fatalf("Expected 1/1 live, got %d/%d", clients, hosts)
	}

	c.Close()
	c.Close() // idempotent
	h.Close()
	h.Close()

	if clients, hosts := relay.Instances(); clients != 0 || hosts != 0 {
		t.Fatalf("Expected 0/0 live, got %d/%d", clients, hosts)
	}
}

func TestAutoPingFlag(t *testing.T) {
	relay := NewRelay("relay.local", 9000, DefaultConfig())
	f := NewFactory(relay)

	c := newClient(t, f, "Alice", &clientRecorder{})
	defer c.Close()

	if !c.AutoPing() {
		t.Fatal("Auto-ping starts enabled")
	}
	c.SetAutoPing(false)
	if c.AutoPing() {
		t.Fatal("SetAutoPing(false) did not stick")
	}
}

func TestSessionAlreadyHosted(t *testing.T) {
	relay := NewRelay("relay.local", 9000, DefaultConfig())
	f := NewFactory(relay)

	h := newHost(t, f, 1, &hostRecorder{})
	defer h.Close()

	if _, err := f.NewHost(1, "relay.local", 9000, &hostRecorder{}); err == nil {
		t.Fatal("Second host for the same session must fail")
	}
}

func TestClosedClientRejectsWork(t *testing.T) {
	relay := NewRelay("relay.local", 9000, DefaultConfig())
	f := NewFactory(relay)

	c := newClient(t, f, "Alice", &clientRecorder{})
	c.Close()

	if err := c.Connect(1, "relay.local", 9000); err == nil {
		t.Fatal("Connect on a closed client must fail")
	}
	if _, err := c.ProcessPackets(); err == nil {
		t.Fatal("ProcessPackets on a closed client must fail")
	}
	if err := c.SendPing(); err == nil {
		t.Fatal("SendPing on a closed client must fail")
	}
}
