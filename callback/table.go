package callback

import (
	"sync"

	neonbridge "github.com/quietterminal/neon-bridge"
)

// Callback shapes match the boundary contract. A nil func disables the
// corresponding notification.
type (
	PongFunc               func(responseTimeMS, originalTimestamp uint64)
	SessionConfigFunc      func(version uint8, tickRate, maxPacketSize uint16)
	PacketTypeRegistryFunc func(entries []neonbridge.PacketTypeInfo)
	UnhandledPacketFunc    func(packetType, fromClientID uint8)
	WrongDestinationFunc   func(myID, destinationID uint8)
	ClientConnectFunc      func(clientID uint8, name string, sessionID uint32)
	ClientDenyFunc         func(name, reason string)
	PingReceivedFunc       func(fromClientID uint8)
)

// ClientTable stores a client handle's registered callbacks and relays
// managed-side events to them. It implements neonbridge.ClientEvents, so
// an invocation from the managed side is a call back across the boundary
// into the table rather than a raw pointer call. Invalidate clears every
// slot, which makes events arriving after free safe no-ops.
type ClientTable struct {
	mu                 sync.RWMutex
	pong               PongFunc
	sessionConfig      SessionConfigFunc
	packetTypeRegistry PacketTypeRegistryFunc
	unhandledPacket    UnhandledPacketFunc
	wrongDestination   WrongDestinationFunc
}

var _ neonbridge.ClientEvents = (*ClientTable)(nil)

func (t *ClientTable) SetPong(fn PongFunc) {
	t.mu.Lock()
	t.pong = fn
	t.mu.Unlock()
}

func (t *ClientTable) SetSessionConfig(fn SessionConfigFunc) {
	t.mu.Lock()
	t.sessionConfig = fn
	t.mu.Unlock()
}

func (t *ClientTable) SetPacketTypeRegistry(fn PacketTypeRegistryFunc) {
	t.mu.Lock()
	t.packetTypeRegistry = fn
	t.mu.Unlock()
}

func (t *ClientTable) SetUnhandledPacket(fn UnhandledPacketFunc) {
	t.mu.Lock()
	t.unhandledPacket = fn
	t.mu.Unlock()
}

func (t *ClientTable) SetWrongDestination(fn WrongDestinationFunc) {
	t.mu.Lock()
	t.wrongDestination = fn
	t.mu.Unlock()
}

// Invalidate disables every registered callback.
func (t *ClientTable) Invalidate() {
	t.mu.Lock()
	t.pong = nil
	t.sessionConfig = nil
	t.packetTypeRegistry = nil
	t.unhandledPacket = nil
	t.wrongDestination = nil
	t.mu.Unlock()
}

func (t *ClientTable) OnPong(responseTimeMS, originalTimestamp uint64) {
	t.mu.RLock()
	fn := t.pong
	t.mu.RUnlock()
	if fn != nil {
		fn(responseTimeMS, originalTimestamp)
	}
}

func (t *ClientTable) OnSessionConfig(version uint8, tickRate, maxPacketSize uint16) {
	t.mu.RLock()
	fn := t.sessionConfig
	t.mu.RUnlock()
	if fn != nil {
		fn(version, tickRate, maxPacketSize)
	}
}

func (t *ClientTable) OnPacketTypeRegistry(entries []neonbridge.PacketTypeInfo) {
	t.mu.RLock()
	fn := t.packetTypeRegistry
	t.mu.RUnlock()
	if fn != nil {
		fn(entries)
	}
}

func (t *ClientTable) OnUnhandledPacket(packetType, fromClientID uint8) {
	t.mu.RLock()
	fn := t.unhandledPacket
	t.mu.RUnlock()
	if fn != nil {
		fn(packetType, fromClientID)
	}
}

func (t *ClientTable) OnWrongDestination(myID, destinationID uint8) {
	t.mu.RLock()
	fn := t.wrongDestination
	t.mu.RUnlock()
	if fn != nil {
		fn(myID, destinationID)
	}
}

// HostTable is the host-side counterpart of ClientTable.
type HostTable struct {
	mu              sync.RWMutex
	clientConnect   ClientConnectFunc
	clientDeny      ClientDenyFunc
	pingReceived    PingReceivedFunc
	unhandledPacket UnhandledPacketFunc
}

var _ neonbridge.HostEvents = (*HostTable)(nil)

func (t *HostTable) SetClientConnect(fn ClientConnectFunc) {
	t.mu.Lock()
	t.clientConnect = fn
	t.mu.Unlock()
}

func (t *HostTable) SetClientDeny(fn ClientDenyFunc) {
	t.mu.Lock()
	t.clientDeny = fn
	t.mu.Unlock()
}

func (t *HostTable) SetPingReceived(fn PingReceivedFunc) {
	t.mu.Lock()
	t.pingReceived = fn
	t.mu.Unlock()
}

func (t *HostTable) SetUnhandledPacket(fn UnhandledPacketFunc) {
	t.mu.Lock()
	t.unhandledPacket = fn
	t.mu.Unlock()
}

// Invalidate disables every registered callback.
func (t *HostTable) Invalidate() {
	t.mu.Lock()
	t.clientConnect = nil
	t.clientDeny = nil
	t.pingReceived = nil
	t.unhandledPacket = nil
	t.mu.Unlock()
}

func (t *HostTable) OnClientConnect(clientID uint8, name string, sessionID uint32) {
	t.mu.RLock()
	fn := t.clientConnect
	t.mu.RUnlock()
	if fn != nil {
		fn(clientID, name, sessionID)
	}
}

func (t *HostTable) OnClientDeny(name, reason string) {
	t.mu.RLock()
	fn := t.clientDeny
	t.mu.RUnlock()
	if fn != nil {
		fn(name, reason)
	}
}

func (t *HostTable) OnPingReceived(fromClientID uint8) {
	t.mu.RLock()
	fn := t.pingReceived
	t.mu.RUnlock()
	if fn != nil {
		fn(fromClientID)
	}
}

func (t *HostTable) OnUnhandledPacket(packetType, fromClientID uint8) {
	t.mu.RLock()
	fn := t.unhandledPacket
	t.mu.RUnlock()
	if fn != nil {
		fn(packetType, fromClientID)
	}
}
