package neonbridge

// PacketTypeInfo describes one entry of the session's packet-type registry
// as announced by the managed side after a client joins.
type PacketTypeInfo struct {
	ID          uint8
	Name        string
	Description string
}

// ClientEvents receives asynchronous notifications from a managed client.
// The managed side invokes these from its own threads; implementations must
// tolerate calls at any time, including after the owning handle is freed.
type ClientEvents interface {
	OnPong(responseTimeMS, originalTimestamp uint64)
	OnSessionConfig(version uint8, tickRate, maxPacketSize uint16)
	OnPacketTypeRegistry(entries []PacketTypeInfo)
	OnUnhandledPacket(packetType, fromClientID uint8)
	OnWrongDestination(myID, destinationID uint8)
}

// HostEvents receives asynchronous notifications from a managed host.
type HostEvents interface {
	OnClientConnect(clientID uint8, name string, sessionID uint32)
	OnClientDeny(name, reason string)
	OnPingReceived(fromClientID uint8)
	OnUnhandledPacket(packetType, fromClientID uint8)
}

// ManagedClient is the client object living inside the managed runtime.
// The boundary never interprets protocol state; the managed side is the
// single source of truth for connection status and identifiers.
type ManagedClient interface {
	// Connect joins a session through the relay at host:port.
	Connect(sessionID uint32, host string, port int) error

	// ProcessPackets drains pending incoming packets and returns how many
	// were handled.
	ProcessPackets() (int, error)

	// ClientID returns the relay-assigned id, 0 before assignment.
	ClientID() uint8

	// SessionID returns the joined session id, 0 before connect.
	SessionID() uint32

	IsConnected() bool

	SendPing() error

	SetAutoPing(enabled bool)

	// Close shuts the client down. Called at most once by the boundary.
	Close() error
}

// ManagedHost is the host object living inside the managed runtime.
type ManagedHost interface {
	// Start runs the host until Close. It blocks; callers are expected to
	// invoke it on a dedicated thread.
	Start() error

	ProcessPackets() (int, error)

	SessionID() uint32

	ClientCount() int

	Close() error
}

// Factory constructs managed objects. The boundary hands each new object
// its event sink so notifications can flow back across the boundary.
type Factory interface {
	NewClient(name string, events ClientEvents) (ManagedClient, error)
	NewHost(sessionID uint32, host string, port int, events HostEvents) (ManagedHost, error)
}
