package testbed

import (
	"fmt"
	"sync"
	"time"

	neonbridge "github.com/quietterminal/neon-bridge"
)

type clientPacketKind int

const (
	clientPacketSessionConfig clientPacketKind = iota
	clientPacketRegistry
	clientPacketPong
	clientPacketRaw
)

type clientPacket struct {
	kind       clientPacketKind
	sentAt     time.Time
	packetType uint8
	from       uint8
	dest       uint8
}

// Client is the testbed's managed client. Notifications queue in an inbox
// and fire during ProcessPackets, the way the real protocol stack delivers
// callbacks from its packet pump.
type Client struct {
	relay  *Relay
	name   string
	events neonbridge.ClientEvents

	mu        sync.Mutex
	inbox     []clientPacket
	connected bool
	closed    bool
	autoPing  bool
	clientID  uint8
	sessionID uint32
}

var _ neonbridge.ManagedClient = (*Client)(nil)

func (c *Client) enqueue(p clientPacket) {
	c.mu.Lock()
	if !c.closed {
		c.inbox = append(c.inbox, p)
	}
	c.mu.Unlock()
}

// Connect joins sessionID through the relay at host:port.
func (c *Client) Connect(sessionID uint32, host string, port int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("client closed")
	}
	if c.connected {
		c.mu.Unlock()
		return fmt.Errorf("already connected")
	}
	c.mu.Unlock()

	id, err := c.relay.join(c, sessionID, host, port)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.connected = true
	c.clientID = id
	c.sessionID = sessionID
	c.inbox = append(c.inbox,
		clientPacket{kind: clientPacketSessionConfig},
		clientPacket{kind: clientPacketRegistry},
	)
	c.mu.Unlock()
	return nil
}

// ProcessPackets drains the inbox, firing the matching events.
func (c *Client) ProcessPackets() (int, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, fmt.Errorf("client closed")
	}
	pending := c.inbox
	c.inbox = nil
	myID := c.clientID
	c.mu.Unlock()

	cfg := c.relay.cfg
	for _, p := range pending {
		switch p.kind {
		case clientPacketSessionConfig:
			c.events.OnSessionConfig(cfg.ProtocolVersion, cfg.TickRate, cfg.MaxPacketSize)
		case clientPacketRegistry:
			c.events.OnPacketTypeRegistry(cfg.registry())
		case clientPacketPong:
			elapsed := time.Since(p.sentAt)
			c.events.OnPong(uint64(elapsed.Milliseconds()), uint64(p.sentAt.UnixMilli()))
		case clientPacketRaw:
			switch {
			case p.dest != myID:
				c.events.OnWrongDestination(myID, p.dest)
			case !cfg.knownType(p.packetType):
				c.events.OnUnhandledPacket(p.packetType, p.from)
			}
		}
	}
	return len(pending), nil
}

func (c *Client) ClientID() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientID
}

func (c *Client) SessionID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected && !c.closed
}

// SendPing forwards a ping to the session's host.
func (c *Client) SendPing() error {
	c.mu.Lock()
	if c.closed || !c.connected {
		c.mu.Unlock()
		return fmt.Errorf("not connected")
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	return c.relay.forwardPing(c, sessionID)
}

func (c *Client) SetAutoPing(enabled bool) {
	c.mu.Lock()
	c.autoPing = enabled
	c.mu.Unlock()
}

// AutoPing reports the stored auto-ping flag.
func (c *Client) AutoPing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoPing
}

// Deliver injects a raw packet addressed to dest, for driving the
// unhandled-packet and wrong-destination paths in tests.
func (c *Client) Deliver(packetType, from, dest uint8) {
	c.enqueue(clientPacket{kind: clientPacketRaw, packetType: packetType, from: from, dest: dest})
}

// Close leaves the session and releases the instance.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	wasConnected := c.connected
	c.connected = false
	c.mu.Unlock()

	if wasConnected {
		c.relay.leave(c)
	}
	c.relay.liveClients.Add(-1)
	return nil
}
