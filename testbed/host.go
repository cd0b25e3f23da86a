package testbed

import (
	"fmt"
	"sync"
	"time"

	neonbridge "github.com/quietterminal/neon-bridge"
)

type hostPacketKind int

const (
	hostPacketPing hostPacketKind = iota
	hostPacketRaw
)

type hostPacket struct {
	kind       hostPacketKind
	from       *Client
	sentAt     time.Time
	packetType uint8
	fromID     uint8
}

// Host is the testbed's managed host.
type Host struct {
	relay     *Relay
	sessionID uint32
	events    neonbridge.HostEvents

	mu     sync.Mutex
	inbox  []hostPacket
	done   chan struct{}
	closed bool
}

var _ neonbridge.ManagedHost = (*Host)(nil)

func (h *Host) enqueue(p hostPacket) {
	if p.kind == hostPacketPing && p.sentAt.IsZero() {
		p.sentAt = time.Now()
	}
	h.mu.Lock()
	if !h.closed {
		h.inbox = append(h.inbox, p)
	}
	h.mu.Unlock()
}

// Start blocks until Close, standing in for the real host's packet loop.
func (h *Host) Start() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return fmt.Errorf("host closed")
	}
	done := h.done
	h.mu.Unlock()

	<-done
	return nil
}

// ProcessPackets drains the inbox: pings fire PingReceived and get a pong
// queued back on the sender; raw packets of unknown type fire
// UnhandledPacket.
func (h *Host) ProcessPackets() (int, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0, fmt.Errorf("host closed")
	}
	pending := h.inbox
	h.inbox = nil
	h.mu.Unlock()

	for _, p := range pending {
		switch p.kind {
		case hostPacketPing:
			h.events.OnPingReceived(p.from.ClientID())
			p.from.enqueue(clientPacket{kind: clientPacketPong, sentAt: p.sentAt})
		case hostPacketRaw:
			if !h.relay.cfg.knownType(p.packetType) {
				h.events.OnUnhandledPacket(p.packetType, p.fromID)
			}
		}
	}
	return len(pending), nil
}

func (h *Host) SessionID() uint32 {
	return h.sessionID
}

func (h *Host) ClientCount() int {
	return h.relay.clientCount(h.sessionID)
}

// Deliver injects a raw packet, for driving the unhandled-packet path in
// tests.
func (h *Host) Deliver(packetType, fromID uint8) {
	h.enqueue(hostPacket{kind: hostPacketRaw, packetType: packetType, fromID: fromID})
}

// Close stops Start, drops the session, and releases the instance.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.done)
	h.mu.Unlock()

	h.relay.dropSession(h)
	h.relay.liveHosts.Add(-1)
	return nil
}
