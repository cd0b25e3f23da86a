package testbed

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Relay is an in-process rendezvous standing in for the real network
// relay. Hosts register sessions; clients join them by session id. All
// traffic is queues and direct event calls, no sockets.
type Relay struct {
	host string
	port int
	cfg  Config

	mu       sync.Mutex
	sessions map[uint32]*session

	liveClients atomic.Int64
	liveHosts   atomic.Int64
}

type session struct {
	id      uint32
	host    *Host
	clients map[uint8]*Client
	nextID  uint8
}

// NewRelay creates a relay reachable at host:port.
func NewRelay(host string, port int, cfg Config) *Relay {
	return &Relay{
		host:     host,
		port:     port,
		cfg:      cfg,
		sessions: make(map[uint32]*session),
	}
}

// Addr returns the relay's reachable address.
func (r *Relay) Addr() (string, int) {
	return r.host, r.port
}

// Instances reports live managed client and host objects, for leak checks.
func (r *Relay) Instances() (clients, hosts int64) {
	return r.liveClients.Load(), r.liveHosts.Load()
}

func (r *Relay) reachable(host string, port int) bool {
	return host == r.host && port == r.port
}

// registerSession claims a session for a host.
func (r *Relay) registerSession(h *Host) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[h.sessionID]; ok && s.host != nil {
		return fmt.Errorf("session %d already hosted", h.sessionID)
	}
	s, ok := r.sessions[h.sessionID]
	if !ok {
		s = &session{id: h.sessionID, clients: make(map[uint8]*Client), nextID: 1}
		r.sessions[h.sessionID] = s
	}
	s.host = h
	return nil
}

func (r *Relay) dropSession(h *Host) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[h.sessionID]; ok && s.host == h {
		s.host = nil
	}
}

// join admits a client into a session, assigning the next client id.
// Sessions without a host are created implicitly, matching a relay that
// buffers early joiners.
func (r *Relay) join(c *Client, sessionID uint32, host string, port int) (uint8, error) {
	if !r.reachable(host, port) {
		return 0, fmt.Errorf("no relay at %s:%d", host, port)
	}

	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if !ok {
		s = &session{id: sessionID, clients: make(map[uint8]*Client), nextID: 1}
		r.sessions[sessionID] = s
	}

	if len(s.clients) >= r.cfg.MaxClients {
		h := s.host
		r.mu.Unlock()
		if h != nil {
			h.events.OnClientDeny(c.name, "session full")
		}
		return 0, fmt.Errorf("session %d full", sessionID)
	}

	id := s.nextID
	s.nextID++
	s.clients[id] = c
	h := s.host
	r.mu.Unlock()

	if h != nil {
		h.events.OnClientConnect(id, c.name, sessionID)
	}
	return id, nil
}

func (r *Relay) leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[c.sessionID]
	if !ok {
		return
	}
	if s.clients[c.clientID] == c {
		delete(s.clients, c.clientID)
	}
}

func (r *Relay) clientCount(sessionID uint32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		return len(s.clients)
	}
	return 0
}

// forwardPing queues a ping on the session's host.
func (r *Relay) forwardPing(c *Client, sessionID uint32) error {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	var h *Host
	if ok {
		h = s.host
	}
	r.mu.Unlock()

	if h == nil {
		return fmt.Errorf("session %d has no host", sessionID)
	}
	h.enqueue(hostPacket{kind: hostPacketPing, from: c})
	return nil
}
