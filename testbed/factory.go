package testbed

import (
	"fmt"

	neonbridge "github.com/quietterminal/neon-bridge"
)

// Factory produces testbed clients and hosts bound to one relay.
type Factory struct {
	relay *Relay
}

var _ neonbridge.Factory = (*Factory)(nil)

// NewFactory creates a factory over the relay.
func NewFactory(r *Relay) *Factory {
	return &Factory{relay: r}
}

// NewClient constructs a managed client. Auto-ping starts enabled, as in
// the real protocol stack.
func (f *Factory) NewClient(name string, events neonbridge.ClientEvents) (neonbridge.ManagedClient, error) {
	if name == "" {
		return nil, fmt.Errorf("empty client name")
	}

	f.relay.liveClients.Add(1)
	return &Client{
		relay:    f.relay,
		name:     name,
		events:   events,
		autoPing: true,
	}, nil
}

// NewHost constructs a managed host and claims its session on the relay.
func (f *Factory) NewHost(sessionID uint32, host string, port int, events neonbridge.HostEvents) (neonbridge.ManagedHost, error) {
	if !f.relay.reachable(host, port) {
		return nil, fmt.Errorf("no relay at %s:%d", host, port)
	}

	h := &Host{
		relay:     f.relay,
		sessionID: sessionID,
		events:    events,
		done:      make(chan struct{}),
	}
	if err := f.relay.registerSession(h); err != nil {
		return nil, err
	}

	f.relay.liveHosts.Add(1)
	return h, nil
}
