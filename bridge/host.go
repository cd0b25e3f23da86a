package bridge

import (
	neonbridge "github.com/quietterminal/neon-bridge"
	"github.com/quietterminal/neon-bridge/callback"
	berrors "github.com/quietterminal/neon-bridge/errors"
	"github.com/quietterminal/neon-bridge/handle"
	"github.com/quietterminal/neon-bridge/marshal"
)

// NewHost constructs a managed host for the given session behind the relay
// at relayAddr. The address is parsed before the managed runtime is
// touched, so malformed input fails fast.
func (b *Boundary) NewHost(sessionID uint32, relayAddr string) (h handle.Handle, err error) {
	defer func() { observe("create host", err) }()

	if cerr := marshal.CheckString("relay address", relayAddr); cerr != nil {
		return handle.Zero, cerr
	}
	addr, aerr := marshal.ParseRelayAddr(relayAddr)
	if aerr != nil {
		return handle.Zero, aerr
	}

	table := &callback.HostTable{}
	var managed neonbridge.ManagedHost
	if cerr := b.construct("host", func() error {
		m, err := b.vm.Factory().NewHost(sessionID, addr.Host, addr.Port, table)
		if err != nil {
			return err
		}
		managed = m
		return nil
	}); cerr != nil {
		return handle.Zero, cerr
	}

	entry := &hostEntry{managed: managed, callbacks: table}
	h, perr := b.vm.Hosts().Put(entry)
	if perr != nil {
		entry.release(b.log)
		return handle.Zero, berrors.AllocationFailed("host handle", perr)
	}

	hostHandles.Inc()
	return h, nil
}

// HostStart runs the host. The managed start blocks until the host shuts
// down; callers are expected to invoke it on a dedicated goroutine.
func (b *Boundary) HostStart(h handle.Handle) (err error) {
	defer func() { observe("start", err) }()

	e, rerr := b.resolveHost("start", h)
	if rerr != nil {
		return rerr
	}

	return b.invoke("start", func() error {
		return e.managed.Start()
	})
}

// HostProcessPackets drains pending packets, the manual alternative to
// HostStart.
func (b *Boundary) HostProcessPackets(h handle.Handle) (n int, err error) {
	defer func() { observe("processPackets", err) }()

	e, rerr := b.resolveHost("processPackets", h)
	if rerr != nil {
		return 0, rerr
	}

	err = b.invoke("processPackets", func() error {
		var callErr error
		n, callErr = e.managed.ProcessPackets()
		return callErr
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// HostSessionID returns the host's session id.
func (b *Boundary) HostSessionID(h handle.Handle) (id uint32, err error) {
	defer func() { observe("getSessionId", err) }()

	e, rerr := b.resolveHost("getSessionId", h)
	if rerr != nil {
		return 0, rerr
	}

	err = b.invoke("getSessionId", func() error {
		id = e.managed.SessionID()
		return nil
	})
	return id, err
}

// HostClientCount returns the number of connected clients.
func (b *Boundary) HostClientCount(h handle.Handle) (n int, err error) {
	defer func() { observe("getClientCount", err) }()

	e, rerr := b.resolveHost("getClientCount", h)
	if rerr != nil {
		return 0, rerr
	}

	err = b.invoke("getClientCount", func() error {
		n = e.managed.ClientCount()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (b *Boundary) SetClientConnectCallback(h handle.Handle, fn callback.ClientConnectFunc) error {
	e, err := b.resolveHost("setClientConnectCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetClientConnect(fn)
	return nil
}

func (b *Boundary) SetClientDenyCallback(h handle.Handle, fn callback.ClientDenyFunc) error {
	e, err := b.resolveHost("setClientDenyCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetClientDeny(fn)
	return nil
}

func (b *Boundary) SetPingReceivedCallback(h handle.Handle, fn callback.PingReceivedFunc) error {
	e, err := b.resolveHost("setPingReceivedCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetPingReceived(fn)
	return nil
}

func (b *Boundary) SetHostUnhandledPacketCallback(h handle.Handle, fn callback.UnhandledPacketFunc) error {
	e, err := b.resolveHost("setUnhandledPacketCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetUnhandledPacket(fn)
	return nil
}

// FreeHost releases the handle and its managed reference. No-op on the
// zero handle and on stale handles.
func (b *Boundary) FreeHost(h handle.Handle) {
	if h == handle.Zero {
		return
	}

	value, ok := b.vm.Hosts().Remove(h)
	if !ok {
		return
	}

	value.(*hostEntry).release(b.log)
	hostHandles.Dec()
	observe("free host", nil)
}
