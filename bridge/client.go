package bridge

import (
	neonbridge "github.com/quietterminal/neon-bridge"
	"github.com/quietterminal/neon-bridge/callback"
	berrors "github.com/quietterminal/neon-bridge/errors"
	"github.com/quietterminal/neon-bridge/handle"
	"github.com/quietterminal/neon-bridge/marshal"
)

// NewClient constructs a managed client and returns its handle. The name
// must be non-empty and valid UTF-8.
func (b *Boundary) NewClient(name string) (h handle.Handle, err error) {
	defer func() { observe("create client", err) }()

	if name == "" {
		return handle.Zero, berrors.InvalidArgument("create client", "empty client name")
	}
	if cerr := marshal.CheckString("client name", name); cerr != nil {
		return handle.Zero, cerr
	}

	table := &callback.ClientTable{}
	var managed neonbridge.ManagedClient
	if cerr := b.construct("client", func() error {
		m, err := b.vm.Factory().NewClient(name, table)
		if err != nil {
			return err
		}
		managed = m
		return nil
	}); cerr != nil {
		return handle.Zero, cerr
	}

	entry := &clientEntry{managed: managed, callbacks: table}
	h, perr := b.vm.Clients().Put(entry)
	if perr != nil {
		entry.release(b.log)
		return handle.Zero, berrors.AllocationFailed("client handle", perr)
	}

	clientHandles.Inc()
	return h, nil
}

// ClientConnect joins a session through the relay at relayAddr. The
// address is validated before the managed runtime is touched.
func (b *Boundary) ClientConnect(h handle.Handle, sessionID uint32, relayAddr string) (err error) {
	defer func() { observe("connect", err) }()

	if cerr := marshal.CheckString("relay address", relayAddr); cerr != nil {
		return cerr
	}
	addr, aerr := marshal.ParseRelayAddr(relayAddr)
	if aerr != nil {
		return aerr
	}

	e, rerr := b.resolveClient("connect", h)
	if rerr != nil {
		return rerr
	}

	return b.invoke("connect", func() error {
		return e.managed.Connect(sessionID, addr.Host, addr.Port)
	})
}

// ClientProcessPackets drains pending packets for the client.
func (b *Boundary) ClientProcessPackets(h handle.Handle) (n int, err error) {
	defer func() { observe("processPackets", err) }()

	e, rerr := b.resolveClient("processPackets", h)
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

// ClientID returns the relay-assigned client id.
func (b *Boundary) ClientID(h handle.Handle) (id uint8, err error) {
	defer func() { observe("getClientId", err) }()

	e, rerr := b.resolveClient("getClientId", h)
	if rerr != nil {
		return 0, rerr
	}

	err = b.invoke("getClientId", func() error {
		id = e.managed.ClientID()
		return nil
	})
	return id, err
}

// ClientSessionID returns the joined session id.
func (b *Boundary) ClientSessionID(h handle.Handle) (id uint32, err error) {
	defer func() { observe("getSessionId", err) }()

	e, rerr := b.resolveClient("getSessionId", h)
	if rerr != nil {
		return 0, rerr
	}

	err = b.invoke("getSessionId", func() error {
		id = e.managed.SessionID()
		return nil
	})
	return id, err
}

// ClientIsConnected queries connection state from the managed side.
func (b *Boundary) ClientIsConnected(h handle.Handle) (connected bool, err error) {
	defer func() { observe("isConnected", err) }()

	e, rerr := b.resolveClient("isConnected", h)
	if rerr != nil {
		return false, rerr
	}

	err = b.invoke("isConnected", func() error {
		connected = e.managed.IsConnected()
		return nil
	})
	return connected, err
}

// ClientSendPing sends a ping to the host.
func (b *Boundary) ClientSendPing(h handle.Handle) (err error) {
	defer func() { observe("sendPing", err) }()

	e, rerr := b.resolveClient("sendPing", h)
	if rerr != nil {
		return rerr
	}

	return b.invoke("sendPing", func() error {
		return e.managed.SendPing()
	})
}

// ClientSetAutoPing enables or disables automatic pinging.
func (b *Boundary) ClientSetAutoPing(h handle.Handle, enabled bool) (err error) {
	defer func() { observe("setAutoPing", err) }()

	e, rerr := b.resolveClient("setAutoPing", h)
	if rerr != nil {
		return rerr
	}

	return b.invoke("setAutoPing", func() error {
		e.managed.SetAutoPing(enabled)
		return nil
	})
}

// Callback registration. Storing nil disables the notification.

func (b *Boundary) SetPongCallback(h handle.Handle, fn callback.PongFunc) error {
	e, err := b.resolveClient("setPongCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetPong(fn)
	return nil
}

func (b *Boundary) SetSessionConfigCallback(h handle.Handle, fn callback.SessionConfigFunc) error {
	e, err := b.resolveClient("setSessionConfigCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetSessionConfig(fn)
	return nil
}

func (b *Boundary) SetPacketTypeRegistryCallback(h handle.Handle, fn callback.PacketTypeRegistryFunc) error {
	e, err := b.resolveClient("setPacketTypeRegistryCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetPacketTypeRegistry(fn)
	return nil
}

func (b *Boundary) SetUnhandledPacketCallback(h handle.Handle, fn callback.UnhandledPacketFunc) error {
	e, err := b.resolveClient("setUnhandledPacketCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetUnhandledPacket(fn)
	return nil
}

func (b *Boundary) SetWrongDestinationCallback(h handle.Handle, fn callback.WrongDestinationFunc) error {
	e, err := b.resolveClient("setWrongDestinationCallback", h)
	if err != nil {
		return err
	}
	e.callbacks.SetWrongDestination(fn)
	return nil
}

// FreeClient releases the handle and its managed reference. The zero
// handle is a no-op, never a fault; so is a stale handle, since the arena
// detects the dead generation.
func (b *Boundary) FreeClient(h handle.Handle) {
	if h == handle.Zero {
		return
	}

	value, ok := b.vm.Clients().Remove(h)
	if !ok {
		return
	}

	value.(*clientEntry).release(b.log)
	clientHandles.Dec()
	observe("free client", nil)
}
