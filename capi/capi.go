package capi

import (
	stderrors "errors"

	"github.com/quietterminal/neon-bridge/bridge"
	"github.com/quietterminal/neon-bridge/callback"
	berrors "github.com/quietterminal/neon-bridge/errors"
	"github.com/quietterminal/neon-bridge/handle"
	"github.com/quietterminal/neon-bridge/vm"
)

// boundary attaches the caller and returns the forwarding surface. On
// failure the caller's error channel already holds the diagnostic.
func boundary() (*vm.Env, *bridge.Boundary, bool) {
	env := vm.EnvForCaller()

	v, err := vm.Current()
	if err != nil {
		env.SetError("Runtime not initialized")
		return env, nil, false
	}
	if _, err := v.AttachCurrent(); err != nil {
		env.SetError("Failed to attach caller to runtime")
		return env, nil, false
	}
	return env, bridge.New(v), true
}

func clientMessage(err error) string {
	var be *berrors.Error
	if stderrors.As(err, &be) {
		switch be.Kind {
		case berrors.KindInvalidHandle:
			return "Invalid client handle"
		case berrors.KindInvalidArgument:
			return "Client name cannot be empty"
		case berrors.KindBadAddress:
			return "Invalid relay address format (expected host:port)"
		case berrors.KindInvalidUTF8:
			return "Failed to convert string for managed runtime"
		case berrors.KindConstructionFailed:
			return "Failed to create client instance"
		case berrors.KindAllocationFailed:
			return "Failed to allocate client handle"
		case berrors.KindManagedCallFailed:
			return "Exception during " + be.Op
		}
	}
	return err.Error()
}

func hostMessage(err error) string {
	var be *berrors.Error
	if stderrors.As(err, &be) {
		switch be.Kind {
		case berrors.KindInvalidHandle:
			return "Invalid host handle"
		case berrors.KindBadAddress:
			return "Invalid relay address format (expected host:port)"
		case berrors.KindInvalidUTF8:
			return "Failed to convert string for managed runtime"
		case berrors.KindConstructionFailed:
			return "Failed to create host instance"
		case berrors.KindAllocationFailed:
			return "Failed to allocate host handle"
		case berrors.KindManagedCallFailed:
			return "Exception during " + be.Op
		}
	}
	return err.Error()
}

/* ========== Client Functions ========== */

// ClientNew creates a managed client and returns its handle, 0 on error.
func ClientNew(name string) uint64 {
	env, b, ok := boundary()
	if !ok {
		return 0
	}

	h, err := b.NewClient(name)
	if err != nil {
		env.SetError(clientMessage(err))
		return 0
	}
	return uint64(h)
}

// ClientConnect joins a session through the relay at relayAddr
// ("host:port").
func ClientConnect(h uint64, sessionID uint32, relayAddr string) bool {
	env, b, ok := boundary()
	if !ok {
		return false
	}

	if err := b.ClientConnect(handle.Handle(h), sessionID, relayAddr); err != nil {
		env.SetError(clientMessage(err))
		return false
	}
	return true
}

// ClientProcessPackets returns the number of packets handled, -1 on error.
func ClientProcessPackets(h uint64) int {
	env, b, ok := boundary()
	if !ok {
		return -1
	}

	n, err := b.ClientProcessPackets(handle.Handle(h))
	if err != nil {
		env.SetError(clientMessage(err))
		return -1
	}
	return n
}

// ClientGetID returns the assigned client id, -1 on a bad handle.
func ClientGetID(h uint64) int {
	env, b, ok := boundary()
	if !ok {
		return -1
	}

	id, err := b.ClientID(handle.Handle(h))
	if err != nil {
		env.SetError(clientMessage(err))
		return -1
	}
	return int(id)
}

// ClientGetSessionID returns the joined session id, -1 on a bad handle.
func ClientGetSessionID(h uint64) int {
	env, b, ok := boundary()
	if !ok {
		return -1
	}

	id, err := b.ClientSessionID(handle.Handle(h))
	if err != nil {
		env.SetError(clientMessage(err))
		return -1
	}
	return int(id)
}

// ClientIsConnected reports connection state. False on any failure,
// silently; plain boolean queries do not touch the error channel.
func ClientIsConnected(h uint64) bool {
	_, b, ok := boundary()
	if !ok {
		return false
	}

	connected, err := b.ClientIsConnected(handle.Handle(h))
	if err != nil {
		return false
	}
	return connected
}

// ClientSendPing sends a ping to the host.
func ClientSendPing(h uint64) bool {
	env, b, ok := boundary()
	if !ok {
		return false
	}

	if err := b.ClientSendPing(handle.Handle(h)); err != nil {
		env.SetError(clientMessage(err))
		return false
	}
	return true
}

// ClientSetAutoPing toggles automatic pinging. Silent no-op on a bad
// handle.
func ClientSetAutoPing(h uint64, enabled bool) {
	_, b, ok := boundary()
	if !ok {
		return
	}
	_ = b.ClientSetAutoPing(handle.Handle(h), enabled)
}

// Callback setters store the function for later invocation by the managed
// side; nil disables the notification. Silent no-ops on a bad handle.

func ClientSetPongCallback(h uint64, fn callback.PongFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetPongCallback(handle.Handle(h), fn)
	}
}

func ClientSetSessionConfigCallback(h uint64, fn callback.SessionConfigFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetSessionConfigCallback(handle.Handle(h), fn)
	}
}

func ClientSetPacketTypeRegistryCallback(h uint64, fn callback.PacketTypeRegistryFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetPacketTypeRegistryCallback(handle.Handle(h), fn)
	}
}

func ClientSetUnhandledPacketCallback(h uint64, fn callback.UnhandledPacketFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetUnhandledPacketCallback(handle.Handle(h), fn)
	}
}

func ClientSetWrongDestinationCallback(h uint64, fn callback.WrongDestinationFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetWrongDestinationCallback(handle.Handle(h), fn)
	}
}

// ClientFree releases the client and its managed reference. No-op on the
// zero handle.
func ClientFree(h uint64) {
	if _, b, ok := boundary(); ok {
		b.FreeClient(handle.Handle(h))
	}
}

/* ========== Host Functions ========== */

// HostNew creates a managed host and returns its handle, 0 on error.
func HostNew(sessionID uint32, relayAddr string) uint64 {
	env, b, ok := boundary()
	if !ok {
		return 0
	}

	h, err := b.NewHost(sessionID, relayAddr)
	if err != nil {
		env.SetError(hostMessage(err))
		return 0
	}
	return uint64(h)
}

// HostStart runs the host. It blocks until the host shuts down; run it on
// a dedicated goroutine.
func HostStart(h uint64) bool {
	env, b, ok := boundary()
	if !ok {
		return false
	}

	if err := b.HostStart(handle.Handle(h)); err != nil {
		env.SetError(hostMessage(err))
		return false
	}
	return true
}

// HostProcessPackets returns the number of packets handled, -1 on error.
func HostProcessPackets(h uint64) int {
	env, b, ok := boundary()
	if !ok {
		return -1
	}

	n, err := b.HostProcessPackets(handle.Handle(h))
	if err != nil {
		env.SetError(hostMessage(err))
		return -1
	}
	return n
}

// HostGetSessionID returns the host's session id, -1 on a bad handle.
func HostGetSessionID(h uint64) int {
	env, b, ok := boundary()
	if !ok {
		return -1
	}

	id, err := b.HostSessionID(handle.Handle(h))
	if err != nil {
		env.SetError(hostMessage(err))
		return -1
	}
	return int(id)
}

// HostGetClientCount returns the number of connected clients, 0 on a bad
// handle.
func HostGetClientCount(h uint64) int {
	env, b, ok := boundary()
	if !ok {
		return 0
	}

	n, err := b.HostClientCount(handle.Handle(h))
	if err != nil {
		env.SetError(hostMessage(err))
		return 0
	}
	return n
}

func HostSetClientConnectCallback(h uint64, fn callback.ClientConnectFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetClientConnectCallback(handle.Handle(h), fn)
	}
}

func HostSetClientDenyCallback(h uint64, fn callback.ClientDenyFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetClientDenyCallback(handle.Handle(h), fn)
	}
}

func HostSetPingReceivedCallback(h uint64, fn callback.PingReceivedFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetPingReceivedCallback(handle.Handle(h), fn)
	}
}

func HostSetUnhandledPacketCallback(h uint64, fn callback.UnhandledPacketFunc) {
	if _, b, ok := boundary(); ok {
		_ = b.SetHostUnhandledPacketCallback(handle.Handle(h), fn)
	}
}

// HostFree releases the host and its managed reference. No-op on the zero
// handle.
func HostFree(h uint64) {
	if _, b, ok := boundary(); ok {
		b.FreeHost(handle.Handle(h))
	}
}

/* ========== Error Handling ========== */

// GetLastError returns the calling goroutine's last recorded error, or ""
// if none has ever been recorded for this caller. The message is
// overwritten by each failing operation and is not cleared on success.
func GetLastError() string {
	msg, ok := vm.EnvForCaller().LastError()
	if !ok {
		return ""
	}
	return msg
}
