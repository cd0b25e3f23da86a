package marshal

import (
	"fmt"
	"strings"

	berrors "github.com/quietterminal/neon-bridge/errors"
)

// MaxHostLen caps the host field of a relay address in bytes.
const MaxHostLen = 255

// RelayAddr is a parsed "host:port" relay address. It is derived on
// demand and never stored by the boundary.
type RelayAddr struct {
	Host string
	Port int
}

// String formats the address back into the wire token.
func (a RelayAddr) String() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// ParseRelayAddr parses a "host:port" token. The host runs to the first
// ':' and must be 1..MaxHostLen bytes; the port is a decimal integer in
// 0..65535 with nothing trailing. No IPv6 bracket syntax, no default port.
func ParseRelayAddr(s string) (RelayAddr, error) {
	host, portStr, found := strings.Cut(s, ":")
	if !found {
		return RelayAddr{}, berrors.BadAddress("missing ':' separator")
	}
	if host == "" {
		return RelayAddr{}, berrors.BadAddress("empty host")
	}
	if len(host) > MaxHostLen {
		return RelayAddr{}, berrors.BadAddress(fmt.Sprintf("host exceeds %d bytes", MaxHostLen))
	}
	if portStr == "" {
		return RelayAddr{}, berrors.BadAddress("missing port")
	}

	port := 0
	for i := 0; i < len(portStr); i++ {
		c := portStr[i]
		if c < '0' || c > '9' {
			return RelayAddr{}, berrors.BadAddress("port is not a decimal integer")
		}
		port = port*10 + int(c-'0')
		if port > 65535 {
			return RelayAddr{}, berrors.BadAddress("port out of range")
		}
	}

	return RelayAddr{Host: host, Port: port}, nil
}
