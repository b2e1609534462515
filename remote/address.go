package remote

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is used when an address omits the port.
const DefaultPort = 27017

// ServerAddress identifies a cluster member by host and port. Values are
// immutable; the member list exposed by a connector is recomputed per call.
type ServerAddress struct {
	host string
	port int
}

// NewServerAddress builds an address from an already split host and port.
func NewServerAddress(host string, port int) ServerAddress {
	return ServerAddress{host: host, port: port}
}

// ParseServerAddress splits "host" or "host:port" into an address, applying
// the default port when none is given.
func ParseServerAddress(s string) (ServerAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ServerAddress{}, fmt.Errorf("server address must not be empty")
	}
	host, portRaw, err := net.SplitHostPort(s)
	if err != nil {
		// No port part; the whole string is the host.
		return ServerAddress{host: s, port: DefaultPort}, nil
	}
	if host == "" {
		return ServerAddress{}, fmt.Errorf("server address %q has no host", s)
	}
	port, err := strconv.Atoi(portRaw)
	if err != nil || port <= 0 || port > 65535 {
		return ServerAddress{}, fmt.Errorf("server address %q has an invalid port", s)
	}
	return ServerAddress{host: host, port: port}, nil
}

// Host returns the host part of the address.
func (a ServerAddress) Host() string {
	return a.host
}

// Port returns the port part of the address.
func (a ServerAddress) Port() int {
	return a.port
}

// String renders the address as "host:port".
func (a ServerAddress) String() string {
	return net.JoinHostPort(a.host, strconv.Itoa(a.port))
}

// resolveAddresses verifies eagerly that every host name resolves, so a
// misspelled host fails construction instead of the first command.
func resolveAddresses(addrs []ServerAddress) error {
	for _, addr := range addrs {
		if _, err := net.ResolveTCPAddr("tcp", addr.String()); err != nil {
			return fmt.Errorf("resolve server address %s: %w", addr, err)
		}
	}
	return nil
}
