package remote

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultCommandTimeout = 30 * time.Second
)

// Credential identifies a user against an authentication source.
type Credential struct {
	Username string
	Password string
	Source   string
}

// Options tune connector construction. The zero value applies defaults.
type Options struct {
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
	Logger         zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = defaultConnectTimeout
	}
	if o.CommandTimeout <= 0 {
		o.CommandTimeout = defaultCommandTimeout
	}
	return o
}

// DialSingle connects to a single cluster member. Additional members may
// still be discovered afterwards, for example replica-set peers.
func DialSingle(addr ServerAddress, creds []Credential, opts Options) (Connector, error) {
	return dial([]ServerAddress{addr}, creds, opts)
}

// DialSeedList connects using a seed list of cluster members.
func DialSeedList(addrs []ServerAddress, creds []Credential, opts Options) (Connector, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("seed list must not be empty")
	}
	return dial(addrs, creds, opts)
}

// DialURI connects using a connection URI. A URI naming exactly one host
// behaves like DialSingle, otherwise like DialSeedList. Credentials embedded
// in the URI are forwarded; a URI without credentials forwards none at all,
// which downstream treats as "no authentication configured".
func DialURI(uri string, opts Options) (Connector, error) {
	parsed := options.Client().ApplyURI(uri)
	if err := parsed.Validate(); err != nil {
		return nil, fmt.Errorf("parse connection uri: %w", err)
	}
	if len(parsed.Hosts) == 0 {
		return nil, fmt.Errorf("connection uri names no hosts")
	}

	addrs := make([]ServerAddress, 0, len(parsed.Hosts))
	for _, host := range parsed.Hosts {
		addr, err := ParseServerAddress(host)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}

	// A URI without credentials forwards a nil list, not an empty one. The
	// distinction is deliberate and must survive refactors.
	var creds []Credential
	if parsed.Auth != nil {
		creds = []Credential{{
			Username: parsed.Auth.Username,
			Password: parsed.Auth.Password,
			Source:   parsed.Auth.AuthSource,
		}}
	}

	if len(addrs) == 1 {
		return DialSingle(addrs[0], creds, opts)
	}
	return DialSeedList(addrs, creds, opts)
}

func dial(addrs []ServerAddress, creds []Credential, opts Options) (Connector, error) {
	if creds != nil && len(creds) == 0 {
		return nil, fmt.Errorf("credential list must be nil or non-empty")
	}
	if len(creds) > 1 {
		return nil, fmt.Errorf("at most one credential is supported, got %d", len(creds))
	}
	if err := resolveAddresses(addrs); err != nil {
		return nil, err
	}
	return newDriverConnector(addrs, creds, opts.withDefaults())
}
