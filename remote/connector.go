package remote

import (
	"github.com/timzifer/mongocompat/config"
	"github.com/timzifer/mongocompat/document"
)

// Connector is the narrow seam between the client handle and the cluster. It
// executes administrative commands, reports the currently known member list
// and owns the network lifecycle.
//
// Implementations must be safe for concurrent use; a single connector is
// shared by every goroutine holding the owning client.
type Connector interface {
	Command(database string, cmd document.Doc, codec document.Codec) (CommandResult, error)
	ServerAddressList() []ServerAddress
	Close() error
}

// CommandResult carries the decoded response document of a command.
type CommandResult struct {
	response document.Doc
}

// NewCommandResult wraps a decoded response document. Exposed so alternative
// connector implementations and test doubles can produce results.
func NewCommandResult(response document.Doc) CommandResult {
	return CommandResult{response: response}
}

// Response returns the decoded response document.
func (r CommandResult) Response() document.Doc {
	return r.response
}

// Factory creates a connector from cluster settings.
//
// Factories allow alternative transports to be wired into the client without
// coupling it to a concrete implementation.
type Factory func(cfg config.ClusterConfig) (Connector, error)

// NewDriverFactory returns the production factory backed by the official
// driver. The URI path takes precedence when both forms are present.
func NewDriverFactory() Factory {
	return func(cfg config.ClusterConfig) (Connector, error) {
		opts := Options{
			ConnectTimeout: cfg.ConnectTimeout.Duration,
			CommandTimeout: cfg.CommandTimeout.Duration,
		}
		if cfg.URI != "" {
			return DialURI(cfg.URI, opts)
		}
		addrs := make([]ServerAddress, 0, len(cfg.Hosts))
		for _, host := range cfg.Hosts {
			addr, err := ParseServerAddress(host)
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, addr)
		}
		var creds []Credential
		if cfg.Auth.Enabled() {
			creds = []Credential{{
				Username: cfg.Auth.Username,
				Password: cfg.Auth.Password,
				Source:   cfg.Auth.Source,
			}}
		}
		if len(addrs) == 1 {
			return DialSingle(addrs[0], creds, opts)
		}
		return DialSeedList(addrs, creds, opts)
	}
}
