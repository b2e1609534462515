// Package client provides a thread-safe handle to a MongoDB cluster in the
// style of the classic driver surface: construct once, share everywhere,
// obtain per-database sub-handles through the client.
//
// A Client is safe for concurrent use by any number of goroutines for its
// entire lifetime. Cluster-wide defaults (write concern, read preference) are
// shared live with every database handle ever issued, not copied into them.
package client

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/timzifer/mongocompat/config"
	"github.com/timzifer/mongocompat/document"
	"github.com/timzifer/mongocompat/remote"
	"github.com/timzifer/mongocompat/telemetry"
)

// adminDatabase is the fixed database administrative commands run against.
const adminDatabase = "admin"

const version = "0.4.0"

// Version returns the library version string.
func Version() string {
	return version
}

// Client is the entry point to a cluster. It owns exactly one connector
// (closed once, at Close), the cluster-wide policy defaults, the legacy
// option bitmask and the registry of database handles.
//
// The client is either open or closed. Close transitions it exactly once;
// afterwards every operation that needs the connector returns
// ErrClientClosed.
type Client struct {
	connector remote.Connector
	codec     document.Codec
	policy    *policyState
	options   optionSet
	registry  databaseRegistry
	logger    zerolog.Logger
	telemetry telemetry.Collector
	closed    atomic.Bool
}

// NewWithConnector builds a client around a pre-built connector. This is the
// composition path the dialing constructors funnel into and the natural seam
// for tests.
func NewWithConnector(conn remote.Connector, opts ...Option) (*Client, error) {
	cfg, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fmt.Errorf("connector must not be nil")
	}
	return newClient(conn, cfg), nil
}

// Connect builds a client for a single cluster member. Replica-set peers may
// still be discovered afterwards.
func Connect(addr remote.ServerAddress, opts ...Option) (*Client, error) {
	cfg, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	conn, err := remote.DialSingle(addr, nil, cfg.remoteOptions())
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return newClient(conn, cfg), nil
}

// ConnectSeedList builds a client from a seed list of cluster members.
func ConnectSeedList(addrs []remote.ServerAddress, opts ...Option) (*Client, error) {
	cfg, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	conn, err := remote.DialSeedList(addrs, nil, cfg.remoteOptions())
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return newClient(conn, cfg), nil
}

// ConnectURI builds a client from a connection URI. Credentials embedded in
// the URI are forwarded to the connector; none are forwarded when the URI
// carries none.
func ConnectURI(uri string, opts ...Option) (*Client, error) {
	cfg, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	conn, err := remote.DialURI(uri, cfg.remoteOptions())
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return newClient(conn, cfg), nil
}

// FromConfig builds a client from a loaded configuration file. Explicit
// options override values from the configuration.
func FromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	wc, err := ParseWriteConcern(cfg.Cluster.WriteConcern)
	if err != nil {
		return nil, err
	}
	rp, err := ParseReadPreference(cfg.Cluster.ReadPreference)
	if err != nil {
		return nil, err
	}
	s, err := newSettings(append([]Option{WithWriteConcern(wc), WithReadPreference(rp)}, opts...))
	if err != nil {
		return nil, err
	}
	conn, err := remote.NewDriverFactory()(cfg.Cluster)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return newClient(conn, s), nil
}

func newClient(conn remote.Connector, cfg *settings) *Client {
	c := &Client{
		connector: conn,
		codec:     cfg.codec,
		policy:    newPolicyState(cfg.writeConcern, cfg.readPreference),
		logger:    cfg.logger,
		telemetry: cfg.telemetry,
	}
	c.logger.Debug().Str("version", version).Msg("client created")
	return c
}

// SetWriteConcern replaces the cluster-wide default write concern. The new
// value is visible through every database handle, including ones issued
// before this call. A nil concern is ignored.
func (c *Client) SetWriteConcern(wc *writeconcern.WriteConcern) {
	c.policy.setWriteConcern(wc)
}

// WriteConcern returns the cluster-wide default write concern.
func (c *Client) WriteConcern() *writeconcern.WriteConcern {
	return c.policy.getWriteConcern()
}

// SetReadPreference replaces the cluster-wide default read preference. A nil
// preference is ignored.
func (c *Client) SetReadPreference(rp *readpref.ReadPref) {
	c.policy.setReadPreference(rp)
}

// ReadPreference returns the cluster-wide default read preference.
func (c *Client) ReadPreference() *readpref.ReadPref {
	return c.policy.getReadPreference()
}

// ServerAddressList returns the cluster members currently known to the
// connector, in the order the connector reports them. Members discovered
// after construction, such as replica-set peers, are included.
func (c *Client) ServerAddressList() ([]remote.ServerAddress, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.connector.ServerAddressList(), nil
}

// DatabaseNames lists the names of all databases on the connected cluster,
// in server order.
func (c *Client) DatabaseNames() ([]string, error) {
	res, err := c.runCommand(adminDatabase, document.New("listDatabases", 1))
	if err != nil {
		return nil, err
	}
	names, err := databaseNamesFromResponse(res.Response())
	if err != nil {
		return nil, &CommandError{Database: adminDatabase, Command: "listDatabases", Err: err}
	}
	return names, nil
}

func databaseNamesFromResponse(response document.Doc) ([]string, error) {
	value, ok := response.Lookup("databases")
	if !ok {
		return nil, fmt.Errorf("response has no databases field")
	}
	entries, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("databases field is not a list")
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		doc, ok := entry.(document.Doc)
		if !ok {
			return nil, fmt.Errorf("databases entry is not a document")
		}
		name, ok := doc.Lookup("name")
		if !ok {
			return nil, fmt.Errorf("databases entry has no name field")
		}
		text, ok := name.(string)
		if !ok {
			return nil, fmt.Errorf("database name is not a string")
		}
		names = append(names, text)
	}
	return names, nil
}

// Database returns the handle for the named database, creating and
// publishing it on first access. All concurrent first accesses agree on the
// same handle: a candidate is constructed optimistically and inserted only
// if no other caller published one first. Candidate construction performs no
// I/O, so losing candidates are discarded safely.
func (c *Client) Database(name string) *Database {
	if existing, ok := c.registry.load(name); ok {
		return existing
	}
	candidate := newDatabase(c, name)
	winner, published := c.registry.publish(name, candidate)
	if published {
		c.telemetry.IncDatabaseHandle(name)
		c.logger.Debug().Str("database", name).Msg("database handle published")
	} else {
		c.telemetry.IncDiscardedCandidate(name)
	}
	return winner
}

// UsedDatabases returns every database handle issued since the client was
// created. This may include databases that exist client-side only.
func (c *Client) UsedDatabases() []*Database {
	return c.registry.values()
}

// DropDatabase drops the named database if it exists. The name is routed
// through Database first, so dropping a never-before-seen database
// permanently registers its handle, exactly as a Database call would.
func (c *Client) DropDatabase(name string) error {
	return c.Database(name).Drop()
}

// AddOption ORs a legacy protocol flag into the accumulated option bitmask.
func (c *Client) AddOption(flag int32) {
	c.options.add(flag)
}

// Options returns the accumulated legacy option bitmask.
func (c *Client) Options() int32 {
	return c.options.value()
}

// RequestStart begins a legacy request-scoped session. The operation was
// never ported and always returns ErrNotImplemented.
func (c *Client) RequestStart() error {
	return ErrNotImplemented
}

// RequestDone ends a legacy request-scoped session. The operation was never
// ported and always returns ErrNotImplemented.
func (c *Client) RequestDone() error {
	return ErrNotImplemented
}

// Close releases the connector and transitions the client into its terminal
// state. Close is idempotent; only the first call reaches the connector.
// Registry and policy state stay readable after close.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.logger.Debug().Msg("closing client")
	return c.connector.Close()
}

// runCommand dispatches a command through the connector, wrapping failures
// into CommandError and feeding telemetry.
func (c *Client) runCommand(database string, cmd document.Doc) (remote.CommandResult, error) {
	name := commandName(cmd)
	if c.closed.Load() {
		return remote.CommandResult{}, ErrClientClosed
	}
	res, err := c.connector.Command(database, cmd, c.codec)
	if err != nil {
		c.telemetry.IncCommandFailure(database, name)
		c.logger.Debug().Err(err).Str("database", database).Str("command", name).Msg("command failed")
		return remote.CommandResult{}, &CommandError{Database: database, Command: name, Err: err}
	}
	c.telemetry.IncCommand(database, name)
	return res, nil
}

func commandName(cmd document.Doc) string {
	if len(cmd) == 0 {
		return ""
	}
	return cmd[0].Key
}
