package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/timzifer/mongocompat/document"
)

// driverConnector implements Connector on top of the official driver. The
// driver owns topology monitoring and socket lifecycle; this layer bridges
// commands through the document codec and mirrors the live member list from
// topology events.
type driverConnector struct {
	client         *mongo.Client
	commandTimeout time.Duration
	logger         zerolog.Logger

	mu      sync.RWMutex
	members []ServerAddress
}

func newDriverConnector(addrs []ServerAddress, creds []Credential, opts Options) (*driverConnector, error) {
	conn := &driverConnector{
		commandTimeout: opts.CommandTimeout,
		logger:         opts.Logger,
		members:        append([]ServerAddress(nil), addrs...),
	}

	hosts := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		hosts = append(hosts, addr.String())
	}

	clientOpts := options.Client().
		SetHosts(hosts).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerMonitor(conn.serverMonitor())
	if creds != nil {
		cred := creds[0]
		clientOpts.SetAuth(options.Credential{
			Username:   cred.Username,
			Password:   cred.Password,
			AuthSource: cred.Source,
		})
	}
	if err := clientOpts.Validate(); err != nil {
		return nil, fmt.Errorf("validate client options: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect %v: %w", hosts, err)
	}
	conn.client = client
	return conn, nil
}

// serverMonitor feeds topology changes into the member list. The driver
// reports the complete member set on every change, including peers discovered
// after construction, so the list is replaced wholesale in reported order.
func (c *driverConnector) serverMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		TopologyDescriptionChanged: func(e *event.TopologyDescriptionChangedEvent) {
			members := make([]ServerAddress, 0, len(e.NewDescription.Servers))
			for _, server := range e.NewDescription.Servers {
				addr, err := ParseServerAddress(string(server.Addr))
				if err != nil {
					c.logger.Warn().Err(err).Msg("skipping unparsable member address")
					continue
				}
				members = append(members, addr)
			}
			c.mu.Lock()
			c.members = members
			c.mu.Unlock()
		},
	}
}

func (c *driverConnector) Command(database string, cmd document.Doc, codec document.Codec) (CommandResult, error) {
	data, err := codec.Marshal(cmd)
	if err != nil {
		return CommandResult{}, fmt.Errorf("encode command: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.commandTimeout)
	defer cancel()

	raw, err := c.client.Database(database).RunCommand(ctx, bson.Raw(data)).Raw()
	if err != nil {
		return CommandResult{}, fmt.Errorf("run command on %q: %w", database, err)
	}
	response, err := codec.Unmarshal(raw)
	if err != nil {
		return CommandResult{}, fmt.Errorf("decode command response: %w", err)
	}
	return CommandResult{response: response}, nil
}

func (c *driverConnector) ServerAddressList() []ServerAddress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ServerAddress(nil), c.members...)
}

func (c *driverConnector) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.commandTimeout)
	defer cancel()
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}
