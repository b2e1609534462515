package client

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/mongocompat/document"
	"github.com/timzifer/mongocompat/remote"
)

type fakeCall struct {
	database string
	cmd      document.Doc
}

type fakeConnector struct {
	mu       sync.Mutex
	calls    []fakeCall
	response document.Doc
	err      error
	addrs    []remote.ServerAddress
	closed   int
}

func (f *fakeConnector) Command(database string, cmd document.Doc, codec document.Codec) (remote.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{database: database, cmd: cmd})
	if f.err != nil {
		return remote.CommandResult{}, f.err
	}
	return remote.NewCommandResult(f.response), nil
}

func (f *fakeConnector) ServerAddressList() []remote.ServerAddress {
	return f.addrs
}

func (f *fakeConnector) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeConnector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestClient(t *testing.T, conn *fakeConnector) *Client {
	t.Helper()
	c, err := NewWithConnector(conn)
	require.NoError(t, err)
	return c
}

func TestNewWithConnectorRequiresConnector(t *testing.T) {
	_, err := NewWithConnector(nil)
	require.Error(t, err)
}

func TestVersionIsConstant(t *testing.T) {
	require.NotEmpty(t, Version())
	require.Equal(t, Version(), Version())
}

func TestDatabaseNamesDecodesResponse(t *testing.T) {
	conn := &fakeConnector{
		response: document.Doc{
			{Key: "databases", Value: []interface{}{
				document.New("name", "admin").Append("sizeOnDisk", 1.0),
				document.New("name", "local"),
				document.New("name", "inventory"),
			}},
			{Key: "ok", Value: 1.0},
		},
	}
	c := newTestClient(t, conn)

	names, err := c.DatabaseNames()
	require.NoError(t, err)
	require.Equal(t, []string{"admin", "local", "inventory"}, names)

	require.Len(t, conn.calls, 1)
	require.Equal(t, "admin", conn.calls[0].database)
	require.Equal(t, "listDatabases", conn.calls[0].cmd[0].Key)
}

func TestDatabaseNamesWrapsConnectorFailure(t *testing.T) {
	conn := &fakeConnector{err: errors.New("boom")}
	c := newTestClient(t, conn)

	_, err := c.DatabaseNames()
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "admin", cmdErr.Database)
	require.Equal(t, "listDatabases", cmdErr.Command)
}

func TestDatabaseNamesRejectsMalformedResponse(t *testing.T) {
	conn := &fakeConnector{response: document.New("ok", 1.0)}
	c := newTestClient(t, conn)

	_, err := c.DatabaseNames()
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
}

func TestDropDatabaseRegistersName(t *testing.T) {
	conn := &fakeConnector{response: document.New("ok", 1.0)}
	c := newTestClient(t, conn)

	require.NoError(t, c.DropDatabase("never_seen"))

	used := c.UsedDatabases()
	require.Len(t, used, 1)
	require.Equal(t, "never_seen", used[0].Name())

	require.Len(t, conn.calls, 1)
	require.Equal(t, "never_seen", conn.calls[0].database)
	require.Equal(t, "dropDatabase", conn.calls[0].cmd[0].Key)
}

func TestServerAddressListPreservesOrder(t *testing.T) {
	addrs := []remote.ServerAddress{
		remote.NewServerAddress("db2", 27018),
		remote.NewServerAddress("db1", 27017),
	}
	c := newTestClient(t, &fakeConnector{addrs: addrs})

	got, err := c.ServerAddressList()
	require.NoError(t, err)
	require.Equal(t, addrs, got)
}

func TestRequestScopingIsNotImplemented(t *testing.T) {
	c := newTestClient(t, &fakeConnector{})
	require.ErrorIs(t, c.RequestStart(), ErrNotImplemented)
	require.ErrorIs(t, c.RequestDone(), ErrNotImplemented)
}

func TestCloseIsIdempotentAndTerminal(t *testing.T) {
	conn := &fakeConnector{response: document.New("ok", 1.0)}
	c := newTestClient(t, conn)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.Equal(t, 1, conn.closed)

	_, err := c.DatabaseNames()
	require.ErrorIs(t, err, ErrClientClosed)

	_, err = c.ServerAddressList()
	require.ErrorIs(t, err, ErrClientClosed)

	require.ErrorIs(t, c.DropDatabase("x"), ErrClientClosed)

	// No command must have reached the connector after close.
	require.Equal(t, 0, conn.callCount())
}

func TestRegistrySurvivesClose(t *testing.T) {
	c := newTestClient(t, &fakeConnector{})
	db := c.Database("kept")
	require.NoError(t, c.Close())

	// Handles and policy state stay readable; only connector-bound
	// operations are refused.
	require.Same(t, db, c.Database("kept"))
	require.Len(t, c.UsedDatabases(), 1)
	require.NotNil(t, c.WriteConcern())
}
