package client

import (
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/timzifer/mongocompat/document"
)

// Database is a handle to one named database. Handles are created only by
// the owning client's registry and share the client's lifetime; they hold no
// resources of their own.
//
// Construction performs no network I/O. The registry relies on that: losing
// candidates of a concurrent first access are discarded unobserved.
type Database struct {
	name   string
	client *Client
}

func newDatabase(c *Client, name string) *Database {
	return &Database{name: name, client: c}
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.name
}

// Client returns the owning client handle.
func (d *Database) Client() *Client {
	return d.client
}

// WriteConcern returns the write concern in effect for this database. The
// value is read live from the owning client, so a concern set after this
// handle was obtained is still honoured.
func (d *Database) WriteConcern() *writeconcern.WriteConcern {
	return d.client.WriteConcern()
}

// ReadPreference returns the read preference in effect for this database,
// read live from the owning client.
func (d *Database) ReadPreference() *readpref.ReadPref {
	return d.client.ReadPreference()
}

// Drop removes the database from the server if it exists.
func (d *Database) Drop() error {
	_, err := d.client.runCommand(d.name, document.New("dropDatabase", 1))
	return err
}
