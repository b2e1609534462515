package client

import "sync"

// databaseRegistry maps database names to their published handles. For any
// name at most one handle is ever observable, for the lifetime of the owning
// client, even when many goroutines race the first access. Entries are never
// removed; the mapping only grows.
//
// Lookups go through sync.Map so reads never block on concurrent inserts.
type databaseRegistry struct {
	handles sync.Map // database name -> *Database
}

func (r *databaseRegistry) load(name string) (*Database, bool) {
	existing, ok := r.handles.Load(name)
	if !ok {
		return nil, false
	}
	return existing.(*Database), true
}

// publish attempts an insert-if-absent of the candidate. It returns the
// winning handle and whether the candidate was the one published; a loser is
// expected to discard its candidate, which is safe because constructing a
// handle has no side effects.
func (r *databaseRegistry) publish(name string, candidate *Database) (*Database, bool) {
	actual, loaded := r.handles.LoadOrStore(name, candidate)
	return actual.(*Database), !loaded
}

// values returns a snapshot of all published handles. Under concurrent
// inserts the snapshot is not tied to any single point in time.
func (r *databaseRegistry) values() []*Database {
	var out []*Database
	r.handles.Range(func(_, value interface{}) bool {
		out = append(out, value.(*Database))
		return true
	})
	return out
}
