package client

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// policyState holds the cluster-wide default write concern and read
// preference. The two cells are independently atomic: a getter never observes
// a torn value of its own field, but a reader racing a writer that updates
// both fields in sequence may observe one updated and the other stale. No
// consumer reads the pair transactionally, so the fields are not swapped as a
// unit.
//
// Every database handle reads through these cells rather than holding a
// snapshot, so policy changes are visible to handles issued earlier.
type policyState struct {
	writeConcern   atomic.Pointer[writeconcern.WriteConcern]
	readPreference atomic.Pointer[readpref.ReadPref]
}

func newPolicyState(wc *writeconcern.WriteConcern, rp *readpref.ReadPref) *policyState {
	if wc == nil {
		wc = writeconcern.Unacknowledged()
	}
	if rp == nil {
		rp = readpref.Primary()
	}
	state := &policyState{}
	state.writeConcern.Store(wc)
	state.readPreference.Store(rp)
	return state
}

func (p *policyState) setWriteConcern(wc *writeconcern.WriteConcern) {
	if wc == nil {
		return
	}
	p.writeConcern.Store(wc)
}

func (p *policyState) getWriteConcern() *writeconcern.WriteConcern {
	return p.writeConcern.Load()
}

func (p *policyState) setReadPreference(rp *readpref.ReadPref) {
	if rp == nil {
		return
	}
	p.readPreference.Store(rp)
}

func (p *policyState) getReadPreference() *readpref.ReadPref {
	return p.readPreference.Load()
}

// ParseWriteConcern maps a configuration string to a write concern. An empty
// string yields the default, unacknowledged. Numeric forms like "w2" request
// acknowledgement from that many members.
func ParseWriteConcern(s string) (*writeconcern.WriteConcern, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "", "unacknowledged", "w0":
		return writeconcern.Unacknowledged(), nil
	case "acknowledged", "w1":
		return writeconcern.W1(), nil
	case "journaled":
		return writeconcern.Journaled(), nil
	case "majority":
		return writeconcern.Majority(), nil
	}
	trimmed := strings.TrimPrefix(normalized, "w")
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 {
		return &writeconcern.WriteConcern{W: n}, nil
	}
	return nil, fmt.Errorf("unknown write concern %q", s)
}

// ParseReadPreference maps a configuration string to a read preference. An
// empty string yields the default, primary. Mode names follow the driver,
// for example "secondaryPreferred".
func ParseReadPreference(s string) (*readpref.ReadPref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return readpref.Primary(), nil
	}
	mode, err := readpref.ModeFromString(s)
	if err != nil {
		return nil, fmt.Errorf("unknown read preference %q", s)
	}
	pref, err := readpref.New(mode)
	if err != nil {
		return nil, fmt.Errorf("read preference %q: %w", s, err)
	}
	return pref, nil
}
