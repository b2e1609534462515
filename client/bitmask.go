package client

import "sync/atomic"

// Legacy wire-protocol query flags accepted by AddOption. Kept for API
// parity with the old driver surface.
const (
	OptionTailableCursor  int32 = 1 << 1
	OptionSecondaryOK     int32 = 1 << 2
	OptionOplogReplay     int32 = 1 << 3
	OptionNoCursorTimeout int32 = 1 << 4
	OptionAwaitData       int32 = 1 << 5
	OptionExhaust         int32 = 1 << 6
	OptionPartialResults  int32 = 1 << 7
)

// optionSet accumulates legacy protocol flags. Flags are only ever added;
// there is no way to clear the set.
type optionSet struct {
	bits atomic.Int32
}

func (s *optionSet) add(flag int32) {
	s.bits.Or(flag)
}

func (s *optionSet) value() int32 {
	return s.bits.Load()
}
