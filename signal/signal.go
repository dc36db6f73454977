package signal

import (
	"fmt"
)

// NewSet validates and returns a signal set. Entries and exits must be the
// same length and must never both be true at the same offset
func NewSet(entries, exits []bool) (*Set, error) {
	if len(entries) == 0 && len(exits) == 0 {
		return nil, ErrNoSignals
	}
	if len(entries) != len(exits) {
		return nil, fmt.Errorf("%w: %v entries, %v exits", ErrLengthMismatch, len(entries), len(exits))
	}
	for i := range entries {
		if entries[i] && exits[i] {
			return nil, fmt.Errorf("%w %v", ErrSignalConflict, i)
		}
	}
	e := make([]bool, len(entries))
	copy(e, entries)
	x := make([]bool, len(exits))
	copy(x, exits)
	return &Set{entries: e, exits: x}, nil
}

// Len returns the number of offsets covered
func (s *Set) Len() int {
	return len(s.entries)
}

// Entry reports whether an entry is signalled at offset i
func (s *Set) Entry(i int) bool {
	return s.entries[i]
}

// Exit reports whether an exit is signalled at offset i
func (s *Set) Exit(i int) bool {
	return s.exits[i]
}

// ValidateAgainst ensures the set covers a series of the given length
func (s *Set) ValidateAgainst(seriesLen int) error {
	if len(s.entries) != seriesLen {
		return fmt.Errorf("%w price series: %v signals, %v candles", ErrLengthMismatch, len(s.entries), seriesLen)
	}
	return nil
}

// Slice returns a new set covering offsets [from, to)
func (s *Set) Slice(from, to int) (*Set, error) {
	if from < 0 || to > len(s.entries) || from >= to {
		return nil, fmt.Errorf("%w: slice [%v, %v) of %v", ErrLengthMismatch, from, to, len(s.entries))
	}
	return NewSet(s.entries[from:to], s.exits[from:to])
}

// CountEntries returns the number of raised entry flags
func (s *Set) CountEntries() int {
	var count int
	for i := range s.entries {
		if s.entries[i] {
			count++
		}
	}
	return count
}
