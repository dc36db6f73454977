package signal

import "errors"

var (
	// ErrLengthMismatch returned when entries and exits differ in length or
	// do not cover the price series they are aligned with
	ErrLengthMismatch = errors.New("signal length does not match")
	// ErrSignalConflict returned when an entry and exit are raised at the
	// same offset. The engine never guesses a priority rule as doing so
	// silently would hide strategy bugs
	ErrSignalConflict = errors.New("entry and exit signalled at the same offset")
	// ErrNoSignals returned when a set holds no flags at all
	ErrNoSignals = errors.New("no signals supplied")
)

// Set holds entry and exit flags aligned index-for-index with a price
// series. A true entry at offset i asks the simulator to open a position at
// bar i, a true exit asks it to close one
type Set struct {
	entries []bool
	exits   []bool
}
