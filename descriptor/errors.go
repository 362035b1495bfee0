// Package descriptor implements the output-descriptor grammar of spec.md
// §4.F: the top-level `wsh(...)`, `wpkh(...)`, and P2SH-wrapped
// (`sh(wsh(...))`, `sh(wpkh(...))`, bare `sh(...)`) variants that embed a
// miniscript inside a scriptPubKey, plus their checksum-verified string
// form, script derivation, and satisfaction entry points.
package descriptor

import "github.com/pkt-cash/go-miniscript/btcutil/er"

// Err is the error type for this package.
var Err = er.NewErrorType("descriptor.Err")

var (
	// ErrUnexpected covers a malformed descriptor tree: wrong top-level
	// name, wrong argument count, or an unrecognized inner form.
	ErrUnexpected = Err.Code("ErrUnexpected")
	// ErrCompressedOnly is returned when wpkh is given an uncompressed key.
	ErrCompressedOnly = Err.Code("ErrCompressedOnly")
	// ErrMultisigKeys is returned when sortedmulti's threshold is out of
	// range for its key count.
	ErrMultisigKeys = Err.Code("ErrMultisigKeys")
	// ErrBadDescriptor is returned when a Descriptor has none of its
	// shapes (Wsh, Wpkh, Sh) set.
	ErrBadDescriptor = Err.Code("ErrBadDescriptor")
)
