package miniscript

import "github.com/pkt-cash/go-miniscript/btcutil/er"

// Err is the error type for this package.
var Err = er.NewErrorType("miniscript.Err")

var (
	// ErrNonTopLevel is returned when a fragment whose Base is not B is
	// used where a script root is expected.
	ErrNonTopLevel = Err.Code("ErrNonTopLevel")
	// ErrTypeCheck is returned when a combinator's children do not have
	// the basic-correctness types its rule requires (e.g. and_v's second
	// child must be B, K or V, never W).
	ErrTypeCheck = Err.Code("ErrTypeCheck")
	// ErrNonStandardBareScript is returned when TopLevelCheck finds the
	// root type doesn't satisfy spec.md §3 invariant 1 (B, non-malleable,
	// finite satisfaction).
	ErrNonStandardBareScript = Err.Code("ErrNonStandardBareScript")
	// ErrImpossibleSatisfaction is returned when a fragment's Type has no
	// finite-size satisfaction (MaxSatSize < 0).
	ErrImpossibleSatisfaction = Err.Code("ErrImpossibleSatisfaction")
	// ErrMultiColonWrapper is returned by Wrap for a wrapper character
	// outside a/s/c/d/v/j/n/l/u/t. A wrapper applied to a child whose type
	// it cannot legally wrap returns ErrTypeCheck instead.
	ErrMultiColonWrapper = Err.Code("ErrMultiColonWrapper")
	// ErrBadThreshold is returned when a multi/multi_a/thresh `k` falls
	// outside 1 <= k <= n <= context_max (spec.md §3 invariant 2).
	ErrBadThreshold = Err.Code("ErrBadThreshold")
	// ErrBadLockValue is returned when an older()/after() argument is
	// not in [1, 2^31) (spec.md §3 invariant 3).
	ErrBadLockValue = Err.Code("ErrBadLockValue")
	// ErrMixedTimelockUnits is returned when an and_v/and_b/andor conjunction
	// directly combines a block-height after()/older() with a
	// time-based one (spec.md §8 property 9).
	ErrMixedTimelockUnits = Err.Code("ErrMixedTimelockUnits")
	// ErrUncompressedKeyNotPermitted is returned when a 65-byte key
	// appears inside a Segwitv0 or Tap context (spec.md §3 invariant 4).
	ErrUncompressedKeyNotPermitted = Err.Code("ErrUncompressedKeyNotPermitted")
	// ErrResourceLimit is returned when a fragment's script size, op
	// count, or stack usage exceeds its context's limit.
	ErrResourceLimit = Err.Code("ErrResourceLimit")
	// ErrParse is returned by Parse/Infer when a raw script cannot be
	// recognized as any miniscript fragment shape.
	ErrParse = Err.Code("ErrParse")
)
