package miniscript

import "github.com/pkt-cash/go-miniscript/key"

// Kind discriminates the fixed Miniscript grammar (spec.md §3): terminals
// that consume no children, combinators that consume a fixed or variable
// number, and single-child wrappers.
type Kind int

const (
	KindPkK Kind = iota
	KindPkH
	KindOlder
	KindAfter
	KindSha256
	KindHash256
	KindRipemd160
	KindHash160
	KindAndor
	KindAndV
	KindAndB
	KindOrB
	KindOrC
	KindOrD
	KindOrI
	KindThresh
	KindMulti
	KindMultiA
	KindTrue  // `1`, the always-true terminal used inside thresh/andor branches
	KindFalse // `0`, the always-false terminal

	// Wrappers (spec.md §3): single-child nodes that adjust Type without
	// introducing new payload. WrapChar holds which of a/s/c/d/v/j/n/l/u
	// this node is; the t: wrapper builds an and_v(X,1) node instead.
	KindWrap
)

func (k Kind) String() string {
	switch k {
	case KindPkK:
		return "pk_k"
	case KindPkH:
		return "pk_h"
	case KindOlder:
		return "older"
	case KindAfter:
		return "after"
	case KindSha256:
		return "sha256"
	case KindHash256:
		return "hash256"
	case KindRipemd160:
		return "ripemd160"
	case KindHash160:
		return "hash160"
	case KindAndor:
		return "andor"
	case KindAndV:
		return "and_v"
	case KindAndB:
		return "and_b"
	case KindOrB:
		return "or_b"
	case KindOrC:
		return "or_c"
	case KindOrD:
		return "or_d"
	case KindOrI:
		return "or_i"
	case KindThresh:
		return "thresh"
	case KindMulti:
		return "multi"
	case KindMultiA:
		return "multi_a"
	case KindTrue:
		return "1"
	case KindFalse:
		return "0"
	case KindWrap:
		return "wrap"
	default:
		return "unknown"
	}
}

// Fragment is one immutable, typed node of a miniscript tree. It is never
// constructed directly outside this package: every exported constructor
// (And, Or, Thresh, ...) computes Type from its children and returns an
// error rather than an ill-typed node (spec.md §8 property 10).
type Fragment struct {
	Kind Kind
	Typ  Type

	// Terminal payload.
	Key       key.Key  // pk_k, pk_h
	KeyHash   key.Hash // pk_h against a FullKey (Tap has no pk_h)
	Hash      []byte   // sha256/hash256/ripemd160/hash160 (32 or 20 bytes)
	LockValue uint32   // older/after

	// multi/multi_a payload.
	Thresh int
	Keys   []key.Key

	// Combinator children, in the fixed order the grammar specifies
	// (andor: X,Y,Z; and_v/and_b/or_*: X,Y; thresh: children[0..n]).
	Children []*Fragment

	// Wrapper payload.
	WrapChar byte
}

// IsTerminal reports whether this fragment has no children (pk_k, pk_h,
// older, after, the hash locks, multi/multi_a, and the 1/0 constants).
func (f *Fragment) IsTerminal() bool {
	return len(f.Children) == 0 && f.Kind != KindWrap
}
