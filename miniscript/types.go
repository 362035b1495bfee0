// Package miniscript implements the fragment model and type/correctness
// calculus of spec.md §4.C/§4.D: a tagged tree of terminals and
// combinators, each carrying a Type computed bottom-up at construction
// time from its children, following the Miniscript paper's type system.
package miniscript

// Base is the basic correctness type of a fragment: whether it leaves a
// boolean on top of the stack as the final element of a satisfaction (B),
// a boolean consumed by a following VERIFY-shaped wrapper (V), a public
// key (K), or an extra stack item expected by and_b/or_b's second operand
// (W).
type Base byte

const (
	BaseB Base = 'B'
	BaseV Base = 'V'
	BaseK Base = 'K'
	BaseW Base = 'W'
)

func (b Base) String() string { return string(b) }

// Type is the four-field type spec.md §3 describes: basic correctness,
// malleability flags, dissatisfaction flags, and resource/extension
// bounds, computed once at construction and never mutated afterward.
type Type struct {
	Base Base

	// Malleability flags.
	S bool // safe: satisfaction requires a signature
	F bool // forced: the fragment has no valid dissatisfaction
	E bool // expressive: has a dissatisfaction not requiring a signature
	M bool // non-malleable: no valid satisfaction can be mutated into another valid one

	// Dissatisfaction flags.
	D bool // dissatisfiable: a (possibly malleable) dissatisfying witness exists
	U bool // unit: satisfaction leaves exactly one canonical "true" element
	Z bool // zero-arg: satisfaction consumes zero witness stack items
	O bool // one-arg: satisfaction consumes exactly one witness stack item
	N bool // nonzero: the top stack item, if dissatisfied, is provably nonzero

	// Extension / resource bounds (spec.md §4.D).
	ScriptSize               int
	MaxSatWitnessElements    int
	MaxSatSize               int
	HasMaxDissat             bool
	MaxDissatWitnessElements int
	MaxDissatSize            int
	OpsCount                 int
}

// IsTopLevelValid reports the invariant of spec.md §3 item 1: a script is
// legal only if its root type is B, it is non-malleable, and it has a
// finite (i.e. sized) satisfaction.
func (t Type) IsTopLevelValid() bool {
	return t.Base == BaseB && t.M && t.MaxSatSize >= 0
}
