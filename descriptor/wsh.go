package descriptor

import (
	"github.com/pkt-cash/go-miniscript/btcutil"
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/context"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/satisfier"
	"github.com/pkt-cash/go-miniscript/witness"
)

// Wsh is `wsh(ms)` or `wsh(sortedmulti(...))`: a Segwit v0 witness-script
// output. The inner miniscript always lives under context.Segwitv0 --
// wsh never wraps another sh(...)/wsh(...) (original_source/
// descriptor/segwitv0.go's sanity rule, spec.md §4.F's "apply top-level
// checks (D, E)").
type Wsh struct {
	Ms          *miniscript.Fragment // nil if SortedMulti is set
	SortedMulti *SortedMulti         // nil if Ms is set
}

// NewWsh wraps a miniscript fragment that has already passed
// miniscript.TopLevelCheck(ctx.Segwitv0).
func NewWsh(ms *miniscript.Fragment) (Wsh, er.R) {
	if err := miniscript.TopLevelCheck(ms, context.Segwitv0); err != nil {
		return Wsh{}, err
	}
	return Wsh{Ms: ms}, nil
}

// NewWshSortedMulti wraps a sortedmulti(k,...) inner.
func NewWshSortedMulti(sm SortedMulti) (Wsh, er.R) {
	if err := sm.SanityCheck(); err != nil {
		return Wsh{}, err
	}
	return Wsh{SortedMulti: &sm}, nil
}

// InnerScript is the witness script committed to by the P2WSH program.
func (d Wsh) InnerScript() ([]byte, er.R) {
	if d.SortedMulti != nil {
		return d.SortedMulti.Encode()
	}
	return d.Ms.Encode()
}

// ScriptPubKey is `OP_0 <32-byte-sha256(InnerScript())>`.
func (d Wsh) ScriptPubKey() ([]byte, er.R) {
	inner, err := d.InnerScript()
	if err != nil {
		return nil, err
	}
	h := btcutil.Sha256(inner)
	out := make([]byte, 0, 2+len(h))
	out = append(out, 0x00, byte(len(h)))
	out = append(out, h...)
	return out, nil
}

// EcdsaSighashScriptCode is identical to InnerScript for wsh (BIP-143
// defines the scriptCode of a P2WSH input as the witness script itself).
func (d Wsh) EcdsaSighashScriptCode() ([]byte, er.R) {
	return d.InnerScript()
}

// SanityCheck re-validates the inner descriptor.
func (d Wsh) SanityCheck() er.R {
	if d.SortedMulti != nil {
		return d.SortedMulti.SanityCheck()
	}
	return miniscript.TopLevelCheck(d.Ms, context.Segwitv0)
}

// MaxSatisfactionWeight computes an upper bound on the weight of a
// satisfying (scriptSig, witness) pair, matching
// original_source/descriptor/segwitv0.go's varint-aware accounting: the
// empty scriptSig's one-byte length (4 weight units, as non-witness
// data), the witness element count, the witness script length prefix,
// the script itself, and the worst-case satisfaction.
func (d Wsh) MaxSatisfactionWeight() (int, er.R) {
	var scriptSize, maxElems, maxSatSize int
	var err er.R
	if d.SortedMulti != nil {
		if scriptSize, err = d.SortedMulti.ScriptSize(); err != nil {
			return 0, err
		}
		if maxElems, err = d.SortedMulti.MaxSatisfactionWitnessElements(); err != nil {
			return 0, err
		}
		if maxSatSize, err = d.SortedMulti.MaxSatisfactionSize(); err != nil {
			return 0, err
		}
	} else {
		scriptSize = d.Ms.Typ.ScriptSize
		maxElems = d.Ms.Typ.MaxSatWitnessElements
		maxSatSize = d.Ms.Typ.MaxSatSize
	}
	return 4 + varIntLen(scriptSize) + scriptSize + varIntLen(maxElems) + maxSatSize, nil
}

// GetSatisfaction returns the non-malleable witness stack (including the
// trailing witness script) and an empty scriptSig.
func (d Wsh) GetSatisfaction(s satisfier.Satisfier) (witness.Stack, []byte, er.R) {
	return d.getSatisfaction(s, false)
}

// GetSatisfactionMall returns the possibly-malleable minimum-weight
// witness, for callers that accept third-party witness substitution.
func (d Wsh) GetSatisfactionMall(s satisfier.Satisfier) (witness.Stack, []byte, er.R) {
	return d.getSatisfaction(s, true)
}

func (d Wsh) getSatisfaction(s satisfier.Satisfier, allowMalleable bool) (witness.Stack, []byte, er.R) {
	var stack witness.Stack
	var err er.R
	if d.SortedMulti != nil {
		stack, err = d.SortedMulti.Satisfy(s)
	} else {
		stack, err = witness.Satisfy(d.Ms, s, allowMalleable)
	}
	if err != nil {
		return nil, nil, err
	}
	script, err := d.InnerScript()
	if err != nil {
		return nil, nil, err
	}
	full := append(append(witness.Stack{}, stack...), script)
	return full, nil, nil
}

func varIntLen(n int) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
