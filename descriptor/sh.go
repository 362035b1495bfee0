package descriptor

import (
	"github.com/pkt-cash/go-miniscript/btcutil"
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/context"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/satisfier"
	"github.com/pkt-cash/go-miniscript/txscript/scriptbuilder"
	"github.com/pkt-cash/go-miniscript/witness"
)

// Sh is `sh(...)`: a legacy P2SH output. Its inner form is exactly one
// of a Segwit v0 program (`sh(wsh(...))`, `sh(wpkh(...))` -- P2SH-wrapped
// Segwit, supplemented per SPEC_FULL.md since the original implements it
// and spec.md's Non-goals do not name it), or a bare Legacy miniscript /
// sortedmulti redeem script.
type Sh struct {
	Wsh         *Wsh
	Wpkh        *Wpkh
	Ms          *miniscript.Fragment
	SortedMulti *SortedMulti
}

// NewShWsh builds `sh(wsh(...))`.
func NewShWsh(w Wsh) Sh { return Sh{Wsh: &w} }

// NewShWpkh builds `sh(wpkh(...))`.
func NewShWpkh(w Wpkh) Sh { return Sh{Wpkh: &w} }

// NewSh builds a bare legacy `sh(miniscript)`, checking the inner
// fragment against context.Legacy's resource limits.
func NewSh(ms *miniscript.Fragment) (Sh, er.R) {
	if err := miniscript.TopLevelCheck(ms, context.Legacy); err != nil {
		return Sh{}, err
	}
	return Sh{Ms: ms}, nil
}

// NewShSortedMulti builds `sh(sortedmulti(...))`.
func NewShSortedMulti(sm SortedMulti) (Sh, er.R) {
	if err := sm.SanityCheck(); err != nil {
		return Sh{}, err
	}
	return Sh{SortedMulti: &sm}, nil
}

// RedeemScript is the script whose HASH160 the scriptPubKey commits to:
// for the Segwit-wrapped variants this is the inner witness program
// itself; for a bare sh(...) it is the encoded miniscript.
func (d Sh) RedeemScript() ([]byte, er.R) {
	switch {
	case d.Wsh != nil:
		return d.Wsh.ScriptPubKey()
	case d.Wpkh != nil:
		return d.Wpkh.ScriptPubKey(), nil
	case d.SortedMulti != nil:
		return d.SortedMulti.Encode()
	default:
		return d.Ms.Encode()
	}
}

// ScriptPubKey is `OP_HASH160 <20-byte-hash160(RedeemScript())> OP_EQUAL`.
func (d Sh) ScriptPubKey() ([]byte, er.R) {
	redeem, err := d.RedeemScript()
	if err != nil {
		return nil, err
	}
	h := btcutil.Hash160(redeem)
	out := make([]byte, 0, 2+len(h)+1)
	out = append(out, 0xa9, byte(len(h)))
	out = append(out, h...)
	out = append(out, 0x87)
	return out, nil
}

// InnerScript is the redeem script revealed in the scriptSig.
func (d Sh) InnerScript() ([]byte, er.R) {
	return d.RedeemScript()
}

// EcdsaSighashScriptCode delegates to the Segwit inner descriptor for the
// P2SH-wrapped variants (signing commits to the witness program's own
// scriptCode, not the P2SH redeem script); a bare sh(...) signs over its
// own redeem script.
func (d Sh) EcdsaSighashScriptCode() ([]byte, er.R) {
	switch {
	case d.Wsh != nil:
		return d.Wsh.EcdsaSighashScriptCode()
	case d.Wpkh != nil:
		return d.Wpkh.EcdsaSighashScriptCode(), nil
	default:
		return d.RedeemScript()
	}
}

// SanityCheck re-validates whichever inner form is set.
func (d Sh) SanityCheck() er.R {
	switch {
	case d.Wsh != nil:
		return d.Wsh.SanityCheck()
	case d.Wpkh != nil:
		return d.Wpkh.SanityCheck()
	case d.SortedMulti != nil:
		return d.SortedMulti.SanityCheck()
	default:
		return miniscript.TopLevelCheck(d.Ms, context.Legacy)
	}
}

// MaxSatisfactionWeight adds the redeem script's own push (length prefix
// plus bytes, counted once in the scriptSig) to the inner form's weight.
func (d Sh) MaxSatisfactionWeight() (int, er.R) {
	redeem, err := d.RedeemScript()
	if err != nil {
		return 0, err
	}
	redeemPush := varIntLen(len(redeem)) + len(redeem)
	switch {
	case d.Wsh != nil:
		w, err := d.Wsh.MaxSatisfactionWeight()
		if err != nil {
			return 0, err
		}
		return w + redeemPush, nil
	case d.Wpkh != nil:
		return d.Wpkh.MaxSatisfactionWeight() + redeemPush, nil
	case d.SortedMulti != nil:
		size, err := d.SortedMulti.ScriptSize()
		if err != nil {
			return 0, err
		}
		maxElems, err := d.SortedMulti.MaxSatisfactionWitnessElements()
		if err != nil {
			return 0, err
		}
		maxSat, err := d.SortedMulti.MaxSatisfactionSize()
		if err != nil {
			return 0, err
		}
		return 4 + varIntLen(size) + size + varIntLen(maxElems) + maxSat + redeemPush, nil
	default:
		return 4 + varIntLen(d.Ms.Typ.ScriptSize) + d.Ms.Typ.ScriptSize +
			varIntLen(d.Ms.Typ.MaxSatWitnessElements) + d.Ms.Typ.MaxSatSize + redeemPush, nil
	}
}

// GetSatisfaction returns the non-malleable (witness, scriptSig) pair.
func (d Sh) GetSatisfaction(s satisfier.Satisfier) (witness.Stack, []byte, er.R) {
	return d.getSatisfaction(s, false)
}

// GetSatisfactionMall returns the possibly-malleable pair.
func (d Sh) GetSatisfactionMall(s satisfier.Satisfier) (witness.Stack, []byte, er.R) {
	return d.getSatisfaction(s, true)
}

func (d Sh) getSatisfaction(s satisfier.Satisfier, allowMalleable bool) (witness.Stack, []byte, er.R) {
	redeem, err := d.RedeemScript()
	if err != nil {
		return nil, nil, err
	}
	switch {
	case d.Wsh != nil:
		w, _, err := d.satisfyWsh(s, allowMalleable)
		if err != nil {
			return nil, nil, err
		}
		return w, legacyScriptSig([][]byte{redeem}), nil
	case d.Wpkh != nil:
		w, _, err := d.Wpkh.GetSatisfaction(s)
		if err != nil {
			return nil, nil, err
		}
		return w, legacyScriptSig([][]byte{redeem}), nil
	case d.SortedMulti != nil:
		stack, err := d.SortedMulti.Satisfy(s)
		if err != nil {
			return nil, nil, err
		}
		items := append(append([][]byte{}, stack...), redeem)
		return nil, legacyScriptSig(items), nil
	default:
		stack, err := witness.Satisfy(d.Ms, s, allowMalleable)
		if err != nil {
			return nil, nil, err
		}
		items := append(append([][]byte{}, stack...), redeem)
		return nil, legacyScriptSig(items), nil
	}
}

func (d Sh) satisfyWsh(s satisfier.Satisfier, allowMalleable bool) (witness.Stack, []byte, er.R) {
	if allowMalleable {
		return d.Wsh.GetSatisfactionMall(s)
	}
	return d.Wsh.GetSatisfaction(s)
}

// legacyScriptSig renders a sequence of data pushes as a scriptSig --
// Legacy and P2SH-wrapped Segwit both carry their evidence as plain data
// pushes rather than a witness stack.
func legacyScriptSig(items [][]byte) []byte {
	b := scriptbuilder.New()
	for _, it := range items {
		b.AddData(it)
	}
	s, err := b.Script()
	if err != nil {
		return nil
	}
	return s
}
