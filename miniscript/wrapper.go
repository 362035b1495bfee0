package miniscript

import "github.com/pkt-cash/go-miniscript/btcutil/er"

// Wrap applies one of the single-character wrappers (spec.md §3: a, s,
// c, d, v, j, n, l, u, t) to child, adjusting its Base and flags without
// introducing new payload. Multi-character wrapper strings like "sc:" are
// applied by calling Wrap repeatedly, innermost (rightmost) character
// first, matching how the teacher's own iterator-based parsers apply
// suffix modifiers one token at a time.
func Wrap(ch byte, child *Fragment) (*Fragment, er.R) {
	switch ch {
	case 'a':
		return wrapA(child)
	case 's':
		return wrapS(child)
	case 'c':
		return wrapC(child)
	case 'd':
		return wrapD(child)
	case 'v':
		return wrapV(child)
	case 'j':
		return wrapJ(child)
	case 'n':
		return wrapN(child)
	case 'l':
		return wrapL(child)
	case 'u':
		return wrapU(child)
	case 't':
		return wrapT(child)
	default:
		return nil, ErrMultiColonWrapper.New("unknown wrapper character: "+string(ch), nil)
	}
}

func mk(ch byte, child *Fragment, typ Type) *Fragment {
	return &Fragment{Kind: KindWrap, WrapChar: ch, Children: []*Fragment{child}, Typ: typ}
}

// wrapA: `a:X` = `OP_TOALTSTACK X OP_FROMALTSTACK`, turns B into W.
func wrapA(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("a: wrapper requires a type B child", nil)
	}
	t := x.Typ
	t.Base = BaseW
	t.ScriptSize += 2
	t.OpsCount += 2
	return mk('a', x, t), nil
}

// wrapS: `s:X` = `OP_SWAP X`, requires X type Bo, turns it into W.
func wrapS(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB || !x.Typ.O {
		return nil, ErrTypeCheck.New("s: wrapper requires a type Bo child", nil)
	}
	t := x.Typ
	t.Base = BaseW
	t.ScriptSize++
	t.OpsCount++
	return mk('s', x, t), nil
}

// wrapC: `c:X` = `X OP_CHECKSIG`, requires X type K, turns it into B.
func wrapC(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseK {
		return nil, ErrTypeCheck.New("c: wrapper requires a type K child", nil)
	}
	t := x.Typ
	t.Base = BaseB
	t.ScriptSize++
	t.OpsCount++
	t.MaxSatSize += 0 // the signature cost is already counted in the K child
	return mk('c', x, t), nil
}

// wrapD: `d:X` = `OP_DUP OP_IF X OP_ENDIF`, requires X type Vz, gives Bxd.
func wrapD(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseV || !x.Typ.Z {
		return nil, ErrTypeCheck.New("d: wrapper requires a type Vz child", nil)
	}
	t := x.Typ
	t.Base = BaseB
	t.D = true
	t.U = true
	t.ScriptSize += 3
	t.OpsCount += 3
	return mk('d', x, t), nil
}

// wrapV: `v:X` = `X OP_VERIFY` (or the terminal's verify-opcode variant),
// requires X type B, gives V (F forced, D false -- no dissatisfaction).
func wrapV(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("v: wrapper requires a type B child", nil)
	}
	t := x.Typ
	t.Base = BaseV
	t.F = true
	t.D = false
	t.ScriptSize++
	t.OpsCount++
	return mk('v', x, t), nil
}

// wrapJ: `j:X` = `OP_SIZE OP_0NOTEQUAL OP_IF X OP_ENDIF`, requires X type
// Bn, gives Bd.
func wrapJ(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB || !x.Typ.N {
		return nil, ErrTypeCheck.New("j: wrapper requires a type Bn child", nil)
	}
	t := x.Typ
	t.D = true
	t.ScriptSize += 4
	t.OpsCount += 4
	return mk('j', x, t), nil
}

// wrapN: `n:X` = `X OP_0NOTEQUAL`, requires X type B, gives Bu.
func wrapN(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("n: wrapper requires a type B child", nil)
	}
	t := x.Typ
	t.U = true
	t.ScriptSize++
	t.OpsCount++
	return mk('n', x, t), nil
}

// wrapL: `l:X` = `OP_IF 0 OP_ELSE X OP_ENDIF`, the "or_i with the first
// branch false" sugar -- requires X type B, gives Bd (non-malleable only
// if X carries a signature).
func wrapL(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("l: wrapper requires a type B child", nil)
	}
	t := x.Typ
	t.D = true
	t.U = true
	t.M = x.Typ.M && x.Typ.S
	t.ScriptSize += 4
	t.OpsCount += 4
	t.MaxSatWitnessElements++
	return mk('l', x, t), nil
}

// wrapU: `u:X` = `OP_IF X OP_ELSE 0 OP_ENDIF`, requires X type B, gives Bd.
func wrapU(x *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("u: wrapper requires a type B child", nil)
	}
	t := x.Typ
	t.D = true
	t.U = true
	t.M = x.Typ.M && x.Typ.S
	t.ScriptSize += 4
	t.OpsCount += 4
	t.MaxSatWitnessElements++
	return mk('u', x, t), nil
}

// wrapT: `t:X` = `X 1`, sugar for `and_v(X, 1)`; requires X type V, gives
// Bu with a trivially-true second branch.
func wrapT(x *Fragment) (*Fragment, er.R) {
	one := True()
	return AndV(x, one)
}
