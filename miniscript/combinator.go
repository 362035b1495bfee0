package miniscript

import "github.com/pkt-cash/go-miniscript/btcutil/er"

// AndV builds `and_v(X,Y)`: concatenation where X is V (consumed via an
// internal OP_VERIFY-shaped check, leaves nothing) and Y runs after,
// determining the combinator's own Base.
func AndV(x, y *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseV {
		return nil, ErrTypeCheck.New("and_v requires its first child to be type V", nil)
	}
	if y.Typ.Base != BaseB && y.Typ.Base != BaseK && y.Typ.Base != BaseV {
		return nil, ErrTypeCheck.New("and_v requires its second child to be type B, K, or V", nil)
	}
	if err := checkMixedTimelocks(x, y); err != nil {
		return nil, err
	}
	return &Fragment{
		Kind: KindAndV, Children: []*Fragment{x, y},
		Typ: Type{
			Base: y.Typ.Base,
			S:    x.Typ.S || y.Typ.S,
			F:    y.Typ.F || x.Typ.S,
			M:    x.Typ.M && y.Typ.M,
			D:    y.Typ.D,
			U:    y.Typ.U,
			Z:    x.Typ.Z && y.Typ.Z,
			ScriptSize:            x.Typ.ScriptSize + y.Typ.ScriptSize,
			MaxSatWitnessElements: x.Typ.MaxSatWitnessElements + y.Typ.MaxSatWitnessElements,
			MaxSatSize:            x.Typ.MaxSatSize + y.Typ.MaxSatSize,
			OpsCount:              x.Typ.OpsCount + y.Typ.OpsCount,
		},
	}, nil
}

// AndB builds `and_b(X,Y)`: `X Y OP_BOOLAND`, X is B, Y is W.
func AndB(x, y *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("and_b requires its first child to be type B", nil)
	}
	if y.Typ.Base != BaseW {
		return nil, ErrTypeCheck.New("and_b requires its second child to be type W", nil)
	}
	if err := checkMixedTimelocks(x, y); err != nil {
		return nil, err
	}
	return &Fragment{
		Kind: KindAndB, Children: []*Fragment{x, y},
		Typ: Type{
			Base: BaseB,
			S:    x.Typ.S || y.Typ.S,
			M:    x.Typ.M && y.Typ.M,
			D:    x.Typ.D && y.Typ.D,
			U:    true,
			Z:    x.Typ.Z && y.Typ.Z,
			ScriptSize:            x.Typ.ScriptSize + y.Typ.ScriptSize + 1,
			MaxSatWitnessElements: x.Typ.MaxSatWitnessElements + y.Typ.MaxSatWitnessElements,
			MaxSatSize:            x.Typ.MaxSatSize + y.Typ.MaxSatSize,
			OpsCount:              x.Typ.OpsCount + y.Typ.OpsCount + 1,
		},
	}, nil
}

// Andor builds `andor(X,Y,Z)`: `X OP_NOTIF Z OP_ELSE Y OP_ENDIF`, i.e. "if X
// then Y else Z". X must be dissatisfiable (d), Y and Z both B.
func Andor(x, y, z *Fragment) (*Fragment, er.R) {
	if !x.Typ.D {
		return nil, ErrTypeCheck.New("andor requires its first child to be dissatisfiable", nil)
	}
	if y.Typ.Base != BaseB || z.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("andor requires its second and third children to be type B", nil)
	}
	if err := checkMixedTimelocks(x, y); err != nil {
		return nil, err
	}
	maxSat := y.Typ.MaxSatSize
	if z.Typ.MaxSatSize > maxSat {
		maxSat = z.Typ.MaxSatSize
	}
	maxElems := y.Typ.MaxSatWitnessElements
	if z.Typ.MaxSatWitnessElements > maxElems {
		maxElems = z.Typ.MaxSatWitnessElements
	}
	return &Fragment{
		Kind: KindAndor, Children: []*Fragment{x, y, z},
		Typ: Type{
			Base: BaseB,
			S:    (x.Typ.S && y.Typ.S) || z.Typ.S,
			M:    x.Typ.M && y.Typ.M && z.Typ.M && (x.Typ.S || z.Typ.S),
			D:    z.Typ.D,
			U:    y.Typ.U && z.Typ.U,
			ScriptSize:            x.Typ.ScriptSize + y.Typ.ScriptSize + z.Typ.ScriptSize + 3,
			MaxSatWitnessElements: x.Typ.MaxSatWitnessElements + maxElems,
			MaxSatSize:            x.Typ.MaxSatSize + maxSat,
			OpsCount:              x.Typ.OpsCount + y.Typ.OpsCount + z.Typ.OpsCount + 3,
		},
	}, nil
}

func orCommon(kind Kind, x, y *Fragment, extraOps int, requireXD bool) (*Fragment, er.R) {
	if requireXD && !x.Typ.D {
		return nil, ErrTypeCheck.New("this or_* combinator requires its first child to be dissatisfiable", nil)
	}
	maxSat := x.Typ.MaxSatSize
	if y.Typ.MaxSatSize > maxSat {
		maxSat = y.Typ.MaxSatSize
	}
	maxElems := x.Typ.MaxSatWitnessElements
	if y.Typ.MaxSatWitnessElements > maxElems {
		maxElems = y.Typ.MaxSatWitnessElements
	}
	return &Fragment{
		Kind: kind, Children: []*Fragment{x, y},
		Typ: Type{
			Base: BaseB,
			S:    x.Typ.S && y.Typ.S,
			M:    x.Typ.M && y.Typ.M && (x.Typ.S || y.Typ.S),
			D:    x.Typ.D || y.Typ.D,
			U:    true,
			ScriptSize:            x.Typ.ScriptSize + y.Typ.ScriptSize + extraOps,
			MaxSatWitnessElements: maxElems + 1,
			MaxSatSize:            maxSat,
			OpsCount:              x.Typ.OpsCount + y.Typ.OpsCount + extraOps,
		},
	}, nil
}

// OrB builds `or_b(X,Z)`: `X Z OP_BOOLOR`, X is Bd, Z is Wd.
func OrB(x, z *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB || !x.Typ.D {
		return nil, ErrTypeCheck.New("or_b requires its first child to be type Bd", nil)
	}
	if z.Typ.Base != BaseW || !z.Typ.D {
		return nil, ErrTypeCheck.New("or_b requires its second child to be type Wd", nil)
	}
	return orCommon(KindOrB, x, z, 1, false)
}

// OrC builds `or_c(X,Z)`: `X OP_NOTIF Z OP_ENDIF`, X is Bdu, Z is V.
func OrC(x, z *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB || !x.Typ.D || !x.Typ.U {
		return nil, ErrTypeCheck.New("or_c requires its first child to be type Bdu", nil)
	}
	if z.Typ.Base != BaseV {
		return nil, ErrTypeCheck.New("or_c requires its second child to be type V", nil)
	}
	f, err := orCommon(KindOrC, x, z, 2, true)
	if err != nil {
		return nil, err
	}
	f.Typ.Base = BaseV
	f.Typ.D = false
	return f, nil
}

// OrD builds `or_d(X,Z)`: `X OP_IFDUP OP_NOTIF Z OP_ENDIF`, X is Bdu, Z is B.
func OrD(x, z *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB || !x.Typ.D || !x.Typ.U {
		return nil, ErrTypeCheck.New("or_d requires its first child to be type Bdu", nil)
	}
	if z.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("or_d requires its second child to be type B", nil)
	}
	f, err := orCommon(KindOrD, x, z, 3, true)
	if err != nil {
		return nil, err
	}
	f.Typ.D = z.Typ.D
	return f, nil
}

// OrI builds `or_i(X,Z)`: `OP_IF X OP_ELSE Z OP_ENDIF`, X and Z both B.
func OrI(x, z *Fragment) (*Fragment, er.R) {
	if x.Typ.Base != BaseB || z.Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("or_i requires both children to be type B", nil)
	}
	f, err := orCommon(KindOrI, x, z, 3, false)
	if err != nil {
		return nil, err
	}
	f.Typ.D = x.Typ.D || z.Typ.D
	f.Typ.MaxSatWitnessElements++ // IF/ELSE branch selector byte
	return f, nil
}

// Thresh builds `thresh(k, children...)`: a 0/1-knapsack-satisfiable
// k-of-n over arbitrary B/W-typed subexpressions, all but the first of
// which must be W (spec.md §4.H resolves which subset of children is
// actually signed at satisfaction time; here only the static type is
// checked).
func Thresh(k int, children []*Fragment) (*Fragment, er.R) {
	n := len(children)
	if k < 1 || n < k {
		return nil, ErrBadThreshold.New("thresh requires 1 <= k <= n", nil)
	}
	if children[0].Typ.Base != BaseB {
		return nil, ErrTypeCheck.New("thresh requires its first child to be type B", nil)
	}
	size := scriptNumPushSize(int64(k)) + 1 // <k> OP_EQUAL at the end
	sigCount := 0
	allM := true
	for i, c := range children {
		if i > 0 {
			if c.Typ.Base != BaseW {
				return nil, ErrTypeCheck.New("thresh requires children after the first to be type W", nil)
			}
			size += 1 // OP_ADD between each additional child
		}
		size += c.Typ.ScriptSize
		if c.Typ.S {
			sigCount++
		}
		allM = allM && c.Typ.M
	}
	// Satisfaction cost: the k largest children's satisfaction sizes
	// (the knapsack optimum is computed by the witness constructor;
	// this is the worst-case static upper bound for Type.MaxSatSize).
	sizes := make([]int, n)
	for i, c := range children {
		sizes[i] = c.Typ.MaxSatSize
	}
	sort(sizes)
	maxSat := 0
	for i := 0; i < k; i++ {
		maxSat += sizes[n-1-i]
	}
	return &Fragment{
		Kind: KindThresh, Thresh: k, Children: append([]*Fragment(nil), children...),
		Typ: Type{
			Base: BaseB,
			S:    sigCount >= k,
			M:    allM && sigCount >= 1,
			D:    true,
			U:    true,
			ScriptSize:            size,
			MaxSatWitnessElements: n,
			MaxSatSize:            maxSat,
			OpsCount:              n,
		},
	}, nil
}

func sort(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// checkMixedTimelocks rejects an and_v/and_b/andor conjunction that
// directly combines a block-height older()/after() with a time-based one
// (spec.md §8 property 9).
func checkMixedTimelocks(x, y *Fragment) er.R {
	xt, xok := timelockOf(x)
	yt, yok := timelockOf(y)
	if xok && yok && xt != yt {
		return ErrMixedTimelockUnits.New("cannot conjoin a block-height locktime with a time-based one", nil)
	}
	return nil
}

func timelockOf(f *Fragment) (isTime bool, ok bool) {
	switch f.Kind {
	case KindOlder, KindAfter:
		return isTimeLock(f.LockValue), true
	default:
		return false, false
	}
}
