// Package witness turns a typed miniscript fragment plus a satisfier
// oracle into the concrete witness stack that spends it: a bottom-up
// dynamic program that computes, for every node, both a way to make the
// node evaluate true (a Satisfaction) and a way to make it evaluate false
// without aborting the script (a Dissatisfaction), then picks the
// cheapest combination at the root.
package witness

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/pktlog/log"
	"github.com/pkt-cash/go-miniscript/satisfier"
)

// Err is the error type for this package.
var Err = er.NewErrorType("witness.Err")

var (
	// ErrCouldNotSatisfy is returned when no combination of the
	// satisfier's evidence yields a valid witness for the fragment.
	ErrCouldNotSatisfy = Err.Code("ErrCouldNotSatisfy")
)

// Stack is a witness stack, ordered bottom-to-top: index 0 is pushed
// first (deepest), the last element is pushed last (top of stack, the
// first one a script opcode consumes).
type Stack = [][]byte

// result is the per-node outcome of the dynamic program: a witness that
// makes the node evaluate true, and/or one that evaluates false without
// aborting. Either may be absent (nil).
type result struct {
	Stack     Stack
	Size      int
	HasSig    bool // carries a real, non-reusable signature
	Malleable bool // spec.md §4.H: no branch of this witness has_sig=true
}

// Satisfy returns the minimum-weight, non-malleable witness stack for f
// under s, or ErrCouldNotSatisfy if none exists. allowMalleable relaxes
// the has_sig-on-every-disjunction constraint, matching GetSatisfactionMall.
func Satisfy(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (Stack, er.R) {
	log.Debugf("witness: satisfying %s (allow_malleable=%v)", log.Fragment(f.Kind.String()), allowMalleable)
	sat, _ := solve(f, s, allowMalleable)
	if sat == nil {
		return nil, ErrCouldNotSatisfy.New("no combination of available evidence satisfies this fragment", nil)
	}
	log.Debugf("witness: satisfied with %d stack elements", len(sat.Stack))
	return sat.Stack, nil
}

func push(item []byte, hasSig bool) *result {
	return &result{Stack: Stack{item}, Size: len(item), HasSig: hasSig, Malleable: !hasSig}
}

func empty() *result { return &result{} }

// combine concatenates two node results where first executes (and is
// consumed) before second in script order -- so first's items must sit
// on top of the stack, pushed last.
func combine(first, second *result) *result {
	if first == nil || second == nil {
		return nil
	}
	st := make(Stack, 0, len(first.Stack)+len(second.Stack))
	st = append(st, second.Stack...)
	st = append(st, first.Stack...)
	return &result{
		Stack:     st,
		Size:      first.Size + second.Size,
		HasSig:    first.HasSig || second.HasSig,
		Malleable: first.Malleable || second.Malleable,
	}
}

func selector(on bool) *result {
	if on {
		return push([]byte{1}, false)
	}
	return push(nil, false)
}

// cheapest returns the smallest-size candidate, preferring non-malleable
// ones unless allowMalleable permits otherwise.
func cheapest(allowMalleable bool, candidates ...*result) *result {
	var bestNM, bestAny *result
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if bestAny == nil || c.Size < bestAny.Size {
			bestAny = c
		}
		if !c.Malleable && (bestNM == nil || c.Size < bestNM.Size) {
			bestNM = c
		}
	}
	if !allowMalleable && bestNM != nil {
		return bestNM
	}
	if bestNM != nil {
		return bestNM
	}
	return bestAny
}

func solve(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (sat, dissat *result) {
	switch f.Kind {
	case miniscript.KindTrue:
		return empty(), nil
	case miniscript.KindFalse:
		return nil, empty()
	case miniscript.KindPkK:
		return solvePkK(f, s)
	case miniscript.KindPkH:
		return solvePkH(f, s)
	case miniscript.KindOlder:
		if s.CheckOlder(f.LockValue) {
			return empty(), nil
		}
		return nil, nil
	case miniscript.KindAfter:
		if s.CheckAfter(f.LockValue) {
			return empty(), nil
		}
		return nil, nil
	case miniscript.KindSha256:
		return solveHash(f, s.LookupSha256)
	case miniscript.KindHash256:
		return solveHash(f, s.LookupHash256)
	case miniscript.KindRipemd160:
		return solveHash(f, s.LookupRipemd160)
	case miniscript.KindHash160:
		return solveHash(f, s.LookupHash160)
	case miniscript.KindMulti:
		return solveMulti(f, s)
	case miniscript.KindMultiA:
		return solveMultiA(f, s)
	case miniscript.KindAndV:
		return solveAndV(f, s, allowMalleable)
	case miniscript.KindAndB:
		return solveAndB(f, s, allowMalleable)
	case miniscript.KindAndor:
		return solveAndor(f, s, allowMalleable)
	case miniscript.KindOrB:
		return solveOrB(f, s, allowMalleable)
	case miniscript.KindOrC:
		return solveOrC(f, s, allowMalleable)
	case miniscript.KindOrD:
		return solveOrD(f, s, allowMalleable)
	case miniscript.KindOrI:
		return solveOrI(f, s, allowMalleable)
	case miniscript.KindThresh:
		return solveThresh(f, s, allowMalleable)
	case miniscript.KindWrap:
		return solveWrap(f, s, allowMalleable)
	default:
		return nil, nil
	}
}

func solvePkK(f *miniscript.Fragment, s satisfier.Satisfier) (*result, *result) {
	var sat *result
	if f.Key.IsXOnly() {
		if sig, ok := s.LookupSchnorrSig(f.Key); ok {
			item := append([]byte{}, sig.Sig[:]...)
			if sig.HasType {
				item = append(item, sig.HashType)
			}
			sat = push(item, true)
		}
	} else if sig, ok := s.LookupECDSASig(f.Key); ok {
		item := append(append([]byte{}, sig.Sig...), sig.HashType)
		sat = push(item, true)
	}
	dissat := push(nil, false)
	return sat, dissat
}

func solvePkH(f *miniscript.Fragment, s satisfier.Satisfier) (*result, *result) {
	var sat *result
	if k, sig, ok := s.LookupPkhECDSASig(f.KeyHash); ok {
		item := append(append([]byte{}, sig.Sig...), sig.HashType)
		sat = &result{Stack: Stack{item, k.Bytes()}, Size: len(item) + len(k.Bytes()), HasSig: true}
	}
	var dissat *result
	if k, ok := s.LookupPkhPk(f.KeyHash); ok {
		dissat = &result{Stack: Stack{nil, k.Bytes()}, Size: len(k.Bytes()), Malleable: true}
	}
	return sat, dissat
}

func solveHash(f *miniscript.Fragment, lookup func([]byte) ([]byte, bool)) (*result, *result) {
	var sat *result
	if preimage, ok := lookup(f.Hash); ok {
		sat = push(preimage, false)
	}
	dissat := push(nil, false)
	return sat, dissat
}

func solveMulti(f *miniscript.Fragment, s satisfier.Satisfier) (*result, *result) {
	sigs := make([][]byte, 0, f.Thresh)
	for _, k := range f.Keys {
		if len(sigs) == f.Thresh {
			break
		}
		if sig, ok := s.LookupECDSASig(k); ok {
			sigs = append(sigs, append(append([]byte{}, sig.Sig...), sig.HashType))
		}
	}
	var sat *result
	if len(sigs) == f.Thresh {
		st := make(Stack, 0, f.Thresh+1)
		st = append(st, nil) // OP_CHECKMULTISIG off-by-one dummy
		st = append(st, sigs...)
		size := 1
		for _, s := range sigs {
			size += len(s)
		}
		sat = &result{Stack: st, Size: size, HasSig: true}
	}
	dissatStack := make(Stack, f.Thresh+1)
	dissat := &result{Stack: dissatStack, Size: f.Thresh + 1, Malleable: true}
	return sat, dissat
}

func solveMultiA(f *miniscript.Fragment, s satisfier.Satisfier) (*result, *result) {
	items := make(Stack, len(f.Keys))
	used := 0
	size := 0
	for i, k := range f.Keys {
		if used < f.Thresh {
			if sig, ok := s.LookupSchnorrSig(k); ok {
				item := append([]byte{}, sig.Sig[:]...)
				if sig.HasType {
					item = append(item, sig.HashType)
				}
				items[i] = item
				size += len(item)
				used++
				continue
			}
		}
		items[i] = nil
	}
	var sat *result
	if used == f.Thresh {
		sat = &result{Stack: append(Stack{}, items...), Size: size, HasSig: true}
	}
	dissat := &result{Stack: make(Stack, len(f.Keys)), Malleable: true}
	return sat, dissat
}

func solveAndV(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	satX, _ := solve(f.Children[0], s, allowMalleable)
	satY, _ := solve(f.Children[1], s, allowMalleable)
	if satX == nil || satY == nil {
		return nil, nil
	}
	return combine(satX, satY), nil
}

func solveAndB(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	satX, dissatX := solve(f.Children[0], s, allowMalleable)
	satY, dissatY := solve(f.Children[1], s, allowMalleable)
	var sat *result
	if satX != nil && satY != nil {
		sat = combine(satX, satY)
	}
	var candidates []*result
	if dissatX != nil && dissatY != nil {
		candidates = append(candidates, combine(dissatX, dissatY))
	}
	if satX != nil && dissatY != nil {
		c := combine(satX, dissatY)
		c.Malleable = true
		candidates = append(candidates, c)
	}
	if dissatX != nil && satY != nil {
		c := combine(dissatX, satY)
		c.Malleable = true
		candidates = append(candidates, c)
	}
	return sat, cheapest(allowMalleable, candidates...)
}

func solveAndor(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	satX, dissatX := solve(f.Children[0], s, allowMalleable)
	satY, _ := solve(f.Children[1], s, allowMalleable)
	satZ, dissatZ := solve(f.Children[2], s, allowMalleable)
	var candidates []*result
	if satX != nil && satY != nil {
		candidates = append(candidates, combine(satX, satY))
	}
	if dissatX != nil && satZ != nil {
		candidates = append(candidates, combine(dissatX, satZ))
	}
	sat := cheapest(allowMalleable, candidates...)
	var dissat *result
	if dissatX != nil && dissatZ != nil {
		dissat = combine(dissatX, dissatZ)
	}
	return sat, dissat
}

func solveOrB(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	satX, dissatX := solve(f.Children[0], s, allowMalleable)
	satZ, dissatZ := solve(f.Children[1], s, allowMalleable)
	var satCand []*result
	if satX != nil && dissatZ != nil {
		satCand = append(satCand, combine(satX, dissatZ))
	}
	if dissatX != nil && satZ != nil {
		satCand = append(satCand, combine(dissatX, satZ))
	}
	sat := cheapest(allowMalleable, satCand...)
	var dissat *result
	if dissatX != nil && dissatZ != nil {
		dissat = combine(dissatX, dissatZ)
	}
	return sat, dissat
}

func solveOrC(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	satX, dissatX := solve(f.Children[0], s, allowMalleable)
	satZ, _ := solve(f.Children[1], s, allowMalleable)
	var candidates []*result
	if satX != nil {
		candidates = append(candidates, satX)
	}
	if dissatX != nil && satZ != nil {
		candidates = append(candidates, combine(dissatX, satZ))
	}
	return cheapest(allowMalleable, candidates...), nil
}

func solveOrD(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	satX, dissatX := solve(f.Children[0], s, allowMalleable)
	satZ, dissatZ := solve(f.Children[1], s, allowMalleable)
	var candidates []*result
	if satX != nil {
		candidates = append(candidates, satX)
	}
	if dissatX != nil && satZ != nil {
		candidates = append(candidates, combine(dissatX, satZ))
	}
	sat := cheapest(allowMalleable, candidates...)
	var dissat *result
	if dissatX != nil && dissatZ != nil {
		dissat = combine(dissatX, dissatZ)
	}
	return sat, dissat
}

func solveOrI(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	satX, dissatX := solve(f.Children[0], s, allowMalleable)
	satZ, dissatZ := solve(f.Children[1], s, allowMalleable)
	var satCand []*result
	if satX != nil {
		satCand = append(satCand, combine(selector(true), satX))
	}
	if satZ != nil {
		satCand = append(satCand, combine(selector(false), satZ))
	}
	sat := cheapest(allowMalleable, satCand...)
	var dissatCand []*result
	if dissatX != nil {
		dissatCand = append(dissatCand, combine(selector(true), dissatX))
	}
	if dissatZ != nil {
		dissatCand = append(dissatCand, combine(selector(false), dissatZ))
	}
	dissat := cheapest(true, dissatCand...)
	return sat, dissat
}

// solveThresh solves thresh(k, children) as a 0/1 knapsack: children
// without a dissatisfaction must be in the "true" set; the remaining
// k-minus-forced slots are filled by the cheapest (sat-dissat) deltas.
func solveThresh(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	n := len(f.Children)
	sats := make([]*result, n)
	dissats := make([]*result, n)
	forced := 0
	for i, c := range f.Children {
		sats[i], dissats[i] = solve(c, s, allowMalleable)
		if dissats[i] == nil {
			forced++
			if sats[i] == nil {
				return nil, nil // this child can neither be true nor false
			}
		}
	}
	if forced > f.Thresh {
		return nil, nil
	}
	var free []threshChoice
	for i := range f.Children {
		if dissats[i] != nil && sats[i] != nil {
			free = append(free, threshChoice{idx: i, delta: sats[i].Size - dissats[i].Size, hasSig: sats[i].HasSig})
		}
	}
	need := f.Thresh - forced
	if need > len(free) {
		return nil, nil
	}
	// Prefer signature-carrying children for the free true slots when a
	// non-malleable result is required; otherwise take the cheapest.
	order := append([]threshChoice{}, free...)
	sortChoices(order, !allowMalleable)
	trueSet := map[int]bool{}
	for i, c := range f.Children {
		if dissats[i] == nil {
			trueSet[i] = true
		}
	}
	for i := 0; i < need; i++ {
		trueSet[order[i].idx] = true
	}
	// Children execute left to right (ascending index), so each child
	// visited later in this loop must sit deeper in the stack than the
	// ones already accumulated: combine(accumSoFar, thisChild).
	sat := empty()
	malleable := false
	for i := range f.Children {
		if trueSet[i] {
			sat = combine(sat, sats[i])
			if !sats[i].HasSig {
				malleable = true
			}
		} else {
			sat = combine(sat, dissats[i])
		}
	}
	sat.Malleable = malleable
	// k OP_ADD ... OP_EQUAL reads the accumulated sum last, so the k
	// pushed by the script itself needs no witness element.
	var dissat *result
	allDissat := true
	for _, d := range dissats {
		if d == nil {
			allDissat = false
			break
		}
	}
	if allDissat {
		dissat = empty()
		for i := 0; i < n; i++ {
			dissat = combine(dissat, dissats[i])
		}
	}
	if allowMalleable {
		return sat, dissat
	}
	if malleable {
		return nil, dissat
	}
	return sat, dissat
}

// threshChoice is one freely-assignable thresh child: the cost delta of
// making it true instead of false, and whether its true witness carries
// a real signature.
type threshChoice struct {
	idx    int
	delta  int
	hasSig bool
}

func sortChoices(c []threshChoice, preferSigned bool) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && less(c[j], c[j-1], preferSigned); j-- {
			c[j-1], c[j] = c[j], c[j-1]
		}
	}
}

func less(a, b threshChoice, preferSigned bool) bool {
	if preferSigned && a.hasSig != b.hasSig {
		return a.hasSig
	}
	return a.delta < b.delta
}

func solveWrap(f *miniscript.Fragment, s satisfier.Satisfier, allowMalleable bool) (*result, *result) {
	child := f.Children[0]
	satC, dissatC := solve(child, s, allowMalleable)
	switch f.WrapChar {
	case 'a', 's', 'c', 'n':
		return satC, dissatC
	case 'v':
		return satC, nil
	case 'd', 'j':
		var sat *result
		if satC != nil {
			sat = combine(selector(true), satC)
		}
		return sat, push(nil, false)
	case 'l':
		var sat *result
		if satC != nil {
			sat = combine(selector(false), satC)
		}
		return sat, selector(true)
	case 'u':
		var sat *result
		if satC != nil {
			sat = combine(selector(true), satC)
		}
		return sat, selector(false)
	default:
		return nil, nil
	}
}
