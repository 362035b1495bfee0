package interpreter

import (
	"bytes"

	"github.com/pkt-cash/go-miniscript/btcutil"
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/pktlog/log"
	"github.com/pkt-cash/go-miniscript/satisfier"
	"github.com/pkt-cash/go-miniscript/sighash"
	"github.com/pkt-cash/go-miniscript/txscript/params"
)

// cursor walks a Stack from the top (the last index, the most recently
// pushed item) downward -- the same order a real script consumes its
// operands in, and the same order the recursive solve() functions in
// package witness build a satisfaction's items in.
type cursor struct {
	items Stack
}

func (c *cursor) pop() ([]byte, bool) {
	n := len(c.items)
	if n == 0 {
		return nil, false
	}
	n--
	v := c.items[n]
	c.items = c.items[:n]
	return v, true
}

func (c *cursor) peek() ([]byte, bool) {
	n := len(c.items)
	if n == 0 {
		return nil, false
	}
	return c.items[n-1], true
}

func (c *cursor) empty() bool { return len(c.items) == 0 }

// castBool reproduces Script's CastToBool: a stack item is false only if
// every byte is zero, with the conventional exception of a lone negative
// zero (0x80).
func castBool(v []byte) bool {
	for i, b := range v {
		if b != 0 {
			return !(i == len(v)-1 && b == 0x80)
		}
	}
	return false
}

func isTimeLock(n uint32) bool { return uint64(n) >= params.LockTimeThreshold }

// Item is one unit of the stream an Iterator yields: either a constraint
// the replayed spend actually satisfied, or an error explaining why a
// particular node could not be confirmed (spec.md §4.I). A hard
// structural failure -- a VERIFY-shaped node evaluating false, a
// malformed push, an exhausted witness -- is always the last Item an
// Iterator yields; everything before it already happened during the walk.
type Item struct {
	Constraint *SatisfiedConstraint
	Err        er.R
}

// Iterator replays an Interpreter's bound witness against its inferred
// miniscript once and exposes the resulting sequence of Items. The
// replay is eager (run() does the full walk up front): a transaction
// input's witness is always a small, already-materialized stack, never
// an unbounded source, so there is nothing a lazy implementation would
// buy here.
type Iterator struct {
	items []Item
	pos   int
}

// Next returns the next Item, or ok=false once the sequence is exhausted.
func (it *Iterator) Next() (Item, bool) {
	if it.pos >= len(it.items) {
		return Item{}, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

// All drains the remaining sequence into a slice, for callers that don't
// need to stop early.
func (it *Iterator) All() []Item {
	rest := append([]Item(nil), it.items[it.pos:]...)
	it.pos = len(it.items)
	return rest
}

// walkState accumulates the Items a single replay produces and carries
// the per-input facts (verifier, age, height) every node needs.
type walkState struct {
	items  []Item
	verify VerifyFunc
	age    uint32
	height uint32
}

func (s *walkState) emit(sc SatisfiedConstraint) {
	s.items = append(s.items, Item{Constraint: &sc})
}

func (s *walkState) soft(err er.R) {
	s.items = append(s.items, Item{Err: err})
}

// Iter replays the witness using real cryptographic verification: msgFn
// resolves the message each signature's sighash-type byte commits to
// (spec.md §4.I's iter()).
func (in *Interpreter) Iter(msgFn sighash.MessageFunc) *Iterator {
	return in.run(DefaultVerifier(msgFn))
}

// IterAssumeSigs replays the witness accepting any well-formed signature
// without verifying it, for callers that only care about witness shape --
// fee/weight estimation, for instance (spec.md §4.I's iter_assume_sigs()).
func (in *Interpreter) IterAssumeSigs() *Iterator {
	return in.run(AssumeValid)
}

// IterCustom replays the witness against a caller-supplied verifier
// (spec.md §4.I's iter_custom()).
func (in *Interpreter) IterCustom(verify VerifyFunc) *Iterator {
	return in.run(verify)
}

func (in *Interpreter) run(verify VerifyFunc) *Iterator {
	log.Debugf("interpreter: evaluating %s under %s", log.Fragment(in.Ms.Kind.String()), in.Kind.String())
	s := &walkState{verify: verify, age: in.Age, height: in.Height}
	c := &cursor{items: append(Stack(nil), in.stack...)}

	ok, err := eval(in.Ms, c, s)
	switch {
	case err != nil:
		s.items = append(s.items, Item{Err: err})
	case !ok:
		s.items = append(s.items, Item{Err: ErrScriptSatisfactionError.New("script did not leave a satisfying true", nil)})
	case !c.empty():
		s.items = append(s.items, Item{Err: ErrUnexpectedStackElementPush.New("witness carried more elements than the script consumed", nil)})
	}
	return &Iterator{items: s.items}
}

// eval walks one fragment node, consuming whatever witness items its
// script would consume in real execution and returning the boolean it
// leaves on the stack. A non-nil error return means the node's failure
// is a hard abort (an exhausted/malformed witness, or a VERIFY-shaped
// node evaluating false) -- the caller must stop the walk, not continue
// it. A soft failure (a signature that doesn't verify, a preimage that
// doesn't match, a multisig slot left unmatched) is recorded via
// s.soft() and reported as (false, nil): the enclosing combinator is
// still free to take the other branch.
func eval(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	switch f.Kind {
	case miniscript.KindTrue:
		return true, nil
	case miniscript.KindFalse:
		return false, nil
	case miniscript.KindPkK:
		return evalPkK(f, c, s)
	case miniscript.KindPkH:
		return evalPkH(f, c, s)
	case miniscript.KindOlder:
		return evalOlder(f, s)
	case miniscript.KindAfter:
		return evalAfter(f, s)
	case miniscript.KindSha256:
		return evalHashLock(f, HashFnSha256, c, s)
	case miniscript.KindHash256:
		return evalHashLock(f, HashFnHash256, c, s)
	case miniscript.KindRipemd160:
		return evalHashLock(f, HashFnRipemd160, c, s)
	case miniscript.KindHash160:
		return evalHashLock(f, HashFnHash160, c, s)
	case miniscript.KindMulti:
		return evalMulti(f, c, s)
	case miniscript.KindMultiA:
		return evalMultiA(f, c, s)
	case miniscript.KindAndV:
		return evalAndV(f, c, s)
	case miniscript.KindAndB:
		return evalAndB(f, c, s)
	case miniscript.KindAndor:
		return evalAndor(f, c, s)
	case miniscript.KindOrB:
		return evalOrB(f, c, s)
	case miniscript.KindOrC:
		return evalOrC(f, c, s)
	case miniscript.KindOrD:
		return evalOrD(f, c, s)
	case miniscript.KindOrI:
		return evalOrI(f, c, s)
	case miniscript.KindThresh:
		return evalThresh(f, c, s)
	case miniscript.KindWrap:
		return evalWrap(f, c, s)
	default:
		return false, ErrCouldNotEvaluate.New("unrecognized fragment kind", nil)
	}
}

// parseSigItem decodes a raw witness push as the key-shape-appropriate
// signature: a trailing-sighash-byte DER signature for a FullKey, a
// 64/65-byte BIP-340 signature for an XOnlyKey.
func parseSigItem(k key.Key, item []byte) (KeySigPair, er.R) {
	if k.IsXOnly() {
		if len(item) != 64 && len(item) != 65 {
			return KeySigPair{}, ErrInvalidSchnorrSigLen.New("Schnorr signature push must be 64 or 65 bytes", nil)
		}
		var sig [64]byte
		copy(sig[:], item[:64])
		hasType := len(item) == 65
		var ht byte
		if hasType {
			ht = item[64]
		}
		return KeySigPair{Key: k, SchnorrSig: &satisfier.SchnorrSig{Sig: sig, HashType: ht, HasType: hasType}}, nil
	}
	if len(item) < 9 {
		return KeySigPair{}, ErrInvalidEcdsaSignature.New("ECDSA signature push is too short", nil)
	}
	return KeySigPair{Key: k, EcdsaSig: &satisfier.EcdsaSig{Sig: item[:len(item)-1], HashType: item[len(item)-1]}}, nil
}

func evalPkK(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	item, ok := c.pop()
	if !ok {
		return false, ErrUnexpectedStackEnd.New("pk_k: witness exhausted", nil)
	}
	if len(item) == 0 {
		return false, nil
	}
	pair, perr := parseSigItem(f.Key, item)
	if perr != nil {
		s.soft(perr)
		return false, nil
	}
	if !s.verify(pair) {
		if f.Key.IsXOnly() {
			s.soft(ErrInvalidSchnorrSignature.New("signature did not verify for "+f.Key.String(), nil))
		} else {
			s.soft(ErrInvalidEcdsaSignature.New("signature did not verify for "+f.Key.String(), nil))
		}
		return false, nil
	}
	s.emit(SatisfiedConstraint{PublicKey: &PublicKeyConstraint{Key: f.Key, EcdsaSig: pair.EcdsaSig, SchnorrSig: pair.SchnorrSig}})
	return true, nil
}

func evalPkH(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	pkItem, ok := c.pop()
	if !ok {
		return false, ErrUnexpectedStackEnd.New("pk_h: witness exhausted", nil)
	}
	sigItem, ok := c.pop()
	if !ok {
		return false, ErrUnexpectedStackEnd.New("pk_h: witness exhausted", nil)
	}
	if len(pkItem) == 0 && len(sigItem) == 0 {
		return false, nil
	}
	fk, perr := key.ParseFullKey(pkItem)
	if perr != nil {
		s.soft(ErrPubkeyParseError.New(perr.Message(), nil))
		return false, nil
	}
	if fk.Hash() != f.KeyHash {
		s.soft(ErrPkHashVerifyFail.New("revealed key does not hash to "+f.KeyHash.String(), nil))
		return false, nil
	}
	pair, serr := parseSigItem(fk, sigItem)
	if serr != nil {
		s.soft(serr)
		return false, nil
	}
	if !s.verify(pair) {
		s.soft(ErrInvalidEcdsaSignature.New("signature did not verify for "+fk.String(), nil))
		return false, nil
	}
	s.emit(SatisfiedConstraint{PublicKeyHash: &PublicKeyHashConstraint{Hash: f.KeyHash, Key: fk, EcdsaSig: *pair.EcdsaSig}})
	return true, nil
}

func evalOlder(f *miniscript.Fragment, s *walkState) (bool, er.R) {
	n := f.LockValue
	if isTimeLock(n) != isTimeLock(s.age) {
		return false, ErrRelativeLocktimeComparisonInvalid.New("older() unit does not match the input's recorded age", nil)
	}
	if s.age < n {
		return false, ErrRelativeLocktimeNotMet.New("input age does not satisfy older()", nil)
	}
	s.emit(SatisfiedConstraint{RelativeTimelock: &RelativeTimelockConstraint{N: n}})
	return true, nil
}

func evalAfter(f *miniscript.Fragment, s *walkState) (bool, er.R) {
	n := f.LockValue
	if isTimeLock(n) != isTimeLock(s.height) {
		return false, ErrAbsoluteLocktimeComparisonInvalid.New("after() unit does not match the input's recorded height", nil)
	}
	if s.height < n {
		return false, ErrAbsoluteLocktimeNotMet.New("height does not satisfy after()", nil)
	}
	s.emit(SatisfiedConstraint{AbsoluteTimelock: &AbsoluteTimelockConstraint{N: n}})
	return true, nil
}

func hashFn(fn HashFn, b []byte) []byte {
	switch fn {
	case HashFnSha256:
		return btcutil.Sha256(b)
	case HashFnHash256:
		return btcutil.Hash256(b)
	case HashFnRipemd160:
		return btcutil.Ripemd160(b)
	default:
		return btcutil.Hash160(b)
	}
}

// evalHashLock covers sha256/hash256/ripemd160/hash160. The encoded
// script is always `OP_SIZE <32> OP_EQUALVERIFY OP_<hashop> <h>
// OP_EQUAL` (see miniscript.encodeHashLock): the SIZE/EQUALVERIFY pair
// hard-aborts on anything but a 32-byte push, so a short or empty
// preimage is only ever a valid dissatisfaction when an enclosing
// combinator's OP_IF/NOTIF skips this script entirely -- reached
// directly, it is a consensus-level failure, not a soft one.
func evalHashLock(f *miniscript.Fragment, fn HashFn, c *cursor, s *walkState) (bool, er.R) {
	item, ok := c.pop()
	if !ok {
		return false, ErrUnexpectedStackEnd.New("hash lock: witness exhausted", nil)
	}
	if len(item) != 32 {
		return false, ErrHashPreimageLengthMismatch.New("preimage push was not 32 bytes", nil)
	}
	if !bytes.Equal(hashFn(fn, item), f.Hash) {
		s.soft(ErrHashPreimageMismatch.New("preimage does not hash to the committed value", nil))
		return false, nil
	}
	s.emit(SatisfiedConstraint{HashLock: &HashLockConstraint{HashFn: fn, Hash: f.Hash, Preimage: item}})
	return true, nil
}

// evalMulti covers `multi`. This toolkit reports which keys signed
// rather than byte-for-byte replicating OP_CHECKMULTISIG's stack-order
// quirks (the historical extra-pop bug, and its requirement that
// signatures appear in the same relative order as their keys): the
// leading dummy element is popped and discarded, and each remaining
// signature push is greedily matched against the first still-unused key
// it verifies against.
func evalMulti(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	need := f.Thresh + 1
	popped := make([][]byte, 0, need)
	for i := 0; i < need; i++ {
		it, ok := c.pop()
		if !ok {
			return false, ErrUnexpectedStackEnd.New("multi: witness exhausted", nil)
		}
		popped = append(popped, it)
	}
	sigs := popped[:len(popped)-1]

	allEmpty := true
	for _, it := range sigs {
		if len(it) != 0 {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		return false, nil
	}

	used := make([]bool, len(f.Keys))
	matched := 0
	for _, sigItem := range sigs {
		if len(sigItem) == 0 {
			continue
		}
		found := false
		for i, k := range f.Keys {
			if used[i] {
				continue
			}
			pair, perr := parseSigItem(k, sigItem)
			if perr != nil || !s.verify(pair) {
				continue
			}
			used[i] = true
			matched++
			found = true
			s.emit(SatisfiedConstraint{PublicKey: &PublicKeyConstraint{Key: k, EcdsaSig: pair.EcdsaSig, SchnorrSig: pair.SchnorrSig}})
			break
		}
		if !found {
			s.soft(ErrMultiSigEvaluationError.New("signature did not match any unused public key", nil))
		}
	}
	return matched == f.Thresh, nil
}

// evalMultiA covers `multi_a`: one witness slot per key, popped in key
// order (CHECKSIGADD pairs slot i strictly with key i, unlike multi's
// greedy CHECKMULTISIG matching).
func evalMultiA(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	count := 0
	for _, k := range f.Keys {
		it, ok := c.pop()
		if !ok {
			return false, ErrUnexpectedStackEnd.New("multi_a: witness exhausted", nil)
		}
		if len(it) == 0 {
			continue
		}
		pair, perr := parseSigItem(k, it)
		if perr != nil {
			s.soft(perr)
			continue
		}
		if !s.verify(pair) {
			s.soft(ErrInvalidSchnorrSignature.New("signature did not verify for "+k.String(), nil))
			continue
		}
		s.emit(SatisfiedConstraint{PublicKey: &PublicKeyConstraint{Key: k, SchnorrSig: pair.SchnorrSig}})
		count++
	}
	return count == f.Thresh, nil
}

// evalAndV covers `and_v(X,Y)`: X is a V fragment, fully consumed by its
// own internal VERIFY and contributing nothing to the result; the
// combination's value is simply Y's.
func evalAndV(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	if _, err := eval(f.Children[0], c, s); err != nil {
		return false, err
	}
	return eval(f.Children[1], c, s)
}

// evalAndB covers `and_b(X,Y)`: both operands always execute (there is
// no conditional jump), combined with OP_BOOLAND, which never aborts.
func evalAndB(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	xb, err := eval(f.Children[0], c, s)
	if err != nil {
		return false, err
	}
	yb, err := eval(f.Children[1], c, s)
	if err != nil {
		return false, err
	}
	return xb && yb, nil
}

// evalAndor covers `andor(X,Y,Z)`: `X NOTIF Z ELSE Y ENDIF` -- X true
// takes the Y branch, X false takes Z; only one of Y/Z ever executes,
// so only one of them consumes witness items.
func evalAndor(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	xb, err := eval(f.Children[0], c, s)
	if err != nil {
		return false, err
	}
	if xb {
		return eval(f.Children[1], c, s)
	}
	return eval(f.Children[2], c, s)
}

// evalOrB covers `or_b(X,Z)`: both operands always execute, combined
// with OP_BOOLOR.
func evalOrB(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	xb, err := eval(f.Children[0], c, s)
	if err != nil {
		return false, err
	}
	zb, err := eval(f.Children[1], c, s)
	if err != nil {
		return false, err
	}
	return xb || zb, nil
}

// evalOrC covers `or_c(X,Z)`: `X NOTIF Z ENDIF` -- X true short-circuits
// (Z never executes); X false falls through to Z, a V fragment whose own
// eval already turns a false result into a hard abort.
func evalOrC(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	xb, err := eval(f.Children[0], c, s)
	if err != nil {
		return false, err
	}
	if xb {
		return true, nil
	}
	return eval(f.Children[1], c, s)
}

// evalOrD covers `or_d(X,Z)`: `X IFDUP NOTIF Z ENDIF` -- same
// short-circuit shape as or_c, but Z is a plain B fragment rather than V.
func evalOrD(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	xb, err := eval(f.Children[0], c, s)
	if err != nil {
		return false, err
	}
	if xb {
		return true, nil
	}
	return eval(f.Children[1], c, s)
}

// evalOrI covers `or_i(X,Z)`: `IF X ELSE Z ENDIF`. Unlike andor/or_c/
// or_d, neither branch's own result selects the path -- the IF/ELSE
// choice is its own explicit witness item.
func evalOrI(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	sel, ok := c.pop()
	if !ok {
		return false, ErrUnexpectedStackEnd.New("or_i: witness exhausted", nil)
	}
	if castBool(sel) {
		return eval(f.Children[0], c, s)
	}
	return eval(f.Children[1], c, s)
}

// evalThresh covers `thresh(k,X1,...,Xn)`: every child always executes,
// each contributing 0/1 via OP_ADD, compared to k with OP_EQUAL.
func evalThresh(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	sum := 0
	for _, child := range f.Children {
		cb, err := eval(child, c, s)
		if err != nil {
			return false, err
		}
		if cb {
			sum++
		}
	}
	return sum == f.Thresh, nil
}

// evalWrap covers the single-child wrappers a/s/c/d/v/j/n/l/u (t never
// reaches here: wrapT builds an and_v node directly, not a KindWrap one).
func evalWrap(f *miniscript.Fragment, c *cursor, s *walkState) (bool, er.R) {
	child := f.Children[0]
	switch f.WrapChar {
	case 'a', 's', 'c', 'n':
		// Pure stack reshuffling (ALTSTACK/SWAP) or a normalizing
		// OP_0NOTEQUAL/OP_CHECKSIG that this evaluator already folds into
		// the terminal/combinator it wraps -- pass through unchanged.
		return eval(child, c, s)
	case 'v':
		cb, err := eval(child, c, s)
		if err != nil {
			return false, err
		}
		if !cb {
			return false, ErrVerifyFailed.New("v: wrapped fragment evaluated false", nil)
		}
		return true, nil
	case 'd':
		sel, ok := c.pop()
		if !ok {
			return false, ErrUnexpectedStackEnd.New("d: witness exhausted", nil)
		}
		if !castBool(sel) {
			return false, nil
		}
		return eval(child, c, s)
	case 'j':
		top, ok := c.peek()
		if !ok {
			return false, ErrUnexpectedStackEnd.New("j: witness exhausted", nil)
		}
		if !castBool(top) {
			return false, nil
		}
		return eval(child, c, s)
	case 'l':
		sel, ok := c.pop()
		if !ok {
			return false, ErrUnexpectedStackEnd.New("l: witness exhausted", nil)
		}
		if castBool(sel) {
			return false, nil
		}
		return eval(child, c, s)
	case 'u':
		sel, ok := c.pop()
		if !ok {
			return false, ErrUnexpectedStackEnd.New("u: witness exhausted", nil)
		}
		if !castBool(sel) {
			return false, nil
		}
		return eval(child, c, s)
	default:
		return false, ErrCouldNotEvaluate.New("unrecognized wrapper", nil)
	}
}
