package miniscript

import (
	"encoding/hex"

	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/context"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/pktlog/log"
	"github.com/pkt-cash/go-miniscript/txscript/opcode"
	"github.com/pkt-cash/go-miniscript/txscript/parsescript"
)

// Infer decompiles a raw script back into the fragment tree that would
// Encode to it, the inverse of Encode (spec.md §4.C's round-trip law).
// It is a recursive-descent token parser over the exact shapes Encode
// produces; scripts built by hand outside this package in some other
// valid miniscript encoding may fail to infer even though they are
// well-formed Bitcoin Script -- this mirrors the reference decompiler,
// which is likewise defined only up to its own encoder's output shapes.
func Infer(script []byte, ctx context.Context) (*Fragment, er.R) {
	log.Debugf("miniscript: inferring fragment from script %s under %s", log.ScriptHex(hex.EncodeToString(script)), ctx.String())
	ops, err := parsescript.ParseScript(script)
	if err != nil {
		return nil, ErrParse.New("script did not parse as valid opcodes", err)
	}
	f, rest, perr := inferSeq(ops, ctx)
	if perr != nil {
		return nil, perr
	}
	if len(rest) != 0 {
		return nil, ErrParse.New("trailing opcodes after inferred script", nil)
	}
	log.Debugf("miniscript: inferred %s", log.Fragment(f.Kind.String()))
	return f, nil
}

// inferSeq consumes as many leading fragments as form a single `and_v`
// chain (B,V,V,...,B or just B), returning the combined fragment and any
// unconsumed tail (used by the IF/ELSE block parser below, which needs to
// know where a branch ends).
func inferSeq(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	var acc *Fragment
	rest := ops
	for {
		if len(rest) == 0 {
			break
		}
		if isBlockTerminator(rest[0]) {
			break
		}
		f, tail, err := inferCombinator(rest, ctx)
		if err != nil {
			return nil, nil, err
		}
		rest = tail
		if acc == nil {
			acc = f
			continue
		}
		combined, err := AndV(acc, f)
		if err != nil {
			return nil, nil, err
		}
		acc = combined
	}
	if acc == nil {
		return nil, nil, ErrParse.New("empty fragment sequence", nil)
	}
	return acc, rest, nil
}

// inferCombinator parses one inferOne() fragment, then looks ahead for a
// following OP_BOOLAND/OP_BOOLOR/OP_ADD/OP_NOTIF/OP_IFDUP OP_NOTIF that
// would make it the first child of and_b/or_b/thresh/or_c/andor/or_d
// rather than a standalone and_v chain element. This is a deliberately
// narrow lookahead -- it only recognizes the exact shapes Encode produces
// for those six combinators -- not a general Bitcoin Script disassembler.
func inferCombinator(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	x, tail, err := inferOne(ops, ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(tail) > 0 && tail[0].Opcode.Value == opcode.OP_NOTIF {
		z, tail2, zerr := inferSeq(tail[1:], ctx)
		if zerr != nil {
			return nil, nil, zerr
		}
		if len(tail2) == 0 {
			return nil, nil, ErrParse.New("or_c/andor: missing matching OP_ELSE/OP_ENDIF", nil)
		}
		if tail2[0].Opcode.Value == opcode.OP_ELSE {
			y, tail3, yerr := inferSeq(tail2[1:], ctx)
			if yerr != nil {
				return nil, nil, yerr
			}
			if len(tail3) == 0 || tail3[0].Opcode.Value != opcode.OP_ENDIF {
				return nil, nil, ErrParse.New("andor: missing matching OP_ENDIF", nil)
			}
			f, ferr := Andor(x, y, z)
			if ferr != nil {
				return nil, nil, ferr
			}
			return finishTerminal(f, tail3[1:], ctx)
		}
		if tail2[0].Opcode.Value != opcode.OP_ENDIF {
			return nil, nil, ErrParse.New("or_c: missing matching OP_ENDIF", nil)
		}
		f, ferr := OrC(x, z)
		if ferr != nil {
			return nil, nil, ferr
		}
		return finishTerminal(f, tail2[1:], ctx)
	}
	if len(tail) > 1 && tail[0].Opcode.Value == opcode.OP_IFDUP && tail[1].Opcode.Value == opcode.OP_NOTIF {
		z, tail2, zerr := inferSeq(tail[2:], ctx)
		if zerr != nil {
			return nil, nil, zerr
		}
		if len(tail2) == 0 || tail2[0].Opcode.Value != opcode.OP_ENDIF {
			return nil, nil, ErrParse.New("or_d: missing matching OP_ENDIF", nil)
		}
		f, ferr := OrD(x, z)
		if ferr != nil {
			return nil, nil, ferr
		}
		return finishTerminal(f, tail2[1:], ctx)
	}
	// Speculatively try and_b/or_b/thresh: a second fragment followed by
	// OP_BOOLAND, OP_BOOLOR, or OP_ADD.
	y, tail2, yerr := inferOneSafe(tail, ctx)
	if yerr == nil && len(tail2) > 0 {
		switch tail2[0].Opcode.Value {
		case opcode.OP_BOOLAND:
			f, ferr := AndB(x, y)
			if ferr == nil {
				return finishTerminal(f, tail2[1:], ctx)
			}
		case opcode.OP_BOOLOR:
			f, ferr := OrB(x, y)
			if ferr == nil {
				return finishTerminal(f, tail2[1:], ctx)
			}
		case opcode.OP_ADD:
			children := []*Fragment{x, y}
			rest := tail2[1:]
			for {
				if k, ok, kt := takeScriptNum(rest); ok && len(kt) > 0 && kt[0].Opcode.Value == opcode.OP_EQUAL {
					f, ferr := Thresh(int(k), children)
					if ferr != nil {
						return nil, nil, ferr
					}
					return finishTerminal(f, kt[1:], ctx)
				}
				next, nt, nerr := inferOneSafe(rest, ctx)
				if nerr != nil || len(nt) == 0 || nt[0].Opcode.Value != opcode.OP_ADD {
					break
				}
				children = append(children, next)
				rest = nt[1:]
			}
		}
	}
	return x, tail, nil
}

// inferOneSafe is inferOne with panics/errors converted to a plain error
// return, used for the speculative lookahead in inferCombinator where a
// failed parse just means "this isn't a combinator after all", not a
// fatal error for the whole script.
func inferOneSafe(ops []parsescript.ParsedOpcode, ctx context.Context) (f *Fragment, tail []parsescript.ParsedOpcode, err er.R) {
	defer func() {
		if r := recover(); r != nil {
			f, tail, err = nil, nil, ErrParse.New("speculative parse failed", nil)
		}
	}()
	return inferOne(ops, ctx)
}

func isBlockTerminator(op parsescript.ParsedOpcode) bool {
	switch op.Opcode.Value {
	case opcode.OP_ELSE, opcode.OP_ENDIF:
		return true
	}
	return false
}

// inferOne consumes exactly one top-level fragment (which may itself be a
// v:-wrapped sub-chain) from the front of ops.
func inferOne(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	if len(ops) == 0 {
		return nil, nil, ErrParse.New("unexpected end of script", nil)
	}
	op := ops[0]

	switch op.Opcode.Value {
	case opcode.OP_0:
		return finishTerminal(False(), ops[1:], ctx)

	case opcode.OP_1:
		return finishTerminal(True(), ops[1:], ctx)

	case opcode.OP_TOALTSTACK: // a:X
		inner, tail, err := inferOne(ops[1:], ctx)
		if err != nil {
			return nil, nil, err
		}
		if len(tail) == 0 || tail[0].Opcode.Value != opcode.OP_FROMALTSTACK {
			return nil, nil, ErrParse.New("a: wrapper missing matching OP_FROMALTSTACK", nil)
		}
		w, err := wrapA(inner)
		if err != nil {
			return nil, nil, err
		}
		return finishTerminal(w, tail[1:], ctx)

	case opcode.OP_SWAP: // s:X
		inner, tail, err := inferOne(ops[1:], ctx)
		if err != nil {
			return nil, nil, err
		}
		w, err := wrapS(inner)
		if err != nil {
			return nil, nil, err
		}
		return finishTerminal(w, tail, ctx)

	case opcode.OP_DUP:
		if len(ops) > 1 && ops[1].Opcode.Value == opcode.OP_HASH160 {
			return inferPkH(ops, ctx)
		}
		if len(ops) > 1 && ops[1].Opcode.Value == opcode.OP_IF {
			return inferWrapD(ops, ctx)
		}
		return nil, nil, ErrParse.New("unrecognized OP_DUP sequence", nil)

	case opcode.OP_SIZE:
		if len(ops) > 2 && ops[2].Opcode.Value == opcode.OP_EQUALVERIFY {
			return inferHashLock(ops, ctx)
		}
		if len(ops) > 1 && ops[1].Opcode.Value == opcode.OP_0NOTEQUAL {
			return inferWrapJ(ops, ctx)
		}
		return nil, nil, ErrParse.New("unrecognized OP_SIZE sequence", nil)

	case opcode.OP_IF:
		return inferIfElse(ops, ctx)
	}

	if n, isNum, tail := takeScriptNum(ops); isNum {
		if len(tail) > 0 && tail[0].Opcode.Value == opcode.OP_CHECKSEQUENCEVERIFY {
			f, err := Older(uint32(n))
			if err != nil {
				return nil, nil, err
			}
			return finishTerminal(f, tail[1:], ctx)
		}
		if len(tail) > 0 && tail[0].Opcode.Value == opcode.OP_CHECKLOCKTIMEVERIFY {
			f, err := After(uint32(n))
			if err != nil {
				return nil, nil, err
			}
			return finishTerminal(f, tail[1:], ctx)
		}
		return inferThresholdOrMulti(ops, ctx)
	}

	if op.Opcode.Value >= 1 && op.Opcode.Value <= opcode.OP_DATA_75 || op.Opcode.Value == opcode.OP_PUSHDATA1 ||
		op.Opcode.Value == opcode.OP_PUSHDATA2 || op.Opcode.Value == opcode.OP_PUSHDATA4 {
		return inferPushLed(ops, ctx)
	}

	return nil, nil, ErrParse.New("unrecognized opcode sequence", nil)
}

// finishTerminal checks for a trailing verify/checksig-family opcode that
// upgrades a just-parsed fragment (v:, c:, n:) before returning it,
// letting the grammar's wrapper suffixes attach to whatever precedes
// them without every terminal constructor needing to know about them.
func finishTerminal(f *Fragment, rest []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	for len(rest) > 0 {
		switch rest[0].Opcode.Value {
		case opcode.OP_CHECKSIG:
			w, err := wrapC(f)
			if err != nil {
				return f, rest, nil
			}
			f, rest = w, rest[1:]
			continue
		case opcode.OP_VERIFY:
			w, err := wrapV(f)
			if err != nil {
				return f, rest, nil
			}
			f, rest = w, rest[1:]
			continue
		case opcode.OP_0NOTEQUAL:
			w, err := wrapN(f)
			if err != nil {
				return f, rest, nil
			}
			f, rest = w, rest[1:]
			continue
		}
		break
	}
	return f, rest, nil
}

func inferPushLed(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	data := ops[0].Data
	// A lone 32/20-byte push preceding OP_EQUALVERIFY/OP_HASH160 etc. is
	// consumed by the callers above; by elimination this is a key push
	// for pk_k (possibly c:-wrapped below in finishTerminal).
	k, err := parseKeyBytes(data, ctx)
	if err != nil {
		return nil, nil, err
	}
	f, kerr := PkK(k)
	if kerr != nil {
		return nil, nil, kerr
	}
	return finishTerminal(f, ops[1:], ctx)
}

func parseKeyBytes(data []byte, ctx context.Context) (key.Key, er.R) {
	if ctx == context.Tap {
		return key.ParseXOnlyKey(data)
	}
	return key.ParseFullKey(data)
}

func inferPkH(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	// OP_DUP OP_HASH160 <20> OP_EQUALVERIFY [OP_CHECKSIG]
	if len(ops) < 4 || ops[2].Opcode.Length != 21 || ops[3].Opcode.Value != opcode.OP_EQUALVERIFY {
		return nil, nil, ErrParse.New("malformed pk_h sequence", nil)
	}
	var h key.Hash
	copy(h[:], ops[2].Data)
	f, err := PkH(h)
	if err != nil {
		return nil, nil, err
	}
	return finishTerminal(f, ops[4:], ctx)
}

func inferWrapD(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	// OP_DUP OP_IF X OP_ENDIF
	inner, tail, err := inferSeq(ops[2:], ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(tail) == 0 || tail[0].Opcode.Value != opcode.OP_ENDIF {
		return nil, nil, ErrParse.New("d: wrapper missing matching OP_ENDIF", nil)
	}
	w, werr := wrapD(inner)
	if werr != nil {
		return nil, nil, werr
	}
	return finishTerminal(w, tail[1:], ctx)
}

func inferWrapJ(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	// OP_SIZE OP_0NOTEQUAL OP_IF X OP_ENDIF
	if len(ops) < 3 || ops[2].Opcode.Value != opcode.OP_IF {
		return nil, nil, ErrParse.New("malformed j: sequence", nil)
	}
	inner, tail, err := inferSeq(ops[3:], ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(tail) == 0 || tail[0].Opcode.Value != opcode.OP_ENDIF {
		return nil, nil, ErrParse.New("j: wrapper missing matching OP_ENDIF", nil)
	}
	w, werr := wrapJ(inner)
	if werr != nil {
		return nil, nil, werr
	}
	return finishTerminal(w, tail[1:], ctx)
}

func inferHashLock(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	// OP_SIZE <32> OP_EQUALVERIFY <HASHOP> <h> OP_EQUAL
	if len(ops) < 6 {
		return nil, nil, ErrParse.New("malformed hash lock sequence", nil)
	}
	hashOp := ops[3].Opcode.Value
	h := ops[4].Data
	if ops[5].Opcode.Value != opcode.OP_EQUAL {
		return nil, nil, ErrParse.New("malformed hash lock sequence", nil)
	}
	var f *Fragment
	var err er.R
	switch hashOp {
	case opcode.OP_SHA256:
		f, err = Sha256(h)
	case opcode.OP_HASH256:
		f, err = Hash256(h)
	case opcode.OP_RIPEMD160:
		f, err = Ripemd160(h)
	case opcode.OP_HASH160:
		f, err = Hash160(h)
	default:
		return nil, nil, ErrParse.New("unrecognized hash opcode", nil)
	}
	if err != nil {
		return nil, nil, err
	}
	return finishTerminal(f, ops[6:], ctx)
}

// takeScriptNum recognizes a minimally-encoded numeric push (OP_0,
// OP_1..OP_16, OP_1NEGATE, or an OP_DATA_n push of a scriptnum) at the
// front of ops.
func takeScriptNum(ops []parsescript.ParsedOpcode) (int64, bool, []parsescript.ParsedOpcode) {
	if len(ops) == 0 {
		return 0, false, ops
	}
	v := ops[0].Opcode.Value
	switch {
	case v == opcode.OP_0:
		return 0, true, ops[1:]
	case v >= opcode.OP_1 && v <= opcode.OP_16:
		return int64(v) - int64(opcode.OP_1) + 1, true, ops[1:]
	case v == opcode.OP_1NEGATE:
		return -1, true, ops[1:]
	case v >= opcode.OP_DATA_1 && v <= opcode.OP_DATA_75:
		return decodeScriptNum(ops[0].Data), true, ops[1:]
	}
	return 0, false, ops
}

func decodeScriptNum(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}
	var result int64
	for i, bb := range b {
		result |= int64(bb) << uint(8*i)
	}
	if b[len(b)-1]&0x80 != 0 {
		result &^= int64(0x80) << uint(8*(len(b)-1))
		result = -result
	}
	return result
}

func inferThresholdOrMulti(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	// Try multi(k, keys...) / multi_a(k, keys...): <k> <key>... <n>
	// OP_CHECKMULTISIG, or <key> OP_CHECKSIG (<key> OP_CHECKSIGADD)* <k>
	// OP_NUMEQUAL.
	k, _, tail := takeScriptNum(ops)
	var keys []key.Key
	i := 0
	for i < len(tail) {
		v := tail[i].Opcode.Value
		if v >= 1 && v <= opcode.OP_DATA_75 || v == opcode.OP_PUSHDATA1 || v == opcode.OP_PUSHDATA2 || v == opcode.OP_PUSHDATA4 {
			pk, perr := parseKeyBytes(tail[i].Data, ctx)
			if perr != nil {
				break
			}
			keys = append(keys, pk)
			i++
			continue
		}
		break
	}
	if n, ok, afterN := takeScriptNum(tail[i:]); ok && int(n) == len(keys) &&
		len(afterN) > 0 && afterN[0].Opcode.Value == opcode.OP_CHECKMULTISIG {
		f, err := Multi(int(k), keys)
		if err != nil {
			return nil, nil, err
		}
		return finishTerminal(f, afterN[1:], ctx)
	}
	return inferMultiA(ops, ctx)
}

func inferMultiA(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	var keys []key.Key
	i := 0
	for i < len(ops) {
		v := ops[i].Opcode.Value
		if !(v >= 1 && v <= opcode.OP_DATA_75) {
			break
		}
		pk, perr := parseKeyBytes(ops[i].Data, ctx)
		if perr != nil {
			return nil, nil, ErrParse.New("unrecognized fragment", nil)
		}
		keys = append(keys, pk)
		i++
		if i >= len(ops) {
			return nil, nil, ErrParse.New("unrecognized fragment", nil)
		}
		if len(keys) == 1 {
			if ops[i].Opcode.Value != opcode.OP_CHECKSIG {
				return nil, nil, ErrParse.New("unrecognized fragment", nil)
			}
		} else if ops[i].Opcode.Value != opcode.OP_CHECKSIGADD {
			break
		}
		i++
	}
	if len(keys) == 0 {
		return nil, nil, ErrParse.New("unrecognized fragment", nil)
	}
	k, ok, tail := takeScriptNum(ops[i:])
	if !ok || len(tail) == 0 || tail[0].Opcode.Value != opcode.OP_NUMEQUAL {
		return nil, nil, ErrParse.New("unrecognized fragment", nil)
	}
	f, err := MultiA(int(k), keys)
	if err != nil {
		return nil, nil, err
	}
	return finishTerminal(f, tail[1:], ctx)
}

func inferIfElse(ops []parsescript.ParsedOpcode, ctx context.Context) (*Fragment, []parsescript.ParsedOpcode, er.R) {
	x, tail, err := inferSeq(ops[1:], ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(tail) == 0 {
		return nil, nil, ErrParse.New("unterminated OP_IF", nil)
	}
	if tail[0].Opcode.Value == opcode.OP_ELSE {
		y, tail2, err := inferSeq(tail[1:], ctx)
		if err != nil {
			return nil, nil, err
		}
		if len(tail2) == 0 || tail2[0].Opcode.Value != opcode.OP_ENDIF {
			return nil, nil, ErrParse.New("unterminated OP_IF/OP_ELSE", nil)
		}
		// Special case: OP_IF 0 OP_ELSE Z OP_ENDIF is the l: wrapper.
		if x.Kind == KindFalse {
			w, werr := wrapL(y)
			if werr != nil {
				return nil, nil, werr
			}
			return finishTerminal(w, tail2[1:], ctx)
		}
		if y.Kind == KindFalse {
			w, werr := wrapU(x)
			if werr != nil {
				return nil, nil, werr
			}
			return finishTerminal(w, tail2[1:], ctx)
		}
		f, ferr := OrI(x, y)
		if ferr != nil {
			return nil, nil, ferr
		}
		return finishTerminal(f, tail2[1:], ctx)
	}
	if tail[0].Opcode.Value == opcode.OP_ENDIF {
		return nil, nil, ErrParse.New("bare OP_IF without OP_ELSE is not a recognized fragment", nil)
	}
	return nil, nil, ErrParse.New("malformed OP_IF block", nil)
}
