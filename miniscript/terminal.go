package miniscript

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/key"
)

// True returns the always-satisfied `1` terminal (OP_1).
func True() *Fragment {
	return &Fragment{Kind: KindTrue, Typ: Type{
		Base: BaseB, F: true, E: false, M: true, D: false, U: true, Z: true,
		ScriptSize: 1, MaxSatWitnessElements: 0, MaxSatSize: 0, OpsCount: 0,
	}}
}

// False returns the always-failing `0` terminal (OP_0).
func False() *Fragment {
	return &Fragment{Kind: KindFalse, Typ: Type{
		Base: BaseB, F: false, E: true, M: true, D: true, U: false, Z: true,
		ScriptSize: 1, MaxSatWitnessElements: 0, MaxSatSize: 0, OpsCount: 0,
	}}
}

// PkK builds the `pk_k(K)` terminal: push K, type K, consumed by a `c:`
// wrapper's OP_CHECKSIG into a B fragment.
func PkK(k key.Key) (*Fragment, er.R) {
	return &Fragment{
		Kind: KindPkK,
		Key:  k,
		Typ: Type{
			Base: BaseK, S: true, E: true, M: true, D: true, U: true, O: true,
			ScriptSize:            k.SerializedLen() + 1,
			MaxSatWitnessElements: 1,
			MaxSatSize:            sigCostFor(k.IsXOnly()),
			OpsCount:              0,
		},
	}, nil
}

// PkH builds the `pk_h(H)` terminal: `OP_DUP OP_HASH160 <H> OP_EQUALVERIFY`,
// type K, satisfied with witness `[sig, pk]` where hash160(pk) == H.
// Tap has no pk_h fragment (x-only keys have no 20-byte hash form in this
// grammar); callers targeting Tap must use pk_k only.
func PkH(h key.Hash) (*Fragment, er.R) {
	return &Fragment{
		Kind:    KindPkH,
		KeyHash: h,
		Typ: Type{
			Base: BaseK, S: true, E: true, M: true, D: true, U: true,
			ScriptSize:            1 + 1 + 1 + 20 + 1,
			MaxSatWitnessElements: 2,
			MaxSatSize:            ecdsaSigCost + 34, // sig + compressed pubkey push
			OpsCount:              3,
		},
	}, nil
}

// isTimeLock reports whether a locktime value n is interpreted as a block
// height (false) or a unix timestamp (true), using lockTimeThreshold below,
// the same 5e8 value as txscript/params.LockTimeThreshold.
func isTimeLock(n uint32) bool {
	return uint64(n) >= lockTimeThreshold
}

const lockTimeThreshold = 5e8

// Older builds the `older(n)` terminal: `<n> OP_CHECKSEQUENCEVERIFY`.
// n must satisfy 1 <= n < 2^31 (spec.md §3 invariant 3).
func Older(n uint32) (*Fragment, er.R) {
	if n < 1 || n >= 1<<31 {
		return nil, ErrBadLockValue.New("older() argument must satisfy 1 <= n < 2^31", nil)
	}
	return &Fragment{
		Kind: KindOlder, LockValue: n,
		Typ: Type{
			Base: BaseB, F: true, M: true, D: false, Z: true,
			ScriptSize: scriptNumPushSize(int64(n)) + 1, MaxSatWitnessElements: 0, MaxSatSize: 0,
		},
	}, nil
}

// After builds the `after(n)` terminal: `<n> OP_CHECKLOCKTIMEVERIFY`. Same
// range constraint as Older.
func After(n uint32) (*Fragment, er.R) {
	if n < 1 || n >= 1<<31 {
		return nil, ErrBadLockValue.New("after() argument must satisfy 1 <= n < 2^31", nil)
	}
	return &Fragment{
		Kind: KindAfter, LockValue: n,
		Typ: Type{
			Base: BaseB, F: true, M: true, D: false, Z: true,
			ScriptSize: scriptNumPushSize(int64(n)) + 1, MaxSatWitnessElements: 0, MaxSatSize: 0,
		},
	}, nil
}

func scriptNumPushSize(n int64) int {
	if n >= -1 && n <= 16 {
		return 1 // OP_0, OP_1NEGATE or OP_1..OP_16
	}
	bytes := 0
	m := n
	if m < 0 {
		m = -m
	}
	top := m
	for m > 0 {
		bytes++
		top = m
		m >>= 8
	}
	if top&0x80 != 0 {
		bytes++
	}
	return bytes + 1
}

func hashTerminal(kind Kind, h []byte, opsCount int) (*Fragment, er.R) {
	if len(h) != 32 && !(kind == KindRipemd160 || kind == KindHash160) {
		return nil, ErrTypeCheck.New("hash value must be 32 bytes", nil)
	}
	if (kind == KindRipemd160 || kind == KindHash160) && len(h) != 20 {
		return nil, ErrTypeCheck.New("hash value must be 20 bytes", nil)
	}
	return &Fragment{
		Kind: kind, Hash: h,
		Typ: Type{
			Base: BaseB, E: true, M: true, D: true, U: true, O: true,
			ScriptSize:            1 + 2 + 1 + 1 + 1 + len(h) + 1, // OP_SIZE <32> (2 bytes) OP_EQUALVERIFY OP_<hash> <h> (push + len(h)) OP_EQUAL
			MaxSatWitnessElements: 1,
			MaxSatSize:            preimageCost,
			OpsCount:              opsCount,
		},
	}, nil
}

// Sha256 builds the `sha256(H)` terminal, H a 32-byte digest.
func Sha256(h []byte) (*Fragment, er.R) { return hashTerminal(KindSha256, h, 4) }

// Hash256 builds the `hash256(H)` terminal, H a 32-byte digest.
func Hash256(h []byte) (*Fragment, er.R) { return hashTerminal(KindHash256, h, 4) }

// Ripemd160 builds the `ripemd160(H)` terminal, H a 20-byte digest.
func Ripemd160(h []byte) (*Fragment, er.R) { return hashTerminal(KindRipemd160, h, 4) }

// Hash160 builds the `hash160(H)` terminal, H a 20-byte digest.
func Hash160(h []byte) (*Fragment, er.R) { return hashTerminal(KindHash160, h, 4) }
