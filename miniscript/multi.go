package miniscript

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/key"
)

// Multi builds the `multi(k,key1,...,keyn)` terminal: classic
// OP_CHECKMULTISIG, legal only under Legacy/Segwitv0 (spec.md §4.E --
// Tap has no CHECKMULTISIG opcode; use MultiA there).
func Multi(k int, keys []key.Key) (*Fragment, er.R) {
	n := len(keys)
	if k < 1 || n < k {
		return nil, ErrBadThreshold.New("multi threshold must satisfy 1 <= k <= n", nil)
	}
	size := 1 // OP_<k>
	for _, kk := range keys {
		size += 1 + kk.SerializedLen() // push opcode + key bytes
	}
	size += 1 + 1 // OP_<n> OP_CHECKMULTISIG
	return &Fragment{
		Kind: KindMulti, Thresh: k, Keys: append([]key.Key(nil), keys...),
		Typ: Type{
			Base: BaseB, S: true, E: true, M: true, D: true, U: true,
			ScriptSize:            size,
			MaxSatWitnessElements: k + 1, // k sigs plus the CHECKMULTISIG off-by-one dummy
			MaxSatSize:            1 + k*ecdsaSigCost,
			OpsCount:              1,
		},
	}, nil
}

// MultiA builds the `multi_a(k,key1,...,keyn)` terminal: the Tap-only
// `<key1> OP_CHECKSIG <key2> OP_CHECKSIGADD ... <keyn> OP_CHECKSIGADD <k>
// OP_NUMEQUAL` chain from BIP-342, which needs no off-by-one dummy and no
// arity cap beyond stack size.
func MultiA(k int, keys []key.Key) (*Fragment, er.R) {
	n := len(keys)
	if k < 1 || n < k {
		return nil, ErrBadThreshold.New("multi_a threshold must satisfy 1 <= k <= n", nil)
	}
	size := 0
	for i, kk := range keys {
		size += 1 + kk.SerializedLen()
		if i == 0 {
			size += 1 // OP_CHECKSIG
		} else {
			size += 1 // OP_CHECKSIGADD
		}
	}
	size += scriptNumPushSize(int64(k)) + 1 // <k> OP_NUMEQUAL
	return &Fragment{
		Kind: KindMultiA, Thresh: k, Keys: append([]key.Key(nil), keys...),
		Typ: Type{
			Base: BaseB, S: true, E: true, M: true, D: true, U: true,
			ScriptSize:            size,
			MaxSatWitnessElements: n, // one stack slot per key: real sig or empty
			MaxSatSize:            k*schnorrSigCost + (n-k)*1,
			OpsCount:               n,
		},
	}, nil
}
