package sighash

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/context"
	"github.com/pkt-cash/go-miniscript/txscript/params"
)

// MessageFunc resolves a signature's trailing sighash-type byte to the
// 32-byte message the interpreter (or a signer) must verify/produce a
// signature over. The Oracle below is the only constructor package
// interpreter needs; MessageFunc is the narrow capability it actually
// consumes, so the interpreter package stays decoupled from TxData.
type MessageFunc func(hashType byte) ([32]byte, er.R)

// Oracle bundles one input's spend context -- which context it is spent
// under, the subScript/leaf that context signs over, and (for
// Segwitv0/Tap) the amount and sibling prevouts BIP-143/BIP-341 mix into
// the message -- so repeated Message() calls for different candidate
// signatures on the same input amortize the aggregate-hash caches.
type Oracle struct {
	Kind      context.Context
	Tx        TxData
	InputIdx  int
	SubScript []byte // Legacy/Segwitv0 scriptCode, or the Tap leaf script
	Amount    int64  // Segwitv0/Tap only

	segwitCache  *Cache
	tapCache     *TapCache
	tapLeafHash  [32]byte
}

// NewLegacyOracle builds an Oracle for a Legacy (pre-segwit) spend.
func NewLegacyOracle(tx TxData, inputIdx int, subScript []byte) *Oracle {
	return &Oracle{Kind: context.Legacy, Tx: tx, InputIdx: inputIdx, SubScript: subScript}
}

// NewSegwitV0Oracle builds an Oracle for a P2WSH/P2WPKH spend. cache may
// be nil, in which case it is computed on the first Message call and kept
// for later calls on this Oracle only -- pass a shared *Cache when
// verifying multiple inputs of tx.
func NewSegwitV0Oracle(tx TxData, inputIdx int, subScript []byte, amount int64, cache *Cache) *Oracle {
	return &Oracle{Kind: context.Segwitv0, Tx: tx, InputIdx: inputIdx, SubScript: subScript, Amount: amount, segwitCache: cache}
}

// NewTapScriptOracle builds an Oracle for a Taproot script-path spend
// against tapleaf script leafScript (leafVersion ordinarily 0xc0).
func NewTapScriptOracle(tx TxData, prevouts []TxOut, inputIdx int, leafVersion byte, leafScript []byte) *Oracle {
	cache := NewTapCache(tx, prevouts)
	return &Oracle{
		Kind:        context.Tap,
		Tx:          tx,
		InputIdx:    inputIdx,
		SubScript:   leafScript,
		tapCache:    &cache,
		tapLeafHash: TapLeafHash(leafVersion, leafScript),
	}
}

// Message implements MessageFunc, dispatching on o.Kind.
func (o *Oracle) Message(hashType byte) ([32]byte, er.R) {
	switch o.Kind {
	case context.Legacy:
		return LegacyMessage(o.Tx, o.InputIdx, o.SubScript, params.SigHashType(hashType))
	case context.Segwitv0:
		if o.segwitCache == nil {
			c := NewCache(o.Tx)
			o.segwitCache = &c
		}
		return SegwitV0Message(o.Tx, *o.segwitCache, o.InputIdx, o.SubScript, o.Amount, params.SigHashType(hashType))
	case context.Tap:
		return TapScriptMessage(o.Tx, *o.tapCache, o.InputIdx, o.tapLeafHash, hashType)
	default:
		var out [32]byte
		return out, ErrIndexOutOfRange.New("unrecognized script context", nil)
	}
}
