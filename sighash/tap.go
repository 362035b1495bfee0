package sighash

import (
	"bytes"
	"crypto/sha256"

	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/txscript/params"
)

// TaggedHash is BIP-340's tagged hash construction, shared by every
// BIP-341 commitment (the sighash itself, and the tapleaf/tapbranch/
// taptweak hashes the control-block verifier in package interpreter
// also needs).
func TaggedHash(tag string, msg []byte) [32]byte {
	th := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(th[:])
	h.Write(th[:])
	h.Write(msg)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// TapLeafHash is BIP-341's `TapLeaf` commitment: TaggedHash("TapLeaf",
// leafVersion || compactsize(len(script)) || script).
func TapLeafHash(leafVersion byte, script []byte) [32]byte {
	var b bytes.Buffer
	b.WriteByte(leafVersion)
	writeVarBytes(&b, script)
	return TaggedHash("TapLeaf", b.Bytes())
}

// TapCache is the BIP-341 per-transaction aggregate hashes, the Taproot
// analogue of Cache: every input's outpoint, every prevout's amount and
// scriptPubKey, and every input's sequence, each hashed once up front.
type TapCache struct {
	ShaPrevouts     [32]byte
	ShaAmounts      [32]byte
	ShaScriptPubkeys [32]byte
	ShaSequences    [32]byte
	ShaOutputs      [32]byte
}

// NewTapCache builds the cache for tx against its parallel prevouts list
// (prevouts[i] is the output tx.TxIn[i] spends).
func NewTapCache(tx TxData, prevouts []TxOut) TapCache {
	var c TapCache
	var prevOutsBuf, amountsBuf, spksBuf, seqBuf, outputsBuf bytes.Buffer
	for _, in := range tx.TxIn {
		prevOutsBuf.Write(in.PreviousOutPoint.Hash[:])
		writeUint32LE(&prevOutsBuf, in.PreviousOutPoint.Index)
		writeUint32LE(&seqBuf, in.Sequence)
	}
	for _, po := range prevouts {
		writeUint64LE(&amountsBuf, uint64(po.Value))
		writeVarBytes(&spksBuf, po.PkScript)
	}
	for _, out := range tx.TxOut {
		writeUint64LE(&outputsBuf, uint64(out.Value))
		writeVarBytes(&outputsBuf, out.PkScript)
	}
	c.ShaPrevouts = sha256.Sum256(prevOutsBuf.Bytes())
	c.ShaAmounts = sha256.Sum256(amountsBuf.Bytes())
	c.ShaScriptPubkeys = sha256.Sum256(spksBuf.Bytes())
	c.ShaSequences = sha256.Sum256(seqBuf.Bytes())
	c.ShaOutputs = sha256.Sum256(outputsBuf.Bytes())
	return c
}

// TapScriptMessage computes the BIP-341 script-path sighash (the
// key-path case is identical with leafHash omitted -- extFlag 0 instead
// of 2 -- a simplification this toolkit does not need since it only
// infers script-path spends, per spec.md §9's CannotInferTrDescriptors
// stub for key-path). SIGHASH_SINGLE and SIGHASH_NONE are handled per
// BIP-341; no annex is ever committed to (spend_type always records none),
// and an ANYONECANPAY hash type returns ErrMissingPrevout. Codesep
// position is always reported as "none"
// (0xffffffff) since miniscript fragments never emit OP_CODESEPARATOR.
func TapScriptMessage(tx TxData, cache TapCache, idx int, leafHash [32]byte, hashType byte) ([32]byte, er.R) {
	var out [32]byte
	if idx < 0 || idx >= len(tx.TxIn) {
		return out, ErrIndexOutOfRange.New("input index out of range", nil)
	}
	anyoneCanPay := hashType&0x80 != 0
	sigHashType := hashType & 0x03 // 0=default/all, 1=all, 2=none, 3=single

	var b bytes.Buffer
	b.WriteByte(0x00) // epoch
	b.WriteByte(hashType)
	writeUint32LE(&b, uint32(tx.Version))
	writeUint32LE(&b, tx.LockTime)

	if !anyoneCanPay {
		b.Write(cache.ShaPrevouts[:])
		b.Write(cache.ShaAmounts[:])
		b.Write(cache.ShaScriptPubkeys[:])
		b.Write(cache.ShaSequences[:])
	}
	if sigHashType == 0x00 || sigHashType == 0x01 {
		b.Write(cache.ShaOutputs[:])
	}

	const extFlag = 1 // script-path spend
	spendType := byte(extFlag<<1) | 0       // annex never present
	b.WriteByte(spendType)

	if anyoneCanPay {
		return out, ErrMissingPrevout.New("ANYONECANPAY script-path sighash requires the spent prevout, not modeled by this adapter", nil)
	}
	writeUint32LE(&b, uint32(idx))

	if sigHashType == 0x03 {
		if idx >= len(tx.TxOut) {
			return out, ErrSigHashSingleOutOfRange.New("SIGHASH_SINGLE index out of range", nil)
		}
		var single bytes.Buffer
		writeUint64LE(&single, uint64(tx.TxOut[idx].Value))
		writeVarBytes(&single, tx.TxOut[idx].PkScript)
		h := sha256.Sum256(single.Bytes())
		b.Write(h[:])
	}

	b.Write(leafHash[:])
	b.WriteByte(0x00) // key_version
	writeUint32LE(&b, 0xffffffff)

	out = TaggedHash("TapSighash", b.Bytes())
	return out, nil
}
