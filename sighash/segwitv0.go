package sighash

import (
	"bytes"

	"github.com/pkt-cash/go-miniscript/btcutil"
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/txscript/params"
)

// Cache holds the three BIP-143 aggregate hashes that are identical for
// every SigHashAll input of a given transaction, so a caller signing or
// verifying several inputs only pays for them once (the teacher's
// TxSigHashes/calcHashPrevOuts/calcHashSequence/calcHashOutputs, ported
// unchanged in shape).
type Cache struct {
	HashPrevOuts [32]byte
	HashSequence [32]byte
	HashOutputs  [32]byte
}

// NewCache builds the cache for tx. It is read-only once constructed and
// may be shared across every input of the same transaction (spec.md §5).
func NewCache(tx TxData) Cache {
	var c Cache
	var prevOuts bytes.Buffer
	var sequence bytes.Buffer
	for _, in := range tx.TxIn {
		prevOuts.Write(in.PreviousOutPoint.Hash[:])
		writeUint32LE(&prevOuts, in.PreviousOutPoint.Index)
		writeUint32LE(&sequence, in.Sequence)
	}
	copy(c.HashPrevOuts[:], btcutil.Hash256(prevOuts.Bytes()))
	copy(c.HashSequence[:], btcutil.Hash256(sequence.Bytes()))

	var outputs bytes.Buffer
	for _, out := range tx.TxOut {
		writeUint64LE(&outputs, uint64(out.Value))
		writeVarBytes(&outputs, out.PkScript)
	}
	copy(c.HashOutputs[:], btcutil.Hash256(outputs.Bytes()))
	return c
}

// SegwitV0Message computes the BIP-143 sighash for input idx of tx,
// signing over subScript (the witness script for P2WSH, or the
// P2PKH-shaped scriptCode for P2WPKH) and amount (the prevout value the
// witness additionally commits to).
func SegwitV0Message(tx TxData, cache Cache, idx int, subScript []byte, amount int64, hashType params.SigHashType) ([32]byte, er.R) {
	var out [32]byte
	if idx < 0 || idx >= len(tx.TxIn) {
		return out, ErrIndexOutOfRange.New("input index out of range", nil)
	}
	in := tx.TxIn[idx]

	var b bytes.Buffer
	writeUint32LE(&b, uint32(tx.Version))

	var zero [32]byte
	if hashType&params.SigHashAnyOneCanPay == 0 {
		b.Write(cache.HashPrevOuts[:])
	} else {
		b.Write(zero[:])
	}
	if hashType&params.SigHashAnyOneCanPay == 0 &&
		hashType&params.SigHashMask != params.SigHashSingle &&
		hashType&params.SigHashMask != params.SigHashNone {
		b.Write(cache.HashSequence[:])
	} else {
		b.Write(zero[:])
	}

	b.Write(in.PreviousOutPoint.Hash[:])
	writeUint32LE(&b, in.PreviousOutPoint.Index)
	writeVarBytes(&b, subScript)
	writeUint64LE(&b, uint64(amount))
	writeUint32LE(&b, in.Sequence)

	if hashType&params.SigHashMask != params.SigHashSingle &&
		hashType&params.SigHashMask != params.SigHashNone {
		b.Write(cache.HashOutputs[:])
	} else if hashType&params.SigHashMask == params.SigHashSingle && idx < len(tx.TxOut) {
		var single bytes.Buffer
		writeUint64LE(&single, uint64(tx.TxOut[idx].Value))
		writeVarBytes(&single, tx.TxOut[idx].PkScript)
		b.Write(btcutil.Hash256(single.Bytes()))
	} else {
		b.Write(zero[:])
	}

	writeUint32LE(&b, tx.LockTime)
	writeUint32LE(&b, uint32(hashType))

	copy(out[:], btcutil.Hash256(b.Bytes()))
	return out, nil
}
