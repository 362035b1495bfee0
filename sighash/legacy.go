package sighash

import (
	"bytes"

	"github.com/pkt-cash/go-miniscript/btcutil"
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/txscript/params"
)

// LegacyMessage computes the pre-segwit sighash (the original Satoshi
// algorithm, ported from the teacher's calcSignatureHash): the
// transaction is serialized with every input's script blanked out except
// idx's, which carries subScript (the redeem/witness script with
// OP_CODESEPARATOR already stripped by the caller), SigHashNone/Single
// additionally blank out outputs/sequence numbers, and the result is
// double-SHA256'd together with the little-endian hash type.
func LegacyMessage(tx TxData, idx int, subScript []byte, hashType params.SigHashType) ([32]byte, er.R) {
	var out [32]byte
	if idx < 0 || idx >= len(tx.TxIn) {
		return out, ErrIndexOutOfRange.New("input index out of range", nil)
	}

	// The historic SigHashSingle bug: an out-of-range output index signs
	// the hash 0x01...00 instead of failing.
	if hashType&params.SigHashMask == params.SigHashSingle && idx >= len(tx.TxOut) {
		out[0] = 0x01
		return out, nil
	}

	txCopy := copyTxData(tx)
	for i := range txCopy.TxIn {
		if i != idx {
			txCopy.TxIn[i].scriptSig = nil
		}
	}
	txCopy.TxIn[idx].scriptSig = subScript

	switch hashType & params.SigHashMask {
	case params.SigHashNone:
		txCopy.TxOut = nil
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}
	case params.SigHashSingle:
		txCopy.TxOut = txCopy.TxOut[:idx+1]
		for i := 0; i < idx; i++ {
			txCopy.TxOut[i].Value = -1
			txCopy.TxOut[i].PkScript = nil
		}
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}
	}
	if hashType&params.SigHashAnyOneCanPay != 0 {
		txCopy.TxIn = txCopy.TxIn[idx : idx+1]
	}

	var buf bytes.Buffer
	serializeLegacy(&buf, txCopy)
	writeUint32LE(&buf, uint32(hashType))
	copy(out[:], btcutil.Hash256(buf.Bytes()))
	return out, nil
}

// legacyTxIn carries the per-input scriptSig override computed above
// alongside the fields shared with TxIn.
type legacyTxIn struct {
	TxIn
	scriptSig []byte
}

type legacyTxCopy struct {
	Version  int32
	TxIn     []legacyTxIn
	TxOut    []TxOut
	LockTime uint32
}

func copyTxData(tx TxData) legacyTxCopy {
	ins := make([]legacyTxIn, len(tx.TxIn))
	for i, in := range tx.TxIn {
		ins[i] = legacyTxIn{TxIn: in}
	}
	outs := make([]TxOut, len(tx.TxOut))
	copy(outs, tx.TxOut)
	return legacyTxCopy{Version: tx.Version, TxIn: ins, TxOut: outs, LockTime: tx.LockTime}
}

func serializeLegacy(b *bytes.Buffer, tx legacyTxCopy) {
	writeUint32LE(b, uint32(tx.Version))
	writeVarInt(b, uint64(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		b.Write(in.PreviousOutPoint.Hash[:])
		writeUint32LE(b, in.PreviousOutPoint.Index)
		writeVarBytes(b, in.scriptSig)
		writeUint32LE(b, in.Sequence)
	}
	writeVarInt(b, uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		writeUint64LE(b, uint64(out.Value))
		writeVarBytes(b, out.PkScript)
	}
	writeUint32LE(b, tx.LockTime)
}
