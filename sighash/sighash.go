// Package sighash turns a (transaction, input index, prevouts, sighash
// type) quadruple into the 32-byte message an ECDSA/Schnorr verifier
// checks a signature against (spec.md §4.J). It knows nothing about
// miniscript; the interpreter and witness-signing callers hand it exactly
// the fields the three algorithms (pre-segwit, BIP-143, BIP-341) need.
//
// Deserializing an arbitrary network transaction is explicitly out of
// scope (spec.md §1's Non-goals): callers already hold a transaction in
// whatever form their own stack uses and adapt it to TxData once, here,
// at the boundary.
package sighash

import (
	"bytes"
	"encoding/binary"

	"github.com/pkt-cash/go-miniscript/btcutil"
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/txscript/params"
)

// Err is the error type for this package.
var Err = er.NewErrorType("sighash.Err")

var (
	// ErrIndexOutOfRange is returned when InputIdx is not a valid index
	// into Tx.TxIn.
	ErrIndexOutOfRange = Err.Code("ErrIndexOutOfRange")
	// ErrMissingPrevout is returned when Segwitv0/Tap sighash computation
	// needs a prevout amount/script this caller did not supply.
	ErrMissingPrevout = Err.Code("ErrMissingPrevout")
	// ErrSigHashSingleOutOfRange is returned for Tap SIGHASH_SINGLE at an
	// input index with no corresponding output (consensus-undefined).
	ErrSigHashSingleOutOfRange = Err.Code("ErrSigHashSingleOutOfRange")
)

// OutPoint identifies the output an input spends.
type OutPoint struct {
	Hash  [32]byte // txid, internal byte order (as in wire.OutPoint)
	Index uint32
}

// TxIn is the minimal input shape the sighash algorithms read: which
// output it spends and its nSequence. The scriptSig/witness themselves
// play no role in sighash computation (they are zeroed/ignored by every
// algorithm below) so they are not modeled here.
type TxIn struct {
	PreviousOutPoint OutPoint
	Sequence         uint32
}

// TxOut is one transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// TxData is the minimal, already-deserialized transaction shape the
// sighash algorithms consume -- exactly the fields BIP-143/BIP-341
// reference, nothing about how the caller obtained them.
type TxData struct {
	Version  int32
	TxIn     []TxIn
	TxOut    []TxOut
	LockTime uint32
}

func writeUint32LE(b *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}

func writeUint64LE(b *bytes.Buffer, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	b.Write(buf[:])
}

func writeVarInt(b *bytes.Buffer, n uint64) {
	switch {
	case n < 0xfd:
		b.WriteByte(byte(n))
	case n <= 0xffff:
		b.WriteByte(0xfd)
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(n))
		b.Write(buf[:])
	case n <= 0xffffffff:
		b.WriteByte(0xfe)
		writeUint32LE(b, uint32(n))
	default:
		b.WriteByte(0xff)
		writeUint64LE(b, n)
	}
}

func writeVarBytes(b *bytes.Buffer, data []byte) {
	writeVarInt(b, uint64(len(data)))
	b.Write(data)
}
