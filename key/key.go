// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package key abstracts over the two public key shapes a miniscript can be
// built from: a full, possibly-uncompressed ECDSA key (FullKey, used under
// Legacy/Segwitv0) and a 32-byte x-only Schnorr key (XOnlyKey, used under
// Tap). Both implement the Key capability set spec.md §4.B describes so
// the rest of the toolkit -- miniscript fragments, descriptors, the
// witness constructor -- is written once against the interface.
package key

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/pkt-cash/go-miniscript/btcutil"
	"github.com/pkt-cash/go-miniscript/btcutil/er"
)

// Err is the error type for this package.
var Err = er.NewErrorType("key.Err")

var (
	// ErrPubkeyParse is returned when a byte string is not a valid
	// SEC1-encoded (33 or 65 byte) ECDSA public key.
	ErrPubkeyParse = Err.Code("ErrPubkeyParse")
	// ErrXOnlyPubkeyParse is returned when a byte string is not 32 bytes
	// or does not decode to a point on the curve.
	ErrXOnlyPubkeyParse = Err.Code("ErrXOnlyPubkeyParse")
)

// Hash is a fixed-length digest of a key, used by pk_h/multi-hash
// fragments. Legacy/Segwitv0 use a 20-byte HASH160; Tap has no pk_h
// fragment (x-only keys are compared directly), so Hash is only produced
// by FullKey.Hash().
type Hash [20]byte

// String renders the hash as lowercase hex, matching the teacher's
// convention for displaying binary identifiers in logs and error text.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Key is the capability set every public key type used by a miniscript
// fragment must provide (spec.md §4.B).
type Key interface {
	// IsUncompressed reports whether the serialized form is the 65-byte
	// uncompressed SEC1 encoding. Always false for XOnlyKey.
	IsUncompressed() bool
	// IsXOnly reports whether this is a 32-byte x-only (Schnorr) key.
	IsXOnly() bool
	// SerializedLen is the byte length this key will serialize to: 33,
	// 65, or 32.
	SerializedLen() int
	// Bytes returns the serialized key.
	Bytes() []byte
	// String renders the key as lowercase hex.
	String() string
}

// FullKey is a 33-byte compressed or 65-byte uncompressed ECDSA public key,
// used under the Legacy and Segwitv0 script contexts.
type FullKey struct {
	pub            *btcec.PublicKey
	uncompressed   bool
	uncompressedSer []byte
}

var _ Key = FullKey{}

// ParseFullKey parses a SEC1-encoded ECDSA public key (33 or 65 bytes).
func ParseFullKey(b []byte) (FullKey, er.R) {
	switch len(b) {
	case 33:
		pub, err := btcec.ParsePubKey(b)
		if err != nil {
			return FullKey{}, ErrPubkeyParse.New(err.Error(), nil)
		}
		return FullKey{pub: pub}, nil
	case 65:
		pub, err := btcec.ParsePubKey(b)
		if err != nil {
			return FullKey{}, ErrPubkeyParse.New(err.Error(), nil)
		}
		cp := make([]byte, 65)
		copy(cp, b)
		return FullKey{pub: pub, uncompressed: true, uncompressedSer: cp}, nil
	default:
		return FullKey{}, ErrPubkeyParse.New("public key must be 33 or 65 bytes", nil)
	}
}

func (k FullKey) IsUncompressed() bool { return k.uncompressed }
func (k FullKey) IsXOnly() bool        { return false }

func (k FullKey) SerializedLen() int {
	if k.uncompressed {
		return 65
	}
	return 33
}

func (k FullKey) Bytes() []byte {
	if k.uncompressed {
		return k.uncompressedSer
	}
	return k.pub.SerializeCompressed()
}

func (k FullKey) String() string {
	return hex.EncodeToString(k.Bytes())
}

// Compressed returns the 33-byte compressed serialization regardless of
// how this key was parsed. Hash and pk_k's encoding use Bytes() instead,
// so for a key parsed from 65 bytes they commit to the uncompressed form.
func (k FullKey) Compressed() []byte {
	return k.pub.SerializeCompressed()
}

// Underlying exposes the parsed curve point for the sighash/verification
// adapter (component J), which is outside this package's scope.
func (k FullKey) Underlying() *btcec.PublicKey {
	return k.pub
}

// Hash returns HASH160(Bytes()), matching consensus: HASH160 always
// hashes exactly the bytes pushed to the stack, which preserves the
// compressed/uncompressed distinction.
func (k FullKey) Hash() Hash {
	var out Hash
	copy(out[:], btcutil.Hash160(k.Bytes()))
	return out
}

// XOnlyKey is a 32-byte x-only public key used under the Tap script
// context (BIP-340).
type XOnlyKey struct {
	b [32]byte
}

var _ Key = XOnlyKey{}

// ParseXOnlyKey parses a 32-byte x-only public key, checking it lifts to a
// valid curve point.
func ParseXOnlyKey(b []byte) (XOnlyKey, er.R) {
	if len(b) != 32 {
		return XOnlyKey{}, ErrXOnlyPubkeyParse.New("x-only public key must be 32 bytes", nil)
	}
	if _, err := btcec.ParsePubKey(append([]byte{0x02}, b...)); err != nil {
		return XOnlyKey{}, ErrXOnlyPubkeyParse.New(err.Error(), nil)
	}
	var out XOnlyKey
	copy(out.b[:], b)
	return out, nil
}

func (k XOnlyKey) IsUncompressed() bool { return false }
func (k XOnlyKey) IsXOnly() bool        { return true }
func (k XOnlyKey) SerializedLen() int   { return 32 }
func (k XOnlyKey) Bytes() []byte        { return append([]byte(nil), k.b[:]...) }
func (k XOnlyKey) String() string       { return hex.EncodeToString(k.b[:]) }

// Underlying exposes the even-y-lifted curve point for the sighash/
// verification adapter (component J), mirroring FullKey.Underlying.
func (k XOnlyKey) Underlying() *btcec.PublicKey {
	pub, _ := btcec.ParsePubKey(append([]byte{0x02}, k.b[:]...))
	return pub
}
