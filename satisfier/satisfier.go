// Package satisfier defines the pluggable oracle the witness constructor
// and interpreter consume when turning a miniscript fragment into a
// concrete witness: a pure lookup table from keys/hashes/locktimes to the
// evidence (signature, preimage, height decision) available to spend with.
package satisfier

import "github.com/pkt-cash/go-miniscript/key"

// EcdsaSig is a signature plus the sighash byte appended to it on the wire.
type EcdsaSig struct {
	Sig      []byte // DER-encoded, without the trailing sighash type byte
	HashType byte
}

// SchnorrSig is a 64-byte BIP-340 signature plus an optional non-default
// sighash byte (omitted entirely when the default sighash type is used).
type SchnorrSig struct {
	Sig      [64]byte
	HashType byte
	HasType  bool
}

// Satisfier is the oracle every query a miniscript fragment can make is
// answered through. Every method is pure and returns ok=false when the
// requested evidence is not available -- absence, not a parse error.
type Satisfier interface {
	// LookupECDSASig returns a signature for k under the legacy/segwitv0
	// ECDSA CHECKSIG/CHECKMULTISIG opcodes.
	LookupECDSASig(k key.Key) (EcdsaSig, bool)
	// LookupSchnorrSig returns a signature for k under the Tap Schnorr
	// CHECKSIG/CHECKSIGADD opcodes.
	LookupSchnorrSig(k key.Key) (SchnorrSig, bool)
	// LookupPkhPk resolves a pk_h hash to the full public key it commits
	// to, without necessarily having a signature for it.
	LookupPkhPk(h key.Hash) (key.Key, bool)
	// LookupPkhECDSASig resolves a pk_h hash directly to a key+signature
	// pair, the common case when satisfying pk_h in one step.
	LookupPkhECDSASig(h key.Hash) (key.Key, EcdsaSig, bool)
	// LookupSha256 returns a 32-byte preimage of h.
	LookupSha256(h []byte) ([]byte, bool)
	// LookupHash256 returns a 32-byte preimage of h (double-SHA256).
	LookupHash256(h []byte) ([]byte, bool)
	// LookupRipemd160 returns a 32-byte preimage of h.
	LookupRipemd160(h []byte) ([]byte, bool)
	// LookupHash160 returns a 32-byte preimage of h.
	LookupHash160(h []byte) ([]byte, bool)
	// CheckOlder reports whether the input's nSequence-relative locktime
	// of n units is already satisfied at broadcast time.
	CheckOlder(n uint32) bool
	// CheckAfter reports whether the transaction's nLockTime of n units
	// is already satisfied at broadcast time.
	CheckAfter(n uint32) bool
}
