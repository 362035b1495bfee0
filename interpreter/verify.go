package interpreter

import (
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/satisfier"
	"github.com/pkt-cash/go-miniscript/sighash"
)

// KeySigPair is the (key, signature) a checksig-shaped node presents for
// verification -- exactly one of EcdsaSig/SchnorrSig is set, matching
// which CHECKSIG family the node's context uses.
type KeySigPair struct {
	Key        key.Key
	EcdsaSig   *satisfier.EcdsaSig
	SchnorrSig *satisfier.SchnorrSig
}

// VerifyFunc decides whether a presented signature is acceptable. The
// three modes spec.md §4.I names -- iter, iter_assume_sigs, iter_custom --
// are three different VerifyFunc values handed to the same evaluator.
type VerifyFunc func(KeySigPair) bool

// AssumeValid is iter_assume_sigs(): any well-formed signature is
// accepted without cryptographic verification, for callers (e.g. fee
// estimation, weight computation) that only care about witness shape.
func AssumeValid(KeySigPair) bool { return true }

// DefaultVerifier is iter()'s verifier: it calls the real ECDSA/Schnorr
// verification routines against the message msgFn resolves for each
// signature's sighash-type byte.
func DefaultVerifier(msgFn sighash.MessageFunc) VerifyFunc {
	return func(p KeySigPair) bool {
		switch {
		case p.EcdsaSig != nil:
			fk, ok := p.Key.(key.FullKey)
			if !ok {
				return false
			}
			msg, err := msgFn(p.EcdsaSig.HashType)
			if err != nil {
				return false
			}
			sig, perr := ecdsa.ParseDERSignature(p.EcdsaSig.Sig)
			if perr != nil {
				return false
			}
			return sig.Verify(msg[:], fk.Underlying())
		case p.SchnorrSig != nil:
			hashType := byte(0)
			if p.SchnorrSig.HasType {
				hashType = p.SchnorrSig.HashType
			}
			msg, err := msgFn(hashType)
			if err != nil {
				return false
			}
			sig, perr := schnorr.ParseSignature(p.SchnorrSig.Sig[:])
			if perr != nil {
				return false
			}
			xk, ok := p.Key.(key.XOnlyKey)
			if !ok {
				return false
			}
			return sig.Verify(msg[:], xk.Underlying())
		default:
			return false
		}
	}
}
