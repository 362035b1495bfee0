package descriptor

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/satisfier"
	"github.com/pkt-cash/go-miniscript/witness"
)

// Wpkh is `wpkh(pk)`: the plain P2WPKH output, with no witness script of
// its own -- the witness program directly commits to hash160(pk).
type Wpkh struct {
	Key key.FullKey
}

// NewWpkh requires a compressed key: Segwit v0 rejects uncompressed keys
// (original_source/descriptor/segwitv0.go's CompressedOnly check).
func NewWpkh(k key.FullKey) (Wpkh, er.R) {
	if k.IsUncompressed() {
		return Wpkh{}, ErrCompressedOnly.New("wpkh requires a compressed key: "+k.String(), nil)
	}
	return Wpkh{Key: k}, nil
}

// ScriptPubKey is `OP_0 <20-byte-hash160(pk)>`.
func (d Wpkh) ScriptPubKey() []byte {
	h := d.Key.Hash()
	out := make([]byte, 0, 22)
	out = append(out, 0x00, 20)
	out = append(out, h[:]...)
	return out
}

// InnerScript returns the scriptPubKey itself: a wpkh output has no
// separate witness script, so "inner script" and "script pubkey"
// coincide (unlike wsh, where they differ: witness script vs. its
// sha256 commitment).
func (d Wpkh) InnerScript() []byte {
	return d.ScriptPubKey()
}

// EcdsaSighashScriptCode is the BIP-143 P2PKH-shaped scriptCode
// `0x1976a914{20-byte-hash}88ac`, distinct from ScriptPubKey.
func (d Wpkh) EcdsaSighashScriptCode() []byte {
	h := d.Key.Hash()
	out := make([]byte, 0, 25)
	out = append(out, 0x76, 0xa9, 0x14)
	out = append(out, h[:]...)
	out = append(out, 0x88, 0xac)
	return out
}

// SanityCheck re-validates the key is compressed.
func (d Wpkh) SanityCheck() er.R {
	if d.Key.IsUncompressed() {
		return ErrCompressedOnly.New("wpkh requires a compressed key: "+d.Key.String(), nil)
	}
	return nil
}

// MaxSatisfactionWeight is the fixed P2WPKH witness weight: a
// scriptSig-length byte, a 2-element witness (sig, pubkey), the
// worst-case 73-byte ECDSA signature, and the key's serialized length.
func (d Wpkh) MaxSatisfactionWeight() int {
	return 4 + 1 + 73 + d.Key.SerializedLen()
}

// GetSatisfaction returns witness=[sig, pk] and an empty scriptSig.
func (d Wpkh) GetSatisfaction(s satisfier.Satisfier) (witness.Stack, []byte, er.R) {
	sig, ok := s.LookupECDSASig(d.Key)
	if !ok {
		return nil, nil, witness.ErrCouldNotSatisfy.New("no signature available for "+d.Key.String(), nil)
	}
	sigBytes := append(append([]byte{}, sig.Sig...), sig.HashType)
	return witness.Stack{sigBytes, d.Key.Bytes()}, nil, nil
}

// GetSatisfactionMall is identical to GetSatisfaction: a single ECDSA
// signature has no malleable alternative witness.
func (d Wpkh) GetSatisfactionMall(s satisfier.Satisfier) (witness.Stack, []byte, er.R) {
	return d.GetSatisfaction(s)
}
