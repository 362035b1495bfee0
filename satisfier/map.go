package satisfier

import "github.com/pkt-cash/go-miniscript/key"

// Map is a concrete, in-memory Satisfier backed by plain maps -- the
// straightforward oracle a caller builds once it has collected the
// signatures and preimages it intends to spend with, and the one used
// throughout this module's own tests.
type Map struct {
	ECDSASigs    map[string]EcdsaSig
	SchnorrSigs  map[string]SchnorrSig
	PkhPks       map[key.Hash]key.Key
	PkhECDSASigs map[key.Hash]pkhECDSAEntry
	Sha256Preimg map[string][]byte
	Hash256Preimg map[string][]byte
	Ripemd160Preimg map[string][]byte
	Hash160Preimg map[string][]byte
	OlderOK      func(n uint32) bool
	AfterOK      func(n uint32) bool
}

type pkhECDSAEntry struct {
	k   key.Key
	sig EcdsaSig
}

// NewMap returns an empty Map ready to have evidence added to it.
func NewMap() *Map {
	return &Map{
		ECDSASigs:       map[string]EcdsaSig{},
		SchnorrSigs:     map[string]SchnorrSig{},
		PkhPks:          map[key.Hash]key.Key{},
		PkhECDSASigs:    map[key.Hash]pkhECDSAEntry{},
		Sha256Preimg:    map[string][]byte{},
		Hash256Preimg:   map[string][]byte{},
		Ripemd160Preimg: map[string][]byte{},
		Hash160Preimg:   map[string][]byte{},
	}
}

// PutECDSASig records a signature for k.
func (m *Map) PutECDSASig(k key.Key, sig EcdsaSig) {
	m.ECDSASigs[k.String()] = sig
}

// PutSchnorrSig records a signature for k.
func (m *Map) PutSchnorrSig(k key.Key, sig SchnorrSig) {
	m.SchnorrSigs[k.String()] = sig
}

// PutPkh records both the preimage key and a signature for it, reachable
// from either the pk_h hash-only query or the combined key+signature one.
func (m *Map) PutPkh(k key.FullKey, sig EcdsaSig) {
	h := k.Hash()
	m.PkhPks[h] = k
	m.PkhECDSASigs[h] = pkhECDSAEntry{k: k, sig: sig}
}

// PutSha256Preimage, PutHash256Preimage, PutRipemd160Preimage and
// PutHash160Preimage each record preimage for h under that one hash
// function only.
func (m *Map) PutSha256Preimage(h, preimage []byte)    { m.Sha256Preimg[string(h)] = preimage }
func (m *Map) PutHash256Preimage(h, preimage []byte)   { m.Hash256Preimg[string(h)] = preimage }
func (m *Map) PutRipemd160Preimage(h, preimage []byte) { m.Ripemd160Preimg[string(h)] = preimage }
func (m *Map) PutHash160Preimage(h, preimage []byte)   { m.Hash160Preimg[string(h)] = preimage }

func (m *Map) LookupECDSASig(k key.Key) (EcdsaSig, bool) {
	s, ok := m.ECDSASigs[k.String()]
	return s, ok
}

func (m *Map) LookupSchnorrSig(k key.Key) (SchnorrSig, bool) {
	s, ok := m.SchnorrSigs[k.String()]
	return s, ok
}

func (m *Map) LookupPkhPk(h key.Hash) (key.Key, bool) {
	k, ok := m.PkhPks[h]
	return k, ok
}

func (m *Map) LookupPkhECDSASig(h key.Hash) (key.Key, EcdsaSig, bool) {
	e, ok := m.PkhECDSASigs[h]
	return e.k, e.sig, ok
}

func (m *Map) LookupSha256(h []byte) ([]byte, bool) {
	p, ok := m.Sha256Preimg[string(h)]
	return p, ok
}

func (m *Map) LookupHash256(h []byte) ([]byte, bool) {
	p, ok := m.Hash256Preimg[string(h)]
	return p, ok
}

func (m *Map) LookupRipemd160(h []byte) ([]byte, bool) {
	p, ok := m.Ripemd160Preimg[string(h)]
	return p, ok
}

func (m *Map) LookupHash160(h []byte) ([]byte, bool) {
	p, ok := m.Hash160Preimg[string(h)]
	return p, ok
}

func (m *Map) CheckOlder(n uint32) bool {
	if m.OlderOK == nil {
		return false
	}
	return m.OlderOK(n)
}

func (m *Map) CheckAfter(n uint32) bool {
	if m.AfterOK == nil {
		return false
	}
	return m.AfterOK(n)
}

var _ Satisfier = (*Map)(nil)
