package satisfier_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/satisfier"
)

func genFullKey(t *testing.T) key.FullKey {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	fk, kerr := key.ParseFullKey(priv.PubKey().SerializeCompressed())
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	return fk
}

func TestMapECDSASigLookup(t *testing.T) {
	m := satisfier.NewMap()
	k := genFullKey(t)

	if _, ok := m.LookupECDSASig(k); ok {
		t.Fatalf("expected no signature before PutECDSASig")
	}
	sig := satisfier.EcdsaSig{Sig: []byte{1, 2, 3}, HashType: 0x01}
	m.PutECDSASig(k, sig)

	got, ok := m.LookupECDSASig(k)
	if !ok {
		t.Fatalf("expected a signature after PutECDSASig")
	}
	if string(got.Sig) != string(sig.Sig) || got.HashType != sig.HashType {
		t.Fatalf("LookupECDSASig = %+v, want %+v", got, sig)
	}
}

func TestMapSchnorrSigLookup(t *testing.T) {
	m := satisfier.NewMap()
	k := genFullKey(t)

	sig := satisfier.SchnorrSig{Sig: [64]byte{1, 2, 3}, HashType: 0x02, HasType: true}
	m.PutSchnorrSig(k, sig)

	got, ok := m.LookupSchnorrSig(k)
	if !ok {
		t.Fatalf("expected a signature after PutSchnorrSig")
	}
	if got != sig {
		t.Fatalf("LookupSchnorrSig = %+v, want %+v", got, sig)
	}
}

func TestMapPkhLookup(t *testing.T) {
	m := satisfier.NewMap()
	k := genFullKey(t)
	h := k.Hash()

	if _, ok := m.LookupPkhPk(h); ok {
		t.Fatalf("expected no key before PutPkh")
	}

	sig := satisfier.EcdsaSig{Sig: []byte{4, 5, 6}, HashType: 0x01}
	m.PutPkh(k, sig)

	gotK, ok := m.LookupPkhPk(h)
	if !ok || gotK.String() != k.String() {
		t.Fatalf("LookupPkhPk = %v, %v; want %s, true", gotK, ok, k.String())
	}

	gotK2, gotSig, ok2 := m.LookupPkhECDSASig(h)
	if !ok2 || gotK2.String() != k.String() || string(gotSig.Sig) != string(sig.Sig) {
		t.Fatalf("LookupPkhECDSASig = %v, %+v, %v; want %s, %+v, true", gotK2, gotSig, ok2, k.String(), sig)
	}
}

func TestMapPreimageLookups(t *testing.T) {
	m := satisfier.NewMap()
	h := []byte("some-32-byte-hash-placeholder!!!")
	preimage := []byte("the-actual-preimage-bytes")

	if _, ok := m.LookupSha256(h); ok {
		t.Fatalf("expected no sha256 preimage before Put")
	}
	m.PutSha256Preimage(h, preimage)
	if got, ok := m.LookupSha256(h); !ok || string(got) != string(preimage) {
		t.Fatalf("LookupSha256 = %q, %v; want %q, true", got, ok, preimage)
	}

	m.PutHash256Preimage(h, preimage)
	if got, ok := m.LookupHash256(h); !ok || string(got) != string(preimage) {
		t.Fatalf("LookupHash256 = %q, %v; want %q, true", got, ok, preimage)
	}

	m.PutRipemd160Preimage(h, preimage)
	if got, ok := m.LookupRipemd160(h); !ok || string(got) != string(preimage) {
		t.Fatalf("LookupRipemd160 = %q, %v; want %q, true", got, ok, preimage)
	}

	m.PutHash160Preimage(h, preimage)
	if got, ok := m.LookupHash160(h); !ok || string(got) != string(preimage) {
		t.Fatalf("LookupHash160 = %q, %v; want %q, true", got, ok, preimage)
	}
}

func TestMapOlderAfterDefaultToFalse(t *testing.T) {
	m := satisfier.NewMap()
	if m.CheckOlder(144) {
		t.Fatalf("CheckOlder with no OlderOK set must default to false")
	}
	if m.CheckAfter(500000000) {
		t.Fatalf("CheckAfter with no AfterOK set must default to false")
	}
}

func TestMapOlderAfterCustomFuncs(t *testing.T) {
	m := satisfier.NewMap()
	m.OlderOK = func(n uint32) bool { return n <= 144 }
	m.AfterOK = func(n uint32) bool { return n >= 500000000 }

	if !m.CheckOlder(100) {
		t.Fatalf("CheckOlder(100) should be satisfied by n <= 144")
	}
	if m.CheckOlder(200) {
		t.Fatalf("CheckOlder(200) should not be satisfied by n <= 144")
	}
	if !m.CheckAfter(600000000) {
		t.Fatalf("CheckAfter(600000000) should be satisfied by n >= 500000000")
	}
	if m.CheckAfter(1) {
		t.Fatalf("CheckAfter(1) should not be satisfied by n >= 500000000")
	}
}
