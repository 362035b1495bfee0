package miniscript_test

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/pkt-cash/go-miniscript/context"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/miniscript"
)

func genKey(t *testing.T) key.Key {
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

func roundTrip(t *testing.T, f *miniscript.Fragment) *miniscript.Fragment {
	t.Helper()
	script, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode: %s", err.String())
	}
	inferred, ierr := miniscript.Infer(script, context.Legacy)
	if ierr != nil {
		t.Fatalf("Infer: %s", ierr.String())
	}
	script2, err := inferred.Encode()
	if err != nil {
		t.Fatalf("re-Encode: %s", err.String())
	}
	if !bytes.Equal(script, script2) {
		t.Fatalf("Encode/Infer did not round-trip: %x != %x", script, script2)
	}
	return inferred
}

func TestPkEncodeInferRoundTrip(t *testing.T) {
	k := genKey(t)
	pk, err := miniscript.PkK(k)
	if err != nil {
		t.Fatalf("PkK: %s", err.String())
	}
	ms, err := miniscript.Wrap('c', pk)
	if err != nil {
		t.Fatalf("Wrap(c): %s", err.String())
	}
	if ms.Typ.Base != miniscript.BaseB {
		t.Fatalf("c:pk_k must be type B, got %s", ms.Typ.Base)
	}
	roundTrip(t, ms)
}

func TestAndVRequiresVTypedFirstChild(t *testing.T) {
	k1, k2 := genKey(t), genKey(t)
	pk1, _ := miniscript.PkK(k1)
	b1, _ := miniscript.Wrap('c', pk1)
	pk2, _ := miniscript.PkK(k2)
	b2, _ := miniscript.Wrap('c', pk2)

	if _, err := miniscript.AndV(b1, b2); err == nil {
		t.Fatalf("and_v accepted a type-B first child; it must require type V")
	}
}

func TestAndVCombinesTwoKeys(t *testing.T) {
	k1, k2 := genKey(t), genKey(t)
	pk1, _ := miniscript.PkK(k1)
	c1, _ := miniscript.Wrap('c', pk1)
	v1, err := miniscript.Wrap('v', c1)
	if err != nil {
		t.Fatalf("Wrap(v): %s", err.String())
	}
	pk2, _ := miniscript.PkK(k2)
	b2, _ := miniscript.Wrap('c', pk2)

	ms, err := miniscript.AndV(v1, b2)
	if err != nil {
		t.Fatalf("AndV: %s", err.String())
	}
	if ms.Typ.Base != miniscript.BaseB {
		t.Fatalf("and_v(V,B) must be type B, got %s", ms.Typ.Base)
	}
	roundTrip(t, ms)
}

func TestThreshOfThreeKeysRoundTrips(t *testing.T) {
	var children []*miniscript.Fragment
	for i := 0; i < 3; i++ {
		pk, err := miniscript.PkK(genKey(t))
		if err != nil {
			t.Fatalf("PkK: %s", err.String())
		}
		b := mustWrapC(t, pk)
		if i == 0 {
			children = append(children, b)
			continue
		}
		w, werr := miniscript.Wrap('s', b)
		if werr != nil {
			t.Fatalf("Wrap(s): %s", werr.String())
		}
		children = append(children, w)
	}
	ms, err := miniscript.Thresh(2, children)
	if err != nil {
		t.Fatalf("Thresh: %s", err.String())
	}
	if ms.Typ.Base != miniscript.BaseB {
		t.Fatalf("thresh must be type B, got %s", ms.Typ.Base)
	}
	if !ms.Typ.D {
		t.Fatalf("thresh of checksig branches must be dissatisfiable")
	}
	roundTrip(t, ms)
}

func mustWrapC(t *testing.T, pk *miniscript.Fragment) *miniscript.Fragment {
	t.Helper()
	b, err := miniscript.Wrap('c', pk)
	if err != nil {
		t.Fatalf("Wrap(c): %s", err.String())
	}
	return b
}

func TestOlderAfterRoundTrip(t *testing.T) {
	older, err := miniscript.Older(144)
	if err != nil {
		t.Fatalf("Older: %s", err.String())
	}
	roundTrip(t, older)

	after, err := miniscript.After(500000000)
	if err != nil {
		t.Fatalf("After: %s", err.String())
	}
	roundTrip(t, after)
}

func TestMultiRoundTrip(t *testing.T) {
	k1, k2, k3 := genKey(t), genKey(t), genKey(t)
	ms, err := miniscript.Multi(2, []key.Key{k1, k2, k3})
	if err != nil {
		t.Fatalf("Multi: %s", err.String())
	}
	if ms.Typ.Base != miniscript.BaseB {
		t.Fatalf("multi must be type B, got %s", ms.Typ.Base)
	}
	inferred := roundTrip(t, ms)
	if inferred.Kind != miniscript.KindMulti {
		t.Fatalf("Infer did not recognize a multi(...) script, got kind %s", inferred.Kind.String())
	}
	if len(inferred.Keys) != 3 || inferred.Thresh != 2 {
		t.Fatalf("inferred multi has thresh=%d keys=%d, want thresh=2 keys=3", inferred.Thresh, len(inferred.Keys))
	}
}

func TestAndorRoundTrip(t *testing.T) {
	kx, ky, kz := genKey(t), genKey(t), genKey(t)
	pkx, _ := miniscript.PkK(kx)
	x := mustWrapC(t, pkx)
	pky, _ := miniscript.PkK(ky)
	y := mustWrapC(t, pky)
	pkz, _ := miniscript.PkK(kz)
	z := mustWrapC(t, pkz)

	ms, err := miniscript.Andor(x, y, z)
	if err != nil {
		t.Fatalf("Andor: %s", err.String())
	}
	if ms.Typ.Base != miniscript.BaseB {
		t.Fatalf("andor must be type B, got %s", ms.Typ.Base)
	}
	inferred := roundTrip(t, ms)
	if inferred.Kind != miniscript.KindAndor {
		t.Fatalf("Infer did not recognize an andor(...) script, got kind %s", inferred.Kind.String())
	}
	if len(inferred.Children) != 3 {
		t.Fatalf("inferred andor has %d children, want 3", len(inferred.Children))
	}
}

func TestOlderRejectsOutOfRange(t *testing.T) {
	if _, err := miniscript.Older(0); err == nil {
		t.Fatalf("Older(0) should be rejected")
	}
	if _, err := miniscript.Older(1 << 31); err == nil {
		t.Fatalf("Older(2^31) should be rejected")
	}
}
