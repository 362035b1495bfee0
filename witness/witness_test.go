package witness_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/satisfier"
	"github.com/pkt-cash/go-miniscript/witness"
)

func genFullKey(t *testing.T) (*btcec.PrivateKey, key.FullKey) {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	fk, kerr := key.ParseFullKey(priv.PubKey().SerializeCompressed())
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	return priv, fk
}

func ecdsaSigFor(priv *btcec.PrivateKey, msg [32]byte, hashType byte) satisfier.EcdsaSig {
	sig := ecdsa.Sign(priv, msg[:])
	return satisfier.EcdsaSig{Sig: sig.Serialize(), HashType: hashType}
}

func TestSatisfyPkKSingleSig(t *testing.T) {
	priv, k := genFullKey(t)
	pk, err := miniscript.PkK(k)
	if err != nil {
		t.Fatalf("PkK: %s", err.String())
	}
	ms, err := miniscript.Wrap('c', pk)
	if err != nil {
		t.Fatalf("Wrap(c): %s", err.String())
	}

	var msg [32]byte
	copy(msg[:], []byte("deterministic placeholder message for sig!"))
	es := ecdsaSigFor(priv, msg, 0x01)

	sm := satisfier.NewMap()
	sm.PutECDSASig(k, es)

	stack, werr := witness.Satisfy(ms, sm, false)
	if werr != nil {
		t.Fatalf("Satisfy: %s", werr.String())
	}
	if len(stack) != 1 {
		t.Fatalf("expected a 1-element witness, got %d", len(stack))
	}
	if len(stack[0]) != len(es.Sig)+1 {
		t.Fatalf("witness element length = %d, want %d", len(stack[0]), len(es.Sig)+1)
	}
	if stack[0][len(stack[0])-1] != es.HashType {
		t.Fatalf("witness element did not end with the sighash type byte")
	}
}

func TestSatisfyFailsWithoutEvidence(t *testing.T) {
	_, k := genFullKey(t)
	pk, err := miniscript.PkK(k)
	if err != nil {
		t.Fatalf("PkK: %s", err.String())
	}
	ms, err := miniscript.Wrap('c', pk)
	if err != nil {
		t.Fatalf("Wrap(c): %s", err.String())
	}

	sm := satisfier.NewMap()
	if _, werr := witness.Satisfy(ms, sm, false); werr == nil {
		t.Fatalf("expected Satisfy to fail with no signature available")
	}
}

func TestSatisfyOrIPicksTheAvailableBranch(t *testing.T) {
	priv1, k1 := genFullKey(t)
	_, k2 := genFullKey(t)

	pk1, _ := miniscript.PkK(k1)
	x, err := miniscript.Wrap('c', pk1)
	if err != nil {
		t.Fatalf("Wrap(c): %s", err.String())
	}
	pk2, _ := miniscript.PkK(k2)
	z, err := miniscript.Wrap('c', pk2)
	if err != nil {
		t.Fatalf("Wrap(c): %s", err.String())
	}

	ms, err := miniscript.OrI(x, z)
	if err != nil {
		t.Fatalf("OrI: %s", err.String())
	}

	var msg [32]byte
	copy(msg[:], []byte("another deterministic placeholder message!!"))
	es := ecdsaSigFor(priv1, msg, 0x01)

	sm := satisfier.NewMap()
	sm.PutECDSASig(k1, es) // only the first branch has a signature available

	stack, werr := witness.Satisfy(ms, sm, false)
	if werr != nil {
		t.Fatalf("Satisfy: %s", werr.String())
	}
	// Expect [sig, <selector=1>] bottom-to-top: the selector is consumed
	// by OP_IF first, so it sits on top.
	if len(stack) != 2 {
		t.Fatalf("expected a 2-element witness (sig + selector), got %d", len(stack))
	}
	if len(stack[1]) != 1 || stack[1][0] != 1 {
		t.Fatalf("top witness element should be the true-branch selector byte, got %x", stack[1])
	}
}

func TestSatisfyMultiRequiresThreshold(t *testing.T) {
	priv1, k1 := genFullKey(t)
	_, k2 := genFullKey(t)
	_, k3 := genFullKey(t)

	ms, err := miniscript.Multi(2, []key.Key{k1, k2, k3})
	if err != nil {
		t.Fatalf("Multi: %s", err.String())
	}

	var msg [32]byte
	copy(msg[:], []byte("yet another deterministic message for sign!!"))
	es := ecdsaSigFor(priv1, msg, 0x01)

	sm := satisfier.NewMap()
	sm.PutECDSASig(k1, es)

	// Only one of the two required signatures is available.
	if _, werr := witness.Satisfy(ms, sm, false); werr == nil {
		t.Fatalf("expected Satisfy to fail with only 1 of 2 required signatures")
	}
}
