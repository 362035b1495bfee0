package interpreter_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/pkt-cash/go-miniscript/interpreter"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/satisfier"
	"github.com/pkt-cash/go-miniscript/sighash"
	"github.com/pkt-cash/go-miniscript/txscript/params"
	"github.com/pkt-cash/go-miniscript/txscript/scriptbuilder"
	"github.com/pkt-cash/go-miniscript/witness"
)

// fullKey generates a fresh ECDSA keypair and wraps the public half as a
// key.FullKey.
func fullKey(t *testing.T) (*btcec.PrivateKey, key.FullKey) {
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

// TestRoundTripMultisig builds a bare legacy 2-of-3 multi(...) miniscript,
// signs it for real with two of the three keys, constructs a satisfying
// witness with package witness, binds an Interpreter to the resulting
// scriptPubKey/scriptSig, and replays it -- asserting that every
// constraint the walk reports is a genuine satisfied public key, none of
// them is an error, and the two signing keys are exactly the ones
// reported. This exercises the same path the GetSatisfaction ->
// FromTxData -> Iter loop this toolkit's consumers are expected to use.
func TestRoundTripMultisig(t *testing.T) {
	priv1, k1 := fullKey(t)
	priv2, k2 := fullKey(t)
	_, k3 := fullKey(t)

	ms, err := miniscript.Multi(2, []key.Key{k1, k2, k3})
	if err != nil {
		t.Fatalf("Multi: %s", err.String())
	}
	spk, err := ms.Encode()
	if err != nil {
		t.Fatalf("Encode: %s", err.String())
	}

	tx := sighash.TxData{
		Version: 1,
		TxIn: []sighash.TxIn{
			{PreviousOutPoint: sighash.OutPoint{Index: 0}, Sequence: 0xffffffff},
		},
		TxOut: []sighash.TxOut{
			{Value: 100000, PkScript: []byte{0x6a}},
		},
		LockTime: 0,
	}
	oracle := sighash.NewLegacyOracle(tx, 0, spk)
	hashType := byte(params.SigHashAll)
	msg, serr := oracle.Message(hashType)
	if serr != nil {
		t.Fatalf("Message: %s", serr.String())
	}

	sig1 := ecdsa.Sign(priv1, msg[:])
	sig2 := ecdsa.Sign(priv2, msg[:])

	sm := satisfier.NewMap()
	sm.PutECDSASig(k1, satisfier.EcdsaSig{Sig: sig1.Serialize(), HashType: hashType})
	sm.PutECDSASig(k2, satisfier.EcdsaSig{Sig: sig2.Serialize(), HashType: hashType})

	wit, werr := witness.Satisfy(ms, sm, false)
	if werr != nil {
		t.Fatalf("Satisfy: %s", werr.String())
	}

	b := scriptbuilder.New()
	for _, item := range wit {
		b.AddData(item)
	}
	scriptSig, berr := b.Script()
	if berr != nil {
		t.Fatalf("Script: %s", berr.String())
	}

	in, ierr := interpreter.FromTxData(spk, scriptSig, nil, 0, 0)
	if ierr != nil {
		t.Fatalf("FromTxData: %s", ierr.String())
	}

	it := in.Iter(oracle.Message)
	signedBy := map[string]bool{}
	n := 0
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		n++
		if item.Err != nil {
			t.Fatalf("unexpected evaluation error: %s", item.Err.String())
		}
		if item.Constraint.PublicKey != nil {
			signedBy[item.Constraint.PublicKey.Key.String()] = true
		}
	}
	if n != 2 {
		t.Fatalf("expected 2 satisfied constraints, got %d", n)
	}
	if !signedBy[k1.String()] || !signedBy[k2.String()] {
		t.Fatalf("expected k1 and k2 to be reported as signers, got %v", signedBy)
	}
	if signedBy[k3.String()] {
		t.Fatalf("k3 never signed but was reported as a signer")
	}
}

// TestRoundTripMultisigRejectingVerifier mirrors the original worked
// example's third case: an iter_custom verifier that rejects every
// signature must leave every branch unsatisfied, and the replay must end
// in an error, not a false positive.
func TestRoundTripMultisigRejectingVerifier(t *testing.T) {
	priv1, k1 := fullKey(t)
	priv2, k2 := fullKey(t)

	ms, err := miniscript.Multi(2, []key.Key{k1, k2})
	if err != nil {
		t.Fatalf("Multi: %s", err.String())
	}
	spk, err := ms.Encode()
	if err != nil {
		t.Fatalf("Encode: %s", err.String())
	}

	tx := sighash.TxData{
		Version:  1,
		TxIn:     []sighash.TxIn{{PreviousOutPoint: sighash.OutPoint{Index: 0}, Sequence: 0xffffffff}},
		TxOut:    []sighash.TxOut{{Value: 1, PkScript: []byte{0x6a}}},
		LockTime: 0,
	}
	oracle := sighash.NewLegacyOracle(tx, 0, spk)
	hashType := byte(params.SigHashAll)
	msg, serr := oracle.Message(hashType)
	if serr != nil {
		t.Fatalf("Message: %s", serr.String())
	}

	sig1 := ecdsa.Sign(priv1, msg[:])
	sig2 := ecdsa.Sign(priv2, msg[:])

	sm := satisfier.NewMap()
	sm.PutECDSASig(k1, satisfier.EcdsaSig{Sig: sig1.Serialize(), HashType: hashType})
	sm.PutECDSASig(k2, satisfier.EcdsaSig{Sig: sig2.Serialize(), HashType: hashType})

	wit, werr := witness.Satisfy(ms, sm, false)
	if werr != nil {
		t.Fatalf("Satisfy: %s", werr.String())
	}
	b := scriptbuilder.New()
	for _, item := range wit {
		b.AddData(item)
	}
	scriptSig, berr := b.Script()
	if berr != nil {
		t.Fatalf("Script: %s", berr.String())
	}

	in, ierr := interpreter.FromTxData(spk, scriptSig, nil, 0, 0)
	if ierr != nil {
		t.Fatalf("FromTxData: %s", ierr.String())
	}

	it := in.IterCustom(func(interpreter.KeySigPair) bool { return false })
	var lastErr bool
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		lastErr = item.Err != nil
	}
	if !lastErr {
		t.Fatalf("expected the replay to end in an error when no signature verifies")
	}
}
