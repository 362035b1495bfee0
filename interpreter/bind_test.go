package interpreter_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/pkt-cash/go-miniscript/interpreter"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/sighash"
	"github.com/pkt-cash/go-miniscript/txscript/opcode"
	"github.com/pkt-cash/go-miniscript/txscript/params"
	"github.com/pkt-cash/go-miniscript/txscript/scriptbuilder"
)

func buildP2WPKH(t *testing.T, hash key.Hash) []byte {
	t.Helper()
	b := scriptbuilder.New()
	b.AddOp(opcode.OP_0).AddData(hash[:])
	spk, err := b.Script()
	if err != nil {
		t.Fatalf("Script: %s", err.String())
	}
	return spk
}

func TestFromTxDataP2WPKHRoundTrip(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	fk, kerr := key.ParseFullKey(priv.PubKey().SerializeCompressed())
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	hash := fk.Hash()
	spk := buildP2WPKH(t, hash)

	pkh, perr := miniscript.PkH(hash)
	if perr != nil {
		t.Fatalf("PkH: %s", perr.String())
	}
	ms, werr := miniscript.Wrap('c', pkh)
	if werr != nil {
		t.Fatalf("Wrap(c): %s", werr.String())
	}
	scriptCode, eerr := ms.Encode()
	if eerr != nil {
		t.Fatalf("Encode: %s", eerr.String())
	}

	tx := sighash.TxData{
		Version:  1,
		TxIn:     []sighash.TxIn{{PreviousOutPoint: sighash.OutPoint{Index: 0}, Sequence: 0xffffffff}},
		TxOut:    []sighash.TxOut{{Value: 1, PkScript: []byte{0x6a}}},
		LockTime: 0,
	}
	amount := int64(100000)
	oracle := sighash.NewSegwitV0Oracle(tx, 0, scriptCode, amount, nil)
	hashType := byte(params.SigHashAll)
	msg, serr := oracle.Message(hashType)
	if serr != nil {
		t.Fatalf("Message: %s", serr.String())
	}
	sig := ecdsa.Sign(priv, msg[:])
	sigBytes := append(sig.Serialize(), hashType)

	wit := [][]byte{sigBytes, fk.Bytes()}
	in, ierr := interpreter.FromTxData(spk, nil, wit, 0, 0)
	if ierr != nil {
		t.Fatalf("FromTxData: %s", ierr.String())
	}

	it := in.Iter(oracle.Message)
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
		if item.Constraint.PublicKeyHash == nil {
			t.Fatalf("expected a PublicKeyHash constraint, got %+v", item.Constraint)
		}
		if item.Constraint.PublicKeyHash.Key.String() != fk.String() {
			t.Fatalf("constraint key = %s, want %s", item.Constraint.PublicKeyHash.Key.String(), fk.String())
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 satisfied constraint, got %d", n)
	}
}

func TestFromTxDataP2WPKHRejectsWrongWitnessShape(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	fk, kerr := key.ParseFullKey(priv.PubKey().SerializeCompressed())
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	hash := fk.Hash()
	spk := buildP2WPKH(t, hash)

	// A P2WPKH witness must have exactly 2 elements.
	if _, ierr := interpreter.FromTxData(spk, nil, [][]byte{{1, 2, 3}}, 0, 0); ierr == nil {
		t.Fatalf("expected an error for a malformed P2WPKH witness")
	}
}

func TestFromTxDataP2WPKHRejectsMismatchedHash(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	fk, kerr := key.ParseFullKey(priv.PubKey().SerializeCompressed())
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	var wrongHash key.Hash
	copy(wrongHash[:], []byte("the wrong twenty byte hash!"))
	spk := buildP2WPKH(t, wrongHash)

	wit := [][]byte{{1, 2, 3}, fk.Bytes()}
	if _, ierr := interpreter.FromTxData(spk, nil, wit, 0, 0); ierr == nil {
		t.Fatalf("expected an error when the witness pubkey does not hash to the program")
	}
}

func TestFromTxDataP2WPKHRejectsNonEmptyScriptSig(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	fk, kerr := key.ParseFullKey(priv.PubKey().SerializeCompressed())
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	hash := fk.Hash()
	spk := buildP2WPKH(t, hash)

	wit := [][]byte{{1, 2, 3}, fk.Bytes()}
	if _, ierr := interpreter.FromTxData(spk, []byte{opcode.OP_1}, wit, 0, 0); ierr == nil {
		t.Fatalf("expected an error for a native P2WPKH spend with a non-empty scriptSig")
	}
}
