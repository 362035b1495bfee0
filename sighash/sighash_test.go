package sighash_test

import (
	"testing"

	"github.com/pkt-cash/go-miniscript/sighash"
	"github.com/pkt-cash/go-miniscript/txscript/params"
)

func sampleTx() sighash.TxData {
	return sighash.TxData{
		Version: 1,
		TxIn: []sighash.TxIn{
			{PreviousOutPoint: sighash.OutPoint{Index: 0}, Sequence: 0xffffffff},
		},
		TxOut: []sighash.TxOut{
			{Value: 50000, PkScript: []byte{0x76, 0xa9, 0x14}},
		},
		LockTime: 0,
	}
}

func TestLegacyMessageDeterministic(t *testing.T) {
	tx := sampleTx()
	subScript := []byte{0x51} // OP_TRUE, a placeholder scriptCode

	m1, err := sighash.LegacyMessage(tx, 0, subScript, params.SigHashAll)
	if err != nil {
		t.Fatalf("LegacyMessage: %s", err.String())
	}
	m2, err := sighash.LegacyMessage(tx, 0, subScript, params.SigHashAll)
	if err != nil {
		t.Fatalf("LegacyMessage: %s", err.String())
	}
	if m1 != m2 {
		t.Fatalf("LegacyMessage is not deterministic for identical inputs")
	}
}

func TestLegacyMessageVariesByHashType(t *testing.T) {
	tx := sampleTx()
	subScript := []byte{0x51}

	all, err := sighash.LegacyMessage(tx, 0, subScript, params.SigHashAll)
	if err != nil {
		t.Fatalf("LegacyMessage(All): %s", err.String())
	}
	none, err := sighash.LegacyMessage(tx, 0, subScript, params.SigHashNone)
	if err != nil {
		t.Fatalf("LegacyMessage(None): %s", err.String())
	}
	if all == none {
		t.Fatalf("LegacyMessage must differ between SigHashAll and SigHashNone")
	}
}

func TestLegacyMessageRejectsOutOfRangeIndex(t *testing.T) {
	tx := sampleTx()
	if _, err := sighash.LegacyMessage(tx, 5, []byte{0x51}, params.SigHashAll); err == nil {
		t.Fatalf("expected an error for an out-of-range input index")
	}
}

func TestSegwitV0MessageVariesByAmount(t *testing.T) {
	tx := sampleTx()
	cache := sighash.NewCache(tx)
	subScript := []byte{0x51}

	m1, err := sighash.SegwitV0Message(tx, cache, 0, subScript, 1000, params.SigHashAll)
	if err != nil {
		t.Fatalf("SegwitV0Message: %s", err.String())
	}
	m2, err := sighash.SegwitV0Message(tx, cache, 0, subScript, 2000, params.SigHashAll)
	if err != nil {
		t.Fatalf("SegwitV0Message: %s", err.String())
	}
	if m1 == m2 {
		t.Fatalf("SegwitV0Message must commit to the prevout amount")
	}
}

func TestSegwitV0MessageRejectsOutOfRangeIndex(t *testing.T) {
	tx := sampleTx()
	cache := sighash.NewCache(tx)
	if _, err := sighash.SegwitV0Message(tx, cache, 9, []byte{0x51}, 1000, params.SigHashAll); err == nil {
		t.Fatalf("expected an error for an out-of-range input index")
	}
}

func TestOracleDispatchesByKind(t *testing.T) {
	tx := sampleTx()
	subScript := []byte{0x51}

	legacy := sighash.NewLegacyOracle(tx, 0, subScript)
	lm, err := legacy.Message(byte(params.SigHashAll))
	if err != nil {
		t.Fatalf("legacy Oracle.Message: %s", err.String())
	}
	want, werr := sighash.LegacyMessage(tx, 0, subScript, params.SigHashAll)
	if werr != nil {
		t.Fatalf("LegacyMessage: %s", werr.String())
	}
	if lm != want {
		t.Fatalf("legacy Oracle.Message did not match direct LegacyMessage call")
	}

	segwit := sighash.NewSegwitV0Oracle(tx, 0, subScript, 1000, nil)
	sm, serr := segwit.Message(byte(params.SigHashAll))
	if serr != nil {
		t.Fatalf("segwit Oracle.Message: %s", serr.String())
	}
	if sm == lm {
		t.Fatalf("legacy and segwitv0 sighash algorithms should not coincidentally match")
	}
}
