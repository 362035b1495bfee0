package parsescript_test

import (
	"testing"

	"github.com/pkt-cash/go-miniscript/txscript/opcode"
	"github.com/pkt-cash/go-miniscript/txscript/parsescript"
)

func TestParseScriptSimpleOpcodes(t *testing.T) {
	script := []byte{opcode.OP_DUP, opcode.OP_HASH160, opcode.OP_EQUALVERIFY, opcode.OP_CHECKSIG}
	pops, err := parsescript.ParseScript(script)
	if err != nil {
		t.Fatalf("ParseScript: %s", err.String())
	}
	if len(pops) != len(script) {
		t.Fatalf("expected %d parsed opcodes, got %d", len(script), len(pops))
	}
	for i, op := range script {
		if pops[i].Opcode.Value != op {
			t.Fatalf("pops[%d].Opcode.Value = %x, want %x", i, pops[i].Opcode.Value, op)
		}
		if pops[i].Data != nil {
			t.Fatalf("pops[%d] should carry no data", i)
		}
	}
}

func TestParseScriptDirectDataPush(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}
	script := append([]byte{byte(len(data))}, data...)
	pops, err := parsescript.ParseScript(script)
	if err != nil {
		t.Fatalf("ParseScript: %s", err.String())
	}
	if len(pops) != 1 {
		t.Fatalf("expected 1 parsed opcode, got %d", len(pops))
	}
	if string(pops[0].Data) != string(data) {
		t.Fatalf("parsed data = %x, want %x", pops[0].Data, data)
	}
}

func TestParseScriptPushdata1(t *testing.T) {
	data := make([]byte, 100)
	script := append([]byte{opcode.OP_PUSHDATA1, byte(len(data))}, data...)
	pops, err := parsescript.ParseScript(script)
	if err != nil {
		t.Fatalf("ParseScript: %s", err.String())
	}
	if len(pops) != 1 || len(pops[0].Data) != len(data) {
		t.Fatalf("unexpected parse result: %+v", pops)
	}
}

func TestParseScriptRejectsTruncatedDirectPush(t *testing.T) {
	// Claims a 10-byte push but only supplies 3.
	script := []byte{10, 1, 2, 3}
	if _, err := parsescript.ParseScript(script); err == nil {
		t.Fatalf("expected a parse error for a truncated data push")
	}
}

func TestParseScriptRejectsTruncatedPushdata1(t *testing.T) {
	// OP_PUSHDATA1 claiming 50 bytes but with none following.
	script := []byte{opcode.OP_PUSHDATA1, 50}
	if _, err := parsescript.ParseScript(script); err == nil {
		t.Fatalf("expected a parse error for a truncated OP_PUSHDATA1")
	}
}

func TestIsPushOnly(t *testing.T) {
	pushOnly := []byte{byte(3), 1, 2, 3, opcode.OP_1, opcode.OP_16}
	pops, err := parsescript.ParseScript(pushOnly)
	if err != nil {
		t.Fatalf("ParseScript: %s", err.String())
	}
	if !parsescript.IsPushOnly(pops) {
		t.Fatalf("expected an all-push script to report IsPushOnly")
	}

	withOp := []byte{opcode.OP_1, opcode.OP_CHECKSIG}
	pops2, err := parsescript.ParseScript(withOp)
	if err != nil {
		t.Fatalf("ParseScript: %s", err.String())
	}
	if parsescript.IsPushOnly(pops2) {
		t.Fatalf("expected a script containing OP_CHECKSIG to not report IsPushOnly")
	}
}
