package scriptbuilder_test

import (
	"bytes"
	"testing"

	"github.com/pkt-cash/go-miniscript/txscript/opcode"
	"github.com/pkt-cash/go-miniscript/txscript/scriptbuilder"
)

func TestAddOpAndAddOps(t *testing.T) {
	b := scriptbuilder.New()
	b.AddOp(opcode.OP_DUP).AddOp(opcode.OP_HASH160)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("Script: %s", err.String())
	}
	want := []byte{opcode.OP_DUP, opcode.OP_HASH160}
	if !bytes.Equal(script, want) {
		t.Fatalf("script = %x, want %x", script, want)
	}
}

func TestAddDataShortPush(t *testing.T) {
	b := scriptbuilder.New()
	data := []byte{1, 2, 3, 4, 5}
	b.AddData(data)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("Script: %s", err.String())
	}
	want := append([]byte{byte(len(data))}, data...)
	if !bytes.Equal(script, want) {
		t.Fatalf("script = %x, want %x", script, want)
	}
}

func TestAddDataEmptyPushesOp0(t *testing.T) {
	b := scriptbuilder.New()
	b.AddData(nil)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("Script: %s", err.String())
	}
	if !bytes.Equal(script, []byte{opcode.OP_0}) {
		t.Fatalf("script = %x, want [OP_0]", script)
	}
}

func TestAddDataPushdata1ForLargeElement(t *testing.T) {
	b := scriptbuilder.New()
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	b.AddData(data)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("Script: %s", err.String())
	}
	if script[0] != opcode.OP_PUSHDATA1 || script[1] != 100 {
		t.Fatalf("expected OP_PUSHDATA1 100, got %x %x", script[0], script[1])
	}
	if !bytes.Equal(script[2:], data) {
		t.Fatalf("pushed data did not match input")
	}
}

func TestAddInt64SmallValues(t *testing.T) {
	cases := []struct {
		val  int64
		want byte
	}{
		{0, opcode.OP_0},
		{1, opcode.OP_1},
		{16, opcode.OP_16},
		{-1, opcode.OP_1NEGATE},
	}
	for _, c := range cases {
		b := scriptbuilder.New()
		b.AddInt64(c.val)
		script, err := b.Script()
		if err != nil {
			t.Fatalf("Script: %s", err.String())
		}
		if len(script) != 1 || script[0] != c.want {
			t.Fatalf("AddInt64(%d) = %x, want [%x]", c.val, script, c.want)
		}
	}
}

func TestAddInt64LargeValueUsesDataPush(t *testing.T) {
	b := scriptbuilder.New()
	b.AddInt64(500000000)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("Script: %s", err.String())
	}
	if len(script) < 2 {
		t.Fatalf("expected a length-prefixed data push, got %x", script)
	}
	if int(script[0]) != len(script)-1 {
		t.Fatalf("push-length prefix %d does not match pushed byte count %d", script[0], len(script)-1)
	}
}

func TestErrorStopsFurtherBuilding(t *testing.T) {
	b := scriptbuilder.New()
	oversized := make([]byte, 100000)
	b.AddData(oversized)
	if b.Err() == nil {
		t.Fatalf("expected an error pushing an oversized data element")
	}
	before, _ := b.Script()
	b.AddOp(opcode.OP_DUP)
	after, _ := b.Script()
	if !bytes.Equal(before, after) {
		t.Fatalf("builder kept accumulating after an error was recorded")
	}
}
