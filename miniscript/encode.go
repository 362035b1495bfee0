package miniscript

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/txscript/opcode"
	"github.com/pkt-cash/go-miniscript/txscript/scriptbuilder"
)

// Encode emits the canonical Bitcoin Script bytes for f. Two encodings
// must be byte-identical: the script Encode returns is one Infer turns
// back into a fragment that encodes to the same bytes (spec.md §4.C's
// round-trip law, tested by the roundTrip helper in fragment_test.go).
func (f *Fragment) Encode() ([]byte, er.R) {
	b := scriptbuilder.New()
	f.encodeInto(b)
	return b.Script()
}

func (f *Fragment) encodeInto(b *scriptbuilder.ScriptBuilder) {
	switch f.Kind {
	case KindTrue:
		b.AddOp(opcode.OP_1)
	case KindFalse:
		b.AddOp(opcode.OP_0)
	case KindPkK:
		b.AddData(f.Key.Bytes())
	case KindPkH:
		b.AddOp(opcode.OP_DUP).AddOp(opcode.OP_HASH160).AddData(f.KeyHash[:]).AddOp(opcode.OP_EQUALVERIFY)
	case KindOlder:
		b.AddInt64(int64(f.LockValue)).AddOp(opcode.OP_CHECKSEQUENCEVERIFY)
	case KindAfter:
		b.AddInt64(int64(f.LockValue)).AddOp(opcode.OP_CHECKLOCKTIMEVERIFY)
	case KindSha256:
		encodeHashLock(b, opcode.OP_SHA256, f.Hash)
	case KindHash256:
		encodeHashLock(b, opcode.OP_HASH256, f.Hash)
	case KindRipemd160:
		encodeHashLock(b, opcode.OP_RIPEMD160, f.Hash)
	case KindHash160:
		encodeHashLock(b, opcode.OP_HASH160, f.Hash)
	case KindMulti:
		b.AddInt64(int64(f.Thresh))
		for _, k := range f.Keys {
			b.AddData(k.Bytes())
		}
		b.AddInt64(int64(len(f.Keys))).AddOp(opcode.OP_CHECKMULTISIG)
	case KindMultiA:
		for i, k := range f.Keys {
			b.AddData(k.Bytes())
			if i == 0 {
				b.AddOp(opcode.OP_CHECKSIG)
			} else {
				b.AddOp(opcode.OP_CHECKSIGADD)
			}
		}
		b.AddInt64(int64(f.Thresh)).AddOp(opcode.OP_NUMEQUAL)
	case KindAndV:
		f.Children[0].encodeInto(b)
		f.Children[1].encodeInto(b)
	case KindAndB:
		f.Children[0].encodeInto(b)
		f.Children[1].encodeInto(b)
		b.AddOp(opcode.OP_BOOLAND)
	case KindAndor:
		f.Children[0].encodeInto(b)
		b.AddOp(opcode.OP_NOTIF)
		f.Children[2].encodeInto(b)
		b.AddOp(opcode.OP_ELSE)
		f.Children[1].encodeInto(b)
		b.AddOp(opcode.OP_ENDIF)
	case KindOrB:
		f.Children[0].encodeInto(b)
		f.Children[1].encodeInto(b)
		b.AddOp(opcode.OP_BOOLOR)
	case KindOrC:
		f.Children[0].encodeInto(b)
		b.AddOp(opcode.OP_NOTIF)
		f.Children[1].encodeInto(b)
		b.AddOp(opcode.OP_ENDIF)
	case KindOrD:
		f.Children[0].encodeInto(b)
		b.AddOp(opcode.OP_IFDUP).AddOp(opcode.OP_NOTIF)
		f.Children[1].encodeInto(b)
		b.AddOp(opcode.OP_ENDIF)
	case KindOrI:
		b.AddOp(opcode.OP_IF)
		f.Children[0].encodeInto(b)
		b.AddOp(opcode.OP_ELSE)
		f.Children[1].encodeInto(b)
		b.AddOp(opcode.OP_ENDIF)
	case KindThresh:
		f.Children[0].encodeInto(b)
		for _, c := range f.Children[1:] {
			c.encodeInto(b)
			b.AddOp(opcode.OP_ADD)
		}
		b.AddInt64(int64(f.Thresh)).AddOp(opcode.OP_EQUAL)
	case KindWrap:
		encodeWrapper(f, b)
	}
}

func encodeHashLock(b *scriptbuilder.ScriptBuilder, hashOp byte, h []byte) {
	b.AddOp(opcode.OP_SIZE).AddInt64(32).AddOp(opcode.OP_EQUALVERIFY)
	b.AddOp(hashOp).AddData(h).AddOp(opcode.OP_EQUAL)
}

func encodeWrapper(f *Fragment, b *scriptbuilder.ScriptBuilder) {
	child := f.Children[0]
	switch f.WrapChar {
	case 'a':
		b.AddOp(opcode.OP_TOALTSTACK)
		child.encodeInto(b)
		b.AddOp(opcode.OP_FROMALTSTACK)
	case 's':
		b.AddOp(opcode.OP_SWAP)
		child.encodeInto(b)
	case 'c':
		child.encodeInto(b)
		b.AddOp(opcode.OP_CHECKSIG)
	case 'd':
		b.AddOp(opcode.OP_DUP).AddOp(opcode.OP_IF)
		child.encodeInto(b)
		b.AddOp(opcode.OP_ENDIF)
	case 'v':
		child.encodeInto(b)
		b.AddOp(opcode.OP_VERIFY)
	case 'j':
		b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_0NOTEQUAL).AddOp(opcode.OP_IF)
		child.encodeInto(b)
		b.AddOp(opcode.OP_ENDIF)
	case 'n':
		child.encodeInto(b)
		b.AddOp(opcode.OP_0NOTEQUAL)
	case 'l':
		b.AddOp(opcode.OP_IF).AddOp(opcode.OP_0).AddOp(opcode.OP_ELSE)
		child.encodeInto(b)
		b.AddOp(opcode.OP_ENDIF)
	case 'u':
		b.AddOp(opcode.OP_IF)
		child.encodeInto(b)
		b.AddOp(opcode.OP_ELSE).AddOp(opcode.OP_0).AddOp(opcode.OP_ENDIF)
	}
}
