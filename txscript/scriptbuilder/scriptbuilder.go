// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scriptbuilder provides a fluent builder for Bitcoin Script used
// by the miniscript compiler (miniscript.Fragment.Encode) and the
// descriptor package to emit scriptPubKeys and witness scripts byte-exact
// to what the interpreter and parsescript expect to read back.
package scriptbuilder

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/txscript/opcode"
	"github.com/pkt-cash/go-miniscript/txscript/params"
	"github.com/pkt-cash/go-miniscript/txscript/txscripterr"
)

// ScriptBuilder accumulates opcodes and data pushes, enforcing
// params.MaxScriptSize and params.MaxScriptElementSize as it goes so a
// caller discovers an oversized script at the point of construction rather
// than learning it applies a one-past-limits script to a transaction.
type ScriptBuilder struct {
	script []byte
	err    er.R
}

// New returns an empty ScriptBuilder.
func New() *ScriptBuilder {
	return &ScriptBuilder{script: make([]byte, 0, 500)}
}

// Err returns the first error encountered while building, if any.
func (b *ScriptBuilder) Err() er.R {
	return b.err
}

// AddOp pushes a single opcode byte onto the script.
func (b *ScriptBuilder) AddOp(op byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if len(b.script)+1 > params.MaxScriptSize {
		b.err = txscripterr.ScriptError(txscripterr.ErrScriptTooBig,
			"adding an opcode would exceed the maximum allowed script size")
		return b
	}
	b.script = append(b.script, op)
	return b
}

// AddOps pushes a sequence of opcode bytes onto the script.
func (b *ScriptBuilder) AddOps(ops []byte) *ScriptBuilder {
	for _, op := range ops {
		b.AddOp(op)
	}
	return b
}

// AddInt64 pushes the canonical minimal encoding of a small integer,
// using OP_0/OP_1-OP_16/OP_1NEGATE for the range they cover and a
// minimally-encoded data push otherwise.
func (b *ScriptBuilder) AddInt64(val int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if val == 0 {
		return b.AddOp(opcode.OP_0)
	}
	if val == -1 || (val >= 1 && val <= 16) {
		return b.AddOp(byte((opcode.OP_1 - 1) + int(val)))
	}
	return b.AddData(scriptNum(val).Bytes())
}

// AddData pushes a data element with the shortest push opcode for its
// length: OP_0 for an empty element, a direct OP_DATA_N for 1-75 bytes, and
// OP_PUSHDATA{1,2,4} beyond that. A one-byte element is always pushed with
// OP_DATA_1, never as OP_1..OP_16 or OP_1NEGATE, so such a push does not
// meet BIP-62's minimal-push rule; AddInt64 emits those opcodes.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if len(data) > params.MaxScriptElementSize {
		b.err = txscripterr.ScriptError(txscripterr.ErrElementTooBig,
			"adding data would exceed the maximum allowed script element size")
		return b
	}
	b.addDataLength(len(data))
	if b.err != nil {
		return b
	}
	if len(b.script)+len(data) > params.MaxScriptSize {
		b.err = txscripterr.ScriptError(txscripterr.ErrScriptTooBig,
			"adding data would exceed the maximum allowed script size")
		return b
	}
	b.script = append(b.script, data...)
	return b
}

func (b *ScriptBuilder) addDataLength(l int) {
	var buf []byte
	if l == 0 {
		buf = []byte{opcode.OP_0}
	} else if l == 1 {
		buf = []byte{opcode.OP_DATA_1}
	} else if l <= 75 {
		buf = []byte{byte(opcode.OP_DATA_1 - 1 + l)}
	} else if l <= 0xff {
		buf = []byte{opcode.OP_PUSHDATA1, byte(l)}
	} else if l <= 0xffff {
		buf = []byte{opcode.OP_PUSHDATA2, byte(l), byte(l >> 8)}
	} else {
		buf = []byte{opcode.OP_PUSHDATA4, byte(l), byte(l >> 8), byte(l >> 16), byte(l >> 24)}
	}
	if len(b.script)+len(buf) > params.MaxScriptSize {
		b.err = txscripterr.ScriptError(txscripterr.ErrScriptTooBig,
			"adding data would exceed the maximum allowed script size")
		return
	}
	b.script = append(b.script, buf...)
}

// Script returns the script as a byte slice and the first error
// encountered while building it, if any.
func (b *ScriptBuilder) Script() ([]byte, er.R) {
	return b.script, b.err
}

// scriptNum is the minimal little-endian, sign-magnitude encoding Bitcoin
// Script uses for numeric data pushes.
type scriptNum int64

func (n scriptNum) Bytes() []byte {
	if n == 0 {
		return nil
	}
	isNegative := n < 0
	m := n
	if isNegative {
		m = -m
	}
	var result []byte
	for m > 0 {
		result = append(result, byte(m&0xff))
		m >>= 8
	}
	if result[len(result)-1]&0x80 != 0 {
		if isNegative {
			result = append(result, 0x80)
		} else {
			result = append(result, 0x00)
		}
	} else if isNegative {
		result[len(result)-1] |= 0x80
	}
	return result
}
