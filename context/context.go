// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package context enumerates the three on-chain script environments a
// miniscript can be compiled for -- Legacy, Segwitv0, Tap -- and the
// resource limits each one imposes. It is the Go-idiomatic home for the
// teacher's txscript/params constants, generalized from "the limits of
// Bitcoin Script" to "the limits of Bitcoin Script, parameterized by where
// the script will be spent from".
package context

import (
	"github.com/pkt-cash/go-miniscript/txscript/params"
)

// Context identifies one of the three script environments a descriptor or
// bare miniscript can target.
type Context int

const (
	// Legacy is bare Script or P2SH-wrapped Script, spent via scriptSig.
	Legacy Context = iota
	// Segwitv0 is P2WSH/P2WPKH (and P2SH-P2WSH/P2SH-P2WPKH), spent via
	// the witness stack with a version-0 program.
	Segwitv0
	// Tap is a Taproot script-path spend, spent via the witness stack
	// with a tapleaf script plus control block.
	Tap
)

func (c Context) String() string {
	switch c {
	case Legacy:
		return "legacy"
	case Segwitv0:
		return "segwitv0"
	case Tap:
		return "tap"
	default:
		return "unknown"
	}
}

// Limits bundles together the consensus/standardness bounds that differ
// per Context (spec.md §4.E).
type Limits struct {
	// MaxScriptSize is the maximum size, in bytes, of the script itself
	// (the witness script for Segwitv0, the redeem script for Legacy
	// P2SH, or the tapscript leaf for Tap).
	MaxScriptSize int

	// MaxOpsPerScript is the maximum count of non-push opcodes. Zero
	// means "no opcode-count limit is enforced in this context"
	// (Tap: BIP-342 removes the legacy op-count limit entirely).
	MaxOpsPerScript int

	// MaxPubKeysPerMultiSig is the maximum n in an OP_CHECKMULTISIG.
	// Zero means OP_CHECKMULTISIG/OP_CHECKMULTISIGVERIFY are not
	// permitted in this context at all (Tap: replaced by multi_a's
	// OP_CHECKSIGADD chain, which has no arity limit beyond stack size).
	MaxPubKeysPerMultiSig int

	// MaxStackSize is the maximum combined stack + alt-stack depth
	// during evaluation.
	MaxStackSize int

	// AllowUncompressedKeys is true only for Legacy: Segwitv0 and Tap
	// both require compressed (33-byte) or x-only (32-byte) keys.
	AllowUncompressedKeys bool

	// PkHashSize is the expected byte length of a pk_h/multi pubkey-hash
	// payload: 20 (HASH160) in Legacy/Segwitv0, 32 (raw x-only key, no
	// hash fragment exists in Tap miniscript) in Tap.
	PkHashSize int
}

// limitsFor holds the fixed Limits value for each Context.
var limitsFor = map[Context]Limits{
	Legacy: {
		MaxScriptSize:         params.MaxScriptElementSize,
		MaxOpsPerScript:       params.MaxOpsPerScript,
		MaxPubKeysPerMultiSig: params.MaxPubKeysPerMultiSig,
		MaxStackSize:          params.MaxStackSize,
		AllowUncompressedKeys: true,
		PkHashSize:            20,
	},
	Segwitv0: {
		MaxScriptSize:         params.MaxScriptSize,
		MaxOpsPerScript:       params.MaxOpsPerScript,
		MaxPubKeysPerMultiSig: params.MaxPubKeysPerMultiSig,
		MaxStackSize:          params.MaxStackSize,
		AllowUncompressedKeys: false,
		PkHashSize:            20,
	},
	Tap: {
		MaxScriptSize:         params.MaxScriptSize,
		MaxOpsPerScript:       0,
		MaxPubKeysPerMultiSig: 0,
		MaxStackSize:          params.MaxStackSize,
		AllowUncompressedKeys: false,
		PkHashSize:            32,
	},
}

// Limits returns the resource bounds for c.
func (c Context) Limits() Limits {
	return limitsFor[c]
}

// PermitsUncompressedKeys reports whether c allows a 65-byte uncompressed
// public key (spec.md §4.E invariant 4: "No uncompressed keys inside a
// Segwit v0 or Tap context").
func (c Context) PermitsUncompressedKeys() bool {
	return limitsFor[c].AllowUncompressedKeys
}

// PermitsMultisig reports whether OP_CHECKMULTISIG (the `multi` fragment)
// may be used in c. Tap has no CHECKMULTISIG opcode; `multi_a` is used
// there instead.
func (c Context) PermitsMultisig() bool {
	return limitsFor[c].MaxPubKeysPerMultiSig > 0
}

// PermitsMultiA reports whether the OP_CHECKSIGADD-based `multi_a`
// fragment may be used in c. It is Tap-only; Legacy and Segwitv0 encode
// multisig with `multi` instead.
func (c Context) PermitsMultiA() bool {
	return c == Tap
}
