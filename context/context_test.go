package context_test

import (
	"testing"

	"github.com/pkt-cash/go-miniscript/context"
)

func TestContextString(t *testing.T) {
	cases := []struct {
		ctx  context.Context
		want string
	}{
		{context.Legacy, "legacy"},
		{context.Segwitv0, "segwitv0"},
		{context.Tap, "tap"},
	}
	for _, tc := range cases {
		if got := tc.ctx.String(); got != tc.want {
			t.Fatalf("%v.String() = %q, want %q", tc.ctx, got, tc.want)
		}
	}
}

func TestPermitsUncompressedKeys(t *testing.T) {
	if !context.Legacy.PermitsUncompressedKeys() {
		t.Fatalf("Legacy must permit uncompressed keys")
	}
	if context.Segwitv0.PermitsUncompressedKeys() {
		t.Fatalf("Segwitv0 must not permit uncompressed keys")
	}
	if context.Tap.PermitsUncompressedKeys() {
		t.Fatalf("Tap must not permit uncompressed keys")
	}
}

func TestPermitsMultisig(t *testing.T) {
	if !context.Legacy.PermitsMultisig() {
		t.Fatalf("Legacy must permit multi (OP_CHECKMULTISIG)")
	}
	if !context.Segwitv0.PermitsMultisig() {
		t.Fatalf("Segwitv0 must permit multi (OP_CHECKMULTISIG)")
	}
	if context.Tap.PermitsMultisig() {
		t.Fatalf("Tap must not permit multi; it has no CHECKMULTISIG opcode")
	}
}

func TestPermitsMultiA(t *testing.T) {
	if context.Legacy.PermitsMultiA() {
		t.Fatalf("Legacy must not permit multi_a")
	}
	if context.Segwitv0.PermitsMultiA() {
		t.Fatalf("Segwitv0 must not permit multi_a")
	}
	if !context.Tap.PermitsMultiA() {
		t.Fatalf("Tap must permit multi_a")
	}
}

func TestPkHashSizeDiffersForTap(t *testing.T) {
	if context.Legacy.Limits().PkHashSize != 20 {
		t.Fatalf("Legacy PkHashSize = %d, want 20", context.Legacy.Limits().PkHashSize)
	}
	if context.Segwitv0.Limits().PkHashSize != 20 {
		t.Fatalf("Segwitv0 PkHashSize = %d, want 20", context.Segwitv0.Limits().PkHashSize)
	}
	if context.Tap.Limits().PkHashSize != 32 {
		t.Fatalf("Tap PkHashSize = %d, want 32", context.Tap.Limits().PkHashSize)
	}
}

func TestTapHasNoOpCountLimit(t *testing.T) {
	if context.Tap.Limits().MaxOpsPerScript != 0 {
		t.Fatalf("Tap must not enforce a per-script op-count limit")
	}
	if context.Legacy.Limits().MaxOpsPerScript == 0 {
		t.Fatalf("Legacy must enforce a per-script op-count limit")
	}
}
