package key_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/pkt-cash/go-miniscript/key"
)

func TestParseFullKeyCompressed(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	comp := priv.PubKey().SerializeCompressed()

	fk, kerr := key.ParseFullKey(comp)
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	if fk.IsUncompressed() {
		t.Fatalf("a 33-byte key must not report IsUncompressed")
	}
	if fk.IsXOnly() {
		t.Fatalf("a FullKey must never report IsXOnly")
	}
	if fk.SerializedLen() != 33 {
		t.Fatalf("SerializedLen = %d, want 33", fk.SerializedLen())
	}
	if string(fk.Bytes()) != string(comp) {
		t.Fatalf("Bytes() did not round-trip the compressed serialization")
	}
}

func TestParseFullKeyUncompressed(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	uncomp := priv.PubKey().SerializeUncompressed()

	fk, kerr := key.ParseFullKey(uncomp)
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	if !fk.IsUncompressed() {
		t.Fatalf("a 65-byte key must report IsUncompressed")
	}
	if fk.SerializedLen() != 65 {
		t.Fatalf("SerializedLen = %d, want 65", fk.SerializedLen())
	}
	// HASH160 must commit to the exact bytes pushed to the stack, so the
	// compressed and uncompressed encodings of the same point hash
	// differently.
	compFk, _ := key.ParseFullKey(priv.PubKey().SerializeCompressed())
	if fk.Hash() == compFk.Hash() {
		t.Fatalf("compressed and uncompressed encodings must not share a HASH160")
	}
}

func TestParseFullKeyRejectsBadLength(t *testing.T) {
	if _, err := key.ParseFullKey(make([]byte, 32)); err == nil {
		t.Fatalf("expected an error parsing a 32-byte key as FullKey")
	}
}

func TestXOnlyKeyRoundTrip(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	x := priv.PubKey().SerializeCompressed()[1:] // drop the 0x02/0x03 parity byte

	xk, kerr := key.ParseXOnlyKey(x)
	if kerr != nil {
		t.Fatalf("ParseXOnlyKey: %s", kerr.String())
	}
	if !xk.IsXOnly() {
		t.Fatalf("XOnlyKey must report IsXOnly")
	}
	if xk.SerializedLen() != 32 {
		t.Fatalf("SerializedLen = %d, want 32", xk.SerializedLen())
	}
	if string(xk.Bytes()) != string(x) {
		t.Fatalf("Bytes() did not round-trip the x-only serialization")
	}
}

func TestParseXOnlyKeyRejectsBadLength(t *testing.T) {
	if _, err := key.ParseXOnlyKey(make([]byte, 33)); err == nil {
		t.Fatalf("expected an error parsing a 33-byte key as XOnlyKey")
	}
}
