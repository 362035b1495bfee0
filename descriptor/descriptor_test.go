package descriptor_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/pkt-cash/go-miniscript/descriptor"
	"github.com/pkt-cash/go-miniscript/expr"
	"github.com/pkt-cash/go-miniscript/key"
)

func hexKey(t *testing.T) (key.FullKey, string) {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	fk, kerr := key.ParseFullKey(priv.PubKey().SerializeCompressed())
	if kerr != nil {
		t.Fatalf("ParseFullKey: %s", kerr.String())
	}
	return fk, fk.String()
}

func TestWpkhFromStringRoundTrip(t *testing.T) {
	_, hk := hexKey(t)

	full, err := expr.AppendChecksum("wpkh(" + hk + ")")
	if err != nil {
		t.Fatalf("AppendChecksum: %s", err.String())
	}

	d, derr := descriptor.FromString(full)
	if derr != nil {
		t.Fatalf("FromString(%q): %s", full, derr.String())
	}
	if d.Wpkh == nil {
		t.Fatalf("expected Wpkh to be set, got %+v", d)
	}
	if d.Wpkh.Key.String() != hk {
		t.Fatalf("Wpkh.Key = %s, want %s", d.Wpkh.Key.String(), hk)
	}

	spk, serr := d.ScriptPubKey()
	if serr != nil {
		t.Fatalf("ScriptPubKey: %s", serr.String())
	}
	want := d.Wpkh.ScriptPubKey()
	if string(spk) != string(want) {
		t.Fatalf("Descriptor.ScriptPubKey() = %x, want %x", spk, want)
	}

	again, serr2 := d.String()
	if serr2 != nil {
		t.Fatalf("String: %s", serr2.String())
	}
	if again != full {
		t.Fatalf("String() round-trip = %q, want %q", again, full)
	}
}

func TestShWpkhFromStringRoundTrip(t *testing.T) {
	_, hk := hexKey(t)

	full, err := expr.AppendChecksum("sh(wpkh(" + hk + "))")
	if err != nil {
		t.Fatalf("AppendChecksum: %s", err.String())
	}

	d, derr := descriptor.FromString(full)
	if derr != nil {
		t.Fatalf("FromString(%q): %s", full, derr.String())
	}
	if d.Sh == nil || d.Sh.Wpkh == nil {
		t.Fatalf("expected Sh.Wpkh to be set, got %+v", d)
	}
	if d.Sh.Wpkh.Key.String() != hk {
		t.Fatalf("Sh.Wpkh.Key = %s, want %s", d.Sh.Wpkh.Key.String(), hk)
	}

	again, serr := d.String()
	if serr != nil {
		t.Fatalf("String: %s", serr.String())
	}
	if again != full {
		t.Fatalf("String() round-trip = %q, want %q", again, full)
	}
}

func TestSortedMultiFromStringRoundTrip(t *testing.T) {
	_, hk1 := hexKey(t)
	_, hk2 := hexKey(t)
	_, hk3 := hexKey(t)

	full, err := expr.AppendChecksum("wsh(sortedmulti(2," + hk1 + "," + hk2 + "," + hk3 + "))")
	if err != nil {
		t.Fatalf("AppendChecksum: %s", err.String())
	}

	d, derr := descriptor.FromString(full)
	if derr != nil {
		t.Fatalf("FromString(%q): %s", full, derr.String())
	}
	if d.Wsh == nil || d.Wsh.SortedMulti == nil {
		t.Fatalf("expected Wsh.SortedMulti to be set, got %+v", d)
	}
	if d.Wsh.SortedMulti.Thresh != 2 || len(d.Wsh.SortedMulti.Keys) != 3 {
		t.Fatalf("unexpected SortedMulti: %+v", d.Wsh.SortedMulti)
	}

	again, serr := d.String()
	if serr != nil {
		t.Fatalf("String: %s", serr.String())
	}
	if again != full {
		t.Fatalf("String() round-trip = %q, want %q", again, full)
	}
}

func TestFromStringRejectsUnknownShape(t *testing.T) {
	full, err := expr.AppendChecksum("pkh(deadbeef)")
	if err != nil {
		t.Fatalf("AppendChecksum: %s", err.String())
	}
	if _, derr := descriptor.FromString(full); derr == nil {
		t.Fatalf("FromString accepted an unrecognized descriptor shape")
	}
}

func TestFromStringRejectsBadChecksum(t *testing.T) {
	_, hk := hexKey(t)
	full, err := expr.AppendChecksum("wpkh(" + hk + ")")
	if err != nil {
		t.Fatalf("AppendChecksum: %s", err.String())
	}
	corrupt := []byte(full)
	if corrupt[len(corrupt)-1] == 'q' {
		corrupt[len(corrupt)-1] = 'p'
	} else {
		corrupt[len(corrupt)-1] = 'q'
	}
	if _, derr := descriptor.FromString(string(corrupt)); derr == nil {
		t.Fatalf("FromString accepted a descriptor with a corrupted checksum")
	}
}
