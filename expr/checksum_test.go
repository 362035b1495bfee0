package expr

import "testing"

func TestAppendVerifyChecksumRoundTrip(t *testing.T) {
	bodies := []string{
		"pk(key)",
		"wsh(multi(2,key1,key2,key3))",
		"sh(wpkh(key))",
		"",
	}
	for _, body := range bodies {
		full, err := AppendChecksum(body)
		if err != nil {
			t.Fatalf("AppendChecksum(%q): %s", body, err.String())
		}
		gotBody, ok, verr := VerifyChecksum(full)
		if verr != nil {
			t.Fatalf("VerifyChecksum(%q): %s", full, verr.String())
		}
		if !ok {
			t.Fatalf("VerifyChecksum(%q) reported mismatch for its own checksum", full)
		}
		if gotBody != body {
			t.Fatalf("VerifyChecksum(%q) body = %q, want %q", full, gotBody, body)
		}
	}
}

func TestVerifyChecksumDetectsCorruption(t *testing.T) {
	full, err := AppendChecksum("wsh(pk(key))")
	if err != nil {
		t.Fatalf("AppendChecksum: %s", err.String())
	}
	// Flip the last checksum character to something it cannot be.
	corrupt := []byte(full)
	if corrupt[len(corrupt)-1] == 'q' {
		corrupt[len(corrupt)-1] = 'p'
	} else {
		corrupt[len(corrupt)-1] = 'q'
	}
	_, ok, verr := VerifyChecksum(string(corrupt))
	if verr == nil || ok {
		t.Fatalf("VerifyChecksum accepted a corrupted checksum")
	}
}

func TestVerifyChecksumNoHash(t *testing.T) {
	body, ok, err := VerifyChecksum("pk(key)")
	if err != nil {
		t.Fatalf("VerifyChecksum: %s", err.String())
	}
	if !ok || body != "pk(key)" {
		t.Fatalf("VerifyChecksum without '#' should pass through unchanged, got body=%q ok=%v", body, ok)
	}
}

func TestParseDescriptorRequiresChecksum(t *testing.T) {
	if _, err := ParseDescriptor("pk(key)"); err == nil {
		t.Fatalf("ParseDescriptor accepted a descriptor with no checksum")
	}
}

func TestParseDescriptorTree(t *testing.T) {
	full, err := AppendChecksum("wsh(multi(2,keyA,keyB))")
	if err != nil {
		t.Fatalf("AppendChecksum: %s", err.String())
	}
	tree, perr := ParseDescriptor(full)
	if perr != nil {
		t.Fatalf("ParseDescriptor(%q): %s", full, perr.String())
	}
	if tree.Name != "wsh" || len(tree.Args) != 1 {
		t.Fatalf("unexpected top-level tree: %+v", tree)
	}
	inner := tree.Args[0]
	if inner.Name != "multi" || len(inner.Args) != 3 {
		t.Fatalf("unexpected inner tree: %+v", inner)
	}
	if inner.Args[0].Name != "2" || inner.Args[1].Name != "keyA" || inner.Args[2].Name != "keyB" {
		t.Fatalf("unexpected multi args: %+v", inner.Args)
	}
}
