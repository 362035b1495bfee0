package descriptor

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/context"
	"github.com/pkt-cash/go-miniscript/expr"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/miniscript"
)

// Descriptor is the top-level, checksum-verified output descriptor:
// exactly one of Wsh, Wpkh, or Sh is set. Elements (`el`-prefixed)
// descriptors carry the same three shapes; the Elements flag is the only
// distinction the toolkit tracks, since this toolkit has no separate
// asset/confidentiality layer to model.
type Descriptor struct {
	Wsh      *Wsh
	Wpkh     *Wpkh
	Sh       *Sh
	Elements bool
}

// parseKey resolves a leaf token into a key.Key: a 64-hex-char token is
// an x-only key (only legal under context.Tap), anything else must be a
// 66- or 130-hex-char SEC1 key.
func parseKey(token string, ctx context.Context) (key.Key, er.R) {
	h, err := hexDecode(token)
	if err != nil {
		return nil, ErrUnexpected.New("not a valid key: "+token, nil)
	}
	if ctx == context.Tap && len(h) == 32 {
		xk, xerr := key.ParseXOnlyKey(h)
		if xerr != nil {
			return nil, xerr
		}
		return xk, nil
	}
	fk, ferr := key.ParseFullKey(h)
	if ferr != nil {
		return nil, ferr
	}
	return fk, nil
}

func hexDecode(s string) ([]byte, er.R) {
	if len(s) == 0 || len(s)%2 != 0 {
		return nil, ErrUnexpected.New("odd-length or empty hex string", nil)
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return nil, ErrUnexpected.New("invalid hex string: "+s, nil)
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// FromString parses and verifies a checksummed descriptor string (spec.md
// §4.F): strip and verify the checksum (expr.ParseDescriptor), recognize
// the outer name -- an optional `el` prefix, then exactly one of
// `wsh`/`wpkh`/`sh` -- and recurse into the inner miniscript or
// sortedmulti form, applying each shape's own top-level checks.
func FromString(s string) (Descriptor, er.R) {
	t, err := expr.ParseDescriptor(s)
	if err != nil {
		return Descriptor{}, err
	}
	name := t.Name
	elements := false
	if len(name) > 2 && name[:2] == "el" {
		elements = true
		name = name[2:]
	}
	switch name {
	case "wsh":
		w, werr := wshFromTree(t, context.Segwitv0)
		if werr != nil {
			return Descriptor{}, werr
		}
		return Descriptor{Wsh: &w, Elements: elements}, nil
	case "wpkh":
		w, werr := wpkhFromTree(t)
		if werr != nil {
			return Descriptor{}, werr
		}
		return Descriptor{Wpkh: &w, Elements: elements}, nil
	case "sh":
		sh, sherr := shFromTree(t)
		if sherr != nil {
			return Descriptor{}, sherr
		}
		return Descriptor{Sh: &sh, Elements: elements}, nil
	default:
		return Descriptor{}, ErrUnexpected.New("unrecognized descriptor type: "+t.Name, nil)
	}
}

func wshFromTree(t expr.Tree, ctx context.Context) (Wsh, er.R) {
	if len(t.Args) != 1 {
		return Wsh{}, ErrUnexpected.New("wsh requires exactly 1 argument", nil)
	}
	inner := t.Args[0]
	if inner.Name == "sortedmulti" {
		sm, err := sortedMultiFromTree(inner)
		if err != nil {
			return Wsh{}, err
		}
		return NewWshSortedMulti(sm)
	}
	ms, err := miniscript.FromTree(inner, ctx, parseKey)
	if err != nil {
		return Wsh{}, err
	}
	return NewWsh(ms)
}

func wpkhFromTree(t expr.Tree) (Wpkh, er.R) {
	if len(t.Args) != 1 {
		return Wpkh{}, ErrUnexpected.New("wpkh requires exactly 1 argument", nil)
	}
	k, err := parseKey(t.Args[0].Name, context.Segwitv0)
	if err != nil {
		return Wpkh{}, err
	}
	fk, ok := k.(key.FullKey)
	if !ok {
		return Wpkh{}, ErrUnexpected.New("wpkh requires a full (non x-only) key", nil)
	}
	return NewWpkh(fk)
}

func sortedMultiFromTree(t expr.Tree) (SortedMulti, er.R) {
	if len(t.Args) < 2 {
		return SortedMulti{}, ErrUnexpected.New("sortedmulti requires a threshold and at least one key", nil)
	}
	k := 0
	for _, c := range t.Args[0].Name {
		if c < '0' || c > '9' {
			return SortedMulti{}, ErrUnexpected.New("sortedmulti threshold must be an integer", nil)
		}
		k = k*10 + int(c-'0')
	}
	keys := make([]key.Key, 0, len(t.Args)-1)
	for _, a := range t.Args[1:] {
		kk, err := parseKey(a.Name, context.Segwitv0)
		if err != nil {
			return SortedMulti{}, err
		}
		keys = append(keys, kk)
	}
	return NewSortedMulti(k, keys)
}

// shFromTree recognizes `sh(wsh(...))`, `sh(wpkh(...))`, `sh(sortedmulti(...))`,
// and bare `sh(miniscript)`.
func shFromTree(t expr.Tree) (Sh, er.R) {
	if len(t.Args) != 1 {
		return Sh{}, ErrUnexpected.New("sh requires exactly 1 argument", nil)
	}
	inner := t.Args[0]
	switch inner.Name {
	case "wsh":
		w, err := wshFromTree(inner, context.Segwitv0)
		if err != nil {
			return Sh{}, err
		}
		return NewShWsh(w), nil
	case "wpkh":
		w, err := wpkhFromTree(inner)
		if err != nil {
			return Sh{}, err
		}
		return NewShWpkh(w), nil
	case "sortedmulti":
		sm, err := sortedMultiFromTree(inner)
		if err != nil {
			return Sh{}, err
		}
		return NewShSortedMulti(sm)
	default:
		ms, err := miniscript.FromTree(inner, context.Legacy, parseKey)
		if err != nil {
			return Sh{}, err
		}
		return NewSh(ms)
	}
}

// ScriptPubKey dispatches to whichever shape is set.
func (d Descriptor) ScriptPubKey() ([]byte, er.R) {
	switch {
	case d.Wsh != nil:
		return d.Wsh.ScriptPubKey()
	case d.Wpkh != nil:
		return d.Wpkh.ScriptPubKey(), nil
	case d.Sh != nil:
		return d.Sh.ScriptPubKey()
	default:
		return nil, ErrBadDescriptor.New("empty descriptor", nil)
	}
}

// String renders the canonical body and reattaches its checksum.
func (d Descriptor) String() (string, er.R) {
	body, err := d.body()
	if err != nil {
		return "", err
	}
	if d.Elements {
		body = "el" + body
	}
	return expr.AppendChecksum(body)
}

func (d Descriptor) body() (string, er.R) {
	switch {
	case d.Wsh != nil:
		inner, err := wshBody(*d.Wsh)
		if err != nil {
			return "", err
		}
		return "wsh(" + inner + ")", nil
	case d.Wpkh != nil:
		return "wpkh(" + d.Wpkh.Key.String() + ")", nil
	case d.Sh != nil:
		inner, err := shBody(*d.Sh)
		if err != nil {
			return "", err
		}
		return "sh(" + inner + ")", nil
	default:
		return "", ErrBadDescriptor.New("empty descriptor", nil)
	}
}

func wshBody(w Wsh) (string, er.R) {
	if w.SortedMulti != nil {
		return sortedMultiBody(*w.SortedMulti), nil
	}
	return w.Ms.String(), nil
}

func shBody(d Sh) (string, er.R) {
	switch {
	case d.Wsh != nil:
		inner, err := wshBody(*d.Wsh)
		if err != nil {
			return "", err
		}
		return "wsh(" + inner + ")", nil
	case d.Wpkh != nil:
		return "wpkh(" + d.Wpkh.Key.String() + ")", nil
	case d.SortedMulti != nil:
		return sortedMultiBody(*d.SortedMulti), nil
	default:
		return d.Ms.String(), nil
	}
}

func sortedMultiBody(m SortedMulti) string {
	out := "sortedmulti(" + itoa(m.Thresh)
	for _, k := range m.Keys {
		out += "," + k.String()
	}
	return out + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
