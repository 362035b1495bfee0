package miniscript

import (
	"strconv"
	"strings"

	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/context"
	"github.com/pkt-cash/go-miniscript/expr"
	"github.com/pkt-cash/go-miniscript/key"
)

// KeyParser resolves a leaf key token (hex-encoded pubkey, or whatever
// richer key-origin syntax a caller's descriptor dialect supports) into a
// key.Key appropriate for ctx. The descriptor package supplies the actual
// implementation; miniscript only needs the capability.
type KeyParser func(token string, ctx context.Context) (key.Key, er.R)

// FromTree builds a typed Fragment from an expr.Tree produced by parsing
// a miniscript string (spec.md §6's grammar). Wrapper prefixes are
// expressed as `name` strings like "sc:pk_k" -- letters before the last
// ':' applied right-to-left (innermost/rightmost first, matching how
// "sc:X" reads as s:(c:(X))).
func FromTree(t expr.Tree, ctx context.Context, parseKey KeyParser) (*Fragment, er.R) {
	name := t.Name
	if idx := strings.LastIndexByte(name, ':'); idx >= 0 {
		wrappers := name[:idx]
		base := name[idx+1:]
		inner, err := FromTree(expr.Tree{Name: base, Args: t.Args}, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		for i := len(wrappers) - 1; i >= 0; i-- {
			inner, err = Wrap(wrappers[i], inner)
			if err != nil {
				return nil, err
			}
		}
		return inner, nil
	}

	switch name {
	case "0":
		return False(), nil
	case "1":
		return True(), nil
	case "pk":
		inner, err := pkKFromArg(t, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return wrapC(inner)
	case "pkh":
		inner, err := pkHFromArg(t, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return wrapC(inner)
	case "pk_k":
		return pkKFromArg(t, ctx, parseKey)
	case "pk_h":
		return pkHFromArg(t, ctx, parseKey)
	case "older":
		n, err := argUint32(t, 0)
		if err != nil {
			return nil, err
		}
		return Older(n)
	case "after":
		n, err := argUint32(t, 0)
		if err != nil {
			return nil, err
		}
		return After(n)
	case "sha256":
		h, err := argHash(t, 0, 32)
		if err != nil {
			return nil, err
		}
		return Sha256(h)
	case "hash256":
		h, err := argHash(t, 0, 32)
		if err != nil {
			return nil, err
		}
		return Hash256(h)
	case "ripemd160":
		h, err := argHash(t, 0, 20)
		if err != nil {
			return nil, err
		}
		return Ripemd160(h)
	case "hash160":
		h, err := argHash(t, 0, 20)
		if err != nil {
			return nil, err
		}
		return Hash160(h)
	case "and_v":
		x, y, err := twoChildren(t, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return AndV(x, y)
	case "and_b":
		x, y, err := twoChildren(t, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return AndB(x, y)
	case "or_b":
		x, y, err := twoChildren(t, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return OrB(x, y)
	case "or_c":
		x, y, err := twoChildren(t, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return OrC(x, y)
	case "or_d":
		x, y, err := twoChildren(t, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return OrD(x, y)
	case "or_i":
		x, y, err := twoChildren(t, ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return OrI(x, y)
	case "andor":
		if len(t.Args) != 3 {
			return nil, ErrTypeCheck.New("andor requires exactly 3 arguments", nil)
		}
		x, err := FromTree(t.Args[0], ctx, parseKey)
		if err != nil {
			return nil, err
		}
		y, err := FromTree(t.Args[1], ctx, parseKey)
		if err != nil {
			return nil, err
		}
		z, err := FromTree(t.Args[2], ctx, parseKey)
		if err != nil {
			return nil, err
		}
		return Andor(x, y, z)
	case "thresh":
		return threshFromArgs(t, ctx, parseKey)
	case "multi":
		return multiFromArgs(t, ctx, parseKey, false)
	case "multi_a":
		return multiFromArgs(t, ctx, parseKey, true)
	default:
		return nil, ErrParse.New("unrecognized miniscript fragment: "+name, nil)
	}
}

func pkKFromArg(t expr.Tree, ctx context.Context, parseKey KeyParser) (*Fragment, er.R) {
	if len(t.Args) != 1 {
		return nil, ErrTypeCheck.New(t.Name+" requires exactly 1 argument", nil)
	}
	k, err := parseKey(t.Args[0].Name, ctx)
	if err != nil {
		return nil, err
	}
	return PkK(k)
}

func pkHFromArg(t expr.Tree, ctx context.Context, parseKey KeyParser) (*Fragment, er.R) {
	if len(t.Args) != 1 {
		return nil, ErrTypeCheck.New(t.Name+" requires exactly 1 argument", nil)
	}
	k, err := parseKey(t.Args[0].Name, ctx)
	if err != nil {
		return nil, err
	}
	fk, ok := k.(key.FullKey)
	if !ok {
		return nil, ErrTypeCheck.New("pk_h requires a full (non x-only) key", nil)
	}
	return PkH(fk.Hash())
}

func twoChildren(t expr.Tree, ctx context.Context, parseKey KeyParser) (*Fragment, *Fragment, er.R) {
	if len(t.Args) != 2 {
		return nil, nil, ErrTypeCheck.New(t.Name+" requires exactly 2 arguments", nil)
	}
	x, err := FromTree(t.Args[0], ctx, parseKey)
	if err != nil {
		return nil, nil, err
	}
	y, err := FromTree(t.Args[1], ctx, parseKey)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func threshFromArgs(t expr.Tree, ctx context.Context, parseKey KeyParser) (*Fragment, er.R) {
	if len(t.Args) < 2 {
		return nil, ErrTypeCheck.New("thresh requires a count and at least one child", nil)
	}
	k, err := strconv.Atoi(t.Args[0].Name)
	if err != nil {
		return nil, ErrTypeCheck.New("thresh count must be an integer", nil)
	}
	children := make([]*Fragment, 0, len(t.Args)-1)
	for _, a := range t.Args[1:] {
		c, cerr := FromTree(a, ctx, parseKey)
		if cerr != nil {
			return nil, cerr
		}
		children = append(children, c)
	}
	return Thresh(k, children)
}

func multiFromArgs(t expr.Tree, ctx context.Context, parseKey KeyParser, multiA bool) (*Fragment, er.R) {
	if len(t.Args) < 2 {
		return nil, ErrTypeCheck.New(t.Name+" requires a threshold and at least one key", nil)
	}
	k, err := strconv.Atoi(t.Args[0].Name)
	if err != nil {
		return nil, ErrTypeCheck.New(t.Name+" threshold must be an integer", nil)
	}
	keys := make([]key.Key, 0, len(t.Args)-1)
	for _, a := range t.Args[1:] {
		kk, kerr := parseKey(a.Name, ctx)
		if kerr != nil {
			return nil, kerr
		}
		keys = append(keys, kk)
	}
	if multiA {
		return MultiA(k, keys)
	}
	return Multi(k, keys)
}

func argUint32(t expr.Tree, i int) (uint32, er.R) {
	if i >= len(t.Args) {
		return 0, ErrTypeCheck.New(t.Name+" missing argument", nil)
	}
	n, err := strconv.ParseUint(t.Args[i].Name, 10, 32)
	if err != nil {
		return 0, ErrTypeCheck.New(t.Name+" argument must be an unsigned integer", nil)
	}
	return uint32(n), nil
}

func argHash(t expr.Tree, i int, size int) ([]byte, er.R) {
	if i >= len(t.Args) {
		return nil, ErrTypeCheck.New(t.Name+" missing argument", nil)
	}
	h, err := hexDecode(t.Args[i].Name)
	if err != nil {
		return nil, err
	}
	if len(h) != size {
		return nil, ErrTypeCheck.New(t.Name+" hash must be exactly "+strconv.Itoa(size)+" bytes", nil)
	}
	return h, nil
}

func hexDecode(s string) ([]byte, er.R) {
	if len(s)%2 != 0 {
		return nil, ErrParse.New("odd-length hex string", nil)
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return nil, ErrParse.New("invalid hex string", nil)
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
