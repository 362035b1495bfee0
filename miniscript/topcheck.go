package miniscript

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/context"
)

// TopLevelCheck re-runs the invariants of spec.md §3 against ctx's
// resource limits: root type B, non-malleable, finite satisfaction
// (checked here through Type.IsTopLevelValid; constructors do not check
// it), plus every
// fragment's resource usage within ctx's bounds, plus the uncompressed-key
// and multisig-arity rules that are context-dependent rather than
// intrinsic to the fragment. It is idempotent (spec.md §8 property 8):
// calling it twice on the same tree yields the same result both times,
// since it only reads already-computed Type fields and context-supplied
// constants.
func TopLevelCheck(f *Fragment, ctx context.Context) er.R {
	if !f.Typ.IsTopLevelValid() {
		return ErrNonStandardBareScript.New("root fragment must be type B, non-malleable, with a finite satisfaction", nil)
	}
	lim := ctx.Limits()
	if f.Typ.ScriptSize > lim.MaxScriptSize {
		return ErrResourceLimit.New("script exceeds the maximum size for this context", nil)
	}
	if lim.MaxOpsPerScript > 0 && f.Typ.OpsCount > lim.MaxOpsPerScript {
		return ErrResourceLimit.New("script exceeds the maximum op count for this context", nil)
	}
	if f.Typ.MaxSatWitnessElements > lim.MaxStackSize {
		return ErrResourceLimit.New("worst-case satisfaction exceeds the maximum stack depth for this context", nil)
	}
	return walk(f, ctx)
}

func walk(f *Fragment, ctx context.Context) er.R {
	lim := ctx.Limits()
	switch f.Kind {
	case KindPkK:
		if f.Key.IsUncompressed() && !ctx.PermitsUncompressedKeys() {
			return ErrUncompressedKeyNotPermitted.New("uncompressed keys are not permitted in this context", nil)
		}
		if f.Key.IsXOnly() != (ctx == context.Tap) {
			return ErrTypeCheck.New("x-only keys may only be used in a Tap context", nil)
		}
	case KindPkH:
		if len(f.KeyHash) != lim.PkHashSize {
			return ErrTypeCheck.New("pk_h hash size does not match this context", nil)
		}
	case KindMulti:
		if !ctx.PermitsMultisig() {
			return ErrTypeCheck.New("multi is not permitted in this context; use multi_a", nil)
		}
		if len(f.Keys) > lim.MaxPubKeysPerMultiSig {
			return ErrBadThreshold.New("multi n exceeds this context's maximum", nil)
		}
		for _, k := range f.Keys {
			if k.IsUncompressed() && !ctx.PermitsUncompressedKeys() {
				return ErrUncompressedKeyNotPermitted.New("uncompressed keys are not permitted in this context", nil)
			}
		}
	case KindMultiA:
		if !ctx.PermitsMultiA() {
			return ErrTypeCheck.New("multi_a is only permitted in a Tap context", nil)
		}
	}
	for _, c := range f.Children {
		if err := walk(c, ctx); err != nil {
			return err
		}
	}
	return nil
}
