package descriptor

import (
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/satisfier"
	"github.com/pkt-cash/go-miniscript/witness"
)

// SortedMulti is `sortedmulti(k,key1,...,keyn)`: identical to
// `multi(k,...)` except the keys are sorted lexicographically by their
// serialized bytes at script-encoding time, so two descriptors naming the
// same key set in a different order produce the same scriptPubKey.
type SortedMulti struct {
	Thresh int
	Keys   []key.Key
}

// NewSortedMulti validates the threshold against the key count.
func NewSortedMulti(k int, keys []key.Key) (SortedMulti, er.R) {
	if k < 1 || k > len(keys) {
		return SortedMulti{}, ErrMultisigKeys.New("sortedmulti threshold out of range", nil)
	}
	return SortedMulti{Thresh: k, Keys: append([]key.Key(nil), keys...)}, nil
}

func (m SortedMulti) sortedKeys() []key.Key {
	sorted := append([]key.Key(nil), m.Keys...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && lessKeyBytes(sorted[j], sorted[j-1]); j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted
}

func lessKeyBytes(a, b key.Key) bool {
	ab, bb := a.Bytes(), b.Bytes()
	for i := 0; i < len(ab) && i < len(bb); i++ {
		if ab[i] != bb[i] {
			return ab[i] < bb[i]
		}
	}
	return len(ab) < len(bb)
}

// asMulti builds the multi(k, sorted keys) fragment this descriptor
// encodes to and is satisfied as.
func (m SortedMulti) asMulti() (*miniscript.Fragment, er.R) {
	return miniscript.Multi(m.Thresh, m.sortedKeys())
}

// Encode returns the witness/redeem script bytes for this multisig.
func (m SortedMulti) Encode() ([]byte, er.R) {
	f, err := m.asMulti()
	if err != nil {
		return nil, err
	}
	return f.Encode()
}

// SanityCheck validates the threshold and, since sortedmulti always
// targets Segwitv0/Legacy, runs the same context checks multi() itself
// enforces by virtue of having been constructed successfully.
func (m SortedMulti) SanityCheck() er.R {
	_, err := m.asMulti()
	return err
}

// ScriptSize is the encoded script's byte length.
func (m SortedMulti) ScriptSize() (int, er.R) {
	f, err := m.asMulti()
	if err != nil {
		return 0, err
	}
	return f.Typ.ScriptSize, nil
}

// MaxSatisfactionWitnessElements is the worst-case witness stack depth.
func (m SortedMulti) MaxSatisfactionWitnessElements() (int, er.R) {
	f, err := m.asMulti()
	if err != nil {
		return 0, err
	}
	return f.Typ.MaxSatWitnessElements, nil
}

// MaxSatisfactionSize is the worst-case witness byte weight.
func (m SortedMulti) MaxSatisfactionSize() (int, er.R) {
	f, err := m.asMulti()
	if err != nil {
		return 0, err
	}
	return f.Typ.MaxSatSize, nil
}

// Satisfy returns the (necessarily non-malleable, classic CHECKMULTISIG
// has no malleable variant once the off-by-one dummy is fixed) witness.
func (m SortedMulti) Satisfy(s satisfier.Satisfier) (witness.Stack, er.R) {
	f, err := m.asMulti()
	if err != nil {
		return nil, err
	}
	return witness.Satisfy(f, s, false)
}
