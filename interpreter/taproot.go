package interpreter

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/sighash"
)

// tapBranch is BIP-341's `TapBranch` node combination: the two children
// are ordered lexicographically before hashing so the tree commitment is
// independent of which child a verifier happens to walk first.
func tapBranch(a, b [32]byte) [32]byte {
	lo, hi := a, b
	if bytes.Compare(a[:], b[:]) > 0 {
		lo, hi = b, a
	}
	return sighash.TaggedHash("TapBranch", append(append([]byte{}, lo[:]...), hi[:]...))
}

// verifyControlBlock checks that script commits to outputKey (the 32-byte
// x-only program carried by a P2TR scriptPubKey) via the merkle path and
// parity byte carried in controlBlock, per BIP-341. It returns the leaf
// version (controlBlock[0] with the parity bit cleared) on success.
func verifyControlBlock(outputKey, controlBlock, script []byte) (byte, er.R) {
	if len(controlBlock) < 33 || (len(controlBlock)-33)%32 != 0 {
		return 0, ErrControlBlockParse.New("control block length must be 33 + 32*m", nil)
	}
	leafVersion := controlBlock[0] &^ 1
	internalKeyBytes := append([]byte(nil), controlBlock[1:33]...)
	if _, err := key.ParseXOnlyKey(internalKeyBytes); err != nil {
		return 0, ErrXOnlyPubkeyParseError.New("control block internal key", err)
	}

	cur := sighash.TapLeafHash(leafVersion, script)
	for path := controlBlock[33:]; len(path) > 0; path = path[32:] {
		var node [32]byte
		copy(node[:], path[:32])
		cur = tapBranch(cur, node)
	}

	tweak := sighash.TaggedHash("TapTweak", append(append([]byte{}, internalKeyBytes...), cur[:]...))

	internalPoint, perr := btcec.ParsePubKey(append([]byte{0x02}, internalKeyBytes...))
	if perr != nil {
		return 0, ErrXOnlyPubkeyParseError.New(perr.Error(), nil)
	}
	curve := btcec.S256()
	tx, ty := curve.ScalarBaseMult(tweak[:])
	qx, _ := curve.Add(internalPoint.X(), internalPoint.Y(), tx, ty)

	var gotX [32]byte
	qx.FillBytes(gotX[:])
	if !bytes.Equal(gotX[:], outputKey) {
		return 0, ErrControlBlockVerification.New("merkle path and tweak do not commit to the output key", nil)
	}
	return leafVersion, nil
}
