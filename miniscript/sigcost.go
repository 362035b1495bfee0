package miniscript

// Conservative per-signature witness-byte costs used for
// max_satisfaction_size estimation (spec.md §9 open question): the
// source hardcodes 73 bytes for an ECDSA signature (DER plus sighash
// byte, worst case; low-S signatures are typically 71-72) and 65 for a
// Schnorr signature (64 plus an explicit sighash byte when not
// SIGHASH_DEFAULT). Preimages are costed at 33 bytes: a push opcode plus
// the 32-byte preimage itself.
const (
	ecdsaSigCost   = 73
	schnorrSigCost = 65
	preimageCost   = 33
)

func sigCostFor(isXOnly bool) int {
	if isXOnly {
		return schnorrSigCost
	}
	return ecdsaSigCost
}
