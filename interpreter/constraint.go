package interpreter

import (
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/satisfier"
)

// HashFn identifies which of the four hash-lock fragment kinds a
// HashLockConstraint resolved.
type HashFn int

const (
	HashFnSha256 HashFn = iota
	HashFnHash256
	HashFnRipemd160
	HashFnHash160
)

func (h HashFn) String() string {
	switch h {
	case HashFnSha256:
		return "sha256"
	case HashFnHash256:
		return "hash256"
	case HashFnRipemd160:
		return "ripemd160"
	case HashFnHash160:
		return "hash160"
	default:
		return "unknown"
	}
}

// SatisfiedConstraint is the closed sum of evidence the interpreter can
// yield per spec.md §3: a signature that verified, a hash preimage that
// matched, or a locktime that held. Exactly one of the fields below is
// non-nil/non-zero-value on any given instance; a switch over which field
// is set stands in for the tagged-union match a closed enum would give.
type SatisfiedConstraint struct {
	PublicKey        *PublicKeyConstraint
	PublicKeyHash    *PublicKeyHashConstraint
	HashLock         *HashLockConstraint
	RelativeTimelock *RelativeTimelockConstraint
	AbsoluteTimelock *AbsoluteTimelockConstraint
}

// PublicKeyConstraint is `pk_k`'s (or multi's) satisfied form: a bare key
// whose signature verified.
type PublicKeyConstraint struct {
	Key        key.Key
	EcdsaSig   *satisfier.EcdsaSig
	SchnorrSig *satisfier.SchnorrSig
}

// PublicKeyHashConstraint is `pk_h`'s satisfied form: additionally reveals
// the key the witness supplied against the script's stored hash.
type PublicKeyHashConstraint struct {
	Hash     key.Hash
	Key      key.Key
	EcdsaSig satisfier.EcdsaSig
}

// HashLockConstraint is any of sha256/hash256/ripemd160/hash160's
// satisfied form.
type HashLockConstraint struct {
	HashFn   HashFn
	Hash     []byte
	Preimage []byte
}

// RelativeTimelockConstraint is `older(n)`'s satisfied form.
type RelativeTimelockConstraint struct {
	N uint32
}

// AbsoluteTimelockConstraint is `after(n)`'s satisfied form.
type AbsoluteTimelockConstraint struct {
	N uint32
}
