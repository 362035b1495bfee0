// Package interpreter replays a spent transaction input (scriptPubKey,
// scriptSig, witness, plus the age/height the input was spent at) against
// the inferred miniscript and yields the stream of constraints that spend
// actually satisfied: which keys signed, which preimages matched, which
// locktimes held (spec.md §4.I).
package interpreter

import "github.com/pkt-cash/go-miniscript/btcutil/er"

// Err is the error type for this package.
var Err = er.NewErrorType("interpreter.Err")

var (
	// ErrAbsoluteLocktimeNotMet is yielded when an `after(n)` node is
	// reached but CheckAfter(n) still fails at the given height.
	ErrAbsoluteLocktimeNotMet = Err.Code("ErrAbsoluteLocktimeNotMet")
	// ErrRelativeLocktimeNotMet is yielded when an `older(n)` node is
	// reached but CheckOlder(n) still fails at the given age.
	ErrRelativeLocktimeNotMet = Err.Code("ErrRelativeLocktimeNotMet")
	// ErrAbsoluteLocktimeComparisonInvalid covers mixed block-height and
	// time-based locks compared against each other.
	ErrAbsoluteLocktimeComparisonInvalid = Err.Code("ErrAbsoluteLocktimeComparisonInvalid")
	// ErrRelativeLocktimeComparisonInvalid is the older(n) analogue.
	ErrRelativeLocktimeComparisonInvalid = Err.Code("ErrRelativeLocktimeComparisonInvalid")
	// ErrCannotInferTrDescriptors: Taproot key-spend descriptor inference
	// is unsupported, matching the source exactly (spec.md §9).
	ErrCannotInferTrDescriptors = Err.Code("ErrCannotInferTrDescriptors")
	// ErrControlBlockParse covers a malformed Taproot control block.
	ErrControlBlockParse = Err.Code("ErrControlBlockParse")
	// ErrControlBlockVerification covers a control block that parses but
	// whose merkle path does not reach the output key.
	ErrControlBlockVerification = Err.Code("ErrControlBlockVerification")
	// ErrCouldNotEvaluate is a catch-all for a structurally malformed
	// stack program the evaluator cannot make sense of.
	ErrCouldNotEvaluate = Err.Code("ErrCouldNotEvaluate")
	// ErrHashPreimageLengthMismatch: a provided preimage is not 32 bytes.
	ErrHashPreimageLengthMismatch = Err.Code("ErrHashPreimageLengthMismatch")
	// ErrHashPreimageMismatch: a 32-byte preimage was provided but does not
	// hash to the value the fragment commits to.
	ErrHashPreimageMismatch = Err.Code("ErrHashPreimageMismatch")
	// ErrIncorrectPubkeyHash: the P2PKH binding check failed.
	ErrIncorrectPubkeyHash = Err.Code("ErrIncorrectPubkeyHash")
	// ErrIncorrectScriptHash: the P2SH binding check failed.
	ErrIncorrectScriptHash = Err.Code("ErrIncorrectScriptHash")
	// ErrIncorrectWPubkeyHash: the P2WPKH binding check failed.
	ErrIncorrectWPubkeyHash = Err.Code("ErrIncorrectWPubkeyHash")
	// ErrIncorrectWScriptHash: the P2WSH binding check failed.
	ErrIncorrectWScriptHash = Err.Code("ErrIncorrectWScriptHash")
	// ErrInvalidEcdsaSignature carries the key whose ECDSA signature
	// failed to verify.
	ErrInvalidEcdsaSignature = Err.Code("ErrInvalidEcdsaSignature")
	// ErrInvalidSchnorrSignature carries the key whose Schnorr signature
	// failed to verify.
	ErrInvalidSchnorrSignature = Err.Code("ErrInvalidSchnorrSignature")
	// ErrInvalidSchnorrSigLen: a Schnorr signature push was not 64 or 65
	// bytes.
	ErrInvalidSchnorrSigLen = Err.Code("ErrInvalidSchnorrSigLen")
	// ErrNonStandardSighash: the trailing sighash-type byte of a
	// signature is not a recognized flag.
	ErrNonStandardSighash = Err.Code("ErrNonStandardSighash")
	// ErrNonEmptyWitness: a legacy (pre-segwit) spend carried a witness.
	ErrNonEmptyWitness = Err.Code("ErrNonEmptyWitness")
	// ErrNonEmptyScriptSig: a pure-segwit spend carried a scriptSig.
	ErrNonEmptyScriptSig = Err.Code("ErrNonEmptyScriptSig")
	// ErrMultiSigEvaluationError: a non-empty signature push in a multi
	// witness did not verify against any still-unused key.
	ErrMultiSigEvaluationError = Err.Code("ErrMultiSigEvaluationError")
	// ErrPkEvaluationError carries the key whose checksig node received a
	// nonstandard (neither a valid signature nor an empty push) witness.
	ErrPkEvaluationError = Err.Code("ErrPkEvaluationError")
	// ErrPkHashVerifyFail: a pk_h node's revealed key did not hash to the
	// expected value.
	ErrPkHashVerifyFail = Err.Code("ErrPkHashVerifyFail")
	// ErrPubkeyParseError / ErrXOnlyPubkeyParseError: a stack push did
	// not decode as the expected key shape.
	ErrPubkeyParseError      = Err.Code("ErrPubkeyParseError")
	ErrXOnlyPubkeyParseError = Err.Code("ErrXOnlyPubkeyParseError")
	// ErrScriptSatisfactionError: the top-level script did not terminate
	// with exactly one `true` on the virtual stack.
	ErrScriptSatisfactionError = Err.Code("ErrScriptSatisfactionError")
	// ErrVerifyFailed: a `v:`-wrapped node's child evaluated to false.
	ErrVerifyFailed = Err.Code("ErrVerifyFailed")
	// ErrTapAnnexUnsupported: the witness carried an annex element.
	ErrTapAnnexUnsupported = Err.Code("ErrTapAnnexUnsupported")
	// ErrUnexpectedAnnexElement covers an annex-shaped element appearing
	// where the template does not expect one.
	ErrUnexpectedAnnexElement = Err.Code("ErrUnexpectedAnnexElement")
	// ErrUnexpectedStackElementPush / ErrUnexpectedStackEnd: the witness
	// did not carry the shape the inferred script requires.
	ErrUnexpectedStackElementPush = Err.Code("ErrUnexpectedStackElementPush")
	ErrUnexpectedStackEnd         = Err.Code("ErrUnexpectedStackEnd")
	// ErrUncompressedPubkey: an uncompressed key surfaced in a Segwit
	// v0/Tap context.
	ErrUncompressedPubkey = Err.Code("ErrUncompressedPubkey")
	// ErrBadTemplate: the witness or scriptSig does not have the shape a
	// recognized template requires (P2WPKH's [sig, pubkey] witness,
	// P2PKH's [sig, pubkey] scriptSig).
	ErrBadTemplate = Err.Code("ErrBadTemplate")
	// ErrMiniscript wraps a parse/type error surfaced while inferring the
	// miniscript from the decoded script.
	ErrMiniscript = Err.Code("ErrMiniscript")
)
