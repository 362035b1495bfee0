package interpreter

import (
	"encoding/hex"

	"github.com/pkt-cash/go-miniscript/btcutil"
	"github.com/pkt-cash/go-miniscript/btcutil/er"
	"github.com/pkt-cash/go-miniscript/context"
	"github.com/pkt-cash/go-miniscript/descriptor"
	"github.com/pkt-cash/go-miniscript/key"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/pktlog/log"
	"github.com/pkt-cash/go-miniscript/txscript/opcode"
	"github.com/pkt-cash/go-miniscript/txscript/parsescript"
)

// Stack is a witness/scriptSig data stack, bottom-to-top -- the same
// convention package witness uses: index 0 is the deepest (first pushed)
// item, the last index is the top (the first item a script consumes).
type Stack = [][]byte

// Interpreter is an immutable snapshot of one spent input: the template
// it was recognized under, the miniscript inferred from its script, and
// the stack of witness/scriptSig items left to feed that miniscript.
type Interpreter struct {
	ScriptPubKey []byte
	ScriptSig    []byte
	Witness      [][]byte
	Age          uint32
	Height       uint32

	Kind       context.Context
	Ms         *miniscript.Fragment
	ScriptCode []byte // the exact script bytes Ms was inferred from -- what a sighash oracle for this input signs over

	// LeafVersion is set only for a Taproot script-path spend (the
	// control block's leaf version byte); zero otherwise.
	LeafVersion byte

	stack Stack
}

// InferredDescriptor renders the script this interpreter bound to as a
// Descriptor. Only Segwitv0 bindings produce one, and it is always
// wsh(Ms), including for P2WPKH and P2SH-wrapped spends; Legacy and Tap
// bindings return ErrCannotInferTrDescriptors.
func (in *Interpreter) InferredDescriptor() (descriptor.Descriptor, er.R) {
	switch in.Kind {
	case context.Segwitv0:
		return descriptor.Descriptor{Wsh: &descriptor.Wsh{Ms: in.Ms}}, nil
	default:
		return descriptor.Descriptor{}, ErrCannotInferTrDescriptors.New("no descriptor form for this template", nil)
	}
}

// InferredDescriptorString renders InferredDescriptor as a checksummed
// descriptor string.
func (in *Interpreter) InferredDescriptorString() (string, er.R) {
	d, err := in.InferredDescriptor()
	if err != nil {
		return "", err
	}
	return d.String()
}

func isP2WPKH(spk []byte) bool {
	return len(spk) == 22 && spk[0] == opcode.OP_0 && spk[1] == 0x14
}

func isP2WSH(spk []byte) bool {
	return len(spk) == 34 && spk[0] == opcode.OP_0 && spk[1] == 0x20
}

func isP2TR(spk []byte) bool {
	return len(spk) == 34 && spk[0] == opcode.OP_1 && spk[1] == 0x20
}

func isP2SH(spk []byte) bool {
	return len(spk) == 23 && spk[0] == opcode.OP_HASH160 && spk[1] == 0x14 && spk[22] == opcode.OP_EQUAL
}

func isP2PKH(spk []byte) bool {
	return len(spk) == 25 && spk[0] == opcode.OP_DUP && spk[1] == opcode.OP_HASH160 &&
		spk[2] == 0x14 && spk[23] == opcode.OP_EQUALVERIFY && spk[24] == opcode.OP_CHECKSIG
}

// FromTxData recognizes which of the supported output templates spk/
// scriptSig/witness structurally match and binds an Interpreter to the
// miniscript inferred from the decoded script (spec.md §4.I).
func FromTxData(spk, scriptSig []byte, witness [][]byte, age, height uint32) (*Interpreter, er.R) {
	log.Debugf("interpreter: binding spk=%s scriptSig_len=%d witness_elems=%d",
		log.ScriptHex(hex.EncodeToString(spk)), len(scriptSig), len(witness))
	switch {
	case isP2WPKH(spk):
		if len(scriptSig) != 0 {
			return nil, ErrNonEmptyScriptSig.New("native P2WPKH must have an empty scriptSig", nil)
		}
		return bindP2WPKH(spk, spk[2:22], scriptSig, witness, age, height, context.Segwitv0)
	case isP2WSH(spk):
		if len(scriptSig) != 0 {
			return nil, ErrNonEmptyScriptSig.New("native P2WSH must have an empty scriptSig", nil)
		}
		return bindP2WSH(spk, spk[2:34], scriptSig, witness, age, height)
	case isP2TR(spk):
		return bindTaproot(spk, scriptSig, witness, age, height)
	case isP2SH(spk):
		return bindP2SH(spk, scriptSig, witness, age, height)
	case isP2PKH(spk):
		return bindP2PKH(spk, scriptSig, witness, age, height)
	default:
		return bindBare(spk, scriptSig, witness, age, height)
	}
}

// bindP2WPKH covers both native P2WPKH and P2SH-wrapped P2WPKH -- the
// caller has already confirmed scriptSig's shape for the native case and
// passes the original (single-push) scriptSig through unexamined for the
// wrapped case.
func bindP2WPKH(spk, wantHash, scriptSig []byte, witness [][]byte, age, height uint32, kind context.Context) (*Interpreter, er.R) {
	if len(witness) != 2 {
		return nil, ErrBadTemplate.New("P2WPKH witness must be exactly [sig, pubkey]", nil)
	}
	pk := witness[1]
	if !bytesEqual(btcutil.Hash160(pk), wantHash) {
		return nil, ErrIncorrectWPubkeyHash.New("hash160(pubkey) does not match the program", nil)
	}
	var h key.Hash
	copy(h[:], wantHash)
	pkh, err := miniscript.PkH(h)
	if err != nil {
		return nil, err
	}
	ms, err := miniscript.Wrap('c', pkh)
	if err != nil {
		return nil, err
	}
	scriptCode, err := ms.Encode()
	if err != nil {
		return nil, err
	}
	return &Interpreter{
		ScriptPubKey: spk, ScriptSig: scriptSig, Witness: witness, Age: age, Height: height,
		Kind: kind, Ms: ms, ScriptCode: scriptCode, stack: append(Stack(nil), witness...),
	}, nil
}

func bindP2WSH(spk, wantHash, scriptSig []byte, witness [][]byte, age, height uint32) (*Interpreter, er.R) {
	if len(witness) == 0 {
		return nil, ErrUnexpectedStackEnd.New("P2WSH witness is empty", nil)
	}
	script := witness[len(witness)-1]
	if !bytesEqual(btcutil.Sha256(script), wantHash) {
		return nil, ErrIncorrectWScriptHash.New("sha256(witnessScript) does not match the program", nil)
	}
	ms, err := miniscript.Infer(script, context.Segwitv0)
	if err != nil {
		return nil, ErrMiniscript.New("inferring witnessScript", err)
	}
	return &Interpreter{
		ScriptPubKey: spk, ScriptSig: scriptSig, Witness: witness, Age: age, Height: height,
		Kind: context.Segwitv0, Ms: ms, ScriptCode: script, stack: append(Stack(nil), witness[:len(witness)-1]...),
	}, nil
}

func bindTaproot(spk, scriptSig []byte, witness [][]byte, age, height uint32) (*Interpreter, er.R) {
	if len(scriptSig) != 0 {
		return nil, ErrNonEmptyScriptSig.New("Taproot spends must have an empty scriptSig", nil)
	}
	rest := witness
	if n := len(rest); n >= 2 && len(rest[n-1]) > 0 && rest[n-1][0] == 0x50 {
		return nil, ErrTapAnnexUnsupported.New("annex present in witness", nil)
	}
	if len(rest) == 1 {
		// Key-path spend: no script to infer.
		return nil, ErrCannotInferTrDescriptors.New("Taproot key-path spends have no miniscript to infer", nil)
	}
	if len(rest) < 2 {
		return nil, ErrUnexpectedStackEnd.New("Taproot script-path witness needs at least [script, control_block]", nil)
	}
	controlBlock := rest[len(rest)-1]
	script := rest[len(rest)-2]
	leafVersion, err := verifyControlBlock(spk[2:34], controlBlock, script)
	if err != nil {
		return nil, err
	}
	ms, err := miniscript.Infer(script, context.Tap)
	if err != nil {
		return nil, ErrMiniscript.New("inferring tapscript leaf", err)
	}
	return &Interpreter{
		ScriptPubKey: spk, ScriptSig: scriptSig, Witness: witness, Age: age, Height: height,
		Kind: context.Tap, Ms: ms, ScriptCode: script, LeafVersion: leafVersion,
		stack: append(Stack(nil), rest[:len(rest)-2]...),
	}, nil
}

func bindP2SH(spk, scriptSig []byte, witness [][]byte, age, height uint32) (*Interpreter, er.R) {
	ops, perr := parsescript.ParseScript(scriptSig)
	if perr != nil || !parsescript.IsPushOnly(ops) || len(ops) == 0 {
		return nil, ErrCouldNotEvaluate.New("legacy P2SH scriptSig must be a nonempty push-only script", nil)
	}
	redeem := ops[len(ops)-1].Data
	if !bytesEqual(btcutil.Hash160(redeem), spk[2:22]) {
		return nil, ErrIncorrectScriptHash.New("hash160(redeemScript) does not match the program", nil)
	}

	switch {
	case isP2WPKH(redeem):
		return bindP2WPKH(spk, redeem[2:22], scriptSig, witness, age, height, context.Segwitv0)
	case isP2WSH(redeem):
		return bindP2WSH(spk, redeem[2:34], scriptSig, witness, age, height)
	default:
		if len(witness) != 0 {
			return nil, ErrNonEmptyWitness.New("legacy P2SH spend must not carry a witness", nil)
		}
		ms, err := miniscript.Infer(redeem, context.Legacy)
		if err != nil {
			return nil, ErrMiniscript.New("inferring redeemScript", err)
		}
		stack := make(Stack, 0, len(ops)-1)
		for _, op := range ops[:len(ops)-1] {
			stack = append(stack, op.Data)
		}
		return &Interpreter{
			ScriptPubKey: spk, ScriptSig: scriptSig, Witness: witness, Age: age, Height: height,
			Kind: context.Legacy, Ms: ms, ScriptCode: redeem, stack: stack,
		}, nil
	}
}

func bindP2PKH(spk, scriptSig []byte, witness [][]byte, age, height uint32) (*Interpreter, er.R) {
	if len(witness) != 0 {
		return nil, ErrNonEmptyWitness.New("legacy P2PKH spend must not carry a witness", nil)
	}
	ops, perr := parsescript.ParseScript(scriptSig)
	if perr != nil || !parsescript.IsPushOnly(ops) || len(ops) != 2 {
		return nil, ErrBadTemplate.New("P2PKH scriptSig must push exactly [sig, pubkey]", nil)
	}
	pk := ops[1].Data
	wantHash := spk[3:23]
	if !bytesEqual(btcutil.Hash160(pk), wantHash) {
		return nil, ErrIncorrectPubkeyHash.New("hash160(pubkey) does not match the program", nil)
	}
	var h key.Hash
	copy(h[:], wantHash)
	pkh, err := miniscript.PkH(h)
	if err != nil {
		return nil, err
	}
	ms, err := miniscript.Wrap('c', pkh)
	if err != nil {
		return nil, err
	}
	scriptCode, err := ms.Encode()
	if err != nil {
		return nil, err
	}
	return &Interpreter{
		ScriptPubKey: spk, ScriptSig: scriptSig, Witness: witness, Age: age, Height: height,
		Kind: context.Legacy, Ms: ms, ScriptCode: scriptCode, stack: Stack{ops[0].Data, pk},
	}, nil
}

func bindBare(spk, scriptSig []byte, witness [][]byte, age, height uint32) (*Interpreter, er.R) {
	if len(witness) != 0 {
		return nil, ErrNonEmptyWitness.New("legacy bare spend must not carry a witness", nil)
	}
	ms, err := miniscript.Infer(spk, context.Legacy)
	if err != nil {
		return nil, ErrMiniscript.New("inferring scriptPubKey", err)
	}
	var stack Stack
	if len(scriptSig) > 0 {
		ops, perr := parsescript.ParseScript(scriptSig)
		if perr != nil || !parsescript.IsPushOnly(ops) {
			return nil, ErrCouldNotEvaluate.New("bare scriptSig must be push-only", nil)
		}
		for _, op := range ops {
			stack = append(stack, op.Data)
		}
	}
	return &Interpreter{
		ScriptPubKey: spk, ScriptSig: scriptSig, Witness: witness, Age: age, Height: height,
		Kind: context.Legacy, Ms: ms, ScriptCode: spk, stack: stack,
	}, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
