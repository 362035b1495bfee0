// Command msdesc parses an output descriptor from argv, verifies its
// checksum and miniscript type, and prints the scriptPubKey it commits
// to plus the resource bounds of the miniscript inside it.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkt-cash/go-miniscript/descriptor"
	"github.com/pkt-cash/go-miniscript/miniscript"
	"github.com/pkt-cash/go-miniscript/pktconfig/version"
	"github.com/pkt-cash/go-miniscript/pktlog/log"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: msdesc <descriptor>")
}

func main() {
	version.SetUserAgentName("msdesc")
	if len(os.Args) != 2 {
		usage()
		os.Exit(100)
	}

	d, err := descriptor.FromString(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing descriptor:", err.String())
		os.Exit(100)
	}
	log.Debugf("msdesc: parsed descriptor kind wsh=%v wpkh=%v sh=%v elements=%v",
		d.Wsh != nil, d.Wpkh != nil, d.Sh != nil, d.Elements)

	spk, err := d.ScriptPubKey()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error computing scriptPubKey:", err.String())
		os.Exit(100)
	}
	fmt.Println("scriptPubKey:", hex.EncodeToString(spk))

	canonical, err := d.String()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error rendering descriptor:", err.String())
		os.Exit(100)
	}
	fmt.Println("canonical:", canonical)

	ms := miniscriptOf(d)
	if ms == nil {
		return
	}
	t := ms.Typ
	fmt.Printf("type: base=%s safe=%v nonmalleable=%v dissatisfiable=%v\n", t.Base.String(), t.S, t.M, t.D)
	fmt.Printf("script size: %d bytes, ops: %d, max satisfaction: %d witness elements / %d bytes\n",
		t.ScriptSize, t.OpsCount, t.MaxSatWitnessElements, t.MaxSatSize)
}

func miniscriptOf(d descriptor.Descriptor) *miniscript.Fragment {
	switch {
	case d.Wsh != nil && d.Wsh.Ms != nil:
		return d.Wsh.Ms
	case d.Sh != nil && d.Sh.Ms != nil:
		return d.Sh.Ms
	default:
		return nil
	}
}
