// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package expr parses a descriptor string into a nested name(arg,arg,...)
// tree and verifies its trailing checksum. It knows nothing about
// miniscript semantics -- that is the descriptor and miniscript packages'
// job -- it only tokenizes and checks the envelope (spec.md §4.A).
package expr

import "github.com/pkt-cash/go-miniscript/btcutil/er"

// Err is the error type for this package.
var Err = er.NewErrorType("expr.Err")

var (
	// ErrBadChecksum is returned when a `#xxxxxxxx` suffix is present
	// but does not match the computed checksum of the body.
	ErrBadChecksum = Err.Code("ErrBadChecksum")
	// ErrUnexpected is returned on unbalanced parens, trailing garbage,
	// or an identifier with disallowed characters.
	ErrUnexpected = Err.Code("ErrUnexpected")
)

// checksumCharset is the bech32-style base-32 alphabet the eight checksum
// symbols are drawn from.
const checksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// generator holds the five polymod generator constants of the Bitcoin
// output descriptor checksum (spec.md §4.A) -- these are exactly the
// well-known constants; do not invent a variant.
var generator = [5]uint64{
	0xf5dee51989,
	0xa9fdca3312,
	0x1bab10e32d,
	0x3706b1677a,
	0xe8f18d57b7,
}

func polymod(c uint64, val uint64) uint64 {
	c0 := c >> 35
	c = ((c & 0x7ffffffff) << 5) ^ val
	for i := 0; i < 5; i++ {
		if (c0>>uint(i))&1 != 0 {
			c ^= generator[i]
		}
	}
	return c
}

// descriptorChecksum computes the eight-character checksum of a
// descriptor body string, following the reference algorithm exactly: each
// input character's position in inputCharset contributes its low five
// bits as one symbol, and its high bits (a class 0-2) are packed three
// characters at a time into one extra symbol; the symbol stream is finally
// fed 8 zero symbols and xored with 1, and the eight 5-bit results are
// rendered through checksumCharset.
func descriptorChecksum(body string) (string, er.R) {
	const inputCharset = "0123456789()[],'/*abcdefgh@:$%{}IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~" +
		"ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "

	c := uint64(1)
	cls := 0
	clscount := 0
	for _, ch := range body {
		pos := indexByte(inputCharset, byte(ch))
		if pos == -1 {
			return "", ErrUnexpected.New("character not valid in a descriptor: "+string(ch), nil)
		}
		c = polymod(c, uint64(pos&31))
		cls = cls*3 + (pos >> 5)
		clscount++
		if clscount == 3 {
			c = polymod(c, uint64(cls))
			cls = 0
			clscount = 0
		}
	}
	if clscount > 0 {
		c = polymod(c, uint64(cls))
	}
	for i := 0; i < 8; i++ {
		c = polymod(c, 0)
	}
	c ^= 1

	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = checksumCharset[(c>>uint(5*(7-i)))&31]
	}
	return string(out), nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// AppendChecksum renders `body#checksum` for a descriptor body that does
// not yet carry one.
func AppendChecksum(body string) (string, er.R) {
	sum, err := descriptorChecksum(body)
	if err != nil {
		return "", err
	}
	return body + "#" + sum, nil
}

// VerifyChecksum splits `body#cccccccc` and verifies the eight trailing
// characters against the computed checksum of body. If desc carries no
// '#' at all it is returned unchanged with ok=true -- callers that
// require a checksum to be present must check for one themselves
// (ParseDescriptor in parse.go always requires one).
func VerifyChecksum(desc string) (body string, ok bool, rErr er.R) {
	idx := -1
	for i := 0; i < len(desc); i++ {
		if desc[i] == '#' {
			idx = i
			break
		}
	}
	if idx == -1 {
		return desc, true, nil
	}
	body = desc[:idx]
	sum := desc[idx+1:]
	if len(sum) != 8 {
		return body, false, ErrBadChecksum.New("checksum must be exactly 8 characters", nil)
	}
	expect, err := descriptorChecksum(body)
	if err != nil {
		return body, false, err
	}
	if expect != sum {
		return body, false, ErrBadChecksum.New("expected "+expect+" got "+sum, nil)
	}
	return body, true, nil
}
