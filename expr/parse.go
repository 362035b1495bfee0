package expr

import "github.com/pkt-cash/go-miniscript/btcutil/er"

// ParseDescriptor verifies and strips the trailing `#checksum`, then
// tokenizes the body into a Tree. A descriptor string given to this
// toolkit's top-level entry points must carry a checksum (spec.md §6's
// EBNF requires `desc := body '#' checksum`); bare bodies without a '#'
// are rejected here rather than silently accepted, since ParseDescriptor
// is the only caller that enforces the full `desc` grammar production
// (VerifyChecksum itself tolerates a missing '#' for callers checksumming
// a body they just built).
func ParseDescriptor(desc string) (Tree, er.R) {
	idx := -1
	for i := 0; i < len(desc); i++ {
		if desc[i] == '#' {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Tree{}, ErrUnexpected.New("descriptor string must end in a #checksum", nil)
	}
	body, ok, err := VerifyChecksum(desc)
	if err != nil {
		return Tree{}, err
	}
	if !ok {
		return Tree{}, ErrBadChecksum.New("checksum mismatch", nil)
	}
	return Parse(body)
}
