package expr

import "github.com/pkt-cash/go-miniscript/btcutil/er"

// Tree is a parsed `name(arg,arg,...)` node. A leaf (no parentheses) has
// a nil Args slice. Parsing is purely syntactic: expr knows nothing about
// which names or argument counts are semantically valid; that is the
// descriptor and miniscript packages' job.
type Tree struct {
	Name string
	Args []Tree
}

// IsLeaf reports whether this node had no parenthesized argument list.
func (t Tree) IsLeaf() bool {
	return t.Args == nil
}

// isIdentByte reports whether b is legal in a bare identifier: spec.md
// §4.A restricts these to `[a-z0-9_:]+`, but keys and hex payloads also
// flow through identifiers at the leaf level, so digits/hex letters and
// a handful of punctuation used by extended-key paths are accepted too.
func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == ':' || b == '/' || b == '*' || b == '\'' || b == '.':
		return true
	}
	return false
}

// Parse performs the recursive-descent tokenization of spec.md §4.A: no
// whitespace, identifiers made of the bytes isIdentByte accepts, leaves
// have no parentheses.
// Unbalanced parens or trailing garbage return ErrUnexpected.
func Parse(s string) (Tree, er.R) {
	t, rest, err := parseOne(s)
	if err != nil {
		return Tree{}, err
	}
	if rest != "" {
		return Tree{}, ErrUnexpected.New("trailing characters after top-level expression: "+rest, nil)
	}
	return t, nil
}

func parseOne(s string) (Tree, string, er.R) {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	if i == 0 {
		return Tree{}, "", ErrUnexpected.New("expected identifier", nil)
	}
	name := s[:i]
	rest := s[i:]
	if rest == "" || rest[0] != '(' {
		return Tree{Name: name}, rest, nil
	}
	rest = rest[1:] // consume '('
	var args []Tree
	for {
		if rest == "" {
			return Tree{}, "", ErrUnexpected.New("unbalanced parentheses in: "+name, nil)
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		var arg Tree
		var err er.R
		arg, rest, err = parseOne(rest)
		if err != nil {
			return Tree{}, "", err
		}
		args = append(args, arg)
		if rest == "" {
			return Tree{}, "", ErrUnexpected.New("unbalanced parentheses in: "+name, nil)
		}
		if rest[0] == ',' {
			rest = rest[1:]
			continue
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		return Tree{}, "", ErrUnexpected.New("expected ',' or ')' in: "+name, nil)
	}
	return Tree{Name: name, Args: args}, rest, nil
}
