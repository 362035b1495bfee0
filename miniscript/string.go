package miniscript

import (
	"strconv"
	"strings"
)

// String renders f in miniscript notation with pk_k/pk_h and their
// wrappers written out (no pk()/pkh() shorthand), e.g.
// "and_v(v:c:pk_k(A),or_b(c:pk_k(B),s:c:pk_k(C)))".
func (f *Fragment) String() string {
	var b strings.Builder
	f.writeTo(&b)
	return b.String()
}

func (f *Fragment) writeTo(b *strings.Builder) {
	switch f.Kind {
	case KindTrue:
		b.WriteString("1")
	case KindFalse:
		b.WriteString("0")
	case KindPkK:
		b.WriteString("pk_k(")
		b.WriteString(f.Key.String())
		b.WriteString(")")
	case KindPkH:
		b.WriteString("pk_h(")
		b.WriteString(f.KeyHash.String())
		b.WriteString(")")
	case KindOlder:
		b.WriteString("older(")
		b.WriteString(strconv.FormatUint(uint64(f.LockValue), 10))
		b.WriteString(")")
	case KindAfter:
		b.WriteString("after(")
		b.WriteString(strconv.FormatUint(uint64(f.LockValue), 10))
		b.WriteString(")")
	case KindSha256, KindHash256, KindRipemd160, KindHash160:
		b.WriteString(f.Kind.String())
		b.WriteString("(")
		b.WriteString(hexString(f.Hash))
		b.WriteString(")")
	case KindMulti, KindMultiA:
		b.WriteString(f.Kind.String())
		b.WriteString("(")
		b.WriteString(strconv.Itoa(f.Thresh))
		for _, k := range f.Keys {
			b.WriteString(",")
			b.WriteString(k.String())
		}
		b.WriteString(")")
	case KindThresh:
		b.WriteString("thresh(")
		b.WriteString(strconv.Itoa(f.Thresh))
		for _, c := range f.Children {
			b.WriteString(",")
			c.writeTo(b)
		}
		b.WriteString(")")
	case KindAndV, KindAndB, KindOrB, KindOrC, KindOrD, KindOrI:
		b.WriteString(f.Kind.String())
		b.WriteString("(")
		f.Children[0].writeTo(b)
		b.WriteString(",")
		f.Children[1].writeTo(b)
		b.WriteString(")")
	case KindAndor:
		b.WriteString("andor(")
		f.Children[0].writeTo(b)
		b.WriteString(",")
		f.Children[1].writeTo(b)
		b.WriteString(",")
		f.Children[2].writeTo(b)
		b.WriteString(")")
	case KindWrap:
		b.WriteByte(f.WrapChar)
		b.WriteString(":")
		f.Children[0].writeTo(b)
	}
}

func hexString(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = digits[v>>4]
		out[i*2+1] = digits[v&0xf]
	}
	return string(out)
}
