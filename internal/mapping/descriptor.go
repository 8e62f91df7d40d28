package mapping

import "strings"

// RemapDescriptor rewrites every L<class>; reference in a field or method
// descriptor through lookup. References lookup does not know are kept, as is
// everything outside a reference. An unterminated reference is copied as is.
func RemapDescriptor(desc string, lookup func(string) (string, bool)) string {
	if strings.IndexByte(desc, 'L') < 0 {
		return desc
	}

	var b strings.Builder
	b.Grow(len(desc))
	for i := 0; i < len(desc); i++ {
		c := desc[i]
		if c != 'L' {
			b.WriteByte(c)
			continue
		}
		end := strings.IndexByte(desc[i+1:], ';')
		if end < 0 {
			b.WriteString(desc[i:])
			break
		}
		class := desc[i+1 : i+1+end]
		if mapped, ok := lookup(class); ok {
			class = mapped
		}
		b.WriteByte('L')
		b.WriteString(class)
		b.WriteByte(';')
		i += end + 1
	}
	return b.String()
}
