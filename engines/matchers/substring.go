package matchers

import "bytes"

type literal struct {
	needle   []byte
	foldCase bool
}

func Substring(s string) Matcher {
	return literal{needle: []byte(s)}
}

func SubstringIgnoreCase(s string) Matcher {
	return literal{needle: bytes.ToLower([]byte(s)), foldCase: true}
}

func (l literal) Find(content []byte) (Span, bool) {
	if l.foldCase {
		content = bytes.ToLower(content)
	}

	i := bytes.Index(content, l.needle)
	if i < 0 {
		return Span{}, false
	}

	return Span{Start: i, End: i + len(l.needle)}, true
}
