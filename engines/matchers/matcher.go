package matchers

// Span is the half-open byte range [Start, End) of a match.
type Span struct {
	Start int
	End   int
}

//go:generate counterfeiter . Matcher

type Matcher interface {
	// Find reports the first match in content.
	Find(content []byte) (Span, bool)
}

// Any tries each matcher in turn and reports the first that finds something.
func Any(ms ...Matcher) Matcher {
	return anyOf(ms)
}

type anyOf []Matcher

func (ms anyOf) Find(content []byte) (Span, bool) {
	for _, m := range ms {
		if span, ok := m.Find(content); ok {
			return span, true
		}
	}

	return Span{}, false
}
