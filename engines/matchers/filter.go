package matchers

import "bytes"

// Filter runs next only on content containing one of the keywords, ignoring
// case. Rule regexes sit behind a Filter so most lines never reach them.
func Filter(next Matcher, keywords ...string) Matcher {
	g := &guarded{next: next}
	for _, keyword := range keywords {
		g.keywords = append(g.keywords, bytes.ToLower([]byte(keyword)))
	}

	return g
}

type guarded struct {
	next     Matcher
	keywords [][]byte
}

func (g *guarded) Find(content []byte) (Span, bool) {
	folded := bytes.ToLower(content)

	for _, keyword := range g.keywords {
		if bytes.Contains(folded, keyword) {
			return g.next.Find(content)
		}
	}

	return Span{}, false
}
