package matchers

import "regexp"

type pattern struct {
	re *regexp.Regexp
}

// Format panics if expr does not compile; rule tables are static.
func Format(expr string) Matcher {
	return pattern{re: regexp.MustCompile(expr)}
}

func (p pattern) Find(content []byte) (Span, bool) {
	loc := p.re.FindIndex(content)
	if loc == nil {
		return Span{}, false
	}

	return Span{Start: loc[0], End: loc[1]}, true
}

type notFollowedBy struct {
	re     *regexp.Regexp
	follow *regexp.Regexp
}

// NotFollowedBy finds the first occurrence of expr whose remaining content
// does not begin with follow. RE2 has no negative lookahead.
func NotFollowedBy(expr, follow string) Matcher {
	return notFollowedBy{
		re:     regexp.MustCompile(expr),
		follow: regexp.MustCompile(`^(?:` + follow + `)`),
	}
}

func (m notFollowedBy) Find(content []byte) (Span, bool) {
	for _, loc := range m.re.FindAllIndex(content, -1) {
		if !m.follow.Match(content[loc[1]:]) {
			return Span{Start: loc[0], End: loc[1]}, true
		}
	}

	return Span{}, false
}
