package generator

import (
	"github.com/dlclark/regexp2"
)

var (
	// propertyName matches one component of a property path: a plain name,
	// a bracketed index, a bracketed quoted string, or the empty component
	// between two separators.
	propertyName = regexp2.MustCompile(
		`[^.[\]]+|\[(?:(-?\d+(?:\.\d+)?)|(["'])((?:(?!\2)[^\\]|\\.)*?)\2)\]|(?=(?:\.|\[\])(?:\.|\[\]|$))`,
		regexp2.ECMAScript)

	escapeChar = regexp2.MustCompile(`\\(\\)?`, regexp2.ECMAScript)
)

// ToPath splits a property path such as `a.b[0]['c d']` into its segments.
func ToPath(name string) []string {
	var segments []string
	if len(name) > 0 && name[0] == '.' {
		segments = append(segments, "")
	}

	match, err := propertyName.FindStringMatch(name)
	for err == nil && match != nil {
		segments = append(segments, segment(match))
		match, err = propertyName.FindNextMatch(match)
	}

	return segments
}

func segment(match *regexp2.Match) string {
	if quote := match.GroupByNumber(2); quote != nil && len(quote.Captures) > 0 {
		quoted := match.GroupByNumber(3).String()
		unescaped, err := escapeChar.Replace(quoted, "$1", -1, -1)
		if err != nil {
			return quoted
		}

		return unescaped
	}

	if index := match.GroupByNumber(1); index != nil && len(index.Captures) > 0 {
		return index.String()
	}

	return match.String()
}
