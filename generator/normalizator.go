package generator

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ahmetb/go-linq"
	"github.com/go-json-experiment/json"
	"github.com/spf13/cast"
)

type Normalizer struct{}

// upperFirst upper-cases the first rune and keeps the rest as is.
func (normalizer *Normalizer) upperFirst(str string) string {
	if str == "" {
		return str
	}

	r, size := utf8.DecodeRuneInString(str)
	return string(unicode.ToUpper(r)) + str[size:]
}

// identifier drops every character outside [A-Za-z0-9_].
func (normalizer *Normalizer) identifier(str string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}

		return -1
	}, str)
}

// normalize turns a separated string into PascalCase.
func (normalizer *Normalizer) normalize(str string) string {
	separators := "-#@!$&=.+:;_~ (){}[]/"
	s := strings.Trim(str, " ")

	var n strings.Builder
	capNext := true
	for _, v := range s {
		switch {
		case unicode.IsUpper(v), unicode.IsDigit(v):
			n.WriteRune(v)
		case unicode.IsLower(v):
			if capNext {
				n.WriteRune(unicode.ToUpper(v))
			} else {
				n.WriteRune(v)
			}
		}

		capNext = strings.ContainsRune(separators, v)
	}

	return n.String()
}

// operationName derives a name for operations without an operationId.
func (normalizer *Normalizer) operationName(method Method, path string) string {
	return normalizer.normalize(strings.ToLower(string(method)) + "-" + strings.ReplaceAll(path, "/", "-"))
}

// extractNameFromRef returns the definition name of a local reference.
func (normalizer *Normalizer) extractNameFromRef(ref string) string {
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, DefinitionsPrefix) {
		return strings.TrimPrefix(ref, DefinitionsPrefix)
	}

	return ref[strings.LastIndex(ref, "/")+1:]
}

// propertyKey returns name as a TypeScript property key, quoting it when it
// is not a valid identifier.
func (normalizer *Normalizer) propertyKey(name string) string {
	if name == "" {
		return `""`
	}

	for i, r := range name {
		letter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
		if !letter && (i == 0 || r < '0' || r > '9') {
			return normalizer.literal(name)
		}
	}

	return name
}

// literal renders value the way JSON.stringify does.
func (normalizer *Normalizer) literal(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return strconv.Quote(cast.ToString(value))
	}

	return string(raw)
}

// lineComment renders description as // comment lines.
func (normalizer *Normalizer) lineComment(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	var lines []string
	linq.From(strings.Split(description, "\n")).
		SelectT(func(line string) string { return strings.TrimRight("// "+strings.TrimSpace(line), " ") }).
		ToSlice(&lines)

	return strings.Join(lines, "\n")
}

// blockComment renders description as a trailing /* */ comment.
func (normalizer *Normalizer) blockComment(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	return " /* " + strings.ReplaceAll(description, "*/", "*\\/") + " */"
}

// joinLines joins the non-empty fragments with a line break.
func (normalizer *Normalizer) joinLines(from ...string) string {
	var lines []string
	linq.From(from).
		WhereT(func(line string) bool { return line != "" }).
		ToSlice(&lines)

	return strings.Join(lines, "\n")
}
