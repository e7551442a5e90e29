package generator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ClassName derives the model class name for a table: the schema is dropped,
// then the first rule that matches wins. A non-empty table prefix is
// stripped from the front or else from the back, and a wildcard pattern
// contributes the text its '*' captured. The result is camelized and cached.
func (g *Generator) ClassName(tableName string) string {
	if class, ok := g.classNames[tableName]; ok {
		return class
	}

	_, name := splitSchema(tableName)
	base := name
	for _, re := range g.classPatterns() {
		if m := re.FindStringSubmatch(name); m != nil {
			base = m[1]
			break
		}
	}

	class := g.camelize(base)
	g.classNames[tableName] = class
	return class
}

func (g *Generator) classPatterns() []*regexp.Regexp {
	var patterns []*regexp.Regexp

	if prefix := g.schema.TablePrefix(); prefix != "" {
		quoted := regexp.QuoteMeta(prefix)
		patterns = append(patterns,
			regexp.MustCompile("^"+quoted+"(.*?)$"),
			regexp.MustCompile("^(.*?)"+quoted+"$"),
		)
	}

	if strings.Contains(g.opts.TableName, "*") {
		_, namePattern := splitSchema(g.opts.TableName)
		if re, err := wildcardPattern(namePattern, `(\w+)`); err == nil {
			patterns = append(patterns, re)
		}
	}
	return patterns
}

// camelize upper-cases the first character of every separator delimited
// word and joins the words. The rest of each word is left as is, so
// "user_2fa" becomes "User2fa".
func (g *Generator) camelize(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return strings.ContainsRune(g.opts.WordSeparator, r)
	})

	var b strings.Builder
	for _, word := range words {
		_, n := utf8.DecodeRuneInString(word)
		b.WriteString(g.caser.String(word[:n]))
		b.WriteString(word[n:])
	}
	return b.String()
}
