package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

func splitSchema(name string) (string, string) {
	if pos := strings.LastIndex(name, "."); pos >= 0 {
		return name[:pos], name[pos+1:]
	}
	return "", name
}

// wildcardPattern translates a table name pattern into an anchored regexp,
// with every '*' replaced by repl.
func wildcardPattern(pattern, repl string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.Compile("^" + strings.Join(parts, repl) + "$")
}

// TableNames returns the tables matched by the table name pattern. Names in
// an explicitly given schema stay qualified. The result is memoized.
func (g *Generator) TableNames(ctx context.Context) ([]string, error) {
	if g.tableNames != nil {
		return g.tableNames, nil
	}

	pattern := g.opts.TableName
	names := []string{}

	if strings.Contains(pattern, "*") {
		schema, namePattern := splitSchema(pattern)
		re, err := wildcardPattern(namePattern, `\w+`)
		if err != nil {
			return nil, fmt.Errorf("invalid table pattern %q: %w", pattern, err)
		}

		tables, err := g.schema.GetTableNames(ctx, schema)
		if err != nil {
			return nil, err
		}
		for _, table := range tables {
			if !re.MatchString(table) {
				continue
			}
			if schema == "" {
				names = append(names, table)
			} else {
				names = append(names, schema+"."+table)
			}
		}
	} else {
		table, err := g.schema.GetTableSchema(ctx, pattern)
		if err != nil {
			return nil, err
		}
		if table != nil {
			names = append(names, pattern)
		}
	}

	g.tableNames = names
	return names, nil
}
