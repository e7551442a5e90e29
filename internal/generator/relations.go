package generator

import (
	"context"
	"fmt"
	"strings"
)

// Relations maps every class of the pattern's schema to the classes its
// foreign keys reference, in declaration order with duplicates kept.
// References to tables outside that schema are dropped.
func (g *Generator) Relations(ctx context.Context) (map[string][]string, error) {
	schema := ""
	if pos := strings.Index(g.opts.TableName, "."); pos >= 0 {
		schema = g.opts.TableName[:pos]
	}

	tables, err := g.schema.GetTableSchemas(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables of schema %q: %w", schema, err)
	}

	resolved, err := g.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	isResolved := make(map[string]bool, len(resolved))
	for _, table := range resolved {
		_, name := splitSchema(table)
		isResolved[name] = true
	}

	classOf := make(map[string]string, len(tables))
	for _, table := range tables {
		classOf[table.Name] = g.ClassName(table.Name)
	}

	relations := make(map[string][]string, len(tables))
	owner := make(map[string]string, len(tables))
	for _, table := range tables {
		class := classOf[table.Name]
		if prev, ok := owner[class]; ok && isResolved[prev] && !isResolved[table.Name] {
			continue
		}
		owner[class] = table.Name

		refs := []string{}
		for _, ref := range table.ReferencedTables() {
			if refClass, ok := classOf[ref]; ok {
				refs = append(refs, refClass)
			}
		}
		relations[class] = refs
	}

	g.warnCycles(relations)
	return relations, nil
}

func (g *Generator) warnCycles(relations map[string][]string) {
	graph := NewDependencyGraph()
	for class, deps := range relations {
		graph.Add(class, deps)
	}

	_, cycles := graph.LoadOrder()
	for _, edge := range cycles {
		if edge.From == edge.To {
			g.log.Warn("%sFixture depends on itself", edge.From)
			continue
		}
		g.log.Warn("circular dependency: %sFixture -> %sFixture", edge.From, edge.To)
	}
}
