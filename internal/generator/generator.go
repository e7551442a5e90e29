// Package generator turns a table name pattern into Yii2 fixture classes and
// data snapshots.
//
// A Generator is good for a single run. Resolved table names and derived
// class names are memoized on it and assume the schema does not change
// while it is in use.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Rana718/db2fixture/internal/codefile"
	"github.com/Rana718/db2fixture/internal/config"
	"github.com/Rana718/db2fixture/internal/database"
	"github.com/Rana718/db2fixture/internal/logger"
	"github.com/Rana718/db2fixture/internal/render"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Options struct {
	DB              string
	Namespace       string
	ModelsNamespace string
	TableName       string
	BaseClass       string
	WordSeparator   string
	BasePath        string

	// Connections lists the connection ids DB may name. Empty disables the
	// check.
	Connections []string
}

func NewOptions(cfg *config.Config) Options {
	return Options{
		DB:              cfg.Fixture.DB,
		Namespace:       cfg.Fixture.Namespace,
		ModelsNamespace: cfg.Fixture.ModelsNamespace,
		TableName:       cfg.Fixture.TableName,
		BaseClass:       cfg.Fixture.BaseClass,
		WordSeparator:   cfg.Fixture.WordSeparator,
		BasePath:        cfg.BasePath,
		Connections:     cfg.ConnectionIDs(),
	}
}

// normalize applies the input filters: every field is trimmed and
// namespaces lose leading and trailing backslashes.
func (o Options) normalize() Options {
	o.DB = strings.TrimSpace(o.DB)
	o.Namespace = strings.Trim(strings.TrimSpace(o.Namespace), `\`)
	o.ModelsNamespace = strings.Trim(strings.TrimSpace(o.ModelsNamespace), `\`)
	o.TableName = strings.TrimSpace(o.TableName)
	o.BaseClass = strings.TrimSpace(o.BaseClass)
	if o.WordSeparator == "" {
		o.WordSeparator = "_"
	}
	if o.BasePath == "" {
		o.BasePath = "."
	}
	return o
}

type Generator struct {
	opts     Options
	schema   database.SchemaIntrospector
	rows     database.RowSource
	renderer render.Renderer
	log      *logger.Logger

	caser      cases.Caser
	tableNames []string
	classNames map[string]string
}

func New(opts Options, schema database.SchemaIntrospector, rows database.RowSource, renderer render.Renderer, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Discard()
	}
	return &Generator{
		opts:       opts.normalize(),
		schema:     schema,
		rows:       rows,
		renderer:   renderer,
		log:        log,
		caser:      cases.Title(language.Und, cases.NoLower),
		classNames: make(map[string]string),
	}
}

func (g *Generator) Options() Options {
	return g.opts
}

// NamespacePath maps a namespace onto a directory below the base path,
// common\fixtures becoming <base>/common/fixtures.
func (o Options) NamespacePath(ns string) string {
	return filepath.Join(o.BasePath, filepath.FromSlash(strings.ReplaceAll(ns, `\`, "/")))
}

func (g *Generator) NamespacePath(ns string) string {
	return g.opts.NamespacePath(ns)
}

func (g *Generator) FixturePath(class string) string {
	return filepath.Join(g.NamespacePath(g.opts.Namespace), class+"Fixture.php")
}

func (g *Generator) DataPath(table string) string {
	return filepath.Join(g.NamespacePath(g.opts.Namespace), "data", table+".php")
}

// Generate validates the input and renders a fixture class and a data file
// for every resolved table. Nothing is written to disk.
func (g *Generator) Generate(ctx context.Context) ([]*codefile.CodeFile, error) {
	if err := g.Validate(ctx); err != nil {
		return nil, err
	}

	relations, err := g.Relations(ctx)
	if err != nil {
		return nil, err
	}

	tables, err := g.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]*codefile.CodeFile, 0, len(tables)*2)
	for _, table := range tables {
		class := g.ClassName(table)

		data, err := g.rows.GetTableData(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch rows of %s: %w", table, err)
		}

		dependencies := relations[class]
		if dependencies == nil {
			dependencies = []string{}
		}

		params := render.Params{
			TableName:       table,
			ClassName:       class + "Fixture",
			ModelClassName:  class,
			Namespace:       g.opts.Namespace,
			ModelsNamespace: g.opts.ModelsNamespace,
			BaseClass:       g.opts.BaseClass,
			Dependencies:    dependencies,
			Columns:         data.Columns,
			Rows:            data.Rows,
		}
		g.log.Debug("%s: class=%s model=%s\\%s depends=%v rows=%d",
			table, params.ClassName, params.ModelsNamespace, params.ModelClassName, params.Dependencies, len(params.Rows))

		fixture, err := g.renderer.Render(render.FixtureTemplate, params)
		if err != nil {
			return nil, err
		}
		snapshot, err := g.renderer.Render(render.DataTemplate, params)
		if err != nil {
			return nil, err
		}

		files = append(files,
			codefile.New(g.FixturePath(class), fixture),
			codefile.New(g.DataPath(table), snapshot),
		)
	}

	return files, nil
}

// PlanEntry describes what Generate would produce for one table.
type PlanEntry struct {
	Table       string   `yaml:"table"`
	Class       string   `yaml:"class"`
	Model       string   `yaml:"model"`
	Depends     []string `yaml:"depends"`
	FixturePath string   `yaml:"fixture_path"`
	DataPath    string   `yaml:"data_path"`
}

type Plan struct {
	Tables    []PlanEntry `yaml:"tables"`
	LoadOrder []string    `yaml:"load_order"`
}

// Plan runs validation, resolution and the relation scan without fetching
// any rows.
func (g *Generator) Plan(ctx context.Context) (*Plan, error) {
	if err := g.Validate(ctx); err != nil {
		return nil, err
	}

	relations, err := g.Relations(ctx)
	if err != nil {
		return nil, err
	}

	tables, err := g.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	graph := NewDependencyGraph()
	for _, table := range tables {
		class := g.ClassName(table)
		depends := make([]string, 0, len(relations[class]))
		for _, dep := range render.Unique(relations[class]) {
			depends = append(depends, g.opts.Namespace+`\`+dep+"Fixture")
		}
		plan.Tables = append(plan.Tables, PlanEntry{
			Table:       table,
			Class:       g.opts.Namespace + `\` + class + "Fixture",
			Model:       g.opts.ModelsNamespace + `\` + class,
			Depends:     depends,
			FixturePath: g.FixturePath(class),
			DataPath:    g.DataPath(table),
		})
		graph.Add(class, relations[class])
	}

	plan.LoadOrder, _ = graph.LoadOrder()
	return plan, nil
}
