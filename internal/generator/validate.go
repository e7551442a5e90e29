package generator

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	FieldDB              = "db"
	FieldNamespace       = "ns"
	FieldModelsNamespace = "modelsNs"
	FieldTableName       = "tableName"
	FieldBaseClass       = "baseClass"
)

var fieldLabels = map[string]string{
	FieldDB:              "Database Connection ID",
	FieldNamespace:       "Namespace",
	FieldModelsNamespace: "Models Namespace",
	FieldTableName:       "Table Name",
	FieldBaseClass:       "Base Class",
}

var (
	wordPattern      = regexp.MustCompile(`^\w+$`)
	namespacePattern = regexp.MustCompile(`^[\w\\]+$`)
	tablePattern     = regexp.MustCompile(`^(\w+\.)?([\w*]+)$`)
)

type fieldCheck func(ctx context.Context, value string) (string, error)

func matches(re *regexp.Regexp, message string) fieldCheck {
	return func(_ context.Context, value string) (string, error) {
		if !re.MatchString(value) {
			return message, nil
		}
		return "", nil
	}
}

type field struct {
	name   string
	value  string
	checks []fieldCheck
}

// fields lists the checks that only look at the options themselves.
func (o Options) fields() []field {
	return []field{
		{FieldDB, o.DB, []fieldCheck{
			matches(wordPattern, "Only word characters are allowed."),
			o.checkConnection,
		}},
		{FieldNamespace, o.Namespace, []fieldCheck{
			matches(namespacePattern, "Only word characters and backslashes are allowed."),
			o.checkNamespaceDir,
		}},
		{FieldModelsNamespace, o.ModelsNamespace, []fieldCheck{
			matches(namespacePattern, "Only word characters and backslashes are allowed."),
		}},
		{FieldTableName, o.TableName, []fieldCheck{
			matches(tablePattern, "Only word characters, and optionally an asterisk and/or a dot are allowed."),
			checkAsterisk,
		}},
		{FieldBaseClass, o.BaseClass, []fieldCheck{
			matches(namespacePattern, "Only word characters and backslashes are allowed."),
		}},
	}
}

// ValidateOptions runs every check that needs no database connection, so
// configuration mistakes are reported before connecting.
func ValidateOptions(opts Options) error {
	return validateFields(context.Background(), opts.normalize().fields())
}

// Validate checks every input field, including the table name against the
// schema. Field problems come back as ValidationErrors; a failing catalog
// query is returned as is.
func (g *Generator) Validate(ctx context.Context) error {
	fields := g.opts.fields()
	for i := range fields {
		if fields[i].name == FieldTableName {
			fields[i].checks = append(fields[i].checks, g.checkTableName)
		}
	}
	return validateFields(ctx, fields)
}

func validateFields(ctx context.Context, fields []field) error {
	var errs ValidationErrors
	for _, f := range fields {
		if f.value == "" {
			errs = append(errs, &ValidationError{
				Field:   f.name,
				Message: fieldLabels[f.name] + " cannot be blank.",
			})
			continue
		}

		for _, check := range f.checks {
			msg, err := check(ctx, f.value)
			if err != nil {
				return err
			}
			if msg != "" {
				errs = append(errs, &ValidationError{Field: f.name, Message: msg})
				break
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (o Options) checkConnection(_ context.Context, id string) (string, error) {
	if len(o.Connections) == 0 {
		return "", nil
	}
	for _, known := range o.Connections {
		if known == id {
			return "", nil
		}
	}
	return fmt.Sprintf("There is no connection named %q.", id), nil
}

// checkNamespaceDir requires the directory of the namespace's root segment
// to exist below the base path. Deeper directories are created on save.
func (o Options) checkNamespaceDir(_ context.Context, ns string) (string, error) {
	root := strings.SplitN(ns, `\`, 2)[0]
	info, err := os.Stat(o.NamespacePath(root))
	if err != nil || !info.IsDir() {
		return "Namespace must be associated with an existing directory.", nil
	}
	return "", nil
}

func checkAsterisk(_ context.Context, pattern string) (string, error) {
	if strings.Contains(pattern, "*") && !strings.HasSuffix(pattern, "*") {
		return "Asterisk is only allowed as the last character.", nil
	}
	return "", nil
}

func (g *Generator) checkTableName(ctx context.Context, pattern string) (string, error) {
	tables, err := g.TableNames(ctx)
	if err != nil {
		return "", err
	}
	if len(tables) == 0 {
		return fmt.Sprintf("Table '%s' does not exist.", pattern), nil
	}

	seen := make(map[string]string, len(tables))
	for _, table := range tables {
		class := g.ClassName(table)
		if isReservedKeyword(class) {
			return fmt.Sprintf("Table '%s' will generate a class which is a reserved PHP keyword.", table), nil
		}
		if class == "" {
			return fmt.Sprintf("Table '%s' does not leave a class name once the prefix is removed.", table), nil
		}
		if other, ok := seen[class]; ok {
			return fmt.Sprintf("Tables '%s' and '%s' both generate the class '%s'.", other, table, class), nil
		}
		seen[class] = table
	}
	return "", nil
}
