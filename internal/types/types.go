package types

type SchemaTable struct {
	Schema      string
	Name        string
	Columns     []SchemaColumn
	ForeignKeys []ForeignKey
}

type SchemaColumn struct {
	Name     string
	Type     string
	Nullable bool
}

// ForeignKey mirrors one FK constraint. Columns and RefColumns are positional
// pairs; RefTable is unqualified when it lives in the same schema.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
}

// FullName returns schema.table, or just the table name when no schema is set.
func (t SchemaTable) FullName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// ReferencedTables lists the referenced table of every foreign key in
// declaration order, duplicates included.
func (t SchemaTable) ReferencedTables() []string {
	refs := make([]string, 0, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		refs = append(refs, fk.RefTable)
	}
	return refs
}
