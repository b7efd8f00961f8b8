package frame

// Table is an ordered collection of equal-length named columns.
type Table struct {
	Columns []Column

	// NRows is the shared column length.
	NRows int

	// RowNames holds explicit row labels; nil means the implicit labels
	// 1..NRows.
	RowNames []string
}

// Column returns the named column, or nil when absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}

	return nil
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}

	return names
}
