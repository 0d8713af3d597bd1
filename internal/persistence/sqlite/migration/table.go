package migration

import (
	"fmt"
	"strings"
)

// Column describes one column of a table's current shape.
type Column struct {
	Name string

	// Optional marks a column that older shapes of the table may lack.
	// Required columns must exist in the old table for a migration to proceed.
	Optional bool

	// Backfill supplies the per-pass policy for this column. Nil copies the old value
	// through, or NULL when the column is missing.
	Backfill func() Backfill
}

// TableSpec is the declarative description of a table the initializer owns.
type TableSpec struct {
	Name string

	// Definition is the parenthesised column and constraint list used by CREATE TABLE.
	Definition string

	// Columns lists the expected column set in insert order.
	Columns []Column

	// CopyOrder lists the columns that order rows during a migration copy. Columns absent
	// from the old table are skipped; optional ones sort NULLs last.
	CopyOrder []string

	// Evolving marks tables that the migrator brings up to date.
	Evolving bool
}

// IndexSpec describes an index created after the tables are in shape.
type IndexSpec struct {
	Name    string
	Table   string
	Columns []string
}

// OldName is the transient name the table carries during a migration pass.
func (t TableSpec) OldName() string {
	return t.Name + "_old"
}

// CreateSQL renders the baseline statement, idempotent when ifNotExists is set.
func (t TableSpec) CreateSQL(ifNotExists bool) string {
	if ifNotExists {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", t.Name, t.Definition)
	}
	return fmt.Sprintf("CREATE TABLE %s %s", t.Name, t.Definition)
}

// ColumnNames returns the expected column names in insert order.
func (t TableSpec) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func (t TableSpec) column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// CreateSQL renders the idempotent index statement.
func (i IndexSpec) CreateSQL() string {
	cols := make([]string, len(i.Columns))
	for n, c := range i.Columns {
		cols[n] = quoteIdent(c)
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", i.Name, i.Table, strings.Join(cols, ", "))
}

// copyPlan is the per-pass projection: one entry per expected column, each either copied
// from the old table or substituted with NULL, plus the backfill state for the pass.
type copyPlan struct {
	table     TableSpec
	present   map[string]bool
	backfills []Backfill
}

func newCopyPlan(table TableSpec, current []string) (*copyPlan, error) {
	present := make(map[string]bool, len(current))
	for _, c := range current {
		present[c] = true
	}

	plan := &copyPlan{
		table:     table,
		present:   present,
		backfills: make([]Backfill, len(table.Columns)),
	}
	for i, c := range table.Columns {
		if !present[c.Name] && !c.Optional {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredColumn, c.Name)
		}
		if c.Backfill != nil {
			plan.backfills[i] = c.Backfill()
		}
	}
	return plan, nil
}

// selectSQL reads every row of the old table in the expected column layout.
func (p *copyPlan) selectSQL() string {
	projection := make([]string, len(p.table.Columns))
	for i, c := range p.table.Columns {
		if p.present[c.Name] {
			projection[i] = quoteIdent(c.Name)
		} else {
			projection[i] = "NULL AS " + quoteIdent(c.Name)
		}
	}

	var order []string
	for _, name := range p.table.CopyOrder {
		if !p.present[name] {
			continue
		}
		if c, ok := p.table.column(name); ok && c.Optional {
			order = append(order, quoteIdent(name)+" IS NULL")
		}
		order = append(order, quoteIdent(name))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(projection, ", "), p.table.OldName())
	if len(order) > 0 {
		query += " ORDER BY " + strings.Join(order, ", ")
	}
	return query
}

// insertSQL writes one row into the new table, id included.
func (p *copyPlan) insertSQL() string {
	cols := make([]string, len(p.table.Columns))
	marks := make([]string, len(p.table.Columns))
	for i, c := range p.table.Columns {
		cols[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		p.table.Name, strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// fill applies the backfill policies to a row in place.
func (p *copyPlan) fill(row []any) error {
	for i, b := range p.backfills {
		if b == nil {
			continue
		}
		v, err := b.Value(row[i])
		if err != nil {
			return fmt.Errorf("column %s: %w", p.table.Columns[i].Name, err)
		}
		row[i] = v
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
