// Package schema loads table/column catalogs that guide SQL drafting.
//
// A catalog file is a JSON (or YAML) object whose "tables" key maps table
// names to ordered column lists:
//
//	{"tables": {"dbo.Employees": ["EmployeeID", "Status", "HireDate"]}}
//
// File order is significant: it decides which table wins when several match
// a request, and which table is used when none match.
package schema

import "strings"

// Table is one catalog entry. A nil Columns slice means the file listed no
// columns (or null) for the table.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Catalog is an ordered, read-only set of tables.
type Catalog struct {
	tables []Table
}

// NewCatalog builds a catalog preserving the given order.
func NewCatalog(tables ...Table) *Catalog {
	c := &Catalog{tables: make([]Table, len(tables))}
	copy(c.tables, tables)
	return c
}

// Tables returns the tables in file order.
func (c *Catalog) Tables() []Table {
	if c == nil {
		return nil
	}
	out := make([]Table, len(c.tables))
	copy(out, c.tables)
	return out
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tables)
}

// First returns the first table in file order.
func (c *Catalog) First() (Table, bool) {
	if c.Len() == 0 {
		return Table{}, false
	}
	return c.tables[0], true
}

// Lookup finds a table by name, ignoring case. Names keep their original
// casing in the returned value.
func (c *Catalog) Lookup(name string) (Table, bool) {
	if c == nil {
		return Table{}, false
	}
	for _, t := range c.tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Table{}, false
}
