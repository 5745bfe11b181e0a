package domain

// Column holds one typed column of a snapshot. For numeric columns the
// parsed values live in Floats; for string columns in Strings. Nulls marks
// missing cells and is always len == row count.
type Column struct {
	Name    string
	Type    ColumnType
	Strings []string
	Floats  []float64
	Nulls   []bool
}

// NullCount returns the number of null cells in the column.
func (c Column) NullCount() int {
	n := 0
	for _, isNull := range c.Nulls {
		if isNull {
			n++
		}
	}
	return n
}

// NonNullFloats returns the numeric values with nulls removed.
// Empty for non-numeric columns.
func (c Column) NonNullFloats() []float64 {
	if !c.Type.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if i < len(c.Nulls) && c.Nulls[i] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ValueAt returns the cell at row i as a driver-friendly value:
// nil for null, int64/float64 for numeric columns, string otherwise.
func (c Column) ValueAt(i int) any {
	if i < len(c.Nulls) && c.Nulls[i] {
		return nil
	}
	switch c.Type {
	case ColumnInt:
		return int64(c.Floats[i])
	case ColumnFloat:
		return c.Floats[i]
	default:
		return c.Strings[i]
	}
}

// Snapshot is an immutable in-memory tabular dataset produced by one ETL
// run. The row count is carried independently of the columns: a snapshot
// may have rows but none of the configured columns.
type Snapshot struct {
	rows    int
	columns []Column
	index   map[string]int
}

// NewSnapshot builds a snapshot from columns in source order.
func NewSnapshot(rows int, columns ...Column) *Snapshot {
	s := &Snapshot{
		rows:    rows,
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		s.index[c.Name] = i
	}
	return s
}

// RowCount returns the number of data rows loaded from the source.
func (s *Snapshot) RowCount() int { return s.rows }

// Columns returns the columns in source order.
func (s *Snapshot) Columns() []Column { return s.columns }

// Column returns the named column if present.
func (s *Snapshot) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// HasColumn reports whether the named column is present.
func (s *Snapshot) HasColumn(name string) bool {
	_, ok := s.index[name]
	return ok
}

// NullFraction returns #nulls / #rows for the named column.
// Zero for an empty snapshot or an absent column.
func (s *Snapshot) NullFraction(name string) float64 {
	col, ok := s.Column(name)
	if !ok || s.rows == 0 {
		return 0
	}
	return float64(col.NullCount()) / float64(s.rows)
}
