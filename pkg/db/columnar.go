package db

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Columnar holds a query result as a mapping from column name to the ordered
// list of values in that column. Callers such as the suggestion helpers need
// per-column distinct/frequency views rather than row iteration, so the
// container is column-oriented; row access is still available for rendering.
type Columnar struct {
	Columns []string
	values  map[string][]interface{}
	rows    int
}

// NewColumnar creates an empty result with the given column set.
func NewColumnar(columns []string) *Columnar {
	values := make(map[string][]interface{}, len(columns))
	for _, col := range columns {
		values[col] = nil
	}
	return &Columnar{Columns: columns, values: values}
}

// Len returns the number of rows in the result.
func (c *Columnar) Len() int {
	return c.rows
}

// AppendRow adds one row of values, in column order.
func (c *Columnar) AppendRow(row []interface{}) {
	for i, col := range c.Columns {
		if i < len(row) {
			c.values[col] = append(c.values[col], row[i])
		} else {
			c.values[col] = append(c.values[col], nil)
		}
	}
	c.rows++
}

// Values returns the ordered values of one column.
func (c *Columnar) Values(column string) []interface{} {
	return c.values[column]
}

// Strings returns the ordered values of one column rendered as strings.
// NULLs render as the empty string.
func (c *Columnar) Strings(column string) []string {
	vals := c.values[column]
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = stringify(v)
	}
	return out
}

// Distinct returns the distinct non-empty values of one column, in first-seen
// order.
func (c *Columnar) Distinct(column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.Strings(column) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// MostCommon returns the most frequent non-empty value of one column.
// The second return value is false when the column holds no values.
func (c *Columnar) MostCommon(column string) (string, bool) {
	counts := make(map[string]int)
	best := ""
	bestCount := 0
	for _, s := range c.Strings(column) {
		if s == "" {
			continue
		}
		counts[s]++
		if counts[s] > bestCount {
			best = s
			bestCount = counts[s]
		}
	}
	return best, bestCount > 0
}

// Row returns one row rendered as strings, in column order.
func (c *Columnar) Row(i int) []string {
	out := make([]string, len(c.Columns))
	for j, col := range c.Columns {
		vals := c.values[col]
		if i < len(vals) {
			out[j] = stringify(vals[i])
		}
	}
	return out
}

// Collect drains sql.Rows into a Columnar result and closes them.
func Collect(rows *sql.Rows) (*Columnar, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := NewColumnar(columns)
	for rows.Next() {
		row := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result.AppendRow(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// stringify renders a scanned SQLite value for display and suggestion use.
// The driver hands TEXT columns back as []byte.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}
