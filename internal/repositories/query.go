package repositories

import (
	"fmt"
	"strings"
)

// where accumulates positional ($n) conditions the same way for the data
// and count queries.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(format string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(format, len(w.args)))
}

// contains matches any of the columns with ILIKE %term%.
func (w *where) contains(term string, columns ...string) {
	w.args = append(w.args, "%"+escapeLike(term)+"%")
	n := len(w.args)
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", c, n))
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// paging appends LIMIT/OFFSET placeholders after the filter args. A
// non-positive limit means every row from offset on.
func (w *where) paging(limit, offset int) (string, []interface{}) {
	n := len(w.args)
	args := append([]interface{}{}, w.args...)
	if limit <= 0 {
		return fmt.Sprintf(" OFFSET $%d", n+1), append(args, offset)
	}
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), append(args, limit, offset)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.TrimSpace(s))
}
