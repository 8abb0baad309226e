package postgres

import (
	"strconv"
	"strings"
)

// query accumulates AND-ed conditions written with ? placeholders and
// numbers them for pgx.
type query struct {
	base  string
	conds []string
	args  []any
}

func newQuery(base string) *query {
	return &query{base: base}
}

func (q *query) where(cond string, arg any) {
	q.conds = append(q.conds, q.placeholder(cond, arg))
}

// placeholder binds arg to the single ? in fragment.
func (q *query) placeholder(fragment string, arg any) string {
	q.args = append(q.args, arg)
	return strings.Replace(fragment, "?", "$"+strconv.Itoa(len(q.args)), 1)
}

func (q *query) sql() string {
	if len(q.conds) == 0 {
		return q.base
	}
	return q.base + " WHERE " + strings.Join(q.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
