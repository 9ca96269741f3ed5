// Package query turns criteria bundles into SQL. A Spec carries the joins
// and ANDed predicates for one entity table and renders the select and the
// count statement from the same FROM/WHERE fragment, so a listing and its
// count always agree on which rows match.
package query

import (
	"fmt"
	"strings"
)

// Column is a table-qualified column reference.
type Column string

// Predicate is a boolean SQL condition with its positional arguments.
type Predicate struct {
	SQL  string
	Args []any
}

type Spec struct {
	table    string
	key      Column
	distinct bool
	joins    []string
	where    []Predicate
}

// NewSpec starts an always-true specification over table, keyed by key.
func NewSpec(table string, key Column) *Spec {
	return &Spec{table: table, key: key}
}

func (s *Spec) Distinct(d bool) *Spec {
	s.distinct = d
	return s
}

func (s *Spec) IsDistinct() bool {
	return s.distinct
}

// Join adds a join clause once; repeated clauses are ignored.
func (s *Spec) Join(clause string) *Spec {
	for _, j := range s.joins {
		if j == clause {
			return s
		}
	}
	s.joins = append(s.joins, clause)
	return s
}

func (s *Spec) And(preds ...Predicate) *Spec {
	s.where = append(s.where, preds...)
	return s
}

// Predicates returns the accumulated conditions in the order they were added.
func (s *Spec) Predicates() []Predicate {
	return s.where
}

func (s *Spec) from() (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString(" FROM ")
	b.WriteString(s.table)
	for _, j := range s.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	for i, p := range s.where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString("(")
		b.WriteString(p.SQL)
		b.WriteString(")")
		args = append(args, p.Args...)
	}
	return b.String(), args
}

// SelectSQL renders the row query. cols must be qualified with the table
// name. A zero Pageable reads every row ordered by key.
func (s *Spec) SelectSQL(cols string, p Pageable) (string, []any) {
	from, args := s.from()

	var b strings.Builder
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(cols)
	b.WriteString(from)
	b.WriteString(" ORDER BY ")
	b.WriteString(orderBy(p.Sort, s.key))

	if p.Paged() {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, p.Size, p.Offset())
	}
	return b.String(), args
}

// CountSQL renders the count over the same rows SelectSQL would return
// without paging.
func (s *Spec) CountSQL() (string, []any) {
	from, args := s.from()
	if s.distinct {
		return fmt.Sprintf("SELECT COUNT(DISTINCT %s)%s", s.key, from), args
	}
	return "SELECT COUNT(*)" + from, args
}

func orderBy(sort []Order, key Column) string {
	parts := make([]string, 0, len(sort)+1)
	hasKey := false
	for _, o := range sort {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, string(o.Column)+" "+dir)
		if o.Column == key {
			hasKey = true
		}
	}
	if !hasKey {
		parts = append(parts, string(key)+" ASC")
	}
	return strings.Join(parts, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
