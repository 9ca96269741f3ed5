// Package filter holds typed filter value objects. Each one is a bag of
// optional comparison operators over a single field; an operator that is
// nil (or an empty slice) is unset, and a filter with nothing set is a no-op.
package filter

import "slices"

// Filter is the operator family shared by every field kind.
type Filter[T any] struct {
	Equals    *T
	NotEquals *T
	In        []T
	NotIn     []T
	Specified *bool
}

func (f *Filter[T]) IsEmpty() bool {
	return f == nil ||
		(f.Equals == nil && f.NotEquals == nil && len(f.In) == 0 && len(f.NotIn) == 0 && f.Specified == nil)
}

func (f *Filter[T]) Copy() *Filter[T] {
	if f == nil {
		return nil
	}
	return &Filter[T]{
		Equals:    clonePtr(f.Equals),
		NotEquals: clonePtr(f.NotEquals),
		In:        slices.Clone(f.In),
		NotIn:     slices.Clone(f.NotIn),
		Specified: clonePtr(f.Specified),
	}
}

// Range adds ordering operators for totally ordered kinds (integers, dates).
type Range[T any] struct {
	Filter[T]
	GreaterThan        *T
	GreaterThanOrEqual *T
	LessThan           *T
	LessThanOrEqual    *T
}

type (
	Long = Range[int64]
	Int  = Range[int]
)

func (f *Range[T]) IsEmpty() bool {
	return f == nil ||
		(f.Filter.IsEmpty() && f.GreaterThan == nil && f.GreaterThanOrEqual == nil &&
			f.LessThan == nil && f.LessThanOrEqual == nil)
}

func (f *Range[T]) Copy() *Range[T] {
	if f == nil {
		return nil
	}
	return &Range[T]{
		Filter:             *f.Filter.Copy(),
		GreaterThan:        clonePtr(f.GreaterThan),
		GreaterThanOrEqual: clonePtr(f.GreaterThanOrEqual),
		LessThan:           clonePtr(f.LessThan),
		LessThanOrEqual:    clonePtr(f.LessThanOrEqual),
	}
}

// String adds substring operators. Matching is case-sensitive.
type String struct {
	Filter[string]
	Contains       *string
	DoesNotContain *string
}

func (f *String) IsEmpty() bool {
	return f == nil || (f.Filter.IsEmpty() && f.Contains == nil && f.DoesNotContain == nil)
}

func (f *String) Copy() *String {
	if f == nil {
		return nil
	}
	return &String{
		Filter:         *f.Filter.Copy(),
		Contains:       clonePtr(f.Contains),
		DoesNotContain: clonePtr(f.DoesNotContain),
	}
}

// Ptr returns a pointer to v, handy when building filters in code.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
