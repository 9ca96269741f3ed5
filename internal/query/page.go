package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidPage wraps malformed page, size or sort parameters.
var ErrInvalidPage = errors.New("invalid page request")

type Order struct {
	Column Column
	Desc   bool
}

// Pageable is a zero-based page request. Size 0 means unpaged.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

func (p Pageable) Paged() bool {
	return p.Size > 0
}

// Offset saturates at math.MaxInt instead of wrapping, so a huge page
// number still lands past the last row.
func (p Pageable) Offset() int {
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// PageLimits bounds the size parameter.
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

// ParsePageable reads page, size and sort from query parameters. Sort
// values take the form property[,asc|desc]; properties are resolved
// through sortable.
func ParsePageable(q url.Values, sortable map[string]Column, limits PageLimits) (Pageable, error) {
	p := Pageable{Page: 0, Size: limits.DefaultSize}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Pageable{}, fmt.Errorf("%w: page %q", ErrInvalidPage, raw)
		}
		p.Page = n
	}
	if raw := q.Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Pageable{}, fmt.Errorf("%w: size %q", ErrInvalidPage, raw)
		}
		p.Size = n
	}
	if limits.MaxSize > 0 && p.Size > limits.MaxSize {
		p.Size = limits.MaxSize
	}

	for _, raw := range q["sort"] {
		prop, dir, _ := strings.Cut(raw, ",")
		col, ok := sortable[strings.TrimSpace(prop)]
		if !ok {
			return Pageable{}, fmt.Errorf("%w: cannot sort by %q", ErrInvalidPage, prop)
		}
		o := Order{Column: col}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			o.Desc = true
		default:
			return Pageable{}, fmt.Errorf("%w: sort direction %q", ErrInvalidPage, dir)
		}
		p.Sort = append(p.Sort, o)
	}
	return p, nil
}
