package query

import (
	"errors"
	"math"
	"net/url"
	"reflect"
	"testing"
)

var limits = PageLimits{DefaultSize: 20, MaxSize: 100}

func TestParsePageableDefaults(t *testing.T) {
	p, err := ParsePageable(url.Values{}, QuestSortable, limits)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Page != 0 || p.Size != 20 || len(p.Sort) != 0 {
		t.Errorf("pageable = %+v, want page 0 size 20", p)
	}
}

func TestParsePageable(t *testing.T) {
	q := url.Values{
		"page": {"3"},
		"size": {"500"},
		"sort": {"id,desc", "title"},
	}
	p, err := ParsePageable(q, QuestSortable, limits)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Page != 3 {
		t.Errorf("page = %d, want 3", p.Page)
	}
	if p.Size != 100 {
		t.Errorf("size = %d, want capped 100", p.Size)
	}
	if p.Offset() != 300 {
		t.Errorf("offset = %d, want 300", p.Offset())
	}
	want := []Order{{Column: QuestID, Desc: true}, {Column: QuestTitle}}
	if !reflect.DeepEqual(p.Sort, want) {
		t.Errorf("sort = %+v, want %+v", p.Sort, want)
	}
}

func TestParsePageableErrors(t *testing.T) {
	tests := []url.Values{
		{"page": {"-1"}},
		{"page": {"x"}},
		{"size": {"0"}},
		{"sort": {"privateNotes,asc"}},
		{"sort": {"id,sideways"}},
	}
	for _, q := range tests {
		if _, err := ParsePageable(q, QuestSortable, limits); !errors.Is(err, ErrInvalidPage) {
			t.Errorf("ParsePageable(%v) err = %v, want ErrInvalidPage", q, err)
		}
	}
}

func TestOffsetSaturates(t *testing.T) {
	tests := []struct {
		page string
		size string
		want int
	}{
		{"9223372036854775807", "2", math.MaxInt},
		{"4611686018427387904", "4", math.MaxInt},
		{"5", "2", 10},
	}
	for _, tt := range tests {
		p, err := ParsePageable(url.Values{"page": {tt.page}, "size": {tt.size}}, QuestSortable, limits)
		if err != nil {
			t.Fatalf("parse page %s: %v", tt.page, err)
		}
		if got := p.Offset(); got != tt.want {
			t.Errorf("page %s size %s: offset = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}
}
