// Package tablesort orders tabular result sets for display. It carries the
// click-driven sort state (key plus toggling direction) and a stable,
// non-mutating comparator that understands nulls, dates, and numbers.
package tablesort

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	None       Direction = ""
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// State is the click-driven sort selection for one table.
type State struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Request records a sort request for a column. A new column starts
// descending (highest first); repeating the same column toggles
// descending, ascending, descending.
func (s *State) Request(key string) {
	if s.Key != key {
		s.Key = key
		s.Direction = Descending
		return
	}
	if s.Direction == Descending {
		s.Direction = Ascending
	} else {
		s.Direction = Descending
	}
}

// By returns a new slice ordered by the value key extracts from each row.
// The input is never mutated and equal keys keep their original relative
// order. With no direction the rows come back in input order.
func By[T any](rows []T, dir Direction, key func(T) any) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	if dir == None {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if dir == Descending {
			return compare(b, a) < 0
		}
		return compare(a, b) < 0
	})
	return out
}

var collator = collate.New(language.English)

// compare orders two cell values ascending: nulls first, then dates,
// numbers, and finally collated strings.
func compare(a, b any) int {
	aNil, bNil := isNil(a), isNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	}

	if at, aok := asTime(a); aok {
		if bt, bok := asTime(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}

	if an, aok := asNumber(a); aok {
		if bn, bok := asNumber(b); bok {
			return an.Cmp(bn)
		}
	}

	return collator.CompareString(stringify(a), stringify(b))
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	}
	return false
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func asTime(v any) (time.Time, bool) {
	switch t := deref(v).(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func asNumber(v any) (decimal.Decimal, bool) {
	switch n := deref(v).(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d, true
		}
	}
	return decimal.Decimal{}, false
}

func stringify(v any) string {
	switch s := deref(v).(type) {
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// deref unwraps pointer cells so *string and string sort alike.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}
