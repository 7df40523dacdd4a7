package tablesort

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Request(t *testing.T) {
	var s State
	assert.Equal(t, None, s.Direction)

	s.Request("amount")
	assert.Equal(t, State{Key: "amount", Direction: Descending}, s)

	s.Request("amount")
	assert.Equal(t, State{Key: "amount", Direction: Ascending}, s)

	s.Request("amount")
	assert.Equal(t, State{Key: "amount", Direction: Descending}, s)

	// A different column resets to descending.
	s.Request("date")
	assert.Equal(t, State{Key: "date", Direction: Descending}, s)
}

type row struct {
	Name   string
	Amount decimal.Decimal
	Date   string
	Note   *string
}

func strptr(s string) *string { return &s }

func TestBy_Numbers(t *testing.T) {
	rows := []row{
		{Name: "b", Amount: decimal.NewFromInt(20)},
		{Name: "a", Amount: decimal.NewFromInt(5)},
		{Name: "c", Amount: decimal.NewFromInt(100)},
	}
	asc := By(rows, Ascending, func(r row) any { return r.Amount })
	require.Len(t, asc, 3)
	assert.Equal(t, "a", asc[0].Name)
	assert.Equal(t, "b", asc[1].Name)
	assert.Equal(t, "c", asc[2].Name)
}

func TestBy_DatesBeforeLexicographic(t *testing.T) {
	rows := []row{
		{Name: "late", Date: "2026-03-01"},
		{Name: "early", Date: "2025-12-31"},
		{Name: "mid", Date: "2026-01-15"},
	}
	asc := By(rows, Ascending, func(r row) any { return r.Date })
	assert.Equal(t, []string{"early", "mid", "late"}, names(asc))
}

func TestBy_Strings(t *testing.T) {
	rows := []row{{Name: "banana"}, {Name: "Apple"}, {Name: "cherry"}}
	asc := By(rows, Ascending, func(r row) any { return r.Name })
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, names(asc))
}

func TestBy_NullsFirstAscendingLastDescending(t *testing.T) {
	rows := []row{
		{Name: "noted", Note: strptr("z")},
		{Name: "blank"},
		{Name: "also-noted", Note: strptr("a")},
	}
	asc := By(rows, Ascending, func(r row) any { return r.Note })
	assert.Equal(t, "blank", asc[0].Name)

	desc := By(rows, Descending, func(r row) any { return r.Note })
	assert.Equal(t, "blank", desc[2].Name)
}

func TestBy_DescendingIsReverseOfAscending(t *testing.T) {
	rows := []row{
		{Name: "a", Amount: decimal.NewFromInt(3)},
		{Name: "b", Amount: decimal.NewFromInt(1)},
		{Name: "c", Amount: decimal.NewFromInt(2)},
	}
	asc := By(rows, Ascending, func(r row) any { return r.Amount })
	desc := By(rows, Descending, func(r row) any { return r.Amount })
	for i := range asc {
		assert.Equal(t, asc[i].Name, desc[len(desc)-1-i].Name)
	}
}

func TestBy_StableForEqualKeys(t *testing.T) {
	rows := []row{
		{Name: "first", Amount: decimal.NewFromInt(1)},
		{Name: "second", Amount: decimal.NewFromInt(1)},
		{Name: "third", Amount: decimal.NewFromInt(1)},
	}
	sorted := By(rows, Ascending, func(r row) any { return r.Amount })
	assert.Equal(t, []string{"first", "second", "third"}, names(sorted))
}

func TestBy_DoesNotMutateInput(t *testing.T) {
	rows := []row{
		{Name: "b", Amount: decimal.NewFromInt(2)},
		{Name: "a", Amount: decimal.NewFromInt(1)},
	}
	_ = By(rows, Ascending, func(r row) any { return r.Amount })
	assert.Equal(t, "b", rows[0].Name)
	assert.Equal(t, "a", rows[1].Name)
}

func TestBy_NoDirectionKeepsOrder(t *testing.T) {
	rows := []row{{Name: "z"}, {Name: "a"}}
	out := By(rows, None, func(r row) any { return r.Name })
	assert.Equal(t, []string{"z", "a"}, names(out))
}

func TestBy_NumericStrings(t *testing.T) {
	rows := []row{{Name: "100"}, {Name: "9"}, {Name: "25"}}
	asc := By(rows, Ascending, func(r row) any { return r.Name })
	assert.Equal(t, []string{"9", "25", "100"}, names(asc))
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}
