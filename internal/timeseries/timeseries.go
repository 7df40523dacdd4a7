// Package timeseries turns sparse daily net-worth snapshots into fixed-length,
// gap-free chart series by forward-filling the last known value.
//
// All windowing is done on UTC calendar days keyed by the stored YYYY-MM-DD
// strings. The reference date is an explicit parameter, never the wall clock,
// so a given input always yields the same output.
package timeseries

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"networth/internal/models"
)

const dayLayout = "2006-01-02"

// Point is one period of a chart series.
type Point struct {
	Date        string          `json:"date"`
	Total       decimal.Decimal `json:"total"`
	Cash        decimal.Decimal `json:"cash"`
	Investments decimal.Decimal `json:"investments"`
}

// LastNDays returns exactly n points, one per calendar day, chronological
// order ending on asOf's UTC date. Days without a snapshot repeat the most
// recent earlier snapshot.
func LastNDays(snapshots []models.NetWorthSnapshot, n int, asOf time.Time) []Point {
	sorted := sortByDate(snapshots)
	byDay := map[string]models.NetWorthSnapshot{}
	for _, s := range sorted {
		byDay[s.SnapshotDate] = s
	}

	end := utcDay(asOf)
	start := end.AddDate(0, 0, -(n - 1))
	last := seed(sorted, start.Format(dayLayout))

	points := make([]Point, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		if s, ok := byDay[key]; ok {
			last = s
		}
		points = append(points, pointAt(key, last))
	}
	return points
}

// LastNMonths returns one point per calendar month, keyed YYYY-MM, using the
// latest snapshot within each month.
func LastNMonths(snapshots []models.NetWorthSnapshot, n int, asOf time.Time) []Point {
	sorted := sortByDate(snapshots)
	byMonth := map[string]models.NetWorthSnapshot{}
	for _, s := range sorted {
		if len(s.SnapshotDate) >= 7 {
			byMonth[s.SnapshotDate[:7]] = s
		}
	}

	d := utcDay(asOf)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	last := seed(sorted, first.Format(dayLayout))

	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i, 0)
		key := m.Format("2006-01")
		if s, ok := byMonth[key]; ok {
			last = s
		}
		points = append(points, pointAt(key, last))
	}
	return points
}

// LastNYears returns one point per calendar year, keyed YYYY, using the
// latest snapshot within each year.
func LastNYears(snapshots []models.NetWorthSnapshot, n int, asOf time.Time) []Point {
	sorted := sortByDate(snapshots)
	byYear := map[string]models.NetWorthSnapshot{}
	for _, s := range sorted {
		if len(s.SnapshotDate) >= 4 {
			byYear[s.SnapshotDate[:4]] = s
		}
	}

	firstYear := utcDay(asOf).Year() - (n - 1)
	first := time.Date(firstYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := seed(sorted, first.Format(dayLayout))

	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		key := first.AddDate(i, 0, 0).Format("2006")
		if s, ok := byYear[key]; ok {
			last = s
		}
		points = append(points, pointAt(key, last))
	}
	return points
}

func pointAt(date string, s models.NetWorthSnapshot) Point {
	return Point{
		Date:        date,
		Total:       s.TotalValue,
		Cash:        s.CashValue,
		Investments: s.InvestmentValue,
	}
}

// seed picks the fill value in effect before the window opens: the most
// recent snapshot strictly older than the window start, or the globally
// earliest snapshot when none precede it. An empty history seeds zeros.
func seed(sorted []models.NetWorthSnapshot, windowStart string) models.NetWorthSnapshot {
	if len(sorted) == 0 {
		return models.NetWorthSnapshot{}
	}
	result := sorted[0]
	for _, s := range sorted {
		if s.SnapshotDate >= windowStart {
			break
		}
		result = s
	}
	return result
}

// sortByDate returns a copy ordered chronologically. YYYY-MM-DD strings sort
// lexicographically, so no parsing is needed.
func sortByDate(snapshots []models.NetWorthSnapshot) []models.NetWorthSnapshot {
	sorted := make([]models.NetWorthSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SnapshotDate < sorted[j].SnapshotDate
	})
	return sorted
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
