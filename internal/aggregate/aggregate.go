// Package aggregate derives dashboard views from daily goal records:
// the current day's value/target snapshot and the 7-day rolling series
// used for charting.
package aggregate

import (
	"time"

	"github.com/healthyconnect/healthtrack-api/internal/models"
)

// DayStart truncates t to the start of its UTC calendar day. Every day
// comparison in the service goes through this so that goal upserts and
// dashboard windows agree on where a day begins.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// MetricSnapshot is one metric's current reading against its target.
type MetricSnapshot struct {
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
}

// TodaySnapshot builds the fixed-shape {type -> {value, target}} view
// from today's goal records. Metrics with no record yet default to
// value 0 and the type's default target.
func TodaySnapshot(goals []models.Goal) map[string]MetricSnapshot {
	snapshot := make(map[string]MetricSnapshot, len(models.GoalTypes))
	for _, t := range models.GoalTypes {
		snapshot[t] = MetricSnapshot{Value: 0, Target: models.DefaultTarget(t)}
	}
	for _, g := range goals {
		if _, ok := snapshot[g.Type]; !ok {
			continue
		}
		snapshot[g.Type] = MetricSnapshot{Value: g.Value, Target: g.Target}
	}
	return snapshot
}

// DayPoint is one merged row of the weekly chart. Date is the ISO
// calendar day the row belongs to; Day is its weekday label, derived
// from the actual date rather than an offset formula.
type DayPoint struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Day      string  `json:"day"`  // "Mon".."Sun"
	Water    float64 `json:"water"`
	Calories float64 `json:"calories"`
	Hours    float64 `json:"hours"`
}

// WeeklySeries merges goal records into exactly 7 rows covering the
// window ending at today (inclusive). Rows are keyed by ISO date, so
// two same-weekday days can never collide; days without a record for a
// metric stay at 0. Records outside the window are ignored.
func WeeklySeries(goals []models.Goal, today time.Time) []DayPoint {
	end := DayStart(today)
	start := end.AddDate(0, 0, -6)

	series := make([]DayPoint, 7)
	index := make(map[string]*DayPoint, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		series[i] = DayPoint{
			Date: d.Format("2006-01-02"),
			Day:  d.Weekday().String()[:3],
		}
		index[series[i].Date] = &series[i]
	}

	for _, g := range goals {
		day := DayStart(g.Date).Format("2006-01-02")
		point, ok := index[day]
		if !ok {
			continue
		}
		switch g.Type {
		case models.GoalWater:
			point.Water = g.Value
		case models.GoalCalories:
			point.Calories = g.Value
		case models.GoalSleep:
			point.Hours = g.Value
		}
	}

	return series
}
