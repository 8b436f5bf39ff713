package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthyconnect/healthtrack-api/internal/models"
)

func TestDayStart(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "afternoon truncates to midnight",
			input:    time.Date(2026, 8, 26, 15, 42, 7, 0, time.UTC),
			expected: time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "midnight is unchanged",
			input:    time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "non-UTC time truncates in UTC, not local",
			input:    time.Date(2026, 8, 26, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			expected: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayStart(tt.input))
		})
	}
}

func TestTodaySnapshot_Defaults(t *testing.T) {
	snapshot := TodaySnapshot(nil)

	require.Len(t, snapshot, 3)
	assert.Equal(t, MetricSnapshot{Value: 0, Target: 8}, snapshot[models.GoalWater])
	assert.Equal(t, MetricSnapshot{Value: 0, Target: 2000}, snapshot[models.GoalCalories])
	assert.Equal(t, MetricSnapshot{Value: 0, Target: 8}, snapshot[models.GoalSleep])
}

func TestTodaySnapshot_LoggedWaterOnly(t *testing.T) {
	// Patient logged water=3 today, nothing else.
	goals := []models.Goal{
		{UserID: primitive.NewObjectID(), Type: models.GoalWater, Value: 3, Target: 8},
	}

	snapshot := TodaySnapshot(goals)

	assert.Equal(t, MetricSnapshot{Value: 3, Target: 8}, snapshot[models.GoalWater])
	assert.Equal(t, MetricSnapshot{Value: 0, Target: 2000}, snapshot[models.GoalCalories])
	assert.Equal(t, MetricSnapshot{Value: 0, Target: 8}, snapshot[models.GoalSleep])
}

func TestTodaySnapshot_IgnoresUnknownType(t *testing.T) {
	goals := []models.Goal{
		{Type: "steps", Value: 9000, Target: 6000},
	}

	snapshot := TodaySnapshot(goals)

	require.Len(t, snapshot, 3)
	_, ok := snapshot["steps"]
	assert.False(t, ok)
}

func TestWeeklySeries_SevenZeroFilledPoints(t *testing.T) {
	// 2026-08-26 is a Wednesday; window is Thu 20th through Wed 26th.
	today := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)

	series := WeeklySeries(nil, today)

	require.Len(t, series, 7)
	assert.Equal(t, "2026-08-20", series[0].Date)
	assert.Equal(t, "2026-08-26", series[6].Date)

	expectedLabels := []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}
	for i, point := range series {
		assert.Equal(t, expectedLabels[i], point.Day, "label for %s", point.Date)
		assert.Zero(t, point.Water)
		assert.Zero(t, point.Calories)
		assert.Zero(t, point.Hours)
	}
}

func TestWeeklySeries_PlacesValuesByDate(t *testing.T) {
	today := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)
	userID := primitive.NewObjectID()
	goals := []models.Goal{
		{UserID: userID, Type: models.GoalWater, Value: 5, Date: time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)},
		{UserID: userID, Type: models.GoalCalories, Value: 1800, Date: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		{UserID: userID, Type: models.GoalSleep, Value: 7.5, Date: time.Date(2026, 8, 20, 23, 59, 0, 0, time.UTC)},
	}

	series := WeeklySeries(goals, today)

	assert.Equal(t, 5.0, series[6].Water)
	assert.Equal(t, 1800.0, series[4].Calories)
	assert.Equal(t, 7.5, series[0].Hours)
}

func TestWeeklySeries_IgnoresRecordsOutsideWindow(t *testing.T) {
	today := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)
	goals := []models.Goal{
		// Day before the window opens, and a same-weekday record from a
		// previous week: keyed by date, neither may leak in.
		{Type: models.GoalWater, Value: 9, Date: time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)},
		{Type: models.GoalWater, Value: 4, Date: time.Date(2026, 8, 12, 12, 0, 0, 0, time.UTC)},
	}

	series := WeeklySeries(goals, today)

	for _, point := range series {
		assert.Zero(t, point.Water, "day %s should be empty", point.Date)
	}
}

func TestWeeklySeries_WindowCrossesMonthBoundary(t *testing.T) {
	// 2026-09-02 is a Wednesday; window runs Aug 27 through Sep 2.
	today := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)

	series := WeeklySeries(nil, today)

	require.Len(t, series, 7)
	assert.Equal(t, "2026-08-27", series[0].Date)
	assert.Equal(t, "Thu", series[0].Day)
	assert.Equal(t, "2026-09-02", series[6].Date)
	assert.Equal(t, "Wed", series[6].Day)
}
