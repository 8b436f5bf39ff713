package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthyconnect/healthtrack-api/internal/models"
)

func TestDayWindow(t *testing.T) {
	userID := primitive.NewObjectID()
	at := time.Date(2026, 8, 26, 17, 30, 0, 0, time.UTC)

	filter := dayWindow(userID, models.GoalWater, at)

	assert.Equal(t, userID, filter["userId"])
	assert.Equal(t, models.GoalWater, filter["type"])

	dateRange, ok := filter["date"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), dateRange["$gte"])
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), dateRange["$lt"])
}

func TestDayWindow_SameDayProducesSameFilter(t *testing.T) {
	// Two writes on the same calendar day must address the same record;
	// this is what keeps same-day logs an update instead of an append.
	userID := primitive.NewObjectID()
	morning := time.Date(2026, 8, 26, 0, 0, 1, 0, time.UTC)
	night := time.Date(2026, 8, 26, 23, 59, 59, 0, time.UTC)

	assert.Equal(t,
		dayWindow(userID, models.GoalSleep, morning),
		dayWindow(userID, models.GoalSleep, night),
	)
}

func TestDefaultTargets(t *testing.T) {
	assert.Equal(t, 8.0, models.DefaultTarget(models.GoalWater))
	assert.Equal(t, 2000.0, models.DefaultTarget(models.GoalCalories))
	assert.Equal(t, 8.0, models.DefaultTarget(models.GoalSleep))
}

// goalRouter wires the goal routes behind a stub auth layer so request
// validation can be exercised without a database.
func goalRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", primitive.NewObjectID().Hex())
		c.Set("userRole", models.RolePatient)
	})
	router.POST("/goals/add", h.AddGoal)
	router.POST("/goals/set-target", h.SetGoalTarget)
	router.GET("/goals", h.GetGoals)
	return router
}

func TestGoalValidationRejectedBeforeStore(t *testing.T) {
	// A nil database handle doubles as proof that these requests are
	// rejected before any store access.
	router := goalRouter(NewHandler(nil, nil))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"unknown goal type", http.MethodPost, "/goals/add", `{"type":"steps","value":10}`},
		{"negative value", http.MethodPost, "/goals/add", `{"type":"water","value":-1}`},
		{"non-positive target", http.MethodPost, "/goals/set-target", `{"type":"sleep","target":0}`},
		{"unknown target type", http.MethodPost, "/goals/set-target", `{"type":"steps","target":5}`},
		{"malformed from date", http.MethodGet, "/goals?from=26-08-2026", ""},
		{"malformed to date", http.MethodGet, "/goals?to=yesterday", ""},
		{"unknown filter type", http.MethodGet, "/goals?type=steps", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "invalid")
		})
	}
}
