package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthyconnect/healthtrack-api/internal/aggregate"
	"github.com/healthyconnect/healthtrack-api/internal/apierrors"
	"github.com/healthyconnect/healthtrack-api/internal/models"
)

// dayWindow builds the filter matching a single user's record for one
// metric on one UTC calendar day. The same window backs the upsert and
// the dashboard reads, so a day can never hold two records.
func dayWindow(userID primitive.ObjectID, goalType string, day time.Time) bson.M {
	start := aggregate.DayStart(day)
	return bson.M{
		"userId": userID,
		"type":   goalType,
		"date":   bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)},
	}
}

// AddGoal upserts today's value for one metric. The target is only
// written on insert (with the type default), never overwritten by a
// value log.
func (h *Handler) AddGoal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		Type  string   `json:"type" binding:"required"`
		Value *float64 `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !models.ValidGoalType(req.Type) || *req.Value < 0 {
		respondError(c, fmt.Errorf("%w: invalid goal type or value", apierrors.ErrValidation))
		return
	}

	update := bson.M{
		"$set": bson.M{"value": *req.Value},
		"$setOnInsert": bson.M{
			"userId": userID,
			"type":   req.Type,
			"target": models.DefaultTarget(req.Type),
			"date":   aggregate.DayStart(time.Now()),
		},
	}

	var goal models.Goal
	err := h.goals().FindOneAndUpdate(
		c.Request.Context(),
		dayWindow(userID, req.Type, time.Now()),
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&goal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	c.JSON(http.StatusOK, goal)
}

// SetGoalTarget upserts today's target for one metric, leaving any
// already-logged value alone.
func (h *Handler) SetGoalTarget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		Type   string   `json:"type" binding:"required"`
		Target *float64 `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !models.ValidGoalType(req.Type) || *req.Target <= 0 {
		respondError(c, fmt.Errorf("%w: invalid goal type or target", apierrors.ErrValidation))
		return
	}

	update := bson.M{
		"$set": bson.M{"target": *req.Target},
		"$setOnInsert": bson.M{
			"userId": userID,
			"type":   req.Type,
			"value":  0.0,
			"date":   aggregate.DayStart(time.Now()),
		},
	}

	var goal models.Goal
	err := h.goals().FindOneAndUpdate(
		c.Request.Context(),
		dayWindow(userID, req.Type, time.Now()),
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&goal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set target"})
		return
	}

	c.JSON(http.StatusOK, goal)
}

// GetGoals returns the caller's goal records inside an inclusive day
// range, date ascending. Defaults to the last 7 days.
// Example: /api/goals?from=2026-08-01&to=2026-08-07&type=water
func (h *Handler) GetGoals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	to := aggregate.DayStart(time.Now())
	from := to.AddDate(0, 0, -6)
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, time.UTC)
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid 'from' date, use YYYY-MM-DD", apierrors.ErrValidation))
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, time.UTC)
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid 'to' date, use YYYY-MM-DD", apierrors.ErrValidation))
			return
		}
		to = parsed
	}

	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": from, "$lt": to.AddDate(0, 0, 1)},
	}
	if goalType := c.Query("type"); goalType != "" {
		if !models.ValidGoalType(goalType) {
			respondError(c, fmt.Errorf("%w: invalid goal type", apierrors.ErrValidation))
			return
		}
		filter["type"] = goalType
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := h.goals().Find(c.Request.Context(), filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goals"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var goals []models.Goal
	if err = cursor.All(c.Request.Context(), &goals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode goals"})
		return
	}
	if goals == nil {
		goals = make([]models.Goal, 0)
	}

	c.JSON(http.StatusOK, goals)
}

// PatientDashboard returns today's snapshot, the weekly chart series,
// doctor recommendations and reminders in one payload.
func (h *Handler) PatientDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	err := h.users().FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	weekStart := aggregate.DayStart(now).AddDate(0, 0, -6)
	cursor, err := h.goals().Find(c.Request.Context(), bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": weekStart},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goals"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var goals []models.Goal
	if err = cursor.All(c.Request.Context(), &goals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode goals"})
		return
	}

	todayStart := aggregate.DayStart(now)
	var todayGoals []models.Goal
	for _, g := range goals {
		if !g.Date.Before(todayStart) {
			todayGoals = append(todayGoals, g)
		}
	}

	recommendations := user.DoctorRecommendations
	if recommendations == nil {
		recommendations = make([]models.Recommendation, 0)
	}
	reminders := user.Reminders
	if reminders == nil {
		reminders = make([]models.Reminder, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
		},
		"today":           aggregate.TodaySnapshot(todayGoals),
		"weekly":          aggregate.WeeklySeries(goals, now),
		"recommendations": recommendations,
		"reminders":       reminders,
		"healthTip":       "Stay hydrated! Drink 3L of water per day.",
	})
}
